package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrCouponCapReached is returned when a globally capped coupon has no slots left.
	ErrCouponCapReached = errors.New("coupon usage limit reached")
	// ErrCouponAlreadyClaimed is returned when the user already holds a live use of the coupon.
	ErrCouponAlreadyClaimed = errors.New("coupon already used by this user")
	// ErrInsufficientWallet is returned when a wallet deduction exceeds the balance.
	ErrInsufficientWallet = errors.New("insufficient wallet balance")
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const paymentColumns = `id, user_id, plan_id, COALESCE(coupon_code, ''), base_amount, discount_amount,
	wallet_deduction, addons_total, final_amount, currency, purchase_type, selected_addons, status,
	COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''), COALESCE(error_message, ''),
	created_at, updated_at`

func scanPayment(row pgx.Row) (*PaymentTransaction, error) {
	var t PaymentTransaction
	err := row.Scan(&t.ID, &t.UserID, &t.PlanID, &t.CouponCode, &t.BaseAmount, &t.DiscountAmount,
		&t.WalletDeduction, &t.AddOnsTotal, &t.FinalAmount, &t.Currency, &t.PurchaseType, &t.SelectedAddOns,
		&t.Status, &t.GatewayOrderID, &t.GatewayPaymentID, &t.ErrorMessage, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func countUserCouponUses(ctx context.Context, q querier, userID uuid.UUID, code string) (int, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_transactions
		 WHERE user_id = $1 AND coupon_code = $2 AND status IN ('success', 'pending')`,
		userID, code,
	).Scan(&n)
	return n, err
}

func countCouponUses(ctx context.Context, q querier, code string) (int, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment_transactions
		 WHERE coupon_code = $1 AND status IN ('success', 'pending')`,
		code,
	).Scan(&n)
	return n, err
}

// CountUserCouponUses counts a user's successful or pending transactions with the coupon.
func (db *DB) CountUserCouponUses(ctx context.Context, userID uuid.UUID, code string) (int, error) {
	n, err := countUserCouponUses(ctx, db.pool, userID, code)
	if err != nil {
		return 0, fmt.Errorf("failed to count coupon uses: %w", err)
	}
	return n, nil
}

// CountCouponUses counts successful or pending transactions with the coupon across all users.
func (db *DB) CountCouponUses(ctx context.Context, code string) (int, error) {
	n, err := countCouponUses(ctx, db.pool, code)
	if err != nil {
		return 0, fmt.Errorf("failed to count coupon uses: %w", err)
	}
	return n, nil
}

// InsertPaymentTransaction stores a transaction and fills its ID and timestamps.
//
// The insert runs in a database transaction together with its claims:
//   - a wallet deduction is debited from the user's wallet, failing with
//     ErrInsufficientWallet when the balance does not cover it;
//   - a coupon is claimed under a transaction-scoped advisory lock keyed by
//     the coupon code, re-checking per-user reuse and, when couponCap > 0, the
//     global cap, so concurrent orders cannot claim the same slot.
func (db *DB) InsertPaymentTransaction(ctx context.Context, t *PaymentTransaction, couponCap int) error {
	if len(t.SelectedAddOns) == 0 {
		t.SelectedAddOns = []byte("[]")
	}
	if t.Status == "" {
		t.Status = TransactionPending
	}

	return db.withTx(ctx, func(tx pgx.Tx) error {
		if t.CouponCode != "" {
			if err := claimCoupon(ctx, tx, t, couponCap); err != nil {
				return err
			}
		}

		if t.WalletDeduction > 0 {
			result, err := tx.Exec(ctx,
				`UPDATE wallets SET balance = balance - $2, updated_at = NOW()
				 WHERE user_id = $1 AND balance >= $2`,
				t.UserID, t.WalletDeduction,
			)
			if err != nil {
				return fmt.Errorf("failed to debit wallet: %w", err)
			}
			if result.RowsAffected() == 0 {
				return ErrInsufficientWallet
			}
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO payment_transactions (user_id, plan_id, coupon_code, base_amount, discount_amount,
			   wallet_deduction, addons_total, final_amount, currency, purchase_type, selected_addons, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING id, created_at, updated_at`,
			t.UserID, t.PlanID, nullIfEmpty(t.CouponCode), t.BaseAmount, t.DiscountAmount,
			t.WalletDeduction, t.AddOnsTotal, t.FinalAmount, t.Currency, t.PurchaseType, t.SelectedAddOns, t.Status,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert payment transaction: %w", err)
		}
		return nil
	})
}

func claimCoupon(ctx context.Context, tx pgx.Tx, t *PaymentTransaction, couponCap int) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "coupon:"+t.CouponCode); err != nil {
		return fmt.Errorf("failed to lock coupon: %w", err)
	}

	used, err := countUserCouponUses(ctx, tx, t.UserID, t.CouponCode)
	if err != nil {
		return fmt.Errorf("failed to count coupon uses: %w", err)
	}
	if used > 0 {
		return ErrCouponAlreadyClaimed
	}

	if couponCap > 0 {
		total, err := countCouponUses(ctx, tx, t.CouponCode)
		if err != nil {
			return fmt.Errorf("failed to count coupon uses: %w", err)
		}
		if total >= couponCap {
			return ErrCouponCapReached
		}
	}
	return nil
}

// SetTransactionGatewayOrder records the gateway order created for a transaction.
func (db *DB) SetTransactionGatewayOrder(ctx context.Context, id uuid.UUID, orderID string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE payment_transactions SET gateway_order_id = $1, updated_at = NOW() WHERE id = $2`,
		orderID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set gateway order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkTransactionFailed moves a pending transaction to failed and refunds its
// wallet deduction. Transactions that are no longer pending are left alone.
func (db *DB) MarkTransactionFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		var userID uuid.UUID
		var deduction int64
		err := tx.QueryRow(ctx,
			`UPDATE payment_transactions SET status = 'failed', error_message = $1, updated_at = NOW()
			 WHERE id = $2 AND status = 'pending'
			 RETURNING user_id, wallet_deduction`,
			reason, id,
		).Scan(&userID, &deduction)
		if err != nil {
			if isNoRows(err) {
				return nil
			}
			return fmt.Errorf("failed to mark transaction failed: %w", err)
		}

		if deduction > 0 {
			if _, err := creditWallet(ctx, tx, userID, deduction); err != nil {
				return fmt.Errorf("failed to refund wallet: %w", err)
			}
		}
		return nil
	})
}

// MarkTransactionSuccess moves a pending transaction to success.
func (db *DB) MarkTransactionSuccess(ctx context.Context, id uuid.UUID, paymentID string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE payment_transactions SET status = 'success', gateway_payment_id = $1, updated_at = NOW()
		 WHERE id = $2 AND status = 'pending'`,
		nullIfEmpty(paymentID), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark transaction successful: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("pending payment transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTransactionByOrderID finds a transaction by gateway order ID. Returns nil, nil when not found.
func (db *DB) GetTransactionByOrderID(ctx context.Context, orderID string) (*PaymentTransaction, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions WHERE gateway_order_id = $1`,
		orderID,
	)
	t, err := scanPayment(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns a user's transactions, newest first.
func (db *DB) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]PaymentTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment transactions: %w", err)
	}
	defer rows.Close()

	txns := []PaymentTransaction{}
	for rows.Next() {
		t, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment transactions: %w", err)
	}
	return txns, nil
}
