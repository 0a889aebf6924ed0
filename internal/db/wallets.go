package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func creditWallet(ctx context.Context, q querier, userID uuid.UUID, amount int64) (int64, error) {
	var balance int64
	err := q.QueryRow(ctx,
		`INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET balance = wallets.balance + EXCLUDED.balance, updated_at = NOW()
		 RETURNING balance`,
		userID, amount,
	).Scan(&balance)
	return balance, err
}

// WalletBalance returns a user's wallet balance in paise. A user without a
// wallet has a zero balance.
func (db *DB) WalletBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := db.pool.QueryRow(ctx, `SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get wallet balance: %w", err)
	}
	return balance, nil
}

// CreditWallet adds amount paise to a user's wallet and returns the new balance.
func (db *DB) CreditWallet(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("wallet credit must be positive, got %d", amount)
	}
	balance, err := creditWallet(ctx, db.pool, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}
	return balance, nil
}
