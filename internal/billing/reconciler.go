package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/db"
	"github.com/jonathan/autoapply/internal/notify"
	"github.com/jonathan/autoapply/internal/types"
)

// TransactionStore persists payment transactions.
type TransactionStore interface {
	CountUserCouponUses(ctx context.Context, userID uuid.UUID, code string) (int, error)
	CountCouponUses(ctx context.Context, code string) (int, error)
	WalletBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	InsertPaymentTransaction(ctx context.Context, t *db.PaymentTransaction, couponCap int) error
	SetTransactionGatewayOrder(ctx context.Context, id uuid.UUID, orderID string) error
	MarkTransactionFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkTransactionSuccess(ctx context.Context, id uuid.UUID, paymentID string) error
	GetTransactionByOrderID(ctx context.Context, orderID string) (*db.PaymentTransaction, error)
}

// Reconciler validates orders and opens gateway orders for them.
type Reconciler struct {
	catalog        *Catalog
	store          TransactionStore
	gateway        Gateway
	notifier       notify.Notifier
	gatewayTimeout time.Duration
}

// DefaultGatewayTimeout bounds one gateway call.
const DefaultGatewayTimeout = 15 * time.Second

// NewReconciler creates a Reconciler. notifier may be nil.
func NewReconciler(catalog *Catalog, store TransactionStore, gateway Gateway, notifier notify.Notifier) *Reconciler {
	return &Reconciler{
		catalog:        catalog,
		store:          store,
		gateway:        gateway,
		notifier:       notifier,
		gatewayTimeout: DefaultGatewayTimeout,
	}
}

// WithGatewayTimeout overrides the gateway call timeout.
func (r *Reconciler) WithGatewayTimeout(d time.Duration) *Reconciler {
	if d > 0 {
		r.gatewayTimeout = d
	}
	return r
}

// Catalog returns the catalog prices are computed from.
func (r *Reconciler) Catalog() *Catalog {
	return r.catalog
}

// Quote prices an order for a user, including the checks that need the
// store: per-user coupon reuse, the global coupon cap and the wallet balance.
// Checks run in order: plan, coupon reuse, coupon rule and add-ons, coupon
// cap, wallet.
// Nothing is written. With uuid.Nil the per-user checks are skipped.
func (r *Reconciler) Quote(ctx context.Context, userID uuid.UUID, in QuoteInput) (*Quote, error) {
	if in.PlanID != AddOnOnlyPlanID {
		if _, ok := r.catalog.Plan(in.PlanID); !ok {
			return nil, &InvalidPlanError{PlanID: in.PlanID}
		}
	}

	code := NormalizeCoupon(in.CouponCode)
	in.CouponCode = code
	if code != "" && userID != uuid.Nil {
		if err := r.checkCouponUnused(ctx, userID, code); err != nil {
			return nil, err
		}
	}

	quote, err := ComputeQuote(r.catalog, in)
	if err != nil {
		return nil, err
	}

	if quote.CouponCap > 0 {
		used, err := r.store.CountCouponUses(ctx, code)
		if err != nil {
			return nil, &StoreError{Message: "failed to count coupon uses", Cause: err}
		}
		if used >= quote.CouponCap {
			return nil, &InvalidCouponError{Code: code, PlanID: in.PlanID, Reason: "usage limit reached"}
		}
	}

	if quote.WalletDeduction > 0 && userID != uuid.Nil {
		balance, err := r.store.WalletBalance(ctx, userID)
		if err != nil {
			return nil, &StoreError{Message: "failed to read wallet balance", Cause: err}
		}
		if quote.WalletDeduction > balance {
			return nil, &InsufficientWalletError{Requested: quote.WalletDeduction, Balance: balance}
		}
	}
	return quote, nil
}

// Reconcile recomputes the order total, rejects any disagreement with the
// client's amount, records a pending transaction and opens a gateway order.
// A failed gateway call marks the transaction failed.
func (r *Reconciler) Reconcile(ctx context.Context, userID uuid.UUID, req types.CreateOrderRequest) (*types.CreateOrderResponse, error) {
	in := QuoteInput{
		PlanID:          req.PlanID,
		CouponCode:      req.CouponCode,
		WalletDeduction: req.WalletDeduction,
		AddOnsTotal:     req.AddOnsTotal,
		SelectedAddOns:  req.SelectedAddOns,
	}

	quote, err := r.Quote(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	if len(req.SelectedAddOns) > 0 && quote.AddOnsTotal != req.AddOnsTotal {
		return nil, r.tampered(ctx, userID, req, &PriceMismatchError{Field: "addons_total", Expected: quote.AddOnsTotal, Got: req.AddOnsTotal})
	}
	if quote.FinalAmount != req.Amount {
		return nil, r.tampered(ctx, userID, req, &PriceMismatchError{Field: "amount", Expected: quote.FinalAmount, Got: req.Amount})
	}

	selected, err := json.Marshal(selectedOrEmpty(req.SelectedAddOns))
	if err != nil {
		return nil, &StoreError{Message: "failed to encode add-ons", Cause: err}
	}

	txn := &db.PaymentTransaction{
		UserID:          userID,
		PlanID:          req.PlanID,
		CouponCode:      quote.CouponCode,
		BaseAmount:      quote.BasePrice,
		DiscountAmount:  quote.Discount,
		WalletDeduction: quote.WalletDeduction,
		AddOnsTotal:     quote.AddOnsTotal,
		FinalAmount:     quote.FinalAmount,
		Currency:        quote.Currency,
		PurchaseType:    purchaseType(req),
		SelectedAddOns:  selected,
		Status:          db.TransactionPending,
	}
	if err := r.store.InsertPaymentTransaction(ctx, txn, quote.CouponCap); err != nil {
		switch {
		case errors.Is(err, db.ErrCouponCapReached):
			return nil, &InvalidCouponError{Code: quote.CouponCode, PlanID: req.PlanID, Reason: "usage limit reached"}
		case errors.Is(err, db.ErrCouponAlreadyClaimed):
			return nil, &CouponAlreadyUsedError{Code: quote.CouponCode}
		case errors.Is(err, db.ErrInsufficientWallet):
			return nil, &InsufficientWalletError{Requested: quote.WalletDeduction}
		}
		return nil, &StoreError{Message: "failed to record transaction", Cause: err}
	}

	order, err := r.createGatewayOrder(ctx, txn)
	if err != nil {
		r.abandon(ctx, txn, "Payment gateway order failed", err)
		return nil, &GatewayOrderError{Message: "failed to create payment order", Cause: err}
	}

	if err := r.store.SetTransactionGatewayOrder(ctx, txn.ID, order.ID); err != nil {
		r.abandon(ctx, txn, "Gateway order not recorded", fmt.Errorf("gateway order %s not recorded: %w", order.ID, err))
		return nil, &StoreError{Message: "failed to record gateway order", Cause: err}
	}

	if quote.FinalAmount == 0 {
		if err := r.store.MarkTransactionSuccess(ctx, txn.ID, ""); err != nil {
			return nil, &StoreError{Message: "failed to complete free order", Cause: err}
		}
		log.Printf("[billing] completed free order %s for user %s", order.ID, userID)
	}

	log.Printf("[billing] order %s: plan=%s final=%d transaction=%s", order.ID, req.PlanID, quote.FinalAmount, txn.ID)
	return &types.CreateOrderResponse{
		OrderID:       order.ID,
		Amount:        quote.FinalAmount,
		Currency:      quote.Currency,
		TransactionID: txn.ID,
		KeyID:         r.gateway.KeyID(),
	}, nil
}

// VerifyPayment checks a payment callback signature and completes the
// transaction. Repeating a verified callback is a no-op.
func (r *Reconciler) VerifyPayment(ctx context.Context, userID uuid.UUID, req types.VerifyPaymentRequest) (*db.PaymentTransaction, error) {
	txn, err := r.store.GetTransactionByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, &StoreError{Message: "failed to load transaction", Cause: err}
	}
	if txn == nil || txn.UserID != userID {
		return nil, &TransactionNotFoundError{OrderID: req.OrderID}
	}

	if !r.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		notify.Send(ctx, r.notifier, notify.Event{Level: notify.LevelAlert, Title: "Invalid payment signature"}.
			With("user", userID.String()).
			With("order", req.OrderID))
		return nil, &SignatureError{OrderID: req.OrderID}
	}

	if txn.Status == db.TransactionSuccess && txn.GatewayPaymentID == req.PaymentID {
		return txn, nil
	}

	if err := r.store.MarkTransactionSuccess(ctx, txn.ID, req.PaymentID); err != nil {
		return nil, &StoreError{Message: "failed to complete transaction", Cause: err}
	}
	txn.Status = db.TransactionSuccess
	txn.GatewayPaymentID = req.PaymentID
	log.Printf("[billing] payment %s verified for order %s", req.PaymentID, req.OrderID)
	return txn, nil
}

// abandon marks a pending transaction failed, which releases its coupon slot
// and refunds its wallet deduction, and raises an ops alert.
func (r *Reconciler) abandon(ctx context.Context, txn *db.PaymentTransaction, title string, cause error) {
	reason := cause.Error()
	if err := r.store.MarkTransactionFailed(ctx, txn.ID, reason); err != nil {
		log.Printf("[billing] Warning: failed to mark transaction %s failed: %v", txn.ID, err)
	}
	notify.Send(ctx, r.notifier, notify.Event{Level: notify.LevelAlert, Title: title}.
		With("user", txn.UserID.String()).
		With("transaction", txn.ID.String()).
		With("amount", strconv.FormatInt(txn.FinalAmount, 10)).
		With("error", reason))
}

func (r *Reconciler) checkCouponUnused(ctx context.Context, userID uuid.UUID, code string) error {
	used, err := r.store.CountUserCouponUses(ctx, userID, code)
	if err != nil {
		return &StoreError{Message: "failed to check coupon use", Cause: err}
	}
	if used > 0 {
		return &CouponAlreadyUsedError{Code: code}
	}
	return nil
}

func (r *Reconciler) createGatewayOrder(ctx context.Context, txn *db.PaymentTransaction) (*GatewayOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, r.gatewayTimeout)
	defer cancel()

	notes := map[string]string{
		"transaction_id": txn.ID.String(),
		"user_id":        txn.UserID.String(),
		"plan_id":        txn.PlanID,
	}
	if txn.CouponCode != "" {
		notes["coupon_code"] = txn.CouponCode
	}
	return r.gateway.CreateOrder(ctx, txn.FinalAmount, txn.Currency, receipt(txn.ID), notes)
}

// tampered alerts on a price mismatch and returns it.
func (r *Reconciler) tampered(ctx context.Context, userID uuid.UUID, req types.CreateOrderRequest, err *PriceMismatchError) error {
	log.Printf("[billing] Warning: price mismatch for user %s on plan %s: %v", userID, req.PlanID, err)
	notify.Send(ctx, r.notifier, notify.Event{Level: notify.LevelAlert, Title: "Order price mismatch"}.
		With("user", userID.String()).
		With("plan", req.PlanID).
		With("coupon", req.CouponCode).
		With("field", err.Field).
		With("expected", strconv.FormatInt(err.Expected, 10)).
		With("got", strconv.FormatInt(err.Got, 10)))
	return err
}

// receipt is the gateway receipt id; Razorpay caps it at 40 characters.
func receipt(id uuid.UUID) string {
	return fmt.Sprintf("rcpt_%s", id.String()[:24])
}

func purchaseType(req types.CreateOrderRequest) string {
	switch {
	case req.PurchaseType != "":
		return req.PurchaseType
	case req.PlanID == AddOnOnlyPlanID:
		return types.PurchaseAddOnOnly
	case len(req.SelectedAddOns) > 0 || req.AddOnsTotal > 0:
		return types.PurchasePlanWithAddOn
	default:
		return types.PurchasePlan
	}
}

func selectedOrEmpty(s []types.SelectedAddOn) []types.SelectedAddOn {
	if s == nil {
		return []types.SelectedAddOn{}
	}
	return s
}
