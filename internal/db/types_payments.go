package db

import (
	"time"

	"github.com/google/uuid"
)

// Transaction statuses
const (
	TransactionPending = "pending"
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
)

// PaymentTransaction is one order attempt. Amounts are minor units (paise).
type PaymentTransaction struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	PlanID           string    `json:"plan_id"`
	CouponCode       string    `json:"coupon_code,omitempty"`
	BaseAmount       int64     `json:"base_amount"`
	DiscountAmount   int64     `json:"discount_amount"`
	WalletDeduction  int64     `json:"wallet_deduction"`
	AddOnsTotal      int64     `json:"addons_total"`
	FinalAmount      int64     `json:"final_amount"`
	Currency         string    `json:"currency"`
	PurchaseType     string    `json:"purchase_type"`
	SelectedAddOns   []byte    `json:"-"`
	Status           string    `json:"status"`
	GatewayOrderID   string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
