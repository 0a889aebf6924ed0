//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Purchase types accepted by order creation.
const (
	PurchasePlan          = "plan"
	PurchaseAddOnOnly     = "addon_only"
	PurchasePlanWithAddOn = "plan_with_addons"
)

// MaxAddOnQuantity bounds the quantity of one add-on line.
const MaxAddOnQuantity = 10

// SelectedAddOn is one add-on line in an order.
type SelectedAddOn struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0,max=10"`
}

// CreateOrderRequest is the client payload for creating a payment order.
// All amounts are integer minor units (paise).
type CreateOrderRequest struct {
	PlanID          string          `json:"plan_id" validate:"required"`
	Amount          int64           `json:"amount" validate:"min=0"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	WalletDeduction int64           `json:"wallet_deduction" validate:"min=0"`
	AddOnsTotal     int64           `json:"addons_total" validate:"min=0"`
	SelectedAddOns  []SelectedAddOn `json:"selected_addons,omitempty" validate:"dive"`
	PurchaseType    string          `json:"purchase_type,omitempty" validate:"omitempty,oneof=plan addon_only plan_with_addons"`
}

// Validate validates the CreateOrderRequest using the validator.
func (r *CreateOrderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CreateOrderResponse is returned once a gateway order exists.
type CreateOrderResponse struct {
	OrderID       string    `json:"order_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID uuid.UUID `json:"transaction_id"`
	KeyID         string    `json:"key_id,omitempty"`
}

// VerifyPaymentRequest carries the gateway callback fields for signature checks.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// Validate validates the VerifyPaymentRequest using the validator.
func (r *VerifyPaymentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// QuoteRequest asks for a price breakdown without creating an order.
type QuoteRequest struct {
	PlanID          string          `json:"plan_id" validate:"required"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	WalletDeduction int64           `json:"wallet_deduction" validate:"min=0"`
	SelectedAddOns  []SelectedAddOn `json:"selected_addons,omitempty" validate:"dive"`
}

// Validate validates the QuoteRequest using the validator.
func (r *QuoteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// WalletCreditRequest is an admin top-up of a user's wallet, in paise.
type WalletCreditRequest struct {
	Amount int64  `json:"amount" validate:"required,min=1,max=10000000"`
	Note   string `json:"note,omitempty" validate:"max=200"`
}

// Validate validates the WalletCreditRequest using the validator.
func (r *WalletCreditRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
