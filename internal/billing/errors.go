// Package billing reconciles client-submitted order totals against
// server-computed prices and creates payment gateway orders.
package billing

import (
	"errors"
	"fmt"
)

// Error codes returned to API clients.
const (
	CodeInvalidPlan         = "INVALID_PLAN"
	CodeInvalidCoupon       = "INVALID_COUPON"
	CodeCouponAlreadyUsed   = "COUPON_ALREADY_USED"
	CodePriceMismatch       = "PRICE_MISMATCH"
	CodeGatewayError        = "GATEWAY_ERROR"
	CodeInvalidAddOn        = "INVALID_ADDON"
	CodeInsufficientWallet  = "INSUFFICIENT_WALLET"
	CodeInvalidSignature    = "INVALID_SIGNATURE"
	CodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// InvalidPlanError is returned for an unknown plan id.
type InvalidPlanError struct {
	PlanID string
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("invalid plan: %q", e.PlanID)
}

// InvalidCouponError is returned when a coupon does not apply to the plan or
// has no uses left.
type InvalidCouponError struct {
	Code   string
	PlanID string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("invalid coupon %q for plan %q: %s", e.Code, e.PlanID, e.Reason)
}

// CouponAlreadyUsedError is returned when the user already has a successful
// or pending order with the coupon.
type CouponAlreadyUsedError struct {
	Code string
}

func (e *CouponAlreadyUsedError) Error() string {
	return fmt.Sprintf("coupon %q has already been used", e.Code)
}

// PriceMismatchError is returned when the client total disagrees with the
// server total.
type PriceMismatchError struct {
	Field    string
	Expected int64
	Got      int64
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("price mismatch on %s: expected %d, got %d", e.Field, e.Expected, e.Got)
}

// InvalidAddOnError is returned for an unknown add-on id or an out-of-range
// add-on line.
type InvalidAddOnError struct {
	AddOnID string
	Reason  string
}

func (e *InvalidAddOnError) Error() string {
	if e.Reason != "" {
		if e.AddOnID == "" {
			return fmt.Sprintf("invalid add-ons: %s", e.Reason)
		}
		return fmt.Sprintf("invalid add-on %q: %s", e.AddOnID, e.Reason)
	}
	return fmt.Sprintf("invalid add-on: %q", e.AddOnID)
}

// InsufficientWalletError is returned when a wallet deduction exceeds the
// user's wallet balance.
type InsufficientWalletError struct {
	Requested int64
	Balance   int64
}

func (e *InsufficientWalletError) Error() string {
	return fmt.Sprintf("wallet deduction %d exceeds balance %d", e.Requested, e.Balance)
}

// GatewayOrderError is returned when the payment gateway rejects the order.
type GatewayOrderError struct {
	Message string
	Cause   error
}

func (e *GatewayOrderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway order error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway order error: %s", e.Message)
}

func (e *GatewayOrderError) Unwrap() error {
	return e.Cause
}

// SignatureError is returned when a payment callback signature does not verify.
type SignatureError struct {
	OrderID string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid payment signature for order %s", e.OrderID)
}

// TransactionNotFoundError is returned when no transaction of the user matches an order.
type TransactionNotFoundError struct {
	OrderID string
}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("no transaction for order %s", e.OrderID)
}

// StoreError wraps a transaction store failure.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the stable client-facing code of a billing error.
func ErrorCode(err error) string {
	var (
		invalidPlan   *InvalidPlanError
		invalidCoupon *InvalidCouponError
		couponUsed    *CouponAlreadyUsedError
		mismatch      *PriceMismatchError
		invalidAddOn  *InvalidAddOnError
		wallet        *InsufficientWalletError
		gateway       *GatewayOrderError
		signature     *SignatureError
		notFound      *TransactionNotFoundError
	)
	switch {
	case errors.As(err, &invalidPlan):
		return CodeInvalidPlan
	case errors.As(err, &invalidCoupon):
		return CodeInvalidCoupon
	case errors.As(err, &couponUsed):
		return CodeCouponAlreadyUsed
	case errors.As(err, &mismatch):
		return CodePriceMismatch
	case errors.As(err, &invalidAddOn):
		return CodeInvalidAddOn
	case errors.As(err, &wallet):
		return CodeInsufficientWallet
	case errors.As(err, &gateway):
		return CodeGatewayError
	case errors.As(err, &signature):
		return CodeInvalidSignature
	case errors.As(err, &notFound):
		return CodeTransactionNotFound
	default:
		return CodeInternal
	}
}
