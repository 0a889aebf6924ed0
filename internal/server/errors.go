// Package server provides the HTTP REST API for auto-apply and orders.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/db"
)

// Error codes for failures outside the billing taxonomy.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL_ERROR"
	CodeAutoApply  = "AUTO_APPLY_FAILED"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts validator output into an ErrValidation naming the
// first failing field.
func validationError(err error) *ErrValidation {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed on '%s'", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		invalidPlan   *billing.InvalidPlanError
		invalidAddOn  *billing.InvalidAddOnError
		invalidCoupon *billing.InvalidCouponError
		mismatch      *billing.PriceMismatchError
		wallet        *billing.InsufficientWalletError
		couponUsed    *billing.CouponAlreadyUsedError
		signature     *billing.SignatureError
		notFound      *billing.TransactionNotFoundError
		gateway       *billing.GatewayOrderError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &invalidPlan), errors.As(err, &invalidAddOn),
		errors.Is(err, autoapply.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &signature), errors.As(err, &wallet):
		return http.StatusPaymentRequired
	case errors.As(err, &notFound), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &couponUsed):
		return http.StatusConflict
	case errors.As(err, &invalidCoupon), errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.As(err, &gateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the machine code for the JSON error body.
func errorCode(err error) string {
	var validation *ErrValidation
	switch {
	case errors.As(err, &validation):
		return CodeValidation
	case errors.Is(err, db.ErrNotFound):
		return CodeNotFound
	}
	return billing.ErrorCode(err)
}

// outcomeStatus maps a finished auto-apply run to a response status.
func outcomeStatus(out autoapply.Outcome) int {
	if out.Success {
		return http.StatusOK
	}
	switch out.FailedStage {
	case autoapply.StateIdle:
		return http.StatusBadRequest
	case autoapply.StateValidatingProfile:
		return http.StatusUnprocessableEntity
	case autoapply.StateFetchingJob:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
