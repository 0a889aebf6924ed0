//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ApplicationStatus is the state reported by the remote apply action.
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationFailed    ApplicationStatus = "failed"
)

// ApplicationResult is the outcome of submitting an optimized resume.
type ApplicationResult struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	ApplicationID string            `json:"application_id,omitempty"`
	Status        ApplicationStatus `json:"status"`
	ResumeURL     string            `json:"resume_url,omitempty"`
	ScreenshotURL string            `json:"screenshot_url,omitempty"`
	FallbackURL   string            `json:"fallback_url,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// OptimizedResumeRecord is the persisted snapshot of an optimized resume.
// It is inserted once and never updated.
type OptimizedResumeRecord struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	JobID             uuid.UUID       `json:"job_id"`
	Resume            json.RawMessage `json:"resume"`
	PDFURL            string          `json:"pdf_url"`
	DOCXURL           string          `json:"docx_url"`
	OptimizationScore int             `json:"optimization_score"`
	CreatedAt         time.Time       `json:"created_at"`
}

// AutoApplyRequest starts an auto-apply run. The user comes from the bearer token.
type AutoApplyRequest struct {
	JobID    uuid.UUID `json:"job_id" validate:"required"`
	UserType UserType  `json:"user_type" validate:"required,oneof=fresher student experienced"`
}

// Validate validates the AutoApplyRequest using the validator.
func (r *AutoApplyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
