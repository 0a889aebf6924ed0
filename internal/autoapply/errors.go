package autoapply

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenericFailureMessage is shown for every failure the user cannot fix by
// editing their profile.
const GenericFailureMessage = "Auto-apply failed. Please try again or apply manually."

// ProfileIncompleteError is returned when required profile fields are missing.
type ProfileIncompleteError struct {
	MissingFields []string
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf("Profile incomplete. Missing: %s", strings.Join(e.MissingFields, ", "))
}

// JobNotFoundError is returned when the job does not exist or is no longer active.
type JobNotFoundError struct {
	JobID    uuid.UUID
	Inactive bool
}

func (e *JobNotFoundError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("job %s is no longer accepting applications", e.JobID)
	}
	return fmt.Sprintf("job %s not found", e.JobID)
}

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage State
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// ErrInvalidRequest is returned for requests missing a user, job or valid user type.
var ErrInvalidRequest = errors.New("invalid auto-apply request")

// UserMessage returns the message to show for a failed run: actionable for an
// incomplete profile, generic otherwise.
func UserMessage(err error) string {
	var incomplete *ProfileIncompleteError
	if errors.As(err, &incomplete) {
		return incomplete.Error()
	}
	return GenericFailureMessage
}
