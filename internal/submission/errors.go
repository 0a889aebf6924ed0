// Package submission persists optimized resumes and submits them through the
// remote apply action.
package submission

import "fmt"

// PersistenceError is returned when an optimized resume cannot be scored,
// published or stored.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persistence error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persistence error: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// SubmissionError is returned when the remote apply action cannot be reached
// or answers with something unusable.
type SubmissionError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *SubmissionError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("submission error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("submission error: %s", msg)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
