// Package suitability re-ranks a resume's projects against a job, replacing
// projects that do not support the application.
package suitability

import "fmt"

// RerankingError describes a failed classification. Callers log it and keep
// the original resume; it never aborts an application.
type RerankingError struct {
	Message string
	Cause   error
}

func (e *RerankingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reranking error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("reranking error: %s", e.Message)
}

func (e *RerankingError) Unwrap() error {
	return e.Cause
}
