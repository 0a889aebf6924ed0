// Package assembly builds a structured resume from a user's profile and the
// records the platform holds about them.
package assembly

import (
	"fmt"

	"github.com/google/uuid"
)

// ProfileNotFoundError is returned when the user has no profile row.
type ProfileNotFoundError struct {
	UserID uuid.UUID
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile not found: %s", e.UserID)
}

// AssemblyError wraps a fatal failure while reading the profile.
type AssemblyError struct {
	Message string
	Cause   error
}

func (e *AssemblyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assembly error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("assembly error: %s", e.Message)
}

func (e *AssemblyError) Unwrap() error {
	return e.Cause
}

// Warning records a best-effort source that could not be read.
type Warning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}
