// Package profile decides whether a user profile is complete enough to drive
// automatic job applications.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/types"
)

// Field names reported in MissingFields, in check order.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldEducation = "education"
	FieldSkills    = "skills"

	// MissingProfile is the sole entry reported when no profile exists.
	MissingProfile = "profile"
)

// Store reads profiles. Implementations return nil, nil when none exists.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
}

// Validate reports which required fields are missing. It is pure and never fails.
func Validate(p *types.Profile) types.ProfileCompleteness {
	if p == nil {
		return types.ProfileCompleteness{IsComplete: false, MissingFields: []string{MissingProfile}}
	}

	missing := []string{}
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	if len(p.Education) == 0 {
		missing = append(missing, FieldEducation)
	}
	if len(p.Skills) == 0 {
		missing = append(missing, FieldSkills)
	}

	return types.ProfileCompleteness{IsComplete: len(missing) == 0, MissingFields: missing}
}

// Check loads the user's profile and validates it.
func Check(ctx context.Context, store Store, userID uuid.UUID) (types.ProfileCompleteness, error) {
	p, err := store.GetProfile(ctx, userID)
	if err != nil {
		return types.ProfileCompleteness{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return Validate(p), nil
}
