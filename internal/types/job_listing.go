//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobListing is a posting on the job board. Descriptions may contain HTML.
type JobListing struct {
	ID                 uuid.UUID         `json:"id"`
	CompanyName        string            `json:"company_name"`
	CompanyLogoURL     string            `json:"company_logo_url,omitempty"`
	CompanyWebsite     string            `json:"company_website,omitempty"`
	RoleTitle          string            `json:"role_title"`
	Domain             string            `json:"domain,omitempty"`
	LocationType       string            `json:"location_type,omitempty"`
	City               string            `json:"city,omitempty"`
	ExperienceRequired string            `json:"experience_required,omitempty"`
	Qualification      string            `json:"qualification,omitempty"`
	CompensationAmount string            `json:"compensation_amount,omitempty"`
	CompensationType   string            `json:"compensation_type,omitempty"`
	ShortDescription   string            `json:"short_description,omitempty"`
	FullDescription    string            `json:"full_description,omitempty"`
	ApplicationURL     string            `json:"application_url,omitempty"`
	IsActive           bool              `json:"is_active"`
	Referral           *Referral         `json:"referral,omitempty"`
	SelectionProcess   *SelectionProcess `json:"selection_process,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// Referral carries optional referral contact details for a listing.
type Referral struct {
	Code    string `json:"code,omitempty"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
}

// SelectionProcess flags the rounds a listing runs.
type SelectionProcess struct {
	Coding    bool `json:"coding"`
	Aptitude  bool `json:"aptitude"`
	Technical bool `json:"technical"`
	HR        bool `json:"hr"`
}

// JobListingRequest is the admin payload for creating or updating a listing.
type JobListingRequest struct {
	CompanyName        string            `json:"company_name" validate:"required"`
	CompanyLogoURL     string            `json:"company_logo_url,omitempty" validate:"omitempty,url"`
	CompanyWebsite     string            `json:"company_website,omitempty" validate:"omitempty,url"`
	RoleTitle          string            `json:"role_title" validate:"required"`
	Domain             string            `json:"domain,omitempty"`
	LocationType       string            `json:"location_type,omitempty" validate:"omitempty,oneof=remote onsite hybrid"`
	City               string            `json:"city,omitempty"`
	ExperienceRequired string            `json:"experience_required,omitempty"`
	Qualification      string            `json:"qualification,omitempty"`
	CompensationAmount string            `json:"compensation_amount,omitempty"`
	CompensationType   string            `json:"compensation_type,omitempty"`
	ShortDescription   string            `json:"short_description,omitempty"`
	FullDescription    string            `json:"full_description" validate:"required"`
	ApplicationURL     string            `json:"application_url,omitempty" validate:"omitempty,url"`
	IsActive           *bool             `json:"is_active,omitempty"`
	Referral           *Referral         `json:"referral,omitempty"`
	SelectionProcess   *SelectionProcess `json:"selection_process,omitempty"`
}

// Validate validates the JobListingRequest using the validator.
func (r *JobListingRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToListing builds a listing from the request. New listings default to active.
func (r *JobListingRequest) ToListing() *JobListing {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &JobListing{
		CompanyName:        r.CompanyName,
		CompanyLogoURL:     r.CompanyLogoURL,
		CompanyWebsite:     r.CompanyWebsite,
		RoleTitle:          r.RoleTitle,
		Domain:             r.Domain,
		LocationType:       r.LocationType,
		City:               r.City,
		ExperienceRequired: r.ExperienceRequired,
		Qualification:      r.Qualification,
		CompensationAmount: r.CompensationAmount,
		CompensationType:   r.CompensationType,
		ShortDescription:   r.ShortDescription,
		FullDescription:    r.FullDescription,
		ApplicationURL:     r.ApplicationURL,
		IsActive:           active,
		Referral:           r.Referral,
		SelectionProcess:   r.SelectionProcess,
	}
}
