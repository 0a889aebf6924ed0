//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Role is an application-level role. Authentication itself is external.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UpdateRoleRequest represents an admin request to change a user's role.
type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=user admin"`
}

// Validate validates the UpdateRoleRequest using the validator.
func (r *UpdateRoleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateProfileRequest replaces the caller's profile.
type UpdateProfileRequest struct {
	FullName       string           `json:"full_name" validate:"max=200"`
	Email          string           `json:"email" validate:"omitempty,email"`
	Phone          string           `json:"phone" validate:"max=32"`
	LinkedIn       string           `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub         string           `json:"github,omitempty" validate:"omitempty,url"`
	Location       string           `json:"location,omitempty"`
	Headline       string           `json:"headline,omitempty" validate:"max=1000"`
	Education      []Education      `json:"education"`
	Experience     []WorkExperience `json:"experience"`
	Projects       []Project        `json:"projects"`
	Skills         []Skill          `json:"skills"`
	Certifications []Certification  `json:"certifications"`
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToProfile builds a normalized profile from the request.
func (r *UpdateProfileRequest) ToProfile() *Profile {
	p := &Profile{
		FullName:       r.FullName,
		Email:          r.Email,
		Phone:          r.Phone,
		LinkedIn:       r.LinkedIn,
		GitHub:         r.GitHub,
		Location:       r.Location,
		Headline:       r.Headline,
		Education:      r.Education,
		Experience:     r.Experience,
		Projects:       r.Projects,
		Skills:         r.Skills,
		Certifications: r.Certifications,
	}
	p.Normalize()
	return p
}
