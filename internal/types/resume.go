//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// UserType drives headline routing in a resume.
type UserType string

const (
	UserTypeFresher     UserType = "fresher"
	UserTypeStudent     UserType = "student"
	UserTypeExperienced UserType = "experienced"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeFresher, UserTypeStudent, UserTypeExperienced:
		return true
	}
	return false
}

// Origin tags where a resume document came from.
type Origin string

const (
	OriginProfileGenerated   Origin = "profile_generated"
	OriginAutoApplyOptimized Origin = "auto_apply_optimized"
	OriginParsedResume       Origin = "parsed_resume"
)

// ResumeDocument is a structured resume. Summary and CareerObjective are
// mutually exclusive; collections are never nil once EnsureCollections ran.
type ResumeDocument struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	LinkedIn        string           `json:"linkedin,omitempty"`
	GitHub          string           `json:"github,omitempty"`
	Location        string           `json:"location,omitempty"`
	TargetRole      string           `json:"target_role,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	CareerObjective string           `json:"career_objective,omitempty"`
	Education       []Education      `json:"education"`
	WorkExperience  []WorkExperience `json:"work_experience"`
	Projects        []Project        `json:"projects"`
	Skills          []Skill          `json:"skills"`
	Certifications  []Certification  `json:"certifications"`
	Achievements    []string         `json:"achievements"`
	Origin          Origin           `json:"origin"`
}

// EnsureCollections replaces nil collections with empty ones.
func (r *ResumeDocument) EnsureCollections() {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.WorkExperience == nil {
		r.WorkExperience = []WorkExperience{}
	}
	for i := range r.WorkExperience {
		if r.WorkExperience[i].Bullets == nil {
			r.WorkExperience[i].Bullets = []string{}
		}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Bullets == nil {
			r.Projects[i].Bullets = []string{}
		}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	for i := range r.Skills {
		if r.Skills[i].List == nil {
			r.Skills[i].List = []string{}
		}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Achievements == nil {
		r.Achievements = []string{}
	}
}

// SetHeadline routes a headline to Summary for experienced users and to
// CareerObjective otherwise, clearing the other field.
func (r *ResumeDocument) SetHeadline(userType UserType, headline string) {
	if userType == UserTypeExperienced {
		r.Summary = headline
		r.CareerObjective = ""
		return
	}
	r.CareerObjective = headline
	r.Summary = ""
}

// Headline returns whichever of Summary or CareerObjective is set.
func (r *ResumeDocument) Headline() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.CareerObjective
}

// Clone returns a deep copy of the document.
func (r *ResumeDocument) Clone() *ResumeDocument {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		cp := *r
		return &cp
	}
	var out ResumeDocument
	if err := json.Unmarshal(data, &out); err != nil {
		cp := *r
		return &cp
	}
	return &out
}
