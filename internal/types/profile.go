// Package types provides type definitions for structured data used throughout the auto-apply service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Profile is the user-maintained source of truth for resume assembly.
type Profile struct {
	UserID         uuid.UUID        `json:"user_id"`
	FullName       string           `json:"full_name"`
	Email          string           `json:"email" validate:"omitempty,email"`
	Phone          string           `json:"phone" validate:"omitempty,max=32"`
	LinkedIn       string           `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub         string           `json:"github,omitempty" validate:"omitempty,url"`
	Location       string           `json:"location,omitempty"`
	Headline       string           `json:"headline,omitempty"`
	Education      []Education      `json:"education"`
	Experience     []WorkExperience `json:"experience"`
	Projects       []Project        `json:"projects"`
	Skills         []Skill          `json:"skills"`
	Certifications []Certification  `json:"certifications"`
	UpdatedAt      time.Time        `json:"updated_at,omitempty"`
}

// Education is one education entry.
type Education struct {
	Degree   string `json:"degree"`
	School   string `json:"school"`
	Year     string `json:"year,omitempty"`
	CGPA     string `json:"cgpa,omitempty"`
	Location string `json:"location,omitempty"`
}

// WorkExperience is one job or internship entry.
type WorkExperience struct {
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Year    string   `json:"year,omitempty"`
	Bullets []string `json:"bullets"`
}

// Project is one project entry.
type Project struct {
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
	GitHubURL string   `json:"github_url,omitempty"`
}

// Skill groups a list of skills under a category ("Languages: Go, SQL").
type Skill struct {
	Category string   `json:"category"`
	List     []string `json:"list"`
}

// Certification is one certification or completed course.
type Certification struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Validate checks field formats. Completeness is judged separately.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Normalize drops placeholder entries that carry no identifying field.
// Storage always normalizes before writing.
func (p *Profile) Normalize() {
	if p == nil {
		return
	}

	education := make([]Education, 0, len(p.Education))
	for _, e := range p.Education {
		if blank(e.Degree) && blank(e.School) {
			continue
		}
		education = append(education, e)
	}
	p.Education = education

	experience := make([]WorkExperience, 0, len(p.Experience))
	for _, w := range p.Experience {
		if blank(w.Role) && blank(w.Company) {
			continue
		}
		w.Bullets = compactStrings(w.Bullets)
		experience = append(experience, w)
	}
	p.Experience = experience

	projects := make([]Project, 0, len(p.Projects))
	for _, pr := range p.Projects {
		if blank(pr.Title) {
			continue
		}
		pr.Bullets = compactStrings(pr.Bullets)
		projects = append(projects, pr)
	}
	p.Projects = projects

	skills := make([]Skill, 0, len(p.Skills))
	for _, s := range p.Skills {
		s.List = compactStrings(s.List)
		if blank(s.Category) && len(s.List) == 0 {
			continue
		}
		skills = append(skills, s)
	}
	p.Skills = skills

	certs := make([]Certification, 0, len(p.Certifications))
	for _, c := range p.Certifications {
		if blank(c.Title) {
			continue
		}
		certs = append(certs, c)
	}
	p.Certifications = certs
}

// InternshipRecord is an internship row completed through the platform.
type InternshipRecord struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Role        string     `json:"role"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// CourseRecord is a course the user has completed.
type CourseRecord struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

// StoredResume is a previously saved resume document.
type StoredResume struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title,omitempty"`
	Resume    *ResumeDocument `json:"resume"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProfileCompleteness reports whether a profile can drive auto-apply.
type ProfileCompleteness struct {
	IsComplete    bool     `json:"is_complete"`
	MissingFields []string `json:"missing_fields"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
