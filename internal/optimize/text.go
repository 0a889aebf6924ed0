package optimize

import (
	"strings"

	"github.com/jonathan/autoapply/internal/types"
)

// RenderText renders a resume as section-labeled plain text for the model.
func RenderText(r *types.ResumeDocument) string {
	if r == nil {
		return ""
	}

	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	section := func(label string) {
		sb.WriteString("\n")
		line(label)
	}

	line(r.Name)
	contact := nonEmpty(r.Email, r.Phone, r.Location)
	if len(contact) > 0 {
		line(strings.Join(contact, " | "))
	}
	if links := nonEmpty(r.LinkedIn, r.GitHub); len(links) > 0 {
		line(strings.Join(links, " | "))
	}
	if r.TargetRole != "" {
		line("Target role: " + r.TargetRole)
	}

	if r.Summary != "" {
		section("SUMMARY")
		line(r.Summary)
	} else if r.CareerObjective != "" {
		section("CAREER OBJECTIVE")
		line(r.CareerObjective)
	}

	if len(r.Education) > 0 {
		section("EDUCATION")
		for _, e := range r.Education {
			line(strings.Join(nonEmpty(e.Degree, e.School, e.Location, e.Year), ", "))
			if e.CGPA != "" {
				line("CGPA: " + e.CGPA)
			}
		}
	}

	if len(r.WorkExperience) > 0 {
		section("WORK EXPERIENCE")
		for _, w := range r.WorkExperience {
			header := strings.Join(nonEmpty(w.Role, w.Company), " at ")
			if w.Year != "" {
				header += " (" + w.Year + ")"
			}
			line(header)
			for _, b := range w.Bullets {
				line("• " + b)
			}
		}
	}

	if len(r.Projects) > 0 {
		section("PROJECTS")
		for _, p := range r.Projects {
			header := p.Title
			if p.GitHubURL != "" {
				header += " (" + p.GitHubURL + ")"
			}
			line(header)
			for _, b := range p.Bullets {
				line("• " + b)
			}
		}
	}

	if len(r.Skills) > 0 {
		section("SKILLS")
		for _, s := range r.Skills {
			line(s.Category + ": " + strings.Join(s.List, ", "))
		}
	}

	if len(r.Certifications) > 0 {
		section("CERTIFICATIONS")
		for _, c := range r.Certifications {
			if c.Description != "" {
				line(c.Title + " - " + c.Description)
			} else {
				line(c.Title)
			}
		}
	}

	if len(r.Achievements) > 0 {
		section("ACHIEVEMENTS")
		for _, a := range r.Achievements {
			line("• " + a)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
