package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/autoapply/internal/types"
)

// Violation types reported by Lint.
const (
	ViolationForbiddenPhrase = "forbidden_phrase"
	ViolationBulletLength    = "bullet_length"
	ViolationPageOverflow    = "page_overflow"
	ViolationEmptySection    = "empty_section"
)

// Severities. Lint never blocks a run; errors are surfaced as warnings.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Violation is one rule an optimized resume breaks.
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Section  string `json:"section"`
	Details  string `json:"details"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s in %s: %s", v.Type, v.Section, v.Details)
}

// Rules configures Lint.
type Rules struct {
	ForbiddenPhrases []string
	MaxBulletChars   int // 0 disables the check
	MaxBullets       int // bullets across experience and projects that fit one page
}

// DefaultRules returns the rules applied to every optimized resume.
func DefaultRules() Rules {
	return Rules{
		ForbiddenPhrases: []string{
			"responsible for",
			"duties included",
			"team player",
			"hard worker",
			"go-getter",
			"synergy",
			"references available",
			"as an ai",
		},
		MaxBulletChars: 220,
		MaxBullets:     16,
	}
}

// field is one piece of resume text with the section it belongs to.
type field struct {
	section string
	text    string
	bullet  bool
}

func fields(r *types.ResumeDocument) []field {
	var out []field
	if r.Summary != "" {
		out = append(out, field{section: "summary", text: r.Summary})
	}
	if r.CareerObjective != "" {
		out = append(out, field{section: "career_objective", text: r.CareerObjective})
	}
	for _, w := range r.WorkExperience {
		section := fmt.Sprintf("experience (%s)", w.Company)
		for _, b := range w.Bullets {
			out = append(out, field{section: section, text: b, bullet: true})
		}
	}
	for _, p := range r.Projects {
		section := fmt.Sprintf("project (%s)", p.Title)
		for _, b := range p.Bullets {
			out = append(out, field{section: section, text: b, bullet: true})
		}
	}
	for i, a := range r.Achievements {
		out = append(out, field{section: fmt.Sprintf("achievement %d", i+1), text: a})
	}
	return out
}

// Lint checks a resume against rules. Each text field reports at most one
// forbidden phrase.
func Lint(r *types.ResumeDocument, rules Rules) []Violation {
	if r == nil {
		return nil
	}

	var violations []Violation
	bullets := 0
	for _, f := range fields(r) {
		if phrase, ok := firstForbidden(f.text, rules.ForbiddenPhrases); ok {
			violations = append(violations, Violation{
				Type:     ViolationForbiddenPhrase,
				Severity: SeverityError,
				Section:  f.section,
				Details:  fmt.Sprintf("contains %q", phrase),
			})
		}
		if !f.bullet {
			continue
		}
		bullets++
		if n := utf8.RuneCountInString(f.text); rules.MaxBulletChars > 0 && n > rules.MaxBulletChars {
			violations = append(violations, Violation{
				Type:     ViolationBulletLength,
				Severity: SeverityWarning,
				Section:  f.section,
				Details:  fmt.Sprintf("bullet has %d characters, limit is %d", n, rules.MaxBulletChars),
			})
		}
	}

	if rules.MaxBullets > 0 && bullets > rules.MaxBullets {
		violations = append(violations, Violation{
			Type:     ViolationPageOverflow,
			Severity: SeverityWarning,
			Section:  "resume",
			Details:  fmt.Sprintf("%d bullets will likely overflow one page (limit %d)", bullets, rules.MaxBullets),
		})
	}
	if len(r.Skills) == 0 {
		violations = append(violations, Violation{
			Type:     ViolationEmptySection,
			Severity: SeverityWarning,
			Section:  "skills",
			Details:  "no skills listed",
		})
	}
	return violations
}

func firstForbidden(text string, phrases []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}
