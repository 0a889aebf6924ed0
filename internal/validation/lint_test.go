package validation

import (
	"strings"
	"testing"

	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanResume() *types.ResumeDocument {
	return &types.ResumeDocument{
		Name:    "Asha Rao",
		Summary: "Backend engineer building payment systems in Go.",
		WorkExperience: []types.WorkExperience{
			{Role: "Intern", Company: "Acme", Bullets: []string{"Cut settlement latency by 40% with batched writes"}},
		},
		Projects: []types.Project{{Title: "Ledger", Bullets: []string{"Built a double-entry ledger in Go"}}},
		Skills:   []types.Skill{{Category: "Languages", List: []string{"Go"}}},
	}
}

func TestLint_Clean(t *testing.T) {
	assert.Empty(t, Lint(cleanResume(), DefaultRules()))
}

func TestLint_Nil(t *testing.T) {
	assert.Nil(t, Lint(nil, DefaultRules()))
}

func TestLint_ForbiddenPhrase(t *testing.T) {
	r := cleanResume()
	r.WorkExperience[0].Bullets = append(r.WorkExperience[0].Bullets, "Responsible for the on-call rotation, a true TEAM PLAYER")

	violations := Lint(r, DefaultRules())
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationForbiddenPhrase, violations[0].Type)
	assert.Equal(t, SeverityError, violations[0].Severity)
	assert.Equal(t, "experience (Acme)", violations[0].Section)
	assert.Contains(t, violations[0].Details, "responsible for")
}

func TestLint_BulletLength(t *testing.T) {
	r := cleanResume()
	r.Projects[0].Bullets[0] = strings.Repeat("é", 30)

	violations := Lint(r, Rules{MaxBulletChars: 20})
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationBulletLength, violations[0].Type)
	assert.Contains(t, violations[0].Details, "30 characters")
}

func TestLint_PageOverflowAndEmptySkills(t *testing.T) {
	r := cleanResume()
	r.Skills = nil
	for i := 0; i < 4; i++ {
		r.Projects = append(r.Projects, types.Project{Title: "P", Bullets: []string{"a", "b"}})
	}

	violations := Lint(r, Rules{MaxBullets: 5})
	kinds := make([]string, 0, len(violations))
	for _, v := range violations {
		kinds = append(kinds, v.Type)
	}
	assert.Equal(t, []string{ViolationPageOverflow, ViolationEmptySection}, kinds)
}

func TestViolation_String(t *testing.T) {
	v := Violation{Type: ViolationBulletLength, Section: "project (Ledger)", Details: "too long"}
	assert.Equal(t, "bullet_length in project (Ledger): too long", v.String())
}
