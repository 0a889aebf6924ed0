package optimize

import (
	"strings"
	"testing"

	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRenderText(t *testing.T) {
	r := inputResume()
	r.Certifications = []types.Certification{{Title: "Go Fundamentals", Description: "Completed course"}}
	r.Achievements = []string{"Smart India Hackathon finalist"}

	text := RenderText(r)

	assert.True(t, strings.HasPrefix(text, "Asha Rao\n"))
	assert.Contains(t, text, "asha@example.com | +91 98765 43210 | Pune")
	assert.Contains(t, text, "\nCAREER OBJECTIVE\nAspiring backend engineer.")
	assert.NotContains(t, text, "SUMMARY")
	assert.Contains(t, text, "B.Tech CSE, COEP, 2024\nCGPA: 8.7")
	assert.Contains(t, text, "Backend Intern at Razorfin (2023 - Present)\n• Built ledger APIs")
	assert.Contains(t, text, "PROJECTS\nLedger Service\n• Double-entry ledger in Go")
	assert.Contains(t, text, "Languages: Go, SQL")
	assert.Contains(t, text, "Go Fundamentals - Completed course")
	assert.Contains(t, text, "ACHIEVEMENTS\n• Smart India Hackathon finalist")
}

func TestRenderText_OmitsEmptySections(t *testing.T) {
	text := RenderText(&types.ResumeDocument{Name: "A", Summary: "Seasoned engineer."})
	assert.Equal(t, "A\n\nSUMMARY\nSeasoned engineer.", text)
	assert.Empty(t, RenderText(nil))
}
