package jobs

import (
	"testing"

	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDescription(t *testing.T) {
	listing := &types.JobListing{
		RoleTitle:          "Backend Engineer",
		CompanyName:        "Razorfin",
		LocationType:       "hybrid",
		City:               "Pune",
		ExperienceRequired: "0-2 years",
		FullDescription:    "<p>Build payment APIs.</p><ul><li>Go</li></ul>",
		ShortDescription:   "ignored",
		SelectionProcess:   &types.SelectionProcess{Coding: true, HR: true},
	}

	expected := "Role: Backend Engineer\n" +
		"Company: Razorfin\n" +
		"Location: Pune (hybrid)\n" +
		"Experience: 0-2 years\n" +
		"Selection process: coding, HR\n\n" +
		"Build payment APIs.\n\n• Go"
	assert.Equal(t, expected, Description(listing))
}

func TestDescription_FallsBackToShortDescription(t *testing.T) {
	listing := &types.JobListing{ShortDescription: "Short pitch."}
	assert.Equal(t, "Short pitch.", Description(listing))
	assert.Empty(t, Description(nil))
}
