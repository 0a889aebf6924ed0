package assembly

import (
	"strconv"
	"strings"

	"github.com/jonathan/autoapply/internal/types"
)

// FallbackBullets are used when an internship has no usable description lines.
var FallbackBullets = []string{
	"Contributed to day-to-day engineering work as part of the team",
	"Collaborated with mentors and peers to deliver assigned tasks on schedule",
	"Applied classroom knowledge to real-world problems in a professional setting",
}

// MapInternship converts an internship record into a work experience entry.
func MapInternship(rec types.InternshipRecord) types.WorkExperience {
	return types.WorkExperience{
		Role:    rec.Role,
		Company: rec.Company,
		Year:    internshipYears(rec),
		Bullets: descriptionBullets(rec.Description),
	}
}

// internshipYears formats "<startYear> - <endYear>" or "<startYear> - Present".
func internshipYears(rec types.InternshipRecord) string {
	end := "Present"
	if rec.EndDate != nil {
		end = strconv.Itoa(rec.EndDate.Year())
	}
	return strconv.Itoa(rec.StartDate.Year()) + " - " + end
}

// descriptionBullets splits a description on newlines, dropping blank lines
// and list markers. Falls back to FallbackBullets when nothing remains.
func descriptionBullets(description string) []string {
	var bullets []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"• ", "- ", "* "} {
			line = strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
		if line != "" {
			bullets = append(bullets, line)
		}
	}
	if len(bullets) == 0 {
		return append([]string(nil), FallbackBullets...)
	}
	return bullets
}
