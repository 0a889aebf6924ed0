package jobs

import (
	"fmt"
	"strings"

	"github.com/jonathan/autoapply/internal/types"
)

// Description builds the job description handed to the models: a short
// header of role facts followed by the listing's description as text. The
// full description is preferred over the short one.
func Description(listing *types.JobListing) string {
	if listing == nil {
		return ""
	}

	var header []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			header = append(header, fmt.Sprintf("%s: %s", label, value))
		}
	}
	add("Role", listing.RoleTitle)
	add("Company", listing.CompanyName)
	add("Domain", listing.Domain)
	add("Location", location(listing))
	add("Experience", listing.ExperienceRequired)
	add("Qualification", listing.Qualification)
	if rounds := selectionRounds(listing.SelectionProcess); rounds != "" {
		add("Selection process", rounds)
	}

	body := HTMLToText(listing.FullDescription)
	if body == "" {
		body = HTMLToText(listing.ShortDescription)
	}

	switch {
	case len(header) == 0:
		return body
	case body == "":
		return strings.Join(header, "\n")
	default:
		return strings.Join(header, "\n") + "\n\n" + body
	}
}

func location(listing *types.JobListing) string {
	switch {
	case listing.LocationType != "" && listing.City != "":
		return fmt.Sprintf("%s (%s)", listing.City, listing.LocationType)
	case listing.City != "":
		return listing.City
	default:
		return listing.LocationType
	}
}

func selectionRounds(sp *types.SelectionProcess) string {
	if sp == nil {
		return ""
	}
	var rounds []string
	if sp.Coding {
		rounds = append(rounds, "coding")
	}
	if sp.Aptitude {
		rounds = append(rounds, "aptitude")
	}
	if sp.Technical {
		rounds = append(rounds, "technical")
	}
	if sp.HR {
		rounds = append(rounds, "HR")
	}
	return strings.Join(rounds, ", ")
}
