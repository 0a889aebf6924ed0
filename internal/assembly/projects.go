package assembly

import (
	"fmt"
	"strings"

	"github.com/jonathan/autoapply/internal/types"
)

// MaxProjects caps the projects carried on any assembled or re-ranked resume.
const MaxProjects = 4

// ProjectPolicy chooses the projects placed on a freshly assembled resume.
type ProjectPolicy interface {
	Projects(profile *types.Profile, stored []types.StoredResume) []types.Project
}

// ProjectPolicyFunc adapts a function to ProjectPolicy.
type ProjectPolicyFunc func(profile *types.Profile, stored []types.StoredResume) []types.Project

// Projects implements ProjectPolicy.
func (f ProjectPolicyFunc) Projects(profile *types.Profile, stored []types.StoredResume) []types.Project {
	return f(profile, stored)
}

// ReuseOrPlaceholder prefers the profile's own projects, then the projects of
// the newest stored resume that has any, then a single placeholder.
type ReuseOrPlaceholder struct{}

// Projects implements ProjectPolicy.
func (ReuseOrPlaceholder) Projects(profile *types.Profile, stored []types.StoredResume) []types.Project {
	if len(profile.Projects) > 0 {
		return capProjects(profile.Projects)
	}
	for _, s := range stored {
		if s.Resume != nil && len(s.Resume.Projects) > 0 {
			return capProjects(s.Resume.Projects)
		}
	}
	return []types.Project{PlaceholderProject(profile)}
}

// PlaceholderOnly always synthesizes a single project from the first skill category.
type PlaceholderOnly struct{}

// Projects implements ProjectPolicy.
func (PlaceholderOnly) Projects(profile *types.Profile, _ []types.StoredResume) []types.Project {
	return []types.Project{PlaceholderProject(profile)}
}

// PlaceholderProject derives a generic portfolio project from the first skill category.
func PlaceholderProject(profile *types.Profile) types.Project {
	category := "Software Development"
	var skills []string
	if len(profile.Skills) > 0 {
		if c := strings.TrimSpace(profile.Skills[0].Category); c != "" {
			category = c
		}
		skills = profile.Skills[0].List
	}

	bullets := []string{
		fmt.Sprintf("Designed and built a personal portfolio showcasing %s work", strings.ToLower(category)),
	}
	if len(skills) > 0 {
		n := len(skills)
		if n > 3 {
			n = 3
		}
		bullets = append(bullets, "Implemented features using "+strings.Join(skills[:n], ", "))
	}
	bullets = append(bullets, "Deployed the project publicly and documented the design decisions")

	return types.Project{Title: "Portfolio Website", Bullets: bullets}
}

func capProjects(projects []types.Project) []types.Project {
	n := len(projects)
	if n > MaxProjects {
		n = MaxProjects
	}
	out := make([]types.Project, n)
	copy(out, projects[:n])
	return out
}
