package assembly

import (
	"fmt"
	"testing"

	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nProjects(n int) []types.Project {
	out := make([]types.Project, n)
	for i := range out {
		out[i] = types.Project{Title: fmt.Sprintf("Project %d", i)}
	}
	return out
}

func TestReuseOrPlaceholder(t *testing.T) {
	withSkills := &types.Profile{Skills: []types.Skill{{Category: "Cloud", List: []string{"AWS", "Terraform", "Go", "K8s"}}}}

	t.Run("profile projects win and are capped", func(t *testing.T) {
		p := &types.Profile{Projects: nProjects(6)}
		got := ReuseOrPlaceholder{}.Projects(p, []types.StoredResume{{Resume: &types.ResumeDocument{Projects: nProjects(1)}}})
		require.Len(t, got, MaxProjects)
		assert.Equal(t, "Project 0", got[0].Title)
	})

	t.Run("stored resume projects reused", func(t *testing.T) {
		stored := []types.StoredResume{
			{Resume: nil},
			{Resume: &types.ResumeDocument{}},
			{Resume: &types.ResumeDocument{Projects: []types.Project{{Title: "Ledger"}}}},
		}
		got := ReuseOrPlaceholder{}.Projects(withSkills, stored)
		require.Len(t, got, 1)
		assert.Equal(t, "Ledger", got[0].Title)
	})

	t.Run("placeholder as last resort", func(t *testing.T) {
		got := ReuseOrPlaceholder{}.Projects(withSkills, nil)
		require.Len(t, got, 1)
		assert.Equal(t, "Portfolio Website", got[0].Title)
		assert.Contains(t, got[0].Bullets[0], "cloud")
		assert.Contains(t, got[0].Bullets[1], "AWS, Terraform, Go")
	})
}

func TestPlaceholderOnly_IgnoresProfileProjects(t *testing.T) {
	p := &types.Profile{Projects: nProjects(2)}
	got := PlaceholderOnly{}.Projects(p, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Portfolio Website", got[0].Title)
	assert.Contains(t, got[0].Bullets[0], "software development")
}

func TestCapProjects_CopiesInput(t *testing.T) {
	in := nProjects(2)
	out := capProjects(in)
	out[0].Title = "changed"
	assert.Equal(t, "Project 0", in[0].Title)
}
