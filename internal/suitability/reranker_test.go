package suitability

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockClassifier implements Classifier for testing
type MockClassifier struct {
	ClassifyProjectsFunc func(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) ([]Verdict, error)
}

func (m *MockClassifier) ClassifyProjects(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) ([]Verdict, error) {
	if m.ClassifyProjectsFunc != nil {
		return m.ClassifyProjectsFunc(ctx, resume, jobDescription, roleTitle)
	}
	verdicts := make([]Verdict, len(resume.Projects))
	for i := range verdicts {
		verdicts[i] = Verdict{Index: i, Suitable: true}
	}
	return verdicts, nil
}

func returning(verdicts []Verdict, err error) *MockClassifier {
	return &MockClassifier{
		ClassifyProjectsFunc: func(_ context.Context, _ *types.ResumeDocument, _, _ string) ([]Verdict, error) {
			return verdicts, err
		},
	}
}

func TestRerank_AllSuitableKeepsResume(t *testing.T) {
	resume := sampleResume()
	out := NewReranker(&MockClassifier{}).Rerank(context.Background(), resume, "jd", "role")
	assert.Same(t, resume, out)
}

func TestRerank_ClassifierErrorKeepsResume(t *testing.T) {
	resume := sampleResume()
	out := NewReranker(returning(nil, errors.New("timeout"))).Rerank(context.Background(), resume, "jd", "role")
	assert.Same(t, resume, out)
}

func TestRerank_ReplacesUnsuitableProjects(t *testing.T) {
	resume := sampleResume()
	verdicts := []Verdict{
		{Index: 0, Suitable: false, Replacement: &types.Project{Title: "Payments Gateway", Bullets: []string{"Integrated UPI"}}},
		{Index: 1, Suitable: true},
	}

	out := NewReranker(returning(verdicts, nil)).Rerank(context.Background(), resume, "jd", "role")
	require.NotSame(t, resume, out)

	titles := []string{}
	for _, p := range out.Projects {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Ledger Service", "Payments Gateway"}, titles)
	assert.Equal(t, "Recipe Blog", resume.Projects[0].Title, "input must not be mutated")
	assert.Equal(t, resume.Name, out.Name)
}

func TestRerank_EmptyResultKeepsResume(t *testing.T) {
	resume := sampleResume()
	verdicts := []Verdict{{Index: 0, Suitable: false}, {Index: 1, Suitable: false}}

	out := NewReranker(returning(verdicts, nil)).Rerank(context.Background(), resume, "jd", "role")
	assert.Same(t, resume, out)
}

func TestRerank_NoProjectsSkipsClassifier(t *testing.T) {
	called := false
	classifier := &MockClassifier{
		ClassifyProjectsFunc: func(_ context.Context, _ *types.ResumeDocument, _, _ string) ([]Verdict, error) {
			called = true
			return nil, nil
		},
	}
	resume := &types.ResumeDocument{Name: "A"}
	out := NewReranker(classifier).Rerank(context.Background(), resume, "jd", "role")
	assert.Same(t, resume, out)
	assert.False(t, called)
}

func TestRebuild_CapsAtFour(t *testing.T) {
	var projects []types.Project
	var verdicts []Verdict
	for i := 0; i < 4; i++ {
		projects = append(projects, types.Project{Title: string(rune('A' + i))})
	}
	verdicts = []Verdict{
		{Index: 0, Suitable: true},
		{Index: 1, Suitable: true},
		{Index: 2, Suitable: true},
		{Index: 3, Suitable: false, Replacement: &types.Project{Title: "R"}},
	}

	rebuilt, changed := Rebuild(projects, verdicts)
	assert.True(t, changed)
	require.Len(t, rebuilt, 4)
	assert.Equal(t, "R", rebuilt[3].Title)
	assert.NotNil(t, rebuilt[3].Bullets)
}

func TestRebuild_MissingVerdictKeepsProject(t *testing.T) {
	projects := sampleResume().Projects
	rebuilt, changed := Rebuild(projects, []Verdict{{Index: 1, Suitable: false}})
	assert.True(t, changed)
	require.Len(t, rebuilt, 1)
	assert.Equal(t, "Recipe Blog", rebuilt[0].Title)
}
