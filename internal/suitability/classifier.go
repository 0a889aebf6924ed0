package suitability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/autoapply/internal/llm"
	"github.com/jonathan/autoapply/internal/prompts"
	"github.com/jonathan/autoapply/internal/schemas"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/jonathan/autoapply/internal/validation"
	schemafiles "github.com/jonathan/autoapply/schemas"
)

// Verdict is the classification of one project, aligned by Index with the
// resume's project list.
type Verdict struct {
	Index       int            `json:"index"`
	Title       string         `json:"title"`
	Suitable    bool           `json:"suitable"`
	Reason      string         `json:"reason,omitempty"`
	Replacement *types.Project `json:"replacement,omitempty"`
}

// Classifier judges each project of a resume against a job.
type Classifier interface {
	ClassifyProjects(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) ([]Verdict, error)
}

// LLMClassifier classifies projects with a language model.
type LLMClassifier struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMClassifier creates a classifier backed by the lite model tier.
func NewLLMClassifier(client llm.Client) *LLMClassifier {
	return &LLMClassifier{client: client, tier: llm.TierLite}
}

type verdictsResponse struct {
	Verdicts []Verdict `json:"verdicts"`
}

// ClassifyProjects implements Classifier. The reply is schema-validated and
// must carry exactly one verdict per project.
func (c *LLMClassifier) ClassifyProjects(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) ([]Verdict, error) {
	prompt, err := buildClassifyPrompt(resume, jobDescription, roleTitle)
	if err != nil {
		return nil, err
	}

	jsonResp, err := c.client.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	jsonResp = llm.CleanJSONBlock(jsonResp)

	if err := schemas.Validate(schemafiles.ProjectVerdicts, []byte(jsonResp)); err != nil {
		return nil, fmt.Errorf("invalid verdicts: %w", err)
	}

	var resp verdictsResponse
	if err := json.Unmarshal([]byte(jsonResp), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, jsonResp)
	}

	if len(resp.Verdicts) != len(resume.Projects) {
		return nil, fmt.Errorf("expected %d verdicts, got %d", len(resume.Projects), len(resp.Verdicts))
	}
	return alignVerdicts(resp.Verdicts, resume.Projects), nil
}

// alignVerdicts orders verdicts by project position. A verdict whose index is
// out of range or duplicated falls back to its position in the reply.
func alignVerdicts(verdicts []Verdict, projects []types.Project) []Verdict {
	aligned := make([]Verdict, len(projects))
	filled := make([]bool, len(projects))

	var unplaced []Verdict
	for _, v := range verdicts {
		if v.Index >= 0 && v.Index < len(projects) && !filled[v.Index] {
			aligned[v.Index] = v
			filled[v.Index] = true
			continue
		}
		unplaced = append(unplaced, v)
	}
	for i := range aligned {
		if filled[i] {
			continue
		}
		if len(unplaced) > 0 {
			aligned[i] = unplaced[0]
			unplaced = unplaced[1:]
		} else {
			aligned[i] = Verdict{Suitable: true}
		}
	}
	for i := range aligned {
		aligned[i].Index = i
		aligned[i].Title = projects[i].Title
	}
	return aligned
}

func buildClassifyPrompt(resume *types.ResumeDocument, jobDescription, roleTitle string) (string, error) {
	var skills []string
	for _, s := range resume.Skills {
		skills = append(skills, fmt.Sprintf("%s: %s", s.Category, strings.Join(s.List, ", ")))
	}
	skillsStr := strings.Join(skills, "\n")
	if skillsStr == "" {
		skillsStr = "Not specified"
	}

	var projects []string
	for i, p := range resume.Projects {
		line := fmt.Sprintf("%d. %s", i, p.Title)
		for _, b := range p.Bullets {
			line += "\n   - " + b
		}
		projects = append(projects, line)
	}

	if roleTitle == "" {
		roleTitle = "Not specified"
	}

	return prompts.Render("suitability.json", "project-suitability", map[string]string{
		"RoleTitle":      roleTitle,
		"JobDescription": validation.GuardPromptInput(jobDescription, "job description", "project suitability"),
		"Skills":         skillsStr,
		"Projects":       strings.Join(projects, "\n"),
	})
}
