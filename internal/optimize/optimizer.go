// Package optimize tailors a resume to a job with a language model.
package optimize

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/autoapply/internal/llm"
	"github.com/jonathan/autoapply/internal/prompts"
	"github.com/jonathan/autoapply/internal/schemas"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/jonathan/autoapply/internal/validation"
	schemafiles "github.com/jonathan/autoapply/schemas"
)

// Request is the input to a single optimization.
type Request struct {
	Resume         *types.ResumeDocument
	JobDescription string
	RoleTitle      string
	UserType       types.UserType
}

// Optimizer rewrites resumes with the advanced model tier.
type Optimizer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewOptimizer creates an Optimizer.
func NewOptimizer(client llm.Client) *Optimizer {
	return &Optimizer{client: client, tier: llm.TierAdvanced}
}

// Optimize returns a new resume tailored to the job. The input is not
// modified. Identity fields always come from the input, never the model.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*types.ResumeDocument, error) {
	if req.Resume == nil {
		return nil, &OptimizationServiceError{Message: "resume is required"}
	}

	prompt, err := buildOptimizationPrompt(req)
	if err != nil {
		return nil, &OptimizationServiceError{Message: "failed to build prompt", Cause: err}
	}

	log.Printf("[optimize] optimizing resume for %q with %s", req.RoleTitle, o.client.GetModel(o.tier))
	jsonResp, err := o.client.GenerateJSON(ctx, prompt, o.tier)
	if err != nil {
		return nil, &OptimizationServiceError{Message: "LLM generation failed", Cause: err}
	}
	jsonResp = llm.CleanJSONBlock(jsonResp)

	if err := schemas.Validate(schemafiles.ResumeDocument, []byte(jsonResp)); err != nil {
		return nil, &OptimizationServiceError{Message: "model returned an invalid resume", Cause: err}
	}

	var optimized types.ResumeDocument
	if err := json.Unmarshal([]byte(jsonResp), &optimized); err != nil {
		return nil, &OptimizationServiceError{
			Message: "failed to parse LLM response",
			Cause:   fmt.Errorf("%w (content: %s)", err, jsonResp),
		}
	}

	finalize(&optimized, req)
	return &optimized, nil
}

// finalize restores identity, tags the origin and re-applies headline routing.
func finalize(out *types.ResumeDocument, req Request) {
	in := req.Resume
	out.Name = in.Name
	out.Email = in.Email
	out.Phone = in.Phone
	out.LinkedIn = in.LinkedIn
	out.GitHub = in.GitHub
	out.Location = in.Location

	out.TargetRole = req.RoleTitle
	out.Origin = types.OriginAutoApplyOptimized

	headline := out.Headline()
	if headline == "" {
		headline = in.Headline()
	}
	if headline != "" {
		out.SetHeadline(req.UserType, headline)
	}

	out.EnsureCollections()
}

func buildOptimizationPrompt(req Request) (string, error) {
	guidanceKey := "headline-early-career"
	if req.UserType == types.UserTypeExperienced {
		guidanceKey = "headline-experienced"
	}
	guidance, err := prompts.Get("optimize.json", guidanceKey)
	if err != nil {
		return "", err
	}

	roleTitle := req.RoleTitle
	if roleTitle == "" {
		roleTitle = "Not specified"
	}
	jobDescription := "Not specified"
	if req.JobDescription != "" {
		jobDescription = validation.GuardPromptInput(req.JobDescription, "job description", "resume optimization")
	}

	return prompts.Render("optimize.json", "resume-optimization", map[string]string{
		"HeadlineGuidance": guidance,
		"RoleTitle":        roleTitle,
		"JobDescription":   jobDescription,
		"ResumeText":       RenderText(req.Resume),
	})
}
