package suitability

import (
	"context"
	"log"

	"github.com/jonathan/autoapply/internal/assembly"
	"github.com/jonathan/autoapply/internal/types"
)

// Reranker replaces unsuitable projects using a Classifier.
type Reranker struct {
	classifier Classifier
}

// NewReranker creates a Reranker.
func NewReranker(classifier Classifier) *Reranker {
	return &Reranker{classifier: classifier}
}

// Rerank returns a resume whose projects are the suitable originals followed
// by replacements for unsuitable ones, capped at assembly.MaxProjects. It returns the
// input unchanged when every project is suitable, when classification fails,
// or when nothing would remain. It never fails.
func (r *Reranker) Rerank(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) *types.ResumeDocument {
	if resume == nil || len(resume.Projects) == 0 {
		return resume
	}

	verdicts, err := r.classifier.ClassifyProjects(ctx, resume, jobDescription, roleTitle)
	if err != nil {
		rerr := &RerankingError{Message: "project classification failed", Cause: err}
		log.Printf("[suitability] Warning: %v; keeping original projects", rerr)
		return resume
	}

	projects, changed := Rebuild(resume.Projects, verdicts)
	if !changed {
		return resume
	}
	if len(projects) == 0 {
		log.Printf("[suitability] Warning: every project was rejected without replacement; keeping original projects")
		return resume
	}

	out := resume.Clone()
	out.Projects = projects
	log.Printf("[suitability] replaced projects: %d original, %d kept", len(resume.Projects), len(projects))
	return out
}

// Rebuild applies verdicts to projects. changed is false when every project is
// suitable. Verdicts are matched by index; a project without a verdict is kept.
func Rebuild(projects []types.Project, verdicts []Verdict) (rebuilt []types.Project, changed bool) {
	byIndex := make(map[int]Verdict, len(verdicts))
	for _, v := range verdicts {
		byIndex[v.Index] = v
	}

	var suitable, replacements []types.Project
	for i, p := range projects {
		v, ok := byIndex[i]
		if !ok || v.Suitable {
			suitable = append(suitable, p)
			continue
		}
		changed = true
		if v.Replacement != nil && v.Replacement.Title != "" {
			rep := *v.Replacement
			if rep.Bullets == nil {
				rep.Bullets = []string{}
			}
			replacements = append(replacements, rep)
		}
	}
	if !changed {
		return projects, false
	}

	rebuilt = append(suitable, replacements...)
	if len(rebuilt) > assembly.MaxProjects {
		rebuilt = rebuilt[:assembly.MaxProjects]
	}
	return rebuilt, true
}
