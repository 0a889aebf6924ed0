package submission

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/types"
)

// Store persists optimized resume records.
type Store interface {
	InsertOptimizedResume(ctx context.Context, rec *types.OptimizedResumeRecord) error
}

// Recorder stores optimized resumes and submits them.
type Recorder struct {
	store     Store
	scorer    Scorer
	publisher ArtifactPublisher
	apply     ApplyAction
	newID     func() uuid.UUID
}

// NewRecorder creates a Recorder.
func NewRecorder(store Store, scorer Scorer, publisher ArtifactPublisher, apply ApplyAction) *Recorder {
	return &Recorder{
		store:     store,
		scorer:    scorer,
		publisher: publisher,
		apply:     apply,
		newID:     uuid.New,
	}
}

// Store scores and publishes the resume, then inserts exactly one record.
// Nothing is inserted when scoring inputs or publishing fail, and published
// artifacts are removed when the insert fails.
func (r *Recorder) Store(ctx context.Context, userID, jobID uuid.UUID, resume *types.ResumeDocument, jobDescription string) (uuid.UUID, error) {
	if resume == nil {
		return uuid.Nil, &PersistenceError{Message: "resume is required"}
	}

	snapshot, err := json.Marshal(resume)
	if err != nil {
		return uuid.Nil, &PersistenceError{Message: "failed to encode resume", Cause: err}
	}

	id := r.newID()
	score := r.scorer.Score(resume, jobDescription)

	artifacts, err := r.publisher.Publish(ctx, id, resume)
	if err != nil {
		return uuid.Nil, &PersistenceError{Message: "failed to publish artifacts", Cause: err}
	}

	rec := &types.OptimizedResumeRecord{
		ID:                id,
		UserID:            userID,
		JobID:             jobID,
		Resume:            snapshot,
		PDFURL:            artifacts.PDFURL,
		DOCXURL:           artifacts.DOCXURL,
		OptimizationScore: score,
	}
	if err := r.store.InsertOptimizedResume(ctx, rec); err != nil {
		if uerr := r.publisher.Unpublish(ctx, id); uerr != nil {
			log.Printf("[submission] warning: artifacts of %s left behind: %v", id, uerr)
		}
		return uuid.Nil, &PersistenceError{Message: "failed to store optimized resume", Cause: err}
	}

	log.Printf("[submission] stored optimized resume %s (score %d)", id, score)
	return id, nil
}

// Submit triggers the remote apply action and maps its reply. A pending
// result is returned as is; following it up is the caller's concern.
func (r *Recorder) Submit(ctx context.Context, jobID, optimizedResumeID uuid.UUID) (*types.ApplicationResult, error) {
	resp, err := r.apply.Apply(ctx, ApplyRequest{JobID: jobID, OptimizedResumeID: optimizedResumeID})
	if err != nil {
		return nil, asSubmissionError(err)
	}
	if resp == nil {
		return nil, &SubmissionError{Message: "empty response from apply function"}
	}
	return MapResponse(resp), nil
}

// MapResponse converts the wire reply into an ApplicationResult. Unknown
// statuses become pending on success and failed otherwise.
func MapResponse(resp *ApplyResponse) *types.ApplicationResult {
	status := types.ApplicationStatus(resp.Status)
	switch status {
	case types.ApplicationSubmitted, types.ApplicationPending, types.ApplicationFailed:
	default:
		if resp.Success {
			status = types.ApplicationPending
		} else {
			status = types.ApplicationFailed
		}
	}

	return &types.ApplicationResult{
		Success:       resp.Success,
		Message:       resp.Message,
		ApplicationID: resp.ApplicationID,
		Status:        status,
		ResumeURL:     resp.ResumeURL,
		ScreenshotURL: resp.ScreenshotURL,
		FallbackURL:   resp.FallbackURL,
		Error:         resp.Error,
	}
}

func asSubmissionError(err error) error {
	var se *SubmissionError
	if errors.As(err, &se) {
		return err
	}
	return &SubmissionError{Message: "apply action failed", Cause: err}
}
