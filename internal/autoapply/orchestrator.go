// Package autoapply sequences a single auto-apply run: profile check, job
// lookup, resume assembly, project re-ranking, optimization, storage and
// submission.
package autoapply

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/assembly"
	"github.com/jonathan/autoapply/internal/jobs"
	"github.com/jonathan/autoapply/internal/notify"
	"github.com/jonathan/autoapply/internal/optimize"
	"github.com/jonathan/autoapply/internal/profile"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/jonathan/autoapply/internal/validation"
)

// JobStore loads job listings. A missing listing is nil, nil.
type JobStore interface {
	GetJobListing(ctx context.Context, id uuid.UUID) (*types.JobListing, error)
}

// Assembler builds the starting resume from a profile.
type Assembler interface {
	Assemble(ctx context.Context, userID uuid.UUID, userType types.UserType) (*assembly.Result, error)
}

// Reranker replaces unsuitable projects. It never fails.
type Reranker interface {
	Rerank(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) *types.ResumeDocument
}

// Optimizer tailors a resume to a job.
type Optimizer interface {
	Optimize(ctx context.Context, req optimize.Request) (*types.ResumeDocument, error)
}

// Recorder stores and submits optimized resumes.
type Recorder interface {
	Store(ctx context.Context, userID, jobID uuid.UUID, resume *types.ResumeDocument, jobDescription string) (uuid.UUID, error)
	Submit(ctx context.Context, jobID, optimizedResumeID uuid.UUID) (*types.ApplicationResult, error)
}

// ProgressEvent reports a state transition or notable step of a run.
type ProgressEvent struct {
	Stage   State  `json:"stage"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback receives progress events. It is called synchronously.
type ProgressCallback func(event ProgressEvent)

// Request starts a run.
type Request struct {
	JobID      uuid.UUID
	UserID     uuid.UUID
	UserType   types.UserType
	OnProgress ProgressCallback
}

// Outcome is the result of a run. Failed runs carry a user-facing Message and
// the underlying Error text.
type Outcome struct {
	Success           bool                     `json:"success"`
	Message           string                   `json:"message"`
	OptimizedResumeID *uuid.UUID               `json:"optimized_resume_id,omitempty"`
	ApplicationResult *types.ApplicationResult `json:"application_result,omitempty"`
	Error             string                   `json:"error,omitempty"`
	State             State                    `json:"state"`
	FailedStage       State                    `json:"failed_stage,omitempty"`
	FallbackURL       string                   `json:"fallback_url,omitempty"`
	Warnings          []string                 `json:"warnings,omitempty"`
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Profiles  profile.Store
	Jobs      JobStore
	Assembler Assembler
	Reranker  Reranker
	Optimizer Optimizer
	Recorder  Recorder
	Notifier  notify.Notifier
	Timeouts  Timeouts
}

// Orchestrator runs auto-apply requests. It holds no state between runs and
// is safe for concurrent use when its collaborators are.
type Orchestrator struct {
	deps Deps
}

// New creates an Orchestrator.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// run carries the state of one invocation.
type run struct {
	req      Request
	state    State
	job      *types.JobListing
	warnings []string
}

func (r *run) emit(stage State, message string, content any) {
	if r.req.OnProgress == nil {
		return
	}
	r.req.OnProgress(ProgressEvent{Stage: stage, Message: message, Content: content})
}

func (r *run) enter(state State) {
	r.state = state
	r.emit(state, stateMessages[state], nil)
}

// Run executes the pipeline. It never panics or returns an error; every
// failure is reported in the Outcome.
func (o *Orchestrator) Run(ctx context.Context, req Request) (out Outcome) {
	r := &run{req: req, state: StateIdle}
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Printf("[auto-apply] panic in %s: %v", r.state, p)
			out = o.fail(ctx, r, fmt.Errorf("internal error: %v", p))
		}
		log.Printf("[auto-apply] run for job %s finished in %s: state=%s success=%v",
			req.JobID, time.Since(start).Round(time.Millisecond), out.State, out.Success)
	}()

	if req.UserID == uuid.Nil || req.JobID == uuid.Nil || !req.UserType.Valid() {
		return o.fail(ctx, r, fmt.Errorf("%w: user, job and a valid user type are required", ErrInvalidRequest))
	}

	r.enter(StateValidatingProfile)
	if err := o.validateProfile(ctx, r); err != nil {
		return o.fail(ctx, r, err)
	}

	r.enter(StateFetchingJob)
	job, err := o.fetchJob(ctx, r)
	if err != nil {
		return o.fail(ctx, r, err)
	}
	r.job = job
	jobDescription := jobs.Description(job)

	r.enter(StateAssemblingResume)
	resume, err := o.assemble(ctx, r)
	if err != nil {
		return o.fail(ctx, r, err)
	}

	r.enter(StateReranking)
	resume = o.rerank(ctx, r, resume, jobDescription)

	r.enter(StateOptimizing)
	optimized, err := o.optimize(ctx, r, resume, jobDescription)
	if err != nil {
		return o.fail(ctx, r, err)
	}
	for _, v := range validation.Lint(optimized, validation.DefaultRules()) {
		r.warnings = append(r.warnings, v.String())
		r.emit(StateOptimizing, v.String(), v)
	}

	r.enter(StateStoring)
	resumeID, err := o.store(ctx, r, optimized, jobDescription)
	if err != nil {
		return o.fail(ctx, r, err)
	}

	r.enter(StateSubmitting)
	result, err := o.submit(ctx, r, resumeID)
	if err != nil {
		out = o.fail(ctx, r, err)
		out.OptimizedResumeID = &resumeID
		return out
	}

	if !result.Success {
		return o.remoteFailure(ctx, r, resumeID, result)
	}

	r.state = StateSucceeded
	out = Outcome{
		Success:           true,
		Message:           successMessage(result),
		OptimizedResumeID: &resumeID,
		ApplicationResult: result,
		State:             StateSucceeded,
		Warnings:          r.warnings,
	}
	r.emit(StateSucceeded, out.Message, out)

	notify.Send(ctx, o.deps.Notifier, notify.Event{Level: notify.LevelInfo, Title: "Auto-apply submitted"}.
		With("user", req.UserID.String()).
		With("job", jobTitle(job)).
		With("status", string(result.Status)))
	return out
}

func (o *Orchestrator) validateProfile(ctx context.Context, r *run) error {
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Profile)
	defer cancel()

	completeness, err := profile.Check(ctx, o.deps.Profiles, r.req.UserID)
	if err != nil {
		return err
	}
	if !completeness.IsComplete {
		return &ProfileIncompleteError{MissingFields: completeness.MissingFields}
	}
	return nil
}

func (o *Orchestrator) fetchJob(ctx context.Context, r *run) (*types.JobListing, error) {
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Job)
	defer cancel()

	job, err := o.deps.Jobs.GetJobListing(ctx, r.req.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, &JobNotFoundError{JobID: r.req.JobID}
	}
	if !job.IsActive {
		// keep the listing so the outcome can still offer its application URL
		r.job = job
		return nil, &JobNotFoundError{JobID: r.req.JobID, Inactive: true}
	}
	return job, nil
}

func (o *Orchestrator) assemble(ctx context.Context, r *run) (*types.ResumeDocument, error) {
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Assembly)
	defer cancel()

	result, err := o.deps.Assembler.Assemble(ctx, r.req.UserID, r.req.UserType)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		r.warnings = append(r.warnings, w.String())
		r.emit(StateAssemblingResume, w.String(), nil)
	}
	return result.Resume, nil
}

func (o *Orchestrator) rerank(ctx context.Context, r *run, resume *types.ResumeDocument, jobDescription string) *types.ResumeDocument {
	if o.deps.Reranker == nil {
		return resume
	}
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Rerank)
	defer cancel()

	out := o.deps.Reranker.Rerank(ctx, resume, jobDescription, r.job.RoleTitle)
	if out == nil {
		return resume
	}
	if out != resume {
		titles := make([]string, 0, len(out.Projects))
		for _, p := range out.Projects {
			titles = append(titles, p.Title)
		}
		r.emit(StateReranking, "Updated projects for this role", titles)
	}
	return out
}

func (o *Orchestrator) optimize(ctx context.Context, r *run, resume *types.ResumeDocument, jobDescription string) (*types.ResumeDocument, error) {
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Optimize)
	defer cancel()

	return o.deps.Optimizer.Optimize(ctx, optimize.Request{
		Resume:         resume,
		JobDescription: jobDescription,
		RoleTitle:      r.job.RoleTitle,
		UserType:       r.req.UserType,
	})
}

func (o *Orchestrator) store(ctx context.Context, r *run, resume *types.ResumeDocument, jobDescription string) (uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Store)
	defer cancel()

	return o.deps.Recorder.Store(ctx, r.req.UserID, r.req.JobID, resume, jobDescription)
}

func (o *Orchestrator) submit(ctx context.Context, r *run, resumeID uuid.UUID) (*types.ApplicationResult, error) {
	ctx, cancel := withTimeout(ctx, o.deps.Timeouts.Submit)
	defer cancel()

	result, err := o.deps.Recorder.Submit(ctx, r.req.JobID, resumeID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("apply action returned no result")
	}
	return result, nil
}

// fail ends the run in StateFailed.
func (o *Orchestrator) fail(ctx context.Context, r *run, err error) Outcome {
	stage := r.state
	if stage == StateIdle || stage.Terminal() {
		stage = StateIdle
	}
	r.state = StateFailed

	out := Outcome{
		Success:     false,
		Message:     UserMessage(err),
		Error:       (&StageError{Stage: stage, Cause: err}).Error(),
		State:       StateFailed,
		FailedStage: stage,
		FallbackURL: fallbackURL(r.job),
		Warnings:    r.warnings,
	}
	log.Printf("[auto-apply] Warning: run for job %s failed at %s: %v", r.req.JobID, stage, err)
	r.emit(StateFailed, out.Message, out)

	if !isUserError(err) {
		notify.Send(ctx, o.deps.Notifier, notify.Event{Level: notify.LevelWarning, Title: "Auto-apply failed"}.
			With("user", r.req.UserID.String()).
			With("job", r.req.JobID.String()).
			With("stage", string(stage)).
			With("error", err.Error()))
	}
	return out
}

// remoteFailure ends the run when the apply action answered success=false.
func (o *Orchestrator) remoteFailure(ctx context.Context, r *run, resumeID uuid.UUID, result *types.ApplicationResult) Outcome {
	r.state = StateFailed

	message := result.Message
	if message == "" {
		message = GenericFailureMessage
	}
	fallback := result.FallbackURL
	if fallback == "" {
		fallback = fallbackURL(r.job)
	}
	errText := result.Error
	if errText == "" {
		errText = "apply action reported failure"
	}

	out := Outcome{
		Success:           false,
		Message:           message,
		OptimizedResumeID: &resumeID,
		ApplicationResult: result,
		Error:             errText,
		State:             StateFailed,
		FailedStage:       StateSubmitting,
		FallbackURL:       fallback,
		Warnings:          r.warnings,
	}
	r.emit(StateFailed, out.Message, out)

	notify.Send(ctx, o.deps.Notifier, notify.Event{Level: notify.LevelWarning, Title: "Auto-apply rejected by apply function"}.
		With("user", r.req.UserID.String()).
		With("job", jobTitle(r.job)).
		With("error", errText))
	return out
}

func isUserError(err error) bool {
	var incomplete *ProfileIncompleteError
	var notFound *JobNotFoundError
	return errors.As(err, &incomplete) || errors.As(err, &notFound) || errors.Is(err, ErrInvalidRequest)
}

func successMessage(result *types.ApplicationResult) string {
	if result.Message != "" {
		return result.Message
	}
	if result.Status == types.ApplicationPending {
		return "Application is being submitted."
	}
	return stateMessages[StateSucceeded]
}

func fallbackURL(job *types.JobListing) string {
	if job == nil {
		return ""
	}
	return job.ApplicationURL
}

func jobTitle(job *types.JobListing) string {
	if job == nil {
		return ""
	}
	return fmt.Sprintf("%s at %s", job.RoleTitle, job.CompanyName)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
