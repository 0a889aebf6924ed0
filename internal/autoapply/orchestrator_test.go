package autoapply

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/assembly"
	"github.com/jonathan/autoapply/internal/notify"
	"github.com/jonathan/autoapply/internal/optimize"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProfileStore implements profile.Store for testing
type MockProfileStore struct {
	GetProfileFunc func(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
}

func (m *MockProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return completeProfile(userID), nil
}

// MockJobStore implements JobStore for testing
type MockJobStore struct {
	GetJobListingFunc func(ctx context.Context, id uuid.UUID) (*types.JobListing, error)
	Calls             int
}

func (m *MockJobStore) GetJobListing(ctx context.Context, id uuid.UUID) (*types.JobListing, error) {
	m.Calls++
	if m.GetJobListingFunc != nil {
		return m.GetJobListingFunc(ctx, id)
	}
	return activeJob(id), nil
}

// MockAssembler implements Assembler for testing
type MockAssembler struct {
	AssembleFunc func(ctx context.Context, userID uuid.UUID, userType types.UserType) (*assembly.Result, error)
}

func (m *MockAssembler) Assemble(ctx context.Context, userID uuid.UUID, userType types.UserType) (*assembly.Result, error) {
	if m.AssembleFunc != nil {
		return m.AssembleFunc(ctx, userID, userType)
	}
	return &assembly.Result{Resume: baseResume()}, nil
}

// MockReranker implements Reranker for testing
type MockReranker struct {
	RerankFunc func(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) *types.ResumeDocument
}

func (m *MockReranker) Rerank(ctx context.Context, resume *types.ResumeDocument, jobDescription, roleTitle string) *types.ResumeDocument {
	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, resume, jobDescription, roleTitle)
	}
	return resume
}

// MockOptimizer implements Optimizer for testing
type MockOptimizer struct {
	OptimizeFunc func(ctx context.Context, req optimize.Request) (*types.ResumeDocument, error)
	Calls        int
}

func (m *MockOptimizer) Optimize(ctx context.Context, req optimize.Request) (*types.ResumeDocument, error) {
	m.Calls++
	if m.OptimizeFunc != nil {
		return m.OptimizeFunc(ctx, req)
	}
	out := req.Resume.Clone()
	out.TargetRole = req.RoleTitle
	out.Origin = types.OriginAutoApplyOptimized
	return out, nil
}

// MockRecorder implements Recorder for testing
type MockRecorder struct {
	StoreFunc   func(ctx context.Context, userID, jobID uuid.UUID, resume *types.ResumeDocument, jobDescription string) (uuid.UUID, error)
	SubmitFunc  func(ctx context.Context, jobID, optimizedResumeID uuid.UUID) (*types.ApplicationResult, error)
	StoreCalls  int
	SubmitCalls int
}

var storedID = uuid.MustParse("33333333-3333-3333-3333-333333333333")

func (m *MockRecorder) Store(ctx context.Context, userID, jobID uuid.UUID, resume *types.ResumeDocument, jobDescription string) (uuid.UUID, error) {
	m.StoreCalls++
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, userID, jobID, resume, jobDescription)
	}
	return storedID, nil
}

func (m *MockRecorder) Submit(ctx context.Context, jobID, optimizedResumeID uuid.UUID) (*types.ApplicationResult, error) {
	m.SubmitCalls++
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, jobID, optimizedResumeID)
	}
	return &types.ApplicationResult{Success: true, Status: types.ApplicationSubmitted, Message: "Application submitted", ApplicationID: "app_1"}, nil
}

// MockNotifier records events.
type MockNotifier struct {
	Events []notify.Event
}

func (m *MockNotifier) Notify(_ context.Context, e notify.Event) error {
	m.Events = append(m.Events, e)
	return nil
}

func completeProfile(userID uuid.UUID) *types.Profile {
	return &types.Profile{
		UserID:    userID,
		FullName:  "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "+91 98765 43210",
		Education: []types.Education{{Degree: "B.Tech", School: "COEP"}},
		Skills:    []types.Skill{{Category: "Languages", List: []string{"Go"}}},
	}
}

func activeJob(id uuid.UUID) *types.JobListing {
	return &types.JobListing{
		ID:              id,
		CompanyName:     "Razorfin",
		RoleTitle:       "Backend Engineer",
		FullDescription: "<p>Build payment APIs in Go.</p>",
		ApplicationURL:  "https://razorfin.example.com/careers/1",
		IsActive:        true,
	}
}

func baseResume() *types.ResumeDocument {
	r := &types.ResumeDocument{
		Name:     "Asha Rao",
		Projects: []types.Project{{Title: "Recipe Blog"}},
		Skills:   []types.Skill{{Category: "Languages", List: []string{"Go"}}},
		Origin:   types.OriginProfileGenerated,
	}
	r.EnsureCollections()
	return r
}

type fixture struct {
	profiles  *MockProfileStore
	jobs      *MockJobStore
	assembler *MockAssembler
	reranker  *MockReranker
	optimizer *MockOptimizer
	recorder  *MockRecorder
	notifier  *MockNotifier
	timeouts  Timeouts
}

func newFixture() *fixture {
	return &fixture{
		profiles:  &MockProfileStore{},
		jobs:      &MockJobStore{},
		assembler: &MockAssembler{},
		reranker:  &MockReranker{},
		optimizer: &MockOptimizer{},
		recorder:  &MockRecorder{},
		notifier:  &MockNotifier{},
	}
}

func (f *fixture) run(t *testing.T) (Outcome, []ProgressEvent) {
	t.Helper()
	o := New(Deps{
		Profiles:  f.profiles,
		Jobs:      f.jobs,
		Assembler: f.assembler,
		Reranker:  f.reranker,
		Optimizer: f.optimizer,
		Recorder:  f.recorder,
		Notifier:  f.notifier,
		Timeouts:  f.timeouts,
	})
	var events []ProgressEvent
	out := o.Run(context.Background(), Request{
		JobID:      uuid.New(),
		UserID:     uuid.New(),
		UserType:   types.UserTypeFresher,
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	return out, events
}

func stages(events []ProgressEvent) []State {
	var out []State
	for _, e := range events {
		if len(out) == 0 || out[len(out)-1] != e.Stage {
			out = append(out, e.Stage)
		}
	}
	return out
}

func TestRun_Success(t *testing.T) {
	f := newFixture()
	var gotReq optimize.Request
	f.optimizer.OptimizeFunc = func(_ context.Context, req optimize.Request) (*types.ResumeDocument, error) {
		gotReq = req
		return req.Resume.Clone(), nil
	}

	out, events := f.run(t)

	require.True(t, out.Success, out.Error)
	assert.Equal(t, StateSucceeded, out.State)
	assert.Equal(t, "Application submitted", out.Message)
	require.NotNil(t, out.OptimizedResumeID)
	assert.Equal(t, storedID, *out.OptimizedResumeID)
	require.NotNil(t, out.ApplicationResult)
	assert.Equal(t, types.ApplicationSubmitted, out.ApplicationResult.Status)
	assert.Empty(t, out.FailedStage)

	assert.Equal(t, []State{
		StateValidatingProfile, StateFetchingJob, StateAssemblingResume, StateReranking,
		StateOptimizing, StateStoring, StateSubmitting, StateSucceeded,
	}, stages(events))

	assert.Equal(t, "Backend Engineer", gotReq.RoleTitle)
	assert.Equal(t, types.UserTypeFresher, gotReq.UserType)
	assert.Contains(t, gotReq.JobDescription, "Build payment APIs in Go.")

	require.Len(t, f.notifier.Events, 1)
	assert.Equal(t, notify.LevelInfo, f.notifier.Events[0].Level)
}

func TestRun_IncompleteProfile(t *testing.T) {
	f := newFixture()
	f.profiles.GetProfileFunc = func(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
		p := completeProfile(userID)
		p.Phone = "  "
		p.Skills = nil
		return p, nil
	}

	out, events := f.run(t)

	assert.False(t, out.Success)
	assert.Equal(t, "Profile incomplete. Missing: phone, skills", out.Message)
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, StateValidatingProfile, out.FailedStage)
	assert.Zero(t, f.jobs.Calls, "job must not be fetched")
	assert.Equal(t, []State{StateValidatingProfile, StateFailed}, stages(events))
	assert.Empty(t, f.notifier.Events)
}

func TestRun_MissingProfile(t *testing.T) {
	f := newFixture()
	f.profiles.GetProfileFunc = func(_ context.Context, _ uuid.UUID) (*types.Profile, error) {
		return nil, nil
	}
	out, _ := f.run(t)
	assert.Equal(t, "Profile incomplete. Missing: profile", out.Message)
}

func TestRun_JobFailures(t *testing.T) {
	tests := []struct {
		name         string
		job          func(id uuid.UUID) (*types.JobListing, error)
		wantFallback string
	}{
		{
			name: "not found",
			job:  func(_ uuid.UUID) (*types.JobListing, error) { return nil, nil },
		},
		{
			name: "inactive",
			job: func(id uuid.UUID) (*types.JobListing, error) {
				j := activeJob(id)
				j.IsActive = false
				return j, nil
			},
			wantFallback: "https://razorfin.example.com/careers/1",
		},
		{
			name: "store error",
			job:  func(_ uuid.UUID) (*types.JobListing, error) { return nil, errors.New("connection refused") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.jobs.GetJobListingFunc = func(_ context.Context, id uuid.UUID) (*types.JobListing, error) { return tt.job(id) }

			out, _ := f.run(t)

			assert.False(t, out.Success)
			assert.Equal(t, GenericFailureMessage, out.Message)
			assert.Equal(t, StateFetchingJob, out.FailedStage)
			assert.Equal(t, tt.wantFallback, out.FallbackURL)
			assert.Zero(t, f.optimizer.Calls)
		})
	}
}

func TestRun_AssemblyFailure(t *testing.T) {
	f := newFixture()
	f.assembler.AssembleFunc = func(_ context.Context, userID uuid.UUID, _ types.UserType) (*assembly.Result, error) {
		return nil, &assembly.ProfileNotFoundError{UserID: userID}
	}

	out, _ := f.run(t)

	assert.Equal(t, StateAssemblingResume, out.FailedStage)
	assert.Equal(t, "https://razorfin.example.com/careers/1", out.FallbackURL)
	assert.Zero(t, f.optimizer.Calls)
	require.Len(t, f.notifier.Events, 1)
	assert.Equal(t, notify.LevelWarning, f.notifier.Events[0].Level)
}

func TestRun_AssemblyWarningsAreCarried(t *testing.T) {
	f := newFixture()
	f.assembler.AssembleFunc = func(_ context.Context, _ uuid.UUID, _ types.UserType) (*assembly.Result, error) {
		return &assembly.Result{
			Resume:   baseResume(),
			Warnings: []assembly.Warning{{Source: "internships", Message: "timeout"}},
		}, nil
	}

	out, _ := f.run(t)
	require.True(t, out.Success)
	assert.Equal(t, []string{"internships: timeout"}, out.Warnings)
}

func TestRun_LintFindingsAreWarnings(t *testing.T) {
	f := newFixture()
	f.optimizer.OptimizeFunc = func(_ context.Context, req optimize.Request) (*types.ResumeDocument, error) {
		out := req.Resume.Clone()
		out.Summary = "Responsible for backend services"
		return out, nil
	}

	out, _ := f.run(t)
	require.True(t, out.Success)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "forbidden_phrase in summary")
}

func TestRun_RerankedResumeIsOptimized(t *testing.T) {
	f := newFixture()
	f.reranker.RerankFunc = func(_ context.Context, resume *types.ResumeDocument, _, _ string) *types.ResumeDocument {
		out := resume.Clone()
		out.Projects = []types.Project{{Title: "Payments Gateway", Bullets: []string{}}}
		return out
	}
	var optimizedTitles []string
	f.optimizer.OptimizeFunc = func(_ context.Context, req optimize.Request) (*types.ResumeDocument, error) {
		for _, p := range req.Resume.Projects {
			optimizedTitles = append(optimizedTitles, p.Title)
		}
		return req.Resume, nil
	}

	out, events := f.run(t)
	require.True(t, out.Success)
	assert.Equal(t, []string{"Payments Gateway"}, optimizedTitles)

	var sawUpdate bool
	for _, e := range events {
		if e.Stage == StateReranking && e.Content != nil {
			sawUpdate = true
		}
	}
	assert.True(t, sawUpdate)
}

func TestRun_OptimizerFailure(t *testing.T) {
	f := newFixture()
	f.optimizer.OptimizeFunc = func(_ context.Context, _ optimize.Request) (*types.ResumeDocument, error) {
		return nil, &optimize.OptimizationServiceError{Message: "LLM generation failed"}
	}

	out, _ := f.run(t)

	assert.False(t, out.Success)
	assert.Equal(t, GenericFailureMessage, out.Message)
	assert.Equal(t, StateOptimizing, out.FailedStage)
	assert.Contains(t, out.Error, "LLM generation failed")
	assert.Zero(t, f.recorder.StoreCalls)
}

func TestRun_StoreFailure(t *testing.T) {
	f := newFixture()
	f.recorder.StoreFunc = func(_ context.Context, _, _ uuid.UUID, _ *types.ResumeDocument, _ string) (uuid.UUID, error) {
		return uuid.Nil, errors.New("insert failed")
	}

	out, _ := f.run(t)

	assert.Equal(t, StateStoring, out.FailedStage)
	assert.Nil(t, out.OptimizedResumeID)
	assert.Zero(t, f.recorder.SubmitCalls)
}

func TestRun_SubmitFailure(t *testing.T) {
	f := newFixture()
	f.recorder.SubmitFunc = func(_ context.Context, _, _ uuid.UUID) (*types.ApplicationResult, error) {
		return nil, errors.New("connection reset")
	}

	out, _ := f.run(t)

	assert.Equal(t, StateSubmitting, out.FailedStage)
	require.NotNil(t, out.OptimizedResumeID, "stored resume id is reported even when submission fails")
	assert.Equal(t, storedID, *out.OptimizedResumeID)
}

func TestRun_RemoteReportsFailure(t *testing.T) {
	f := newFixture()
	f.recorder.SubmitFunc = func(_ context.Context, _, _ uuid.UUID) (*types.ApplicationResult, error) {
		return &types.ApplicationResult{Success: false, Status: types.ApplicationFailed, Message: "Captcha required", Error: "captcha"}, nil
	}

	out, _ := f.run(t)

	assert.False(t, out.Success)
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, StateSubmitting, out.FailedStage)
	assert.Equal(t, "Captcha required", out.Message)
	assert.Equal(t, "captcha", out.Error)
	require.NotNil(t, out.ApplicationResult)
	assert.Equal(t, types.ApplicationFailed, out.ApplicationResult.Status)
	assert.Equal(t, "https://razorfin.example.com/careers/1", out.FallbackURL)
}

func TestRun_PendingIsSuccess(t *testing.T) {
	f := newFixture()
	f.recorder.SubmitFunc = func(_ context.Context, _, _ uuid.UUID) (*types.ApplicationResult, error) {
		return &types.ApplicationResult{Success: true, Status: types.ApplicationPending}, nil
	}

	out, _ := f.run(t)
	assert.True(t, out.Success)
	assert.Equal(t, "Application is being submitted.", out.Message)
}

func TestRun_StageTimeout(t *testing.T) {
	f := newFixture()
	f.timeouts = Timeouts{Optimize: 20 * time.Millisecond}
	f.optimizer.OptimizeFunc = func(ctx context.Context, _ optimize.Request) (*types.ResumeDocument, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	out, _ := f.run(t)

	assert.Equal(t, StateOptimizing, out.FailedStage)
	assert.Contains(t, out.Error, context.DeadlineExceeded.Error())
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	f := newFixture()
	f.optimizer.OptimizeFunc = func(_ context.Context, _ optimize.Request) (*types.ResumeDocument, error) {
		panic("boom")
	}

	var out Outcome
	require.NotPanics(t, func() { out, _ = f.run(t) })
	assert.False(t, out.Success)
	assert.Equal(t, StateOptimizing, out.FailedStage)
	assert.Contains(t, out.Error, "boom")
}

func TestRun_InvalidRequest(t *testing.T) {
	f := newFixture()
	o := New(Deps{Profiles: f.profiles, Jobs: f.jobs})

	out := o.Run(context.Background(), Request{JobID: uuid.New(), UserID: uuid.New(), UserType: "retired"})

	assert.False(t, out.Success)
	assert.Equal(t, StateIdle, out.FailedStage)
	assert.Equal(t, GenericFailureMessage, out.Message)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Profile incomplete. Missing: name", UserMessage(&StageError{
		Stage: StateValidatingProfile,
		Cause: &ProfileIncompleteError{MissingFields: []string{"name"}},
	}))
	assert.Equal(t, GenericFailureMessage, UserMessage(errors.New("x")))
}
