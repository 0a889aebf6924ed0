package submission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStore implements Store for testing
type MockStore struct {
	InsertOptimizedResumeFunc func(ctx context.Context, rec *types.OptimizedResumeRecord) error
	Inserted                  []*types.OptimizedResumeRecord
}

func (m *MockStore) InsertOptimizedResume(ctx context.Context, rec *types.OptimizedResumeRecord) error {
	if m.InsertOptimizedResumeFunc != nil {
		if err := m.InsertOptimizedResumeFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.Inserted = append(m.Inserted, rec)
	return nil
}

// MockPublisher implements ArtifactPublisher for testing
type MockPublisher struct {
	PublishFunc   func(ctx context.Context, id uuid.UUID, resume *types.ResumeDocument) (Artifacts, error)
	UnpublishFunc func(ctx context.Context, id uuid.UUID) error
	Unpublished   []uuid.UUID
}

func (m *MockPublisher) Publish(ctx context.Context, id uuid.UUID, resume *types.ResumeDocument) (Artifacts, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, id, resume)
	}
	return PlaceholderPublisher{BaseURL: "https://cdn.example.com"}.Publish(ctx, id, resume)
}

func (m *MockPublisher) Unpublish(ctx context.Context, id uuid.UUID) error {
	m.Unpublished = append(m.Unpublished, id)
	if m.UnpublishFunc != nil {
		return m.UnpublishFunc(ctx, id)
	}
	return nil
}

// MockApplyAction implements ApplyAction for testing
type MockApplyAction struct {
	ApplyFunc func(ctx context.Context, req ApplyRequest) (*ApplyResponse, error)
}

func (m *MockApplyAction) Apply(ctx context.Context, req ApplyRequest) (*ApplyResponse, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, req)
	}
	return &ApplyResponse{Success: true, Status: "submitted", Message: "Applied"}, nil
}

type fixedScorer int

func (f fixedScorer) Score(_ *types.ResumeDocument, _ string) int { return int(f) }

func testResume() *types.ResumeDocument {
	r := &types.ResumeDocument{Name: "Asha Rao", Origin: types.OriginAutoApplyOptimized}
	r.EnsureCollections()
	return r
}

func TestRecorder_Store(t *testing.T) {
	store := &MockStore{}
	rec := NewRecorder(store, fixedScorer(91), &MockPublisher{}, &MockApplyAction{})
	fixedID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	rec.newID = func() uuid.UUID { return fixedID }

	userID, jobID := uuid.New(), uuid.New()
	id, err := rec.Store(context.Background(), userID, jobID, testResume(), "jd")
	require.NoError(t, err)
	assert.Equal(t, fixedID, id)

	require.Len(t, store.Inserted, 1)
	got := store.Inserted[0]
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, jobID, got.JobID)
	assert.Equal(t, 91, got.OptimizationScore)
	assert.Equal(t, "https://cdn.example.com/optimized-resumes/11111111-1111-1111-1111-111111111111/resume.pdf", got.PDFURL)
	assert.Equal(t, "https://cdn.example.com/optimized-resumes/11111111-1111-1111-1111-111111111111/resume.docx", got.DOCXURL)

	var snapshot types.ResumeDocument
	require.NoError(t, json.Unmarshal(got.Resume, &snapshot))
	assert.Equal(t, "Asha Rao", snapshot.Name)
}

func TestRecorder_StoreFailures(t *testing.T) {
	t.Run("publish failure inserts nothing", func(t *testing.T) {
		store := &MockStore{}
		pub := &MockPublisher{PublishFunc: func(_ context.Context, _ uuid.UUID, _ *types.ResumeDocument) (Artifacts, error) {
			return Artifacts{}, errors.New("bucket gone")
		}}
		_, err := NewRecorder(store, fixedScorer(80), pub, &MockApplyAction{}).
			Store(context.Background(), uuid.New(), uuid.New(), testResume(), "")
		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Empty(t, store.Inserted)
		assert.Empty(t, pub.Unpublished)
	})

	t.Run("insert failure removes artifacts", func(t *testing.T) {
		store := &MockStore{InsertOptimizedResumeFunc: func(_ context.Context, _ *types.OptimizedResumeRecord) error {
			return errors.New("connection reset")
		}}
		pub := &MockPublisher{}
		rec := NewRecorder(store, fixedScorer(80), pub, &MockApplyAction{})
		fixedID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
		rec.newID = func() uuid.UUID { return fixedID }

		id, err := rec.Store(context.Background(), uuid.New(), uuid.New(), testResume(), "")
		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, uuid.Nil, id)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Equal(t, []uuid.UUID{fixedID}, pub.Unpublished)
	})

	t.Run("cleanup failure keeps the insert error", func(t *testing.T) {
		store := &MockStore{InsertOptimizedResumeFunc: func(_ context.Context, _ *types.OptimizedResumeRecord) error {
			return errors.New("connection reset")
		}}
		pub := &MockPublisher{UnpublishFunc: func(_ context.Context, _ uuid.UUID) error {
			return errors.New("access denied")
		}}
		_, err := NewRecorder(store, fixedScorer(80), pub, &MockApplyAction{}).
			Store(context.Background(), uuid.New(), uuid.New(), testResume(), "")
		require.ErrorContains(t, err, "connection reset")
		assert.NotContains(t, err.Error(), "access denied")
		assert.Len(t, pub.Unpublished, 1)
	})

	t.Run("nil resume", func(t *testing.T) {
		_, err := NewRecorder(&MockStore{}, fixedScorer(80), &MockPublisher{}, &MockApplyAction{}).
			Store(context.Background(), uuid.New(), uuid.New(), nil, "")
		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
	})
}

func TestRecorder_Submit(t *testing.T) {
	jobID, resumeID := uuid.New(), uuid.New()
	var gotReq ApplyRequest
	apply := &MockApplyAction{ApplyFunc: func(_ context.Context, req ApplyRequest) (*ApplyResponse, error) {
		gotReq = req
		return &ApplyResponse{Success: true, Status: "pending", ApplicationID: "app_1", Message: "Queued"}, nil
	}}

	result, err := NewRecorder(&MockStore{}, fixedScorer(80), &MockPublisher{}, apply).Submit(context.Background(), jobID, resumeID)
	require.NoError(t, err)
	assert.Equal(t, ApplyRequest{JobID: jobID, OptimizedResumeID: resumeID}, gotReq)
	assert.True(t, result.Success)
	assert.Equal(t, types.ApplicationPending, result.Status)
	assert.Equal(t, "app_1", result.ApplicationID)
}

func TestRecorder_SubmitTransportError(t *testing.T) {
	apply := &MockApplyAction{ApplyFunc: func(_ context.Context, _ ApplyRequest) (*ApplyResponse, error) {
		return nil, context.DeadlineExceeded
	}}
	_, err := NewRecorder(&MockStore{}, fixedScorer(80), &MockPublisher{}, apply).Submit(context.Background(), uuid.New(), uuid.New())
	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMapResponse_Statuses(t *testing.T) {
	tests := []struct {
		name     string
		resp     ApplyResponse
		expected types.ApplicationStatus
	}{
		{"submitted", ApplyResponse{Success: true, Status: "submitted"}, types.ApplicationSubmitted},
		{"pending", ApplyResponse{Success: true, Status: "pending"}, types.ApplicationPending},
		{"failed", ApplyResponse{Success: false, Status: "failed"}, types.ApplicationFailed},
		{"unknown success", ApplyResponse{Success: true, Status: "queued"}, types.ApplicationPending},
		{"unknown failure", ApplyResponse{Success: false, Status: ""}, types.ApplicationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapResponse(&tt.resp).Status)
		})
	}
}
