package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ApplyRequest is the wire request to the remote apply function.
type ApplyRequest struct {
	JobID             uuid.UUID `json:"jobId"`
	OptimizedResumeID uuid.UUID `json:"optimizedResumeId"`
}

// ApplyResponse is the wire response of the remote apply function.
type ApplyResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId,omitempty"`
	Status        string `json:"status"`
	ResumeURL     string `json:"resumeUrl,omitempty"`
	ScreenshotURL string `json:"screenshotUrl,omitempty"`
	FallbackURL   string `json:"fallbackUrl,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ApplyAction triggers the downstream application for a stored resume.
type ApplyAction interface {
	Apply(ctx context.Context, req ApplyRequest) (*ApplyResponse, error)
}

// HTTPApplyAction posts to the remote apply function.
type HTTPApplyAction struct {
	url    string
	apiKey string
	client *http.Client
}

// DefaultApplyTimeout bounds one remote apply call.
const DefaultApplyTimeout = 60 * time.Second

// maxResponseBytes caps how much of a reply is read.
const maxResponseBytes = 1 << 20

// NewHTTPApplyAction creates an HTTPApplyAction. apiKey is sent as a bearer token when set.
func NewHTTPApplyAction(url, apiKey string) *HTTPApplyAction {
	return &HTTPApplyAction{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: DefaultApplyTimeout},
	}
}

// Apply implements ApplyAction. A non-2xx reply that still decodes to a
// response with success=false is returned as that response.
func (a *HTTPApplyAction) Apply(ctx context.Context, req ApplyRequest) (*ApplyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &SubmissionError{Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, &SubmissionError{Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &SubmissionError{Message: "apply request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &SubmissionError{Message: "failed to read response", StatusCode: resp.StatusCode, Cause: err}
	}

	var out ApplyResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && !out.Success && (out.Message != "" || out.Error != "") {
			return &out, nil
		}
		return nil, &SubmissionError{
			Message:    "apply function returned an error",
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("%s", truncate(string(data), 200)),
		}
	}
	if decodeErr != nil {
		return nil, &SubmissionError{Message: "failed to decode response", StatusCode: resp.StatusCode, Cause: decodeErr}
	}
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
