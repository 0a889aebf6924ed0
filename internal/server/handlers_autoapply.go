package server

import (
	"log"
	"net/http"
	"time"

	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/submission"
	"github.com/jonathan/autoapply/internal/types"
)

// artifactLinkTTL is how long a signed artifact download link stays valid.
const artifactLinkTTL = 15 * time.Minute

// decodeAutoApply reads and validates an auto-apply request for the caller.
func (s *Server) decodeAutoApply(w http.ResponseWriter, r *http.Request) (autoapply.Request, error) {
	var body types.AutoApplyRequest
	if err := decodeJSON(w, r, &body); err != nil {
		return autoapply.Request{}, err
	}
	if err := body.Validate(); err != nil {
		return autoapply.Request{}, validationError(err)
	}
	return autoapply.Request{
		JobID:    body.JobID,
		UserID:   mustUserID(r),
		UserType: body.UserType,
	}, nil
}

// handleAutoApply runs the pipeline and returns the outcome in one response.
func (s *Server) handleAutoApply(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAutoApply(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out := s.autoApply.Run(r.Context(), req)
	s.jsonResponse(w, outcomeStatus(out), out)
}

// handleAutoApplyStream runs the pipeline, streaming progress as SSE events and
// finishing with a complete or error event carrying the outcome.
func (s *Server) handleAutoApplyStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeAutoApply(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	ctx := r.Context()
	req.OnProgress = func(event autoapply.ProgressEvent) {
		if ctx.Err() != nil {
			return
		}
		if err := sse.WriteEvent(eventProgress, event); err != nil {
			log.Printf("[server] failed to write progress event: %v", err)
		}
	}

	out := s.autoApply.Run(ctx, req)
	if ctx.Err() != nil {
		log.Printf("[server] auto-apply stream for job %s closed by client", req.JobID)
		return
	}

	event := eventComplete
	if !out.Success {
		event = eventError
	}
	if err := sse.WriteEvent(event, out); err != nil {
		log.Printf("[server] failed to write %s event: %v", event, err)
	}
}

// handleGetOptimizedResume returns one of the caller's optimized resumes.
func (s *Server) handleGetOptimizedResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.store.GetOptimizedResume(r.Context(), id, mustUserID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, CodeNotFound, "Optimized resume not found")
		return
	}

	if s.artifacts != nil {
		pdf, err := s.artifacts.PresignGet(submission.ArtifactKey(rec.ID, "pdf"), artifactLinkTTL)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		docx, err := s.artifacts.PresignGet(submission.ArtifactKey(rec.ID, "docx"), artifactLinkTTL)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		rec.PDFURL, rec.DOCXURL = pdf, docx
	}
	s.jsonResponse(w, http.StatusOK, rec)
}
