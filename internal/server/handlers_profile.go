package server

import (
	"net/http"

	"github.com/jonathan/autoapply/internal/profile"
	"github.com/jonathan/autoapply/internal/types"
)

type profileResponse struct {
	Profile      *types.Profile            `json:"profile"`
	Completeness types.ProfileCompleteness `json:"completeness"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mustUserID(r)

	p, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if p == nil {
		s.errorResponse(w, http.StatusNotFound, CodeNotFound, "Profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, profileResponse{Profile: p, Completeness: profile.Validate(p)})
}

// handlePutProfile replaces the caller's profile.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID := mustUserID(r)

	var req types.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	p := req.ToProfile()
	p.UserID = userID
	if err := p.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}
	if err := s.store.UpsertProfile(r.Context(), p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profileResponse{Profile: p, Completeness: profile.Validate(p)})
}

func (s *Server) handleProfileCompleteness(w http.ResponseWriter, r *http.Request) {
	completeness, err := profile.Check(r.Context(), s.store, mustUserID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, completeness)
}
