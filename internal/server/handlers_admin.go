package server

import (
	"log"
	"net/http"

	"github.com/jonathan/autoapply/internal/server/middleware"
	"github.com/jonathan/autoapply/internal/types"
)

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.JobListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	job, err := s.store.CreateJobListing(r.Context(), req.ToListing())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	log.Printf("[admin] job %s created (%s at %s)", job.ID, job.RoleTitle, job.CompanyName)
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.JobListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	job, err := s.store.UpdateJobListing(r.Context(), id, req.ToListing())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, CodeNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleToggleJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	active, err := s.store.ToggleJobListing(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	log.Printf("[admin] job %s is_active=%t", id, active)
	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "is_active": active})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteJobListing(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	log.Printf("[admin] job %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleSetUserRole changes a user's role. Admins cannot demote themselves.
func (s *Server) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	target, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	caller, _ := middleware.GetUserID(r)
	if caller == target && req.Role != types.RoleAdmin {
		s.errorResponse(w, http.StatusBadRequest, CodeBadRequest, "Admins cannot remove their own admin role")
		return
	}

	if err := s.store.SetUserRole(r.Context(), target, req.Role); err != nil {
		s.fail(w, r, err)
		return
	}
	log.Printf("[admin] user %s role set to %s by %s", target, req.Role, caller)
	s.jsonResponse(w, http.StatusOK, map[string]any{"user_id": target, "role": req.Role})
}

// handleCreditWallet tops up a user's wallet.
func (s *Server) handleCreditWallet(w http.ResponseWriter, r *http.Request) {
	target, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.WalletCreditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	balance, err := s.store.CreditWallet(r.Context(), target, req.Amount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	caller, _ := middleware.GetUserID(r)
	log.Printf("[admin] wallet of %s credited %d by %s (%s)", target, req.Amount, caller, req.Note)
	s.jsonResponse(w, http.StatusOK, map[string]any{"user_id": target, "balance": balance})
}
