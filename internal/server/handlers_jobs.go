package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/autoapply/internal/db"
	"github.com/jonathan/autoapply/internal/types"
)

const maxJobsPageSize = 100

// handleListJobs lists active listings, optionally filtered by domain and
// location type.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := db.JobListingFilters{
		ActiveOnly:   true,
		Domain:       q.Get("domain"),
		LocationType: q.Get("location_type"),
	}

	var err error
	if filters.Limit, err = queryInt(q.Get("limit"), 20); err != nil {
		s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
		return
	}
	if filters.Offset, err = queryInt(q.Get("offset"), 0); err != nil {
		s.fail(w, r, &ErrValidation{Field: "offset", Message: "must be a non-negative integer"})
		return
	}
	if filters.Limit > maxJobsPageSize {
		filters.Limit = maxJobsPageSize
	}

	jobs, err := s.store.ListJobListings(r.Context(), filters)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []types.JobListing{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":   jobs,
		"count":  len(jobs),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}

// handleGetJob returns an active listing. Inactive listings are hidden.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	job, err := s.store.GetJobListing(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if job == nil || !job.IsActive {
		s.errorResponse(w, http.StatusNotFound, CodeNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
