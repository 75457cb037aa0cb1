package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jordan/jobtrack/internal/scoring"
	"github.com/jordan/jobtrack/internal/store"
)

// handleUpsertJob inserts or refreshes one job record. The job id
// travels in the body because ids contain ":" and, for feed-derived
// jobs, slashes.
func (s *Server) handleUpsertJob(w http.ResponseWriter, r *http.Request) {
	var job store.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := s.store.UpsertJob(r.Context(), &job); err != nil {
		s.storeError(w, err)
		return
	}

	stored, err := s.store.GetJob(r.Context(), job.ID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}

// handleGetJob fetches one job by id.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleListJobs returns jobs matching the query filters, ordered by
// score descending.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := store.JobFilters{
		Source:  store.Source(q.Get("source")),
		Status:  store.Status(q.Get("status")),
		Company: q.Get("company"),
		Title:   q.Get("title"),
	}

	if v := q.Get("min_score"); v != "" {
		minScore, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid min_score value")
			return
		}
		filters.MinScore = &minScore
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit value")
			return
		}
		filters.Limit = limit
	}

	jobs, err := s.store.ListJobs(r.Context(), filters)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// handleSetStatus moves a job through its lifecycle. The request may
// opt into strict transition checking.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	var req struct {
		Status  store.Status `json:"status"`
		Enforce *bool        `json:"enforce,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	enforce := s.enforce
	if req.Enforce != nil {
		enforce = *req.Enforce
	}

	if err := s.store.SetStatus(r.Context(), id, req.Status, enforce); err != nil {
		s.storeError(w, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleRecomputeScores re-scores every job against the loaded
// interest profile.
func (s *Server) handleRecomputeScores(w http.ResponseWriter, r *http.Request) {
	if s.profile == nil {
		s.errorResponse(w, http.StatusBadRequest, "No interest profile configured")
		return
	}

	scored, err := scoring.ScoreAll(r.Context(), s.store, s.profile)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"scored": scored})
}
