package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jordan/jobtrack/internal/store"
)

// handleRecordApplication records that a job was applied to, with
// whatever material paths the caller already has.
func (s *Server) handleRecordApplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID      string `json:"job_id"`
		ResumePath string `json:"resume_path,omitempty"`
		CoverPath  string `json:"cover_path,omitempty"`
		Notes      string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	app, err := s.store.RecordApplication(r.Context(), req.JobID, req.ResumePath, req.CoverPath, req.Notes)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

// handleGetApplication fetches the application for a job.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_id query parameter is required")
		return
	}

	app, err := s.store.GetApplication(r.Context(), jobID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleAppendNote appends a free-form note to a job's application.
func (s *Server) handleAppendNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID string `json:"job_id"`
		Note  string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := s.store.AppendNote(r.Context(), req.JobID, req.Note); err != nil {
		s.storeError(w, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), req.JobID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// staticProvider hands back content the request already carried.
type staticProvider struct {
	bullets string
	cover   string
}

func (p staticProvider) Materials(_ context.Context, _ *store.Job) (string, string, error) {
	return p.bullets, p.cover, nil
}

// handleWriteMaterials writes the tailored resume and cover letter
// files for a job from caller-supplied content, then records the
// application.
func (s *Server) handleWriteMaterials(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID   string `json:"job_id"`
		Bullets string `json:"bullets"`
		Cover   string `json:"cover"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.JobID == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required")
		return
	}

	writer := s.writer(staticProvider{bullets: req.Bullets, cover: req.Cover})
	app, err := writer.Generate(r.Context(), req.JobID)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}
