package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dwesley/courseforge/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type buildRequest struct {
	CourseName string `json:"course_name"`
	SourceDir  string `json:"source_dir"`
}

// handleBuild queues a full site build from imported course material.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.CourseName == "" {
		jsonError(w, "course_name is required", http.StatusBadRequest)
		return
	}
	sourceDir := req.SourceDir
	if sourceDir == "" {
		sourceDir = s.cfg.SourceDir
	}

	job := pipeline.NewJob(req.CourseName, sourceDir)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/build/%s", job.ID),
	})
}

func (s *Server) handleBuildStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"course":   snap.CourseName,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}
