package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"

	"github.com/smartgrade/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartGradingRequest struct {
	StudentID string `json:"student_id"`
}

type StartGradingResponse struct {
	JobID string `json:"job_id"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /ai-grading/grade-student
//
// Registers a pending job for one student and returns its id immediately.
// Grading runs in the background; the client polls grade-result.
func (h *Handler) startGrading(w http.ResponseWriter, r *http.Request) {
	var req StartGradingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.StudentID == "" {
		http.Error(w, "student_id is required", http.StatusBadRequest)
		return
	}

	jobID := h.grading.SubmitStudent(req.StudentID)

	respondJSON(w, http.StatusAccepted, StartGradingResponse{JobID: jobID})
}

// POST /ai-grading/grade-all
func (h *Handler) startBatchGrading(w http.ResponseWriter, r *http.Request) {
	jobID := h.grading.SubmitBatch()

	respondJSON(w, http.StatusAccepted, StartGradingResponse{JobID: jobID})
}

// GET /ai-grading/grade-result/{jobID}
//
// Never blocks on in-flight grading; always returns the most recent
// committed state. Unknown ids report {"status":"not_found"}.
func (h *Handler) getGradingResult(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	respondJSON(w, http.StatusOK, h.grading.JobStatus(jobID))
}

// GET /ai-grading/grade-result/{jobID}/summary
func (h *Handler) getGradingSummary(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	summary, err := h.grading.JobSummary(jobID)
	if errors.Is(err, service.ErrJobNotFound) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, service.ErrJobNotCompleted) {
		http.Error(w, "job is not completed", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("summary failed", "job_id", jobID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GET /ai-grading/grade-result/{jobID}/export
//
// Streams the completed job as CSV, one row per correction.
func (h *Handler) exportGradingResult(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	rows, err := h.grading.ExportRows(jobID)
	if errors.Is(err, service.ErrJobNotFound) {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, service.ErrJobNotCompleted) {
		http.Error(w, "job is not completed", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("export failed", "job_id", jobID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=grading-%s.csv", jobID))

	cw := csv.NewWriter(w)
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			h.logger.Error("csv write failed", "job_id", jobID, "error", err)
			return
		}
	}
	cw.Flush()
}
