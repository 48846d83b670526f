package api

import (
	"net/http"

	"github.com/smartgrade/backend/internal/domain/submission"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSubmissionsRequest struct {
	Submissions []submission.StudentSubmission `json:"submissions"`
}

type CreateSubmissionsResponse struct {
	Saved int `json:"saved"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /submissions
//
// Registers recognized student submissions. A submission without a student
// id is rejected here: it could never be addressed for grading.
func (h *Handler) createSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateSubmissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Submissions) == 0 {
		http.Error(w, "submissions list is empty", http.StatusBadRequest)
		return
	}

	saved := 0
	for i := range req.Submissions {
		sub := &req.Submissions[i]
		if sub.StudentID == "" {
			http.Error(w, "stu_id is required for every submission", http.StatusBadRequest)
			return
		}
		if err := h.store.SaveSubmission(ctx, sub); err != nil {
			h.logger.Error("failed to save submission", "student_id", sub.StudentID, "error", err)
			http.Error(w, "failed to save submission", http.StatusInternalServerError)
			return
		}
		saved++
	}

	respondJSON(w, http.StatusCreated, CreateSubmissionsResponse{Saved: saved})
}

// GET /submissions
func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListSubmissions(r.Context())
	if err != nil {
		h.logger.Error("failed to list submissions", "error", err)
		http.Error(w, "failed to load submissions", http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []*submission.StudentSubmission{}
	}

	respondJSON(w, http.StatusOK, subs)
}

// GET /submissions/{studentID}
func (h *Handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentID")

	sub, err := h.store.GetSubmission(r.Context(), studentID)
	if h.handleStoreError(w, err, "submission") {
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

// DELETE /submissions/{studentID}
func (h *Handler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentID")

	err := h.store.DeleteSubmission(r.Context(), studentID)
	if h.handleStoreError(w, err, "submission") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
