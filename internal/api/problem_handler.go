package api

import (
	"net/http"

	"github.com/smartgrade/backend/internal/domain/problemset"
)

// ── Request / Response types ────────────────────────────────────────────────

type ProblemPayload struct {
	QID       string  `json:"q_id,omitempty"`
	Number    string  `json:"number"`
	Type      string  `json:"type"`
	Stem      string  `json:"stem"`
	Criterion string  `json:"criterion"`
	MaxScore  float64 `json:"max_score,omitempty"`
}

type CreateProblemsRequest struct {
	Problems []ProblemPayload `json:"problems"`
}

type CreateProblemsResponse struct {
	Created []string `json:"created"` // assigned question ids, in upload order
}

type UpdateCriterionRequest struct {
	Criterion string `json:"criterion"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /problems
//
// Registers the problems of an extracted problem set. Problems arriving
// without a q_id get the next sequential one.
func (h *Handler) createProblems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateProblemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Problems) == 0 {
		http.Error(w, "problems list is empty", http.StatusBadRequest)
		return
	}

	created := make([]string, 0, len(req.Problems))
	for _, p := range req.Problems {
		problem, err := problemset.New(p.QID, p.Number, p.Type, p.Stem, p.Criterion, p.MaxScore)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.store.SaveProblem(ctx, problem); err != nil {
			h.logger.Error("failed to save problem", "q_id", problem.QID, "error", err)
			http.Error(w, "failed to save problem", http.StatusInternalServerError)
			return
		}
		created = append(created, problem.QID)
	}

	respondJSON(w, http.StatusCreated, CreateProblemsResponse{Created: created})
}

// GET /problems
func (h *Handler) listProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.store.ListProblems(r.Context())
	if err != nil {
		h.logger.Error("failed to list problems", "error", err)
		http.Error(w, "failed to load problems", http.StatusInternalServerError)
		return
	}
	if problems == nil {
		problems = []*problemset.Problem{}
	}

	respondJSON(w, http.StatusOK, problems)
}

// GET /problems/{qID}
func (h *Handler) getProblem(w http.ResponseWriter, r *http.Request) {
	qID := r.PathValue("qID")

	problem, err := h.store.GetProblem(r.Context(), qID)
	if h.handleStoreError(w, err, "problem") {
		return
	}

	respondJSON(w, http.StatusOK, problem)
}

// PUT /problems/{qID}/criterion
//
// Replaces a problem's rubric. Jobs already running may keep grading against
// a cached copy of the old rubric.
func (h *Handler) updateCriterion(w http.ResponseWriter, r *http.Request) {
	qID := r.PathValue("qID")

	var req UpdateCriterionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.store.UpdateCriterion(r.Context(), qID, req.Criterion)
	if h.handleStoreError(w, err, "problem") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /problems/{qID}
func (h *Handler) deleteProblem(w http.ResponseWriter, r *http.Request) {
	qID := r.PathValue("qID")

	err := h.store.DeleteProblem(r.Context(), qID)
	if h.handleStoreError(w, err, "problem") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
