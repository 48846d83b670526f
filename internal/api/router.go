// internal/api/router.go
package api

import "net/http"

// RegisterRoutes mounts all API routes on the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Problems
	mux.HandleFunc("POST /problems", h.createProblems)
	mux.HandleFunc("GET /problems", h.listProblems)
	mux.HandleFunc("GET /problems/{qID}", h.getProblem)
	mux.HandleFunc("PUT /problems/{qID}/criterion", h.updateCriterion)
	mux.HandleFunc("DELETE /problems/{qID}", h.deleteProblem)

	// Submissions
	mux.HandleFunc("POST /submissions", h.createSubmissions)
	mux.HandleFunc("GET /submissions", h.listSubmissions)
	mux.HandleFunc("GET /submissions/{studentID}", h.getSubmission)
	mux.HandleFunc("DELETE /submissions/{studentID}", h.deleteSubmission)

	// Grading jobs
	mux.HandleFunc("POST /ai-grading/grade-student", h.startGrading)
	mux.HandleFunc("POST /ai-grading/grade-all", h.startBatchGrading)
	mux.HandleFunc("GET /ai-grading/grade-result/{jobID}", h.getGradingResult)
	mux.HandleFunc("GET /ai-grading/grade-result/{jobID}/summary", h.getGradingSummary)
	mux.HandleFunc("GET /ai-grading/grade-result/{jobID}/export", h.exportGradingResult)
}
