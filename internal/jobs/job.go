// Package jobs tracks grading runs from submission to completion.
//
// A job lives entirely in process memory: it is created pending, transitions
// exactly once to completed or error, and is observed by polling. Nothing
// survives a restart; clients resubmit.
package jobs

import (
	"encoding/json"

	"github.com/smartgrade/backend/internal/domain/correction"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusNotFound  Status = "not_found"
)

// Terminal reports whether a job in this status will never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// StudentResult is one student's graded answer set inside a job payload.
type StudentResult struct {
	StudentID   string                  `json:"student_id"`
	Corrections []correction.Correction `json:"corrections"`
}

// Job is a snapshot of one grading run. Exactly one of Single and Batch is
// set when Status is completed; Message is set only for errors.
type Job struct {
	ID      string
	Status  Status
	Single  *StudentResult
	Batch   []StudentResult
	Message string
}

// MarshalJSON emits the wire shapes the poller contract defines:
//
//	{"status":"pending"}
//	{"status":"completed","student_id":...,"corrections":[...]}
//	{"status":"completed","results":[{"student_id":...,"corrections":[...]},...]}
//	{"status":"error","message":...}
//	{"status":"not_found"}
func (j Job) MarshalJSON() ([]byte, error) {
	switch {
	case j.Status == StatusCompleted && j.Single != nil:
		return json.Marshal(struct {
			Status      Status                  `json:"status"`
			StudentID   string                  `json:"student_id"`
			Corrections []correction.Correction `json:"corrections"`
		}{j.Status, j.Single.StudentID, j.Single.Corrections})
	case j.Status == StatusCompleted:
		results := j.Batch
		if results == nil {
			results = []StudentResult{}
		}
		return json.Marshal(struct {
			Status  Status          `json:"status"`
			Results []StudentResult `json:"results"`
		}{j.Status, results})
	case j.Status == StatusError:
		return json.Marshal(struct {
			Status  Status `json:"status"`
			Message string `json:"message"`
		}{j.Status, j.Message})
	default:
		return json.Marshal(struct {
			Status Status `json:"status"`
		}{j.Status})
	}
}
