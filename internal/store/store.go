package store

import (
	"context"
	"errors"

	"github.com/smartgrade/backend/internal/domain/problemset"
	"github.com/smartgrade/backend/internal/domain/submission"
)

var (
	ErrNotFound = errors.New("not found")
)

// ProblemStore provides read access to the uploaded problem set. The grading
// core resolves rubrics through this interface and never mutates problems.
type ProblemStore interface {
	GetProblem(ctx context.Context, qID string) (*problemset.Problem, error)
}

// StudentStore provides read access to uploaded student submissions.
type StudentStore interface {
	GetSubmission(ctx context.Context, studentID string) (*submission.StudentSubmission, error)
	ListSubmissions(ctx context.Context) ([]*submission.StudentSubmission, error)
}
