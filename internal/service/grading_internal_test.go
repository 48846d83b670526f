package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/smartgrade/backend/internal/domain/problemset"
	"github.com/smartgrade/backend/internal/domain/submission"
	"github.com/smartgrade/backend/internal/grader"
	"github.com/smartgrade/backend/internal/jobs"
	"github.com/smartgrade/backend/internal/store"
)

type noProblems struct{}

func (noProblems) GetProblem(context.Context, string) (*problemset.Problem, error) {
	return nil, store.ErrNotFound
}

type noStudents struct{}

func (noStudents) GetSubmission(context.Context, string) (*submission.StudentSubmission, error) {
	return nil, store.ErrNotFound
}

func (noStudents) ListSubmissions(context.Context) ([]*submission.StudentSubmission, error) {
	return nil, nil
}

// A panic anywhere in the per-student path must surface as that student's
// error, so the batch collector can exclude the student instead of crashing
// a pool worker. Grader and store panics are already converted at answer
// scope; this guards the per-student code itself, so the test trips it with
// a nil submission.
func TestGradeStudentIsolated_PanicBecomesError(t *testing.T) {
	gs := NewGradingService(jobs.NewStore(), noProblems{}, noStudents{}, grader.NewStatic(),
		slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})

	out := gs.gradeStudentIsolated(context.Background(), nil)

	if out.err == nil {
		t.Fatal("expected an error from the recovered panic")
	}
	if !strings.Contains(out.err.Error(), "panicked") {
		t.Errorf("unexpected error %v", out.err)
	}
}
