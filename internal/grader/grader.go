package grader

import (
	"context"

	"github.com/smartgrade/backend/internal/domain/correction"
)

// AnswerUnit is everything a grader needs about one answer.
type AnswerUnit struct {
	QID     string
	Type    correction.QuestionType
	Label   string // the original free-form type tag, echoed into the Correction
	Content string
}

// AnswerGrader scores one student answer against one rubric.
// Implementations may call an LLM, use heuristics, or return canned results
// (for tests and offline runs). Calls are the slow, failure-prone unit of
// work; callers bound their concurrency and convert errors into degraded
// Corrections.
type AnswerGrader interface {
	Grade(ctx context.Context, unit AnswerUnit, rubric string, maxScore float64) (correction.Correction, error)
}
