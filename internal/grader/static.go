package grader

import (
	"context"

	"github.com/smartgrade/backend/internal/domain/correction"
)

// Static is an AnswerGrader that returns canned results. It exists for
// offline runs (GRADER=static) and for tests that exercise the job machinery
// without a model endpoint.
type Static struct {
	// Fraction of the maximum score every answer receives. Empty answers
	// always score zero.
	ScoreFraction float64
}

var _ AnswerGrader = (*Static)(nil)

func NewStatic() *Static {
	return &Static{ScoreFraction: 1.0}
}

func (g *Static) Grade(_ context.Context, unit AnswerUnit, _ string, maxScore float64) (correction.Correction, error) {
	score := g.ScoreFraction * maxScore
	comment := "statically graded"
	if unit.Content == "" {
		score = 0
		comment = "no answer given"
	}
	return correction.Correction{
		QID:        unit.QID,
		Type:       unit.Label,
		Score:      clamp(score, 0, maxScore),
		MaxScore:   maxScore,
		Confidence: 1.0,
		Comment:    comment,
	}, nil
}
