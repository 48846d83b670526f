package problemset

import (
	"errors"
	"fmt"

	"github.com/smartgrade/backend/internal/domain/correction"
)

// Problem is one question of an uploaded problem set: its stem plus the
// free-text rubric an AnswerGrader scores against.
type Problem struct {
	QID       string  `json:"q_id"`
	Number    string  `json:"number"`
	Type      string  `json:"type"`
	Stem      string  `json:"stem"`
	Criterion string  `json:"criterion"`
	MaxScore  float64 `json:"max_score"`
}

// New validates and normalizes a problem. An empty qID is allowed here;
// the store assigns the next sequential "qN" id on save.
func New(qID, number, qType, stem, criterion string, maxScore float64) (*Problem, error) {
	if stem == "" {
		return nil, errors.New("problem stem cannot be empty")
	}
	if maxScore < 0 {
		return nil, fmt.Errorf("max score cannot be negative, got %v", maxScore)
	}
	if maxScore == 0 {
		maxScore = correction.DefaultMaxScore
	}
	return &Problem{
		QID:       qID,
		Number:    number,
		Type:      qType,
		Stem:      stem,
		Criterion: criterion,
		MaxScore:  maxScore,
	}, nil
}
