package correction

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMaxScore is used when a rubric does not state its own maximum.
const DefaultMaxScore = 10.0

// Correction is the graded outcome for one answer to one question.
// Instances come either from an AnswerGrader or from one of the fallback
// constructors below; downstream consumers cannot tell the two apart by
// shape, only by content.
type Correction struct {
	QID        string  `json:"q_id"`
	Type       string  `json:"type"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Confidence float64 `json:"confidence"`
	Comment    string  `json:"comment"`
}

// QuestionType classifies a question for grader dispatch.
type QuestionType int

const (
	TypeConcept QuestionType = iota
	TypeCalculation
	TypeProof
	TypeProgramming
	TypeOther
)

func (t QuestionType) String() string {
	switch t {
	case TypeConcept:
		return "concept"
	case TypeCalculation:
		return "calculation"
	case TypeProof:
		return "proof"
	case TypeProgramming:
		return "programming"
	default:
		return "other"
	}
}

// ParseQuestionType maps a free-form type tag to a QuestionType.
// Problem sets extracted from Chinese course material carry the Chinese
// labels; English aliases are accepted too. Anything else is TypeOther.
func ParseQuestionType(tag string) QuestionType {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "概念题", "concept":
		return TypeConcept
	case "计算题", "calculation":
		return TypeCalculation
	case "证明题", "proof":
		return TypeProof
	case "编程题", "programming":
		return TypeProgramming
	default:
		return TypeOther
	}
}

// ── Fallback constructors ───────────────────────────────────────────────────

// GradingFailure converts a grader error into a zero-score Correction so a
// single failed answer never fails its sibling answers.
func GradingFailure(qid, typeTag string, maxScore float64, err error) Correction {
	return Correction{
		QID:        qid,
		Type:       typeTag,
		Score:      0,
		MaxScore:   maxScore,
		Confidence: 0,
		Comment:    fmt.Sprintf("grading error: %v", err),
	}
}

// MissingProblem is used when an answer references a question id that is
// absent from the problem set.
func MissingProblem(qid, typeTag string) Correction {
	return Correction{
		QID:        qid,
		Type:       typeTag,
		Score:      0,
		MaxScore:   DefaultMaxScore,
		Confidence: 0,
		Comment:    fmt.Sprintf("problem %s not found in problem set", qid),
	}
}

// UnsupportedType gives half credit for question types no grader handles.
// TODO: revisit the 50% policy once per-type graders cover 推理题.
func UnsupportedType(qid, typeTag string, maxScore float64) Correction {
	return Correction{
		QID:        qid,
		Type:       typeTag,
		Score:      0.5 * maxScore,
		MaxScore:   maxScore,
		Confidence: 0.5,
		Comment:    fmt.Sprintf("unsupported question type: %s", typeTag),
	}
}

// ── Ordering ────────────────────────────────────────────────────────────────

// SortByQuestionID orders corrections by natural question-id order, so that
// "q2" sorts before "q10". Worker pools emit corrections in completion
// order, which is non-deterministic.
func SortByQuestionID(corrections []Correction) {
	sort.SliceStable(corrections, func(i, j int) bool {
		return NaturalLess(corrections[i].QID, corrections[j].QID)
	})
}

// NaturalLess compares two strings treating runs of digits as numbers.
// Digit runs compare by length after stripping leading zeros, then byte by
// byte, so arbitrarily long ids never overflow an integer.
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			da, ra := leadingDigits(a)
			db, rb := leadingDigits(b)
			da, db = trimLeadingZeros(da), trimLeadingZeros(db)
			if len(da) != len(db) {
				return len(da) < len(db)
			}
			if da != db {
				return da < db
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// leadingDigits splits off the leading digit run.
func leadingDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}
