package correction_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/smartgrade/backend/internal/domain/correction"
)

func TestParseQuestionType_ChineseLabels(t *testing.T) {
	cases := map[string]correction.QuestionType{
		"概念题": correction.TypeConcept,
		"计算题": correction.TypeCalculation,
		"证明题": correction.TypeProof,
		"编程题": correction.TypeProgramming,
		"推理题": correction.TypeOther,
	}

	for tag, want := range cases {
		if got := correction.ParseQuestionType(tag); got != want {
			t.Errorf("ParseQuestionType(%q) = %v, want %v", tag, got, want)
		}
	}
}

func TestParseQuestionType_EnglishAliases(t *testing.T) {
	cases := map[string]correction.QuestionType{
		"concept":     correction.TypeConcept,
		"Calculation": correction.TypeCalculation,
		" proof ":     correction.TypeProof,
		"PROGRAMMING": correction.TypeProgramming,
		"":            correction.TypeOther,
		"essay":       correction.TypeOther,
	}

	for tag, want := range cases {
		if got := correction.ParseQuestionType(tag); got != want {
			t.Errorf("ParseQuestionType(%q) = %v, want %v", tag, got, want)
		}
	}
}

func TestGradingFailure_ZeroScoreZeroConfidence(t *testing.T) {
	c := correction.GradingFailure("q3", "计算题", 10, errors.New("model unreachable"))

	if c.Score != 0 {
		t.Errorf("expected score 0, got %v", c.Score)
	}
	if c.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", c.Confidence)
	}
	if c.MaxScore != 10 {
		t.Errorf("expected max score 10, got %v", c.MaxScore)
	}
	if !strings.Contains(c.Comment, "model unreachable") {
		t.Errorf("expected comment to carry the error text, got %q", c.Comment)
	}
}

func TestMissingProblem_CommentNamesQuestion(t *testing.T) {
	c := correction.MissingProblem("q7", "概念题")

	if c.Score != 0 || c.Confidence != 0 {
		t.Errorf("expected zero score and confidence, got %v / %v", c.Score, c.Confidence)
	}
	if c.MaxScore != correction.DefaultMaxScore {
		t.Errorf("expected default max score, got %v", c.MaxScore)
	}
	if !strings.Contains(c.Comment, "q7") || !strings.Contains(c.Comment, "not found") {
		t.Errorf("unexpected comment %q", c.Comment)
	}
}

func TestUnsupportedType_HalfCredit(t *testing.T) {
	c := correction.UnsupportedType("q1", "推理题", 10)

	if c.Score != 5 {
		t.Errorf("expected half credit 5, got %v", c.Score)
	}
	if c.Score < 0 || c.Score > c.MaxScore {
		t.Errorf("score %v out of range [0, %v]", c.Score, c.MaxScore)
	}
	if !strings.Contains(c.Comment, "推理题") {
		t.Errorf("expected comment to name the type, got %q", c.Comment)
	}
}

func TestSortByQuestionID_NaturalOrder(t *testing.T) {
	corrections := []correction.Correction{
		{QID: "q10"},
		{QID: "q2"},
		{QID: "q1"},
		{QID: "q21"},
		{QID: "q3"},
	}

	correction.SortByQuestionID(corrections)

	want := []string{"q1", "q2", "q3", "q10", "q21"}
	for i, w := range want {
		if corrections[i].QID != w {
			t.Fatalf("position %d: got %s, want %s", i, corrections[i].QID, w)
		}
	}
}

func TestNaturalLess_LongDigitRuns(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		// Runs far beyond what fits in an int64.
		{"q2", "q18446744073709551616", true},
		{"q18446744073709551616", "q2", false},
		{"q99999999999999999999", "q100000000000000000000", true},
		// Leading zeros do not change the numeric value.
		{"q007", "q8", true},
		{"q010", "q9", false},
		{"q01", "q1x", true},
	}

	for _, tc := range cases {
		if got := correction.NaturalLess(tc.a, tc.b); got != tc.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSortByQuestionID_MixedPrefixes(t *testing.T) {
	corrections := []correction.Correction{
		{QID: "q2.10"},
		{QID: "q2.2"},
		{QID: "p9"},
	}

	correction.SortByQuestionID(corrections)

	want := []string{"p9", "q2.2", "q2.10"}
	for i, w := range want {
		if corrections[i].QID != w {
			t.Fatalf("position %d: got %s, want %s", i, corrections[i].QID, w)
		}
	}
}
