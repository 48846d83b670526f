// internal/service/report.go
package service

import (
	"errors"
	"sort"
	"strconv"

	"github.com/smartgrade/backend/internal/domain/correction"
	"github.com/smartgrade/backend/internal/jobs"
)

var (
	// ErrJobNotFound is returned when summarizing an unknown job id.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobNotCompleted is returned for pending or failed jobs.
	ErrJobNotCompleted = errors.New("job is not completed")
)

// StudentSummary is one student's aggregated result.
type StudentSummary struct {
	StudentID  string  `json:"student_id"`
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	GradeLevel string  `json:"grade_level"`
}

// QuestionSummary aggregates one question across all graded students.
type QuestionSummary struct {
	QID      string  `json:"q_id"`
	Type     string  `json:"type"`
	AvgScore float64 `json:"avg_score"`
	MaxScore float64 `json:"max_score"`
	PassRate float64 `json:"pass_rate"`
}

// JobSummary is the dashboard view of one completed grading job.
type JobSummary struct {
	JobID     string            `json:"job_id"`
	Students  []StudentSummary  `json:"students"`
	Questions []QuestionSummary `json:"questions"`
}

// JobSummary aggregates a completed job's corrections into per-student
// totals and per-question statistics. Single-student jobs summarize as a
// one-entry batch.
func (gs *GradingService) JobSummary(jobID string) (JobSummary, error) {
	job, ok := gs.jobs.Get(jobID)
	if !ok {
		return JobSummary{}, ErrJobNotFound
	}
	if job.Status != jobs.StatusCompleted {
		return JobSummary{}, ErrJobNotCompleted
	}

	results := job.Batch
	if job.Single != nil {
		results = []jobs.StudentResult{*job.Single}
	}

	summary := JobSummary{
		JobID:     jobID,
		Students:  make([]StudentSummary, 0, len(results)),
		Questions: []QuestionSummary{},
	}

	type questionAccum struct {
		qID      string
		typeTag  string
		maxScore float64
		total    float64
		passed   int
		count    int
	}
	questionStats := make(map[string]*questionAccum)

	for _, res := range results {
		var total, max float64
		for _, c := range res.Corrections {
			total += c.Score
			max += c.MaxScore

			acc, ok := questionStats[c.QID]
			if !ok {
				acc = &questionAccum{qID: c.QID, typeTag: c.Type, maxScore: c.MaxScore}
				questionStats[c.QID] = acc
			}
			acc.total += c.Score
			acc.count++
			if c.MaxScore > 0 && c.Score >= 0.6*c.MaxScore {
				acc.passed++
			}
		}

		percentage := 0.0
		if max > 0 {
			percentage = total / max * 100
		}
		summary.Students = append(summary.Students, StudentSummary{
			StudentID:  res.StudentID,
			TotalScore: total,
			MaxScore:   max,
			Percentage: percentage,
			GradeLevel: gradeLevel(percentage),
		})
	}

	for _, acc := range questionStats {
		summary.Questions = append(summary.Questions, QuestionSummary{
			QID:      acc.qID,
			Type:     acc.typeTag,
			AvgScore: acc.total / float64(acc.count),
			MaxScore: acc.maxScore,
			PassRate: float64(acc.passed) / float64(acc.count),
		})
	}
	sortQuestionSummaries(summary.Questions)

	return summary, nil
}

// ExportRows renders a completed job as CSV rows (header first), one row
// per correction.
func (gs *GradingService) ExportRows(jobID string) ([][]string, error) {
	job, ok := gs.jobs.Get(jobID)
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.Status != jobs.StatusCompleted {
		return nil, ErrJobNotCompleted
	}

	results := job.Batch
	if job.Single != nil {
		results = []jobs.StudentResult{*job.Single}
	}

	rows := [][]string{{"student_id", "q_id", "type", "score", "max_score", "confidence", "comment"}}
	for _, res := range results {
		for _, c := range res.Corrections {
			rows = append(rows, []string{
				res.StudentID,
				c.QID,
				c.Type,
				strconv.FormatFloat(c.Score, 'f', -1, 64),
				strconv.FormatFloat(c.MaxScore, 'f', -1, 64),
				strconv.FormatFloat(c.Confidence, 'f', -1, 64),
				c.Comment,
			})
		}
	}
	return rows, nil
}

// gradeLevel maps a percentage to the report band used by the dashboard.
func gradeLevel(percentage float64) string {
	switch {
	case percentage >= 90:
		return "excellent"
	case percentage >= 80:
		return "good"
	case percentage >= 70:
		return "average"
	case percentage >= 60:
		return "pass"
	default:
		return "fail"
	}
}

func sortQuestionSummaries(questions []QuestionSummary) {
	sort.Slice(questions, func(i, j int) bool {
		return correction.NaturalLess(questions[i].QID, questions[j].QID)
	})
}
