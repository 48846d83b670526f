// internal/service/grading.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smartgrade/backend/internal/domain/correction"
	"github.com/smartgrade/backend/internal/domain/submission"
	"github.com/smartgrade/backend/internal/grader"
	"github.com/smartgrade/backend/internal/jobs"
	"github.com/smartgrade/backend/internal/store"
	"github.com/smartgrade/backend/internal/worker"
)

// Options tune the grading fan-out. Zero values fall back to the defaults.
type Options struct {
	// AnswerWorkers bounds concurrent grader calls per student. Kept small
	// on purpose: the bound trades throughput for predictable API usage.
	AnswerWorkers int
	// StudentWorkers bounds how many students of a batch grade at once.
	StudentWorkers int
	// GradeTimeout caps one grader call. Expiry is handled exactly like a
	// grader error: the answer gets a zero-score correction.
	GradeTimeout time.Duration
}

const (
	defaultAnswerWorkers  = 3
	defaultStudentWorkers = 4
	rubricCacheCapacity   = 256
)

// GradingService owns the asynchronous grading jobs: it creates them,
// fans grading work out across worker pools, and commits results to the
// in-memory job store that pollers read.
type GradingService struct {
	jobs     *jobs.Store
	problems store.ProblemStore
	students store.StudentStore
	grader   grader.AnswerGrader
	logger   *slog.Logger
	rubrics  *rubricCache
	opts     Options
}

// NewGradingService creates a GradingService.
func NewGradingService(js *jobs.Store, problems store.ProblemStore, students store.StudentStore, g grader.AnswerGrader, logger *slog.Logger, opts Options) *GradingService {
	if opts.AnswerWorkers <= 0 {
		opts.AnswerWorkers = defaultAnswerWorkers
	}
	if opts.StudentWorkers <= 0 {
		opts.StudentWorkers = defaultStudentWorkers
	}
	return &GradingService{
		jobs:     js,
		problems: problems,
		students: students,
		grader:   g,
		logger:   logger,
		rubrics:  newRubricCache(rubricCacheCapacity),
		opts:     opts,
	}
}

// ── Submission / polling ────────────────────────────────────────────────────

// SubmitStudent registers a pending job for one student and returns its id
// immediately; grading runs on its own goroutine and the caller polls.
func (gs *GradingService) SubmitStudent(studentID string) string {
	jobID := uuid.NewString()
	gs.jobs.Create(jobID)

	gs.logger.Info("grading job submitted", "job_id", jobID, "student_id", studentID)
	go gs.runStudent(jobID, studentID)

	return jobID
}

// SubmitBatch registers a pending job covering every stored submission.
func (gs *GradingService) SubmitBatch() string {
	jobID := uuid.NewString()
	gs.jobs.Create(jobID)

	gs.logger.Info("batch grading job submitted", "job_id", jobID)
	go gs.runBatch(jobID)

	return jobID
}

// JobStatus returns the current snapshot of a job. It never blocks on
// in-flight grading; unknown ids report status not_found.
func (gs *GradingService) JobStatus(jobID string) jobs.Job {
	job, _ := gs.jobs.Get(jobID)
	return job
}

// ── Schedulers ──────────────────────────────────────────────────────────────

// runStudent grades one named student. It uses context.Background because
// grading runs asynchronously and must not be cancelled when the originating
// HTTP request ends.
func (gs *GradingService) runStudent(jobID, studentID string) {
	defer gs.recoverJob(jobID)
	ctx := context.Background()

	sub, err := gs.students.GetSubmission(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			gs.logger.Error("student not found", "job_id", jobID, "student_id", studentID)
			gs.jobs.SetError(jobID, fmt.Sprintf("student %s not found", studentID))
			return
		}
		gs.jobs.SetError(jobID, err.Error())
		return
	}

	corrections := gs.gradeStudent(ctx, sub)
	gs.jobs.SetStudentResult(jobID, jobs.StudentResult{
		StudentID:   studentID,
		Corrections: corrections,
	})

	gs.logger.Info("grading job completed", "job_id", jobID, "student_id", studentID, "answers", len(corrections))
}

// studentOutcome is what the outer (per-student) pool yields for one student.
type studentOutcome struct {
	result jobs.StudentResult
	err    error
}

// runBatch grades every gradable submission. Students grade concurrently on
// an outer pool; a student whose grading fails is logged and excluded, the
// job still completes with the remaining entries.
func (gs *GradingService) runBatch(jobID string) {
	defer gs.recoverJob(jobID)
	ctx := context.Background()

	subs, err := gs.students.ListSubmissions(ctx)
	if err != nil {
		gs.jobs.SetError(jobID, err.Error())
		return
	}

	pool := worker.NewPool[studentOutcome](gs.opts.StudentWorkers, len(subs)+1)
	defer pool.Close()

	submitted := 0
	for _, sub := range subs {
		if !sub.Gradable() {
			gs.logger.Warn("skipping submission without student id", "job_id", jobID, "student_name", sub.StudentName)
			continue
		}
		sub := sub
		pool.Submit(sub.StudentID, func() studentOutcome {
			return gs.gradeStudentIsolated(ctx, sub)
		})
		submitted++
	}

	results := make([]jobs.StudentResult, 0, submitted)
	for i := 0; i < submitted; i++ {
		out := (<-pool.Results()).Output
		if out.err != nil {
			gs.logger.Error("student grading failed, excluded from batch",
				"job_id", jobID, "student_id", out.result.StudentID, "error", out.err)
			continue
		}
		results = append(results, out.result)
	}

	// Students finish in completion order; sort for a stable payload.
	sortResultsByStudentID(results)

	gs.jobs.SetBatchResult(jobID, results)
	gs.logger.Info("batch grading job completed", "job_id", jobID, "students", len(results), "submitted", submitted)
}

// gradeStudentIsolated confines one student's failure to that student:
// a panic while grading becomes an error and the batch moves on.
func (gs *GradingService) gradeStudentIsolated(ctx context.Context, sub *submission.StudentSubmission) (out studentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out.err = fmt.Errorf("grading panicked: %v", r)
		}
	}()

	out.result.StudentID = sub.StudentID
	out.result.Corrections = gs.gradeStudent(ctx, sub)
	return out
}

// gradeStudent grades all answers of one student on a bounded pool and
// returns one Correction per answer, in natural question-id order.
func (gs *GradingService) gradeStudent(ctx context.Context, sub *submission.StudentSubmission) []correction.Correction {
	answers := sub.Answers
	pool := worker.NewPool[correction.Correction](gs.opts.AnswerWorkers, len(answers)+1)
	defer pool.Close()

	for _, ans := range answers {
		ans := ans
		pool.Submit(ans.QID, func() correction.Correction {
			return gs.gradeAnswer(ctx, ans)
		})
	}

	corrections := make([]correction.Correction, 0, len(answers))
	for range answers {
		corrections = append(corrections, (<-pool.Results()).Output)
	}

	correction.SortByQuestionID(corrections)
	return corrections
}

// gradeAnswer produces exactly one Correction for one answer. Every failure
// mode degrades into a well-formed Correction; nothing escapes this scope.
func (gs *GradingService) gradeAnswer(ctx context.Context, ans submission.Answer) (c correction.Correction) {
	defer func() {
		if r := recover(); r != nil {
			gs.logger.Error("grader panicked", "q_id", ans.QID, "panic", r)
			c = correction.GradingFailure(ans.QID, ans.Type, correction.DefaultMaxScore, fmt.Errorf("%v", r))
		}
	}()

	rub, err := gs.lookupRubric(ctx, ans.QID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			gs.logger.Warn("problem not found in problem set", "q_id", ans.QID)
			return correction.MissingProblem(ans.QID, ans.Type)
		}
		gs.logger.Error("rubric lookup failed", "q_id", ans.QID, "error", err)
		return correction.GradingFailure(ans.QID, ans.Type, correction.DefaultMaxScore, err)
	}

	qType := correction.ParseQuestionType(ans.Type)
	if qType == correction.TypeOther {
		gs.logger.Warn("unsupported question type", "q_id", ans.QID, "type", ans.Type)
		return correction.UnsupportedType(ans.QID, ans.Type, rub.maxScore)
	}

	callCtx := ctx
	if gs.opts.GradeTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, gs.opts.GradeTimeout)
		defer cancel()
	}

	c, err = gs.grader.Grade(callCtx, grader.AnswerUnit{
		QID:     ans.QID,
		Type:    qType,
		Label:   ans.Type,
		Content: ans.Content,
	}, rub.criterion, rub.maxScore)
	if err != nil {
		gs.logger.Error("grading error", "q_id", ans.QID, "error", err)
		return correction.GradingFailure(ans.QID, ans.Type, rub.maxScore, err)
	}
	return c
}

// lookupRubric resolves a question's rubric through the bounded cache.
// Cached entries are not invalidated when a problem is edited, so a job
// running across an edit may grade against the old rubric.
func (gs *GradingService) lookupRubric(ctx context.Context, qID string) (rubric, error) {
	if rub, ok := gs.rubrics.get(qID); ok {
		return rub, nil
	}

	problem, err := gs.problems.GetProblem(ctx, qID)
	if err != nil {
		return rubric{}, err
	}

	maxScore := problem.MaxScore
	if maxScore <= 0 {
		maxScore = correction.DefaultMaxScore
	}
	rub := rubric{criterion: problem.Criterion, maxScore: maxScore}
	gs.rubrics.put(qID, rub)
	return rub, nil
}

// recoverJob is the outermost safety net: anything escaping a scheduler
// goroutine turns into a terminal error status instead of a crash.
func (gs *GradingService) recoverJob(jobID string) {
	if r := recover(); r != nil {
		gs.logger.Error("grading job failed", "job_id", jobID, "panic", r)
		gs.jobs.SetError(jobID, fmt.Sprintf("%v", r))
	}
}

// sortResultsByStudentID uses the same natural order as question ids, so
// "s2" sorts before "s10".
func sortResultsByStudentID(results []jobs.StudentResult) {
	sort.Slice(results, func(i, j int) bool {
		return correction.NaturalLess(results[i].StudentID, results[j].StudentID)
	})
}
