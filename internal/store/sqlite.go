// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/smartgrade/backend/internal/domain/problemset"
	"github.com/smartgrade/backend/internal/domain/submission"
)

const schema = `
CREATE TABLE IF NOT EXISTS problems (
    q_id TEXT PRIMARY KEY,
    number TEXT NOT NULL,
    type TEXT NOT NULL,
    stem TEXT NOT NULL,
    criterion TEXT NOT NULL,
    max_score REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    stu_id TEXT PRIMARY KEY,
    stu_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS answers (
    stu_id TEXT NOT NULL,
    q_id TEXT NOT NULL,
    number TEXT NOT NULL,
    type TEXT NOT NULL,
    content TEXT NOT NULL,
    flags TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (stu_id, q_id),
    FOREIGN KEY (stu_id) REFERENCES students(stu_id) ON DELETE CASCADE
);
`

// SQLiteStore persists problem sets and student submissions. Grading job
// state deliberately stays out of here: jobs are in-memory only and do not
// survive a restart.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time checks: SQLiteStore backs both read interfaces.
var (
	_ ProblemStore = (*SQLiteStore)(nil)
	_ StudentStore = (*SQLiteStore)(nil)
)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Problems
// ============================================================================

// SaveProblem inserts a problem. When the problem arrives without a q_id
// (extraction left it blank), the next "qN" id is assigned from the highest
// numeric suffix still present, not the row count, so ids stay free after
// deletions.
func (s *SQLiteStore) SaveProblem(ctx context.Context, p *problemset.Problem) error {
	if p.QID == "" {
		var maxID int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(CAST(SUBSTR(q_id, 2) AS INTEGER)), 0) FROM problems WHERE q_id LIKE 'q%'").Scan(&maxID); err != nil {
			return err
		}
		p.QID = fmt.Sprintf("q%d", maxID+1)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO problems (q_id, number, type, stem, criterion, max_score) VALUES (?, ?, ?, ?, ?, ?)",
		p.QID, p.Number, p.Type, p.Stem, p.Criterion, p.MaxScore)
	return err
}

func (s *SQLiteStore) GetProblem(ctx context.Context, qID string) (*problemset.Problem, error) {
	var p problemset.Problem
	err := s.db.QueryRowContext(ctx,
		"SELECT q_id, number, type, stem, criterion, max_score FROM problems WHERE q_id = ?", qID).
		Scan(&p.QID, &p.Number, &p.Type, &p.Stem, &p.Criterion, &p.MaxScore)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) ListProblems(ctx context.Context) ([]*problemset.Problem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT q_id, number, type, stem, criterion, max_score FROM problems")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []*problemset.Problem
	for rows.Next() {
		var p problemset.Problem
		if err := rows.Scan(&p.QID, &p.Number, &p.Type, &p.Stem, &p.Criterion, &p.MaxScore); err != nil {
			return nil, err
		}
		problems = append(problems, &p)
	}
	return problems, rows.Err()
}

// UpdateCriterion replaces the rubric text of one problem. Grading jobs
// already running may keep using a cached copy of the old rubric.
func (s *SQLiteStore) UpdateCriterion(ctx context.Context, qID, criterion string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE problems SET criterion = ? WHERE q_id = ?", criterion, qID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteProblem(ctx context.Context, qID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM problems WHERE q_id = ?", qID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================================
// Submissions
// ============================================================================

// SaveSubmission stores one student's full answer set, replacing any earlier
// upload for the same student id.
func (s *SQLiteStore) SaveSubmission(ctx context.Context, sub *submission.StudentSubmission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM answers WHERE stu_id = ?", sub.StudentID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO students (stu_id, stu_name) VALUES (?, ?) ON CONFLICT(stu_id) DO UPDATE SET stu_name = excluded.stu_name",
		sub.StudentID, sub.StudentName); err != nil {
		return err
	}

	for i, ans := range sub.Answers {
		flags, err := json.Marshal(ans.Flags)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO answers (stu_id, q_id, number, type, content, flags, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			sub.StudentID, ans.QID, ans.Number, ans.Type, ans.Content, string(flags), i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, studentID string) (*submission.StudentSubmission, error) {
	var sub submission.StudentSubmission
	err := s.db.QueryRowContext(ctx,
		"SELECT stu_id, stu_name FROM students WHERE stu_id = ?", studentID).
		Scan(&sub.StudentID, &sub.StudentName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	answers, err := s.loadAnswers(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sub.Answers = answers
	return &sub, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context) ([]*submission.StudentSubmission, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT stu_id, stu_name FROM students ORDER BY stu_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*submission.StudentSubmission
	for rows.Next() {
		var sub submission.StudentSubmission
		if err := rows.Scan(&sub.StudentID, &sub.StudentName); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sub := range subs {
		answers, err := s.loadAnswers(ctx, sub.StudentID)
		if err != nil {
			return nil, err
		}
		sub.Answers = answers
	}
	return subs, nil
}

func (s *SQLiteStore) DeleteSubmission(ctx context.Context, studentID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE stu_id = ?", studentID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM answers WHERE stu_id = ?", studentID)
	return err
}

func (s *SQLiteStore) loadAnswers(ctx context.Context, studentID string) ([]submission.Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT q_id, number, type, content, flags FROM answers WHERE stu_id = ? ORDER BY position", studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []submission.Answer
	for rows.Next() {
		var ans submission.Answer
		var flags string
		if err := rows.Scan(&ans.QID, &ans.Number, &ans.Type, &ans.Content, &flags); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(flags), &ans.Flags); err != nil {
			return nil, err
		}
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}
