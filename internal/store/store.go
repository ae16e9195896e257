package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/examdesk/examportal/internal/exam"
	"github.com/examdesk/examportal/internal/model"

	_ "modernc.org/sqlite"
)

// Store is the exam catalog and the result store, backed by SQLite. Exams
// are read-only to the rest of the system; results are append-only (created
// once, never updated or deleted).
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exams (
		set_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		duration INTEGER NOT NULL,
		sections_json TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		set_id INTEGER NOT NULL,
		answers_json TEXT NOT NULL,
		score INTEGER NOT NULL,
		time_used REAL NOT NULL,
		student_id TEXT NOT NULL,
		submitted_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// PutExam inserts an exam definition, replacing any previous definition of
// the same set. Used by the seeder only.
func (s *Store) PutExam(ex model.Exam) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	sections, err := json.Marshal(ex.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO exams (set_id, title, duration, sections_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ex.SetID, ex.Title, ex.Duration, string(sections), time.Now().UTC(),
	)
	return err
}

// ClearExams removes every exam definition. The seeder calls this before
// reloading the catalog from fixture files.
func (s *Store) ClearExams() error {
	_, err := s.db.Exec(`DELETE FROM exams`)
	return err
}

// ListSetIDs returns the available exam set ids in ascending order.
func (s *Store) ListSetIDs() ([]int, error) {
	rows, err := s.db.Query(`SELECT set_id FROM exams ORDER BY set_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetExam fetches one exam definition by set id. Returns
// exam.ErrExamNotFound when the set does not exist.
func (s *Store) GetExam(setID int) (model.Exam, error) {
	var (
		ex       model.Exam
		sections string
	)
	err := s.db.QueryRow(
		`SELECT set_id, title, duration, sections_json FROM exams WHERE set_id = ?`, setID,
	).Scan(&ex.SetID, &ex.Title, &ex.Duration, &sections)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exam{}, exam.ErrExamNotFound
	}
	if err != nil {
		return model.Exam{}, err
	}
	if err := json.Unmarshal([]byte(sections), &ex.Sections); err != nil {
		return model.Exam{}, fmt.Errorf("unmarshal sections for set %d: %w", setID, err)
	}
	ex.Normalize()
	return ex, nil
}

// CreateResult persists a graded submission under a freshly generated id and
// returns the stored record. This is the only write the result store offers.
func (s *Store) CreateResult(res model.Result) (model.Result, error) {
	res.ID = uuid.NewString()
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return model.Result{}, fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO results (id, set_id, answers_json, score, time_used, student_id, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.SetID, string(answers), res.Score, res.TimeUsed, res.StudentID, res.SubmittedAt,
	)
	if err != nil {
		return model.Result{}, err
	}
	return res, nil
}

// GetResult fetches one stored result by id. Returns exam.ErrResultNotFound
// when no such result exists.
func (s *Store) GetResult(id string) (model.Result, error) {
	var (
		res     model.Result
		answers string
	)
	err := s.db.QueryRow(
		`SELECT id, set_id, answers_json, score, time_used, student_id, submitted_at
		 FROM results WHERE id = ?`, id,
	).Scan(&res.ID, &res.SetID, &answers, &res.Score, &res.TimeUsed, &res.StudentID, &res.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Result{}, exam.ErrResultNotFound
	}
	if err != nil {
		return model.Result{}, err
	}
	if err := json.Unmarshal([]byte(answers), &res.Answers); err != nil {
		return model.Result{}, fmt.Errorf("unmarshal answers for result %s: %w", id, err)
	}
	return res, nil
}
