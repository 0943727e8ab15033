// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    difficulty TEXT NOT NULL,
    question_count INTEGER NOT NULL,
    time_per_question_sec INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    confidence INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    total_score INTEGER NOT NULL,
    accuracy INTEGER NOT NULL,
    communication INTEGER NOT NULL,
    depth INTEGER NOT NULL,
    ai_detected INTEGER NOT NULL,
    ai_flag_reason TEXT NOT NULL,
    feedback TEXT NOT NULL,
    improvement TEXT NOT NULL,
    resources TEXT NOT NULL,
    paste_flag INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

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

// SaveResult writes the session row and every attempt in one transaction.
func (s *SQLiteStore) SaveResult(ctx context.Context, id string, cfg interview.SessionConfig, history []interview.QuestionAttempt, createdAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, category, difficulty, question_count, time_per_question_sec, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(cfg.Category), string(cfg.Difficulty), cfg.QuestionCount,
		int(cfg.TimePerQuestion/time.Second), createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	for _, a := range history {
		resources, err := json.Marshal(a.Grade.Resources)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO attempts (session_id, position, question, answer, confidence, outcome,
				total_score, accuracy, communication, depth, ai_detected, ai_flag_reason,
				feedback, improvement, resources, paste_flag, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, a.Index, a.Question, a.Answer, a.Confidence, string(a.Outcome),
			a.Grade.TotalScore, a.Grade.Accuracy, a.Grade.Communication, a.Grade.Depth,
			boolToInt(a.Grade.AIDetected), a.Grade.AIFlagReason,
			a.Grade.Feedback, a.Grade.Improvement, string(resources),
			boolToInt(a.PasteFlag), a.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*Result, error) {
	var (
		result       Result
		perQuestion  int
		createdAtStr string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category, difficulty, question_count, time_per_question_sec, created_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&result.ID, &result.Category, &result.Difficulty, &result.QuestionCount, &perQuestion, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	result.TimePerQuestion = time.Duration(perQuestion) * time.Second
	result.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, question, answer, confidence, outcome,
			total_score, accuracy, communication, depth, ai_detected, ai_flag_reason,
			feedback, improvement, resources, paste_flag, created_at
		FROM attempts WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a            interview.QuestionAttempt
			aiDetected   int
			pasteFlag    int
			resourcesStr string
			attemptAt    string
		)
		if err := rows.Scan(&a.Index, &a.Question, &a.Answer, &a.Confidence, &a.Outcome,
			&a.Grade.TotalScore, &a.Grade.Accuracy, &a.Grade.Communication, &a.Grade.Depth,
			&aiDetected, &a.Grade.AIFlagReason, &a.Grade.Feedback, &a.Grade.Improvement,
			&resourcesStr, &pasteFlag, &attemptAt); err != nil {
			return nil, err
		}
		a.Grade.AIDetected = aiDetected != 0
		a.PasteFlag = pasteFlag != 0
		a.CreatedAt, _ = time.Parse(time.RFC3339, attemptAt)
		if err := json.Unmarshal([]byte(resourcesStr), &a.Grade.Resources); err != nil {
			a.Grade.Resources = []interview.Resource{}
		}
		result.Attempts = append(result.Attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.Summary = interview.Summarize(result.QuestionCount, result.Attempts)
	result.TotalScore = result.Summary.TotalScore
	result.MaxScore = result.Summary.MaxScore
	return &result, nil
}

func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]ResultHeader, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.category, s.difficulty, s.question_count,
			COALESCE(SUM(a.total_score), 0), s.created_at
		FROM sessions s
		LEFT JOIN attempts a ON a.session_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headers []ResultHeader
	for rows.Next() {
		var (
			h            ResultHeader
			createdAtStr string
		)
		if err := rows.Scan(&h.ID, &h.Category, &h.Difficulty, &h.QuestionCount, &h.TotalScore, &createdAtStr); err != nil {
			return nil, err
		}
		h.MaxScore = h.QuestionCount * interview.MaxScore
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
