package store

import (
	"context"
	"errors"
	"time"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

var (
	ErrNotFound = errors.New("not found")
)

// ResultHeader is the list-view row for a finished session.
type ResultHeader struct {
	ID            string
	Category      interview.Category
	Difficulty    interview.Difficulty
	QuestionCount int
	TotalScore    int
	MaxScore      int
	CreatedAt     time.Time
}

// Result is a finished session with its full history.
type Result struct {
	ResultHeader
	TimePerQuestion time.Duration
	Summary         interview.Summary
	Attempts        []interview.QuestionAttempt
}

// Store persists finished interview sessions.
type Store interface {
	SaveResult(ctx context.Context, id string, cfg interview.SessionConfig, history []interview.QuestionAttempt, createdAt time.Time) error
	GetResult(ctx context.Context, id string) (*Result, error)
	ListResults(ctx context.Context, limit int) ([]ResultHeader, error)
	Close() error
}
