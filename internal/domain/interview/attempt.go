package interview

import "time"

// Outcome is the terminal resolution of one question.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeTimedOut Outcome = "timed_out"
)

// QuestionAttempt records the full lifecycle of one question. The
// controller builds it incrementally while the question is live; once it
// is appended to the history it is never mutated again.
type QuestionAttempt struct {
	Index      int       `json:"index"` // 1-based position in the session
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Confidence int       `json:"confidence"` // 1-5, set once before answering
	Outcome    Outcome   `json:"outcome"`
	Grade      Grade     `json:"grade"`
	PasteFlag  bool      `json:"paste_flag"` // advisory: paste detected while answering
	CreatedAt  time.Time `json:"created_at"`
}
