package interview

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryTechnical  Category = "Technical"
	CategoryHR         Category = "HR"
	CategoryBehavioral Category = "Behavioral"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

const (
	DefaultQuestionCount   = 10
	MaxQuestionCount       = 50
	DefaultTimePerQuestion = 120 * time.Second

	// MaxResumeContext bounds how much resume text is carried into prompts.
	MaxResumeContext = 2000
)

// SessionConfig holds the immutable parameters of one interview session.
// It is fixed at Start and never mutated afterwards.
type SessionConfig struct {
	Category        Category
	Difficulty      Difficulty
	QuestionCount   int
	TimePerQuestion time.Duration
	ResumeContext   string
}

// NewConfig builds a SessionConfig with defaults applied and the resume
// context truncated to MaxResumeContext runes.
func NewConfig(category Category, difficulty Difficulty, resumeContext string) SessionConfig {
	return SessionConfig{
		Category:        category,
		Difficulty:      difficulty,
		QuestionCount:   DefaultQuestionCount,
		TimePerQuestion: DefaultTimePerQuestion,
		ResumeContext:   truncateRunes(resumeContext, MaxResumeContext),
	}
}

// Validate reports whether the config is usable for a session.
func (c SessionConfig) Validate() error {
	switch c.Category {
	case CategoryTechnical, CategoryHR, CategoryBehavioral:
	default:
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", c.Category)}
	}
	switch c.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", c.Difficulty)}
	}
	if c.QuestionCount < 1 || c.QuestionCount > MaxQuestionCount {
		return &ValidationError{Field: "question_count", Reason: fmt.Sprintf("must be between 1 and %d", MaxQuestionCount)}
	}
	if c.TimePerQuestion < time.Second {
		return &ValidationError{Field: "time_per_question", Reason: "must be at least one second"}
	}
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
