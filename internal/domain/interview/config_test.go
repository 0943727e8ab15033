package interview_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

func TestNewConfig_AppliesDefaults(t *testing.T) {
	cfg := interview.NewConfig(interview.CategoryHR, interview.DifficultyEasy, "resume text")

	if cfg.QuestionCount != interview.DefaultQuestionCount {
		t.Errorf("question count: want %d, got %d", interview.DefaultQuestionCount, cfg.QuestionCount)
	}
	if cfg.TimePerQuestion != interview.DefaultTimePerQuestion {
		t.Errorf("time per question: want %v, got %v", interview.DefaultTimePerQuestion, cfg.TimePerQuestion)
	}
}

func TestNewConfig_TruncatesResumeContext(t *testing.T) {
	long := strings.Repeat("é", interview.MaxResumeContext+500)

	cfg := interview.NewConfig(interview.CategoryTechnical, interview.DifficultyHard, long)

	got := []rune(cfg.ResumeContext)
	if len(got) != interview.MaxResumeContext {
		t.Errorf("want %d runes, got %d", interview.MaxResumeContext, len(got))
	}
}

func TestNewConfig_ShortResumeUnchanged(t *testing.T) {
	cfg := interview.NewConfig(interview.CategoryTechnical, interview.DifficultyHard, "short")
	if cfg.ResumeContext != "short" {
		t.Errorf("short resume must pass through unchanged, got %q", cfg.ResumeContext)
	}
}

func TestValidate(t *testing.T) {
	valid := interview.NewConfig(interview.CategoryBehavioral, interview.DifficultyMedium, "resume")

	tests := []struct {
		name      string
		mutate    func(*interview.SessionConfig)
		wantField string
	}{
		{"valid", func(c *interview.SessionConfig) {}, ""},
		{"bad category", func(c *interview.SessionConfig) { c.Category = "Trivia" }, "category"},
		{"bad difficulty", func(c *interview.SessionConfig) { c.Difficulty = "Brutal" }, "difficulty"},
		{"zero questions", func(c *interview.SessionConfig) { c.QuestionCount = 0 }, "question_count"},
		{"too many questions", func(c *interview.SessionConfig) { c.QuestionCount = interview.MaxQuestionCount + 1 }, "question_count"},
		{"sub-second budget", func(c *interview.SessionConfig) { c.TimePerQuestion = 500 * time.Millisecond }, "time_per_question"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var validationErr *interview.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tc.wantField {
				t.Errorf("field: want %q, got %q", tc.wantField, validationErr.Field)
			}
		})
	}
}
