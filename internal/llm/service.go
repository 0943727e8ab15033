package llm

import (
	"context"
	"fmt"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

// Service generates interview questions and grades answers.
// Implementations may call an LLM or return canned results (for tests).
type Service interface {
	// NextQuestion returns the question text for the given 1-based index.
	NextQuestion(ctx context.Context, cfg interview.SessionConfig, index int) (string, error)

	// GradeAnswer returns a structured grade for one answer. Incidental
	// formatting around the model's JSON payload is stripped before
	// parsing; a payload that is still malformed is a ServiceError.
	GradeAnswer(ctx context.Context, cfg interview.SessionConfig, question, answer string, confidence int) (interview.Grade, error)
}

// ServiceError is returned when a call to the model fails, so the caller
// can distinguish "the model produced garbage" from "the model was
// unreachable."
type ServiceError struct {
	Reason  string
	Wrapped error
}

func (e *ServiceError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("llm service: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("llm service: %s", e.Reason)
}

func (e *ServiceError) Unwrap() error {
	return e.Wrapped
}
