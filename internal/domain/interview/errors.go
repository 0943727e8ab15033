package interview

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResumeContext is returned by Start when the config carries no
	// extracted resume text.
	ErrNoResumeContext = errors.New("resume context is required to start a session")

	// ErrAlreadyResolved reports that a question already has a committed
	// outcome. It is the benign loser of the submit/expiry race, not a
	// failure.
	ErrAlreadyResolved = errors.New("question already resolved")
)

// ValidationError rejects an input without changing session state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError rejects an operation that is not legal in the current state.
// The session is left exactly as it was.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s is not valid in state %q", e.Op, e.State)
}
