package interview

import (
	"strings"
	"sync"
	"time"
)

// State identifies where the session controller is in its lifecycle.
type State string

const (
	StateIdle              State = "idle"
	StateAwaitingQuestion  State = "awaiting_question"
	StateConfidenceCapture State = "confidence_capture"
	StateAnswering         State = "answering"
	StateGrading           State = "grading"
	StateFeedback          State = "feedback"
	StateComplete          State = "complete"
)

const defaultConfidence = 3

// GradeRequest carries everything the grading service needs for one answer.
// Generation must be echoed back with the response so the controller can
// discard grades that outlive their session.
type GradeRequest struct {
	Generation int
	Index      int
	Question   string
	Answer     string
	Confidence int
}

// Hooks are the controller's outbound edges. The controller calls them
// after releasing its own lock, but implementations must still return
// quickly and do real work (LLM calls, persistence) asynchronously, then
// feed results back through QuestionReady/QuestionFailed and
// GradeReceived/GradeFailed.
type Hooks struct {
	// RequestQuestion asks the service for the question at index. The
	// generation must be echoed back through QuestionReady/QuestionFailed.
	RequestQuestion func(generation, index int)
	// RequestGrade asks the service to grade a committed answer.
	RequestGrade func(req GradeRequest)
	// Completed fires once when the session reaches StateComplete.
	Completed func()
}

// Controller is the session state machine. All events (user actions,
// clock ticks, service callbacks) are serialized under one mutex: each
// handler runs to completion before the next is admitted, so the
// resolution guard never sees interleaved updates.
type Controller struct {
	mu    sync.Mutex
	cfg   SessionConfig
	clock Clock
	hooks Hooks

	state      State
	index      int // 1-based, current question
	question   string
	answer     string
	confidence int
	pasteFlag  bool

	// generation invalidates service responses from a superseded
	// session. Start and Reset bump it; a question or grade carrying an
	// old generation is discarded, so a response still in flight when
	// the session is reset can never leak into the next one.
	generation int

	// clockEpoch invalidates callbacks from a superseded countdown.
	// Anything that stops the clock bumps it; a tick or expiry carrying
	// an old epoch is discarded.
	clockEpoch int
	remaining  int

	// pendingOutcome is the outcome claimed in the guard while a grading
	// round-trip is in flight (Answered, or TimedOut with answer text).
	pendingOutcome Outcome

	guard        *resolutionGuard
	history      []QuestionAttempt
	lastFeedback *Grade
	serviceErr   string
}

// New creates a controller in StateIdle.
func New(clock Clock, hooks Hooks) *Controller {
	return &Controller{
		state: StateIdle,
		clock: clock,
		hooks: hooks,
		guard: newResolutionGuard(),
	}
}

// Start begins a session. Valid only from StateIdle and only with a
// non-empty extracted resume context.
func (c *Controller) Start(cfg SessionConfig) error {
	var after []func()
	defer c.runAfter(&after)()

	if c.state != StateIdle {
		return &StateError{Op: "start", State: c.state}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.ResumeContext) == "" {
		return ErrNoResumeContext
	}

	c.cfg = cfg
	c.history = nil
	c.guard.reset()
	c.generation++
	c.index = 1
	c.state = StateAwaitingQuestion
	after = append(after, c.fetchQuestionLocked())
	return nil
}

// QuestionReady delivers a fetched question. A response for any other
// generation, index, or state is a late arrival and is discarded.
func (c *Controller) QuestionReady(generation, index int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || c.state != StateAwaitingQuestion || index != c.index {
		return
	}
	c.question = text
	c.answer = ""
	c.confidence = defaultConfidence
	c.pasteFlag = false
	c.lastFeedback = nil
	c.serviceErr = ""
	c.remaining = int(c.cfg.TimePerQuestion / time.Second)
	c.state = StateConfidenceCapture
}

// QuestionFailed records a failed question fetch. The session stays in
// StateAwaitingQuestion with the error exposed; RetryQuestion re-issues
// the fetch.
func (c *Controller) QuestionFailed(generation, index int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || c.state != StateAwaitingQuestion || index != c.index {
		return
	}
	c.serviceErr = err.Error()
}

// RetryQuestion re-requests the current question after a fetch failure.
func (c *Controller) RetryQuestion() error {
	var after []func()
	defer c.runAfter(&after)()

	if c.state != StateAwaitingQuestion {
		return &StateError{Op: "retry question", State: c.state}
	}
	c.serviceErr = ""
	after = append(after, c.fetchQuestionLocked())
	return nil
}

// ConfirmConfidence records the 1-5 self-rating and starts the countdown.
func (c *Controller) ConfirmConfidence(rating int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConfidenceCapture {
		return &StateError{Op: "confirm confidence", State: c.state}
	}
	if rating < 1 || rating > 5 {
		return &ValidationError{Field: "confidence", Reason: "must be between 1 and 5"}
	}
	c.confidence = rating
	c.state = StateAnswering
	c.startClockLocked()
	return nil
}

// UpdateAnswer replaces the draft answer text. Paste events are recorded
// as an advisory flag only; they never change state or reset the clock.
func (c *Controller) UpdateAnswer(text string, pasted bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAnswering {
		return &StateError{Op: "update answer", State: c.state}
	}
	c.answer = text
	if pasted {
		c.pasteFlag = true
	}
	return nil
}

// Submit commits the answer for grading. Empty answers are rejected;
// callers route those through Skip or let the clock expire.
func (c *Controller) Submit() error {
	var after []func()
	defer c.runAfter(&after)()

	if c.state != StateAnswering {
		// A submit racing a clock expiry (or a double click racing the
		// grading transition) is benign: the question is already resolved.
		if _, done := c.guard.outcomeOf(c.index); done {
			return ErrAlreadyResolved
		}
		return &StateError{Op: "submit", State: c.state}
	}
	if strings.TrimSpace(c.answer) == "" {
		return &ValidationError{Field: "answer", Reason: "cannot be empty"}
	}
	if err := c.guard.resolve(c.index, OutcomeAnswered); err != nil {
		return err
	}
	c.stopClockLocked()
	c.pendingOutcome = OutcomeAnswered
	c.state = StateGrading
	after = append(after, c.requestGradeLocked())
	return nil
}

// Skip resolves the current question as skipped with a synthetic zero
// grade and advances immediately. No service call is made.
func (c *Controller) Skip() error {
	var after []func()
	defer c.runAfter(&after)()

	if c.state != StateAnswering && c.state != StateConfidenceCapture {
		if _, done := c.guard.outcomeOf(c.index); done {
			return ErrAlreadyResolved
		}
		return &StateError{Op: "skip", State: c.state}
	}
	if err := c.guard.resolve(c.index, OutcomeSkipped); err != nil {
		return err
	}
	c.stopClockLocked()
	c.commitLocked(OutcomeSkipped, SkippedGrade())
	after = append(after, c.advanceLocked()...)
	return nil
}

// HandleClockExpired is fired by the clock at zero remaining time. A
// non-empty draft answer is submitted for grading exactly as Submit
// would; an empty one commits a synthetic zero grade and advances. The
// epoch discards expiries from a countdown that has since been stopped.
func (c *Controller) HandleClockExpired(epoch int) {
	var after []func()
	defer c.runAfter(&after)()

	if epoch != c.clockEpoch || c.state != StateAnswering {
		return
	}
	if err := c.guard.resolve(c.index, OutcomeTimedOut); err != nil {
		// Lost the race against Submit or Skip; nothing to discard, the
		// winner already stopped this countdown logically.
		return
	}
	c.clockEpoch++ // countdown is spent, invalidate any straggling tick
	c.remaining = 0

	if strings.TrimSpace(c.answer) != "" {
		c.pendingOutcome = OutcomeTimedOut
		c.state = StateGrading
		after = append(after, c.requestGradeLocked())
		return
	}
	c.commitLocked(OutcomeTimedOut, TimedOutGrade())
	after = append(after, c.advanceLocked()...)
}

// GradeReceived attaches the service's grade to the pending attempt,
// appends it to the history, and moves to StateFeedback. A grade for a
// stale generation, index, or state is a late response and is discarded.
func (c *Controller) GradeReceived(generation, index int, grade Grade) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || c.state != StateGrading || index != c.index {
		return
	}
	normalized := grade.Normalize()
	c.commitLocked(c.pendingOutcome, normalized)
	c.lastFeedback = &normalized
	c.serviceErr = ""
	c.state = StateFeedback
}

// GradeFailed parks the session in StateGrading with the error exposed.
// No automatic retry: the caller decides via RetryGrade.
func (c *Controller) GradeFailed(generation, index int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation || c.state != StateGrading || index != c.index {
		return
	}
	c.serviceErr = err.Error()
}

// RetryGrade re-issues the grading call after a failure.
func (c *Controller) RetryGrade() error {
	var after []func()
	defer c.runAfter(&after)()

	if c.state != StateGrading {
		return &StateError{Op: "retry grade", State: c.state}
	}
	c.serviceErr = ""
	after = append(after, c.requestGradeLocked())
	return nil
}

// Advance leaves the feedback screen for the next question, or for
// StateComplete after the last one.
func (c *Controller) Advance() error {
	var after []func()
	defer c.runAfter(&after)()

	if c.state != StateFeedback {
		return &StateError{Op: "advance", State: c.state}
	}
	c.lastFeedback = nil
	after = append(after, c.advanceLocked()...)
	return nil
}

// Reset returns to StateIdle from any state, discarding all session data.
// Pending clock and service callbacks are invalidated.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopClockLocked()
	c.generation++
	c.state = StateIdle
	c.cfg = SessionConfig{}
	c.index = 0
	c.question = ""
	c.answer = ""
	c.confidence = 0
	c.pasteFlag = false
	c.remaining = 0
	c.lastFeedback = nil
	c.serviceErr = ""
	c.history = nil
	c.guard.reset()
}

// ── Reads ───────────────────────────────────────────────────────────────────

// Snapshot is a consistent read of the controller for the HTTP layer.
type Snapshot struct {
	State         State   `json:"state"`
	Index         int     `json:"index"`
	QuestionCount int     `json:"question_count"`
	Question      string  `json:"question,omitempty"`
	Answer        string  `json:"answer,omitempty"`
	Confidence    int     `json:"confidence,omitempty"`
	Remaining     int     `json:"remaining_seconds"`
	PasteFlag     bool    `json:"paste_flag,omitempty"`
	Feedback      *Grade  `json:"feedback,omitempty"`
	ServiceError  string  `json:"service_error,omitempty"`
	Summary       Summary `json:"summary"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:         c.state,
		Index:         c.index,
		QuestionCount: c.cfg.QuestionCount,
		Question:      c.question,
		Answer:        c.answer,
		Confidence:    c.confidence,
		Remaining:     c.remaining,
		PasteFlag:     c.pasteFlag,
		Feedback:      c.lastFeedback,
		ServiceError:  c.serviceErr,
		Summary:       Summarize(c.cfg.QuestionCount, c.history),
	}
}

// History returns a copy of the committed attempts so far.
func (c *Controller) History() []QuestionAttempt {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]QuestionAttempt, len(c.history))
	copy(out, c.history)
	return out
}

// Config returns the session configuration fixed at Start.
func (c *Controller) Config() SessionConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ── Internals (call with c.mu held) ─────────────────────────────────────────

// runAfter locks the controller and returns the cleanup that unlocks it
// and then fires the collected side effects. Hooks run outside the lock
// so a synchronous hook implementation cannot deadlock.
func (c *Controller) runAfter(after *[]func()) func() {
	c.mu.Lock()
	return func() {
		c.mu.Unlock()
		for _, fn := range *after {
			if fn != nil {
				fn()
			}
		}
	}
}

func (c *Controller) commitLocked(outcome Outcome, grade Grade) {
	c.history = append(c.history, QuestionAttempt{
		Index:      c.index,
		Question:   c.question,
		Answer:     c.answer,
		Confidence: c.confidence,
		Outcome:    outcome,
		Grade:      grade.Normalize(),
		PasteFlag:  c.pasteFlag,
		CreatedAt:  time.Now().UTC(),
	})
}

func (c *Controller) advanceLocked() []func() {
	if c.index < c.cfg.QuestionCount {
		c.index++
		c.state = StateAwaitingQuestion
		c.serviceErr = ""
		return []func(){c.fetchQuestionLocked()}
	}
	c.state = StateComplete
	if c.hooks.Completed != nil {
		return []func(){c.hooks.Completed}
	}
	return nil
}

func (c *Controller) fetchQuestionLocked() func() {
	if c.hooks.RequestQuestion == nil {
		return nil
	}
	fire := c.hooks.RequestQuestion
	generation := c.generation
	index := c.index
	return func() { fire(generation, index) }
}

func (c *Controller) requestGradeLocked() func() {
	if c.hooks.RequestGrade == nil {
		return nil
	}
	fire := c.hooks.RequestGrade
	req := GradeRequest{
		Generation: c.generation,
		Index:      c.index,
		Question:   c.question,
		Answer:     c.answer,
		Confidence: c.confidence,
	}
	return func() { fire(req) }
}

// startClockLocked runs with c.mu held. The Clock contract forbids
// synchronous callbacks from Start, so starting and stopping under the
// lock is safe and keeps both serialized with every other event: a Skip
// or Reset can never slip between a countdown being armed and started.
func (c *Controller) startClockLocked() {
	if c.clock == nil {
		return
	}
	c.clockEpoch++
	epoch := c.clockEpoch
	c.clock.Start(c.cfg.TimePerQuestion,
		func(remaining int) { c.handleTick(epoch, remaining) },
		func() { c.HandleClockExpired(epoch) },
	)
}

func (c *Controller) stopClockLocked() {
	c.clockEpoch++ // anything still ticking is now stale
	if c.clock != nil {
		c.clock.Stop()
	}
}

func (c *Controller) handleTick(epoch, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.clockEpoch || c.state != StateAnswering {
		return
	}
	c.remaining = remaining
}
