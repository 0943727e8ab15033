// internal/service/interviews.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
	"github.com/mohitmdms-dev/ai-interviewer/internal/llm"
	"github.com/mohitmdms-dev/ai-interviewer/internal/store"
	"github.com/mohitmdms-dev/ai-interviewer/internal/worker"
)

const (
	poolWorkers    = 3
	poolBuffer     = 16
	reapSchedule   = "@every 10m"
	persistTimeout = 10 * time.Second
)

// Options tune the service's timeouts.
type Options struct {
	LLMTimeout time.Duration // per LLM call; expiry surfaces as a service error
	SessionTTL time.Duration // idle live sessions and unused resumes are reaped past this
}

// InterviewService owns every live session controller and does the
// asynchronous legwork around them: LLM calls through a bounded worker
// pool, persistence of finished sessions, and reaping of abandoned ones.
type InterviewService struct {
	store   store.Store
	llm     llm.Service
	logger  *slog.Logger
	opts    Options
	pool    *worker.Pool[event]
	janitor *cron.Cron

	mu       sync.RWMutex
	sessions map[string]*liveSession
	resumes  map[string]resumeEntry
}

type liveSession struct {
	ctrl      *interview.Controller
	createdAt time.Time
	lastTouch time.Time
}

type resumeEntry struct {
	text       string
	uploadedAt time.Time
}

// event is a pool job's output, routed back into the owning controller.
type eventKind int

const (
	eventQuestion eventKind = iota
	eventGrade
)

type event struct {
	sessionID  string
	kind       eventKind
	generation int
	index      int
	question   string
	grade      interview.Grade
	err        error
}

// NewInterviewService wires the service and starts its dispatcher and
// janitor. Call Close on shutdown.
func NewInterviewService(s store.Store, llmSvc llm.Service, logger *slog.Logger, opts Options) *InterviewService {
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 60 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}

	svc := &InterviewService{
		store:    s,
		llm:      llmSvc,
		logger:   logger,
		opts:     opts,
		pool:     worker.NewPool[event](poolWorkers, poolBuffer),
		janitor:  cron.New(),
		sessions: make(map[string]*liveSession),
		resumes:  make(map[string]resumeEntry),
	}

	go svc.dispatch()

	if _, err := svc.janitor.AddFunc(reapSchedule, svc.reap); err != nil {
		logger.Error("failed to schedule janitor", "error", err)
	}
	svc.janitor.Start()

	return svc
}

// Close stops the janitor and drains the worker pool.
func (s *InterviewService) Close() {
	s.janitor.Stop()
	s.pool.Close()
}

// ── Resumes ─────────────────────────────────────────────────────────────────

// RegisterResume stores extracted resume text and returns the ID a
// session can be created with. The text stays available until reaped, so
// one upload can back several sessions.
func (s *InterviewService) RegisterResume(text string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.resumes[id] = resumeEntry{text: text, uploadedAt: time.Now()}
	s.mu.Unlock()
	return id
}

// ── Sessions ────────────────────────────────────────────────────────────────

// SessionParams are the caller-supplied knobs for a new session. Zero
// values for count and budget mean the domain defaults.
type SessionParams struct {
	Category        interview.Category
	Difficulty      interview.Difficulty
	QuestionCount   int
	TimePerQuestion time.Duration
	ResumeID        string
}

// CreateSession builds a controller for the given parameters, starts it,
// and registers it under a fresh session ID.
func (s *InterviewService) CreateSession(p SessionParams) (string, error) {
	s.mu.RLock()
	resume, ok := s.resumes[p.ResumeID]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("resume %s: %w", p.ResumeID, store.ErrNotFound)
	}

	cfg := interview.NewConfig(p.Category, p.Difficulty, resume.text)
	if p.QuestionCount > 0 {
		cfg.QuestionCount = p.QuestionCount
	}
	if p.TimePerQuestion > 0 {
		cfg.TimePerQuestion = p.TimePerQuestion
	}

	id := uuid.NewString()
	ctrl := interview.New(interview.NewTickerClock(), interview.Hooks{
		RequestQuestion: func(generation, index int) { s.submitQuestionJob(id, generation, index) },
		RequestGrade:    func(req interview.GradeRequest) { s.submitGradeJob(id, req) },
		Completed:       func() { go s.persist(id) },
	})

	// Register before Start: the first question job runs on a worker
	// goroutine and must be able to find the session immediately.
	now := time.Now()
	s.mu.Lock()
	s.sessions[id] = &liveSession{ctrl: ctrl, createdAt: now, lastTouch: now}
	s.mu.Unlock()

	if err := ctrl.Start(cfg); err != nil {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return "", err
	}

	s.logger.Info("session started",
		"session_id", id,
		"category", cfg.Category,
		"difficulty", cfg.Difficulty,
		"questions", cfg.QuestionCount,
	)
	return id, nil
}

// Controller returns the live controller for a session, refreshing its
// idle timer.
func (s *InterviewService) Controller(id string) (*interview.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	live.lastTouch = time.Now()
	return live.ctrl, nil
}

// Abandon resets and drops a live session.
func (s *InterviewService) Abandon(id string) error {
	s.mu.Lock()
	live, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return store.ErrNotFound
	}
	live.ctrl.Reset()
	s.logger.Info("session abandoned", "session_id", id)
	return nil
}

// ── Async plumbing ──────────────────────────────────────────────────────────

func (s *InterviewService) submitQuestionJob(sessionID string, generation, index int) {
	s.pool.Submit(fmt.Sprintf("%s/q%d", sessionID, index), func() event {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.LLMTimeout)
		defer cancel()

		cfg, err := s.sessionConfig(sessionID)
		if err != nil {
			return event{sessionID: sessionID, kind: eventQuestion, generation: generation, index: index, err: err}
		}
		question, err := s.llm.NextQuestion(ctx, cfg, index)
		return event{sessionID: sessionID, kind: eventQuestion, generation: generation, index: index, question: question, err: err}
	})
}

func (s *InterviewService) submitGradeJob(sessionID string, req interview.GradeRequest) {
	s.pool.Submit(fmt.Sprintf("%s/g%d", sessionID, req.Index), func() event {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.LLMTimeout)
		defer cancel()

		cfg, err := s.sessionConfig(sessionID)
		if err != nil {
			return event{sessionID: sessionID, kind: eventGrade, generation: req.Generation, index: req.Index, err: err}
		}
		grade, err := s.llm.GradeAnswer(ctx, cfg, req.Question, req.Answer, req.Confidence)
		return event{sessionID: sessionID, kind: eventGrade, generation: req.Generation, index: req.Index, grade: grade, err: err}
	})
}

// dispatch routes pool outputs back to their controllers. A result for a
// session that has since been abandoned is dropped; the controller's own
// state checks drop anything stale beyond that.
func (s *InterviewService) dispatch() {
	for result := range s.pool.Results() {
		ev := result.Output

		s.mu.RLock()
		live, ok := s.sessions[ev.sessionID]
		s.mu.RUnlock()
		if !ok {
			continue
		}

		switch ev.kind {
		case eventQuestion:
			if ev.err != nil {
				s.logger.Error("question fetch failed", "session_id", ev.sessionID, "index", ev.index, "error", ev.err)
				live.ctrl.QuestionFailed(ev.generation, ev.index, ev.err)
				continue
			}
			live.ctrl.QuestionReady(ev.generation, ev.index, ev.question)
		case eventGrade:
			if ev.err != nil {
				s.logger.Error("grading failed", "session_id", ev.sessionID, "index", ev.index, "error", ev.err)
				live.ctrl.GradeFailed(ev.generation, ev.index, ev.err)
				continue
			}
			live.ctrl.GradeReceived(ev.generation, ev.index, ev.grade)
		}
	}
}

func (s *InterviewService) sessionConfig(id string) (interview.SessionConfig, error) {
	s.mu.RLock()
	live, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return interview.SessionConfig{}, store.ErrNotFound
	}
	return live.ctrl.Config(), nil
}

// persist writes a completed session to the store. It runs on its own
// goroutine with a fresh context because completion is triggered from a
// controller event, not an HTTP request.
func (s *InterviewService) persist(id string) {
	s.mu.RLock()
	live, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	history := live.ctrl.History()
	if err := s.store.SaveResult(ctx, id, live.ctrl.Config(), history, live.createdAt); err != nil {
		s.logger.Error("failed to persist session", "session_id", id, "error", err)
		return
	}
	s.logger.Info("session persisted", "session_id", id, "attempts", len(history))
}

// reap drops live sessions and resume uploads idle past the TTL.
func (s *InterviewService) reap() {
	cutoff := time.Now().Add(-s.opts.SessionTTL)

	s.mu.Lock()
	var stale []*liveSession
	for id, live := range s.sessions {
		if live.lastTouch.Before(cutoff) {
			stale = append(stale, live)
			delete(s.sessions, id)
		}
	}
	var staleResumes int
	for id, r := range s.resumes {
		if r.uploadedAt.Before(cutoff) {
			delete(s.resumes, id)
			staleResumes++
		}
	}
	s.mu.Unlock()

	for _, live := range stale {
		live.ctrl.Reset()
	}
	if len(stale) > 0 || staleResumes > 0 {
		s.logger.Info("reaped stale state", "sessions", len(stale), "resumes", staleResumes)
	}
}
