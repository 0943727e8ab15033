package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
	"github.com/mohitmdms-dev/ai-interviewer/internal/report"
	"github.com/mohitmdms-dev/ai-interviewer/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateSessionRequest struct {
	Category           string `json:"category"`
	Difficulty         string `json:"difficulty"`
	QuestionCount      int    `json:"question_count,omitempty"`
	TimePerQuestionSec int    `json:"time_per_question_sec,omitempty"`
	ResumeID           string `json:"resume_id"`
}

type SessionResponse struct {
	ID string `json:"id"`
	interview.Snapshot
}

type ConfidenceRequest struct {
	Rating int `json:"rating"`
}

type AnswerRequest struct {
	Text   string `json:"text"`
	Pasted bool   `json:"pasted,omitempty"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createSession godoc
// @Summary  Start an interview session
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    request body CreateSessionRequest true "Session parameters"
// @Success  201 {object} SessionResponse
// @Router   /sessions [post]
//
// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.interviews.CreateSession(service.SessionParams{
		Category:        interview.Category(req.Category),
		Difficulty:      interview.Difficulty(req.Difficulty),
		QuestionCount:   req.QuestionCount,
		TimePerQuestion: time.Duration(req.TimePerQuestionSec) * time.Second,
		ResumeID:        req.ResumeID,
	})
	if err != nil {
		if h.handleSessionError(w, err) {
			return
		}
		h.handleStoreError(w, err, "resume")
		return
	}

	h.respondSnapshot(w, http.StatusCreated, id)
}

// GET /sessions/{sessionID}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if _, ok := h.controller(w, sessionID); !ok {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// POST /sessions/{sessionID}/confidence
func (h *Handler) confirmConfidence(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	var req ConfidenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.handleSessionError(w, ctrl.ConfirmConfidence(req.Rating)) {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// POST /sessions/{sessionID}/answer
func (h *Handler) updateAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.handleSessionError(w, ctrl.UpdateAnswer(req.Text, req.Pasted)) {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// submitAnswer godoc
// @Summary  Submit the current answer for grading
// @Tags     sessions
// @Produce  json
// @Param    sessionID path string true "Session ID"
// @Success  200 {object} SessionResponse
// @Router   /sessions/{sessionID}/submit [post]
//
// POST /sessions/{sessionID}/submit
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	if h.handleSessionError(w, ctrl.Submit()) {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// POST /sessions/{sessionID}/skip
func (h *Handler) skipQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	if h.handleSessionError(w, ctrl.Skip()) {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// POST /sessions/{sessionID}/advance
func (h *Handler) advanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	if h.handleSessionError(w, ctrl.Advance()) {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// POST /sessions/{sessionID}/retry
//
// Retries whichever service call the session is parked on: the question
// fetch in awaiting_question, the grading call in grading.
func (h *Handler) retrySession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	var err error
	switch ctrl.State() {
	case interview.StateAwaitingQuestion:
		err = ctrl.RetryQuestion()
	case interview.StateGrading:
		err = ctrl.RetryGrade()
	default:
		respondError(w, http.StatusConflict, "nothing to retry in the current state")
		return
	}
	if h.handleSessionError(w, err) {
		return
	}
	h.respondSnapshot(w, http.StatusOK, sessionID)
}

// DELETE /sessions/{sessionID}
func (h *Handler) abandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if h.handleStoreError(w, h.interviews.Abandon(sessionID), "session") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /sessions/{sessionID}/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ctrl.Snapshot().Summary)
}

// downloadReport godoc
// @Summary  Download the final report
// @Tags     sessions
// @Produce  text/markdown
// @Param    sessionID path string true "Session ID"
// @Success  200 {string} string
// @Router   /sessions/{sessionID}/report [get]
//
// GET /sessions/{sessionID}/report
func (h *Handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	ctrl, ok := h.controller(w, sessionID)
	if !ok {
		return
	}

	if ctrl.State() != interview.StateComplete {
		respondError(w, http.StatusConflict, "session is not complete")
		return
	}

	history := ctrl.History()
	cfg := ctrl.Config()
	doc, err := report.Render(cfg, history, interview.Summarize(cfg.QuestionCount, history))
	if err != nil {
		h.logger.Error("report rendering failed", "session_id", sessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "interview-report-"+sessionID+".md"))
	w.Write(doc)
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func (h *Handler) controller(w http.ResponseWriter, sessionID string) (*interview.Controller, bool) {
	ctrl, err := h.interviews.Controller(sessionID)
	if h.handleStoreError(w, err, "session") {
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) respondSnapshot(w http.ResponseWriter, status int, sessionID string) {
	ctrl, err := h.interviews.Controller(sessionID)
	if h.handleStoreError(w, err, "session") {
		return
	}
	respondJSON(w, status, SessionResponse{ID: sessionID, Snapshot: ctrl.Snapshot()})
}
