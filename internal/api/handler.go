// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
	"github.com/mohitmdms-dev/ai-interviewer/internal/service"
	"github.com/mohitmdms-dev/ai-interviewer/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	interviews *service.InterviewService
	store      store.Store
	logger     *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(interviews *service.InterviewService, s store.Store, logger *slog.Logger) *Handler {
	return &Handler{
		interviews: interviews,
		store:      s,
		logger:     logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// decodeJSON decodes the request body into v. Returns false (after
// writing a 400) if the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// handleStoreError checks for common store errors and writes the
// appropriate HTTP response. Returns true if an error was handled
// (caller should return).
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}

// handleSessionError maps controller errors onto HTTP statuses. A lost
// submit/expiry race (ErrAlreadyResolved) is not an error: the question
// is resolved either way, so the caller just gets the current snapshot.
// Returns true if an error response was written.
func (h *Handler) handleSessionError(w http.ResponseWriter, err error) bool {
	if err == nil || errors.Is(err, interview.ErrAlreadyResolved) {
		return false
	}

	var validationErr *interview.ValidationError
	var stateErr *interview.StateError
	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &stateErr):
		respondError(w, http.StatusConflict, stateErr.Error())
	case errors.Is(err, interview.ErrNoResumeContext):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("session error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
