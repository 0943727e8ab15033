// internal/api/routes.go
package api

import "net/http"

// RegisterRoutes attaches every handler to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Resume upload
	mux.HandleFunc("POST /resume", h.uploadResume)

	// Live sessions
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{sessionID}", h.getSession)
	mux.HandleFunc("POST /sessions/{sessionID}/confidence", h.confirmConfidence)
	mux.HandleFunc("POST /sessions/{sessionID}/answer", h.updateAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/submit", h.submitAnswer)
	mux.HandleFunc("POST /sessions/{sessionID}/skip", h.skipQuestion)
	mux.HandleFunc("POST /sessions/{sessionID}/advance", h.advanceSession)
	mux.HandleFunc("POST /sessions/{sessionID}/retry", h.retrySession)
	mux.HandleFunc("DELETE /sessions/{sessionID}", h.abandonSession)
	mux.HandleFunc("GET /sessions/{sessionID}/summary", h.getSummary)
	mux.HandleFunc("GET /sessions/{sessionID}/report", h.downloadReport)

	// Persisted results
	mux.HandleFunc("GET /results", h.listResults)
	mux.HandleFunc("GET /results/{sessionID}", h.getResult)
}
