package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
	"github.com/mohitmdms-dev/ai-interviewer/internal/report"
)

// ── Response types ──────────────────────────────────────────────────────────

type ResultHeaderResponse struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
	TotalScore    int    `json:"total_score"`
	MaxScore      int    `json:"max_score"`
	CreatedAt     string `json:"created_at"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listResults godoc
// @Summary  List persisted session results
// @Tags     results
// @Produce  json
// @Param    limit query int false "Max rows (default 20)"
// @Success  200 {array} ResultHeaderResponse
// @Router   /results [get]
//
// GET /results
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	headers, err := h.store.ListResults(r.Context(), limit)
	if h.handleStoreError(w, err, "results") {
		return
	}

	out := make([]ResultHeaderResponse, len(headers))
	for i, hd := range headers {
		out[i] = ResultHeaderResponse{
			ID:            hd.ID,
			Category:      string(hd.Category),
			Difficulty:    string(hd.Difficulty),
			QuestionCount: hd.QuestionCount,
			TotalScore:    hd.TotalScore,
			MaxScore:      hd.MaxScore,
			CreatedAt:     hd.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GET /results/{sessionID}
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	result, err := h.store.GetResult(r.Context(), sessionID)
	if h.handleStoreError(w, err, "result") {
		return
	}

	cfg := interview.SessionConfig{
		Category:        result.Category,
		Difficulty:      result.Difficulty,
		QuestionCount:   result.QuestionCount,
		TimePerQuestion: result.TimePerQuestion,
	}
	respondJSON(w, http.StatusOK, report.BuildExport(result.ID, cfg, result.Attempts, result.Summary))
}
