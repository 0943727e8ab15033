package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

// GroqClient talks to an OpenAI-compatible chat-completions endpoint
// (Groq, Ollama, LM Studio, vLLM, etc.).
type GroqClient struct {
	url    string // e.g. "https://api.groq.com/openai"
	model  string // e.g. "llama-3.3-70b-versatile"
	apiKey string
	client *http.Client // reused across calls
}

// Compile-time check: *GroqClient satisfies the Service interface.
var _ Service = (*GroqClient)(nil)

// NewGroqClient creates a client for the given endpoint. The apiKey may
// be empty for local endpoints that do not authenticate.
func NewGroqClient(url, model, apiKey string) *GroqClient {
	return &GroqClient{
		url:    strings.TrimRight(url, "/"),
		model:  model,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

const maxRetries = 2

// ── Service interface ───────────────────────────────────────────────────────

// NextQuestion asks the model for a single interview question matching
// the session's category, difficulty, and resume context.
func (g *GroqClient) NextQuestion(ctx context.Context, cfg interview.SessionConfig, index int) (string, error) {
	prompt := buildQuestionPrompt(cfg, index)

	text, err := g.callModel(ctx, prompt)
	if err != nil {
		return "", err
	}

	question := strings.TrimSpace(text)
	if question == "" {
		return "", &ServiceError{Reason: "model returned an empty question"}
	}
	return question, nil
}

// GradeAnswer sends the answer for grading and parses the structured
// result. Models wrap their JSON in markdown fences often enough that the
// payload is located by brace scanning rather than trusted as-is. Parse
// failures are retried once before giving up.
func (g *GroqClient) GradeAnswer(ctx context.Context, cfg interview.SessionConfig, question, answer string, confidence int) (interview.Grade, error) {
	prompt := buildGradePrompt(cfg, question, answer, confidence)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		text, err := g.callModel(ctx, prompt)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		grade, err := parseGrade(text)
		if err != nil {
			lastErr = err
			continue
		}
		return grade, nil
	}

	return interview.Grade{}, &ServiceError{
		Reason:  fmt.Sprintf("grading failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

// ── Model communication ─────────────────────────────────────────────────────

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callModel sends one chat-completion request and returns the raw text.
func (g *GroqClient) callModel(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ServiceError{Reason: "failed to marshal request", Wrapped: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &ServiceError{Reason: "failed to create request", Wrapped: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &ServiceError{Reason: "model request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{Reason: fmt.Sprintf("model returned status %d", resp.StatusCode)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &ServiceError{Reason: "failed to decode model response", Wrapped: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &ServiceError{Reason: "model returned no choices"}
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", &ServiceError{Reason: "model returned empty content"}
	}

	return content, nil
}

// ── Grade parsing ───────────────────────────────────────────────────────────

type gradePayload struct {
	TotalScore    int    `json:"totalScore"`
	Accuracy      int    `json:"accuracy"`
	Communication int    `json:"communication"`
	Depth         int    `json:"depth"`
	AIDetected    bool   `json:"aiDetected"`
	AIFlagReason  string `json:"aiFlagReason"`
	Feedback      string `json:"feedback"`
	Improvement   string `json:"improvement"`
	Resources     []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Reason string `json:"reason"`
	} `json:"resources"`
}

// parseGrade strips any formatting wrappers, decodes the payload, and
// normalizes it into the domain Grade. Shape mismatches become a
// ServiceError, never a panic.
func parseGrade(text string) (interview.Grade, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return interview.Grade{}, &ServiceError{Reason: "no JSON object found in model response"}
	}

	var payload gradePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return interview.Grade{}, &ServiceError{Reason: "invalid JSON from model", Wrapped: err}
	}

	if strings.TrimSpace(payload.Feedback) == "" {
		return interview.Grade{}, &ServiceError{Reason: "model grade has no feedback"}
	}

	grade := interview.Grade{
		TotalScore:    payload.TotalScore,
		Accuracy:      payload.Accuracy,
		Communication: payload.Communication,
		Depth:         payload.Depth,
		AIDetected:    payload.AIDetected,
		AIFlagReason:  payload.AIFlagReason,
		Feedback:      payload.Feedback,
		Improvement:   payload.Improvement,
	}
	for _, r := range payload.Resources {
		grade.Resources = append(grade.Resources, interview.Resource{
			Title:  r.Title,
			URL:    r.URL,
			Reason: r.Reason,
		})
	}
	return grade.Normalize(), nil
}

// extractJSON returns the first balanced JSON object in text. Models
// wrap their payload in markdown fences or prose often enough that the
// object is located by walking brace depth rather than trusting the
// response as-is; braces inside string literals do not count, and a
// stray closing brace before the object opens is ignored.
func extractJSON(text string) string {
	start := -1
	depth := 0
	inQuote := false
	escapeNext := false

	for i, r := range text {
		switch {
		case escapeNext:
			escapeNext = false
		case r == '\\' && inQuote:
			escapeNext = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case r == '}' && depth > 0:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// ── Prompt builders ─────────────────────────────────────────────────────────

func categoryPhrase(c interview.Category) string {
	switch c {
	case interview.CategoryTechnical:
		return "technical/coding"
	case interview.CategoryHR:
		return "HR/culture fit/background"
	default:
		return "behavioral (STAR method)"
	}
}

func difficultyPhrase(d interview.Difficulty) string {
	switch d {
	case interview.DifficultyEasy:
		return "simple and beginner-friendly"
	case interview.DifficultyMedium:
		return "moderately challenging"
	default:
		return "advanced and challenging"
	}
}

func buildQuestionPrompt(cfg interview.SessionConfig, index int) string {
	return fmt.Sprintf(`Based on this resume: %s, ask one unique %s interview question that is %s. This is question number %d out of %d, make it completely different from previous ones. Just the question, nothing else.`,
		cfg.ResumeContext, categoryPhrase(cfg.Category), difficultyPhrase(cfg.Difficulty), index, cfg.QuestionCount)
}

func buildGradePrompt(cfg interview.SessionConfig, question, answer string, confidence int) string {
	return fmt.Sprintf(`You are an expert interviewer. Grade this %s interview answer at %s difficulty. Candidate confidence: %d/5.

Q: %s
A: %s

Check if this answer looks AI-generated (overly formal, perfectly structured, uses "In conclusion", "It is worth noting", "Furthermore", too perfectly balanced).

Return ONLY this exact JSON, no markdown, no extra text:
{"totalScore":7,"accuracy":8,"communication":7,"depth":6,"aiDetected":false,"aiFlagReason":"","feedback":"Detailed feedback here.","improvement":"One specific tip here.","resources":[{"title":"Resource name","url":"https://example.com","reason":"Why this helps"}]}

Rules:
- All scores must be integers 1-10
- aiDetected must be true or false
- resources must be 2-3 real websites like MDN, freeCodeCamp, GeeksforGeeks, LeetCode`,
		cfg.Category, cfg.Difficulty, confidence, question, answer)
}
