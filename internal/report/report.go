// Package report renders a finished session into downloadable documents.
// Pure transformations: nothing here feeds back into the session.
package report

import (
	"bytes"
	"text/template"
	"time"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
)

// Export is the machine-readable result document.
type Export struct {
	SessionID   string                      `json:"session_id"`
	GeneratedAt string                      `json:"generated_at"`
	Category    interview.Category          `json:"category"`
	Difficulty  interview.Difficulty        `json:"difficulty"`
	Summary     interview.Summary           `json:"summary"`
	Attempts    []interview.QuestionAttempt `json:"attempts"`
}

// BuildExport assembles the JSON export structure.
func BuildExport(sessionID string, cfg interview.SessionConfig, history []interview.QuestionAttempt, summary interview.Summary) Export {
	return Export{
		SessionID:   sessionID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Category:    cfg.Category,
		Difficulty:  cfg.Difficulty,
		Summary:     summary,
		Attempts:    history,
	}
}

const reportTemplate = `# AI Interview Report

Type: {{.Category}} | Difficulty: {{.Difficulty}} | Score: {{.Summary.TotalScore}}/{{.Summary.MaxScore}} ({{.Summary.Percentage}}%)
{{.Verdict}}

Accuracy: {{.Summary.AvgAccuracy}}% | Communication: {{.Summary.AvgCommunication}}% | Depth: {{.Summary.AvgDepth}}%
{{- if gt .Summary.AIFlagged 0}}
Warning: {{.Summary.AIFlagged}} answer(s) flagged as potentially AI-generated.
{{- end}}
{{- if gt .Summary.Skipped 0}}
{{.Summary.Skipped}} question(s) skipped.
{{- end}}

{{range .Attempts}}---

## Q{{.Index}}: {{.Question}}

Answer: {{displayAnswer .}}
Confidence: {{.Confidence}}/5
Score: {{.Grade.TotalScore}}/10 | Accuracy: {{.Grade.Accuracy}}/10 | Communication: {{.Grade.Communication}}/10 | Depth: {{.Grade.Depth}}/10
{{- if .Grade.AIDetected}}
AI Detected: {{.Grade.AIFlagReason}}
{{- end}}

Feedback: {{.Grade.Feedback}}
Improvement: {{.Grade.Improvement}}
{{- range .Grade.Resources}}
- {{.Title}} ({{.URL}}): {{.Reason}}
{{- end}}

{{end}}`

type reportData struct {
	Category   interview.Category
	Difficulty interview.Difficulty
	Summary    interview.Summary
	Verdict    string
	Attempts   []interview.QuestionAttempt
}

var tmpl = template.Must(template.New("report").
	Funcs(template.FuncMap{"displayAnswer": displayAnswer}).
	Parse(reportTemplate))

// Render produces the markdown report document.
func Render(cfg interview.SessionConfig, history []interview.QuestionAttempt, summary interview.Summary) ([]byte, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, reportData{
		Category:   cfg.Category,
		Difficulty: cfg.Difficulty,
		Summary:    summary,
		Verdict:    verdict(summary.Percentage),
		Attempts:   history,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func verdict(percentage int) string {
	switch {
	case percentage >= 80:
		return "Excellent!"
	case percentage >= 60:
		return "Good job!"
	default:
		return "Keep practicing!"
	}
}

func displayAnswer(a interview.QuestionAttempt) string {
	switch {
	case a.Outcome == interview.OutcomeSkipped:
		return "(skipped)"
	case a.Answer == "":
		return "(no answer)"
	default:
		return a.Answer
	}
}
