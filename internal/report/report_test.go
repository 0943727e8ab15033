package report_test

import (
	"strings"
	"testing"

	"github.com/mohitmdms-dev/ai-interviewer/internal/domain/interview"
	"github.com/mohitmdms-dev/ai-interviewer/internal/report"
)

func sampleHistory() []interview.QuestionAttempt {
	return []interview.QuestionAttempt{
		{
			Index:      1,
			Question:   "Explain goroutine scheduling.",
			Answer:     "The runtime multiplexes goroutines onto OS threads.",
			Confidence: 4,
			Outcome:    interview.OutcomeAnswered,
			Grade: interview.Grade{
				TotalScore: 8, Accuracy: 8, Communication: 7, Depth: 8,
				Feedback:    "Accurate and concise.",
				Improvement: "Mention the work-stealing scheduler.",
				Resources: []interview.Resource{
					{Title: "Go scheduler talk", URL: "https://example.com/sched", Reason: "Deep dive"},
				},
			},
		},
		{
			Index:      2,
			Question:   "Describe a conflict with a teammate.",
			Confidence: 3,
			Outcome:    interview.OutcomeSkipped,
			Grade:      interview.SkippedGrade(),
		},
		{
			Index:      3,
			Question:   "What is a memory leak in Go?",
			Confidence: 2,
			Outcome:    interview.OutcomeTimedOut,
			Grade:      interview.TimedOutGrade(),
		},
	}
}

func render(t *testing.T, history []interview.QuestionAttempt) string {
	t.Helper()
	cfg := interview.NewConfig(interview.CategoryTechnical, interview.DifficultyMedium, "resume")
	cfg.QuestionCount = len(history)

	out, err := report.Render(cfg, history, interview.Summarize(cfg.QuestionCount, history))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRender(t *testing.T) {
	doc := render(t, sampleHistory())

	for _, want := range []string{
		"# AI Interview Report",
		"Type: Technical | Difficulty: Medium | Score: 8/30 (27%)",
		"Keep practicing!",
		"## Q1: Explain goroutine scheduling.",
		"Score: 8/10",
		"Answer: (skipped)",
		"Answer: (no answer)",
		"1 question(s) skipped.",
		"- Go scheduler talk (https://example.com/sched): Deep dive",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("report missing %q\n---\n%s", want, doc)
		}
	}

	if strings.Contains(doc, "flagged as potentially AI-generated") {
		t.Error("report must not warn about AI flags when none were raised")
	}
}

func TestRender_AIFlagWarning(t *testing.T) {
	history := sampleHistory()
	history[0].Grade.AIDetected = true
	history[0].Grade.AIFlagReason = "Overly formal structure."

	doc := render(t, history)

	if !strings.Contains(doc, "1 answer(s) flagged as potentially AI-generated.") {
		t.Errorf("missing AI flag warning:\n%s", doc)
	}
	if !strings.Contains(doc, "AI Detected: Overly formal structure.") {
		t.Errorf("missing per-question AI detail:\n%s", doc)
	}
}

func TestRender_Verdicts(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{10, "Excellent!"}, // 10/10 = 100%
		{7, "Good job!"},   // 70%
		{5, "Keep practicing!"},
	}

	for _, tc := range tests {
		history := []interview.QuestionAttempt{{
			Index:    1,
			Question: "Q",
			Answer:   "A",
			Outcome:  interview.OutcomeAnswered,
			Grade:    interview.Grade{TotalScore: tc.score, Feedback: "f", Improvement: "i"},
		}}
		doc := render(t, history)
		if !strings.Contains(doc, tc.want) {
			t.Errorf("score %d: expected verdict %q in report", tc.score, tc.want)
		}
	}
}

func TestBuildExport(t *testing.T) {
	cfg := interview.NewConfig(interview.CategoryHR, interview.DifficultyEasy, "resume")
	history := sampleHistory()
	summary := interview.Summarize(3, history)

	export := report.BuildExport("abc-123", cfg, history, summary)

	if export.SessionID != "abc-123" {
		t.Errorf("session id: got %q", export.SessionID)
	}
	if export.Category != interview.CategoryHR || export.Difficulty != interview.DifficultyEasy {
		t.Errorf("config not carried over: %+v", export)
	}
	if len(export.Attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(export.Attempts))
	}
	if export.GeneratedAt == "" {
		t.Error("expected a generation timestamp")
	}
}
