package interview

// MaxScore is the top of every grading scale (total and per dimension).
const MaxScore = 10

// MaxResources caps how many reading suggestions a grade may carry.
const MaxResources = 3

// Resource is one suggested reference attached to a grade.
type Resource struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Grade is the structured result of grading one answer.
type Grade struct {
	TotalScore    int        `json:"total_score"`
	Accuracy      int        `json:"accuracy"`
	Communication int        `json:"communication"`
	Depth         int        `json:"depth"`
	AIDetected    bool       `json:"ai_detected"`
	AIFlagReason  string     `json:"ai_flag_reason,omitempty"`
	Feedback      string     `json:"feedback"`
	Improvement   string     `json:"improvement"`
	Resources     []Resource `json:"resources"`
}

// Normalize clamps every score into [0, MaxScore] and drops resources
// beyond MaxResources. Service payloads pass through here so an
// out-of-range model output can never corrupt session totals.
func (g Grade) Normalize() Grade {
	g.TotalScore = clampScore(g.TotalScore)
	g.Accuracy = clampScore(g.Accuracy)
	g.Communication = clampScore(g.Communication)
	g.Depth = clampScore(g.Depth)
	if len(g.Resources) > MaxResources {
		g.Resources = g.Resources[:MaxResources]
	}
	if g.Resources == nil {
		g.Resources = []Resource{}
	}
	return g
}

// SkippedGrade is the synthetic zero grade committed when a question is
// skipped. Not an error path: skipping is a legitimate outcome.
func SkippedGrade() Grade {
	return Grade{
		Feedback:    "Question was skipped.",
		Improvement: "Try not to skip; even a partial answer scores better than none.",
		Resources:   []Resource{},
	}
}

// TimedOutGrade is the synthetic zero grade committed when the clock runs
// out with no answer text to grade.
func TimedOutGrade() Grade {
	return Grade{
		Feedback:    "Time ran out and no answer was provided.",
		Improvement: "Always attempt an answer even if unsure.",
		Resources:   []Resource{},
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}
