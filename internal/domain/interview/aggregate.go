package interview

import "math"

// Summary is derived from a session's history. It is recomputed on every
// read and never stored as mutable state.
type Summary struct {
	TotalScore       int `json:"total_score"`
	MaxScore         int `json:"max_score"`   // questionCount * 10
	Percentage       int `json:"percentage"`  // total over max, 0 when max is 0
	AvgAccuracy      int `json:"avg_accuracy"` // percentage scale
	AvgCommunication int `json:"avg_communication"`
	AvgDepth         int `json:"avg_depth"`
	AIFlagged        int `json:"ai_flagged"`
	Skipped          int `json:"skipped"`
}

// Summarize computes session statistics over the history so far. Pure:
// identical history always yields an identical Summary. Empty history
// yields zeroed averages rather than dividing by zero.
func Summarize(questionCount int, history []QuestionAttempt) Summary {
	s := Summary{MaxScore: questionCount * MaxScore}

	var accuracy, communication, depth int
	for _, a := range history {
		s.TotalScore += a.Grade.TotalScore
		accuracy += a.Grade.Accuracy
		communication += a.Grade.Communication
		depth += a.Grade.Depth
		if a.Grade.AIDetected {
			s.AIFlagged++
		}
		if a.Outcome == OutcomeSkipped {
			s.Skipped++
		}
	}

	if s.MaxScore > 0 {
		s.Percentage = roundPct(float64(s.TotalScore) / float64(s.MaxScore) * 100)
	}
	if n := len(history); n > 0 {
		// Dimension scores are out of 10, so average*10 is a percentage.
		s.AvgAccuracy = roundPct(float64(accuracy) / float64(n) * 10)
		s.AvgCommunication = roundPct(float64(communication) / float64(n) * 10)
		s.AvgDepth = roundPct(float64(depth) / float64(n) * 10)
	}
	return s
}

func roundPct(f float64) int {
	return int(math.Round(f))
}
