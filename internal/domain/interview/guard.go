package interview

// resolutionGuard guarantees first-writer-wins resolution per question
// index. Both the clock expiry and the user's submit/skip can try to
// resolve the same question; whichever reaches the guard first commits,
// and the loser gets ErrAlreadyResolved and must discard its effects.
//
// The guard itself holds no lock. The controller serializes all events
// under its mutex, so resolve runs atomically with respect to every
// other event handler.
type resolutionGuard struct {
	resolved map[int]Outcome
}

func newResolutionGuard() *resolutionGuard {
	return &resolutionGuard{resolved: make(map[int]Outcome)}
}

// resolve claims the outcome for index. The second and later calls for
// the same index return ErrAlreadyResolved regardless of outcome.
func (g *resolutionGuard) resolve(index int, outcome Outcome) error {
	if _, done := g.resolved[index]; done {
		return ErrAlreadyResolved
	}
	g.resolved[index] = outcome
	return nil
}

// outcomeOf returns the committed outcome for index, if any.
func (g *resolutionGuard) outcomeOf(index int) (Outcome, bool) {
	o, ok := g.resolved[index]
	return o, ok
}

func (g *resolutionGuard) reset() {
	g.resolved = make(map[int]Outcome)
}
