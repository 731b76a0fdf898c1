package agent

// QLearner applies the one-step Q-learning update.
type QLearner struct {
	Alpha float64 // Learning rate
	Gamma float64 // Discount
}

// Update moves table[s][a] toward r + Gamma*max(table[next]) and returns
// the temporal-difference error before the step.
//
// s must be the state observed before the action and next the state after
// it; swapping them trains the table on the wrong transition.
func (l QLearner) Update(t *Table, s State, a Action, r float64, next State) float64 {
	target := r + l.Gamma*t.Max(next)
	current := t.Get(s, a)
	tdErr := target - current
	t.Set(s, a, current+l.Alpha*tdErr)
	return tdErr
}
