package agent

import "math/rand"

// ExplorationReset is the exploration rate every episode starts with.
const ExplorationReset = 1.0

// EpsilonGreedy picks a random action with probability epsilon and the
// greedy action otherwise.
type EpsilonGreedy struct {
	epsilon float64
	decay   float64
	min     float64
	rng     *rand.Rand
}

// NewEpsilonGreedy creates a policy starting at ExplorationReset.
func NewEpsilonGreedy(decay, min float64, rng *rand.Rand) *EpsilonGreedy {
	return &EpsilonGreedy{
		epsilon: ExplorationReset,
		decay:   decay,
		min:     min,
		rng:     rng,
	}
}

// Choose returns the action for s.
func (p *EpsilonGreedy) Choose(t *Table, s State) Action {
	if p.rng.Float64() < p.epsilon {
		return Action(p.rng.Intn(NumActions))
	}
	a, _ := t.Best(s)
	return a
}

// Decay shrinks epsilon by the decay factor while it is above the floor.
// The value may end slightly below the floor, never further.
func (p *EpsilonGreedy) Decay() {
	if p.epsilon > p.min {
		p.epsilon *= p.decay
	}
}

// Reset restores epsilon to ExplorationReset.
func (p *EpsilonGreedy) Reset() {
	p.epsilon = ExplorationReset
}

// Epsilon returns the current exploration rate.
func (p *EpsilonGreedy) Epsilon() float64 {
	return p.epsilon
}
