// Package agent implements the tabular Q-learning agent: the value table and
// its file store, the state discretizer, the epsilon-greedy policy and the
// temporal-difference updater.
package agent

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Action is an agent decision for one tick.
type Action int

const (
	ActionIdle Action = iota // Let gravity act
	ActionFlap               // Apply the flap impulse
)

// NumActions is the size of the action space.
const NumActions = 2

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionFlap:
		return "flap"
	default:
		return "unknown"
	}
}

// State is a discretized observation: bin indices for bird height,
// vertical velocity and distance to the front pipe.
type State struct {
	Y, V, Dist int
}

// Table holds expected-return estimates for every (state, action) pair.
// It is a bins³ × NumActions dense matrix: one row per state, flattened as
// (Y*bins + V)*bins + Dist, one column per action.
type Table struct {
	bins int
	m    *mat.Dense
}

// NewTable creates a zero-initialized table with the given bins per axis.
func NewTable(bins int) *Table {
	if bins <= 0 {
		panic(fmt.Sprintf("agent: bins must be positive, got %d", bins))
	}
	return &Table{
		bins: bins,
		m:    mat.NewDense(bins*bins*bins, NumActions, nil),
	}
}

// Bins returns the number of bins per state axis.
func (t *Table) Bins() int {
	return t.bins
}

// States returns the number of rows in the table.
func (t *Table) States() int {
	return t.bins * t.bins * t.bins
}

func (t *Table) row(s State) int {
	return (s.Y*t.bins+s.V)*t.bins + s.Dist
}

// StateAt is the inverse of the row flattening.
func (t *Table) StateAt(row int) State {
	return State{
		Y:    row / (t.bins * t.bins),
		V:    (row / t.bins) % t.bins,
		Dist: row % t.bins,
	}
}

// Values returns the action values for s. The slice aliases the table.
func (t *Table) Values(s State) []float64 {
	return t.m.RawRowView(t.row(s))
}

// Get returns the value of taking a in s.
func (t *Table) Get(s State, a Action) float64 {
	return t.m.At(t.row(s), int(a))
}

// Set overwrites the value of taking a in s.
func (t *Table) Set(s State, a Action, v float64) {
	t.m.Set(t.row(s), int(a), v)
}

// Best returns the greedy action for s and its value.
// Ties go to the lowest action index, so an all-zero row picks ActionIdle.
func (t *Table) Best(s State) (Action, float64) {
	vals := t.Values(s)
	i := floats.MaxIdx(vals)
	return Action(i), vals[i]
}

// Max returns the best action value for s.
func (t *Table) Max(s State) float64 {
	return floats.Max(t.Values(s))
}

// Visited counts states with at least one non-zero action value.
func (t *Table) Visited() int {
	n := 0
	for r := 0; r < t.States(); r++ {
		for _, v := range t.m.RawRowView(r) {
			if v != 0 {
				n++
				break
			}
		}
	}
	return n
}

