package agent

import (
	"math/rand"
	"sync"

	"github.com/vovakirdan/flappy-rl/internal/config"
)

// Agent bundles a value table with a policy and an updater. One Agent
// belongs to exactly one game; several agents may share a table if they
// also share a lock (see WithSharedLock).
type Agent struct {
	table   *Table
	policy  *EpsilonGreedy
	learner QLearner
	mu      *sync.Mutex // nil for single-threaded use
}

// Option configures an Agent.
type Option func(*Agent)

// WithSharedLock serializes every table access through mu. All agents
// sharing a table must pass the same mutex.
func WithSharedLock(mu *sync.Mutex) Option {
	return func(a *Agent) {
		a.mu = mu
	}
}

// New creates an agent over table using the learning parameters in cfg.
func New(table *Table, cfg config.AgentConfig, rng *rand.Rand, opts ...Option) *Agent {
	a := &Agent{
		table:   table,
		policy:  NewEpsilonGreedy(cfg.EpsilonDecay, cfg.EpsilonMin, rng),
		learner: QLearner{Alpha: cfg.Alpha, Gamma: cfg.Gamma},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) lock() func() {
	if a.mu == nil {
		return func() {}
	}
	a.mu.Lock()
	return a.mu.Unlock
}

// Act chooses the action for s.
func (a *Agent) Act(s State) Action {
	defer a.lock()()
	return a.policy.Choose(a.table, s)
}

// Learn applies one update for the transition s --act--> next with reward
// and returns the TD error.
func (a *Agent) Learn(s State, act Action, reward float64, next State) float64 {
	defer a.lock()()
	return a.learner.Update(a.table, s, act, reward, next)
}

// EndTick decays the exploration rate; called once per learning tick.
func (a *Agent) EndTick() {
	a.policy.Decay()
}

// ResetExploration restores epsilon to ExplorationReset for a new episode.
func (a *Agent) ResetExploration() {
	a.policy.Reset()
}

// Epsilon returns the current exploration rate.
func (a *Agent) Epsilon() float64 {
	return a.policy.Epsilon()
}

// Value reads a single table cell under the agent's lock.
func (a *Agent) Value(s State, act Action) float64 {
	defer a.lock()()
	return a.table.Get(s, act)
}

// Table returns the underlying table. Callers sharing the table across
// goroutines must not touch it directly while agents are running.
func (a *Agent) Table() *Table {
	return a.table
}

// Save persists the table through store while holding the agent's lock,
// so concurrent learners never see a half-written snapshot.
func (a *Agent) Save(store TableSaver) error {
	if store == nil {
		return nil
	}
	defer a.lock()()
	return store.Save(a.table)
}
