package core

import "time"

// RuntimeConfig contains configuration passed to the platform at startup.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60, <= 0 for unpaced)
	Seed     int64 // RNG seed for deterministic simulation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Phase is the episode state machine position.
type Phase int

const (
	PhasePaused Phase = iota
	PhasePlaying
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhasePaused:
		return "paused"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// GameState is a snapshot of the game for the platform layer.
type GameState struct {
	Phase   Phase
	Episode int           // 1-based number of the current or last episode, 0 before the first start
	Ticks   int           // Playing ticks in the current or last episode
	Reward  float64       // Cumulative reward of the current or last episode
	Epsilon float64       // Current exploration rate
	Elapsed time.Duration // Time since episode start, zero unless playing
}
