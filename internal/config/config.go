// Package config provides YAML-based configuration loading for the game
// world and the learning agent.
package config

import (
	"errors"
	"fmt"
)

// FlappyConfig contains all configuration for the game and its agent.
type FlappyConfig struct {
	Window  WindowConfig  `yaml:"window"`
	Physics PhysicsConfig `yaml:"physics"`
	Bird    BirdConfig    `yaml:"bird"`
	Pipes   PipesConfig   `yaml:"pipes"`
	Agent   AgentConfig   `yaml:"agent"`
	Timer   TimerConfig   `yaml:"timer"`
}

// WindowConfig defines the size of the simulated world in world units.
// The terminal renderer scales it to whatever screen is available.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig defines per-tick motion parameters.
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`          // Downward acceleration per tick
	FlapImpulse     float64 `yaml:"flap_impulse"`     // Velocity set by a flap (negative = up)
	PipeSpeed       float64 `yaml:"pipe_speed"`       // Pipe scroll per tick
	BackgroundSpeed float64 `yaml:"background_speed"` // Background scroll per tick
}

// BirdConfig defines the bird hitbox and the out-of-bounds limits.
type BirdConfig struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	MinY   float64 `yaml:"min_y"` // Bird is off-screen when y < MinY
	MaxY   float64 `yaml:"max_y"` // Bird is off-screen when y > MaxY
}

// PipesConfig defines pipe geometry and the sequence size.
type PipesConfig struct {
	Width     int `yaml:"width"`
	Gap       int `yaml:"gap"`
	Margin    int `yaml:"margin"`     // Minimum distance between the gap and either screen edge
	MaxActive int `yaml:"max_active"` // Sequence is refilled whenever it holds fewer pipes
}

// AgentConfig defines the tabular Q-learning parameters.
type AgentConfig struct {
	Bins          int     `yaml:"bins"`           // Bins per state axis
	VelocityRange float64 `yaml:"velocity_range"` // Velocity is binned over [-range, range]
	Alpha         float64 `yaml:"alpha"`
	Gamma         float64 `yaml:"gamma"`
	EpsilonDecay  float64 `yaml:"epsilon_decay"`
	EpsilonMin    float64 `yaml:"epsilon_min"`
	SurviveReward float64 `yaml:"survive_reward"`
	CrashReward   float64 `yaml:"crash_reward"`
}

// TimerConfig controls the elapsed-time HUD.
type TimerConfig struct {
	StartOffsetMs int `yaml:"start_offset_ms"` // Backdating applied when an episode starts
}

// ExplorationPreset represents a named exploration schedule.
type ExplorationPreset string

const (
	ExploreDefault ExplorationPreset = "default"
	ExploreCurious ExplorationPreset = "curious"
	ExploreSteady  ExplorationPreset = "steady"
)

// ApplyExplorationPreset modifies the agent schedule based on a preset.
// Epsilon always restarts at 1.0 each episode; presets only change how fast
// it decays and where it stops.
func ApplyExplorationPreset(cfg *FlappyConfig, preset ExplorationPreset) error {
	switch preset {
	case "", ExploreDefault:
	case ExploreCurious:
		cfg.Agent.EpsilonDecay = 0.999
		cfg.Agent.EpsilonMin = 0.05
	case ExploreSteady:
		cfg.Agent.EpsilonDecay = 0.99
		cfg.Agent.EpsilonMin = 0
	default:
		return fmt.Errorf("config: unknown exploration preset %q", preset)
	}
	return nil
}

// Validate reports configuration values that would break the simulation.
func (c FlappyConfig) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Agent.Bins <= 0 {
		errs = append(errs, fmt.Errorf("agent.bins must be positive, got %d", c.Agent.Bins))
	}
	if c.Agent.VelocityRange <= 0 {
		errs = append(errs, fmt.Errorf("agent.velocity_range must be positive, got %g", c.Agent.VelocityRange))
	}
	if c.Agent.Alpha <= 0 || c.Agent.Alpha > 1 {
		errs = append(errs, fmt.Errorf("agent.alpha must be in (0, 1], got %g", c.Agent.Alpha))
	}
	if c.Agent.Gamma <= 0 || c.Agent.Gamma > 1 {
		errs = append(errs, fmt.Errorf("agent.gamma must be in (0, 1], got %g", c.Agent.Gamma))
	}
	if c.Agent.EpsilonDecay <= 0 || c.Agent.EpsilonDecay > 1 {
		errs = append(errs, fmt.Errorf("agent.epsilon_decay must be in (0, 1], got %g", c.Agent.EpsilonDecay))
	}
	if c.Pipes.MaxActive <= 0 {
		errs = append(errs, fmt.Errorf("pipes.max_active must be positive, got %d", c.Pipes.MaxActive))
	}
	if c.Pipes.Width <= 0 || c.Pipes.Gap <= 0 {
		errs = append(errs, errors.New("pipes.width and pipes.gap must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
