package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the default configuration.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Window: WindowConfig{
			Width:  400,
			Height: 600,
		},
		Physics: PhysicsConfig{
			Gravity:         0.25,
			FlapImpulse:     -9,
			PipeSpeed:       2,
			BackgroundSpeed: 1,
		},
		Bird: BirdConfig{
			X:      50,
			Width:  30,
			Height: 30,
			MinY:   -50,
			MaxY:   650,
		},
		Pipes: PipesConfig{
			Width:     50,
			Gap:       200,
			Margin:    100,
			MaxActive: 3,
		},
		Agent: AgentConfig{
			Bins:          10,
			VelocityRange: 10,
			Alpha:         0.1,
			Gamma:         0.99,
			EpsilonDecay:  0.995,
			EpsilonMin:    0.01,
			SurviveReward: 1,
			CrashReward:   -1000,
		},
		Timer: TimerConfig{
			StartOffsetMs: 500,
		},
	}
}
