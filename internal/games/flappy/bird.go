package flappy

import "github.com/vovakirdan/flappy-rl/internal/config"

// Bird is the player entity. It is a value type: a new episode gets a
// fresh Bird from NewBird instead of resetting fields on the old one.
type Bird struct {
	X        float64 // Left edge, fixed for the whole episode
	Y        float64 // Top edge
	Velocity float64 // Vertical velocity (negative = up)
	Width    float64
	Height   float64

	gravity float64
	impulse float64
	minY    float64
	maxY    float64
}

// NewBird creates a bird at rest, vertically centered in the window.
func NewBird(cfg config.FlappyConfig) Bird {
	return Bird{
		X:        cfg.Bird.X,
		Y:        float64(cfg.Window.Height / 2),
		Velocity: 0,
		Width:    cfg.Bird.Width,
		Height:   cfg.Bird.Height,
		gravity:  cfg.Physics.Gravity,
		impulse:  cfg.Physics.FlapImpulse,
		minY:     cfg.Bird.MinY,
		maxY:     cfg.Bird.MaxY,
	}
}

// Flap replaces the current velocity with the flap impulse.
func (b *Bird) Flap() {
	b.Velocity = b.impulse
}

// Update advances one tick: velocity first, then position.
func (b *Bird) Update() {
	b.Velocity += b.gravity
	b.Y += b.Velocity
}

// OffScreen reports whether the bird has left the playable band.
func (b Bird) OffScreen() bool {
	return b.Y < b.minY || b.Y > b.maxY
}
