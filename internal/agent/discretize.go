package agent

import (
	"math"

	"github.com/vovakirdan/flappy-rl/internal/core"
)

// Observation is the continuous simulation state the agent sees.
type Observation struct {
	Y            float64 // Bird top edge
	Velocity     float64 // Bird vertical velocity
	PipeDistance float64 // Front pipe x minus bird x; ignored without a pipe
	HasPipe      bool
}

// Discretizer maps observations onto a bins³ grid.
type Discretizer struct {
	Bins          int
	Width         float64 // World width, scales pipe distance
	Height        float64 // World height, scales bird y
	VelocityRange float64 // Velocity is binned over [-range, range]
}

// NewDiscretizer creates a discretizer for a world of the given size.
func NewDiscretizer(bins int, width, height, velocityRange float64) Discretizer {
	return Discretizer{
		Bins:          bins,
		Width:         width,
		Height:        height,
		VelocityRange: velocityRange,
	}
}

// Discretize returns the state for obs. It never fails: values outside the
// expected ranges clamp to the edge bins, and a missing pipe maps to the
// farthest distance bin.
func (d Discretizer) Discretize(obs Observation) State {
	dist := d.Bins - 1
	if obs.HasPipe {
		dist = d.bin(obs.PipeDistance / d.Width)
	}
	return State{
		Y:    d.bin(obs.Y / d.Height),
		V:    d.bin((obs.Velocity + d.VelocityRange) / (2 * d.VelocityRange)),
		Dist: dist,
	}
}

// bin maps a fraction of the axis range to a bin index. Clamping happens in
// float space so infinities never reach the integer conversion.
func (d Discretizer) bin(frac float64) int {
	f := math.Floor(frac * float64(d.Bins))
	return int(core.ClampF(f, 0, float64(d.Bins-1)))
}
