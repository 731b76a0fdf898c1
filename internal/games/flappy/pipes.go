package flappy

import (
	"math/rand"

	"github.com/vovakirdan/flappy-rl/internal/config"
)

// Pipe represents a vertical obstacle with a gap for the bird to pass through.
type Pipe struct {
	X      float64 // Horizontal position (left edge)
	Height int     // Y position where the gap starts (top of gap)
	Gap    int     // Height of the passable gap
}

// Move scrolls the pipe left by speed.
func (p *Pipe) Move(speed float64) {
	p.X -= speed
}

// OffScreen reports whether the pipe has fully left the left edge.
func (p Pipe) OffScreen(width int) bool {
	return p.X < -float64(width)
}

// GapBottom returns the y position where the bottom pipe starts.
func (p Pipe) GapBottom() int {
	return p.Height + p.Gap
}

// Collides reports whether b overlaps a pipe of the given width: the
// horizontal extents intersect and the bird pokes out of the gap above or
// below.
func Collides(b Bird, p Pipe, width int) bool {
	if b.X+b.Width <= p.X || b.X >= p.X+float64(width) {
		return false
	}
	return b.Y < float64(p.Height) || b.Y+b.Height > float64(p.GapBottom())
}

// PipeSeq is the ordered sequence of live pipes. Index 0 is the oldest
// pipe, the one closest to (or already past) the bird.
type PipeSeq struct {
	pipes   []Pipe
	rng     *rand.Rand
	cfg     config.PipesConfig
	speed   float64
	windowW int
	windowH int
}

// NewPipeSeq creates an empty sequence drawing gap heights from rng.
func NewPipeSeq(cfg config.FlappyConfig, rng *rand.Rand) *PipeSeq {
	return &PipeSeq{
		pipes:   make([]Pipe, 0, cfg.Pipes.MaxActive),
		rng:     rng,
		cfg:     cfg.Pipes,
		speed:   cfg.Physics.PipeSpeed,
		windowW: cfg.Window.Width,
		windowH: cfg.Window.Height,
	}
}

// Reset removes all pipes.
func (ps *PipeSeq) Reset() {
	ps.pipes = ps.pipes[:0]
}

// Advance moves all pipes, drops the front pipe once it is off-screen and
// spawns a new pipe at the back while the sequence is below capacity.
func (ps *PipeSeq) Advance() {
	for i := range ps.pipes {
		ps.pipes[i].Move(ps.speed)
	}

	if len(ps.pipes) > 0 && ps.pipes[0].OffScreen(ps.cfg.Width) {
		ps.pipes = append(ps.pipes[:0], ps.pipes[1:]...)
	}

	if len(ps.pipes) < ps.cfg.MaxActive {
		ps.spawn()
	}
}

// spawn appends a pipe at the right edge with a uniformly drawn gap.
func (ps *PipeSeq) spawn() {
	minY := ps.cfg.Margin
	maxY := ps.windowH - ps.cfg.Gap - ps.cfg.Margin
	if maxY < minY {
		maxY = minY // Edge case for very small windows
	}

	ps.pipes = append(ps.pipes, Pipe{
		X:      float64(ps.windowW),
		Height: minY + ps.rng.Intn(maxY-minY+1),
		Gap:    ps.cfg.Gap,
	})
}

// Pipes returns the current pipes in spawn order.
func (ps *PipeSeq) Pipes() []Pipe {
	return ps.pipes
}

// Len returns the number of live pipes.
func (ps *PipeSeq) Len() int {
	return len(ps.pipes)
}

// Front returns the oldest live pipe.
func (ps *PipeSeq) Front() (Pipe, bool) {
	if len(ps.pipes) == 0 {
		return Pipe{}, false
	}
	return ps.pipes[0], true
}

// CheckCollision tests b against every live pipe.
func (ps *PipeSeq) CheckCollision(b Bird) bool {
	for _, p := range ps.pipes {
		if Collides(b, p, ps.cfg.Width) {
			return true
		}
	}
	return false
}
