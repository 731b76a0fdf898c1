// Package runner drives a flappy game frame by frame, either paced for a
// terminal or unpaced for headless training.
package runner

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-rl/internal/core"
	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
)

// Presenter draws a frame. It is called exactly once per tick.
type Presenter interface {
	Present(g *flappy.Game)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(g *flappy.Game)

// Present calls f(g).
func (f PresenterFunc) Present(g *flappy.Game) { f(g) }

// InputSource yields the events that arrived since the previous tick.
type InputSource interface {
	Poll() core.InputFrame
}

// EpisodeHook receives every finished episode, crashed or truncated.
type EpisodeHook func(flappy.EpisodeSummary)

// Driver owns the frame loop for one game.
type Driver struct {
	game      *flappy.Game
	presenter Presenter
	onEpisode EpisodeHook
	logger    *log.Logger
	tickRate  int
	maxTicks  int

	ticks     int
	closeOnce sync.Once
	closeErr  error
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithPresenter sets the per-tick presenter.
func WithPresenter(p Presenter) DriverOption {
	return func(d *Driver) {
		d.presenter = p
	}
}

// WithEpisodeHook sets the callback for finished episodes.
func WithEpisodeHook(h EpisodeHook) DriverOption {
	return func(d *Driver) {
		d.onEpisode = h
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithTickRate sets ticks per second for Run. Zero or less runs unpaced.
func WithTickRate(rate int) DriverOption {
	return func(d *Driver) {
		d.tickRate = rate
	}
}

// WithMaxTicks truncates episodes that reach n playing ticks. Zero disables it.
func WithMaxTicks(n int) DriverOption {
	return func(d *Driver) {
		d.maxTicks = n
	}
}

// NewDriver creates a driver for game.
func NewDriver(game *flappy.Game, opts ...DriverOption) *Driver {
	d := &Driver{
		game:     game,
		logger:   log.New(io.Discard),
		tickRate: core.DefaultConfig().TickRate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Game returns the driven game.
func (d *Driver) Game() *flappy.Game {
	return d.game
}

// Ticks returns the number of frames processed.
func (d *Driver) Ticks() int {
	return d.ticks
}

// Tick processes one frame and reports whether the loop should continue.
// A Quit anywhere in the frame stops the loop before the game is stepped.
func (d *Driver) Tick(in core.InputFrame) bool {
	if in.Has(core.ActionQuit) {
		return false
	}

	res := d.game.Step(in)
	if res.Err != nil {
		d.logger.Warn("value table save failed", "error", res.Err)
	}
	if res.Episode != nil {
		d.finish(*res.Episode)
	}

	if d.maxTicks > 0 && res.State.Phase == core.PhasePlaying && res.State.Ticks >= d.maxTicks {
		if sum, ok := d.game.Truncate(); ok {
			d.finish(sum)
		}
	}

	if d.presenter != nil {
		d.presenter.Present(d.game)
	}
	d.ticks++
	return true
}

func (d *Driver) finish(sum flappy.EpisodeSummary) {
	d.logger.Debug("episode finished",
		"episode", sum.Episode,
		"ticks", sum.Ticks,
		"reward", sum.Reward,
		"epsilon", sum.Epsilon,
		"truncated", sum.Truncated,
	)
	if d.onEpisode != nil {
		d.onEpisode(sum)
	}
}

// Run ticks until src yields Quit or ctx is cancelled, then flushes the
// value table. Cancellation is a normal stop and is not returned.
func (d *Driver) Run(ctx context.Context, src InputSource) error {
	if d.tickRate <= 0 {
		for ctx.Err() == nil && d.Tick(src.Poll()) {
		}
		return d.Close()
	}

	ticker := time.NewTicker(time.Second / time.Duration(d.tickRate))
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if !d.Tick(src.Poll()) {
				break loop
			}
		}
	}
	return d.Close()
}

// Close saves the value table once. Later calls return the first result.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.game.Shutdown()
		if d.closeErr != nil {
			d.logger.Error("value table not saved", "error", d.closeErr)
		}
	})
	return d.closeErr
}

// AutoPilot presses Space whenever the game is not playing, so every
// episode starts and restarts through the normal state machine.
type AutoPilot struct {
	game *flappy.Game
}

// NewAutoPilot creates an input source for game.
func NewAutoPilot(game *flappy.Game) *AutoPilot {
	return &AutoPilot{game: game}
}

// Poll implements InputSource.
func (a *AutoPilot) Poll() core.InputFrame {
	in := core.NewInputFrame()
	if a.game.Phase() != core.PhasePlaying {
		in.Push(core.ActionJump)
	}
	return in
}

// Queue is a goroutine-safe InputSource fed by Push.
type Queue struct {
	mu     sync.Mutex
	events core.InputFrame
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push enqueues an event for the next tick.
func (q *Queue) Push(a core.Action) {
	q.mu.Lock()
	q.events.Push(a)
	q.mu.Unlock()
}

// Poll implements InputSource by draining the queue.
func (q *Queue) Poll() core.InputFrame {
	q.mu.Lock()
	defer q.mu.Unlock()
	in := q.events.Clone()
	q.events.Clear()
	return in
}
