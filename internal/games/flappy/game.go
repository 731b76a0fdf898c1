// Package flappy implements a Flappy Bird-style game played by a learning agent.
// The agent flaps the bird through gaps in scrolling pipes and improves its
// value table every tick; a human can still start, flap and restart with Space.
package flappy

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/flappy-rl/internal/agent"
	"github.com/vovakirdan/flappy-rl/internal/config"
	"github.com/vovakirdan/flappy-rl/internal/core"
)

// Visual characters for rendering
const (
	BirdChar      = '●'
	BirdBeakChar  = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▀'
	PipeCapBottom = '▄'
	CloudChar     = '~'
)

// Skyline pattern for the bottom row of the scrolling background.
var skyline = []rune("▁▂▃▄▃▂▁▁▂▂▁ ▁▂▃▂▁  ")

// HUD texts
const (
	TextStart     = "Press to Start"
	TextGameOver  = "Game Over"
	TextRestart   = "Press Space to Restart"
	timerTemplate = "Time: %d"
)

// Transition describes one learning tick.
type Transition struct {
	State    agent.State
	Action   agent.Action
	Reward   float64
	Next     agent.State
	TDError  float64
	Terminal bool
}

// EpisodeSummary is emitted when an episode ends.
type EpisodeSummary struct {
	Episode   int
	Ticks     int
	Reward    float64
	Epsilon   float64
	Duration  time.Duration
	Truncated bool // Ended by the caller, not by a crash
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State      core.GameState
	Transition *Transition     // Set on learning ticks
	Episode    *EpisodeSummary // Set on the tick the episode ended
	Err        error           // Value table save failure during restart
}

// Game owns one simulation context: the entities, the phase, and the agent
// that learns while the game is playing.
type Game struct {
	cfg   config.FlappyConfig
	agent *agent.Agent
	disc  agent.Discretizer
	store agent.TableSaver
	now   func() time.Time

	bird      Bird
	pipes     *PipeSeq
	phase     core.Phase
	bgX       float64
	startTime time.Time

	episode int
	ticks   int
	reward  float64
}

// Option configures a Game.
type Option func(*Game)

// WithClock replaces time.Now for the elapsed-time HUD.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		g.now = now
	}
}

// WithTableStore sets where the value table is saved on restart and shutdown.
func WithTableStore(store agent.TableSaver) Option {
	return func(g *Game) {
		g.store = store
	}
}

// New creates a paused game. rng drives pipe gap sampling; the agent has its
// own source for exploration.
func New(cfg config.FlappyConfig, ag *agent.Agent, rng *rand.Rand, opts ...Option) *Game {
	g := &Game{
		cfg:   cfg,
		agent: ag,
		disc: agent.NewDiscretizer(
			cfg.Agent.Bins,
			float64(cfg.Window.Width),
			float64(cfg.Window.Height),
			cfg.Agent.VelocityRange,
		),
		now:   time.Now,
		bird:  NewBird(cfg),
		pipes: NewPipeSeq(cfg, rng),
		phase: core.PhasePaused,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Step advances the game by one tick: input events in order, background
// scroll, then simulation and learning if playing.
func (g *Game) Step(in core.InputFrame) StepResult {
	var res StepResult

	for _, a := range in.Events() {
		if a != core.ActionJump {
			continue // Quit belongs to the driver
		}
		if err := g.handleSpace(); err != nil {
			res.Err = err
		}
	}

	g.bgX -= g.cfg.Physics.BackgroundSpeed
	if g.bgX <= -float64(g.cfg.Window.Width) {
		g.bgX = 0
	}

	if g.phase == core.PhasePlaying {
		tr := g.simulate()
		res.Transition = &tr
		if tr.Terminal {
			sum := g.summary(false)
			res.Episode = &sum
		}
	}

	res.State = g.State()
	return res
}

// handleSpace applies the phase-dependent meaning of Space.
func (g *Game) handleSpace() error {
	switch g.phase {
	case core.PhasePaused:
		g.phase = core.PhasePlaying
		g.startTime = g.now().Add(-time.Duration(g.cfg.Timer.StartOffsetMs) * time.Millisecond)
		g.episode++
		g.ticks = 0
		g.reward = 0
	case core.PhasePlaying:
		g.bird.Flap()
	case core.PhaseGameOver:
		return g.restart()
	}
	return nil
}

// restart moves GameOver to Paused with fresh entities, full exploration
// and a saved value table.
func (g *Game) restart() error {
	g.bird = NewBird(g.cfg)
	g.pipes.Reset()
	g.startTime = time.Time{}
	g.phase = core.PhasePaused
	g.agent.ResetExploration()

	if err := g.agent.Save(g.store); err != nil {
		return fmt.Errorf("flappy: save on restart: %w", err)
	}
	return nil
}

// simulate runs one playing tick and returns the learned transition.
func (g *Game) simulate() Transition {
	state := g.disc.Discretize(g.observe())
	action := g.agent.Act(state)
	if action == agent.ActionFlap {
		g.bird.Flap()
	}

	g.bird.Update()
	g.pipes.Advance()

	reward := g.cfg.Agent.SurviveReward
	crashed := g.pipes.CheckCollision(g.bird) || g.bird.OffScreen()
	if crashed {
		reward = g.cfg.Agent.CrashReward
	}

	next := g.disc.Discretize(g.observe())
	tdErr := g.agent.Learn(state, action, reward, next)
	if crashed {
		g.phase = core.PhaseGameOver
	}
	g.agent.EndTick()

	g.ticks++
	g.reward += reward

	return Transition{
		State:    state,
		Action:   action,
		Reward:   reward,
		Next:     next,
		TDError:  tdErr,
		Terminal: crashed,
	}
}

// observe builds the agent's view of the world. The front pipe stands in
// for the nearest one.
func (g *Game) observe() agent.Observation {
	obs := agent.Observation{
		Y:        g.bird.Y,
		Velocity: g.bird.Velocity,
	}
	if p, ok := g.pipes.Front(); ok {
		obs.HasPipe = true
		obs.PipeDistance = p.X - g.bird.X
	}
	return obs
}

func (g *Game) summary(truncated bool) EpisodeSummary {
	return EpisodeSummary{
		Episode:   g.episode,
		Ticks:     g.ticks,
		Reward:    g.reward,
		Epsilon:   g.agent.Epsilon(),
		Duration:  g.Elapsed(),
		Truncated: truncated,
	}
}

// Truncate ends a playing episode without a crash and without a learning
// update. Used by headless training to cap episode length.
func (g *Game) Truncate() (EpisodeSummary, bool) {
	if g.phase != core.PhasePlaying {
		return EpisodeSummary{}, false
	}
	sum := g.summary(true)
	g.phase = core.PhaseGameOver
	return sum, true
}

// Shutdown saves the value table; called once when the process exits.
func (g *Game) Shutdown() error {
	if err := g.agent.Save(g.store); err != nil {
		return fmt.Errorf("flappy: save on shutdown: %w", err)
	}
	return nil
}

// Elapsed returns time since the episode started, or zero unless playing.
func (g *Game) Elapsed() time.Duration {
	if g.phase != core.PhasePlaying || g.startTime.IsZero() {
		return 0
	}
	return g.now().Sub(g.startTime)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Phase:   g.phase,
		Episode: g.episode,
		Ticks:   g.ticks,
		Reward:  g.reward,
		Epsilon: g.agent.Epsilon(),
		Elapsed: g.Elapsed(),
	}
}

// Phase returns the current phase.
func (g *Game) Phase() core.Phase {
	return g.phase
}

// Bird returns a copy of the bird.
func (g *Game) Bird() Bird {
	return g.bird
}

// Pipes returns the live pipes in spawn order.
func (g *Game) Pipes() []Pipe {
	return g.pipes.Pipes()
}

// BackgroundOffset returns the current background scroll in world units.
func (g *Game) BackgroundOffset() float64 {
	return g.bgX
}

// Agent returns the learning agent.
func (g *Game) Agent() *agent.Agent {
	return g.agent
}

// Render draws the current game state, scaling world units to screen cells.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	v := newViewport(dst, g.cfg.Window)

	switch g.phase {
	case core.PhaseGameOver:
		g.drawGameOver(dst)
		return
	case core.PhasePaused:
		g.drawBackground(dst, v)
		dst.DrawTextCentered(dst.Height()/2, TextStart, core.ColorBrightGreen)
		return
	}

	g.drawBackground(dst, v)
	for _, p := range g.pipes.Pipes() {
		g.drawPipe(dst, v, p)
	}
	g.drawBird(dst, v)

	// Draw HUD
	secs := int(g.Elapsed() / time.Second)
	dst.DrawText(1, 0, fmt.Sprintf(timerTemplate, secs), core.ColorWhite)
	info := fmt.Sprintf("ep %d  ε %.3f  ticks %d", g.episode, g.agent.Epsilon(), g.ticks)
	dst.DrawText(dst.Width()-len([]rune(info))-1, 0, info, core.ColorGray)
}

// viewport maps world coordinates to screen cells.
type viewport struct {
	sx, sy float64
}

func newViewport(dst *core.Screen, w config.WindowConfig) viewport {
	return viewport{
		sx: float64(dst.Width()) / float64(w.Width),
		sy: float64(dst.Height()) / float64(w.Height),
	}
}

func (v viewport) col(x float64) int { return int(math.Floor(x * v.sx)) }
func (v viewport) row(y float64) int { return int(math.Floor(y * v.sy)) }

// span converts a world extent to a cell count of at least one.
func (v viewport) span(from, length, scale float64) int {
	return core.Max(int(math.Floor((from+length)*scale))-int(math.Floor(from*scale)), 1)
}

// drawBackground draws two copies of the tile side by side, shifted by the
// scroll offset, so the scene wraps seamlessly.
func (g *Game) drawBackground(dst *core.Screen, v viewport) {
	w := dst.Width()
	h := dst.Height()
	offset := v.col(g.bgX)
	cloudRow := h / 5

	for k := 0; k < 2; k++ {
		for c := 0; c < w; c++ {
			x := offset + k*w + c
			if c%17 < 3 {
				dst.SetColored(x, cloudRow, CloudChar, core.ColorGray)
			}
			dst.SetColored(x, h-1, skyline[c%len(skyline)], core.ColorGray)
		}
	}
}

// drawPipe renders the top pipe from y=0 to the gap and the bottom pipe
// from the gap end to the bottom of the screen.
func (g *Game) drawPipe(dst *core.Screen, v viewport, p Pipe) {
	x := v.col(p.X)
	w := v.span(p.X, float64(g.cfg.Pipes.Width), v.sx)
	gapTop := v.row(float64(p.Height))
	gapBottom := v.row(float64(p.GapBottom()))

	dst.DrawRect(core.NewRect(x, 0, w, gapTop), PipeChar, core.ColorGreen)
	dst.DrawRect(core.NewRect(x, gapBottom, w, dst.Height()-gapBottom), PipeChar, core.ColorGreen)
	for dx := 0; dx < w; dx++ {
		if gapTop > 0 {
			dst.SetColored(x+dx, gapTop-1, PipeCapTop, core.ColorBrightGreen)
		}
		dst.SetColored(x+dx, gapBottom, PipeCapBottom, core.ColorBrightGreen)
	}
}

func (g *Game) drawBird(dst *core.Screen, v viewport) {
	x := v.col(g.bird.X)
	y := v.row(g.bird.Y)
	w := v.span(g.bird.X, g.bird.Width, v.sx)
	h := v.span(g.bird.Y, g.bird.Height, v.sy)

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			ch := BirdChar
			if dx == w-1 && dy == 0 && w > 1 {
				ch = BirdBeakChar
			}
			dst.SetColored(x+dx, y+dy, ch, core.ColorYellow)
		}
	}
}

func (g *Game) drawGameOver(dst *core.Screen) {
	mid := dst.Height() / 2
	dst.DrawTextCentered(mid-2, TextGameOver, core.ColorBrightRed)
	dst.DrawTextCentered(mid+2, TextRestart, core.ColorWhite)
	dst.DrawTextCentered(mid+4, fmt.Sprintf("episode %d  survived %d ticks", g.episode, g.ticks), core.ColorGray)
}
