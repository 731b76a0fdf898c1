package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-rl/internal/config"
	"github.com/vovakirdan/flappy-rl/internal/core"
	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
	"github.com/vovakirdan/flappy-rl/internal/runner"
)

// screenshotDir is where ctrl+s dumps the current frame.
const screenshotDir = "~/.flappyrl/screenshots"

// Model is the Bubble Tea model for watching and steering a learning game.
// The framework owns pacing: every TickMsg becomes exactly one driver tick.
type Model struct {
	driver   *runner.Driver
	screen   *core.Screen
	keys     *KeyMapper
	config   core.RuntimeConfig
	pending  core.InputFrame // Events since the last tick, in arrival order
	logger   *log.Logger
	quitting bool
}

// NewModel creates a model around a driver built by NewDriver.
func NewModel(driver *runner.Driver, screen *core.Screen, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return Model{
		driver:  driver,
		screen:  screen,
		keys:    NewKeyMapper(),
		config:  cfg,
		pending: core.NewInputFrame(),
		logger:  logger,
	}
}

// NewDriver builds a driver whose presenter renders into screen.
func NewDriver(game *flappy.Game, screen *core.Screen, opts ...runner.DriverOption) *runner.Driver {
	present := runner.PresenterFunc(func(g *flappy.Game) {
		g.Render(screen)
	})
	opts = append([]runner.DriverOption{runner.WithPresenter(present)}, opts...)
	return runner.NewDriver(game, opts...)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.driver.Game().Render(m.screen)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey queues the key's action for the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.pending) {
		return m.stop()
	}
	return m, nil
}

// handleResize processes window resize events. The world is scaled, so the
// game itself is unaffected.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.driver.Game().Render(m.screen)
	return m, nil
}

// handleTick feeds pending input to the driver.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	in := m.pending.Clone()
	m.pending.Clear()
	if !m.driver.Tick(in) {
		return m.stop()
	}

	return m, tickCmd(m.config.TickRate)
}

// stop flushes the value table and quits the program.
func (m Model) stop() (tea.Model, tea.Cmd) {
	m.quitting = true
	if err := m.driver.Close(); err != nil {
		m.logger.Error("value table not saved on quit", "error", err)
	}
	return m, tea.Quit
}

// saveScreenshot saves the current screen to a file.
func (m Model) saveScreenshot() {
	dir := config.ExpandPath(screenshotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("flappy_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot not saved", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current frame. Drawing happens in the presenter, once
// per tick; View only styles the buffer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return RenderScreen(m.screen)
}

// Quitting reports whether the model has stopped.
func (m Model) Quitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for game and blocks until it quits.
// The value table is flushed on every exit path.
func Run(game *flappy.Game, cfg core.RuntimeConfig, logger *log.Logger, opts ...runner.DriverOption) error {
	screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
	driver := NewDriver(game, screen, opts...)
	model := NewModel(driver, screen, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	if cerr := driver.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
