package tui

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-rl/internal/agent"
	"github.com/vovakirdan/flappy-rl/internal/config"
	"github.com/vovakirdan/flappy-rl/internal/core"
	"github.com/vovakirdan/flappy-rl/internal/games/flappy"
)

type countingSaver struct {
	saves int
}

func (s *countingSaver) Save(*agent.Table) error {
	s.saves++
	return nil
}

func newTestModel(t *testing.T) (Model, *flappy.Game, *countingSaver) {
	t.Helper()
	cfg := config.DefaultFlappyConfig()
	saver := &countingSaver{}
	ag := agent.New(agent.NewTable(cfg.Agent.Bins), cfg.Agent, rand.New(rand.NewSource(2)))
	game := flappy.New(cfg, ag, rand.New(rand.NewSource(1)), flappy.WithTableStore(saver))

	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	screen := core.NewScreen(rc.ScreenW, rc.ScreenH)
	return NewModel(NewDriver(game, screen), screen, rc, nil), game, saver
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"space", space(), core.ActionJump},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, core.ActionQuit},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"up is ignored", tea.KeyMsg{Type: tea.KeyUp}, core.ActionNone},
		{"letter is ignored", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}}, core.ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := km.MapKey(tc.msg); got != tc.want {
				t.Errorf("MapKey() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestModelSpaceStartsOnNextTick(t *testing.T) {
	m, game, _ := newTestModel(t)

	m, _ = update(t, m, space())
	if game.Phase() != core.PhasePaused {
		t.Fatal("keys should only take effect on the next tick")
	}

	m, cmd := update(t, m, TickMsg(time.Now()))
	if game.Phase() != core.PhasePlaying {
		t.Errorf("phase after tick = %v, expected playing", game.Phase())
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.pending.Len() != 0 {
		t.Errorf("pending input = %d events after tick, expected 0", m.pending.Len())
	}
}

func TestModelQuitSavesTable(t *testing.T) {
	m, _, saver := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.Quitting() {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Fatal("quit should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if saver.saves != 1 {
		t.Errorf("quit should flush the table once, saved %d times", saver.saves)
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}

	// Ticks after quitting do nothing.
	if _, cmd := update(t, m, TickMsg(time.Now())); cmd != nil {
		t.Error("no more ticks after quit")
	}
}

func TestModelViewShowsPrompt(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Init()

	if !strings.Contains(m.View(), flappy.TextStart) {
		t.Errorf("initial view should show %q", flappy.TextStart)
	}
}

func TestModelResize(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.screen.Width() != 40 || m.screen.Height() != 12 {
		t.Errorf("screen is %dx%d after resize, expected 40x12", m.screen.Width(), m.screen.Height())
	}
	if !strings.Contains(m.screen.String(), flappy.TextStart) {
		t.Error("resize should redraw the current frame")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawText(0, 0, "hi", core.ColorYellow)
	s.DrawText(3, 0, "there", core.ColorDefault)
	s.SetColored(0, 1, '█', core.ColorGreen)

	out := RenderScreen(s)
	if !strings.Contains(out, "hi") || !strings.Contains(out, "there") || !strings.ContainsRune(out, '█') {
		t.Errorf("rendered output lost content: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 lines, got %q", out)
	}
}

func TestTickCmdNonPositiveRate(t *testing.T) {
	if tickCmd(0) == nil || tickCmd(-5) == nil {
		t.Error("tickCmd should fall back to the default rate")
	}
}
