package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-rl/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the stats sidebar
	sidebarWidth       = 24  // Width of stats sidebar
	maxEpisodes        = 100 // Max episodes to load per view
)

// HistorySource is the read side of the episode store.
type HistorySource interface {
	TopEpisodes(limit int) ([]storage.EpisodeEntry, error)
	RecentEpisodes(limit int) ([]storage.EpisodeEntry, error)
	Stats() (*storage.EpisodeStats, error)
}

// HistoryView selects which episodes the table lists.
type HistoryView int

const (
	ViewTop HistoryView = iota
	ViewRecent
)

var historyViews = []HistoryView{ViewTop, ViewRecent}

// Title returns the tab label for the view.
func (v HistoryView) Title() string {
	if v == ViewRecent {
		return "Recent"
	}
	return "Longest"
}

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing recorded episodes.
type HistoryModel struct {
	source      HistorySource
	view        int // Index into historyViews
	episodes    []storage.EpisodeEntry
	stats       *storage.EpisodeStats
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewHistoryModel creates a history browser reading from source.
func NewHistoryModel(source HistorySource, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized for the current window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Mode", Width: 6},
		{Title: "Ep", Width: 6},
		{Title: "Ticks", Width: 7},
		{Title: "Reward", Width: 8},
		{Title: "Eps", Width: 6},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	// Give spare room to the date column
	if used := 49 + 2*len(columns); tableWidth > used {
		columns[6].Width = min(12+tableWidth-used, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the current view and the summary from the source.
func (m *HistoryModel) load() {
	m.episodes, m.stats, m.loadErr = nil, nil, nil
	if m.source == nil {
		m.updateTableRows()
		return
	}

	var err error
	switch historyViews[m.view] {
	case ViewRecent:
		m.episodes, err = m.source.RecentEpisodes(maxEpisodes)
	default:
		m.episodes, err = m.source.TopEpisodes(maxEpisodes)
	}
	if err != nil {
		m.episodes, m.loadErr = nil, err
	}
	if stats, err := m.source.Stats(); err == nil {
		m.stats = stats
	}
	m.updateTableRows()
}

// updateTableRows refills the table from the loaded episodes.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.episodes))
	for i, e := range m.episodes {
		ticks := fmt.Sprintf("%d", e.Ticks)
		if e.Truncated {
			ticks += "+"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			e.Mode,
			fmt.Sprintf("%d", e.Episode),
			ticks,
			fmt.Sprintf("%.0f", e.Reward),
			fmt.Sprintf("%.3f", e.Epsilon),
			e.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % len(historyViews)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.view = (m.view + len(historyViews) - 1) % len(historyViews)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	title := fmt.Sprintf("EPISODES - %s", m.currentView().Title())
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableRendered))
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(tableRendered, m.width))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) currentView() HistoryView {
	return historyViews[m.view]
}

// renderSidebar renders the view list and the aggregate stats.
func (m HistoryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Views\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")
	for i, v := range historyViews {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sb.WriteString(style.Render(cursor + v.Title()))
		sb.WriteString("\n")
	}

	if m.stats != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Episodes  %d\n", m.stats.Count))
		sb.WriteString(fmt.Sprintf("Best      %d\n", m.stats.BestTicks))
		sb.WriteString(fmt.Sprintf("Average   %.1f\n", m.stats.AvgTicks))
		if !m.stats.LastPlayed.IsZero() {
			sb.WriteString(fmt.Sprintf("Last      %s\n", m.stats.LastPlayed.Format("Jan 02 15:04")))
		}
	}

	return sidebarStyle.Render(sb.String())
}

// renderTabs renders the view selector for narrow terminals.
func (m HistoryModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(historyViews))
	for i, v := range historyViews {
		if i == m.view {
			tabs[i] = activeTabStyle.Render(v.Title())
		} else {
			tabs[i] = tabStyle.Render(" " + v.Title() + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.episodes) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		msg := "No episodes recorded yet.\nRun `flappyrl train` or `flappyrl play`."
		if m.loadErr != nil {
			msg = "History unavailable:\n" + m.loadErr.Error()
		}
		return emptyStyle.Render(msg)
	}

	return m.table.View()
}

// Episodes returns the episodes currently listed.
func (m HistoryModel) Episodes() []storage.EpisodeEntry {
	return m.episodes
}

// centerText centers a possibly multi-line block within width.
func centerText(text string, width int) string {
	if lipgloss.Width(text) >= width {
		return text
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

// RunHistory runs the history browser until the user quits.
func RunHistory(source HistorySource, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(source, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
