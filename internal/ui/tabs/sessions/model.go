// Package sessions provides the per-session usage tab.
package sessions

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
)

// windows lists the session lookback tokens in cycle order.
var windows = []string{"1h", "8h", "24h", "2d", "7d", "30d"}

// keyMap defines the key bindings specific to the sessions tab.
type keyMap struct {
	CycleWindow key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CycleWindow: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "cycle window"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev session"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next session"),
		),
	}
}

// Model represents the sessions tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model

	window        string
	selectedIndex int
	width         int
	height        int
}

// New creates a new sessions model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		spinner:  components.NewSpinner("Loading sessions..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		window:   "24h",
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.SessionsLoadedMsg:
		// Clamp the cursor when the list shrinks.
		if msg.Data != nil && m.selectedIndex >= len(msg.Data.Sessions) {
			m.selectedIndex = max(len(msg.Data.Sessions)-1, 0)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	count := 0
	if data := m.state.GetSessions(); data != nil {
		count = len(data.Sessions)
	}

	switch {
	case key.Matches(msg, m.keys.CycleWindow):
		m.window = nextWindow(m.window)
		m.selectedIndex = 0
		if m.commands != nil {
			cmds = append(cmds, m.commands.LoadSessions(m.window))
		}

	case key.Matches(msg, m.keys.Up):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}

	case key.Matches(msg, m.keys.Down):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func nextWindow(current string) string {
	for i, w := range windows {
		if w == current {
			return windows[(i+1)%len(windows)]
		}
	}
	return windows[0]
}

// SetSize sets the available size for the sessions tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.CycleWindow, m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CycleWindow},
		{m.keys.Up, m.keys.Down},
	}
}
