// Package info provides the configuration and diagnostics tab.
package info

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/config"
)

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	TestConnection key.Binding
	Up             key.Binding
	Down           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		TestConnection: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "test connection"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	commands *app.Commands
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int
}

// New creates a new info model.
func New(state *app.State, cfg *config.Config, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the info tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.TestConnection):
			if m.commands != nil {
				cmds = append(cmds,
					m.commands.TestConnection(),
					m.commands.NotifyInfo("Testing connection..."),
				)
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(keyMsg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.TestConnection}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.TestConnection},
		{m.keys.Up, m.keys.Down},
	}
}
