// Package dashboard provides the usage overview tab.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	Refresh    key.Binding
	CycleRange key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		CycleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle time range"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	costThreshold float64
	width         int
	height        int
}

// New creates a new dashboard model. costThreshold drives the cost figure's
// coloring; zero disables the warning tiers.
func New(state *app.State, costThreshold float64) *Model {
	return &Model{
		state:         state,
		spinner:       components.NewSpinner("Loading usage metrics..."),
		keys:          defaultKeyMap(),
		viewport:      viewport.New(0, 0),
		costThreshold: costThreshold,
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
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Refresh, m.keys.CycleRange}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Refresh, m.keys.CycleRange}}
}
