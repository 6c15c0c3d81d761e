// Package insights provides the local trends tab built from the stats cache.
package insights

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
)

// periods lists the comparison period tokens in cycle order.
var periods = []string{"7d", "30d", "week", "month"}

// keyMap defines the key bindings specific to the insights tab.
type keyMap struct {
	CyclePeriod key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CyclePeriod: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle period"),
		),
	}
}

// Model represents the insights tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	spinner  components.LoadingSpinner
	keys     keyMap
	viewport viewport.Model

	period string
	width  int
	height int
}

// New creates a new insights model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		spinner:  components.NewSpinner("Reading stats cache..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		period:   "7d",
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
		switch {
		case key.Matches(msg, m.keys.CyclePeriod):
			m.period = nextPeriod(m.period)
			if m.commands != nil {
				cmds = append(cmds, m.commands.LoadInsights(m.period))
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func nextPeriod(current string) string {
	for i, p := range periods {
		if p == current {
			return periods[(i+1)%len(periods)]
		}
	}
	return periods[0]
}

// SetSize sets the available size for the insights tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.CyclePeriod}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.CyclePeriod}}
}
