package info

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-santel/ccpulse-tui/internal/ui/styles"
	"github.com/r-santel/ccpulse-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderMetricsCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	w := m.width - 6
	if w < 50 {
		w = 50
	}
	if w > 90 {
		w = 90
	}
	return w
}

func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		connection := styles.DisconnectedStyle.Render("unreachable")
		if m.state.IsConnected() {
			connection = styles.ConnectedStyle.Render("connected")
		}

		rows = append(rows, renderRow("Server", m.config.PrometheusURL+"  "+connection))
		rows = append(rows, renderRow("Claude Dir", m.config.ClaudeDir))
		rows = append(rows, renderRow("History", m.config.HistoryPath()))
		rows = append(rows, renderRow("Stats Cache", m.config.StatsCachePath()))
		rows = append(rows, renderRow("Database", m.config.DatabasePath))
		rows = append(rows, renderRow("Refresh", m.config.RefreshInterval.String()))
		rows = append(rows, renderRow("Pricing", m.config.PricingProvider))
		rows = append(rows, renderRow("Cost Alert", fmt.Sprintf("$%.2f", m.config.CostAlertThreshold)))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Press 'c' to test the connection"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderMetricsCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Discovered Metrics"))
	rows = append(rows, "")

	names := m.state.GetMetricNames()
	if len(names) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No recorder metrics found on the server yet"))
	} else {
		for _, name := range names {
			rows = append(rows, styles.ListItemStyle.Render(name))
		}
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About ccpulse"))
	rows = append(rows, "")

	rows = append(rows, renderRow("Version", version.Info()))
	rows = append(rows, renderRow("Go Version", runtime.Version()))
	rows = append(rows, renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(14).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
