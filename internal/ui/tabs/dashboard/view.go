package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
	"github.com/r-santel/ccpulse-tui/internal/ui/styles"
)

// View renders the dashboard tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() && m.state.GetDashboard() == nil && m.state.GetSnapshot() == nil {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderTitle())

	if snap := m.state.GetSnapshot(); snap != nil {
		sections = append(sections, m.renderSnapshot(snap.CapturedAt, snap.TimeRange, snap.TotalTokens, snap.TotalCostUSD, snap.SessionCount))
	} else if metrics := m.state.GetDashboard(); metrics != nil {
		sections = append(sections, m.renderStatCards(metrics))
		sections = append(sections, m.renderTokenBreakdown(metrics))
		sections = append(sections, m.renderModelChart(metrics))
		sections = append(sections, m.renderOverTimeChart(metrics))
	} else {
		sections = append(sections, styles.HelpStyle.Render("No usage data yet. Press r to refresh."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Usage Dashboard")

	updated := "never"
	if t := m.state.GetLastUpdated(); !t.IsZero() {
		updated = components.FormatRelativeTime(t)
	}
	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("range %s, updated %s", m.state.GetTimeRange(), updated))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderSnapshot shows last stored totals while the server is unreachable.
func (m *Model) renderSnapshot(capturedAt time.Time, timeRange string, tokens uint64, cost float64, sessions uint32) string {
	banner := styles.WarningTextStyle.Render(
		fmt.Sprintf("⚠ Server unreachable. Showing totals stored %s (range %s).",
			components.FormatRelativeTime(capturedAt), timeRange))

	cards := []components.StatCard{
		{Label: "Total Tokens", Value: components.FormatTokens(tokens), ValueStyle: styles.StatValueStyle},
		{Label: "Total Cost", Value: components.FormatCost(cost), ValueStyle: styles.GetCostStyle(cost, m.costThreshold)},
		{Label: "Sessions", Value: fmt.Sprintf("%d", sessions), ValueStyle: styles.StatValueStyle},
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		banner,
		"",
		components.RenderStatGrid(cards, m.width-4, 3),
	)
}

func (m *Model) renderStatCards(d *models.DashboardMetrics) string {
	cards := []components.StatCard{
		{
			Label:      "Total Tokens",
			Value:      components.FormatTokens(d.TotalTokens),
			ValueStyle: styles.StatValueStyle,
		},
		{
			Label:      "Total Cost",
			Value:      components.FormatCost(d.TotalCostUSD),
			ValueStyle: styles.GetCostStyle(d.TotalCostUSD, m.costThreshold),
		},
		{
			Label:      "Active Time",
			Value:      components.FormatDuration(time.Duration(d.ActiveTimeSeconds) * time.Second),
			ValueStyle: styles.StatValueStyle,
		},
		{
			Label:      "Sessions",
			Value:      fmt.Sprintf("%d", d.SessionCount),
			ValueStyle: styles.StatValueStyle,
		},
		{
			Label:      "Lines Added",
			Value:      "+" + components.FormatTokens(d.LinesAdded),
			ValueStyle: styles.SuccessTextStyle,
		},
		{
			Label:      "Lines Removed",
			Value:      "-" + components.FormatTokens(d.LinesRemoved),
			ValueStyle: styles.ErrorTextStyle,
		},
		{
			Label:      "Commits",
			Value:      fmt.Sprintf("%d", d.CommitCount),
			ValueStyle: styles.StatValueStyle,
		},
		{
			Label:      "Pull Requests",
			Value:      fmt.Sprintf("%d", d.PullRequestCount),
			ValueStyle: styles.StatValueStyle,
		},
	}

	return components.RenderStatGrid(cards, m.width-4, 4)
}

func (m *Model) renderTokenBreakdown(d *models.DashboardMetrics) string {
	rows := []string{
		styles.CardTitleStyle.Render("Token Breakdown"),
		fmt.Sprintf("  Input          %s", components.FormatTokens(d.InputTokens)),
		fmt.Sprintf("  Output         %s", components.FormatTokens(d.OutputTokens)),
		fmt.Sprintf("  Cache Read     %s", components.FormatTokens(d.CacheReadTokens)),
		fmt.Sprintf("  Cache Creation %s", components.FormatTokens(d.CacheCreationTokens)),
	}

	return styles.CardStyle.Width(max(m.width-6, 40)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderModelChart(d *models.DashboardMetrics) string {
	cardWidth := max(m.width-6, 40)

	var body string
	if len(d.TokensByModel) == 0 {
		body = styles.HelpStyle.Render("No per-model data in this range")
	} else {
		values := make([]float64, 0, len(d.TokensByModel))
		labels := make([]string, 0, len(d.TokensByModel))
		for _, mt := range d.TokensByModel {
			values = append(values, float64(mt.Tokens))
			labels = append(labels, mt.Model)
		}
		body = components.RenderBarChart(values, labels, cardWidth-6)
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Tokens by Model"),
			body,
		),
	)
}

func (m *Model) renderOverTimeChart(d *models.DashboardMetrics) string {
	cardWidth := max(m.width-6, 40)

	var body string
	if len(d.TokensOverTime) < 2 {
		body = styles.HelpStyle.Render("Not enough samples for a trend chart")
	} else {
		// Rate samples arrive per second; the cumulative series reads better
		// for a monotonically growing total.
		step := float64(d.TokensOverTime[1].Timestamp - d.TokensOverTime[0].Timestamp)
		if step <= 0 {
			step = 60
		}
		values := components.CumulativeSum(components.SeriesValues(d.TokensOverTime), step)
		body = components.RenderLineChart(values, cardWidth-12, 8, "tokens (cumulative)")
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Tokens Over Time"),
			body,
		),
	)
}
