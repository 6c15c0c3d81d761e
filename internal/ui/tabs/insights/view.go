package insights

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
	"github.com/r-santel/ccpulse-tui/internal/ui/styles"
)

// View renders the insights tab.
func (m *Model) View() string {
	data := m.state.GetInsights()
	local := m.state.GetLocalStats()

	if m.state.IsInitialLoading() && data == nil && local == nil {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderTitle())

	if data == nil && local == nil {
		sections = append(sections, styles.HelpStyle.Render(
			"Stats cache not found. Use Claude Code to generate usage data."))
	} else {
		if data != nil {
			sections = append(sections, m.renderComparison(data))
			sections = append(sections, m.renderActivityChart(data))
			sections = append(sections, m.renderPeakActivity(data))
		}
		if local != nil {
			sections = append(sections, m.renderLifetime(local))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Insights")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("period %s, local stats cache", m.period))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderComparison(data *models.InsightsData) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{
		styles.CardTitleStyle.Render("vs Previous Period"),
		comparisonRow("Messages", data.Comparison.Messages, false),
		comparisonRow("Sessions", data.Comparison.Sessions, false),
		comparisonRow("Tokens", data.Comparison.Tokens, false),
		comparisonRow("Est. Cost", data.Comparison.EstimatedCost, true),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func comparisonRow(label string, c models.MetricComparison, isCost bool) string {
	current := components.FormatCount(c.Current)
	previous := components.FormatCount(c.Previous)
	if isCost {
		current = components.FormatCost(c.Current)
		previous = components.FormatCost(c.Previous)
	}

	trend := "—"
	if c.PercentChange != nil {
		arrow := "▲"
		if *c.PercentChange < 0 {
			arrow = "▼"
		}
		trend = fmt.Sprintf("%s %+.1f%%", arrow, *c.PercentChange)
	}

	return fmt.Sprintf("  %-10s %10s  (was %s)  %s",
		label, current, previous,
		styles.GetTrendStyle(c.PercentChange).Render(trend))
}

func (m *Model) renderActivityChart(data *models.InsightsData) string {
	cardWidth := max(m.width-6, 40)

	var body string
	if len(data.DailyActivity) < 2 {
		body = styles.HelpStyle.Render("Not enough days for a trend chart")
	} else {
		values := make([]float64, 0, len(data.DailyActivity))
		for _, p := range data.DailyActivity {
			values = append(values, p.Value)
		}
		body = components.RenderLineChart(values, cardWidth-12, 6, "messages per day")
	}

	sessionsLine := ""
	if len(data.SessionsPerDay) > 0 {
		values := make([]float64, 0, len(data.SessionsPerDay))
		for _, p := range data.SessionsPerDay {
			values = append(values, p.Value)
		}
		spark := components.RenderSparkline(values, min(len(values), cardWidth-20))
		sessionsLine = styles.StatLabelStyle.Render("sessions/day ") + spark
	}

	rows := []string{styles.CardTitleStyle.Render("Daily Activity"), body}
	if sessionsLine != "" {
		rows = append(rows, "", sessionsLine)
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderPeakActivity(data *models.InsightsData) string {
	cardWidth := max(m.width-6, 40)
	peak := data.PeakActivity

	rows := []string{styles.CardTitleStyle.Render("Usage Patterns")}

	if peak.MostActiveHour != nil {
		rows = append(rows, fmt.Sprintf("  Most active hour     %02d:00", *peak.MostActiveHour))
	}
	if peak.LongestSessionMinutes != nil {
		rows = append(rows, fmt.Sprintf("  Longest session      %dm", *peak.LongestSessionMinutes))
	}
	rows = append(rows, fmt.Sprintf("  Current streak       %d days", peak.CurrentStreak))
	if peak.MemberSince != "" {
		rows = append(rows, fmt.Sprintf("  Member since         %s", peak.MemberSince))
	}

	if len(data.HourCounts) > 0 {
		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderHourlyHeatmap(data.HourCounts))
		rows = append(rows, "  "+components.RenderLegend([]components.LegendItem{
			{Label: "quiet", Color: styles.Subtle},
			{Label: "busy", Color: styles.Error},
		}))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderLifetime(local *models.LocalStats) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{
		styles.CardTitleStyle.Render("Lifetime"),
		fmt.Sprintf("  Sessions   %d", local.TotalSessions),
		fmt.Sprintf("  Messages   %d", local.TotalMessages),
		fmt.Sprintf("  Tokens     %s", components.FormatTokens(local.TotalTokens)),
		fmt.Sprintf("  Est. cost  %s", components.FormatCost(local.EstimatedCostUSD)),
		fmt.Sprintf("  Active     %d days", local.ActiveDays),
	}

	if len(local.TokensByModel) > 0 {
		names := make([]string, 0, len(local.TokensByModel))
		for name := range local.TokensByModel {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return local.TokensByModel[names[i]] > local.TokensByModel[names[j]]
		})

		values := make([]float64, 0, len(names))
		for _, name := range names {
			values = append(values, float64(local.TokensByModel[name]))
		}

		rows = append(rows, "", styles.SubTitleStyle.Render("Tokens by Model"))
		rows = append(rows, components.RenderBarChart(values, names, cardWidth-6))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
