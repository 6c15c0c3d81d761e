package sessions

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
	"github.com/r-santel/ccpulse-tui/internal/ui/styles"
)

// View renders the sessions tab.
func (m *Model) View() string {
	data := m.state.GetSessions()
	if m.state.IsInitialLoading() && data == nil {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderTitle(data))

	if data == nil || data.TotalCount == 0 {
		sections = append(sections, styles.HelpStyle.Render(
			"No sessions in this window. Press w to widen it."))
	} else {
		sections = append(sections, m.renderProjects(data.Projects))
		sections = append(sections, m.renderSessionTable(data.Sessions))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(data *models.SessionsData) string {
	title := styles.TitleStyle.Render("Sessions")

	count := 0
	if data != nil {
		count = data.TotalCount
	}
	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("window %s, %d sessions", m.window, count))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderProjects(projects []models.ProjectStats) string {
	if len(projects) == 0 {
		return ""
	}

	cardWidth := max(m.width-6, 40)

	rows := []string{styles.CardTitleStyle.Render("By Project")}
	for _, p := range projects {
		rows = append(rows, fmt.Sprintf("  %-24s %3d sessions  %10s  %8s",
			truncate(p.Project, 24),
			p.SessionCount,
			components.FormatTokens(p.TotalTokens),
			components.FormatCost(p.TotalCostUSD),
		))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSessionTable(sessions []models.SessionMetrics) string {
	cardWidth := max(m.width-6, 40)

	header := styles.TableHeaderStyle.Render(fmt.Sprintf("  %-14s %-20s %6s %10s %9s %9s",
		"SESSION", "PROJECT", "MSGS", "TOKENS", "COST", "ACTIVE"))

	rows := []string{styles.CardTitleStyle.Render("Sessions by Cost"), header}

	for i, s := range sessions {
		prefix := "  "
		rowStyle := styles.TableCellStyle
		if i == m.selectedIndex {
			prefix = styles.SelectedListItemStyle.Value()
			rowStyle = styles.TableSelectedStyle
		}

		project := s.ProjectName()
		if project == "" {
			project = "unknown"
		}

		line := fmt.Sprintf("%s%-14s %-20s %6d %10s %9s %9s",
			prefix,
			truncate(s.SessionID, 14),
			truncate(project, 20),
			s.MessageCount,
			components.FormatTokens(s.TotalTokens),
			components.FormatCost(s.TotalCostUSD),
			formatActive(s.ActiveTimeSeconds),
		)
		rows = append(rows, rowStyle.Render(line))

		// Expand the selected session with its per-model breakdown.
		if i == m.selectedIndex && len(s.TokensByModel) > 0 {
			for _, mt := range s.TokensByModel {
				rows = append(rows, styles.HelpStyle.Render(
					fmt.Sprintf("      %-24s %s", truncate(mt.Model, 24), components.FormatTokens(mt.Tokens))))
			}
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func formatActive(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	minutes := int(seconds / 60)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
