package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/r-santel/ccpulse-tui/internal/ui/styles"
)

// StatCard is one labeled figure on a dashboard card grid.
type StatCard struct {
	Label      string
	Value      string
	Caption    string
	ValueStyle lipgloss.Style
}

// Render draws a single stat card at the given inner width.
func (c StatCard) Render(width int) string {
	lines := []string{
		c.ValueStyle.Render(c.Value),
		styles.StatLabelStyle.Render(c.Label),
	}
	if c.Caption != "" {
		lines = append(lines, styles.HelpStyle.Render(c.Caption))
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// RenderStatGrid lays cards out in rows of perRow, sized to the total width.
func RenderStatGrid(cards []StatCard, totalWidth, perRow int) string {
	if len(cards) == 0 || perRow < 1 {
		return ""
	}

	cardWidth := totalWidth/perRow - 4
	if cardWidth < 12 {
		cardWidth = 12
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}

		rendered := make([]string, 0, end-i)
		for _, c := range cards[i:end] {
			rendered = append(rendered, c.Render(cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
