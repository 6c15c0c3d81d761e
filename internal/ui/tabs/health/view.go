package health

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/ui/components"
	"github.com/r-santel/ccpulse-tui/internal/ui/styles"
)

// View renders the health tab.
func (m *Model) View() string {
	h := m.state.GetHealth()
	if m.state.IsInitialLoading() && h == nil {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderTitle(h))

	if h == nil {
		sections = append(sections, styles.HelpStyle.Render("No health data yet. Press r to refresh."))
	} else {
		sections = append(sections, m.renderStatus(h))
		sections = append(sections, m.renderStorage(h))
		sections = append(sections, m.renderRuntime(h))
		sections = append(sections, m.renderIngestion(h))
		sections = append(sections, m.renderSparklines(h))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(h *models.HealthMetrics) string {
	title := styles.TitleStyle.Render("Server Health")

	status := styles.DisconnectedStyle.Render("● unreachable")
	if h != nil && h.IsReady {
		status = styles.ConnectedStyle.Render("● ready")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, status, "")
}

func (m *Model) renderStatus(h *models.HealthMetrics) string {
	cardWidth := max(m.width-6, 40)

	version := h.Version
	if version == "" {
		version = "unknown"
	}

	reload := styles.SuccessTextStyle.Render("ok")
	if !h.ConfigReloadSuccess {
		reload = styles.ErrorTextStyle.Render("failed")
	}
	if h.ConfigReloadTimestamp > 0 {
		reload += styles.HelpStyle.Render(
			"  (" + time.Unix(int64(h.ConfigReloadTimestamp), 0).Format("2006-01-02 15:04") + ")")
	}

	rows := []string{
		styles.CardTitleStyle.Render("Status"),
		fmt.Sprintf("  Version        %s", version),
		fmt.Sprintf("  Go             %s", orDash(h.GoVersion)),
		fmt.Sprintf("  Uptime         %s", components.FormatDuration(time.Duration(h.UptimeSeconds)*time.Second)),
		fmt.Sprintf("  Config reload  %s", reload),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStorage(h *models.HealthMetrics) string {
	cardWidth := max(m.width-6, 40)

	retention := "unlimited"
	if h.StorageRetentionLimitBytes > 0 {
		retention = components.FormatBytes(h.StorageRetentionLimitBytes)
	}
	if h.StorageRetentionLimitSecs > 0 {
		retention += ", " + components.FormatDuration(time.Duration(h.StorageRetentionLimitSecs)*time.Second)
	}

	span := "-"
	if h.OldestTimestampSeconds > 0 && h.NewestTimestampSeconds > h.OldestTimestampSeconds {
		span = components.FormatDuration(
			time.Duration(h.NewestTimestampSeconds-h.OldestTimestampSeconds) * time.Second)
	}

	rows := []string{
		styles.CardTitleStyle.Render("Storage"),
		fmt.Sprintf("  Blocks       %s (%.0f loaded)", components.FormatBytes(h.StorageBlocksBytes), h.BlocksLoaded),
		fmt.Sprintf("  WAL          %s", components.FormatBytes(h.StorageWALBytes)),
		fmt.Sprintf("  Total        %s", components.FormatBytes(h.StorageTotalBytes)),
		fmt.Sprintf("  Head series  %s", components.FormatCount(h.HeadSeries)),
		fmt.Sprintf("  Data span    %s", span),
		fmt.Sprintf("  Retention    %s", retention),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRuntime(h *models.HealthMetrics) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{
		styles.CardTitleStyle.Render("Runtime"),
		fmt.Sprintf("  Process memory  %s", components.FormatBytes(h.ProcessMemoryBytes)),
		fmt.Sprintf("  Heap in use     %s (alloc %s)",
			components.FormatBytes(h.HeapInuseBytes), components.FormatBytes(h.HeapAllocBytes)),
		fmt.Sprintf("  Goroutines      %.0f", h.Goroutines),
		fmt.Sprintf("  CPU             %.1f%%", h.CPUSecondsRate*100),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderIngestion(h *models.HealthMetrics) string {
	cardWidth := max(m.width-6, 40)

	compactions := styles.SuccessTextStyle.Render(
		fmt.Sprintf("%.0f ok", h.CompactionsTotal-h.CompactionsFailed))
	if h.CompactionsFailed > 0 {
		compactions += " " + styles.ErrorTextStyle.Render(fmt.Sprintf("%.0f failed", h.CompactionsFailed))
	}

	wal := styles.SuccessTextStyle.Render("none")
	if h.WALCorruptions > 0 {
		wal = styles.ErrorTextStyle.Render(fmt.Sprintf("%.0f", h.WALCorruptions))
	}

	rows := []string{
		styles.CardTitleStyle.Render("Ingestion"),
		fmt.Sprintf("  Samples/s        %s", components.FormatCount(h.SamplesAppendedRate)),
		fmt.Sprintf("  New series/s     %.2f", h.SeriesCreatedRate),
		fmt.Sprintf("  Targets          %.0f", h.TargetCount),
		fmt.Sprintf("  Scrape duration  %.0fms avg", h.ScrapeDurationSeconds*1000),
		fmt.Sprintf("  Scrape samples   %s", components.FormatCount(h.ScrapeSamples)),
		fmt.Sprintf("  Compactions      %s", compactions),
		fmt.Sprintf("  WAL corruptions  %s", wal),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSparklines(h *models.HealthMetrics) string {
	cardWidth := max(m.width-6, 40)
	sparkWidth := max(cardWidth-24, 20)

	rows := []string{styles.CardTitleStyle.Render("Trends")}
	rows = append(rows, sparkRow("Storage", h.StorageOverTime, sparkWidth))
	rows = append(rows, sparkRow("Memory", h.MemoryOverTime, sparkWidth))
	rows = append(rows, sparkRow("Samples/s", h.SamplesRateOverTime, sparkWidth))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func sparkRow(label string, points []models.TimeSeriesPoint, width int) string {
	if len(points) == 0 {
		return fmt.Sprintf("  %-10s %s", label, styles.HelpStyle.Render("no data"))
	}
	return fmt.Sprintf("  %-10s %s", label,
		components.RenderSparkline(components.SeriesValues(points), width))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
