package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between housekeeping ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// autoRefreshCmd schedules the next auto-refresh per the configured interval.
func autoRefreshCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AutoRefreshMsg{Time: t}
	})
}

// loadInitialData returns a command that loads all initial data.
func loadInitialData(mgr *services.Manager, tr models.TimeRange) tea.Cmd {
	return tea.Batch(
		loadDashboardCmd(mgr, tr),
		loadHealthCmd(mgr, tr),
		loadSessionsCmd(mgr, "24h"),
		loadInsightsCmd(mgr, "7d"),
		loadLocalStatsCmd(mgr),
		discoverMetricsCmd(mgr),
	)
}

// loadDashboardCmd fetches dashboard metrics; on failure it falls back to the
// most recent stored snapshot so the view can show last-known totals.
func loadDashboardCmd(mgr *services.Manager, tr models.TimeRange) tea.Cmd {
	return func() tea.Msg {
		metrics, err := mgr.FetchDashboard(context.Background(), tr)
		if err != nil {
			snap, snapErr := mgr.LastSnapshot(context.Background(), tr)
			if snapErr != nil {
				snap = nil
			}
			return DashboardLoadedMsg{Range: tr, Snapshot: snap, Error: err}
		}
		return DashboardLoadedMsg{Range: tr, Metrics: metrics}
	}
}

// loadHealthCmd fetches server health metrics.
func loadHealthCmd(mgr *services.Manager, tr models.TimeRange) tea.Cmd {
	return func() tea.Msg {
		metrics := mgr.FetchHealth(context.Background(), tr)
		return HealthLoadedMsg{Range: tr, Metrics: metrics}
	}
}

// loadSessionsCmd fetches session data for a window token.
func loadSessionsCmd(mgr *services.Manager, windowToken string) tea.Cmd {
	return func() tea.Msg {
		data, err := mgr.FetchSessions(context.Background(), windowToken)
		return SessionsLoadedMsg{Window: windowToken, Data: data, Error: err}
	}
}

// loadInsightsCmd computes trend insights for a period token.
func loadInsightsCmd(mgr *services.Manager, period string) tea.Cmd {
	return func() tea.Msg {
		data, err := mgr.FetchInsights(period)
		return InsightsLoadedMsg{Period: period, Data: data, Error: err}
	}
}

// loadLocalStatsCmd loads lifetime stats from the local cache.
func loadLocalStatsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		stats, err := mgr.FetchLocalStats()
		return LocalStatsLoadedMsg{Stats: stats, Error: err}
	}
}

// discoverMetricsCmd lists recorder metrics present on the server.
func discoverMetricsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		names, err := mgr.DiscoverMetrics(context.Background())
		return MetricsDiscoveredMsg{Names: names, Error: err}
	}
}

// testConnectionCmd probes the metrics server.
func testConnectionCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return ConnectionCheckedMsg{Connected: mgr.TestConnection(context.Background())}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// LoadDashboard returns a command that fetches dashboard metrics.
func (c *Commands) LoadDashboard(tr models.TimeRange) tea.Cmd {
	return loadDashboardCmd(c.manager, tr)
}

// LoadHealth returns a command that fetches server health.
func (c *Commands) LoadHealth(tr models.TimeRange) tea.Cmd {
	return loadHealthCmd(c.manager, tr)
}

// LoadSessions returns a command that fetches session data.
func (c *Commands) LoadSessions(windowToken string) tea.Cmd {
	return loadSessionsCmd(c.manager, windowToken)
}

// LoadInsights returns a command that computes insights for a period.
func (c *Commands) LoadInsights(period string) tea.Cmd {
	return loadInsightsCmd(c.manager, period)
}

// LoadLocalStats returns a command that loads lifetime local stats.
func (c *Commands) LoadLocalStats() tea.Cmd {
	return loadLocalStatsCmd(c.manager)
}

// DiscoverMetrics returns a command that lists recorder metrics.
func (c *Commands) DiscoverMetrics() tea.Cmd {
	return discoverMetricsCmd(c.manager)
}

// TestConnection returns a command that probes the server.
func (c *Commands) TestConnection() tea.Cmd {
	return testConnectionCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
