package app

import (
	"time"

	"github.com/r-santel/ccpulse-tui/internal/db"
	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services"
)

// TickMsg is sent periodically to trigger state housekeeping.
type TickMsg struct {
	Time time.Time
}

// AutoRefreshMsg is sent on the configured refresh interval.
type AutoRefreshMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// DashboardLoadedMsg carries the result of a dashboard fetch. When the fetch
// failed, Snapshot may hold the last stored totals for offline display.
type DashboardLoadedMsg struct {
	Range    models.TimeRange
	Metrics  *models.DashboardMetrics
	Snapshot *db.UsageSnapshot
	Error    error
}

// HealthLoadedMsg carries a completed health fetch.
type HealthLoadedMsg struct {
	Range   models.TimeRange
	Metrics *models.HealthMetrics
}

// SessionsLoadedMsg carries the result of a sessions fetch.
type SessionsLoadedMsg struct {
	Window string
	Data   *models.SessionsData
	Error  error
}

// InsightsLoadedMsg carries the result of an insights computation.
type InsightsLoadedMsg struct {
	Period string
	Data   *models.InsightsData
	Error  error
}

// LocalStatsLoadedMsg carries lifetime stats from the local cache.
type LocalStatsLoadedMsg struct {
	Stats *models.LocalStats
	Error error
}

// MetricsDiscoveredMsg carries the recorder metric names found on the server.
type MetricsDiscoveredMsg struct {
	Names []string
	Error error
}

// ConnectionCheckedMsg carries the result of a connection probe.
type ConnectionCheckedMsg struct {
	Connected bool
}

// RangeChangedMsg signals that the selected time range changed.
type RangeChangedMsg struct {
	Range models.TimeRange
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "dashboard", "health", "sessions", "insights"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
