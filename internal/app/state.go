// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/db"
	"github.com/r-santel/ccpulse-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial   bool
	Dashboard bool
	Health    bool
	Sessions  bool
	Insights  bool
}

// State is the shared application state read by every tab.
type State struct {
	mu sync.RWMutex

	TimeRange models.TimeRange
	Dashboard *models.DashboardMetrics
	Snapshot  *db.UsageSnapshot
	Health    *models.HealthMetrics
	Sessions  *models.SessionsData
	Insights  *models.InsightsData
	Local     *models.LocalStats
	Metrics   []string
	Connected bool

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates application state with the default time range selected.
func NewState() *State {
	return &State{
		TimeRange:     models.Range1h,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "dashboard":
		s.Loading.Dashboard = loading
	case "health":
		s.Loading.Health = loading
	case "sessions":
		s.Loading.Sessions = loading
	case "insights":
		s.Loading.Insights = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Dashboard ||
		s.Loading.Health ||
		s.Loading.Sessions ||
		s.Loading.Insights
}

// IsInitialLoading reports whether the first data load is still in flight.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetTimeRange returns the selected dashboard time range.
func (s *State) GetTimeRange() models.TimeRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TimeRange
}

// SetTimeRange selects a new dashboard time range.
func (s *State) SetTimeRange(tr models.TimeRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TimeRange = tr
}

// SetDashboard stores fresh dashboard metrics and clears any stale snapshot.
func (s *State) SetDashboard(m *models.DashboardMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dashboard = m
	s.Snapshot = nil
	s.LastUpdated = time.Now()
}

// GetDashboard returns the latest dashboard metrics.
func (s *State) GetDashboard() *models.DashboardMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Dashboard
}

// SetSnapshot stores last-known totals used while the server is unreachable.
func (s *State) SetSnapshot(snap *db.UsageSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Snapshot = snap
}

// GetSnapshot returns the stored offline snapshot, if any.
func (s *State) GetSnapshot() *db.UsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Snapshot
}

// SetHealth stores server health metrics.
func (s *State) SetHealth(m *models.HealthMetrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Health = m
	s.Connected = m != nil && m.IsReady
}

// GetHealth returns the latest health metrics.
func (s *State) GetHealth() *models.HealthMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Health
}

// SetSessions stores the sessions view data.
func (s *State) SetSessions(d *models.SessionsData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sessions = d
}

// GetSessions returns the latest sessions data.
func (s *State) GetSessions() *models.SessionsData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Sessions
}

// SetInsights stores the insights view data.
func (s *State) SetInsights(d *models.InsightsData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Insights = d
}

// GetInsights returns the latest insights data.
func (s *State) GetInsights() *models.InsightsData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Insights
}

// SetLocalStats stores lifetime stats from the local cache.
func (s *State) SetLocalStats(l *models.LocalStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Local = l
}

// GetLocalStats returns the latest lifetime stats.
func (s *State) GetLocalStats() *models.LocalStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Local
}

// SetMetricNames stores discovered metric names.
func (s *State) SetMetricNames(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metrics = names
}

// GetMetricNames returns discovered metric names.
func (s *State) GetMetricNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.Metrics))
	copy(names, s.Metrics)
	return names
}

// SetConnected records the server connection flag.
func (s *State) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Connected = connected
}

// IsConnected reports the server connection flag.
func (s *State) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Connected
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time dashboard data arrived.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
