package app

import (
	"testing"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/db"
	"github.com/r-santel/ccpulse-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s.GetTimeRange() != models.Range1h {
		t.Errorf("default range = %v, want 1h", s.GetTimeRange())
	}
	if !s.IsInitialLoading() {
		t.Error("new state should start in initial loading")
	}
}

func TestState_Dashboard_ClearsSnapshot(t *testing.T) {
	s := NewState()
	s.SetSnapshot(&db.UsageSnapshot{TimeRange: "1h", TotalTokens: 100})

	if s.GetSnapshot() == nil {
		t.Fatal("snapshot should be stored")
	}

	s.SetDashboard(&models.DashboardMetrics{TotalTokens: 200})
	if s.GetSnapshot() != nil {
		t.Error("fresh dashboard data should clear the offline snapshot")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("SetDashboard should stamp LastUpdated")
	}
}

func TestState_SetHealth_UpdatesConnected(t *testing.T) {
	s := NewState()

	s.SetHealth(&models.HealthMetrics{IsReady: true})
	if !s.IsConnected() {
		t.Error("ready health record should mark connected")
	}

	s.SetHealth(&models.HealthMetrics{IsReady: false})
	if s.IsConnected() {
		t.Error("unready health record should mark disconnected")
	}
}

func TestState_Loading(t *testing.T) {
	s := NewState()
	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("nothing should be loading")
	}

	s.SetLoading("sessions", true)
	if !s.AnyLoading() {
		t.Error("sessions loading should count")
	}
	s.SetLoading("sessions", false)
	if s.AnyLoading() {
		t.Error("loading flag should clear")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "hello", time.Minute)
	if id == "" {
		t.Fatal("AddNotification returned empty ID")
	}
	if len(s.GetNotifications()) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(s.GetNotifications()))
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()
	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}
	if got := len(s.GetNotifications()); got != 10 {
		t.Errorf("notifications capped at 10, got %d", got)
	}
}

func TestState_ExpiredNotifications(t *testing.T) {
	s := NewState()
	s.AddNotification(NotificationInfo, "short", time.Nanosecond)
	time.Sleep(time.Millisecond)

	if len(s.GetNotifications()) != 0 {
		t.Error("expired notification should not be returned")
	}

	s.ClearExpiredNotifications()
	s.mu.RLock()
	remaining := len(s.notifications)
	s.mu.RUnlock()
	if remaining != 0 {
		t.Error("ClearExpiredNotifications should drop expired entries")
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Still loading...")

	notifications := s.GetNotifications()
	if len(notifications) != 1 {
		t.Fatalf("expected single loading notification, got %d", len(notifications))
	}
	if notifications[0].Message != "Still loading..." {
		t.Errorf("message = %q, want updated text", notifications[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestState_MetricNamesCopy(t *testing.T) {
	s := NewState()
	s.SetMetricNames([]string{"a", "b"})

	names := s.GetMetricNames()
	names[0] = "mutated"

	if s.GetMetricNames()[0] != "a" {
		t.Error("GetMetricNames should return a copy")
	}
}
