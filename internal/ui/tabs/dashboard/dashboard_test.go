package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/db"
	"github.com/r-santel/ccpulse-tui/internal/models"
)

var snapshotFixture = db.UsageSnapshot{
	CapturedAt:   time.Now().Add(-2 * time.Minute),
	TimeRange:    "1h",
	TotalTokens:  2_000_000,
	TotalCostUSD: 8.50,
	SessionCount: 3,
}

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state, 10.0)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	m := New(state, 0)
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_View_Loading(t *testing.T) {
	state := app.NewState()
	m := New(state, 0)
	m.SetSize(80, 24)

	// Initial load with no data shows the spinner placeholder.
	if view := m.View(); view == "" {
		t.Error("View returned empty string")
	}
}

func TestModel_View_WithMetrics(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetDashboard(&models.DashboardMetrics{
		TotalTokens:      1_500_000,
		TotalCostUSD:     12.34,
		SessionCount:     7,
		LinesAdded:       420,
		LinesRemoved:     37,
		CommitCount:      5,
		PullRequestCount: 1,
		InputTokens:      500_000,
		OutputTokens:     250_000,
		TokensByModel: []models.ModelTokens{
			{Model: "claude-sonnet-4-5", Tokens: 1_200_000},
			{Model: "claude-haiku-4-5", Tokens: 300_000},
		},
	})

	m := New(state, 0)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "1.5M") {
		t.Errorf("View should contain formatted token total, got:\n%s", view)
	}
	if !strings.Contains(view, "$12.34") {
		t.Error("View should contain the cost figure")
	}
	if !strings.Contains(view, "claude-sonnet-4-5") {
		t.Error("View should contain per-model breakdown")
	}
}

func TestModel_View_Snapshot(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetSnapshot(&snapshotFixture)

	m := New(state, 0)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "Server unreachable") {
		t.Error("View should show the offline banner when only a snapshot is available")
	}
	if !strings.Contains(view, "2.0M") {
		t.Error("View should show stored token totals")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), 0)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
