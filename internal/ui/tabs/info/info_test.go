package info

import (
	"strings"
	"testing"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		PrometheusURL:      "http://localhost:9090",
		ClaudeDir:          "/home/dev/.claude",
		DatabasePath:       "/home/dev/.config/ccpulse/snapshots.db",
		PricingProvider:    "anthropic",
		RefreshInterval:    30 * time.Second,
		CostAlertThreshold: 25,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetMetricNames([]string{
		"claude_code_token_usage_tokens_total",
		"claude_code_cost_usage_USD_total",
	})

	m := New(state, testConfig(), nil)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "http://localhost:9090") {
		t.Error("View should show the server URL")
	}
	if !strings.Contains(view, "claude_code_token_usage_tokens_total") {
		t.Error("View should list discovered metrics")
	}
	if !strings.Contains(view, "ccpulse") {
		t.Error("View should show the about card")
	}
}

func TestModel_View_NilConfig(t *testing.T) {
	m := New(app.NewState(), nil, nil)
	m.SetSize(80, 24)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("View should degrade gracefully without config")
	}
}
