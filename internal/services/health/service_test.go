package health

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services/prometheus"
)

func fakeServer(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/-/healthy":
			if !healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		case "/api/v1/query":
			expr := r.URL.Query().Get("query")
			var body string
			switch {
			case expr == "prometheus_build_info":
				body = `[{"metric":{"version":"2.53.0","goversion":"go1.22.4"},"value":[1700000000,"1"]}]`
			case strings.Contains(expr, "process_start_time_seconds"):
				body = `[{"metric":{},"value":[1700000000,"93784"]}]`
			case expr == "prometheus_tsdb_storage_blocks_bytes":
				body = `[{"metric":{},"value":[1700000000,"1048576"]}]`
			case expr == "prometheus_tsdb_wal_storage_size_bytes":
				body = `[{"metric":{},"value":[1700000000,"524288"]}]`
			case expr == "prometheus_tsdb_head_series":
				// A failing individual query must not break the fetch.
				w.WriteHeader(http.StatusInternalServerError)
				return
			case expr == "prometheus_config_last_reload_successful":
				body = `[{"metric":{},"value":[1700000000,"1"]}]`
			case expr == "go_goroutines":
				body = `[{"metric":{},"value":[1700000000,"42"]}]`
			default:
				body = `[]`
			}
			_, _ = fmt.Fprintf(w, `{"status":"success","data":{"resultType":"vector","result":%s}}`, body)
		case "/api/v1/query_range":
			_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"matrix","result":[
				{"metric":{},"values":[[1700000000,"100"],[1700000900,"200"]]}
			]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetch_BestEffort(t *testing.T) {
	server := fakeServer(t, true)
	defer server.Close()

	m := NewService(prometheus.New(server.URL)).Fetch(context.Background(), models.Range1h)

	if !m.IsReady {
		t.Error("IsReady = false, want true")
	}
	if m.Version != "2.53.0" || m.GoVersion != "go1.22.4" {
		t.Errorf("build info = %q/%q", m.Version, m.GoVersion)
	}
	if m.UptimeSeconds != 93784 {
		t.Errorf("UptimeSeconds = %v, want 93784", m.UptimeSeconds)
	}
	if m.StorageTotalBytes != 1048576+524288 {
		t.Errorf("StorageTotalBytes = %v", m.StorageTotalBytes)
	}
	// Failed query degrades to zero instead of aborting.
	if m.HeadSeries != 0 {
		t.Errorf("HeadSeries = %v, want 0", m.HeadSeries)
	}
	if m.Goroutines != 42 {
		t.Errorf("Goroutines = %v, want 42", m.Goroutines)
	}
	if !m.ConfigReloadSuccess {
		t.Error("ConfigReloadSuccess = false, want true")
	}
	if len(m.StorageOverTime) != 2 || m.StorageOverTime[1].Value != 200 {
		t.Errorf("StorageOverTime = %+v", m.StorageOverTime)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	server := fakeServer(t, true)
	server.Close()

	m := NewService(prometheus.New(server.URL)).Fetch(context.Background(), models.Range15m)
	if m.IsReady {
		t.Error("IsReady = true for unreachable server")
	}
	if m.UptimeSeconds != 0 || len(m.MemoryOverTime) != 0 {
		t.Error("expected zero-valued metrics for unreachable server")
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		m    models.HealthMetrics
		want string
	}{
		{"Down", models.HealthMetrics{}, "server unreachable"},
		{
			"UpDays",
			models.HealthMetrics{IsReady: true, UptimeSeconds: 90000, HeadSeries: 1500},
			"up 1d1h, 1.5K head series",
		},
		{
			"UpMinutes",
			models.HealthMetrics{IsReady: true, UptimeSeconds: 300, HeadSeries: 12},
			"up 5m, 12 head series",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(&tt.m); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
