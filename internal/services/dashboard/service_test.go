package dashboard

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

// fakeProm serves canned instant-query vectors keyed by expression substring,
// plus a fixed matrix for range queries.
func fakeProm(t *testing.T, fail string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expr := r.URL.Query().Get("query")
		if fail != "" && strings.Contains(expr, fail) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"status":"error"}`))
			return
		}

		if r.URL.Path == "/api/v1/query_range" {
			_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"matrix","result":[
				{"metric":{},"values":[[1700000000,"10.5"],[1700000060,"20"]]}
			]}}`))
			return
		}

		var body string
		switch {
		case strings.Contains(expr, "sum by (type)"):
			body = `[
				{"metric":{"type":"input"},"value":[1700000000,"1000"]},
				{"metric":{"type":"output"},"value":[1700000000,"2000"]},
				{"metric":{"type":"cacheRead"},"value":[1700000000,"300"]},
				{"metric":{"type":"cache_read"},"value":[1700000000,"50"]},
				{"metric":{"type":"cacheCreation"},"value":[1700000000,"400"]}
			]`
		case strings.Contains(expr, "sum by (model)"):
			body = `[
				{"metric":{"model":"claude-sonnet"},"value":[1700000000,"900"]},
				{"metric":{"model":"claude-haiku"},"value":[1700000000,"2100"]},
				{"metric":{"model":"claude-opus"},"value":[1700000000,"garbled"]},
				{"metric":{},"value":[1700000000,"5"]}
			]`
		case strings.Contains(expr, "token_usage"):
			body = `[{"metric":{},"value":[1700000000,"3750"]}]`
		case strings.Contains(expr, "cost_usage"):
			body = `[{"metric":{},"value":[1700000000,"12.34"]}]`
		case strings.Contains(expr, "active_time"):
			body = `[{"metric":{},"value":[1700000000,"5400"]}]`
		case strings.Contains(expr, "session_count"):
			body = `[{"metric":{},"value":[1700000000,"7"]}]`
		case strings.Contains(expr, `type="added"`):
			body = `[{"metric":{},"value":[1700000000,"150"]}]`
		case strings.Contains(expr, `type="removed"`):
			body = `[{"metric":{},"value":[1700000000,"-2"]}]`
		case strings.Contains(expr, "commit_count"):
			body = `[{"metric":{},"value":[1700000000,"3"]}]`
		case strings.Contains(expr, "pull_request"):
			body = `[]`
		default:
			body = `[]`
		}
		_, _ = fmt.Fprintf(w, `{"status":"success","data":{"resultType":"vector","result":%s}}`, body)
	}))
}

func TestFetch(t *testing.T) {
	server := fakeProm(t, "")
	defer server.Close()

	svc := NewService(prometheus.New(server.URL))
	m, err := svc.Fetch(context.Background(), models.Range1h)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if m.TotalCostUSD != 12.34 {
		t.Errorf("TotalCostUSD = %v, want 12.34", m.TotalCostUSD)
	}
	if m.ActiveTimeSeconds != 5400 {
		t.Errorf("ActiveTimeSeconds = %v, want 5400", m.ActiveTimeSeconds)
	}
	if m.SessionCount != 7 {
		t.Errorf("SessionCount = %v, want 7", m.SessionCount)
	}
	if m.LinesAdded != 150 {
		t.Errorf("LinesAdded = %v, want 150", m.LinesAdded)
	}
	// Negative extrapolation artifacts clamp to zero.
	if m.LinesRemoved != 0 {
		t.Errorf("LinesRemoved = %v, want 0", m.LinesRemoved)
	}
	// Absent metric reads as zero, not as an error.
	if m.PullRequestCount != 0 {
		t.Errorf("PullRequestCount = %v, want 0", m.PullRequestCount)
	}

	if m.InputTokens != 1000 || m.OutputTokens != 2000 {
		t.Errorf("token breakdown = in:%d out:%d", m.InputTokens, m.OutputTokens)
	}
	// Both label spellings of cache reads fold together.
	if m.CacheReadTokens != 350 {
		t.Errorf("CacheReadTokens = %v, want 350", m.CacheReadTokens)
	}
	if m.CacheCreationTokens != 400 {
		t.Errorf("CacheCreationTokens = %v, want 400", m.CacheCreationTokens)
	}

	// Model-less and unparsable rows drop; remainder sorts by volume descending.
	if len(m.TokensByModel) != 2 {
		t.Fatalf("TokensByModel = %v", m.TokensByModel)
	}
	if m.TokensByModel[0].Model != "claude-haiku" || m.TokensByModel[0].Tokens != 2100 {
		t.Errorf("TokensByModel[0] = %+v", m.TokensByModel[0])
	}
	for _, mt := range m.TokensByModel {
		if mt.Model == "claude-opus" {
			t.Errorf("row with unparsable value should be dropped, got %+v", mt)
		}
	}

	if len(m.TokensOverTime) != 2 || m.TokensOverTime[0].Value != 10.5 {
		t.Errorf("TokensOverTime = %+v", m.TokensOverTime)
	}
}

func TestFetch_FailFast(t *testing.T) {
	server := fakeProm(t, "cost_usage")
	defer server.Close()

	svc := NewService(prometheus.New(server.URL))
	if _, err := svc.Fetch(context.Background(), models.Range15m); err == nil {
		t.Fatal("Fetch() expected error when one query fails")
	}
}

func TestFetchCustom(t *testing.T) {
	server := fakeProm(t, "")
	defer server.Close()

	svc := NewService(prometheus.New(server.URL))
	m, err := svc.FetchCustom(context.Background(), 1700000000, 1700086400)
	if err != nil {
		t.Fatalf("FetchCustom() error = %v", err)
	}
	if m.TotalTokens != 3750 {
		t.Errorf("TotalTokens = %v, want 3750", m.TotalTokens)
	}
}

func TestFetchCustom_InvalidBounds(t *testing.T) {
	svc := NewService(prometheus.New("http://localhost:1"))
	tests := []struct {
		name       string
		start, end int64
	}{
		{"MissingStart", 0, 1700000000},
		{"Inverted", 1700086400, 1700000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.FetchCustom(context.Background(), tt.start, tt.end); err == nil {
				t.Error("FetchCustom() expected bounds error")
			}
		})
	}
}
