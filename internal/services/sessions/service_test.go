package sessions

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/services/prometheus"
)

func writeHistory(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadHistory_Folding(t *testing.T) {
	path := writeHistory(t,
		`{"timestamp":1700000000,"project":"/home/dev/api","session_id":"s1"}`,
		`{"timestamp":1700000300,"project":"/home/dev/api","session_id":"s1"}`,
		`not valid json at all`,
		`{"timestamp":1700000100,"project":"/home/dev/web","session_id":"s2"}`,
		`{"timestamp":1700000200,"project":"/moved/elsewhere","session_id":"s1"}`,
		`{"timestamp":1700000400,"project":"/home/dev/api"}`,
	)

	svc := NewService(prometheus.New("http://localhost:1"), path)
	sessions, err := svc.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("LoadHistory() = %d sessions, want 2", len(sessions))
	}

	s1 := sessions[0]
	if s1.SessionID != "s1" {
		t.Fatalf("first session = %q, want s1", s1.SessionID)
	}
	// Three valid s1 lines, project keeps the first seen, timestamp keeps the max.
	if s1.MessageCount != 3 {
		t.Errorf("s1 MessageCount = %d, want 3", s1.MessageCount)
	}
	if s1.Project != "/home/dev/api" {
		t.Errorf("s1 Project = %q, want first-seen value", s1.Project)
	}
	if want := time.Unix(1700000300, 0); !s1.LastActivity.Equal(want) {
		t.Errorf("s1 LastActivity = %v, want %v", s1.LastActivity, want)
	}
	if sessions[1].MessageCount != 1 {
		t.Errorf("s2 MessageCount = %d, want 1", sessions[1].MessageCount)
	}
}

func TestLoadHistory_Missing(t *testing.T) {
	svc := NewService(prometheus.New("http://localhost:1"), filepath.Join(t.TempDir(), "absent.jsonl"))
	sessions, err := svc.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("LoadHistory() = %d sessions, want 0", len(sessions))
	}
}

func enrichServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expr := r.URL.Query().Get("query")
		var body string
		switch {
		case strings.Contains(expr, "session_id, type"):
			body = `[
				{"metric":{"session_id":"s1","type":"input"},"value":[0,"100"]},
				{"metric":{"session_id":"s1","type":"output"},"value":[0,"200"]},
				{"metric":{"session_id":"s1","type":"cacheRead"},"value":[0,"30"]},
				{"metric":{"session_id":"s1","type":"cache_read"},"value":[0,"10"]}
			]`
		case strings.Contains(expr, "session_id, model"):
			body = `[
				{"metric":{"session_id":"s1","model":"claude-haiku"},"value":[0,"40"]},
				{"metric":{"session_id":"s1","model":"claude-sonnet"},"value":[0,"300"]}
			]`
		case strings.Contains(expr, "cost_usage"):
			body = `[
				{"metric":{"session_id":"s1"},"value":[0,"1.50"]},
				{"metric":{"session_id":"ghost"},"value":[0,"0.75"]},
				{"metric":{"session_id":"zero"},"value":[0,"0"]},
				{"metric":{},"value":[0,"9.99"]}
			]`
		case strings.Contains(expr, "token_usage"):
			body = `[{"metric":{"session_id":"s1"},"value":[0,"340"]}]`
		case strings.Contains(expr, "active_time"):
			body = `[{"metric":{"session_id":"s1"},"value":[0,"1234"]}]`
		default:
			body = `[]`
		}
		_, _ = fmt.Fprintf(w, `{"status":"success","data":{"resultType":"vector","result":%s}}`, body)
	}))
}

func TestLocal_Enriched(t *testing.T) {
	server := enrichServer(t)
	defer server.Close()

	path := writeHistory(t,
		`{"timestamp":1700000000,"project":"/home/dev/api","session_id":"s1"}`,
		`{"timestamp":1700000100,"project":"/home/dev/web","session_id":"s2"}`,
	)
	svc := NewService(prometheus.New(server.URL), path)

	data, err := svc.Local(context.Background(), "24h")
	if err != nil {
		t.Fatalf("Local() error = %v", err)
	}
	// "ghost" exists only remotely; local mode never invents sessions.
	if data.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", data.TotalCount)
	}

	s1 := data.Sessions[0]
	if s1.SessionID != "s1" {
		t.Fatalf("sessions not sorted by cost: first = %q", s1.SessionID)
	}
	if s1.TotalCostUSD != 1.50 || s1.TotalTokens != 340 || s1.ActiveTimeSeconds != 1234 {
		t.Errorf("s1 enrichment = cost:%v tokens:%d time:%v", s1.TotalCostUSD, s1.TotalTokens, s1.ActiveTimeSeconds)
	}
	if s1.InputTokens != 100 || s1.OutputTokens != 200 || s1.CacheReadTokens != 40 {
		t.Errorf("s1 breakdown = in:%d out:%d cacheRead:%d", s1.InputTokens, s1.OutputTokens, s1.CacheReadTokens)
	}
	if len(s1.TokensByModel) != 2 || s1.TokensByModel[0].Model != "claude-sonnet" {
		t.Errorf("s1 TokensByModel = %+v", s1.TokensByModel)
	}

	if len(data.Projects) != 2 || data.Projects[0].Project != "api" {
		t.Errorf("Projects = %+v", data.Projects)
	}
	if data.Projects[0].TotalCostUSD != 1.50 {
		t.Errorf("project cost = %v, want 1.50", data.Projects[0].TotalCostUSD)
	}
}

func TestLocal_ProjectRollupMergesByDisplayName(t *testing.T) {
	path := writeHistory(t,
		`{"timestamp":1700000000,"project":"/home/alice/api","session_id":"s1"}`,
		`{"timestamp":1700000100,"project":"/home/bob/api","session_id":"s2"}`,
		`{"timestamp":1700000200,"project":"/home/bob/web","session_id":"s3"}`,
	)
	svc := NewService(prometheus.New("http://localhost:1"), path)

	data, err := svc.Local(context.Background(), "24h")
	if err != nil {
		t.Fatalf("Local() error = %v", err)
	}
	// Same project under different checkouts rolls up into one row.
	if len(data.Projects) != 2 {
		t.Fatalf("Projects = %+v, want 2 rollups (api, web)", data.Projects)
	}
	byName := make(map[string]int, len(data.Projects))
	for _, p := range data.Projects {
		byName[p.Project] = p.SessionCount
	}
	if byName["api"] != 2 {
		t.Errorf("api rollup = %d sessions, want 2", byName["api"])
	}
	if byName["web"] != 1 {
		t.Errorf("web rollup = %d sessions, want 1", byName["web"])
	}
}

func TestLocal_ServerDown(t *testing.T) {
	path := writeHistory(t,
		`{"timestamp":1700000000,"project":"/home/dev/api","session_id":"s1"}`,
	)
	svc := NewService(prometheus.New("http://localhost:1"), path)

	data, err := svc.Local(context.Background(), "24h")
	if err != nil {
		t.Fatalf("Local() error = %v", err)
	}
	if data.TotalCount != 1 || data.Sessions[0].TotalCostUSD != 0 {
		t.Errorf("expected unenriched local sessions, got %+v", data.Sessions)
	}
}

func TestRemote_SeedsFromCost(t *testing.T) {
	server := enrichServer(t)
	defer server.Close()

	svc := NewService(prometheus.New(server.URL), filepath.Join(t.TempDir(), "absent.jsonl"))
	data, err := svc.Remote(context.Background(), "7d")
	if err != nil {
		t.Fatalf("Remote() error = %v", err)
	}
	// Zero-cost and unlabeled rows never seed a session.
	if data.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2 (s1, ghost)", data.TotalCount)
	}
	if data.Sessions[0].SessionID != "s1" || data.Sessions[1].SessionID != "ghost" {
		t.Errorf("session order = %q, %q", data.Sessions[0].SessionID, data.Sessions[1].SessionID)
	}
	if data.Projects[0].Project != "unknown" {
		t.Errorf("remote project rollup = %+v", data.Projects)
	}
}

func TestRemote_FailFast(t *testing.T) {
	svc := NewService(prometheus.New("http://localhost:1"), "")
	if _, err := svc.Remote(context.Background(), "24h"); err == nil {
		t.Fatal("Remote() expected error when the server is unreachable")
	}
}
