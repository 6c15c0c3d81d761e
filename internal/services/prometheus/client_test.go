package prometheus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/query" {
			t.Errorf("path = %q, want /api/v1/query", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "sum(increase(claude_code_cost_usage_USD_total[1h]))" {
			t.Errorf("query param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"resultType": "vector",
				"result": [
					{"metric": {}, "value": [1700000000.123, "4.25"]}
				]
			}
		}`))
	}))
	defer server.Close()

	client := New(server.URL)
	results, err := client.Query(context.Background(), "sum(increase(claude_code_cost_usage_USD_total[1h]))")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Query() returned %d results, want 1", len(results))
	}
	if got := results[0].FirstValue(); got != 4.25 {
		t.Errorf("FirstValue() = %v, want 4.25", got)
	}
}

func TestQuery_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"vector","result":[]}}`))
	}))
	defer server.Close()

	results, err := New(server.URL).Query(context.Background(), "up")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Query() returned %d results, want 0", len(results))
	}
}

func TestQuery_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","data":{}}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Query(context.Background(), "up")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Query() error = %v, want ErrInvalidResponse", err)
	}
}

func TestQuery_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(server.URL).Query(context.Background(), "up")
	if !errors.Is(err, ErrParse) {
		t.Errorf("Query() error = %v, want ErrParse", err)
	}
}

func TestQuery_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := New(server.URL).Query(context.Background(), "up")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Query() error = %v, want ErrTransport", err)
	}
}

func TestQueryRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/v1/query_range" {
			t.Errorf("path = %q, want /api/v1/query_range", r.URL.Path)
		}
		if q.Get("start") != "1700000000" || q.Get("end") != "1700003600" || q.Get("step") != "1m" {
			t.Errorf("range params = start:%q end:%q step:%q", q.Get("start"), q.Get("end"), q.Get("step"))
		}
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"resultType": "matrix",
				"result": [
					{"metric": {"model": "claude-sonnet"}, "values": [[1700000000, "1"], [1700000060, "not-a-number"], [1700000120, "3"]]}
				]
			}
		}`))
	}))
	defer server.Close()

	results, err := New(server.URL).QueryRange(context.Background(), "rate(x[5m])", 1700000000, 1700003600, "1m")
	if err != nil {
		t.Fatalf("QueryRange() error = %v", err)
	}
	if len(results) != 1 || len(results[0].Values) != 3 {
		t.Fatalf("QueryRange() shape = %d results", len(results))
	}
	if model, ok := results[0].Label("model"); !ok || model != "claude-sonnet" {
		t.Errorf("Label(model) = %q, %v", model, ok)
	}
	// Unparsable sample values default to zero instead of failing the query.
	wants := []float64{1, 0, 3}
	for i, want := range wants {
		if got := results[0].Values[i].Float(); got != want {
			t.Errorf("Values[%d].Float() = %v, want %v", i, got, want)
		}
	}
}

func TestTestConnection(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"Healthy", http.StatusOK, true},
		{"ServerError", http.StatusInternalServerError, false},
		{"NotFound", http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/-/healthy" {
					t.Errorf("path = %q, want /-/healthy", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			if got := New(server.URL).TestConnection(context.Background()); got != tt.want {
				t.Errorf("TestConnection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTestConnection_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	if New(server.URL).TestConnection(context.Background()) {
		t.Error("TestConnection() = true for unreachable server")
	}
}

func TestDiscoverMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/label/__name__/values" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": [
				"claude_code_cost_usage_USD_total",
				"claude_code_token_usage_tokens_total",
				"go_goroutines",
				"prometheus_build_info"
			]
		}`))
	}))
	defer server.Close()

	names, err := New(server.URL).DiscoverMetrics(context.Background())
	if err != nil {
		t.Fatalf("DiscoverMetrics() error = %v", err)
	}
	want := []string{"claude_code_cost_usage_USD_total", "claude_code_token_usage_tokens_total"}
	if len(names) != len(want) {
		t.Fatalf("DiscoverMetrics() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("DiscoverMetrics()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	if got := New("http://localhost:9090/").BaseURL(); got != "http://localhost:9090" {
		t.Errorf("BaseURL() = %q", got)
	}
}
