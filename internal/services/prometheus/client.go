// Package prometheus implements a minimal client for the Prometheus HTTP API:
// instant queries, range queries, a health probe and metric-name discovery.
// Each call is a single best-effort attempt; there is no retry or backoff.
package prometheus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/logger"
)

// MetricPrefix is the namespace of the metrics this application cares about.
// DiscoverMetrics filters the server's metric universe down to it.
const MetricPrefix = "claude_code_"

const defaultTimeout = 30 * time.Second

// Sample is a single (timestamp, value) pair. Values arrive as numeric
// strings; Float defaults to 0 when the string is unparsable.
type Sample struct {
	Timestamp float64
	Value     string
}

// Float returns the sample value, defaulting to 0 on parse failure. Sparse or
// missing metrics are expected and must not surface as errors.
func (s Sample) Float() float64 {
	f, err := strconv.ParseFloat(s.Value, 64)
	if err != nil {
		return 0
	}
	return f
}

// UnmarshalJSON decodes the wire form [ts, "value"].
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &s.Timestamp); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &s.Value)
}

// Result is one series in a query response: a label set plus either a single
// sample (instant query) or an ordered sample sequence (range query).
type Result struct {
	Metric map[string]string `json:"metric"`
	Value  *Sample           `json:"value,omitempty"`
	Values []Sample          `json:"values,omitempty"`
}

// FirstValue returns the instant-query value of the result, 0 when absent or
// unparsable.
func (r *Result) FirstValue() float64 {
	if r.Value == nil {
		return 0
	}
	return r.Value.Float()
}

// Label returns a label value and whether it was present.
func (r *Result) Label(name string) (string, bool) {
	v, ok := r.Metric[name]
	return v, ok
}

type queryResponse struct {
	Status string    `json:"status"`
	Data   queryData `json:"data"`
}

type queryData struct {
	ResultType string   `json:"resultType"`
	Result     []Result `json:"result"`
}

// Client issues queries against a single Prometheus-compatible base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query runs an instant query and returns the matched series.
func (c *Client) Query(ctx context.Context, expr string) ([]Result, error) {
	params := url.Values{}
	params.Set("query", expr)
	return c.doQuery(ctx, "/api/v1/query", params)
}

// QueryRange runs a range query between the epoch-second bounds at the given
// step literal (e.g. "1m", "900s").
func (c *Client) QueryRange(ctx context.Context, expr string, start, end int64, step string) ([]Result, error) {
	params := url.Values{}
	params.Set("query", expr)
	params.Set("start", strconv.FormatInt(start, 10))
	params.Set("end", strconv.FormatInt(end, 10))
	params.Set("step", step)
	return c.doQuery(ctx, "/api/v1/query_range", params)
}

func (c *Client) doQuery(ctx context.Context, path string, params url.Values) ([]Result, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(err)
	}
	if resp.Status != "success" {
		return nil, invalidResponseErr(resp.Status)
	}
	return resp.Data.Result, nil
}

// TestConnection probes the server's health endpoint. Any failure collapses
// to false; this call never returns an error to its caller's caller.
func (c *Client) TestConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/-/healthy", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer closeBody(resp.Body)
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// DiscoverMetrics returns the server's metric names filtered to MetricPrefix.
func (c *Client) DiscoverMetrics(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/label/__name__/values", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Status string   `json:"status"`
		Data   []string `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseErr(err)
	}
	if resp.Status != "success" {
		return nil, invalidResponseErr(resp.Status)
	}

	var names []string
	for _, name := range resp.Data {
		if strings.HasPrefix(name, MetricPrefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, transportErr(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr(err)
	}
	defer closeBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr(err)
	}
	return body, nil
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}
