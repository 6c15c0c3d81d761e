// Package dashboard aggregates usage metrics for the dashboard view.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services/prometheus"
)

// Service runs the dashboard query battery. The battery is fail-fast: any
// query error aborts the whole fetch so the view never shows a half-populated
// summary. Empty results are not errors; absent metrics read as zero.
type Service struct {
	client *prometheus.Client
}

// NewService creates a dashboard service backed by the given client.
func NewService(client *prometheus.Client) *Service {
	return &Service{client: client}
}

// Fetch gathers dashboard metrics for a symbolic time range.
func (s *Service) Fetch(ctx context.Context, tr models.TimeRange) (*models.DashboardMetrics, error) {
	resolved := tr.Resolve(time.Now())
	step, rateWindow := models.DashboardStep(tr, resolved.Duration())
	return s.fetch(ctx, resolved, step, rateWindow)
}

// FetchCustom gathers dashboard metrics for explicit epoch-second bounds.
func (s *Service) FetchCustom(ctx context.Context, start, end int64) (*models.DashboardMetrics, error) {
	resolved, err := models.ResolveCustom(start, end)
	if err != nil {
		return nil, err
	}
	step, rateWindow := models.DashboardStep(models.RangeCustom, resolved.Duration())
	return s.fetch(ctx, resolved, step, rateWindow)
}

func (s *Service) fetch(ctx context.Context, r models.ResolvedRange, step, rateWindow string) (*models.DashboardMetrics, error) {
	w := r.Window
	m := &models.DashboardMetrics{}

	totals := []struct {
		expr string
		set  func(float64)
	}{
		{
			fmt.Sprintf("sum(increase(claude_code_token_usage_tokens_total[%s]))", w),
			func(v float64) { m.TotalTokens = asUint64(v) },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_cost_usage_USD_total[%s]))", w),
			func(v float64) { m.TotalCostUSD = v },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_active_time_seconds_total[%s]))", w),
			func(v float64) { m.ActiveTimeSeconds = v },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_session_count_total[%s]))", w),
			func(v float64) { m.SessionCount = asUint32(v) },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_lines_of_code_count_total{type=\"added\"}[%s]))", w),
			func(v float64) { m.LinesAdded = asUint64(v) },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_lines_of_code_count_total{type=\"removed\"}[%s]))", w),
			func(v float64) { m.LinesRemoved = asUint64(v) },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_commit_count_total[%s]))", w),
			func(v float64) { m.CommitCount = asUint32(v) },
		},
		{
			fmt.Sprintf("sum(increase(claude_code_pull_request_count_total[%s]))", w),
			func(v float64) { m.PullRequestCount = asUint32(v) },
		},
	}
	for _, q := range totals {
		v, err := s.scalar(ctx, q.expr)
		if err != nil {
			return nil, err
		}
		q.set(v)
	}

	if err := s.tokensByType(ctx, w, m); err != nil {
		return nil, err
	}

	byModel, err := s.tokensByModel(ctx, w)
	if err != nil {
		return nil, err
	}
	m.TokensByModel = byModel

	overTime, err := s.tokensOverTime(ctx, r, step, rateWindow)
	if err != nil {
		return nil, err
	}
	m.TokensOverTime = overTime

	return m, nil
}

// scalar runs an instant query expected to yield at most one sample.
// An empty vector reads as zero.
func (s *Service) scalar(ctx context.Context, expr string) (float64, error) {
	results, err := s.client.Query(ctx, expr)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].FirstValue(), nil
}

// tokensByType fills the token-type breakdown. The recorder has emitted both
// snake_case and camelCase type labels across versions, so both spellings of
// the cache types are accepted.
func (s *Service) tokensByType(ctx context.Context, window string, m *models.DashboardMetrics) error {
	expr := fmt.Sprintf("sum by (type) (increase(claude_code_token_usage_tokens_total[%s]))", window)
	results, err := s.client.Query(ctx, expr)
	if err != nil {
		return err
	}
	for _, res := range results {
		typ, ok := res.Label("type")
		if !ok {
			continue
		}
		v := asUint64(res.FirstValue())
		switch typ {
		case "input":
			m.InputTokens = v
		case "output":
			m.OutputTokens = v
		case "cacheRead", "cache_read":
			m.CacheReadTokens += v
		case "cacheCreation", "cache_creation":
			m.CacheCreationTokens += v
		}
	}
	return nil
}

// tokensByModel returns per-model token totals sorted by volume. Rows with a
// missing model label or an unparsable value are dropped rather than failing
// the fetch or showing a bogus zero row.
func (s *Service) tokensByModel(ctx context.Context, window string) ([]models.ModelTokens, error) {
	expr := fmt.Sprintf("sum by (model) (increase(claude_code_token_usage_tokens_total[%s]))", window)
	results, err := s.client.Query(ctx, expr)
	if err != nil {
		return nil, err
	}

	var out []models.ModelTokens
	for _, res := range results {
		model, ok := res.Label("model")
		if !ok || model == "" || res.Value == nil {
			continue
		}
		v, err := strconv.ParseFloat(res.Value.Value, 64)
		if err != nil {
			continue
		}
		out = append(out, models.ModelTokens{Model: model, Tokens: asUint64(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tokens > out[j].Tokens })
	return out, nil
}

func (s *Service) tokensOverTime(ctx context.Context, r models.ResolvedRange, step, rateWindow string) ([]models.TimeSeriesPoint, error) {
	expr := fmt.Sprintf("sum(rate(claude_code_token_usage_tokens_total[%s]))", rateWindow)
	results, err := s.client.QueryRange(ctx, expr, r.Start, r.End, step)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	points := make([]models.TimeSeriesPoint, 0, len(results[0].Values))
	for _, sample := range results[0].Values {
		points = append(points, models.TimeSeriesPoint{
			Timestamp: int64(sample.Timestamp),
			Value:     sample.Float(),
		})
	}
	return points, nil
}

// Counters cannot go negative, but increase() extrapolation can produce small
// negative artifacts near counter resets.
func asUint64(v float64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func asUint32(v float64) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
