// Package health gathers self-monitoring metrics from the metrics server.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/logger"
	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services/prometheus"
)

// Service runs the health query battery. Unlike the dashboard battery it is
// best-effort: a failing query logs at debug and leaves its field at zero,
// because a partially degraded server should still render a health view.
type Service struct {
	client *prometheus.Client
}

// NewService creates a health service backed by the given client.
func NewService(client *prometheus.Client) *Service {
	return &Service{client: client}
}

// Fetch gathers server health for a symbolic time range. It never returns an
// error; the IsReady flag is the only hard signal.
func (s *Service) Fetch(ctx context.Context, tr models.TimeRange) *models.HealthMetrics {
	resolved := tr.Resolve(time.Now())
	step := models.HealthStep(resolved.Duration())

	m := &models.HealthMetrics{}
	m.IsReady = s.client.TestConnection(ctx)

	s.buildInfo(ctx, m)

	scalars := []struct {
		expr string
		dst  *float64
	}{
		{"time() - process_start_time_seconds", &m.UptimeSeconds},
		{"prometheus_tsdb_storage_blocks_bytes", &m.StorageBlocksBytes},
		{"prometheus_tsdb_wal_storage_size_bytes", &m.StorageWALBytes},
		{"prometheus_tsdb_retention_limit_bytes", &m.StorageRetentionLimitBytes},
		{"prometheus_tsdb_retention_limit_seconds", &m.StorageRetentionLimitSecs},
		{"prometheus_tsdb_head_series", &m.HeadSeries},
		{"prometheus_tsdb_lowest_timestamp_seconds", &m.OldestTimestampSeconds},
		{"prometheus_tsdb_head_max_time_seconds", &m.NewestTimestampSeconds},
		{"prometheus_tsdb_blocks_loaded", &m.BlocksLoaded},
		{"process_resident_memory_bytes", &m.ProcessMemoryBytes},
		{"go_memstats_heap_inuse_bytes", &m.HeapInuseBytes},
		{"go_memstats_heap_alloc_bytes", &m.HeapAllocBytes},
		{"go_goroutines", &m.Goroutines},
		{"rate(process_cpu_seconds_total[1m])", &m.CPUSecondsRate},
		{"rate(prometheus_tsdb_head_samples_appended_total[1m])", &m.SamplesAppendedRate},
		{"rate(prometheus_tsdb_head_series_created_total[1m])", &m.SeriesCreatedRate},
		{"count(up)", &m.TargetCount},
		{"avg(scrape_duration_seconds)", &m.ScrapeDurationSeconds},
		{"sum(scrape_samples_scraped)", &m.ScrapeSamples},
		{"prometheus_tsdb_compactions_failed_total", &m.CompactionsFailed},
		{"prometheus_tsdb_compactions_total", &m.CompactionsTotal},
		{"prometheus_tsdb_wal_corruptions_total", &m.WALCorruptions},
		{"prometheus_config_last_reload_success_timestamp_seconds", &m.ConfigReloadTimestamp},
	}
	for _, q := range scalars {
		*q.dst = s.scalar(ctx, q.expr)
	}
	m.StorageTotalBytes = m.StorageBlocksBytes + m.StorageWALBytes
	m.ConfigReloadSuccess = s.scalar(ctx, "prometheus_config_last_reload_successful") == 1

	m.StorageOverTime = s.series(ctx, resolved, step,
		"prometheus_tsdb_storage_blocks_bytes + prometheus_tsdb_wal_storage_size_bytes")
	m.MemoryOverTime = s.series(ctx, resolved, step, "process_resident_memory_bytes")
	m.SamplesRateOverTime = s.series(ctx, resolved, step,
		"rate(prometheus_tsdb_head_samples_appended_total[1m])")

	return m
}

func (s *Service) buildInfo(ctx context.Context, m *models.HealthMetrics) {
	results, err := s.client.Query(ctx, "prometheus_build_info")
	if err != nil || len(results) == 0 {
		s.miss("prometheus_build_info", err)
		return
	}
	m.Version, _ = results[0].Label("version")
	m.GoVersion, _ = results[0].Label("goversion")
}

func (s *Service) scalar(ctx context.Context, expr string) float64 {
	results, err := s.client.Query(ctx, expr)
	if err != nil || len(results) == 0 {
		s.miss(expr, err)
		return 0
	}
	return results[0].FirstValue()
}

func (s *Service) series(ctx context.Context, r models.ResolvedRange, step, expr string) []models.TimeSeriesPoint {
	results, err := s.client.QueryRange(ctx, expr, r.Start, r.End, step)
	if err != nil || len(results) == 0 {
		s.miss(expr, err)
		return nil
	}
	points := make([]models.TimeSeriesPoint, 0, len(results[0].Values))
	for _, sample := range results[0].Values {
		points = append(points, models.TimeSeriesPoint{
			Timestamp: int64(sample.Timestamp),
			Value:     sample.Float(),
		})
	}
	return points
}

func (s *Service) miss(expr string, err error) {
	if err != nil {
		logger.Debug("health query failed", "expr", expr, "error", err)
	}
}

// Summary is a one-line health digest used by the status bar.
func Summary(m *models.HealthMetrics) string {
	if !m.IsReady {
		return "server unreachable"
	}
	return fmt.Sprintf("up %s, %s head series", formatUptime(m.UptimeSeconds), formatCount(m.HeadSeries))
}

func formatUptime(secs float64) string {
	d := time.Duration(secs) * time.Second
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd%dh", int(d.Hours())/24, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}

func formatCount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
