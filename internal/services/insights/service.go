// Package insights derives usage trends from the recorder's local stats
// cache. Everything here is computed offline; no metrics server is involved.
package insights

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/models"
)

const dateLayout = "2006-01-02"

// Flat per-million-token pricing used for rough cost estimates. Vertex
// carries a platform premium over the direct API.
const (
	defaultRatePerMillion = 15.0
	vertexRatePerMillion  = 16.5
)

// ErrNoStatsCache distinguishes "file not there yet" from read failures, so
// the view can show guidance instead of an error.
var ErrNoStatsCache = fmt.Errorf("stats cache not found; use Claude Code to generate usage data")

// Service computes insight summaries from the stats cache file.
type Service struct {
	statsPath string
	provider  string
}

// NewService creates an insights service reading the given stats-cache.json.
func NewService(statsPath, provider string) *Service {
	return &Service{statsPath: statsPath, provider: provider}
}

// CalculateCost estimates USD cost for a token count under a flat
// per-million rate for the configured provider.
func CalculateCost(tokens uint64, provider string) float64 {
	if tokens == 0 {
		return 0
	}
	rate := defaultRatePerMillion
	if provider == "google-vertex" {
		rate = vertexRatePerMillion
	}
	return float64(tokens) / 1_000_000 * rate
}

// LoadStatsCache reads and decodes the stats cache file.
func (s *Service) LoadStatsCache() (*models.StatsCache, error) {
	data, err := os.ReadFile(s.statsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoStatsCache
		}
		return nil, fmt.Errorf("failed to read stats cache: %w", err)
	}
	var cache models.StatsCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse stats cache: %w", err)
	}
	return &cache, nil
}

// Insights computes the trend summary for a period token ("7d", "30d",
// "week"/"this_week", "month"/"this_month"); unknown tokens fall back to
// trailing 7 days.
func (s *Service) Insights(period string) (*models.InsightsData, error) {
	cache, err := s.LoadStatsCache()
	if err != nil {
		return nil, err
	}
	return s.compute(cache, period, time.Now()), nil
}

// LocalStats summarizes lifetime usage from the cache alone.
func (s *Service) LocalStats() (*models.LocalStats, error) {
	cache, err := s.LoadStatsCache()
	if err != nil {
		return nil, err
	}

	byModel := make(map[string]uint64, len(cache.ModelUsage))
	var total uint64
	for model, usage := range cache.ModelUsage {
		sum := usage.InputTokens + usage.OutputTokens +
			usage.CacheReadInputTokens + usage.CacheCreationInputTokens
		byModel[model] = sum
		total += sum
	}

	active := 0
	for _, day := range cache.DailyActivity {
		if day.MessageCount > 0 {
			active++
		}
	}

	return &models.LocalStats{
		TotalSessions:    cache.TotalSessions,
		TotalMessages:    cache.TotalMessages,
		TotalTokens:      total,
		EstimatedCostUSD: CalculateCost(total, s.provider),
		TokensByModel:    byModel,
		ActiveDays:       active,
		FirstSessionDate: cache.FirstSessionDate,
	}, nil
}

// compute is the clock-injected core of Insights.
func (s *Service) compute(cache *models.StatsCache, period string, now time.Time) *models.InsightsData {
	curStart, curEnd, prevStart, prevEnd := periodBounds(period, now)

	cur := sumWindow(cache, curStart, curEnd)
	prev := sumWindow(cache, prevStart, prevEnd)

	comparison := models.PeriodComparison{
		Messages: models.NewMetricComparison(float64(cur.messages), float64(prev.messages)),
		Sessions: models.NewMetricComparison(float64(cur.sessions), float64(prev.sessions)),
		Tokens:   models.NewMetricComparison(float64(cur.tokens), float64(prev.tokens)),
		EstimatedCost: models.NewMetricComparison(
			CalculateCost(cur.tokens, s.provider),
			CalculateCost(prev.tokens, s.provider),
		),
	}

	return &models.InsightsData{
		Period:         period,
		Comparison:     comparison,
		DailyActivity:  dailyPoints(cache, curStart, curEnd, func(d models.DailyActivity) float64 { return float64(d.MessageCount) }),
		SessionsPerDay: dailyPoints(cache, curStart, curEnd, func(d models.DailyActivity) float64 { return float64(d.SessionCount) }),
		PeakActivity:   peakActivity(cache, now),
		HourCounts:     hourHistogram(cache),
	}
}

// hourHistogram spreads the cache's hour-keyed counts over a 24-slot slice.
// Returns nil when the cache carries no hour data at all.
func hourHistogram(cache *models.StatsCache) []float64 {
	if len(cache.HourCounts) == 0 {
		return nil
	}
	hist := make([]float64, 24)
	for hourStr, count := range cache.HourCounts {
		var hour int
		if _, err := fmt.Sscanf(hourStr, "%d", &hour); err != nil || hour < 0 || hour > 23 {
			continue
		}
		hist[hour] += float64(count)
	}
	return hist
}

// periodBounds returns inclusive date bounds for the current window and the
// preceding window of equal length.
func periodBounds(period string, now time.Time) (curStart, curEnd, prevStart, prevEnd time.Time) {
	today := truncateDay(now)
	switch period {
	case "30d":
		curStart = today.AddDate(0, 0, -29)
	case "week", "this_week":
		// Week starts Monday; compare against the same span of last week.
		offset := (int(today.Weekday()) + 6) % 7
		curStart = today.AddDate(0, 0, -offset)
	case "month", "this_month":
		curStart = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	default: // trailing 7 days
		curStart = today.AddDate(0, 0, -6)
	}
	curEnd = today
	span := int(curEnd.Sub(curStart).Hours()/24) + 1
	prevEnd = curStart.AddDate(0, 0, -1)
	prevStart = prevEnd.AddDate(0, 0, -(span - 1))
	return curStart, curEnd, prevStart, prevEnd
}

type windowTotals struct {
	messages uint64
	sessions uint64
	tokens   uint64
}

func sumWindow(cache *models.StatsCache, start, end time.Time) windowTotals {
	var t windowTotals
	for _, day := range cache.DailyActivity {
		d, err := time.Parse(dateLayout, day.Date)
		if err != nil || d.Before(start) || d.After(end) {
			continue
		}
		t.messages += uint64(day.MessageCount)
		t.sessions += uint64(day.SessionCount)
	}
	for _, day := range cache.DailyModelTokens {
		d, err := time.Parse(dateLayout, day.Date)
		if err != nil || d.Before(start) || d.After(end) {
			continue
		}
		for _, tokens := range day.TokensByModel {
			t.tokens += tokens
		}
	}
	return t
}

func dailyPoints(cache *models.StatsCache, start, end time.Time, value func(models.DailyActivity) float64) []models.DailyActivityPoint {
	var points []models.DailyActivityPoint
	for _, day := range cache.DailyActivity {
		d, err := time.Parse(dateLayout, day.Date)
		if err != nil || d.Before(start) || d.After(end) {
			continue
		}
		points = append(points, models.DailyActivityPoint{Date: day.Date, Value: value(day)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

func peakActivity(cache *models.StatsCache, now time.Time) models.PeakActivity {
	peak := models.PeakActivity{
		CurrentStreak: streak(cache.DailyActivity, now),
		MemberSince:   cache.FirstSessionDate,
	}

	var bestHour *uint32
	var bestCount uint32
	for hourStr, count := range cache.HourCounts {
		var hour uint32
		if _, err := fmt.Sscanf(hourStr, "%d", &hour); err != nil || hour > 23 {
			continue
		}
		if count > bestCount || (count == bestCount && bestHour != nil && hour < *bestHour) {
			h := hour
			bestHour = &h
			bestCount = count
		}
	}
	peak.MostActiveHour = bestHour

	if ls := cache.LongestSession; ls != nil && ls.Duration > 0 {
		minutes := uint32(ls.Duration / 60)
		peak.LongestSessionMinutes = &minutes
	}
	return peak
}

// streak counts consecutive active days ending today or yesterday. A day is
// active when it recorded at least one message. Activity that stopped two or
// more days ago is a broken streak.
func streak(days []models.DailyActivity, now time.Time) uint32 {
	active := make(map[string]bool, len(days))
	for _, day := range days {
		if day.MessageCount > 0 {
			active[day.Date] = true
		}
	}

	anchor := truncateDay(now)
	if !active[anchor.Format(dateLayout)] {
		anchor = anchor.AddDate(0, 0, -1)
		if !active[anchor.Format(dateLayout)] {
			return 0
		}
	}

	var count uint32
	for active[anchor.Format(dateLayout)] {
		count++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return count
}

// truncateDay normalizes to UTC midnight so day arithmetic lines up with the
// cache's date-string keys regardless of the host timezone.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
