package models

// StatsCache mirrors the aggregate file written by the recorder process at
// ~/.claude/stats-cache.json. Read-only from this application's perspective.
type StatsCache struct {
	DailyActivity    []DailyActivity       `json:"dailyActivity"`
	DailyModelTokens []DailyModelTokens    `json:"dailyModelTokens,omitempty"`
	ModelUsage       map[string]ModelUsage `json:"modelUsage"`
	TotalSessions    uint32                `json:"totalSessions"`
	TotalMessages    uint32                `json:"totalMessages"`
	LongestSession   *LongestSession       `json:"longestSession,omitempty"`
	FirstSessionDate string                `json:"firstSessionDate,omitempty"`
	HourCounts       map[string]uint32     `json:"hourCounts,omitempty"`
}

// DailyActivity is one day's message/session/tool-call counts.
type DailyActivity struct {
	Date          string `json:"date"`
	MessageCount  uint32 `json:"messageCount"`
	SessionCount  uint32 `json:"sessionCount"`
	ToolCallCount uint32 `json:"toolCallCount"`
}

// DailyModelTokens is one day's token totals broken down by model.
type DailyModelTokens struct {
	Date          string            `json:"date"`
	TokensByModel map[string]uint64 `json:"tokensByModel"`
}

// ModelUsage is the lifetime token breakdown for a single model.
type ModelUsage struct {
	InputTokens              uint64 `json:"inputTokens"`
	OutputTokens             uint64 `json:"outputTokens"`
	CacheReadInputTokens     uint64 `json:"cacheReadInputTokens"`
	CacheCreationInputTokens uint64 `json:"cacheCreationInputTokens"`
}

// LongestSession records the recorder's longest observed session.
type LongestSession struct {
	Duration     uint64 `json:"duration"`
	MessageCount uint32 `json:"messageCount"`
}

// MetricComparison is a current-vs-previous pair with a derived percent change.
type MetricComparison struct {
	Current       float64  `json:"current"`
	Previous      float64  `json:"previous"`
	PercentChange *float64 `json:"percentChange"`
}

// NewMetricComparison derives the percent change: nil when both windows are
// empty, 100% when activity appears from nothing, otherwise relative change.
func NewMetricComparison(current, previous float64) MetricComparison {
	var pct *float64
	switch {
	case previous > 0:
		v := (current - previous) / previous * 100.0
		pct = &v
	case current > 0:
		v := 100.0
		pct = &v
	}
	return MetricComparison{Current: current, Previous: previous, PercentChange: pct}
}

// PeriodComparison groups the per-metric comparisons for a named period.
type PeriodComparison struct {
	Messages      MetricComparison `json:"messages"`
	Sessions      MetricComparison `json:"sessions"`
	Tokens        MetricComparison `json:"tokens"`
	EstimatedCost MetricComparison `json:"estimatedCost"`
}

// DailyActivityPoint is one day's value for trend charts.
type DailyActivityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// PeakActivity summarizes usage-pattern highlights.
type PeakActivity struct {
	MostActiveHour        *uint32 `json:"mostActiveHour"`
	LongestSessionMinutes *uint32 `json:"longestSessionMinutes"`
	CurrentStreak         uint32  `json:"currentStreak"`
	MemberSince           string  `json:"memberSince,omitempty"`
}

// InsightsData is the insights-view response record. HourCounts is the
// lifetime 24-slot hour-of-day histogram for heatmap rendering.
type InsightsData struct {
	Period         string               `json:"period"`
	Comparison     PeriodComparison     `json:"comparison"`
	DailyActivity  []DailyActivityPoint `json:"dailyActivity"`
	SessionsPerDay []DailyActivityPoint `json:"sessionsPerDay"`
	PeakActivity   PeakActivity         `json:"peakActivity"`
	HourCounts     []float64            `json:"hourCounts,omitempty"`
}

// LocalStats is the lifetime summary derived from the stats cache alone.
type LocalStats struct {
	TotalSessions    uint32            `json:"totalSessions"`
	TotalMessages    uint32            `json:"totalMessages"`
	TotalTokens      uint64            `json:"totalTokens"`
	EstimatedCostUSD float64           `json:"estimatedCostUsd"`
	TokensByModel    map[string]uint64 `json:"tokensByModel"`
	ActiveDays       int               `json:"activeDays"`
	FirstSessionDate string            `json:"firstSessionDate,omitempty"`
}
