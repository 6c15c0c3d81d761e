package models

// TimeSeriesPoint is a single (timestamp, value) sample for chart rendering.
type TimeSeriesPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// ModelTokens pairs a model name with its token total for the selected range.
type ModelTokens struct {
	Model  string `json:"model"`
	Tokens uint64 `json:"tokens"`
}

// DashboardMetrics is the summary record for the dashboard view. Scalars are
// range totals; TokensOverTime carries raw per-second rate samples, the view
// is responsible for cumulative sums and unit scaling.
type DashboardMetrics struct {
	TotalTokens       uint64  `json:"totalTokens"`
	TotalCostUSD      float64 `json:"totalCostUsd"`
	ActiveTimeSeconds float64 `json:"activeTimeSeconds"`
	SessionCount      uint32  `json:"sessionCount"`
	LinesAdded        uint64  `json:"linesAdded"`
	LinesRemoved      uint64  `json:"linesRemoved"`
	CommitCount       uint32  `json:"commitCount"`
	PullRequestCount  uint32  `json:"pullRequestCount"`

	// Token type breakdown
	InputTokens         uint64 `json:"inputTokens"`
	OutputTokens        uint64 `json:"outputTokens"`
	CacheReadTokens     uint64 `json:"cacheReadTokens"`
	CacheCreationTokens uint64 `json:"cacheCreationTokens"`

	TokensByModel  []ModelTokens     `json:"tokensByModel"`
	TokensOverTime []TimeSeriesPoint `json:"tokensOverTime"`
}
