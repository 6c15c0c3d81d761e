package models

import (
	"path/filepath"
	"strings"
	"time"
)

// HistoryEvent is one line of the recorder's append-only history.jsonl log.
type HistoryEvent struct {
	Timestamp int64  `json:"timestamp"`
	Project   string `json:"project"`
	SessionID string `json:"session_id"`
}

// SessionMetrics is one session's usage record. Local fields come from the
// history log; the cost/token/time fields are filled by remote enrichment.
type SessionMetrics struct {
	SessionID           string        `json:"sessionId"`
	Project             string        `json:"project"`
	MessageCount        uint32        `json:"messageCount"`
	LastActivity        time.Time     `json:"lastActivity"`
	TotalCostUSD        float64       `json:"totalCostUsd"`
	TotalTokens         uint64        `json:"totalTokens"`
	InputTokens         uint64        `json:"inputTokens"`
	OutputTokens        uint64        `json:"outputTokens"`
	CacheReadTokens     uint64        `json:"cacheReadTokens"`
	CacheCreationTokens uint64        `json:"cacheCreationTokens"`
	ActiveTimeSeconds   float64       `json:"activeTimeSeconds"`
	TokensByModel       []ModelTokens `json:"tokensByModel"`
}

// ProjectName derives the display name from the last path segment of the
// session's project path.
func (s *SessionMetrics) ProjectName() string {
	return ProjectDisplayName(s.Project)
}

// ProjectDisplayName reduces a project path to its last segment.
func ProjectDisplayName(project string) string {
	if project == "" {
		return ""
	}
	trimmed := strings.TrimRight(project, "/")
	if trimmed == "" {
		return "/"
	}
	return filepath.Base(trimmed)
}

// ProjectStats is the per-project rollup of enriched session records.
type ProjectStats struct {
	Project      string  `json:"project"`
	SessionCount int     `json:"sessionCount"`
	TotalCostUSD float64 `json:"totalCostUsd"`
	TotalTokens  uint64  `json:"totalTokens"`
}

// SessionsData is the sessions-view response record.
type SessionsData struct {
	Sessions   []SessionMetrics `json:"sessions"`
	Projects   []ProjectStats   `json:"projects"`
	TotalCount int              `json:"totalCount"`
}
