// Package sessions builds per-session usage records from the local history
// log, enriched with cost and token data from the metrics server.
package sessions

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/r-santel/ccpulse-tui/internal/logger"
	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services/prometheus"
)

// Service folds the recorder's history log into session records and enriches
// them with remote metrics. Local folding is the source of truth for message
// counts and projects; the server is the source of truth for cost and tokens.
type Service struct {
	client      *prometheus.Client
	historyPath string
}

// NewService creates a sessions service.
func NewService(client *prometheus.Client, historyPath string) *Service {
	return &Service{client: client, historyPath: historyPath}
}

// LoadHistory folds history.jsonl into one record per session. Malformed
// lines are skipped; a missing file yields an empty slice because a fresh
// install simply has no history yet.
func (s *Service) LoadHistory() ([]models.SessionMetrics, error) {
	f, err := os.Open(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("history log not found", "path", s.historyPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close history log", "error", err)
		}
	}()

	byID := make(map[string]*models.SessionMetrics)
	var order []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event models.HistoryEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		if event.SessionID == "" {
			continue
		}
		sm, ok := byID[event.SessionID]
		if !ok {
			sm = &models.SessionMetrics{
				SessionID: event.SessionID,
				Project:   event.Project,
			}
			byID[event.SessionID] = sm
			order = append(order, event.SessionID)
		}
		sm.MessageCount++
		if ts := time.Unix(event.Timestamp, 0); ts.After(sm.LastActivity) {
			sm.LastActivity = ts
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}

	out := make([]models.SessionMetrics, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

// Local returns history-derived sessions enriched with remote metrics for the
// given window token. Enrichment is best-effort: if the server is down the
// local records still render, with zero cost and token fields.
func (s *Service) Local(ctx context.Context, windowToken string) (*models.SessionsData, error) {
	sessions, err := s.LoadHistory()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.SessionMetrics, len(sessions))
	for i := range sessions {
		byID[sessions[i].SessionID] = &sessions[i]
	}
	window := models.SessionsWindow(windowToken)
	if err := s.enrich(ctx, window, byID, false); err != nil {
		logger.Warn("session enrichment failed", "error", err)
	}

	return assemble(sessions), nil
}

// Remote builds sessions purely from server metrics, for hosts where the
// local history log is absent. Only sessions with recorded cost appear. The
// battery is fail-fast since there is no local fallback to show.
func (s *Service) Remote(ctx context.Context, windowToken string) (*models.SessionsData, error) {
	byID := make(map[string]*models.SessionMetrics)
	window := models.SessionsWindow(windowToken)
	if err := s.enrich(ctx, window, byID, true); err != nil {
		return nil, err
	}

	sessions := make([]models.SessionMetrics, 0, len(byID))
	for _, sm := range byID {
		sessions = append(sessions, *sm)
	}
	return assemble(sessions), nil
}

// enrich runs the per-session query passes. With seed set, the cost pass
// creates records for unseen session ids; every later pass only fills fields
// on records that already exist.
func (s *Service) enrich(ctx context.Context, window string, byID map[string]*models.SessionMetrics, seed bool) error {
	costs, err := s.grouped(ctx, "claude_code_cost_usage_USD_total", window, "session_id")
	if err != nil {
		return err
	}
	for _, res := range costs {
		id, _ := res.Label("session_id")
		if id == "" {
			continue
		}
		cost := res.FirstValue()
		sm, ok := byID[id]
		if !ok {
			if !seed || cost <= 0 {
				continue
			}
			sm = &models.SessionMetrics{SessionID: id}
			byID[id] = sm
		}
		sm.TotalCostUSD = cost
	}

	tokens, err := s.grouped(ctx, "claude_code_token_usage_tokens_total", window, "session_id")
	if err != nil {
		return err
	}
	for _, res := range tokens {
		if sm := lookup(byID, res); sm != nil {
			sm.TotalTokens = clampUint64(res.FirstValue())
		}
	}

	byType, err := s.grouped(ctx, "claude_code_token_usage_tokens_total", window, "session_id, type")
	if err != nil {
		return err
	}
	for _, res := range byType {
		sm := lookup(byID, res)
		if sm == nil {
			continue
		}
		v := clampUint64(res.FirstValue())
		typ, _ := res.Label("type")
		switch typ {
		case "input":
			sm.InputTokens = v
		case "output":
			sm.OutputTokens = v
		case "cacheRead", "cache_read":
			sm.CacheReadTokens += v
		case "cacheCreation", "cache_creation":
			sm.CacheCreationTokens += v
		}
	}

	active, err := s.grouped(ctx, "claude_code_active_time_seconds_total", window, "session_id")
	if err != nil {
		return err
	}
	for _, res := range active {
		if sm := lookup(byID, res); sm != nil {
			sm.ActiveTimeSeconds = res.FirstValue()
		}
	}

	byModel, err := s.grouped(ctx, "claude_code_token_usage_tokens_total", window, "session_id, model")
	if err != nil {
		return err
	}
	for _, res := range byModel {
		sm := lookup(byID, res)
		if sm == nil {
			continue
		}
		model, _ := res.Label("model")
		if model == "" {
			continue
		}
		sm.TokensByModel = append(sm.TokensByModel, models.ModelTokens{
			Model:  model,
			Tokens: clampUint64(res.FirstValue()),
		})
	}
	for _, sm := range byID {
		sort.Slice(sm.TokensByModel, func(i, j int) bool {
			return sm.TokensByModel[i].Tokens > sm.TokensByModel[j].Tokens
		})
	}

	return nil
}

func (s *Service) grouped(ctx context.Context, metric, window, by string) ([]prometheus.Result, error) {
	expr := fmt.Sprintf("sum by (%s) (increase(%s[%s]))", by, metric, window)
	return s.client.Query(ctx, expr)
}

func lookup(byID map[string]*models.SessionMetrics, res prometheus.Result) *models.SessionMetrics {
	id, _ := res.Label("session_id")
	if id == "" {
		return nil
	}
	return byID[id]
}

// assemble sorts sessions by cost and rolls them up per project.
func assemble(sessions []models.SessionMetrics) *models.SessionsData {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].TotalCostUSD != sessions[j].TotalCostUSD {
			return sessions[i].TotalCostUSD > sessions[j].TotalCostUSD
		}
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})

	// Rollups key on the display name, so the same project checked out under
	// different parent directories folds into one row.
	byProject := make(map[string]*models.ProjectStats)
	var order []string
	for _, sm := range sessions {
		key := models.ProjectDisplayName(sm.Project)
		if key == "" {
			key = "unknown"
		}
		ps, ok := byProject[key]
		if !ok {
			ps = &models.ProjectStats{Project: key}
			byProject[key] = ps
			order = append(order, key)
		}
		ps.SessionCount++
		ps.TotalCostUSD += sm.TotalCostUSD
		ps.TotalTokens += sm.TotalTokens
	}

	projects := make([]models.ProjectStats, 0, len(order))
	for _, key := range order {
		projects = append(projects, *byProject[key])
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].TotalCostUSD > projects[j].TotalCostUSD
	})

	return &models.SessionsData{
		Sessions:   sessions,
		Projects:   projects,
		TotalCount: len(sessions),
	}
}

// clampUint64 guards against negative increase() extrapolation artifacts.
func clampUint64(v float64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}
