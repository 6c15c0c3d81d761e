// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/r-santel/ccpulse-tui/internal/config"
	"github.com/r-santel/ccpulse-tui/internal/db"
	"github.com/r-santel/ccpulse-tui/internal/logger"
	"github.com/r-santel/ccpulse-tui/internal/models"
	"github.com/r-santel/ccpulse-tui/internal/services/dashboard"
	"github.com/r-santel/ccpulse-tui/internal/services/health"
	"github.com/r-santel/ccpulse-tui/internal/services/insights"
	"github.com/r-santel/ccpulse-tui/internal/services/prometheus"
	"github.com/r-santel/ccpulse-tui/internal/services/sessions"
	"github.com/r-santel/ccpulse-tui/internal/services/statusline"
)

// debounceWindow collapses bursts of file-change notifications; editors and
// the recorder both write in quick multi-event flurries.
const debounceWindow = 100 * time.Millisecond

type (
	// DashboardUpdatedEvent is emitted after a successful dashboard fetch.
	DashboardUpdatedEvent struct {
		Range   models.TimeRange
		Metrics *models.DashboardMetrics
	}

	// HealthUpdatedEvent is emitted after a health fetch completes.
	HealthUpdatedEvent struct {
		Range   models.TimeRange
		Metrics *models.HealthMetrics
	}

	// SessionsUpdatedEvent is emitted after the sessions view data changes.
	SessionsUpdatedEvent struct {
		Window string
		Data   *models.SessionsData
	}

	// FilesChangedEvent is emitted when a watched local data file changes.
	FilesChangedEvent struct {
		Path string
	}

	// ConnectionEvent is emitted when the server connection state flips.
	ConnectionEvent struct {
		Connected bool
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DashboardUpdatedEvent) isServiceEvent() {}
func (HealthUpdatedEvent) isServiceEvent()    {}
func (SessionsUpdatedEvent) isServiceEvent()  {}
func (FilesChangedEvent) isServiceEvent()     {}
func (ConnectionEvent) isServiceEvent()       {}
func (ErrorEvent) isServiceEvent()            {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	client      *prometheus.Client
	dashboard   *dashboard.Service
	health      *health.Service
	sessions    *sessions.Service
	insights    *insights.Service
	statusline  *statusline.Service
	database    *db.DB
	watcher     *fsnotify.Watcher
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	costAlerted   bool
	everConnected bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:        cfg,
		client:     prometheus.New(cfg.PrometheusURL),
		statusline: statusline.NewService(),
		stopChan:   make(chan struct{}),
	}

	m.dashboard = dashboard.NewService(m.client)
	m.health = health.NewService(m.client)
	m.sessions = sessions.NewService(m.client, cfg.HistoryPath())
	m.insights = insights.NewService(cfg.StatsCachePath(), cfg.PricingProvider)

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("file watching disabled", "error", err)
	} else {
		if err := m.watcher.Add(cfg.ClaudeDir); err != nil {
			logger.Warn("failed to watch data directory", "dir", cfg.ClaudeDir, "error", err)
		}
		go m.watchFiles()
	}

	return m, nil
}

// watchFiles forwards debounced changes to the recorder's data files.
func (m *Manager) watchFiles() {
	var timer *time.Timer

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if name != "history.jsonl" && name != "stats-cache.json" {
				continue
			}
			// Each burst arms a fresh timer over its own path copy; the
			// callback never reads state shared with this goroutine.
			if timer != nil {
				timer.Stop()
			}
			path := event.Name
			timer = time.AfterFunc(debounceWindow, func() {
				m.broadcast(FilesChangedEvent{Path: path})
			})

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", "error", err)

		case <-m.stopChan:
			return
		}
	}
}

// FetchDashboard runs the dashboard battery for a symbolic range. On success
// it updates the statusline cost, records a snapshot, and checks the cost
// alert threshold.
func (m *Manager) FetchDashboard(ctx context.Context, tr models.TimeRange) (*models.DashboardMetrics, error) {
	metrics, err := m.dashboard.Fetch(ctx, tr)
	if err != nil {
		m.setConnected(false)
		return nil, err
	}
	m.setConnected(true)
	m.recordDashboard(ctx, tr, metrics)
	m.broadcast(DashboardUpdatedEvent{Range: tr, Metrics: metrics})
	return metrics, nil
}

// FetchDashboardCustom runs the dashboard battery for explicit bounds.
// Custom windows are not snapshotted; they are one-off explorations.
func (m *Manager) FetchDashboardCustom(ctx context.Context, start, end int64) (*models.DashboardMetrics, error) {
	metrics, err := m.dashboard.FetchCustom(ctx, start, end)
	if err != nil {
		return nil, err
	}
	m.setConnected(true)
	m.statusline.SetCost(metrics.TotalCostUSD)
	return metrics, nil
}

func (m *Manager) recordDashboard(ctx context.Context, tr models.TimeRange, metrics *models.DashboardMetrics) {
	m.statusline.SetCost(metrics.TotalCostUSD)
	m.checkCostAlert(metrics.TotalCostUSD)

	err := m.database.InsertSnapshot(ctx, db.UsageSnapshot{
		TimeRange:    string(tr),
		TotalTokens:  metrics.TotalTokens,
		TotalCostUSD: metrics.TotalCostUSD,
		SessionCount: metrics.SessionCount,
	})
	if err != nil {
		logger.Warn("failed to record usage snapshot", "error", err)
	}
}

// checkCostAlert fires a single desktop notification when the window cost
// first crosses the configured threshold; it re-arms once cost drops below.
func (m *Manager) checkCostAlert(costUSD float64) {
	threshold := m.cfg.CostAlertThreshold
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	fire := false
	if costUSD >= threshold && !m.costAlerted {
		m.costAlerted = true
		fire = true
	} else if costUSD < threshold {
		m.costAlerted = false
	}
	m.mu.Unlock()

	if fire {
		title := "Cost threshold reached"
		body := fmt.Sprintf("Usage cost is $%.2f (threshold $%.2f)", costUSD, threshold)
		_ = beeep.Notify(title, body, "")
	}
}

// FetchHealth gathers server health and updates the connection state.
func (m *Manager) FetchHealth(ctx context.Context, tr models.TimeRange) *models.HealthMetrics {
	metrics := m.health.Fetch(ctx, tr)
	m.setConnected(metrics.IsReady)
	logger.Debug("health fetched", "summary", health.Summary(metrics))
	m.broadcast(HealthUpdatedEvent{Range: tr, Metrics: metrics})
	return metrics
}

// TestConnection probes the server and updates the connection state.
func (m *Manager) TestConnection(ctx context.Context) bool {
	connected := m.client.TestConnection(ctx)
	m.setConnected(connected)
	return connected
}

// setConnected records the connection state and notifies on flips. The first
// successful connection is silent; only later transitions are news.
func (m *Manager) setConnected(connected bool) {
	previous := m.statusline.Connected()
	m.statusline.SetConnected(connected)

	m.mu.Lock()
	wasEver := m.everConnected
	if connected {
		m.everConnected = true
	}
	m.mu.Unlock()

	if connected == previous {
		return
	}
	m.broadcast(ConnectionEvent{Connected: connected})

	if !wasEver {
		return
	}
	if connected {
		_ = beeep.Notify("Metrics server restored", "Connection to the metrics server is back.", "")
	} else {
		_ = beeep.Notify("Metrics server unreachable", "Lost connection to the metrics server.", "")
	}
}

// FetchSessions returns session data for a window token, preferring local
// history and falling back to remote-only records when no history exists.
func (m *Manager) FetchSessions(ctx context.Context, windowToken string) (*models.SessionsData, error) {
	data, err := m.sessions.Local(ctx, windowToken)
	if err != nil {
		return nil, err
	}
	if data.TotalCount == 0 {
		remote, err := m.sessions.Remote(ctx, windowToken)
		if err != nil {
			// No history and no server; an empty view is still valid.
			logger.Debug("remote sessions unavailable", "error", err)
		} else {
			data = remote
		}
	}
	m.broadcast(SessionsUpdatedEvent{Window: windowToken, Data: data})
	return data, nil
}

// FetchInsights computes trend insights for a period token.
func (m *Manager) FetchInsights(period string) (*models.InsightsData, error) {
	return m.insights.Insights(period)
}

// FetchLocalStats summarizes lifetime usage from the local stats cache.
func (m *Manager) FetchLocalStats() (*models.LocalStats, error) {
	return m.insights.LocalStats()
}

// DiscoverMetrics lists the recorder's metric names present on the server.
func (m *Manager) DiscoverMetrics(ctx context.Context) ([]string, error) {
	return m.client.DiscoverMetrics(ctx)
}

// LastSnapshot returns the most recent stored dashboard snapshot for a range,
// for display while the server is unreachable.
func (m *Manager) LastSnapshot(ctx context.Context, tr models.TimeRange) (*db.UsageSnapshot, error) {
	return m.database.LatestSnapshot(ctx, string(tr))
}

// Statusline returns the status summary service.
func (m *Manager) Statusline() *statusline.Service {
	return m.statusline
}

// Config returns the active configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
