// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// PrometheusURL is the base URL of the metrics server, without trailing slash.
	PrometheusURL string

	// ClaudeDir is the directory holding history.jsonl and stats-cache.json,
	// written by the Claude Code recorder.
	ClaudeDir string

	// DatabasePath is the SQLite path for usage snapshots.
	DatabasePath string

	// PricingProvider tags the cost-estimate rate ("anthropic", "google-vertex", ...).
	PricingProvider string

	// RefreshInterval is the auto-refresh period for the dashboard and status line.
	RefreshInterval time.Duration

	// CostAlertThreshold triggers a desktop notification when the current-range
	// cost crosses it. Zero disables the alert.
	CostAlertThreshold float64
}

// Default values
const (
	defaultPrometheusURL   = "http://localhost:9090"
	defaultRefreshInterval = 30 * time.Second
	defaultPricingProvider = "anthropic"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		PrometheusURL:      strings.TrimRight(getEnvString("PROMETHEUS_URL", defaultPrometheusURL), "/"),
		ClaudeDir:          getEnvString("CLAUDE_DIR", getDefaultClaudeDir()),
		DatabasePath:       getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		PricingProvider:    getEnvString("PRICING_PROVIDER", defaultPricingProvider),
		RefreshInterval:    getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		CostAlertThreshold: getEnvFloat("COST_ALERT_THRESHOLD", 0),
	}

	if cfg.PrometheusURL == "" {
		return nil, fmt.Errorf("PROMETHEUS_URL must not be empty")
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HistoryPath returns the path of the append-only usage log.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.ClaudeDir, "history.jsonl")
}

// StatsCachePath returns the path of the aggregate stats cache.
func (c *Config) StatsCachePath() string {
	return filepath.Join(c.ClaudeDir, "stats-cache.json")
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "ccpulse", ".env"),
			filepath.Join(home, ".ccpulse", ".env"),
		)
	}

	return paths
}

// getDefaultClaudeDir returns the default location of the recorder's files.
func getDefaultClaudeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claude"
	}
	return filepath.Join(home, ".claude")
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapshots.db"
	}
	return filepath.Join(home, ".config", "ccpulse", "snapshots.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
