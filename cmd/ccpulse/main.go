// Package main is the entry point for the ccpulse TUI. It loads configuration,
// wires up the service manager, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/r-santel/ccpulse-tui/internal/app"
	"github.com/r-santel/ccpulse-tui/internal/config"
	"github.com/r-santel/ccpulse-tui/internal/logger"
	"github.com/r-santel/ccpulse-tui/internal/services"
	"github.com/r-santel/ccpulse-tui/internal/ui/tabs/dashboard"
	"github.com/r-santel/ccpulse-tui/internal/ui/tabs/health"
	"github.com/r-santel/ccpulse-tui/internal/ui/tabs/info"
	"github.com/r-santel/ccpulse-tui/internal/ui/tabs/insights"
	"github.com/r-santel/ccpulse-tui/internal/ui/tabs/sessions"
	"github.com/r-santel/ccpulse-tui/internal/version"
)

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--debug":
			logger.SetDebug(true)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Each tab reads the shared application state; commands go back through
	// the manager.
	state := model.GetState()
	commands := model.GetCommands()
	tabs := []app.Tab{
		dashboard.New(state, cfg.CostAlertThreshold),
		sessions.New(state, commands),
		insights.New(state, commands),
		health.New(state),
		info.New(state, cfg, commands),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`ccpulse - Claude Code usage dashboard

Usage:
  ccpulse [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information
      --debug     Enable debug logging

Keyboard Shortcuts:
  1-5             Switch between tabs (Dashboard, Sessions, Insights, Health, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  t               Cycle dashboard time range
  w               Cycle sessions window (Sessions tab)
  p               Cycle comparison period (Insights tab)
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  PROMETHEUS_URL        Metrics server base URL (default: http://localhost:9090)
  CLAUDE_DIR            Claude data directory (default: ~/.claude)
  DATABASE_PATH         SQLite snapshot database path
  PRICING_PROVIDER      Pricing provider for cost estimates (default: anthropic)
  REFRESH_INTERVAL      Auto-refresh interval, bare numbers are seconds (default: 30s)
  COST_ALERT_THRESHOLD  Dollar amount that triggers a desktop alert (default: off)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/ccpulse/.env
  - ~/.ccpulse/.env`)
}
