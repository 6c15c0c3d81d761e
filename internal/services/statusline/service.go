// Package statusline maintains the always-visible one-line status summary:
// a connection indicator plus the current window's cost.
package statusline

import (
	"fmt"
	"sync"
)

const (
	indicatorUp   = "🟢"
	indicatorDown = "🔴"
)

// Service holds the current status title. Writers are the refresh loop and
// the connection prober; readers are render passes, so access is locked.
type Service struct {
	mu        sync.Mutex
	connected bool
	costUSD   float64
}

// NewService creates a statusline starting disconnected at zero cost.
func NewService() *Service {
	return &Service{}
}

// SetConnected records the server connection state.
func (s *Service) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

// SetCost records the latest cost total for the selected window.
func (s *Service) SetCost(costUSD float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costUSD = costUSD
}

// Connected reports the last recorded connection state.
func (s *Service) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Title renders the status summary, e.g. "🟢 $4.25".
func (s *Service) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	indicator := indicatorDown
	if s.connected {
		indicator = indicatorUp
	}
	return fmt.Sprintf("%s %s", indicator, formatCost(s.costUSD))
}

// formatCost keeps sub-dollar amounts at three decimals so small windows do
// not render as a flat $0.00.
func formatCost(costUSD float64) string {
	if costUSD >= 1 {
		return fmt.Sprintf("$%.2f", costUSD)
	}
	return fmt.Sprintf("$%.3f", costUSD)
}
