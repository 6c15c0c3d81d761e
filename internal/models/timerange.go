// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// TimeRange is the user-facing token selecting a lookback window.
type TimeRange string

// Supported range tokens. RangeCustom must be paired with explicit bounds.
const (
	Range15m    TimeRange = "15m"
	Range1h     TimeRange = "1h"
	Range4h     TimeRange = "4h"
	Range1d     TimeRange = "1d"
	Range7d     TimeRange = "7d"
	Range30d    TimeRange = "30d"
	Range90d    TimeRange = "90d"
	RangeCustom TimeRange = "custom"
)

// Ranges lists the symbolic tokens in display order.
var Ranges = []TimeRange{Range15m, Range1h, Range4h, Range1d, Range7d, Range30d, Range90d}

// rangeSeconds maps symbolic tokens to window lengths.
var rangeSeconds = map[TimeRange]int64{
	Range15m: 15 * 60,
	Range1h:  3600,
	Range4h:  4 * 3600,
	Range1d:  24 * 3600,
	Range7d:  7 * 24 * 3600,
	Range30d: 30 * 24 * 3600,
	Range90d: 90 * 24 * 3600,
}

// Seconds returns the window length for a symbolic token. Unknown tokens fall
// back to the shortest supported window; callers treat that as "use default",
// never as an error.
func (t TimeRange) Seconds() int64 {
	if secs, ok := rangeSeconds[t]; ok {
		return secs
	}
	return rangeSeconds[Range15m]
}

// Window returns the PromQL duration literal for a symbolic token, with the
// same fallback policy as Seconds.
func (t TimeRange) Window() string {
	if _, ok := rangeSeconds[t]; ok {
		return string(t)
	}
	return string(Range15m)
}

// Next cycles to the next symbolic token, wrapping at the end.
func (t TimeRange) Next() TimeRange {
	for i, r := range Ranges {
		if r == t {
			return Ranges[(i+1)%len(Ranges)]
		}
	}
	return Range15m
}

// ResolvedRange is a concrete query window produced from a TimeRange.
type ResolvedRange struct {
	// Start and End are epoch seconds, End > Start.
	Start int64
	End   int64

	// Window is the PromQL duration literal covering the whole range, e.g.
	// "7d" for symbolic tokens or "86400s" for custom bounds.
	Window string
}

// Duration returns the resolved window length in seconds.
func (r ResolvedRange) Duration() int64 {
	return r.End - r.Start
}

// Resolve turns a symbolic token into concrete bounds anchored at now.
// For RangeCustom use ResolveCustom instead.
func (t TimeRange) Resolve(now time.Time) ResolvedRange {
	end := now.Unix()
	return ResolvedRange{
		Start:  end - t.Seconds(),
		End:    end,
		Window: t.Window(),
	}
}

// ResolveCustom builds a ResolvedRange from explicit epoch bounds. Both bounds
// are required and must be ordered.
func ResolveCustom(start, end int64) (ResolvedRange, error) {
	if start == 0 || end == 0 {
		return ResolvedRange{}, fmt.Errorf("custom range requires both start and end")
	}
	if end <= start {
		return ResolvedRange{}, fmt.Errorf("custom range end must be after start")
	}
	return ResolvedRange{
		Start:  start,
		End:    end,
		Window: fmt.Sprintf("%ds", end-start),
	}, nil
}

// DashboardStep returns the (step, rate window) pair used by the dashboard's
// over-time query. The staircase keeps the returned point count within a
// readable chart budget. Health sparklines use HealthStep, which is a
// deliberately different table; the two are kept separate on purpose.
func DashboardStep(t TimeRange, durationSeconds int64) (step, rateWindow string) {
	switch t {
	case Range15m, Range1h:
		return "1m", "5m"
	case Range4h:
		return "5m", "5m"
	case Range1d:
		return "1h", "1h"
	case Range7d:
		return "6h", "6h"
	case Range30d:
		return "1d", "1d"
	case Range90d:
		return "3d", "3d"
	case RangeCustom:
		switch {
		case durationSeconds <= 3600:
			return "1m", "5m"
		case durationSeconds <= 4*3600:
			return "5m", "5m"
		case durationSeconds <= 24*3600:
			return "1h", "1h"
		case durationSeconds <= 7*24*3600:
			return "6h", "6h"
		case durationSeconds <= 30*24*3600:
			return "1d", "1d"
		default:
			return "3d", "3d"
		}
	default:
		return "1m", "5m"
	}
}

// HealthStep returns the range-query step used for health sparklines.
func HealthStep(durationSeconds int64) string {
	switch {
	case durationSeconds <= 900:
		return "15s"
	case durationSeconds <= 3600:
		return "60s"
	case durationSeconds <= 4*3600:
		return "300s"
	case durationSeconds <= 24*3600:
		return "900s"
	default:
		return "3600s"
	}
}

// sessionWindows is the alternate token set used by the sessions view.
var sessionWindows = map[string]string{
	"1h":  "1h",
	"8h":  "8h",
	"24h": "24h",
	"2d":  "2d",
	"7d":  "7d",
	"30d": "30d",
}

// SessionsWindow maps a sessions-view token to its PromQL literal,
// defaulting to 24h for unknown tokens.
func SessionsWindow(token string) string {
	if w, ok := sessionWindows[token]; ok {
		return w
	}
	return "24h"
}
