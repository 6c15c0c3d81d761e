package components

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens uint64
		want   string
	}{
		{"Zero", 0, "0"},
		{"Small", 999, "999"},
		{"Thousands", 1500, "1.5K"},
		{"Millions", 2_300_000, "2.3M"},
		{"Billions", 1_200_000_000, "1.2B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTokens(tt.tokens); got != tt.want {
				t.Errorf("FormatTokens(%d) = %q, want %q", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestFormatCost(t *testing.T) {
	if got := FormatCost(0.2345); got != "$0.234" {
		t.Errorf("FormatCost(0.2345) = %q, want $0.234", got)
	}
	if got := FormatCost(12.349); got != "$12.35" {
		t.Errorf("FormatCost(12.349) = %q, want $12.35", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes float64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%v) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m 0s"},
		{90 * time.Minute, "1h 30m"},
		{26 * time.Hour, "1d 2h"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderBarChart(t *testing.T) {
	out := RenderBarChart([]float64{100, 50}, []string{"opus", "haiku"}, 60)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 bar lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "opus") || !strings.Contains(lines[0], "100") {
		t.Errorf("first bar missing label or value: %q", lines[0])
	}
	// Half the value should draw roughly half the bar.
	if strings.Count(lines[1], "█") >= strings.Count(lines[0], "█") {
		t.Errorf("expected shorter bar for smaller value")
	}
}

func TestRenderBarChart_Empty(t *testing.T) {
	if out := RenderBarChart(nil, nil, 60); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestRenderSparkline(t *testing.T) {
	out := RenderSparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if out == "" {
		t.Fatal("expected non-empty sparkline")
	}
	runes := []rune(out)
	if runes[0] != '▁' {
		t.Errorf("expected lowest block first, got %q", string(runes[0]))
	}
	if runes[len(runes)-1] != '█' {
		t.Errorf("expected highest block last, got %q", string(runes[len(runes)-1]))
	}
}

func TestCumulativeSum(t *testing.T) {
	got := CumulativeSum([]float64{1, 2, 3}, 10)
	want := []float64{10, 30, 60}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CumulativeSum[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
