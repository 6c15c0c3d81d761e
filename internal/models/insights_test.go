package models

import "testing"

func TestNewMetricComparison(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     *float64
	}{
		{"BothZero", 0, 0, nil},
		{"FromNothing", 5, 0, ptr(100.0)},
		{"Halved", 50, 100, ptr(-50.0)},
		{"Doubled", 200, 100, ptr(100.0)},
		{"Unchanged", 100, 100, ptr(0.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMetricComparison(tt.current, tt.previous)
			if got.Current != tt.current || got.Previous != tt.previous {
				t.Errorf("NewMetricComparison() pair = (%v, %v), want (%v, %v)",
					got.Current, got.Previous, tt.current, tt.previous)
			}
			switch {
			case tt.want == nil && got.PercentChange != nil:
				t.Errorf("PercentChange = %v, want nil", *got.PercentChange)
			case tt.want != nil && got.PercentChange == nil:
				t.Errorf("PercentChange = nil, want %v", *tt.want)
			case tt.want != nil && *got.PercentChange != *tt.want:
				t.Errorf("PercentChange = %v, want %v", *got.PercentChange, *tt.want)
			}
		})
	}
}

func ptr(f float64) *float64 { return &f }
