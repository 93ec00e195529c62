package mathutil

import (
	"math"
	"testing"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int32
		expected float64
	}{
		{"Round up at midpoint", 12.35, 1, 12.4},
		{"Round down below midpoint", 12.34, 1, 12.3},
		{"Binary midpoint rounds up", 0.15, 1, 0.2},
		{"No rounding needed", 12.3, 1, 12.3},
		{"Whole number", 20, 1, 20},
		{"Zero", 0, 1, 0},
		{"Tiny value", 0.04, 1, 0},
		{"Integer rounding", 12.5, 0, 13},
		{"Integer rounding down", 12.49, 0, 12},
		{"Two places", 1.235, 2, 1.24},
		{"Negative midpoint away from zero", -1.25, 1, -1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundTo(tt.input, tt.places)
			if result != tt.expected {
				t.Errorf("RoundTo(%v, %d) = %v, expected %v", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestRoundToNonFinite(t *testing.T) {
	if !math.IsInf(RoundTo(math.Inf(1), 1), 1) {
		t.Error("expected +Inf to pass through")
	}
	if !math.IsNaN(RoundTo(math.NaN(), 1)) {
		t.Error("expected NaN to pass through")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Inside range", 42, 42},
		{"Below range", -5, 0},
		{"Above range", 150, 100},
		{"Lower bound", 0, 0},
		{"Upper bound", 100, 100},
		{"NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Clamp(tt.input, 0, 100)
			if result != tt.expected {
				t.Errorf("Clamp(%v, 0, 100) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Exact match", 100.0, 100.0, 0.01, true},
		{"Within tolerance", 100.0, 100.005, 0.01, true},
		{"At tolerance boundary", 100.0, 100.01, 0.01, true},
		{"Outside tolerance", 100.0, 100.02, 0.01, false},
		{"Negative values within tolerance", -100.0, -100.005, 0.01, true},
		{"Zero tolerance exact", 100.0, 100.0, 0.0, true},
		{"Zero tolerance different", 100.0, 100.001, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Half", 50, 100, 50},
		{"TGE share of supply", 45_000_000, 1_000_000_000, 4.5},
		{"Full", 1_000_000_000, 1_000_000_000, 100},
		{"Zero total", 10, 0, 0},
		{"Zero value", 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"Twenty percent of supply", 1_000_000_000, 20, 200_000_000},
		{"Fifteen percent of supply", 1_000_000_000, 15, 150_000_000},
		{"Five percent of tokens", 150_000_000, 5, 7_500_000},
		{"Zero percent", 1_000_000_000, 0, 0},
		{"Hundred percent", 12345, 100, 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPercentage(tt.value, tt.percentage)
			if result != tt.expected {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v", tt.value, tt.percentage, result, tt.expected)
			}
		})
	}
}
