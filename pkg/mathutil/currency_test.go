package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"EMI", 16251.2217, 16251},
		{"Half rounds away from zero", 0.5, 1},
		{"Negative", -85043.98, -85044},
		{"Tiny negative becomes zero", -0.2, 0},
		{"NaN", math.NaN(), 0},
		{"Positive infinity", math.Inf(1), 0},
		{"Negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundUnits(tt.input)
			if result != tt.expected {
				t.Errorf("RoundUnits(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
			if math.Signbit(result) && result == 0 {
				t.Errorf("RoundUnits(%v) returned negative zero", tt.input)
			}
		})
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite(1, 2, 3) {
		t.Error("expected finite values to be reported finite")
	}
	if AllFinite(1, math.NaN()) {
		t.Error("expected NaN to be reported non-finite")
	}
	if AllFinite(math.Inf(-1)) {
		t.Error("expected -Inf to be reported non-finite")
	}
	if !AllFinite() {
		t.Error("expected empty input to be finite")
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Exactly tolerance", 0.01, true},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClampNonNegative(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{53000, 53000},
		{0, 0},
		{-12000, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tt := range tests {
		if result := ClampNonNegative(tt.input); result != tt.expected {
			t.Errorf("ClampNonNegative(%v) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(29150, 29150.4, 1) {
		t.Error("expected values within tolerance")
	}
	if WithinTolerance(29150, 29152, 1) {
		t.Error("expected values outside tolerance")
	}
}

func TestMin(t *testing.T) {
	if Min(200000, 315000) != 200000 {
		t.Error("Min returned wrong value")
	}
	if Min(-1, 0) != -1 {
		t.Error("Min returned wrong value for negative input")
	}
}

func TestApplyPercentage(t *testing.T) {
	if result := ApplyPercentage(500000, 1.5); math.Abs(result-7500) > 1e-9 {
		t.Errorf("ApplyPercentage() = %v, expected 7500", result)
	}
}
