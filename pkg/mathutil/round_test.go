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
		{"Negative number round up", -1.235, -1.24},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Very small negative", -0.001, 0.00},
		{"Nearly two hundredths", 0.019, 0.02},
		{"Repeating fraction", 34.0 / 3.0, 11.33},
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

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"Single value", []float64{4}, 4},
		{"Whole week", []float64{1, 2, 3, 4, 5, 6, 7}, 4},
		{"Partial block", []float64{10, 11}, 10.5},
		{"Negative values", []float64{-2, 2, -4}, -4.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.input)
			if !WithinTolerance(result, tt.expected, 1e-12) {
				t.Errorf("Mean(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}

	if !math.IsNaN(Mean(nil)) {
		t.Errorf("Mean(nil) should be NaN")
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Zero", 0, true},
		{"Positive", 12.5, true},
		{"NaN", math.NaN(), false},
		{"Positive infinity", math.Inf(1), false},
		{"Negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsFinite(tt.input); result != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}

	if !AllFinite([]float64{1, 2, 3}) {
		t.Errorf("AllFinite() should accept finite values")
	}
	if AllFinite([]float64{1, math.NaN()}) {
		t.Errorf("AllFinite() should reject NaN")
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
		{"Equal values", 1.0, 1.0, 0.01, true},
		{"Within tolerance", 1.0, 1.005, 0.01, true},
		{"Outside tolerance", 1.0, 1.02, 0.01, false},
		{"Negative values", -1.0, -1.005, 0.01, true},
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
