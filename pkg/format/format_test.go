package format

import (
	"math"
	"testing"
)

func TestWeekLabel(t *testing.T) {
	tests := []struct {
		product  string
		week     int
		expected string
	}{
		{"Croissant", 1, "Croissant W1"},
		{"Latte", 12, "Latte W12"},
		{"Hot Chocolate", 3, "Hot Chocolate W3"},
	}

	for _, tt := range tests {
		if result := WeekLabel(tt.product, tt.week); result != tt.expected {
			t.Errorf("WeekLabel(%q, %d) = %q, expected %q", tt.product, tt.week, result, tt.expected)
		}
	}
}

func TestPlain(t *testing.T) {
	if result := Plain(1234.5); result != "1234.50" {
		t.Errorf("Plain() = %q, expected 1234.50", result)
	}
	if result := Plain(math.NaN()); result != "" {
		t.Errorf("Plain(NaN) = %q, expected empty", result)
	}
}
