// Package format provides string formatting helpers for report labels and numbers.
package format

import (
	"fmt"
	"math"
)

// WeekLabel returns the label used for one weekly average, e.g. "Croissant W1".
func WeekLabel(product string, week int) string {
	return fmt.Sprintf("%s W%d", product, week)
}

// Plain returns a number with two decimals and no separators, as written to CSV.
func Plain(amount float64) string {
	if math.IsNaN(amount) {
		return ""
	}
	return fmt.Sprintf("%.2f", amount)
}
