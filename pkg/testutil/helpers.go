// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// WriteFile writes contents to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(tb testing.TB, name, contents string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		tb.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// SalesCSV renders a single-header sales file starting at start, one row per
// day. columns maps each product to its daily values; order fixes the column order.
func SalesCSV(start time.Time, order []string, columns map[string][]float64) string {
	var b strings.Builder
	b.WriteString("Date")
	rows := 0
	for _, product := range order {
		b.WriteString("," + product)
		if len(columns[product]) > rows {
			rows = len(columns[product])
		}
	}
	b.WriteString("\n")

	for i := 0; i < rows; i++ {
		b.WriteString(start.AddDate(0, 0, i).Format("02/01/2006"))
		for _, product := range order {
			b.WriteString(",")
			if i < len(columns[product]) {
				b.WriteString(fmt.Sprintf("%g", columns[product][i]))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WeeklyPattern returns n values repeating pattern with a linear trend added.
func WeeklyPattern(n int, pattern []float64, trend float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = pattern[i%len(pattern)] + trend*float64(i)
	}
	return values
}
