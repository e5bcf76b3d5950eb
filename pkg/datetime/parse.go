// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/sales-forecast/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in input files and is also the
	// output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// dayFirstLayouts lists the accepted input layouts in the order they are tried.
// Single-digit day and month fields also match zero-padded values.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2006-1-2",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2006-1-2 15:04:05",
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDayFirst parses a date written day before month, e.g. 13/01/2024.
// ISO dates (2024-01-13) are accepted as well since they are unambiguous.
func ParseDayFirst(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised day-first date %q", value)
}

// FollowingDays returns the n consecutive days after last.
func FollowingDays(last time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	days := make([]time.Time, n)
	for i := range days {
		days[i] = last.AddDate(0, 0, i+1)
	}
	return days
}

// Format renders a date in DateTimeLayout.
func Format(t time.Time) string {
	return t.Format(DateTimeLayout)
}
