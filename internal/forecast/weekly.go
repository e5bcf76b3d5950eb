package forecast

import (
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/format"
	"github.com/iwvelando/sales-forecast/pkg/mathutil"
)

// WeeklyAverage is the mean forecast of one product over one week.
type WeeklyAverage struct {
	Product string
	Week    int // 1-based
	Label   string
	Mean    float64
}

// WeeklyAverages averages consecutive seven-day blocks of values, one per
// week, rounded to two decimals. A short final block is averaged over the
// values it has; weeks with no values are left out.
func WeeklyAverages(product string, values []float64, weeks int) []WeeklyAverage {
	averages := make([]WeeklyAverage, 0, weeks)
	for w := 0; w < weeks; w++ {
		lo := w * constants.DaysPerWeek
		if lo >= len(values) {
			break
		}
		hi := min(lo+constants.DaysPerWeek, len(values))
		averages = append(averages, WeeklyAverage{
			Product: product,
			Week:    w + 1,
			Label:   format.WeekLabel(product, w+1),
			Mean:    mathutil.Round(mathutil.Mean(values[lo:hi])),
		})
	}
	return averages
}

// WeeklyMap returns the weekly averages keyed by label, e.g. "Croissant W1".
func (r *Report) WeeklyMap() map[string]float64 {
	m := make(map[string]float64, len(r.Weekly))
	for _, avg := range r.Weekly {
		m[avg.Label] = avg.Mean
	}
	return m
}
