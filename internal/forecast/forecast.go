// Package forecast fits a seasonal model to every product of a sales table
// and reports daily forecasts together with their weekly averages.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/sales-forecast/internal/ingest"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/iwvelando/sales-forecast/pkg/sarima"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Forecast holds the outcome for one product. Err is set when the model
// could not be fitted, in which case Dates and Values are empty.
type Forecast struct {
	Product string
	History ingest.Series
	Dates   []time.Time
	Values  []float64
	Err     error
}

// Failed reports whether the product could not be forecast.
func (f Forecast) Failed() bool {
	return f.Err != nil
}

// ForecastError reports a product whose model fit or forecast failed.
type ForecastError struct {
	Product string
	Err     error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast failed for %s: %v", e.Product, e.Err)
}

// Unwrap exposes the model error.
func (e *ForecastError) Unwrap() error {
	return e.Err
}

// Options controls one forecast run.
type Options struct {
	// TrainingWeeks is the number of weeks to forecast; each week is seven daily steps.
	TrainingWeeks int
	// Workers bounds how many products are fitted at once.
	Workers int
}

// Report is the result of one run over a table. Forecasts and Weekly follow
// the table's column order; failed products appear only in Failures.
type Report struct {
	RunID         string
	Source        string
	TrainingWeeks int
	Steps         int
	Forecasts     []Forecast
	Failures      []Forecast
	Weekly        []WeeklyAverage
	Duration      time.Duration
}

// ForecastSeries fits the weekly seasonal model to series and forecasts
// steps days past its last date.
func ForecastSeries(series ingest.Series, steps int) (Forecast, error) {
	result := Forecast{Product: series.Product, History: series}
	if steps < 1 {
		return result, &ForecastError{Product: series.Product, Err: sarima.ErrInvalidSteps}
	}
	if series.Len() == 0 {
		return result, &ForecastError{Product: series.Product, Err: fmt.Errorf("%w: no numeric values", sarima.ErrInsufficientData)}
	}

	values, err := sarima.Forecast(series.Values, steps)
	if err != nil {
		return result, &ForecastError{Product: series.Product, Err: err}
	}

	result.Values = values
	result.Dates = datetime.FollowingDays(series.LastDate(), steps)
	return result, nil
}

// GetForecast forecasts every product of table. A product that cannot be
// fitted is logged and reported in Failures without affecting the others.
// The returned error is reserved for invalid arguments and cancellation.
func GetForecast(ctx context.Context, logger *zap.Logger, table *ingest.Table, opts Options) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		return nil, errors.New("no table loaded")
	}
	if opts.TrainingWeeks < 1 {
		return nil, fmt.Errorf("training weeks must be at least 1, got %d", opts.TrainingWeeks)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = constants.DefaultWorkers
	}

	start := time.Now()
	runID := uuid.NewString()
	steps := opts.TrainingWeeks * constants.DaysPerWeek
	runLogger := logger.With(
		zap.String("run_id", runID),
		zap.String("source", table.Source),
	)

	results := make([]Forecast, len(table.Products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, product := range table.Products {
		i, product := i, product
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			series, err := table.Series(product)
			if err != nil {
				results[i] = Forecast{Product: product, Err: &ForecastError{Product: product, Err: err}}
				return nil
			}

			result, err := ForecastSeries(series, steps)
			if err != nil {
				result.Err = err
				runLogger.Warn(fmt.Sprintf("skipping product %s because its forecast failed", product),
					zap.String("op", "forecast.GetForecast"),
					zap.Int("observations", series.Len()),
					zap.Error(err),
				)
			} else {
				runLogger.Debug(fmt.Sprintf("forecast %d steps for product %s", steps, product),
					zap.String("op", "forecast.GetForecast"),
					zap.Int("observations", series.Len()),
				)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:         runID,
		Source:        table.Source,
		TrainingWeeks: opts.TrainingWeeks,
		Steps:         steps,
	}
	for _, result := range results {
		if result.Failed() {
			report.Failures = append(report.Failures, result)
			continue
		}
		report.Forecasts = append(report.Forecasts, result)
		report.Weekly = append(report.Weekly, WeeklyAverages(result.Product, result.Values, opts.TrainingWeeks)...)
	}
	report.Duration = time.Since(start)

	runLogger.Info("forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("products", len(report.Forecasts)),
		zap.Int("failures", len(report.Failures)),
		zap.Int("steps", steps),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

// Find returns the successful forecast for product, or nil.
func (r *Report) Find(product string) *Forecast {
	for i := range r.Forecasts {
		if r.Forecasts[i].Product == product {
			return &r.Forecasts[i]
		}
	}
	return nil
}

// Products lists the successfully forecast products in column order.
func (r *Report) Products() []string {
	names := make([]string, 0, len(r.Forecasts))
	for _, f := range r.Forecasts {
		names = append(names, f.Product)
	}
	return names
}
