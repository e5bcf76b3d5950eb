package forecast

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/sales-forecast/internal/ingest"
	"github.com/iwvelando/sales-forecast/pkg/mathutil"
	"github.com/iwvelando/sales-forecast/pkg/sarima"
	"github.com/iwvelando/sales-forecast/pkg/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	startDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	pattern   = []float64{12, 15, 11, 20, 30, 42, 18}
)

func loadTable(t *testing.T, order []string, columns map[string][]float64) *ingest.Table {
	t.Helper()
	data := testutil.SalesCSV(startDate, order, columns)
	table, err := ingest.ReadTable(strings.NewReader(data), "sales.csv")
	if err != nil {
		t.Fatalf("failed to read table: %v", err)
	}
	return table
}

func TestForecastSeries(t *testing.T) {
	series := ingest.Series{Product: "Latte"}
	for i, v := range testutil.WeeklyPattern(21, pattern, 0) {
		series.Dates = append(series.Dates, startDate.AddDate(0, 0, i))
		series.Values = append(series.Values, v)
	}

	result, err := ForecastSeries(series, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Product != "Latte" {
		t.Errorf("expected product Latte, got %s", result.Product)
	}
	if len(result.Values) != 10 || len(result.Dates) != 10 {
		t.Fatalf("expected 10 values and dates, got %d and %d", len(result.Values), len(result.Dates))
	}
	for h, date := range result.Dates {
		expected := startDate.AddDate(0, 0, 21+h)
		if !date.Equal(expected) {
			t.Errorf("step %d: expected date %s, got %s", h+1, expected, date)
		}
		if !mathutil.WithinTolerance(result.Values[h], pattern[(21+h)%7], 1e-9) {
			t.Errorf("step %d: expected %.2f, got %.6f", h+1, pattern[(21+h)%7], result.Values[h])
		}
	}
	if result.History.Len() != 21 {
		t.Errorf("expected history of 21 values, got %d", result.History.Len())
	}
}

func TestForecastSeriesErrors(t *testing.T) {
	short := ingest.Series{Product: "Mocha", Values: []float64{1, 2, 3}, Dates: make([]time.Time, 3)}

	tests := []struct {
		name   string
		series ingest.Series
		steps  int
		want   error
	}{
		{name: "No values", series: ingest.Series{Product: "Mocha"}, steps: 7, want: sarima.ErrInsufficientData},
		{name: "Too short", series: short, steps: 7, want: sarima.ErrInsufficientData},
		{name: "Zero steps", series: short, steps: 0, want: sarima.ErrInvalidSteps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ForecastSeries(tt.series, tt.steps)
			var forecastErr *ForecastError
			if !errors.As(err, &forecastErr) {
				t.Fatalf("expected ForecastError, got %v", err)
			}
			if forecastErr.Product != "Mocha" {
				t.Errorf("expected product Mocha, got %s", forecastErr.Product)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetForecastSingleProduct(t *testing.T) {
	table := loadTable(t, []string{"Number Sold"}, map[string][]float64{
		"Number Sold": testutil.WeeklyPattern(14, pattern, 0),
	})

	report, err := GetForecast(context.Background(), zap.NewNop(), table, Options{TrainingWeeks: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Steps != 7 {
		t.Errorf("expected 7 steps, got %d", report.Steps)
	}
	if report.RunID == "" {
		t.Error("expected a run ID")
	}
	croissant := report.Find("Croissant")
	if croissant == nil {
		t.Fatalf("expected a Croissant forecast, got %v", report.Products())
	}
	if len(croissant.Values) != 7 {
		t.Fatalf("expected 7 values, got %d", len(croissant.Values))
	}
	if !croissant.Dates[0].Equal(startDate.AddDate(0, 0, 14)) {
		t.Errorf("expected forecast to start the day after the last row, got %s", croissant.Dates[0])
	}

	weekly := report.WeeklyMap()
	if len(weekly) != 1 {
		t.Fatalf("expected one weekly average, got %v", weekly)
	}
	if got := weekly["Croissant W1"]; !mathutil.WithinTolerance(got, 21.14, 1e-9) {
		t.Errorf("expected Croissant W1 = 21.14, got %v", got)
	}
}

func TestGetForecastPartialFailure(t *testing.T) {
	sparse := make([]float64, 28)
	for i := range sparse {
		sparse[i] = math.NaN()
	}
	copy(sparse, []float64{3, 1, 4, 1, 5})

	table := loadTable(t, []string{"Latte", "Scone", "Mocha"}, map[string][]float64{
		"Latte": testutil.WeeklyPattern(28, pattern, 0.5),
		"Scone": sparse,
		"Mocha": testutil.WeeklyPattern(28, pattern, 0),
	})

	core, logs := observer.New(zapcore.WarnLevel)
	report, err := GetForecast(context.Background(), zap.New(core), table, Options{TrainingWeeks: 2, Workers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	products := report.Products()
	if len(products) != 2 || products[0] != "Latte" || products[1] != "Mocha" {
		t.Errorf("expected [Latte Mocha] in column order, got %v", products)
	}
	if report.Find("Scone") != nil {
		t.Error("expected no Scone forecast")
	}
	if len(report.Failures) != 1 || report.Failures[0].Product != "Scone" {
		t.Fatalf("expected Scone to fail, got %v", report.Failures)
	}
	if !errors.Is(report.Failures[0].Err, sarima.ErrInsufficientData) {
		t.Errorf("expected insufficient data, got %v", report.Failures[0].Err)
	}
	if logs.FilterField(zap.String("op", "forecast.GetForecast")).Len() != 1 {
		t.Errorf("expected one warning for the failed product, got %d", logs.Len())
	}

	weekly := report.WeeklyMap()
	for _, label := range []string{"Latte W1", "Latte W2", "Mocha W1", "Mocha W2"} {
		if _, ok := weekly[label]; !ok {
			t.Errorf("expected weekly average %s", label)
		}
	}
	if _, ok := weekly["Scone W1"]; ok {
		t.Error("expected no weekly average for Scone")
	}
	if got := weekly["Mocha W2"]; !mathutil.WithinTolerance(got, 21.14, 1e-9) {
		t.Errorf("expected Mocha W2 = 21.14, got %v", got)
	}
	if len(report.Weekly) != 4 || report.Weekly[0].Label != "Latte W1" || report.Weekly[3].Label != "Mocha W2" {
		t.Errorf("unexpected weekly order: %v", report.Weekly)
	}
}

func TestGetForecastPreservesColumnOrder(t *testing.T) {
	order := []string{"E", "D", "C", "B", "A"}
	columns := make(map[string][]float64, len(order))
	for i, product := range order {
		columns[product] = testutil.WeeklyPattern(21, pattern, float64(i))
	}
	table := loadTable(t, order, columns)

	report, err := GetForecast(context.Background(), nil, table, Options{TrainingWeeks: 1, Workers: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products := report.Products()
	if len(products) != len(order) {
		t.Fatalf("expected %d products, got %v", len(order), products)
	}
	for i := range order {
		if products[i] != order[i] {
			t.Errorf("position %d: expected %s, got %s", i, order[i], products[i])
		}
	}
}

func TestGetForecastErrors(t *testing.T) {
	table := loadTable(t, []string{"Latte"}, map[string][]float64{
		"Latte": testutil.WeeklyPattern(14, pattern, 0),
	})

	if _, err := GetForecast(context.Background(), nil, nil, Options{TrainingWeeks: 1}); err == nil {
		t.Error("expected an error without a table")
	}
	if _, err := GetForecast(context.Background(), nil, table, Options{TrainingWeeks: 0}); err == nil {
		t.Error("expected an error for zero weeks")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetForecast(ctx, nil, table, Options{TrainingWeeks: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
