// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/iwvelando/sales-forecast/pkg/format"
	"github.com/iwvelando/sales-forecast/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders report to w in the named output format.
func Write(w io.Writer, outputFormat string, report *forecast.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatYAML:
		return YamlFormat(w, report)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report *forecast.Report) error {
	p := message.NewPrinter(language.English)
	for i, result := range report.Forecasts {
		if i > 0 {
			_, _ = fmt.Fprintf(w, "\n")
		}
		_, _ = fmt.Fprintf(w, "--- Forecast for %s ---\n", result.Product)
		_, _ = fmt.Fprintf(w, "Date       | Forecast\n")
		_, _ = fmt.Fprintf(w, "__________ | ________\n")
		for h, date := range result.Dates {
			_, _ = p.Fprintf(w, "%s | %.2f\n", datetime.Format(date), result.Values[h])
		}
	}

	if len(report.Weekly) > 0 {
		_, _ = fmt.Fprintf(w, "\n--- Weekly averages (%d weeks) ---\n", report.TrainingWeeks)
		width := 0
		for _, avg := range report.Weekly {
			if len(avg.Label) > width {
				width = len(avg.Label)
			}
		}
		for _, avg := range report.Weekly {
			_, _ = p.Fprintf(w, "%s | %.2f\n", fmt.Sprintf("%-*s", width, avg.Label), avg.Mean)
		}
	}

	if len(report.Failures) > 0 {
		_, _ = fmt.Fprintf(w, "\n--- Skipped products ---\n")
		for _, failed := range report.Failures {
			_, _ = fmt.Fprintf(w, "%s: %v\n", failed.Product, failed.Err)
		}
	}

	_, err := fmt.Fprintf(w, "\nrun %s computed in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	return err
}

// CsvFormat outputs one row per date with the actual and forecast value of
// every product, ready to chart.
func CsvFormat(w io.Writer, report *forecast.Report) error {
	cw := csv.NewWriter(w)

	header := []string{"date"}
	actual := make([]map[time.Time]float64, len(report.Forecasts))
	predicted := make([]map[time.Time]float64, len(report.Forecasts))
	dateSet := make(map[time.Time]struct{})
	for i, result := range report.Forecasts {
		header = append(header,
			fmt.Sprintf("%s (actual)", result.Product),
			fmt.Sprintf("%s (forecast)", result.Product),
		)
		actual[i] = make(map[time.Time]float64, result.History.Len())
		for j, date := range result.History.Dates {
			actual[i][date] = result.History.Values[j]
			dateSet[date] = struct{}{}
		}
		predicted[i] = make(map[time.Time]float64, len(result.Dates))
		for j, date := range result.Dates {
			predicted[i][date] = result.Values[j]
			dateSet[date] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(a, b int) bool {
		return dates[a].Before(dates[b])
	})

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, date := range dates {
		row := []string{datetime.Format(date)}
		for i := range report.Forecasts {
			row = append(row, cell(actual[i], date), cell(predicted[i], date))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(values map[time.Time]float64, date time.Time) string {
	v, ok := values[date]
	if !ok {
		return ""
	}
	return format.Plain(v)
}

type yamlReport struct {
	RunID         string             `yaml:"runId"`
	Source        string             `yaml:"source,omitempty"`
	TrainingWeeks int                `yaml:"trainingWeeks"`
	Steps         int                `yaml:"steps"`
	Weekly        map[string]float64 `yaml:"weekly"`
	Forecasts     []yamlForecast     `yaml:"forecasts"`
	Failures      []yamlFailure      `yaml:"failures,omitempty"`
}

type yamlForecast struct {
	Product string      `yaml:"product"`
	Points  []yamlPoint `yaml:"points"`
}

type yamlPoint struct {
	Date  string  `yaml:"date"`
	Value float64 `yaml:"value"`
}

type yamlFailure struct {
	Product string `yaml:"product"`
	Error   string `yaml:"error"`
}

// YamlFormat outputs the weekly averages and daily forecasts as YAML.
func YamlFormat(w io.Writer, report *forecast.Report) error {
	doc := yamlReport{
		RunID:         report.RunID,
		Source:        report.Source,
		TrainingWeeks: report.TrainingWeeks,
		Steps:         report.Steps,
		Weekly:        report.WeeklyMap(),
		Forecasts:     make([]yamlForecast, 0, len(report.Forecasts)),
	}
	for _, result := range report.Forecasts {
		f := yamlForecast{Product: result.Product, Points: make([]yamlPoint, len(result.Dates))}
		for h, date := range result.Dates {
			f.Points[h] = yamlPoint{Date: datetime.Format(date), Value: mathutil.Round(result.Values[h])}
		}
		doc.Forecasts = append(doc.Forecasts, f)
	}
	for _, failed := range report.Failures {
		doc.Failures = append(doc.Failures, yamlFailure{Product: failed.Product, Error: failed.Err.Error()})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
