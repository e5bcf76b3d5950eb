// Package dashboard holds the state behind the sales dashboard: the most
// recently loaded table, the requested number of training weeks and the
// report computed from them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/iwvelando/sales-forecast/internal/ingest"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/validation"
	"go.uber.org/zap"
)

// ErrNoTable is returned when a forecast is requested before any file loaded.
var ErrNoTable = errors.New("no sales data loaded")

// Options configures a Session.
type Options struct {
	TrainingWeeks int
	Workers       int
	MaxFileSize   int64
}

// Session is the single-user dashboard state. Every action runs to
// completion before returning; a failed action leaves the state as it was.
type Session struct {
	mu     sync.RWMutex
	logger *zap.Logger
	loader ingest.Loader
	opts   Options

	table  *ingest.Table
	report *forecast.Report
}

// New returns an empty session. Zero options fall back to the defaults.
func New(logger *zap.Logger, opts Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TrainingWeeks == 0 {
		opts.TrainingWeeks = constants.DefaultTrainingWeeks
	}
	if opts.Workers < 1 {
		opts.Workers = constants.DefaultWorkers
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = constants.DefaultMaxFileSizeBytes
	}
	return &Session{
		logger: logger,
		loader: ingest.Loader{MaxFileSize: opts.MaxFileSize},
		opts:   opts,
	}
}

// Load reads path, replaces the current table and recomputes the report.
// On any error the previous table and report are kept.
func (s *Session) Load(ctx context.Context, path string) (*forecast.Report, error) {
	s.logger.Debug(fmt.Sprintf("loading sales data from %s", path),
		zap.String("op", "dashboard.Load"),
	)

	table, err := s.loader.Load(path)
	if err != nil {
		s.logger.Error("failed to load sales data",
			zap.String("op", "dashboard.Load"),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.run(ctx, table, s.opts.TrainingWeeks)
	if err != nil {
		return nil, err
	}
	s.table = table
	s.report = report

	s.logger.Info(fmt.Sprintf("loaded %d rows and %d products", table.Len(), len(table.Products)),
		zap.String("op", "dashboard.Load"),
		zap.String("path", path),
	)
	return report, nil
}

// SetTrainingWeeks changes the forecast horizon and recomputes the report
// for the loaded table, if any.
func (s *Session) SetTrainingWeeks(ctx context.Context, weeks int) (*forecast.Report, error) {
	if err := validation.ValidateTrainingWeeks(weeks); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		s.opts.TrainingWeeks = weeks
		return nil, nil
	}

	report, err := s.run(ctx, s.table, weeks)
	if err != nil {
		return nil, err
	}
	s.opts.TrainingWeeks = weeks
	s.report = report
	return report, nil
}

// Refresh recomputes the report for the loaded table.
func (s *Session) Refresh(ctx context.Context) (*forecast.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, ErrNoTable
	}
	report, err := s.run(ctx, s.table, s.opts.TrainingWeeks)
	if err != nil {
		return nil, err
	}
	s.report = report
	return report, nil
}

func (s *Session) run(ctx context.Context, table *ingest.Table, weeks int) (*forecast.Report, error) {
	report, err := forecast.GetForecast(ctx, s.logger, table, forecast.Options{
		TrainingWeeks: weeks,
		Workers:       s.opts.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute forecast: %w", err)
	}
	return report, nil
}

// Table returns the loaded table, or nil.
func (s *Session) Table() *ingest.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Report returns the latest report, or nil.
func (s *Session) Report() *forecast.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// TrainingWeeks returns the current forecast horizon in weeks.
func (s *Session) TrainingWeeks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.TrainingWeeks
}
