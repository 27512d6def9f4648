// Package service is the data access layer behind the TrackOdds pages. Store
// reads that fail are logged, counted and replaced with an empty value or a
// documented default; they never reach the pages as errors.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackodds/internal/config"
	"github.com/yourusername/trackodds/internal/logger"
	"github.com/yourusername/trackodds/internal/metrics"
	"github.com/yourusername/trackodds/internal/models"
	"github.com/yourusername/trackodds/internal/repository"
	"github.com/yourusername/trackodds/internal/stats"
)

// Options holds the settings the data layer needs from configuration
type Options struct {
	DefaultRaceID        string
	Market               string
	// Sportsbooks are the board display columns; best odds use every book
	Sportsbooks          []models.Sportsbook
	HistoryStart         time.Time
	DefaultTrack         models.UpcomingTrack
	DNFPositionThreshold int
	MovementAlertPercent float64
	AlertLimit           int
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		DefaultRaceID: "daytona-500-2026",
		Market:        models.MarketRaceWinner,
		Sportsbooks:   models.Sportsbooks[:5],
		HistoryStart:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		DefaultTrack: models.UpcomingTrack{
			TrackID:   "daytona",
			TrackName: "Daytona International Speedway",
			TrackType: models.TrackTypeSuperspeedway,
		},
		DNFPositionThreshold: stats.DefaultDNFThreshold,
		MovementAlertPercent: 10,
		AlertLimit:           5,
	}
}

// OptionsFromConfig builds Options from a loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefaultRaceID:        cfg.Odds.DefaultRaceID,
		Market:               cfg.Odds.Market,
		Sportsbooks:          cfg.Odds.Books(),
		HistoryStart:         cfg.Stats.HistoryStartDate(),
		DefaultTrack:         cfg.Stats.DefaultUpcomingTrack(),
		DNFPositionThreshold: cfg.Stats.DNFPositionThreshold,
		MovementAlertPercent: cfg.Odds.MovementAlertPercent,
		AlertLimit:           cfg.Odds.AlertLimit,
	}
}

// DataService reads and joins the TrackOdds schema for the pages
type DataService struct {
	repos      *repository.Repositories
	opts       Options
	calculator *stats.Calculator
	queryLog   *logger.QueryLogger
	logger     *logrus.Logger
	now        func() time.Time
}

// NewDataService creates a new data service
func NewDataService(repos *repository.Repositories, opts Options, log *logrus.Logger) *DataService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DataService{
		repos:      repos,
		opts:       opts,
		calculator: stats.NewCalculator(opts.DNFPositionThreshold),
		queryLog:   logger.NewQueryLogger(log),
		logger:     log,
		now:        time.Now,
	}
}

// Options returns the service settings
func (s *DataService) Options() Options {
	return s.opts
}

// Calculator returns the stats calculator configured with the DNF threshold
func (s *DataService) Calculator() *stats.Calculator {
	return s.calculator
}

// SetClock replaces the time source
func (s *DataService) SetClock(now func() time.Time) {
	s.now = now
}

// readList runs a list read, degrading to an empty slice when it fails.
// ok is false when the read failed.
func readList[T any](ctx context.Context, s *DataService, query string, fn func(context.Context) ([]T, error)) (items []T, ok bool) {
	start := time.Now()
	items, err := fn(ctx)
	elapsed := time.Since(start)
	metrics.RecordStoreQuery(query, elapsed.Seconds())

	if err != nil {
		s.fail(query, err, "empty list")
		return []T{}, false
	}
	if items == nil {
		items = []T{}
	}
	s.queryLog.LogQueryComplete(query, len(items), elapsed)
	return items, true
}

// readOne runs a single-row read. Not found is returned as models.ErrNotFound
// without being counted as a failure.
func readOne[T any](ctx context.Context, s *DataService, query string, fn func(context.Context) (*T, error)) (*T, error) {
	start := time.Now()
	item, err := fn(ctx)
	elapsed := time.Since(start)
	metrics.RecordStoreQuery(query, elapsed.Seconds())

	switch {
	case errors.Is(err, models.ErrNotFound):
		s.queryLog.LogQueryComplete(query, 0, elapsed)
		return nil, models.ErrNotFound
	case err != nil:
		return nil, err
	}
	s.queryLog.LogQueryComplete(query, 1, elapsed)
	return item, nil
}

func (s *DataService) fail(query string, err error, fallback string) {
	metrics.RecordStoreQueryFailure(query)
	s.queryLog.LogQueryFailure(query, err)
	s.queryLog.LogFallback(query, fallback)
}
