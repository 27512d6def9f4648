package repository

import (
	"context"
	"time"

	"github.com/yourusername/trackodds/internal/models"
)

// Table names of the external schema
const (
	TableDrivers = "drivers"
	TableTracks  = "tracks"
	TableRaces   = "races"
	TableOdds    = "odds"
	TableResults = "results"
)

// ResultsTableCandidates are the table names the results may live under
var ResultsTableCandidates = []string{"race_results", "results", "driver_results", "race_result", "season_results"}

// DriverRepository defines read access to drivers
type DriverRepository interface {
	ListActive(ctx context.Context) ([]models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	GetByID(ctx context.Context, id string) (*models.Driver, error)
	// FindByName matches the full name case-insensitively
	FindByName(ctx context.Context, name string) (*models.Driver, error)
	ListByName(ctx context.Context, name string) ([]models.Driver, error)
}

// TrackRepository defines read access to tracks
type TrackRepository interface {
	List(ctx context.Context) ([]models.Track, error)
	GetByID(ctx context.Context, id string) (*models.Track, error)
}

// RaceRepository defines read access to the race schedule
type RaceRepository interface {
	// List returns every race ordered by scheduled date
	List(ctx context.Context) ([]models.Race, error)
	GetByID(ctx context.Context, id string) (*models.Race, error)
	// NextUpcoming returns the first race scheduled at or after now
	NextUpcoming(ctx context.Context, now time.Time) (*models.Race, error)
}

// OddsRepository defines read access to odds quotes
type OddsRepository interface {
	// ListByRace returns every quote for a race, newest first
	ListByRace(ctx context.Context, raceID string) ([]models.OddsQuote, error)
	LatestForDriver(ctx context.Context, driverID, raceID string) (*models.OddsQuote, error)
}

// ResultRepository defines read access to race results
type ResultRepository interface {
	List(ctx context.Context) ([]models.ResultRecord, error)
	ListByDrivers(ctx context.Context, driverIDs []string) ([]models.ResultRecord, error)
}

// SchemaInspector reports on the shape of the external schema
type SchemaInspector interface {
	Columns(ctx context.Context, table string) ([]string, error)
	TableExists(ctx context.Context, table string) (bool, error)
}
