// Package repository provides read-only access to the TrackOdds schema.
package repository

import (
	"fmt"

	"github.com/yourusername/trackodds/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Driver DriverRepository
	Track  TrackRepository
	Race   RaceRepository
	Odds   OddsRepository
	Result ResultRepository
	Schema SchemaInspector
}

// NewRepositories creates Postgres-backed repositories. resultsTable names the
// table holding race results.
func NewRepositories(db *database.DB, resultsTable string) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if resultsTable == "" {
		resultsTable = TableResults
	}

	return &Repositories{
		Driver: NewPostgresDriverRepository(db),
		Track:  NewPostgresTrackRepository(db),
		Race:   NewPostgresRaceRepository(db),
		Odds:   NewPostgresOddsRepository(db),
		Result: NewPostgresResultRepository(db, resultsTable),
		Schema: NewPostgresSchemaInspector(db),
	}, nil
}

// NewMemoryRepositories creates repositories backed by an in-memory store
func NewMemoryRepositories(store *MemoryStore) *Repositories {
	return &Repositories{
		Driver: &memoryDrivers{store},
		Track:  &memoryTracks{store},
		Race:   &memoryRaces{store},
		Odds:   &memoryOdds{store},
		Result: &memoryResults{store},
		Schema: &memorySchema{store},
	}
}
