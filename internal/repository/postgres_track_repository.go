package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackodds/internal/database"
	"github.com/yourusername/trackodds/internal/models"
)

const trackColumns = `id::text, name, COALESCE(type, ''), COALESCE(length, 0)::float8`

// PostgresTrackRepository implements TrackRepository for PostgreSQL
type PostgresTrackRepository struct {
	db *database.DB
}

// NewPostgresTrackRepository creates a new track repository
func NewPostgresTrackRepository(db *database.DB) TrackRepository {
	return &PostgresTrackRepository{db: db}
}

// scanTrack leaves Type unset; classification happens in the service layer
func scanTrack(row pgx.CollectableRow) (models.Track, error) {
	var t models.Track
	err := row.Scan(&t.ID, &t.Name, &t.RawType, &t.Length)
	return t, err
}

// List retrieves every track ordered by name
func (r *PostgresTrackRepository) List(ctx context.Context) ([]models.Track, error) {
	rows, err := r.db.Query(ctx, `SELECT `+trackColumns+` FROM tracks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}

	tracks, err := pgx.CollectRows(rows, scanTrack)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return tracks, nil
}

// GetByID retrieves a track by ID
func (r *PostgresTrackRepository) GetByID(ctx context.Context, id string) (*models.Track, error) {
	rows, err := r.db.Query(ctx, `SELECT `+trackColumns+` FROM tracks WHERE id::text = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTrack)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return &t, nil
}
