package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackodds/internal/database"
	"github.com/yourusername/trackodds/internal/models"
)

const (
	raceColumns = `id::text, name, scheduled_date, COALESCE(track_id::text, '')`
	errGetRace  = "failed to get race: %w"
)

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

func scanRace(row pgx.CollectableRow) (models.Race, error) {
	var r models.Race
	err := row.Scan(&r.ID, &r.Name, &r.ScheduledDate, &r.TrackID)
	return r, err
}

// List retrieves every race ordered by scheduled date
func (r *PostgresRaceRepository) List(ctx context.Context) ([]models.Race, error) {
	rows, err := r.db.Query(ctx, `SELECT `+raceColumns+` FROM races ORDER BY scheduled_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query races: %w", err)
	}

	races, err := pgx.CollectRows(rows, scanRace)
	if err != nil {
		return nil, fmt.Errorf("failed to scan race: %w", err)
	}
	return races, nil
}

// GetByID retrieves a race by ID
func (r *PostgresRaceRepository) GetByID(ctx context.Context, id string) (*models.Race, error) {
	return r.one(ctx, `SELECT `+raceColumns+` FROM races WHERE id::text = $1`, id)
}

// NextUpcoming retrieves the first race scheduled at or after now
func (r *PostgresRaceRepository) NextUpcoming(ctx context.Context, now time.Time) (*models.Race, error) {
	return r.one(ctx, `
		SELECT `+raceColumns+`
		FROM races
		WHERE scheduled_date >= $1
		ORDER BY scheduled_date
		LIMIT 1
	`, now)
}

func (r *PostgresRaceRepository) one(ctx context.Context, query string, args ...any) (*models.Race, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errGetRace, err)
	}

	race, err := pgx.CollectExactlyOneRow(rows, scanRace)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf(errGetRace, err)
	}
	return &race, nil
}
