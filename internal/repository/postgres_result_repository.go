package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackodds/internal/database"
	"github.com/yourusername/trackodds/internal/models"
)

const resultColumns = `
	driver_id::text, race_id::text,
	COALESCE(start_pos, 0), COALESCE(finish_pos, 0),
	COALESCE(laps_led, 0), COALESCE(laps_completed, 0),
	COALESCE(driver_rating, 0)::float8, COALESCE(status, '')
`

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db    *database.DB
	table string
}

// NewPostgresResultRepository creates a new result repository reading from table
func NewPostgresResultRepository(db *database.DB, table string) ResultRepository {
	return &PostgresResultRepository{db: db, table: pgx.Identifier{table}.Sanitize()}
}

func scanResult(row pgx.CollectableRow) (models.ResultRecord, error) {
	var r models.ResultRecord
	err := row.Scan(&r.DriverID, &r.RaceID, &r.StartPos, &r.FinishPos,
		&r.LapsLed, &r.LapsCompleted, &r.DriverRating, &r.Status)
	return r, err
}

func (r *PostgresResultRepository) list(ctx context.Context, where string, args ...any) ([]models.ResultRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resultColumns+` FROM `+r.table+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	results, err := pgx.CollectRows(rows, scanResult)
	if err != nil {
		return nil, fmt.Errorf("failed to scan result: %w", err)
	}
	return results, nil
}

// List retrieves every result
func (r *PostgresResultRepository) List(ctx context.Context) ([]models.ResultRecord, error) {
	return r.list(ctx, "")
}

// ListByDrivers retrieves the results of the given drivers
func (r *PostgresResultRepository) ListByDrivers(ctx context.Context, driverIDs []string) ([]models.ResultRecord, error) {
	if len(driverIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, ` WHERE driver_id::text = ANY($1)`, driverIDs)
}
