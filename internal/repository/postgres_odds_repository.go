package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackodds/internal/database"
	"github.com/yourusername/trackodds/internal/models"
)

const oddsColumns = `driver_id::text, race_id::text, sportsbook, COALESCE(market, ''), odds, created_at`

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

func scanQuote(row pgx.CollectableRow) (models.OddsQuote, error) {
	var q models.OddsQuote
	err := row.Scan(&q.DriverID, &q.RaceID, &q.Sportsbook, &q.Market, &q.Odds, &q.CreatedAt)
	return q, err
}

// ListByRace retrieves every quote for a race, newest first
func (r *PostgresOddsRepository) ListByRace(ctx context.Context, raceID string) ([]models.OddsQuote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+oddsColumns+`
		FROM odds
		WHERE race_id::text = $1
		ORDER BY created_at DESC
	`, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds: %w", err)
	}

	quotes, err := pgx.CollectRows(rows, scanQuote)
	if err != nil {
		return nil, fmt.Errorf("failed to scan odds: %w", err)
	}
	return quotes, nil
}

// LatestForDriver retrieves the newest quote for a driver in a race
func (r *PostgresOddsRepository) LatestForDriver(ctx context.Context, driverID, raceID string) (*models.OddsQuote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+oddsColumns+`
		FROM odds
		WHERE driver_id::text = $1 AND race_id::text = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, driverID, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest odds: %w", err)
	}

	q, err := pgx.CollectExactlyOneRow(rows, scanQuote)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest odds: %w", err)
	}
	return &q, nil
}
