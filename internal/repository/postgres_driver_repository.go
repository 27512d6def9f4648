package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackodds/internal/database"
	"github.com/yourusername/trackodds/internal/models"
)

const driverColumns = `
	id::text, name, COALESCE(number::text, ''), COALESCE(team, ''),
	COALESCE(manufacturer, ''), COALESCE(is_active, false)
`

// PostgresDriverRepository implements DriverRepository for PostgreSQL
type PostgresDriverRepository struct {
	db *database.DB
}

// NewPostgresDriverRepository creates a new driver repository
func NewPostgresDriverRepository(db *database.DB) DriverRepository {
	return &PostgresDriverRepository{db: db}
}

func scanDriver(row pgx.CollectableRow) (models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.Name, &d.Number, &d.Team, &d.Manufacturer, &d.IsActive)
	return d, err
}

func (r *PostgresDriverRepository) list(ctx context.Context, query string, args ...any) ([]models.Driver, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}

	drivers, err := pgx.CollectRows(rows, scanDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to scan driver: %w", err)
	}
	return drivers, nil
}

// ListActive retrieves active drivers ordered by name
func (r *PostgresDriverRepository) ListActive(ctx context.Context) ([]models.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers WHERE is_active ORDER BY name`)
}

// List retrieves every driver ordered by name
func (r *PostgresDriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY name`)
}

// GetByID retrieves a driver by ID
func (r *PostgresDriverRepository) GetByID(ctx context.Context, id string) (*models.Driver, error) {
	return r.one(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id::text = $1`, id)
}

// FindByName retrieves a driver by case-insensitive full name
func (r *PostgresDriverRepository) FindByName(ctx context.Context, name string) (*models.Driver, error) {
	return r.one(ctx, `SELECT `+driverColumns+` FROM drivers WHERE name ILIKE $1 ORDER BY is_active DESC LIMIT 1`, escapeLike(name))
}

// ListByName retrieves every driver row sharing a name
func (r *PostgresDriverRepository) ListByName(ctx context.Context, name string) ([]models.Driver, error) {
	return r.list(ctx, `SELECT `+driverColumns+` FROM drivers WHERE name ILIKE $1 ORDER BY id`, escapeLike(name))
}

func (r *PostgresDriverRepository) one(ctx context.Context, query string, args ...any) (*models.Driver, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDriver)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}
	return &d, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes an ILIKE pattern match the literal string
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
