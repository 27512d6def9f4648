package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/trackodds/internal/database"
)

// PostgresSchemaInspector implements SchemaInspector using information_schema
type PostgresSchemaInspector struct {
	db *database.DB
}

// NewPostgresSchemaInspector creates a new schema inspector
func NewPostgresSchemaInspector(db *database.DB) SchemaInspector {
	return &PostgresSchemaInspector{db: db}
}

// Columns lists the columns of a table in ordinal order
func (s *PostgresSchemaInspector) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}

	cols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan columns of %s: %w", table, err)
	}
	return cols, nil
}

// TableExists reports whether a table is present in the current schema
func (s *PostgresSchemaInspector) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}
