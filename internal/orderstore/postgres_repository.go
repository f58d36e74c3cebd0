// internal/orderstore/postgres_repository.go
package orderstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"rank-boost/internal/models"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresRepository stores each order as a row. The record column is JSON, not
// JSONB, so the document keeps its key order; id, status and created_at_ms are
// copied out for querying.
type PostgresRepository struct {
	db    *sql.DB
	table string
}

func NewPostgresRepository(db *sql.DB, table string) (*PostgresRepository, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresRepository{db: db, table: table}, nil
}

// EnsureSchema creates the orders table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            TEXT PRIMARY KEY,
			created_at_ms BIGINT NOT NULL,
			status        TEXT NOT NULL,
			record        JSON NOT NULL
		)`, r.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, o *models.Order) error {
	data, err := encodeOrder(o)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}

	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, created_at_ms, status, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, record = EXCLUDED.record`, r.table),
		o.ID, o.Timestamp, o.Status, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *PostgresRepository) LoadAll(ctx context.Context) (*LoadResult, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, record FROM %s ORDER BY id`, r.table))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	result := &LoadResult{}
	for rows.Next() {
		var (
			id     string
			record []byte
		)
		if err := rows.Scan(&id, &record); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result.add(id, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return result, nil
}

// Close is a no-op; the pool is owned by the caller.
func (r *PostgresRepository) Close() error { return nil }
