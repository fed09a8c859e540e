// Package db provides optional PostgreSQL persistence for pipeline runs and
// their extracted records. The pipelines degrade gracefully when no database
// is configured or reachable.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run kinds stored in pipeline_runs.kind.
const (
	KindScrape = "scrape"
	KindParse  = "parse"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun creates a new pipeline run record and returns its ID.
func (db *DB) CreateRun(ctx context.Context, kind, source string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (kind, source, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		kind, source,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a pipeline run as finished with the given status.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveRecord stores one extracted record as a JSON artifact keyed by the
// identifier that produced it (search query or filename).
func (db *DB) SaveRecord(ctx context.Context, runID uuid.UUID, key, kind string, record any) error {
	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO extracted_records (run_id, record_key, kind, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, record_key, kind) DO UPDATE SET content = $4, created_at = NOW()`,
		runID, key, kind, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", key, err)
	}
	return nil
}
