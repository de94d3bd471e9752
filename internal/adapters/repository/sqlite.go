package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/pkg/metrics"
)

// chartSchema contains the DDL executed on first open. Using IF NOT
// EXISTS makes it safe to run on every startup. created_at holds unix
// nanoseconds so recency ordering never depends on string formats.
const chartSchema = `
CREATE TABLE IF NOT EXISTS charts (
    id         TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    document   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS charts_created_at ON charts (created_at DESC, id);
`

// SQLiteStore is a durable chart archive in a local SQLite database in
// WAL mode. Charts are stored as JSON documents keyed by ID.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath, enables WAL
// mode and a busy timeout, and creates the schema if it does not exist.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}

	// SQLite supports a single writer; one connection avoids
	// SQLITE_BUSY contention between pooled connections that would each
	// need their own PRAGMA setup. WAL still gives crash-safe writes
	// and non-blocking external readers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("repository: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, chartSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.Save as an upsert on the chart ID.
func (s *SQLiteStore) Save(ctx context.Context, chart model.BirthChart) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	if chart.ID == "" {
		metrics.RecordStoreError()
		metrics.RecordErrorByComponent("repository", "missing_id")
		return ErrMissingID
	}
	doc, err := json.Marshal(chart)
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("repository: encode chart %q: %w", chart.ID, err)
	}

	const q = `
		INSERT INTO charts (id, created_at, document) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at, document = excluded.document`
	if _, err := s.db.ExecContext(ctx, q, chart.ID, chart.CreatedAt.UTC().UnixNano(), string(doc)); err != nil {
		metrics.RecordStoreError()
		metrics.RecordErrorByComponent("repository", "save_failed")
		return fmt.Errorf("repository: save chart %q: %w", chart.ID, err)
	}
	metrics.UpdateStoredCharts(s.Count(ctx))
	return nil
}

// Get implements Store.Get.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.BirthChart, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM charts WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.BirthChart{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.BirthChart{}, fmt.Errorf("repository: get chart %q: %w", id, err)
	}

	var chart model.BirthChart
	if err := json.Unmarshal([]byte(doc), &chart); err != nil {
		metrics.RecordStoreError()
		return model.BirthChart{}, fmt.Errorf("repository: decode chart %q: %w", id, err)
	}
	return chart, nil
}

// Recent implements Store.Recent.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]model.BirthChart, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT document FROM charts ORDER BY created_at DESC, id LIMIT ?", n)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("repository: query recent charts: %w", err)
	}
	defer rows.Close()

	out := make([]model.BirthChart, 0, n)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("repository: scan chart: %w", err)
		}
		var chart model.BirthChart
		if err := json.Unmarshal([]byte(doc), &chart); err != nil {
			metrics.RecordStoreError()
			return nil, fmt.Errorf("repository: decode chart: %w", err)
		}
		out = append(out, chart)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("repository: iterate charts: %w", err)
	}
	return out, nil
}

// Count implements Store.Count. Errors read as an empty archive.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM charts").Scan(&count); err != nil {
		return 0
	}
	return count
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
