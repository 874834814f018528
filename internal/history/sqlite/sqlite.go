// Package sqlite provides a SQLite implementation of the history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pfadmin/pfadmin/internal/history"
	"github.com/pfadmin/pfadmin/pkg/types"
	_ "modernc.org/sqlite"
)

const recordColumns = `id, operation, endpoint, variables, status, row_count, error, latency_ms, created_at`

// SQLiteStorage implements history.Store using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite storage instance.
func New(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStorage{
		db:   db,
		path: path,
	}, nil
}

// Init initializes the database schema.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	// Check current schema version
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		// Table doesn't exist, run all migrations
		version = 0
	}

	// Run migrations that haven't been applied
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Add stores a record.
func (s *SQLiteStorage) Add(ctx context.Context, rec *types.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Operation, rec.Endpoint, string(rec.Variables), rec.Status, rec.Rows, rec.Error, rec.LatencyMs, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*types.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// GetByPrefix retrieves the record whose ID starts with prefix. A prefix
// shared by several records is an error.
func (s *SQLiteStorage) GetByPrefix(ctx context.Context, prefix string) (*types.Record, error) {
	if prefix == "" {
		return nil, history.ErrEmptyID
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records WHERE substr(id, 1, length(?)) = ? ORDER BY created_at DESC LIMIT 2
	`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	defer rows.Close()

	var matches []*types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to get record: %w", err)
		}
		matches = append(matches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", history.ErrAmbiguousPrefix, prefix)
	}
}

// List returns the most recent records first. A non-positive limit
// returns every record.
func (s *SQLiteStorage) List(ctx context.Context, limit int) ([]*types.Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM records ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a record.
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*types.Record, error) {
	var (
		rec       types.Record
		endpoint  sql.NullString
		variables sql.NullString
		errText   sql.NullString
		createdAt time.Time
	)
	if err := sc.Scan(&rec.ID, &rec.Operation, &endpoint, &variables, &rec.Status, &rec.Rows, &errText, &rec.LatencyMs, &createdAt); err != nil {
		return nil, err
	}
	rec.Endpoint = endpoint.String
	if variables.Valid && variables.String != "" {
		rec.Variables = []byte(variables.String)
	}
	rec.Error = errText.String
	rec.CreatedAt = createdAt
	return &rec, nil
}
