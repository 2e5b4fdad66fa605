// Package history persists saved tree records in a single key-value slot,
// mirroring the app's on-device storage: one key holding a JSON array,
// always read whole and written whole.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// storageKey is the single slot the saved-records array lives under.
const storageKey = "savedRecommendations"

// Store is a SQLite-backed key-value store for saved tree records.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: history database path is empty", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns all saved records. A missing key is an empty list, not an
// error.
func (s *Store) List(ctx context.Context) ([]model.SavedTreeRecord, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE key = ?`, storageKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.SavedTreeRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read saved records: %v", common.ErrStorageFailure, err)
	}

	var records []model.SavedTreeRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: saved records corrupted: %v", common.ErrStorageFailure, err)
	}
	return records, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*model.SavedTreeRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: record %s", common.ErrNotFound, id)
}

// Save appends a new record with a time-based id. Both name and photoURI
// are required; the array is rewritten whole so a failed write never leaves
// a partial record behind.
func (s *Store) Save(ctx context.Context, name, photoURI string, payload model.RouteParams) (*model.SavedTreeRecord, error) {
	if name == "" || photoURI == "" {
		return nil, common.NewUserError(
			"Missing info: please provide both a tree name and a photo",
			common.ErrMissingInfo)
	}

	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := model.SavedTreeRecord{
		ID:        model.NewRecordID(now),
		Name:      name,
		ImageURI:  photoURI,
		Timestamp: now.UnixMilli(),
		Payload:   payload,
	}
	records = append(records, record)

	if err := s.writeAll(ctx, records); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes the record with the given id and rewrites the array.
func (s *Store) Delete(ctx context.Context, id string) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}

	filtered := records[:0:0]
	for _, r := range records {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == len(records) {
		return fmt.Errorf("%w: record %s", common.ErrNotFound, id)
	}

	return s.writeAll(ctx, filtered)
}

func (s *Store) writeAll(ctx context.Context, records []model.SavedTreeRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode saved records: %v", common.ErrStorageFailure, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		storageKey, string(raw))
	if err != nil {
		return fmt.Errorf("%w: failed to write saved records: %v", common.ErrStorageFailure, err)
	}
	return nil
}
