package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore creates a new SQLite snapshot store instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PutSnapshot inserts or replaces the snapshot for its source key
func (s *SQLiteStore) PutSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap.Source == "" {
		return fmt.Errorf("snapshot source cannot be empty")
	}
	query := `
		INSERT INTO snapshots (source, payload, etag, fetched_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			payload = excluded.payload,
			etag = excluded.etag,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC()
	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = now
	}
	_, err := s.db.ExecContext(ctx, query,
		snap.Source, string(snap.Payload), snap.ETag, fetchedAt, now)
	if err != nil {
		return fmt.Errorf("failed to put snapshot %s: %w", snap.Source, err)
	}
	return nil
}

// GetSnapshot returns the snapshot for source, or ErrNotFound
func (s *SQLiteStore) GetSnapshot(ctx context.Context, source string) (*Snapshot, error) {
	query := `
		SELECT source, payload, COALESCE(etag, ''), fetched_at
		FROM snapshots
		WHERE source = ?
	`
	var snap Snapshot
	var payload string
	err := s.db.QueryRowContext(ctx, query, source).Scan(
		&snap.Source, &payload, &snap.ETag, &snap.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", source, err)
	}
	snap.Payload = []byte(payload)
	return &snap, nil
}

// ListSnapshots returns all snapshots ordered by source key
func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]*Snapshot, error) {
	query := `
		SELECT source, payload, COALESCE(etag, ''), fetched_at
		FROM snapshots
		ORDER BY source
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []*Snapshot
	for rows.Next() {
		var snap Snapshot
		var payload string
		if err := rows.Scan(&snap.Source, &payload, &snap.ETag, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.Payload = []byte(payload)
		snaps = append(snaps, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return snaps, nil
}

// DeleteSnapshot removes the snapshot for source
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", source, err)
	}
	return nil
}
