package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested snapshot doesn't exist
	ErrNotFound = errors.New("not found")
)

// Snapshot holds the last successful fetch of one remote source. Payload is
// the parsed entries serialized as JSON, so the server can keep answering
// from the snapshot when the source is unreachable.
type Snapshot struct {
	Source    string // source key, e.g. "docs" or "sdk/ios"
	Payload   []byte
	ETag      string // entity tag from the upstream response, if any
	FetchedAt time.Time
}

// Store persists source snapshots between runs.
type Store interface {
	// PutSnapshot inserts or replaces the snapshot for its source key.
	PutSnapshot(ctx context.Context, snap *Snapshot) error

	// GetSnapshot returns the snapshot for source, or ErrNotFound.
	GetSnapshot(ctx context.Context, source string) (*Snapshot, error)

	// ListSnapshots returns all snapshots ordered by source key.
	ListSnapshots(ctx context.Context) ([]*Snapshot, error)

	// DeleteSnapshot removes the snapshot for source. Deleting a missing
	// snapshot is not an error.
	DeleteSnapshot(ctx context.Context, source string) error

	Close() error
}
