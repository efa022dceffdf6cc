package store

import (
	"context"

	"github.com/maloquacious/timetracker/internal/entry"
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing         StoreState = iota // File doesn't exist
	StateUninitialized                     // File exists but no schema
	StateVersionMismatch                   // Schema exists but wrong version
	StateReady                             // Initialized and correct version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StateVersionMismatch:
		return "version-mismatch"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Store defines the time tracker datastore contract.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// InitSchema declares the given schema version with the tracked_time table and its indexes
	InitSchema(version string) error

	// CheckState returns the current state of the datastore
	CheckState() (StoreState, error)

	// GetSchemaVersion returns the current schema version from the database
	GetSchemaVersion() (string, error)

	Entries
}

// Entries is the table surface consumers read and write through.
// Ordering and range lookups are served by the engine's indexes.
type Entries interface {
	// Add inserts a draft and returns it with its storage-assigned id
	Add(ctx context.Context, d entry.Draft) (entry.Entry, error)

	// Get returns the entry with the given id or ErrNotFound
	Get(ctx context.Context, id int64) (entry.Entry, error)

	// Put replaces an existing entry as a whole record and returns it as stored
	Put(ctx context.Context, e entry.Entry) (entry.Entry, error)

	// Delete permanently removes the entry with the given id
	Delete(ctx context.Context, id int64) error

	// List returns every entry ordered by id
	List(ctx context.Context) ([]entry.Entry, error)

	// ListByDate returns the entries whose date falls within r
	ListByDate(ctx context.Context, r entry.Range) ([]entry.Entry, error)

	// ListBySeconds returns the entries with min <= seconds <= max
	ListBySeconds(ctx context.Context, min, max int64) ([]entry.Entry, error)

	// Count returns the number of stored entries
	Count(ctx context.Context) (int64, error)

	// TotalSeconds sums the seconds of the entries within r
	TotalSeconds(ctx context.Context, r entry.Range) (int64, error)
}
