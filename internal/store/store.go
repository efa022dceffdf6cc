package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DatabaseName identifies the local time tracker database.
	DatabaseName  = "time-tracker"
	DefaultDBFile = DatabaseName + ".db"

	// SchemaVersion is the only schema version this build declares.
	SchemaVersion = "1"

	// EntriesTable holds the tracked time entries.
	EntriesTable = "tracked_time"
)

var (
	ErrNotOpen         = errors.New("database not opened")
	ErrNotFound        = errors.New("entry not found")
	ErrVersionMismatch = errors.New("schema version mismatch")
)

// CheckExists verifies if the datastore exists at the given path.
// Returns true if the store exists, false otherwise.
func CheckExists(storePath string) (bool, error) {
	dbPath := GetDBPath(storePath)
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetStorePath returns the datastore directory, defaulting to the
// current working directory when none is configured.
func GetStorePath(configured string) string {
	if configured == "" {
		return "."
	}
	return configured
}

// GetDBPath returns the full path to the database file.
func GetDBPath(storePath string) string {
	return filepath.Join(storePath, DefaultDBFile)
}
