// file: internal/database/store.go
// version: 1.1.0
// guid: f8b0d2e4-6a8c-4d0e-9f5a-7b9c1d3e5f7a

package database

import (
	"errors"
	"fmt"

	"github.com/librorank/librorank/internal/catalog"
)

// ErrNotFound is returned when a record or candidate set does not exist.
var ErrNotFound = errors.New("not found")

// Store persists resolved catalog records and raw candidate audit batches.
// This abstraction allows us to support both PebbleDB (default) and SQLite3.
// Record writes are whole-record with overwrite-by-id semantics.
type Store interface {
	// Lifecycle
	Close() error

	// Resolved records, keyed by the catalog's external id
	SaveRecord(rec catalog.Record) error
	GetRecord(googleID string) (*catalog.Record, error)
	ListRecords() ([]catalog.Record, error)
	DeleteRecord(googleID string) error
	CountRecords() (int, error)

	// Raw candidate batches, keyed by the query title (audit trail)
	SaveCandidates(queryTitle string, volumes []catalog.Volume) error
	GetCandidates(queryTitle string) ([]catalog.Volume, error)
}

// GlobalStore is the initialized store used by the CLI and the server.
var GlobalStore Store

// InitializeStore opens the configured store implementation.
func InitializeStore(dbType, path string) error {
	var err error
	switch dbType {
	case "", "pebble":
		GlobalStore, err = NewPebbleStore(path)
	case "sqlite", "sqlite3":
		GlobalStore, err = NewSQLiteStore(path)
	default:
		return fmt.Errorf("unknown database type: %s", dbType)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s store at %s: %w", dbType, path, err)
	}
	return nil
}

// CloseStore closes the global store if one is open.
func CloseStore() error {
	if GlobalStore == nil {
		return nil
	}
	err := GlobalStore.Close()
	GlobalStore = nil
	return err
}
