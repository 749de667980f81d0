// file: internal/database/pebble_store.go
// version: 1.1.0
// guid: a9c1e3f5-7b9d-4e1f-8a6b-8c0d2e4f6a8b

package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/textutil"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - record:<google_id>        -> Record JSON
// - candidates:<query title>  -> []Volume JSON (query title normalized)
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func recordKey(googleID string) []byte {
	return []byte("record:" + googleID)
}

func candidatesKey(queryTitle string) []byte {
	return []byte("candidates:" + textutil.Normalize(queryTitle))
}

// SaveRecord writes the whole record under its external id, replacing any
// previous version.
func (p *PebbleStore) SaveRecord(rec catalog.Record) error {
	if rec.GoogleID == "" {
		return fmt.Errorf("record has no external id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", rec.GoogleID, err)
	}
	if err := p.db.Set(recordKey(rec.GoogleID), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.GoogleID, err)
	}
	return nil
}

// GetRecord fetches a record by external id.
func (p *PebbleStore) GetRecord(googleID string) (*catalog.Record, error) {
	value, closer, err := p.db.Get(recordKey(googleID))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", googleID, err)
	}
	defer closer.Close()

	var rec catalog.Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", googleID, err)
	}
	return &rec, nil
}

// ListRecords returns all stored records in key order.
func (p *PebbleStore) ListRecords() ([]catalog.Record, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("record:"),
		UpperBound: []byte("record;"), // ';' sorts just after ':'
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var records []catalog.Record
	for iter.First(); iter.Valid(); iter.Next() {
		var rec catalog.Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record at %s: %w", iter.Key(), err)
		}
		records = append(records, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterator error: %w", err)
	}
	return records, nil
}

// DeleteRecord removes a record by external id. Deleting a missing record is
// not an error.
func (p *PebbleStore) DeleteRecord(googleID string) error {
	if err := p.db.Delete(recordKey(googleID), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", googleID, err)
	}
	return nil
}

// CountRecords returns the number of stored records.
func (p *PebbleStore) CountRecords() (int, error) {
	records, err := p.ListRecords()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// SaveCandidates writes the raw candidate batch for a query, replacing any
// previous batch for the same (normalized) title.
func (p *PebbleStore) SaveCandidates(queryTitle string, volumes []catalog.Volume) error {
	data, err := json.Marshal(volumes)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates for %q: %w", queryTitle, err)
	}
	if err := p.db.Set(candidatesKey(queryTitle), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write candidates for %q: %w", queryTitle, err)
	}
	return nil
}

// GetCandidates fetches the stored candidate batch for a query title.
func (p *PebbleStore) GetCandidates(queryTitle string) ([]catalog.Volume, error) {
	value, closer, err := p.db.Get(candidatesKey(queryTitle))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates for %q: %w", queryTitle, err)
	}
	defer closer.Close()

	var volumes []catalog.Volume
	if err := json.Unmarshal(value, &volumes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidates for %q: %w", queryTitle, err)
	}
	return volumes, nil
}
