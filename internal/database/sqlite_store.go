// file: internal/database/sqlite_store.go
// version: 1.1.0
// guid: b0d2f4a6-8c0e-4f2a-9b7c-9d1e3f5a7b9c

package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/textutil"
)

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		google_id      TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		authors        TEXT,
		published_year INTEGER,
		rating         REAL,
		rating_count   INTEGER,
		categories     TEXT,
		description    TEXT,
		page_count     INTEGER,
		language       TEXT,
		publisher      TEXT,
		preview_link   TEXT,
		source         TEXT NOT NULL,
		updated_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS candidates (
		query_title TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		fetched_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecord upserts the whole record keyed by its external id.
func (s *SQLiteStore) SaveRecord(rec catalog.Record) error {
	if rec.GoogleID == "" {
		return fmt.Errorf("record has no external id")
	}
	authors, err := json.Marshal(rec.Authors)
	if err != nil {
		return fmt.Errorf("failed to marshal authors: %w", err)
	}
	categories, err := json.Marshal(rec.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO records (
			google_id, title, authors, published_year, rating, rating_count,
			categories, description, page_count, language, publisher,
			preview_link, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(google_id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			published_year = excluded.published_year,
			rating = excluded.rating,
			rating_count = excluded.rating_count,
			categories = excluded.categories,
			description = excluded.description,
			page_count = excluded.page_count,
			language = excluded.language,
			publisher = excluded.publisher,
			preview_link = excluded.preview_link,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP`,
		rec.GoogleID, rec.Title, string(authors), rec.PublishedYear, rec.Rating,
		rec.RatingCount, string(categories), rec.Description, rec.PageCount,
		rec.Language, rec.Publisher, rec.PreviewLink, rec.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.GoogleID, err)
	}
	return nil
}

func scanRecord(row *sql.Row) (*catalog.Record, error) {
	var rec catalog.Record
	var authors, categories string
	err := row.Scan(
		&rec.GoogleID, &rec.Title, &authors, &rec.PublishedYear, &rec.Rating,
		&rec.RatingCount, &categories, &rec.Description, &rec.PageCount,
		&rec.Language, &rec.Publisher, &rec.PreviewLink, &rec.Source,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	if err := json.Unmarshal([]byte(authors), &rec.Authors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &rec.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	return &rec, nil
}

const recordSelectColumns = `
	google_id, title, authors, published_year, rating, rating_count,
	categories, description, page_count, language, publisher,
	preview_link, source
`

// GetRecord fetches a record by external id.
func (s *SQLiteStore) GetRecord(googleID string) (*catalog.Record, error) {
	row := s.db.QueryRow(
		"SELECT "+recordSelectColumns+" FROM records WHERE google_id = ?", googleID)
	return scanRecord(row)
}

// ListRecords returns all stored records ordered by external id.
func (s *SQLiteStore) ListRecords() ([]catalog.Record, error) {
	rows, err := s.db.Query(
		"SELECT " + recordSelectColumns + " FROM records ORDER BY google_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var rec catalog.Record
		var authors, categories string
		if err := rows.Scan(
			&rec.GoogleID, &rec.Title, &authors, &rec.PublishedYear, &rec.Rating,
			&rec.RatingCount, &categories, &rec.Description, &rec.PageCount,
			&rec.Language, &rec.Publisher, &rec.PreviewLink, &rec.Source,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		if err := json.Unmarshal([]byte(authors), &rec.Authors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
		}
		if err := json.Unmarshal([]byte(categories), &rec.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRecord removes a record by external id.
func (s *SQLiteStore) DeleteRecord(googleID string) error {
	if _, err := s.db.Exec("DELETE FROM records WHERE google_id = ?", googleID); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", googleID, err)
	}
	return nil
}

// CountRecords returns the number of stored records.
func (s *SQLiteStore) CountRecords() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// SaveCandidates upserts the raw candidate batch for a query title.
func (s *SQLiteStore) SaveCandidates(queryTitle string, volumes []catalog.Volume) error {
	payload, err := json.Marshal(volumes)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates for %q: %w", queryTitle, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO candidates (query_title, payload) VALUES (?, ?)
		ON CONFLICT(query_title) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = CURRENT_TIMESTAMP`,
		textutil.Normalize(queryTitle), string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidates for %q: %w", queryTitle, err)
	}
	return nil
}

// GetCandidates fetches the stored candidate batch for a query title.
func (s *SQLiteStore) GetCandidates(queryTitle string) ([]catalog.Volume, error) {
	var payload string
	err := s.db.QueryRow(
		"SELECT payload FROM candidates WHERE query_title = ?",
		textutil.Normalize(queryTitle),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates for %q: %w", queryTitle, err)
	}

	var volumes []catalog.Volume
	if err := json.Unmarshal([]byte(payload), &volumes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidates for %q: %w", queryTitle, err)
	}
	return volumes, nil
}
