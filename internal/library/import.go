// file: internal/library/import.go
// version: 1.0.0
// guid: a7c9e1f3-5b7d-4e9f-8a2c-4d6e8f0a2c4e

package library

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/librorank/librorank/internal/metrics"
)

// readExportCSV parses a raw reading-app export by header name, so the
// export's column order and extra columns do not matter. Only the columns
// the tracker uses are picked up.
func readExportCSV(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, required := range []string{"Title", "Read Status"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("export missing %q column", required)
		}
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	books := make([]Book, 0, len(rows)-1)
	for _, row := range rows[1:] {
		b := Book{
			Title:      field(row, "Title"),
			Authors:    field(row, "Authors"),
			ISBN:       field(row, "ISBN/UID"),
			ReadStatus: field(row, "Read Status"),
		}
		if s := field(row, "Star Rating"); s != "" {
			if rating, err := strconv.ParseFloat(s, 64); err == nil {
				b.StarRating = &rating
			}
		}
		if s := field(row, "Last Date Read"); s != "" {
			if d, err := time.Parse(dateLayout, s); err == nil {
				b.LastDateRead = &d
			}
		}
		books = append(books, b)
	}
	return books, nil
}

// CleanBooks filters a raw reading-app export down to the shelves the
// tracker cares about: only read and currently-reading entries survive,
// missing star ratings are filled with the mean of the rated books, and
// entries without an ISBN receive a generated ULID.
func CleanBooks(books []Book) []Book {
	kept := make([]Book, 0, len(books))
	ratingSum := 0.0
	rated := 0
	for _, b := range books {
		if b.ReadStatus != StatusRead && b.ReadStatus != StatusCurrentlyReading {
			continue
		}
		if b.StarRating != nil {
			ratingSum += *b.StarRating
			rated++
		}
		kept = append(kept, b)
	}

	mean := 0.0
	if rated > 0 {
		mean = ratingSum / float64(rated)
	}
	for i := range kept {
		if kept[i].StarRating == nil {
			m := mean
			kept[i].StarRating = &m
		}
		if kept[i].ISBN == "" {
			kept[i].ISBN = ulid.Make().String()
		}
	}
	return kept
}

// ImportCSV loads a raw export from src, cleans it, and replaces the
// library contents. Returns how many entries were kept.
func (l *Library) ImportCSV(src string) (int, error) {
	raw, err := readExportCSV(src)
	if err != nil {
		return 0, err
	}
	cleaned := CleanBooks(raw)
	log.Printf("[INFO] library: imported %d of %d entries from %s", len(cleaned), len(raw), src)

	l.mu.Lock()
	l.books = cleaned
	l.mu.Unlock()
	metrics.SetLibraryBooks(len(cleaned))
	return len(cleaned), nil
}
