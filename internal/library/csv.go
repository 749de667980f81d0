// file: internal/library/csv.go
// version: 1.1.0
// guid: e3a5c7d9-1f3b-4c5d-8e0f-2a4b6c8d0e2f

package library

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// csvHeader is the on-disk column layout, compatible with a StoryGraph
// export plus the progress columns the tracker maintains.
var csvHeader = []string{
	"Title", "Authors", "ISBN/UID", "Read Status", "Star Rating",
	"Last Date Read", "Progress (%)", "Pages Read", "Total Pages",
}

const dateLayout = "2006-01-02"

func parseBookRow(row []string) (Book, error) {
	if len(row) < len(csvHeader) {
		return Book{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(row))
	}
	b := Book{
		Title:      row[0],
		Authors:    row[1],
		ISBN:       row[2],
		ReadStatus: row[3],
	}
	if row[4] != "" {
		rating, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return Book{}, fmt.Errorf("bad star rating %q: %w", row[4], err)
		}
		b.StarRating = &rating
	}
	if row[5] != "" {
		d, err := time.Parse(dateLayout, row[5])
		if err != nil {
			return Book{}, fmt.Errorf("bad last date read %q: %w", row[5], err)
		}
		b.LastDateRead = &d
	}
	if row[6] != "" {
		p, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return Book{}, fmt.Errorf("bad progress %q: %w", row[6], err)
		}
		b.ProgressPct = p
	}
	if row[7] != "" {
		n, err := strconv.Atoi(row[7])
		if err != nil {
			return Book{}, fmt.Errorf("bad pages read %q: %w", row[7], err)
		}
		b.PagesRead = n
	}
	if row[8] != "" {
		n, err := strconv.Atoi(row[8])
		if err != nil {
			return Book{}, fmt.Errorf("bad total pages %q: %w", row[8], err)
		}
		b.TotalPages = n
	}
	return b, nil
}

func bookRow(b Book) []string {
	rating := ""
	if b.StarRating != nil {
		rating = strconv.FormatFloat(*b.StarRating, 'f', -1, 64)
	}
	lastRead := ""
	if b.LastDateRead != nil {
		lastRead = b.LastDateRead.Format(dateLayout)
	}
	return []string{
		b.Title, b.Authors, b.ISBN, b.ReadStatus, rating, lastRead,
		strconv.FormatFloat(b.ProgressPct, 'f', -1, 64),
		strconv.Itoa(b.PagesRead),
		strconv.Itoa(b.TotalPages),
	}
}

func readBooksCSV(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse library file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	books := make([]Book, 0, len(rows)-1)
	for i, row := range rows[1:] {
		b, err := parseBookRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		books = append(books, b)
	}
	return books, nil
}

func writeBooksCSV(path string, books []Book) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create library file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, b := range books {
		if err := w.Write(bookRow(b)); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row for %q: %w", b.Title, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush library file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close library file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace library file: %w", err)
	}
	return nil
}
