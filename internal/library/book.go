// file: internal/library/book.go
// version: 1.0.0
// guid: d2f4b6c8-0e2a-4b4c-9d9e-1f3a5b7c9d1e

package library

import "time"

// Read status values, matching the StoryGraph export vocabulary.
const (
	StatusToRead           = "to-read"
	StatusCurrentlyReading = "currently-reading"
	StatusRead             = "read"
	StatusDNF              = "dnf"
)

// Book is one reading-list entry.
type Book struct {
	Title        string     `json:"title"`
	Authors      string     `json:"authors"`
	ISBN         string     `json:"isbn"`
	ReadStatus   string     `json:"read_status"`
	StarRating   *float64   `json:"star_rating,omitempty"`
	LastDateRead *time.Time `json:"last_date_read,omitempty"`
	ProgressPct  float64    `json:"progress_pct"`
	PagesRead    int        `json:"pages_read"`
	TotalPages   int        `json:"total_pages"`
}
