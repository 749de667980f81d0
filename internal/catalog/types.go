// file: internal/catalog/types.go
// version: 1.2.0
// guid: 9a1b3c5d-7e9f-4a2b-8c4d-6e8f0a2b4c6d

package catalog

import "strconv"

// Volume is one external-catalog candidate as returned by a search, not yet
// accepted or rejected. Fields mirror the Google Books volume payload;
// anything the catalog omitted stays at its zero value.
type Volume struct {
	ID            string
	Title         string
	Authors       []string
	PublishedDate string
	AverageRating *float64
	RatingsCount  int
	Categories    []string
	Description   string
	PageCount     int
	Language      string
	Publisher     string
	PreviewLink   string
}

// Record is the canonical shape an accepted candidate is normalized into.
// Immutable once created; persisted by the record store keyed by GoogleID.
type Record struct {
	GoogleID      string   `json:"google_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedYear int      `json:"published_year,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	RatingCount   int      `json:"rating_count,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Language      string   `json:"language,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PreviewLink   string   `json:"preview_link,omitempty"`
	Source        string   `json:"raw_source"`
}

// FirstAuthor returns the first listed author, or empty string.
func (r Record) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	return r.Authors[0]
}

// ExtractYear pulls the leading 4-digit year out of a publishedDate string
// ("1866", "1866-11", "1866-11-02"). ok is false when the prefix is absent
// or not four digits; signs are not digits, so "-500" does not parse.
func ExtractYear(publishedDate string) (int, bool) {
	if len(publishedDate) < 4 {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if publishedDate[i] < '0' || publishedDate[i] > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(publishedDate[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
