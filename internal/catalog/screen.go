// file: internal/catalog/screen.go
// version: 1.0.0
// guid: d4f6b8c0-2e4a-4b6c-9d1e-3f5a7b9c1d3e

package catalog

import (
	"strings"

	"github.com/librorank/librorank/internal/textutil"
)

// minDiscoveryPages filters out pamphlets and excerpts from discovery search.
const minDiscoveryPages = 50

// ScreenVolumes applies the discovery-search filters: English language only,
// at least minDiscoveryPages pages when a page count is present, the query
// must appear in the title, and the volume must carry either categories or a
// description. Order is preserved.
func ScreenVolumes(volumes []Volume, query string) []Volume {
	q := strings.ToLower(query)
	kept := make([]Volume, 0, len(volumes))
	for _, v := range volumes {
		if v.Language != "en" {
			continue
		}
		if v.PageCount > 0 && v.PageCount < minDiscoveryPages {
			continue
		}
		if !strings.Contains(strings.ToLower(v.Title), q) {
			continue
		}
		if len(v.Categories) == 0 && v.Description == "" {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// NormalizeGenres lowercases and trims category strings, dropping blanks.
func NormalizeGenres(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		c = textutil.Normalize(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// FilterByGenre keeps records whose normalized categories contain the genre
// as a substring. An empty genre keeps everything.
func FilterByGenre(records []Record, genre string) []Record {
	genre = textutil.Normalize(genre)
	if genre == "" {
		return records
	}
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		for _, g := range NormalizeGenres(r.Categories) {
			if strings.Contains(g, genre) {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}
