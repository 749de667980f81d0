// file: internal/resolve/classic.go
// version: 1.0.0
// guid: e5a7c9d1-3f5b-4c7d-8e2f-4a6b8c0d2e4f

package resolve

import (
	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/textutil"
)

// classicYearCutoff marks the out-of-print era: anything published at or
// before this year is treated as a classic regardless of reader ratings.
const classicYearCutoff = 1950

// classicPublishers is a closed set of classic-literature imprints. Matching
// is exact on the normalized publisher name, no fuzziness.
var classicPublishers = map[string]struct{}{
	"penguin":                 {},
	"oxford university press": {},
	"everyman's library":      {},
	"modern library":          {},
	"vintage":                 {},
}

// IsClassic reports whether a candidate looks like a classic or out-of-print
// work: published in or before the cutoff year, or issued by a known
// classic-literature imprint. Candidates with no parseable year and an
// unlisted publisher are not classics.
func IsClassic(publishedDate, publisher string) bool {
	if year, ok := catalog.ExtractYear(publishedDate); ok && year <= classicYearCutoff {
		return true
	}
	_, listed := classicPublishers[textutil.Normalize(publisher)]
	return listed
}
