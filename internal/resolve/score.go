// file: internal/resolve/score.go
// version: 1.1.0
// guid: f6b8d0e2-4a6c-4d8e-9f3a-5b7c9d1e3f5a

package resolve

import (
	"math"

	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/textutil"
)

// Query is the noisy title/author pair a candidate is evaluated against.
// Title must be non-empty; Author may be empty, in which case the author
// term contributes zero.
type Query struct {
	Title  string
	Author string
}

// Scoring constants. Title dominates, author is secondary, rating and
// popularity are minor tie-breakers, and the classic bonus is a flat
// additive nudge so it cannot rescue a wildly wrong title/author match.
const (
	minRatingCount = 50
	minAcceptScore = 0.55

	titleWeight      = 0.45
	authorWeight     = 0.35
	ratingWeight     = 0.10
	popularityWeight = 0.10
	classicBonus     = 0.15
)

// ScoreCandidate evaluates one candidate against the query. ok=false marks a
// hard rejection: a non-classic candidate with no rating or too few ratings
// carries insufficient evidence to trust, no matter how close the title is.
// Rejection is distinct from a numeric score of 0, which remains a valid
// (if hopeless) eligible score.
func ScoreCandidate(v catalog.Volume, q Query) (float64, bool) {
	classic := IsClassic(v.PublishedDate, v.Publisher)

	if !classic && (v.AverageRating == nil || v.RatingsCount < minRatingCount) {
		return 0, false
	}

	titleScore := textutil.Ratio(v.Title, q.Title)

	authorScore := 0.0
	if q.Author != "" {
		for _, a := range v.Authors {
			if s := textutil.Ratio(a, q.Author); s > authorScore {
				authorScore = s
			}
		}
	}

	rating := 0.0
	if v.AverageRating != nil {
		rating = *v.AverageRating
	}

	popularity := 0.0
	if v.RatingsCount > 0 {
		popularity = math.Min(1.0, math.Sqrt(float64(v.RatingsCount))/100.0)
	}

	score := titleWeight*titleScore +
		authorWeight*authorScore +
		ratingWeight*(rating/5.0) +
		popularityWeight*popularity
	if classic {
		score += classicBonus
	}
	return score, true
}
