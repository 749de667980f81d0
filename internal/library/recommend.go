// file: internal/library/recommend.go
// version: 1.1.0
// guid: b8d0f2a4-6c8e-4f0a-9b3d-5e7f9a1b3d5f

package library

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/librorank/librorank/internal/textutil"
)

// recencyHalfLifeDays controls how fast a finished book stops influencing
// recommendations: a book read this many days ago counts half as much as
// one finished today.
const recencyHalfLifeDays = 180

// readRatingWeight and readRecencyWeight combine a read book's normalized
// rating and recency into its shelf score.
const (
	readRatingWeight  = 0.7
	readRecencyWeight = 0.3
)

// topPickPool is how many of the best TBR entries RecommendOne draws from.
const topPickPool = 5

// Scored pairs a library entry with its computed recommendation score.
type Scored struct {
	Book  Book
	Score float64
}

// normalizeRatings min-max scales the star ratings of the given books into
// [0, 1]. When every rating is identical (or absent) each book gets 1.
func normalizeRatings(books []Book) map[int]float64 {
	min, max := math.Inf(1), math.Inf(-1)
	for _, b := range books {
		if b.StarRating == nil {
			continue
		}
		if *b.StarRating < min {
			min = *b.StarRating
		}
		if *b.StarRating > max {
			max = *b.StarRating
		}
	}
	norm := make(map[int]float64, len(books))
	for i, b := range books {
		if b.StarRating == nil || max <= min {
			norm[i] = 1
			continue
		}
		norm[i] = (*b.StarRating - min) / (max - min)
	}
	return norm
}

// recencyDecay returns an exponential decay in (0, 1] from the last-read
// date, halving every recencyHalfLifeDays. Books never dated score 0.
func recencyDecay(lastRead *time.Time, now time.Time) float64 {
	if lastRead == nil {
		return 0
	}
	days := now.Sub(*lastRead).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Pow(0.5, days/recencyHalfLifeDays)
}

// ScoreReadBooks ranks the read shelf by rating and recency, best first.
func ScoreReadBooks(books []Book, now time.Time) []Scored {
	norm := normalizeRatings(books)
	out := make([]Scored, 0, len(books))
	for i, b := range books {
		if b.ReadStatus != StatusRead {
			continue
		}
		score := readRatingWeight*norm[i] + readRecencyWeight*recencyDecay(b.LastDateRead, now)
		out = append(out, Scored{Book: b, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// ScoreTBRBooks ranks the to-read shelf by author affinity: a TBR entry
// inherits the mean shelf score of read books by the same author, falling
// back to the overall read-shelf mean for unfamiliar authors. Best first.
func ScoreTBRBooks(books []Book, now time.Time) []Scored {
	read := ScoreReadBooks(books, now)

	byAuthor := make(map[string][]float64)
	total := 0.0
	for _, s := range read {
		key := textutil.Normalize(s.Book.Authors)
		byAuthor[key] = append(byAuthor[key], s.Score)
		total += s.Score
	}
	overallMean := 0.0
	if len(read) > 0 {
		overallMean = total / float64(len(read))
	}

	out := make([]Scored, 0, len(books))
	for _, b := range books {
		if b.ReadStatus != StatusToRead {
			continue
		}
		score := overallMean
		if scores, ok := byAuthor[textutil.Normalize(b.Authors)]; ok {
			sum := 0.0
			for _, s := range scores {
				sum += s
			}
			score = sum / float64(len(scores))
		}
		out = append(out, Scored{Book: b, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// RecommendOne picks tonight's read: a score-weighted random draw from the
// top of the ranked TBR shelf. Returns false when the shelf is empty.
func RecommendOne(ranked []Scored, rng *rand.Rand) (Scored, bool) {
	if len(ranked) == 0 {
		return Scored{}, false
	}
	pool := ranked
	if len(pool) > topPickPool {
		pool = pool[:topPickPool]
	}
	total := 0.0
	for _, s := range pool {
		total += s.Score
	}
	if total <= 0 {
		return pool[rng.Intn(len(pool))], true
	}
	draw := rng.Float64() * total
	for _, s := range pool {
		draw -= s.Score
		if draw <= 0 {
			return s, true
		}
	}
	return pool[len(pool)-1], true
}

// Recommend ranks the TBR shelf and draws one pick. The returned slice is
// the full ranking for display alongside the pick.
func (l *Library) Recommend(rng *rand.Rand) ([]Scored, Scored, bool) {
	books := l.Books()
	ranked := ScoreTBRBooks(books, time.Now())
	pick, ok := RecommendOne(ranked, rng)
	return ranked, pick, ok
}
