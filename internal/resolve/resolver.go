// file: internal/resolve/resolver.go
// version: 1.2.0
// guid: a7c9e1f3-5b7d-4e9f-8a4b-6c8d0e2f4a6b

package resolve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/librorank/librorank/internal/cache"
	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/metrics"
	"github.com/librorank/librorank/internal/textutil"
)

// resolvedTTL is how long an accepted record is served from cache before
// the catalog is consulted again.
const resolvedTTL = time.Hour

// ErrNoMatch is the legitimate "nothing convincing out there" outcome:
// either the catalog returned no candidates, every candidate was rejected by
// the evidence gate, or the best survivor fell below the acceptance
// threshold. Distinct from a fetch failure, which wraps the transport error.
var ErrNoMatch = errors.New("no acceptable match")

// Fetcher is the external catalog collaborator. A catalog with zero matches
// must return an empty slice, not an error.
type Fetcher interface {
	Name() string
	Search(ctx context.Context, title, author string, maxResults int) ([]catalog.Volume, error)
}

// RecordStore persists resolution output. Writes are whole-record with
// overwrite-by-id semantics; candidate writes are an audit trail.
type RecordStore interface {
	SaveRecord(rec catalog.Record) error
	SaveCandidates(queryTitle string, volumes []catalog.Volume) error
}

// Resolver runs the candidate reconciliation pipeline for one query at a
// time: fetch, score, gate, normalize, persist. It holds no mutable state
// across queries, so independent queries may run on separate resolvers (or
// share one) concurrently.
type Resolver struct {
	fetcher    Fetcher
	store      RecordStore
	maxResults int
	resolved   *cache.Cache[catalog.Record]
}

// NewResolver creates a resolver. store may be nil, in which case resolution
// results are returned but not persisted.
func NewResolver(fetcher Fetcher, store RecordStore) *Resolver {
	return &Resolver{
		fetcher:    fetcher,
		store:      store,
		maxResults: 10,
		resolved:   cache.New[catalog.Record](resolvedTTL),
	}
}

func cacheKey(title, author string) string {
	return textutil.Normalize(title) + "|" + textutil.Normalize(author)
}

type scoredVolume struct {
	volume catalog.Volume
	score  float64
}

// PickBest scores every candidate, discards rejections, and returns the
// highest scorer if it clears the acceptance threshold. The sort is stable,
// so ties preserve original fetch order. ok=false means no match.
func PickBest(volumes []catalog.Volume, q Query) (catalog.Volume, float64, bool) {
	scored := make([]scoredVolume, 0, len(volumes))
	for _, v := range volumes {
		if s, ok := ScoreCandidate(v, q); ok {
			scored = append(scored, scoredVolume{volume: v, score: s})
		}
	}
	if len(scored) == 0 {
		return catalog.Volume{}, 0, false
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	best := scored[0]
	if best.score < minAcceptScore {
		return catalog.Volume{}, 0, false
	}
	return best.volume, best.score, true
}

// NormalizeVolume maps a candidate into the canonical record shape. The
// publication year is re-derived from the date string rather than copied.
// Pure mapping; call it only on accepted candidates.
func NormalizeVolume(v catalog.Volume) catalog.Record {
	year, _ := catalog.ExtractYear(v.PublishedDate)
	return catalog.Record{
		GoogleID:      v.ID,
		Title:         v.Title,
		Authors:       v.Authors,
		PublishedYear: year,
		Rating:        v.AverageRating,
		RatingCount:   v.RatingsCount,
		Categories:    v.Categories,
		Description:   v.Description,
		PageCount:     v.PageCount,
		Language:      v.Language,
		Publisher:     v.Publisher,
		PreviewLink:   v.PreviewLink,
		Source:        "google_books",
	}
}

// Resolve reconciles one (title, author) query to at most one authoritative
// catalog record. Fetch failures are returned wrapped; an unconvincing
// result set yields ErrNoMatch, never an empty record.
func (r *Resolver) Resolve(ctx context.Context, title, author string) (*catalog.Record, error) {
	if title == "" {
		return nil, fmt.Errorf("empty title")
	}

	if rec, ok := r.resolved.Get(cacheKey(title, author)); ok {
		log.Printf("[DEBUG] resolve: cache hit for %q / %q", title, author)
		return &rec, nil
	}

	metrics.IncResolutionStarted()
	log.Printf("[INFO] resolve: %s lookup for %q / %q", r.fetcher.Name(), title, author)

	fetchStart := time.Now()
	volumes, err := r.fetcher.Search(ctx, title, author, r.maxResults)
	metrics.ObserveFetchDuration(time.Since(fetchStart))
	if err != nil {
		metrics.IncResolutionFailed()
		return nil, fmt.Errorf("catalog fetch for %q: %w", title, err)
	}

	if r.store != nil {
		if err := r.store.SaveCandidates(title, volumes); err != nil {
			log.Printf("[WARN] resolve: candidate audit write failed for %q: %v", title, err)
		}
	}

	best, score, ok := PickBest(volumes, Query{Title: title, Author: author})
	if !ok {
		metrics.IncResolutionNoMatch()
		log.Printf("[INFO] resolve: no acceptable match for %q among %d candidates", title, len(volumes))
		return nil, fmt.Errorf("resolving %q: %w", title, ErrNoMatch)
	}

	rec := NormalizeVolume(best)
	if r.store != nil {
		if err := r.store.SaveRecord(rec); err != nil {
			return nil, fmt.Errorf("persisting record %s: %w", rec.GoogleID, err)
		}
	}

	r.resolved.Set(cacheKey(title, author), rec)

	metrics.IncResolutionAccepted()
	log.Printf("[INFO] resolve: picked %q | publisher=%s | score=%.3f | year=%d",
		rec.Title, rec.Publisher, score, rec.PublishedYear)
	return &rec, nil
}
