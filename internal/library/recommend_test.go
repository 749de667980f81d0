// file: internal/library/recommend_test.go
// version: 1.0.0
// guid: d0f2a4b6-8e0a-4b2c-9d5f-7a9b1c3d5e7f

package library

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingPtr(r float64) *float64 { return &r }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNormalizeRatings(t *testing.T) {
	books := []Book{
		{Title: "a", StarRating: ratingPtr(1)},
		{Title: "b", StarRating: ratingPtr(3)},
		{Title: "c", StarRating: ratingPtr(5)},
		{Title: "d"},
	}
	norm := normalizeRatings(books)
	assert.Equal(t, 0.0, norm[0])
	assert.Equal(t, 0.5, norm[1])
	assert.Equal(t, 1.0, norm[2])
	assert.Equal(t, 1.0, norm[3], "unrated books default to 1")
}

func TestNormalizeRatingsAllEqual(t *testing.T) {
	books := []Book{
		{Title: "a", StarRating: ratingPtr(4)},
		{Title: "b", StarRating: ratingPtr(4)},
	}
	norm := normalizeRatings(books)
	assert.Equal(t, 1.0, norm[0])
	assert.Equal(t, 1.0, norm[1])
}

func TestRecencyDecay(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, recencyDecay(nil, now))
	assert.Equal(t, 1.0, recencyDecay(&now, now))

	halfLifeAgo := now.AddDate(0, 0, -recencyHalfLifeDays)
	assert.InDelta(t, 0.5, recencyDecay(&halfLifeAgo, now), 1e-9)

	future := now.AddDate(0, 0, 7)
	assert.Equal(t, 1.0, recencyDecay(&future, now), "future dates clamp to now")
}

func TestScoreReadBooks(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	books := []Book{
		{Title: "recent favorite", ReadStatus: StatusRead, StarRating: ratingPtr(5), LastDateRead: datePtr(2024, 5, 30)},
		{Title: "old favorite", ReadStatus: StatusRead, StarRating: ratingPtr(5), LastDateRead: datePtr(2020, 1, 1)},
		{Title: "recent dud", ReadStatus: StatusRead, StarRating: ratingPtr(1), LastDateRead: datePtr(2024, 5, 30)},
		{Title: "on the pile", ReadStatus: StatusToRead},
	}
	ranked := ScoreReadBooks(books, now)
	require.Len(t, ranked, 3)
	assert.Equal(t, "recent favorite", ranked[0].Book.Title)
	assert.Equal(t, "old favorite", ranked[1].Book.Title)
	assert.Equal(t, "recent dud", ranked[2].Book.Title)
}

func TestScoreTBRBooksAuthorAffinity(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	books := []Book{
		{Title: "loved it", Authors: "Ursula K. Le Guin", ReadStatus: StatusRead, StarRating: ratingPtr(5), LastDateRead: datePtr(2024, 5, 1)},
		{Title: "hated it", Authors: "Some Author", ReadStatus: StatusRead, StarRating: ratingPtr(1), LastDateRead: datePtr(2024, 5, 1)},
		{Title: "next le guin", Authors: "Ursula K. Le Guin", ReadStatus: StatusToRead},
		{Title: "next some author", Authors: "Some Author", ReadStatus: StatusToRead},
		{Title: "unknown author", Authors: "Never Read", ReadStatus: StatusToRead},
	}
	ranked := ScoreTBRBooks(books, now)
	require.Len(t, ranked, 3)
	assert.Equal(t, "next le guin", ranked[0].Book.Title)
	assert.Equal(t, "next some author", ranked[2].Book.Title)

	// Unfamiliar authors inherit the overall read-shelf mean, which sits
	// between the loved and hated authors.
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
	assert.Greater(t, ranked[1].Score, ranked[2].Score)
	assert.Equal(t, "unknown author", ranked[1].Book.Title)
}

func TestRecommendOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	_, ok := RecommendOne(nil, rng)
	assert.False(t, ok)

	ranked := []Scored{
		{Book: Book{Title: "a"}, Score: 0.9},
		{Book: Book{Title: "b"}, Score: 0.1},
	}
	pick, ok := RecommendOne(ranked, rng)
	require.True(t, ok)
	assert.Contains(t, []string{"a", "b"}, pick.Book.Title)
}

func TestRecommendOneZeroScores(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ranked := []Scored{
		{Book: Book{Title: "a"}},
		{Book: Book{Title: "b"}},
	}
	pick, ok := RecommendOne(ranked, rng)
	require.True(t, ok)
	assert.Contains(t, []string{"a", "b"}, pick.Book.Title)
}

func TestRecommendOneDrawsFromTopPool(t *testing.T) {
	ranked := make([]Scored, 0, 10)
	for i := 0; i < 10; i++ {
		ranked = append(ranked, Scored{Book: Book{Title: string(rune('a' + i))}, Score: float64(10 - i)})
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		pick, ok := RecommendOne(ranked, rng)
		require.True(t, ok)
		assert.LessOrEqual(t, pick.Book.Title, "e", "picks stay within the top pool")
	}
}
