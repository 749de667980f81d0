// file: internal/library/import_test.go
// version: 1.0.0
// guid: e1a3b5c7-9f1b-4c3d-8e6a-0b2c4d6e8f0a

package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanBooks(t *testing.T) {
	books := []Book{
		{Title: "kept rated", ISBN: "111", ReadStatus: StatusRead, StarRating: ratingPtr(4)},
		{Title: "kept unrated", ISBN: "222", ReadStatus: StatusCurrentlyReading},
		{Title: "kept no isbn", ReadStatus: StatusRead, StarRating: ratingPtr(2)},
		{Title: "dropped tbr", ISBN: "333", ReadStatus: StatusToRead},
		{Title: "dropped dnf", ISBN: "444", ReadStatus: StatusDNF},
	}
	cleaned := CleanBooks(books)
	require.Len(t, cleaned, 3)

	// Missing ratings are filled with the mean of the rated survivors.
	require.NotNil(t, cleaned[1].StarRating)
	assert.Equal(t, 3.0, *cleaned[1].StarRating)

	// Existing ratings are untouched.
	assert.Equal(t, 4.0, *cleaned[0].StarRating)
	assert.Equal(t, 2.0, *cleaned[2].StarRating)

	// Missing ISBNs get a generated id, present ones are kept.
	assert.Equal(t, "111", cleaned[0].ISBN)
	assert.NotEmpty(t, cleaned[2].ISBN)
}

func TestCleanBooksNoRatings(t *testing.T) {
	books := []Book{
		{Title: "a", ISBN: "1", ReadStatus: StatusRead},
		{Title: "b", ISBN: "2", ReadStatus: StatusRead},
	}
	cleaned := CleanBooks(books)
	require.Len(t, cleaned, 2)
	for _, b := range cleaned {
		require.NotNil(t, b.StarRating)
		assert.Equal(t, 0.0, *b.StarRating)
	}
}

func TestImportCSVHeaderDriven(t *testing.T) {
	// Column order differs from the tracker's own layout on purpose.
	export := "Read Status,Star Rating,Title,Authors,ISBN/UID,Format\n" +
		"read,5,Dune,Frank Herbert,9780441172719,paperback\n" +
		"to-read,,Hyperion,Dan Simmons,9780553283686,hardcover\n" +
		"currently-reading,,The Dispossessed,Ursula K. Le Guin,,ebook\n"
	src := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(src, []byte(export), 0o644))

	lib, err := Open(filepath.Join(t.TempDir(), "library.csv"))
	require.NoError(t, err)

	n, err := lib.ImportCSV(src)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "to-read entries are dropped on import")

	b, err := lib.Get("The Dispossessed")
	require.NoError(t, err)
	assert.NotEmpty(t, b.ISBN, "missing ISBN gets a generated id")
	require.NotNil(t, b.StarRating)
	assert.Equal(t, 5.0, *b.StarRating, "unrated entries take the rated mean")
}

func TestImportCSVMissingColumns(t *testing.T) {
	src := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(src, []byte("Title,Authors\nDune,Frank Herbert\n"), 0o644))

	lib, err := Open(filepath.Join(t.TempDir(), "library.csv"))
	require.NoError(t, err)

	_, err = lib.ImportCSV(src)
	assert.Error(t, err)
}
