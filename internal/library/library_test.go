// file: internal/library/library_test.go
// version: 1.1.0
// guid: c9e1f3a5-7d9f-4a1b-8c4e-6f8a0b2c4d6e

package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCSV(t *testing.T, rows []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "library.csv")
	content := "Title,Authors,ISBN/UID,Read Status,Star Rating,Last Date Read,Progress (%),Pages Read,Total Pages\n"
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.csv")
	lib, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
}

func TestOpenAndGet(t *testing.T) {
	path := writeTestCSV(t, []string{
		"Dune,Frank Herbert,9780441172719,read,5,2024-03-01,100,412,412",
		"Hyperion,Dan Simmons,9780553283686,to-read,,,0,0,482",
	})
	lib, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 2, lib.Len())

	b, err := lib.Get("  dune ")
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	require.NotNil(t, b.StarRating)
	assert.Equal(t, 5.0, *b.StarRating)

	_, err = lib.Get("Foundation")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestAdd(t *testing.T) {
	lib, err := Open(filepath.Join(t.TempDir(), "library.csv"))
	require.NoError(t, err)

	b, err := lib.Add("Hyperion", "Dan Simmons", 482)
	require.NoError(t, err)
	assert.Equal(t, StatusToRead, b.ReadStatus)
	assert.NotEmpty(t, b.ISBN)
	assert.Equal(t, 482, b.TotalPages)

	_, err = lib.Add("hyperion", "Dan Simmons", 482)
	assert.Error(t, err, "duplicate title should be rejected")

	_, err = lib.Add("", "Nobody", 0)
	assert.Error(t, err)
}

func TestUpdateProgress(t *testing.T) {
	path := writeTestCSV(t, []string{
		"Hyperion,Dan Simmons,9780553283686,to-read,,,0,0,482",
	})
	lib, err := Open(path)
	require.NoError(t, err)

	b, err := lib.UpdateProgress("Hyperion", 241, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusCurrentlyReading, b.ReadStatus)
	assert.Equal(t, 241, b.PagesRead)
	assert.Equal(t, 50.0, b.ProgressPct)

	// Overshooting clamps to the total and finishes the book.
	b, err = lib.UpdateProgress("Hyperion", 600, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusRead, b.ReadStatus)
	assert.Equal(t, 482, b.PagesRead)
	assert.Equal(t, 100.0, b.ProgressPct)
}

func TestUpdateProgressRequiresTotalPages(t *testing.T) {
	path := writeTestCSV(t, []string{
		"Hyperion,Dan Simmons,9780553283686,to-read,,,0,0,0",
	})
	lib, err := Open(path)
	require.NoError(t, err)

	_, err = lib.UpdateProgress("Hyperion", 10, 0)
	assert.Error(t, err)

	b, err := lib.UpdateProgress("Hyperion", 10, 482)
	require.NoError(t, err)
	assert.Equal(t, 482, b.TotalPages)
}

func TestFinish(t *testing.T) {
	path := writeTestCSV(t, []string{
		"Hyperion,Dan Simmons,9780553283686,currently-reading,,,50,241,482",
	})
	lib, err := Open(path)
	require.NoError(t, err)

	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	b, err := lib.Finish("Hyperion", 4.5, when)
	require.NoError(t, err)
	assert.Equal(t, StatusRead, b.ReadStatus)
	assert.Equal(t, 100.0, b.ProgressPct)
	require.NotNil(t, b.StarRating)
	assert.Equal(t, 4.5, *b.StarRating)
	require.NotNil(t, b.LastDateRead)
	assert.Equal(t, when, *b.LastDateRead)

	_, err = lib.Finish("Hyperion", 6, when)
	assert.Error(t, err, "rating above 5 should be rejected")
	_, err = lib.Finish("Hyperion", 0.5, when)
	assert.Error(t, err, "rating below 1 should be rejected")
}

func TestDNF(t *testing.T) {
	path := writeTestCSV(t, []string{
		"Hyperion,Dan Simmons,9780553283686,currently-reading,,,50,241,482",
	})
	lib, err := Open(path)
	require.NoError(t, err)

	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	b, err := lib.DNF("Hyperion", when)
	require.NoError(t, err)
	assert.Equal(t, StatusDNF, b.ReadStatus)
	require.NotNil(t, b.StarRating)
	assert.Equal(t, 1.0, *b.StarRating)
	assert.Equal(t, 0.0, b.ProgressPct)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.csv")
	lib, err := Open(path)
	require.NoError(t, err)

	_, err = lib.Add("Hyperion", "Dan Simmons", 482)
	require.NoError(t, err)
	_, err = lib.Finish("Hyperion", 4, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, lib.Save())

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())
	b, err := reopened.Get("Hyperion")
	require.NoError(t, err)
	assert.Equal(t, StatusRead, b.ReadStatus)
	require.NotNil(t, b.LastDateRead)
	assert.Equal(t, "2024-06-01", b.LastDateRead.Format(dateLayout))
}

func TestFindFuzzy(t *testing.T) {
	path := writeTestCSV(t, []string{
		"Crime and Punishment,Fyodor Dostoyevsky,9780143058144,read,5,2024-01-01,100,671,671",
		"The Brothers Karamazov,Fyodor Dostoyevsky,9780374528379,to-read,,,0,0,796",
		"Dune,Frank Herbert,9780441172719,read,4,2024-03-01,100,412,412",
	})
	lib, err := Open(path)
	require.NoError(t, err)

	matches := lib.FindFuzzy("brothers karamazov")
	require.NotEmpty(t, matches)
	assert.Equal(t, "The Brothers Karamazov", matches[0])

	assert.Empty(t, lib.FindFuzzy("zzzzzz"))
}
