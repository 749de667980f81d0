// file: internal/library/library.go
// version: 1.2.0
// guid: f4b6d8e0-2a4c-4d6e-9f1a-3b5c7d9e1f3b

package library

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lithammer/fuzzysearch/fuzzy"
	ulid "github.com/oklog/ulid/v2"

	"github.com/librorank/librorank/internal/metrics"
	"github.com/librorank/librorank/internal/textutil"
)

// ErrBookNotFound is returned when no library entry matches a title.
var ErrBookNotFound = errors.New("book not found")

// Library is the CSV-backed reading list. All mutations rewrite the whole
// file; an optional fsnotify watcher reloads it when edited externally.
type Library struct {
	mu    sync.RWMutex
	path  string
	books []Book

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open loads the library at path. A missing file yields an empty library
// that will be created on first save.
func Open(path string) (*Library, error) {
	lib := &Library{path: path}
	books, err := readBooksCSV(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lib, nil
		}
		return nil, err
	}
	lib.books = books
	metrics.SetLibraryBooks(len(books))
	return lib, nil
}

// Close stops the watcher if one is running.
func (l *Library) Close() error {
	if l.watcher == nil {
		return nil
	}
	close(l.done)
	err := l.watcher.Close()
	l.watcher = nil
	return err
}

// Watch starts reloading the library whenever the backing file is written
// by another process.
func (l *Library) Watch() error {
	if l.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", l.path, err)
	}
	l.watcher = w
	l.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-l.done:
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Name != l.path || !(event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)) {
					continue
				}
				if err := l.Reload(); err != nil {
					log.Printf("[WARN] library: reload after external edit failed: %v", err)
				} else {
					log.Printf("[INFO] library: reloaded after external edit")
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] library: watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Reload re-reads the backing file, replacing the in-memory list.
func (l *Library) Reload() error {
	books, err := readBooksCSV(l.path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.books = books
	l.mu.Unlock()
	metrics.SetLibraryBooks(len(books))
	return nil
}

// Save writes the current list back to the backing file.
func (l *Library) Save() error {
	l.mu.RLock()
	books := make([]Book, len(l.books))
	copy(books, l.books)
	l.mu.RUnlock()
	return writeBooksCSV(l.path, books)
}

// Books returns a copy of the current list.
func (l *Library) Books() []Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Book, len(l.books))
	copy(out, l.books)
	return out
}

// Len returns the number of entries.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.books)
}

func (l *Library) indexOf(title string) int {
	want := textutil.Normalize(title)
	for i := range l.books {
		if textutil.Normalize(l.books[i].Title) == want {
			return i
		}
	}
	return -1
}

// Get returns the entry whose title matches (case/whitespace-insensitive).
func (l *Library) Get(title string) (Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexOf(title)
	if i < 0 {
		return Book{}, fmt.Errorf("%q: %w", title, ErrBookNotFound)
	}
	return l.books[i], nil
}

// FindFuzzy returns library titles approximately matching the query,
// best first. Accent differences are folded away.
func (l *Library) FindFuzzy(query string) []string {
	l.mu.RLock()
	titles := make([]string, len(l.books))
	folded := make([]string, len(l.books))
	for i, b := range l.books {
		titles[i] = b.Title
		folded[i] = textutil.Fold(b.Title)
	}
	l.mu.RUnlock()

	ranks := fuzzy.RankFindFold(textutil.Fold(query), folded)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, titles[r.OriginalIndex])
	}
	return out
}

// Add appends a new to-read entry. Entries without an ISBN get a generated
// ULID so every row has a stable unique id.
func (l *Library) Add(title, authors string, totalPages int) (Book, error) {
	if title == "" {
		return Book{}, fmt.Errorf("empty title")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(title) >= 0 {
		return Book{}, fmt.Errorf("%q already in library", title)
	}
	b := Book{
		Title:      title,
		Authors:    authors,
		ISBN:       ulid.Make().String(),
		ReadStatus: StatusToRead,
		TotalPages: totalPages,
	}
	l.books = append(l.books, b)
	metrics.SetLibraryBooks(len(l.books))
	return b, nil
}

// UpdateProgress records pages read, updating the percentage and flipping
// the status to read when the book is finished. totalPages of 0 keeps the
// stored page count.
func (l *Library) UpdateProgress(title string, pagesRead, totalPages int) (Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(title)
	if i < 0 {
		return Book{}, fmt.Errorf("%q: %w", title, ErrBookNotFound)
	}
	b := &l.books[i]
	if totalPages > 0 {
		b.TotalPages = totalPages
	}
	if b.TotalPages == 0 {
		return Book{}, fmt.Errorf("total pages not set for %q", title)
	}
	if pagesRead > b.TotalPages {
		pagesRead = b.TotalPages
	}
	b.PagesRead = pagesRead
	b.ProgressPct = roundPct(float64(pagesRead) / float64(b.TotalPages) * 100)
	if b.ProgressPct >= 100 {
		b.ReadStatus = StatusRead
	} else {
		b.ReadStatus = StatusCurrentlyReading
	}
	return *b, nil
}

// Finish marks a book read with a 1–5 rating on the given date (zero time
// means today).
func (l *Library) Finish(title string, rating float64, date time.Time) (Book, error) {
	if rating < 1 || rating > 5 {
		return Book{}, fmt.Errorf("rating must be between 1 and 5, got %v", rating)
	}
	if date.IsZero() {
		date = today()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(title)
	if i < 0 {
		return Book{}, fmt.Errorf("%q: %w", title, ErrBookNotFound)
	}
	b := &l.books[i]
	b.ReadStatus = StatusRead
	b.StarRating = &rating
	b.ProgressPct = 100
	b.LastDateRead = &date
	return *b, nil
}

// dnfRating is the default rating applied when a book is abandoned.
const dnfRating = 1.0

// DNF marks a book did-not-finish on the given date (zero time means today).
func (l *Library) DNF(title string, date time.Time) (Book, error) {
	if date.IsZero() {
		date = today()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(title)
	if i < 0 {
		return Book{}, fmt.Errorf("%q: %w", title, ErrBookNotFound)
	}
	b := &l.books[i]
	rating := dnfRating
	b.ReadStatus = StatusDNF
	b.StarRating = &rating
	b.ProgressPct = 0
	b.LastDateRead = &date
	return *b, nil
}

func roundPct(p float64) float64 {
	return float64(int(p*100+0.5)) / 100
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
