// file: internal/catalog/googlebooks_test.go
// version: 1.1.0
// guid: c5e7a9b1-3d5f-4a7b-8c2d-4e6f8a0b2c4e

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestGoogleBooksClient_Name(t *testing.T) {
	c := NewGoogleBooksClient()
	if c.Name() != "Google Books" {
		t.Errorf("expected 'Google Books', got %q", c.Name())
	}
}

func TestGoogleBooksClient_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"id": "zyx987",
				"volumeInfo": {
					"title": "Crime and Punishment",
					"authors": ["Fyodor Dostoyevsky"],
					"publisher": "Penguin",
					"publishedDate": "1866-11-02",
					"description": "A novel about guilt and redemption.",
					"averageRating": 4.3,
					"ratingsCount": 1200,
					"categories": ["Fiction"],
					"pageCount": 671,
					"language": "en",
					"previewLink": "http://example.com/preview"
				}
			}]
		}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL)
	volumes, err := client.Search(context.Background(), "Crime and Punishment", "Fyodor Dostoyevsky", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "intitle:Crime and Punishment+inauthor:Fyodor Dostoyevsky" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
	if len(volumes) != 1 {
		t.Fatalf("expected 1 volume, got %d", len(volumes))
	}
	v := volumes[0]
	if v.ID != "zyx987" {
		t.Errorf("expected id 'zyx987', got %q", v.ID)
	}
	if v.Title != "Crime and Punishment" {
		t.Errorf("expected title 'Crime and Punishment', got %q", v.Title)
	}
	if v.AverageRating == nil || *v.AverageRating != 4.3 {
		t.Errorf("expected rating 4.3, got %v", v.AverageRating)
	}
	if v.RatingsCount != 1200 {
		t.Errorf("expected ratingsCount 1200, got %d", v.RatingsCount)
	}
	if v.PublishedDate != "1866-11-02" {
		t.Errorf("expected publishedDate, got %q", v.PublishedDate)
	}
	if v.PageCount != 671 {
		t.Errorf("expected pageCount 671, got %d", v.PageCount)
	}
}

func TestGoogleBooksClient_Search_TitleOnly(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL)
	volumes, err := client.Search(context.Background(), "Beowulf", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "intitle:Beowulf" {
		t.Errorf("author-less query should omit inauthor, got %q", gotQuery)
	}
	if len(volumes) != 0 {
		t.Errorf("zero catalog matches must be an empty slice, got %d", len(volumes))
	}
}

func TestGoogleBooksClient_Search_MissingRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"totalItems": 1,
			"items": [{"id": "v1", "volumeInfo": {"title": "Obscure Work"}}]
		}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL)
	volumes, err := client.Search(context.Background(), "Obscure Work", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if volumes[0].AverageRating != nil {
		t.Error("absent averageRating must decode to nil, not 0")
	}
	if volumes[0].RatingsCount != 0 {
		t.Errorf("absent ratingsCount must default to 0, got %d", volumes[0].RatingsCount)
	}
}

func TestGoogleBooksClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL)
	if _, err := client.Search(context.Background(), "test", "", 10); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestGoogleBooksClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Search(ctx, "test", "", 10); err == nil {
		t.Error("expected error when context is already canceled")
	}
}

func TestGoogleBooksClient_SetLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := NewGoogleBooksClientWithBaseURL(server.URL)
	client.SetLimiter(rate.NewLimiter(rate.Inf, 1))
	client.SetLimiter(nil) // ignored

	for i := 0; i < 3; i++ {
		if _, err := client.Search(context.Background(), "test", "", 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}
