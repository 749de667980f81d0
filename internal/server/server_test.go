// file: internal/server/server_test.go
// version: 1.0.0
// guid: 9b1d3f5a-7c9e-4f1a-8b4c-8d0e2f4a6b8c

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librorank/librorank/internal/catalog"
	"github.com/librorank/librorank/internal/library"
	"github.com/librorank/librorank/internal/resolve"
)

type stubFetcher struct {
	volumes []catalog.Volume
	err     error
}

func (f *stubFetcher) Name() string { return "stub" }

func (f *stubFetcher) Search(_ context.Context, _, _ string, _ int) ([]catalog.Volume, error) {
	return f.volumes, f.err
}

func newTestServer(t *testing.T, fetcher resolve.Fetcher) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lib, err := library.Open(filepath.Join(t.TempDir(), "library.csv"))
	require.NoError(t, err)

	var resolver *resolve.Resolver
	if fetcher != nil {
		resolver = resolve.NewResolver(fetcher, nil)
	}
	return NewServer(lib, resolver)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router().ServeHTTP(resp, req)
	return resp
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)
	resp := doJSON(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
}

func TestBookLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/books", gin.H{
		"title": "Hyperion", "author": "Dan Simmons", "total_pages": 482,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Duplicate add conflicts.
	resp = doJSON(t, s, http.MethodPost, "/api/v1/books", gin.H{"title": "Hyperion"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(t, s, http.MethodPatch, "/api/v1/books/progress", gin.H{
		"title": "Hyperion", "pages_read": 241,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"progress":50`)

	resp = doJSON(t, s, http.MethodPatch, "/api/v1/books/finish", gin.H{
		"title": "Hyperion", "rating": 4.5, "date": "2024-06-01",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, s, http.MethodGet, "/api/v1/books", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var books []library.Book
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, library.StatusRead, books[0].ReadStatus)
}

func TestUpdateProgressUnknownBook(t *testing.T) {
	s := newTestServer(t, nil)
	resp := doJSON(t, s, http.MethodPatch, "/api/v1/books/progress", gin.H{
		"title": "Nope", "pages_read": 10,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFinishRejectsBadRating(t *testing.T) {
	s := newTestServer(t, nil)
	resp := doJSON(t, s, http.MethodPost, "/api/v1/books", gin.H{"title": "Dune"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, s, http.MethodPatch, "/api/v1/books/finish", gin.H{
		"title": "Dune", "rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDNFBook(t *testing.T) {
	s := newTestServer(t, nil)
	resp := doJSON(t, s, http.MethodPost, "/api/v1/books", gin.H{"title": "Dune"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, s, http.MethodPatch, "/api/v1/books/dnf", gin.H{"title": "Dune"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), library.StatusDNF)
}

func TestRecommendEmptyShelf(t *testing.T) {
	s := newTestServer(t, nil)
	resp := doJSON(t, s, http.MethodGet, "/api/v1/recommend", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRecommend(t *testing.T) {
	s := newTestServer(t, nil)
	for i := 0; i < 3; i++ {
		resp := doJSON(t, s, http.MethodPost, "/api/v1/books", gin.H{
			"title": fmt.Sprintf("Book %d", i), "author": "Someone",
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}
	resp := doJSON(t, s, http.MethodGet, "/api/v1/recommend", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"pick"`)
	assert.Contains(t, resp.Body.String(), `"top"`)
}

func TestResolveNotConfigured(t *testing.T) {
	s := newTestServer(t, nil)
	resp := doJSON(t, s, http.MethodPost, "/api/v1/resolve", gin.H{"title": "Dune"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestResolveAccepted(t *testing.T) {
	rating := 4.5
	fetcher := &stubFetcher{volumes: []catalog.Volume{{
		ID:            "vol1",
		Title:         "Crime and Punishment",
		Authors:       []string{"Fyodor Dostoyevsky"},
		PublishedDate: "1866",
		AverageRating: &rating,
		RatingsCount:  1200,
		Publisher:     "Penguin Classics",
		Language:      "en",
	}}}
	s := newTestServer(t, fetcher)

	resp := doJSON(t, s, http.MethodPost, "/api/v1/resolve", gin.H{
		"title": "Crime and Punishment", "author": "Fyodor Dostoyevsky",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var rec catalog.Record
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rec))
	assert.Equal(t, "vol1", rec.GoogleID)
	assert.Equal(t, 1866, rec.PublishedYear)
	assert.Equal(t, "google_books", rec.Source)
}

func TestResolveNoMatch(t *testing.T) {
	s := newTestServer(t, &stubFetcher{})
	resp := doJSON(t, s, http.MethodPost, "/api/v1/resolve", gin.H{"title": "Nothing"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestResolveFetchFailure(t *testing.T) {
	s := newTestServer(t, &stubFetcher{err: fmt.Errorf("upstream down")})
	resp := doJSON(t, s, http.MethodPost, "/api/v1/resolve", gin.H{"title": "Dune"})
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}
