// file: internal/catalog/googlebooks.go
// version: 1.3.0
// guid: b2d4f6a8-0c2e-4f6a-9b1d-3e5f7a9b1c3d

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// GoogleBooksClient fetches candidate volumes from the Google Books Volume
// API. No API key is required for basic searches (free tier, ~1000 req/day).
// A shared token-bucket limiter spaces requests out as a courtesy to the
// catalog; it is safe for concurrent callers.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Default courtesy spacing between catalog requests.
const defaultRequestInterval = 200 * time.Millisecond

// NewGoogleBooksClient creates a new Google Books API client.
func NewGoogleBooksClient() *GoogleBooksClient {
	baseURL := os.Getenv("GOOGLE_BOOKS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/books/v1"
	}
	return NewGoogleBooksClientWithBaseURL(baseURL)
}

// NewGoogleBooksClientWithBaseURL creates a client with a custom base URL (for testing).
func NewGoogleBooksClientWithBaseURL(baseURL string) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(defaultRequestInterval), 1),
	}
}

// SetLimiter replaces the courtesy rate limiter, e.g. with one shared across
// a worker pool.
func (c *GoogleBooksClient) SetLimiter(l *rate.Limiter) {
	if l != nil {
		c.limiter = l
	}
}

// Name returns the display name for this catalog source.
func (c *GoogleBooksClient) Name() string {
	return "Google Books"
}

type googleBooksResponse struct {
	TotalItems int              `json:"totalItems"`
	Items      []googleBooksVol `json:"items"`
}

type googleBooksVol struct {
	ID         string                `json:"id"`
	VolumeInfo googleBooksVolumeInfo `json:"volumeInfo"`
}

type googleBooksVolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	AverageRating *float64 `json:"averageRating"`
	RatingsCount  int      `json:"ratingsCount"`
	Categories    []string `json:"categories"`
	PageCount     int      `json:"pageCount"`
	Language      string   `json:"language"`
	PreviewLink   string   `json:"previewLink"`
}

// Search queries the volumes endpoint with an intitle (and optionally
// inauthor) restriction. A catalog with zero matches yields an empty slice
// and a nil error; transport and non-2xx failures are returned as errors.
func (c *GoogleBooksClient) Search(ctx context.Context, title, author string, maxResults int) ([]Volume, error) {
	if maxResults < 1 || maxResults > 40 {
		maxResults = 10
	}

	query := fmt.Sprintf("intitle:%s", title)
	if author != "" {
		query += fmt.Sprintf("+inauthor:%s", author)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=%d&printType=books",
		c.baseURL, url.QueryEscape(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Google Books request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search Google Books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google Books API returned status %d", resp.StatusCode)
	}

	var gbResp googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&gbResp); err != nil {
		return nil, fmt.Errorf("failed to decode Google Books response: %w", err)
	}

	volumes := make([]Volume, 0, len(gbResp.Items))
	for _, item := range gbResp.Items {
		vi := item.VolumeInfo
		volumes = append(volumes, Volume{
			ID:            item.ID,
			Title:         vi.Title,
			Authors:       vi.Authors,
			PublishedDate: vi.PublishedDate,
			AverageRating: vi.AverageRating,
			RatingsCount:  vi.RatingsCount,
			Categories:    vi.Categories,
			Description:   vi.Description,
			PageCount:     vi.PageCount,
			Language:      vi.Language,
			Publisher:     vi.Publisher,
			PreviewLink:   vi.PreviewLink,
		})
	}
	return volumes, nil
}
