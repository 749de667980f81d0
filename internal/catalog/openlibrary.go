// file: internal/catalog/openlibrary.go
// version: 1.1.0
// guid: c3e5a7b9-1d3f-4a5b-8c6d-2e4f6a8b0c2e

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
)

// OpenLibraryClient handles free-text search against the Open Library API.
// Its results feed the batch (exact-key dedup) path, not the per-title
// fuzzy resolution path.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewOpenLibraryClient creates a new Open Library API client.
func NewOpenLibraryClient() *OpenLibraryClient {
	baseURL := os.Getenv("OPENLIBRARY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openlibrary.org"
	}
	return NewOpenLibraryClientWithBaseURL(baseURL)
}

// NewOpenLibraryClientWithBaseURL creates a client with a custom base URL.
func NewOpenLibraryClientWithBaseURL(baseURL string) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the display name for this catalog source.
func (c *OpenLibraryClient) Name() string {
	return "Open Library"
}

// Doc is one search hit from Open Library, loosely normalized.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	AuthorKey        []string `json:"author_key"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	Subject          []string `json:"subject"`
	EditionCount     int      `json:"edition_count"`
}

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Search runs a free-text query and returns the raw docs. Zero hits is an
// empty slice, not an error.
func (c *OpenLibraryClient) Search(ctx context.Context, query string, limit int) ([]Doc, error) {
	if limit < 1 {
		limit = 20
	}
	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Open Library request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search Open Library: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Open Library API returned status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return searchResp.Docs, nil
}

// WorkDetail is the subset of an Open Library work entry we consume.
type WorkDetail struct {
	Description string
	Subjects    []string
}

type workPayload struct {
	Description json.RawMessage `json:"description"`
	Subjects    []string        `json:"subjects"`
}

// GetWork fetches a work by key ("/works/OL12345W") and extracts its
// description and subjects. The description field is either a plain string
// or an object with a "value" member; both forms are handled.
func (c *OpenLibraryClient) GetWork(ctx context.Context, workKey string) (*WorkDetail, error) {
	if workKey == "" {
		return nil, fmt.Errorf("empty work key")
	}
	if !strings.HasPrefix(workKey, "/") {
		workKey = "/" + workKey
	}
	workURL := fmt.Sprintf("%s%s.json", c.baseURL, workKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, workURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build work request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch work %s: %w", workKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Open Library API returned status %d for work %s", resp.StatusCode, workKey)
	}

	var payload workPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode work response: %w", err)
	}

	detail := &WorkDetail{Subjects: payload.Subjects}
	if len(payload.Description) > 0 {
		var s string
		if err := json.Unmarshal(payload.Description, &s); err == nil {
			detail.Description = s
		} else {
			var obj struct {
				Value string `json:"value"`
			}
			if err := json.Unmarshal(payload.Description, &obj); err == nil {
				detail.Description = obj.Value
			}
		}
	}
	return detail, nil
}
