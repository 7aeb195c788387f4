package myscheme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultEndpoint = "https://www.googleapis.com/customsearch/v1"
	maxResults      = 5
)

// SearchResultItem is one search hit, optionally enriched with the
// extracted text of the target page.
type SearchResultItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	PageContent string `json:"pageContent,omitempty"`
}

// SearchResult is the outcome of a scheme search. Error is set only
// when Success is false.
type SearchResult struct {
	Success bool               `json:"success"`
	Data    []SearchResultItem `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Client performs domain-restricted searches against the Google Custom
// Search API. The CX ID is expected to be scoped to myscheme.gov.in.
type Client struct {
	apiKey   string
	cxID     string
	endpoint string
	http     *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for both the search call and
// the per-result page fetches.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithEndpoint overrides the search API endpoint. Used in tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// New creates a scheme search client. Empty credentials are allowed;
// Search reports them as a soft failure.
func New(apiKey, cxID string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:   apiKey,
		cxID:     cxID,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs the query and enriches each hit with extracted page text.
// Per-page fetch failures are swallowed; the hit keeps its snippet and
// simply lacks PageContent.
func (c *Client) Search(ctx context.Context, query string) SearchResult {
	if c.apiKey == "" || c.cxID == "" {
		return SearchResult{
			Success: false,
			Error:   "Search service is not configured. Please contact support.",
		}
	}
	if query == "" {
		return SearchResult{
			Success: false,
			Error:   "Search query cannot be empty.",
		}
	}

	items, err := c.search(ctx, query)
	if err != nil {
		return SearchResult{Success: false, Error: err.Error()}
	}
	if len(items) == 0 {
		return SearchResult{Success: true, Data: []SearchResultItem{}}
	}

	c.fetchPageContents(ctx, items)
	return SearchResult{Success: true, Data: items}
}

func (c *Client) search(ctx context.Context, query string) ([]SearchResultItem, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cxID)
	params.Set("q", query)
	params.Set("num", fmt.Sprint(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("search request failed: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	var raw struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]SearchResultItem, 0, len(raw.Items))
	for _, it := range raw.Items {
		items = append(items, SearchResultItem{
			Title:   it.Title,
			Link:    it.Link,
			Snippet: it.Snippet,
		})
	}
	return items, nil
}

// fetchPageContents fetches every result page concurrently and fills in
// PageContent where the fetch and extraction succeed.
func (c *Client) fetchPageContents(ctx context.Context, items []SearchResultItem) {
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(item *SearchResultItem) {
			defer wg.Done()
			if content, err := c.fetchPageText(ctx, item.Link); err == nil {
				item.PageContent = content
			}
		}(&items[i])
	}
	wg.Wait()
}

func (c *Client) fetchPageText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	return ExtractText(resp.Body)
}
