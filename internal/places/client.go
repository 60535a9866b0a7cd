// Package places wraps the third-party places-search HTTP API.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	httpTimeout    = 20 * time.Second
	// defaultCallsPerSecond paces outbound calls so a tight loop cannot
	// burst the provider.
	defaultCallsPerSecond = 5
)

// SearchResult is the subset of a search hit the engine reads.
type SearchResult struct {
	PlaceID string `json:"place_id"`
	Name    string `json:"name"`
}

// SearchPage is one page of search results plus its continuation token.
type SearchPage struct {
	Results       []SearchResult
	NextPageToken string
}

// Details is the subset of a place-details response the engine reads.
type Details struct {
	Name    string `json:"name"`
	Phone   string `json:"formatted_phone_number"`
	Website string `json:"website"`
	URL     string `json:"url"`
}

// Client is the interface the engine depends on. Both billable operations
// take the key explicitly so the caller controls which credential pays.
type Client interface {
	Search(ctx context.Context, apiKey, query, pageToken string) (*SearchPage, error)
	GetDetails(ctx context.Context, apiKey, placeID string) (*Details, error)
}

// HTTPClient implements Client against the places HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Client = &HTTPClient{}

// NewHTTPClient constructs a client with a shared HTTP transport. An empty
// baseURL selects the production endpoint.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultCallsPerSecond), 1),
	}
}

// searchResponse mirrors the top-level search JSON response.
type searchResponse struct {
	Results       []SearchResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message"`
}

// detailsResponse mirrors the top-level details JSON response.
type detailsResponse struct {
	Result       Details `json:"result"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
}

// Search runs one text search. An empty pageToken starts the query fresh;
// otherwise the token continues a prior page. A provider ZERO_RESULTS
// status is returned as an empty page, not an error.
func (c *HTTPClient) Search(ctx context.Context, apiKey, query, pageToken string) (*SearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var resp searchResponse
	if err := c.get(ctx, "/textsearch/json", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return &SearchPage{}, nil
	default:
		return nil, fmt.Errorf("search %q: provider status %s: %s", query, resp.Status, resp.ErrorMessage)
	}

	return &SearchPage{Results: resp.Results, NextPageToken: resp.NextPageToken}, nil
}

// GetDetails fetches the detail record for one place.
func (c *HTTPClient) GetDetails(ctx context.Context, apiKey, placeID string) (*Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("key", apiKey)
	params.Set("fields", "name,formatted_phone_number,website,url")

	var resp detailsResponse
	if err := c.get(ctx, "/details/json", params, &resp); err != nil {
		return nil, fmt.Errorf("details %s: %w", placeID, err)
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("details %s: provider status %s: %s", placeID, resp.Status, resp.ErrorMessage)
	}

	return &resp.Result, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
