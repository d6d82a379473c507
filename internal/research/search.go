// Package research gathers web evidence for health questions: search,
// trusted-source filtering, and page text extraction.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultSearchBaseURL = "https://serpapi.com"

// Result is one organic search result.
type Result struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// SearchClient queries SerpAPI's Google engine. A missing API key is not
// an error: the pipeline degrades to source-less answers.
type SearchClient struct {
	httpClient *http.Client
	apiKey     string

	// BaseURL is overridable for tests.
	BaseURL string
}

func NewSearchClient(apiKey string) *SearchClient {
	return &SearchClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		BaseURL:    defaultSearchBaseURL,
	}
}

// Search runs the query against Google. Results come back in English:
// the trusted health domains publish in English and translation happens
// at the generation step.
func (c *SearchClient) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if c.apiKey == "" {
		return nil, nil
	}
	if num <= 0 {
		num = 6
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("num", strconv.Itoa(num))
	params.Set("hl", "en")
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request failed: %w", err)
	}

	resp, err := doWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		OrganicResults []Result `json:"organic_results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse search json failed: %w", err)
	}
	return parsed.OrganicResults, nil
}
