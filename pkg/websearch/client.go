package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is one organic hit from the search provider.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Searcher is the web-search collaborator the retriever calls before falling
// back to document search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Client talks to a Serper-style JSON search API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func NewClient(apiKey string, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://google.serper.dev"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether an API key is present. An unconfigured client
// searches nothing and never errors.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if !c.Configured() {
		return nil, nil
	}

	reqBody := searchRequest{Q: query, Num: limit}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, len(searchResp.Organic))
	for i, hit := range searchResp.Organic {
		if limit > 0 && i >= limit {
			break
		}
		results = append(results, Result{
			Title:   hit.Title,
			Link:    hit.Link,
			Snippet: hit.Snippet,
		})
	}
	return results, nil
}
