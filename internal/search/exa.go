package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"scent-llm/internal/domain"
)

const defaultExaBaseURL = "https://api.exa.ai"

// ExaClient implementa Searcher contra la API de Exa.
type ExaClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Searcher = (*ExaClient)(nil)

func NewExaClient(baseURL, apiKey string, timeout time.Duration) *ExaClient {
	if baseURL == "" {
		baseURL = defaultExaBaseURL
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ExaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured indica si hay API key.
func (c *ExaClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

func (c *ExaClient) Search(ctx context.Context, req *Request) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	numResults := req.NumResults
	if numResults <= 0 {
		numResults = 3
	}
	exaReq := exaSearchRequest{
		Query:      req.Query,
		Type:       "auto",
		NumResults: numResults,
		Contents: exaContents{
			Text:      &exaText{MaxCharacters: req.MaxCharacters},
			Livecrawl: "fallback",
		},
	}

	resp, err := c.doSearch(ctx, exaReq)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, domain.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Text:          r.Text,
			PublishedDate: r.PublishedDate,
		})
	}
	return &Response{Results: results}, nil
}

type exaSearchRequest struct {
	Query      string      `json:"query"`
	Type       string      `json:"type"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text      *exaText `json:"text,omitempty"`
	Livecrawl string   `json:"livecrawl,omitempty"`
}

type exaText struct {
	MaxCharacters int `json:"maxCharacters,omitempty"`
}

type exaSearchResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Text          string `json:"text"`
	PublishedDate string `json:"publishedDate"`
}

func (c *ExaClient) doSearch(ctx context.Context, req exaSearchRequest) (*exaSearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa api error (status %d): %s", res.StatusCode, truncate(string(body), 200))
	}

	var out exaSearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &out, nil
}
