// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/web-scout/internal/httputil"
	"github.com/pdiddy/web-scout/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests can
// substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

// ErrMissingAPIKey is returned when no Tavily key is configured.
var ErrMissingAPIKey = errors.New("tavily: API key is missing")

// TavilyBackend queries the Tavily search API.
type TavilyBackend struct {
	Client     *http.Client
	APIKey     string
	Depth      string
	UserAgent  string
	MaxRetries int

	// URL overrides tavilyAPIURL when set.
	URL string
}

// NewTavilyBackend builds a backend from the search configuration.
func NewTavilyBackend(cfg types.SearchConfig) *TavilyBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	depth := cfg.Depth
	if depth == "" {
		depth = "basic"
	}
	return &TavilyBackend{
		Client:     &http.Client{Timeout: timeout},
		APIKey:     cfg.APIKey,
		Depth:      depth,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		URL:        cfg.BaseURL,
	}
}

// Name returns the backend identifier.
func (b *TavilyBackend) Name() string { return "tavily" }

// Search posts one query to Tavily and returns up to maxResults hits.
func (b *TavilyBackend) Search(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	if strings.TrimSpace(b.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:       query,
		APIKey:      b.APIKey,
		SearchDepth: b.Depth,
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := b.URL
	if endpoint == "" {
		endpoint = tavilyAPIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Tavily API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus("Tavily API", resp); err != nil {
		return nil, err
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Tavily response: %w", err)
	}

	hits := make([]Hit, 0, min(len(tr.Results), maxResults))
	for _, r := range tr.Results {
		if len(hits) == maxResults {
			break
		}
		hits = append(hits, Hit{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return hits, nil
}

// Tavily API JSON structures.
type tavilyRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Query   string         `json:"query"`
	Results []tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}
