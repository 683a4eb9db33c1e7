// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the web-scout pipeline:
// the search candidates passed between stages, the API request and response
// bodies, and the stage configuration.
package types

// StatusSuccess is the status value of a successful ResearchResult.
const StatusSuccess = "success"

// Plan is the ordered list of sub-queries derived from one research query.
type Plan []string

// SearchResult is one candidate returned by the search provider for a
// sub-query. Its identity is its position in the flat candidate list.
type SearchResult struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the page URL.
	URL string `json:"url" yaml:"url"`

	// Content is the snippet or extracted content returned by the provider.
	Content string `json:"content" yaml:"content"`

	// SubQuery is the index into the Plan of the sub-query that found this result.
	SubQuery int `json:"sub_query" yaml:"sub_query"`

	// Query is the text of that sub-query.
	Query string `json:"query" yaml:"query"`
}

// Source is the title and URL of a selected result, echoed in the response.
type Source struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// ResearchRequest is the body of POST /api/research.
type ResearchRequest struct {
	Query string `json:"query" yaml:"query"`
}

// Stats records per-request counts and stage timings in milliseconds.
type Stats struct {
	Candidates int              `json:"candidates" yaml:"candidates"`
	Selected   int              `json:"selected" yaml:"selected"`
	FailedSubs int              `json:"failed_sub_queries,omitempty" yaml:"failed_sub_queries,omitempty"`
	StageMS    map[string]int64 `json:"stage_ms,omitempty" yaml:"stage_ms,omitempty"`
}

// ResearchResult is the body of a successful POST /api/research response.
// Status, Plan and Report form the contract the web client relies on; the
// remaining fields are optional extras.
type ResearchResult struct {
	Status  string   `json:"status" yaml:"status"`
	Plan    Plan     `json:"plan" yaml:"plan"`
	Report  string   `json:"report" yaml:"report"`
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"`
	Stats   *Stats   `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// ErrorResponse is the body of a failed API call.
type ErrorResponse struct {
	Error  string `json:"error"`
	Stage  string `json:"stage,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Reference is one entry of a report's references section.
type Reference struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}
