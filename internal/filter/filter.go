// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter selects the search candidates relevant to a query with a
// single model call over an indexed summary of all candidates.
package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

const systemPrompt = `You are a relevance filter. Given a research question and a numbered list of search results, decide which results are relevant and useful for answering the question.

Be strict: only select a result if its content directly helps answer the question.

Respond with valid JSON in this exact format:
{"relevant": [0, 2, 5]}

Use the bracketed numbers from the list. Return an empty list if nothing is relevant.`

var userPromptTmpl = template.Must(template.New("filter-user").Parse(`Research Question: {{.Query}}

Search Results:
{{.Summary}}
Which results are relevant to answering the research question?`))

// response is the JSON object the model is asked to produce.
type response struct {
	Relevant []int `json:"relevant" jsonschema_description:"Zero-based indices of the relevant search results."`
}

var responseSchema = llm.SchemaFor("relevant_results", response{})

// reply is what the model actually sent. Entries are decoded loosely so a
// stray string or fraction drops that entry rather than the whole reply.
type reply struct {
	Relevant []any `json:"relevant"`
}

// Filter is the batch relevance filter.
type Filter struct {
	llm    llm.Completer
	cfg    types.FilterConfig
	logger *zap.Logger
}

// New creates a Filter. Zero config values fall back to the defaults.
func New(c llm.Completer, cfg types.FilterConfig, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := types.DefaultConfig().Filter
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = def.MaxCandidates
	}
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = def.MaxPromptChars
	}
	if cfg.SnippetChars <= 0 {
		cfg.SnippetChars = def.SnippetChars
	}
	return &Filter{llm: c, cfg: cfg, logger: logger}
}

// Filter returns the candidates the model marks relevant, in candidate
// order. Empty input returns empty output without a model call. Inputs
// over the candidate or prompt ceiling fail with a filter *stage.Error
// wrapping llm.ErrContextWindow before any call is made.
func (f *Filter) Filter(ctx context.Context, query string, candidates []types.SearchResult) ([]types.SearchResult, error) {
	if len(candidates) == 0 {
		return []types.SearchResult{}, nil
	}
	if len(candidates) > f.cfg.MaxCandidates {
		return nil, stage.New(stage.KindFilter, fmt.Errorf("%w: %d candidates exceed the limit of %d",
			llm.ErrContextWindow, len(candidates), f.cfg.MaxCandidates))
	}

	prompt, err := f.render(query, candidates)
	if err != nil {
		return nil, stage.New(stage.KindFilter, fmt.Errorf("rendering prompt: %w", err))
	}
	if n := utf8.RuneCountInString(systemPrompt) + utf8.RuneCountInString(prompt); n > f.cfg.MaxPromptChars {
		return nil, stage.New(stage.KindFilter, fmt.Errorf("%w: prompt of %d characters exceeds the limit of %d",
			llm.ErrContextWindow, n, f.cfg.MaxPromptChars))
	}

	resp, err := f.llm.Complete(ctx, llm.Request{
		Call:        llm.CallFilter,
		System:      systemPrompt,
		User:        prompt,
		Temperature: f.cfg.Temperature,
		JSON:        true,
		Schema:      responseSchema,
	})
	if err != nil {
		if llm.IsContextWindow(err) && !errors.Is(err, llm.ErrContextWindow) {
			err = fmt.Errorf("%w: %w", llm.ErrContextWindow, err)
		}
		return nil, stage.New(stage.KindFilter, err)
	}

	var r reply
	if err := llm.DecodeJSON(resp.Text, &r); err != nil {
		return nil, stage.New(stage.KindFilter, err)
	}

	indices := Indices(r.Relevant)
	selected := Select(candidates, indices)
	f.logger.Debug("candidates filtered",
		zap.Int("candidates", len(candidates)),
		zap.Int("entries", len(r.Relevant)),
		zap.Int("indices", len(indices)),
		zap.Int("selected", len(selected)))
	return selected, nil
}

// Select returns the candidates whose positions appear in indices, in
// candidate order. Out-of-range and repeated indices are ignored.
func Select(candidates []types.SearchResult, indices []int) []types.SearchResult {
	keep := make([]bool, len(candidates))
	for _, i := range indices {
		if i >= 0 && i < len(candidates) {
			keep[i] = true
		}
	}
	out := []types.SearchResult{}
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// Indices keeps the integral JSON numbers of entries. Strings, fractions,
// nulls and nested values are dropped; 1.0 counts as 1.
func Indices(entries []any) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		v, ok := e.(float64)
		if !ok || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			continue
		}
		out = append(out, int(v))
	}
	return out
}

// Summary renders the indexed candidate block sent to the model.
func Summary(candidates []types.SearchResult, snippetChars int) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "[%d] Title: %s\n    URL: %s\n    Snippet: %s\n\n",
			i, oneLine(c.Title), c.URL, oneLine(clip(c.Content, snippetChars)))
	}
	return b.String()
}

func (f *Filter) render(query string, candidates []types.SearchResult) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		Query   string
		Summary string
	}{strings.TrimSpace(query), Summary(candidates, f.cfg.SnippetChars)})
	return buf.String(), err
}

// clip returns at most n runes of s.
func clip(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
