// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs one web search per planned sub-query and returns the
// flat, ordered candidate list consumed by the batch filter.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/metrics"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

// Hit is one provider result before it is tagged with its sub-query.
type Hit struct {
	Title   string
	URL     string
	Content string
}

// Backend searches the web for a single query and returns at most
// maxResults hits in provider rank order.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Hit, error)
}

// Output is the searcher's result: the candidates plus the per-sub-query
// failures that were skipped.
type Output struct {
	Results []types.SearchResult
	Failed  []Failure
}

// Failure records a skipped sub-query.
type Failure struct {
	SubQuery int
	Query    string
	Err      error
}

func (f Failure) Error() string {
	return fmt.Sprintf("sub-query %d %q: %v", f.SubQuery, f.Query, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Searcher calls the backend once per sub-query, sequentially, in plan order.
type Searcher struct {
	backend    Backend
	maxResults int
	logger     *zap.Logger
}

// NewSearcher creates a Searcher that keeps at most maxResults hits per sub-query.
func NewSearcher(b Backend, maxResults int, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Searcher{backend: b, maxResults: maxResults, logger: logger}
}

// Search runs the plan. A failing sub-query is logged and skipped; when
// every sub-query fails, or ctx is cancelled, Search returns a search
// *stage.Error. Zero results with no failures is not an error.
func (s *Searcher) Search(ctx context.Context, plan types.Plan) (Output, error) {
	var out Output
	if len(plan) == 0 {
		return out, nil
	}

	for i, q := range plan {
		if err := ctx.Err(); err != nil {
			return Output{}, stage.New(stage.KindSearch, err)
		}

		hits, err := s.backend.Search(ctx, q, s.maxResults)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Output{}, stage.New(stage.KindSearch, errors.Join(ctxErr, err))
			}
			s.logger.Warn("sub-query search failed",
				zap.String("backend", s.backend.Name()),
				zap.Int("sub_query", i),
				zap.String("query", q),
				zap.Error(err))
			metrics.SubQueryFailures.Inc()
			out.Failed = append(out.Failed, Failure{SubQuery: i, Query: q, Err: err})
			continue
		}

		if len(hits) > s.maxResults {
			hits = hits[:s.maxResults]
		}
		for _, h := range hits {
			out.Results = append(out.Results, types.SearchResult{
				Title:    strings.TrimSpace(h.Title),
				URL:      strings.TrimSpace(h.URL),
				Content:  h.Content,
				SubQuery: i,
				Query:    q,
			})
		}
		s.logger.Debug("sub-query searched",
			zap.Int("sub_query", i),
			zap.String("query", q),
			zap.Int("hits", len(hits)))
	}

	if len(out.Failed) == len(plan) {
		errs := make([]error, len(out.Failed))
		for i, f := range out.Failed {
			errs[i] = f
		}
		return Output{}, stage.New(stage.KindSearch, errors.Join(errs...))
	}
	return out, nil
}
