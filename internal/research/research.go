// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs the plan, search, filter and synthesize stages in
// strict sequence for one query.
package research

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/filter"
	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/metrics"
	"github.com/pdiddy/web-scout/internal/plan"
	"github.com/pdiddy/web-scout/internal/search"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/internal/synth"
	"github.com/pdiddy/web-scout/pkg/types"
)

// Stage names used in timings, logs and metrics.
const (
	StagePlan       = "plan"
	StageSearch     = "search"
	StageFilter     = "filter"
	StageSynthesize = "synthesize"
)

// Planner produces the sub-queries for a query.
type Planner interface {
	Plan(ctx context.Context, query string) (types.Plan, error)
}

// Searcher runs a plan against the web.
type Searcher interface {
	Search(ctx context.Context, p types.Plan) (search.Output, error)
}

// Filter selects the relevant candidates.
type Filter interface {
	Filter(ctx context.Context, query string, candidates []types.SearchResult) ([]types.SearchResult, error)
}

// Synthesizer writes the report.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, results []types.SearchResult) (string, error)
}

// Pipeline holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	Planner     Planner
	Searcher    Searcher
	Filter      Filter
	Synthesizer Synthesizer
	Logger      *zap.Logger

	// Progress, when non-nil, receives one line per completed stage.
	Progress io.Writer
}

// New wires the production stages from cfg around one model client and one
// search backend.
func New(cfg types.Config, c llm.Completer, b search.Backend, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Planner:     plan.New(c, cfg.Planner, logger.Named("plan")),
		Searcher:    search.NewSearcher(b, cfg.Search.MaxResults, logger.Named("search")),
		Filter:      filter.New(c, cfg.Filter, logger.Named("filter")),
		Synthesizer: synth.New(c, cfg.Synth, logger.Named("synth")),
		Logger:      logger,
	}
}

// Run executes the four stages. The first failing stage short-circuits the
// run; its *stage.Error is returned and no later stage is called.
func (p *Pipeline) Run(ctx context.Context, query string) (*types.ResearchResult, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	query = strings.TrimSpace(query)
	if query == "" {
		err := stage.Errorf(stage.KindRequest, "query is empty")
		metrics.Requests.WithLabelValues(string(stage.KindRequest)).Inc()
		return nil, err
	}

	stats := &types.Stats{StageMS: make(map[string]int64, 4)}
	start := time.Now()

	var pl types.Plan
	err := p.timed(StagePlan, stats, func() (err error) {
		pl, err = p.Planner.Plan(ctx, query)
		return err
	})
	if err != nil {
		return nil, p.fail(logger, StagePlan, err)
	}
	p.progress("planned %d sub-queries", len(pl))

	var out search.Output
	err = p.timed(StageSearch, stats, func() (err error) {
		out, err = p.Searcher.Search(ctx, pl)
		return err
	})
	if err != nil {
		return nil, p.fail(logger, StageSearch, err)
	}
	stats.Candidates = len(out.Results)
	stats.FailedSubs = len(out.Failed)
	metrics.Candidates.Observe(float64(stats.Candidates))
	p.progress("found %d candidates (%d sub-queries failed)", stats.Candidates, stats.FailedSubs)

	var selected []types.SearchResult
	err = p.timed(StageFilter, stats, func() (err error) {
		selected, err = p.Filter.Filter(ctx, query, out.Results)
		return err
	})
	if err != nil {
		return nil, p.fail(logger, StageFilter, err)
	}
	stats.Selected = len(selected)
	metrics.Selected.Observe(float64(stats.Selected))
	p.progress("kept %d relevant results", stats.Selected)

	var rep string
	err = p.timed(StageSynthesize, stats, func() (err error) {
		rep, err = p.Synthesizer.Synthesize(ctx, query, selected)
		return err
	})
	if err != nil {
		return nil, p.fail(logger, StageSynthesize, err)
	}
	p.progress("wrote report (%d characters)", len(rep))

	metrics.Requests.WithLabelValues(types.StatusSuccess).Inc()
	logger.Info("research complete",
		zap.Int("sub_queries", len(pl)),
		zap.Int("candidates", stats.Candidates),
		zap.Int("selected", stats.Selected),
		zap.Duration("elapsed", time.Since(start)))

	return &types.ResearchResult{
		Status:  types.StatusSuccess,
		Plan:    pl,
		Report:  rep,
		Sources: sourcesOf(selected),
		Stats:   stats,
	}, nil
}

func (p *Pipeline) timed(name string, stats *types.Stats, fn func() error) error {
	t0 := time.Now()
	err := fn()
	d := time.Since(t0)
	stats.StageMS[name] = d.Milliseconds()
	metrics.ObserveStage(name, d, err != nil)
	return err
}

// fail makes sure err carries a stage kind, records it and logs it.
func (p *Pipeline) fail(logger *zap.Logger, name string, err error) error {
	kind := stage.KindOf(err)
	if kind == "" {
		kind = kindFor(name)
		err = stage.New(kind, err)
	}
	metrics.Requests.WithLabelValues(string(kind)).Inc()
	logger.Warn("research failed",
		zap.String("stage", name),
		zap.String("kind", string(kind)),
		zap.Error(err))
	p.progress("%s failed: %v", name, err)
	return err
}

func (p *Pipeline) progress(format string, args ...any) {
	if p.Progress != nil {
		fmt.Fprintf(p.Progress, format+"\n", args...)
	}
}

func kindFor(name string) stage.Kind {
	switch name {
	case StagePlan:
		return stage.KindPlanning
	case StageSearch:
		return stage.KindSearch
	case StageFilter:
		return stage.KindFilter
	default:
		return stage.KindSynthesis
	}
}

func sourcesOf(results []types.SearchResult) []types.Source {
	if len(results) == 0 {
		return nil
	}
	out := make([]types.Source, len(results))
	for i, r := range results {
		out[i] = types.Source{Title: r.Title, URL: r.URL}
	}
	return out
}
