// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan decomposes a research query into independently searchable
// sub-queries with one model call.
package plan

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

// Bounds on the number of sub-queries.
const (
	MinSubQueries     = 1
	MaxSubQueries     = 10
	DefaultSubQueries = 3
)

var systemPromptTmpl = template.Must(template.New("plan-system").Parse(`You are a research planning assistant. Your job is to break down a user's research question into exactly {{.N}} specific, searchable sub-queries.

Each sub-query should:
- Be specific and focused
- Target a different aspect of the main question
- Be optimized for web search (clear, concise keywords)

You MUST respond with valid JSON in this exact format:
{"queries": [{{range $i, $q := .Placeholders}}{{if $i}}, {{end}}"{{$q}}"{{end}}]}

Example:
User: "Is AI dangerous?"
Response: {"queries": ["AI safety risks and potential dangers 2024", "Benefits of artificial intelligence for society", "AI regulation and safety measures worldwide"]}
`))

var userPromptTmpl = template.Must(template.New("plan-user").Parse(`Break down this research question into {{.N}} specific search queries:

{{.Query}}`))

// response is the JSON object the model is asked to produce.
type response struct {
	Queries []string `json:"queries" jsonschema_description:"Specific, independently searchable web search queries."`
}

var responseSchema = llm.SchemaFor("research_plan", response{})

// Planner turns a query into a Plan.
type Planner struct {
	llm    llm.Completer
	n      int
	temp   float64
	logger *zap.Logger
}

// New creates a Planner. The sub-query count is clamped to
// [MinSubQueries, MaxSubQueries]; zero selects DefaultSubQueries.
func New(c llm.Completer, cfg types.PlannerConfig, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := cfg.SubQueries
	switch {
	case n == 0:
		n = DefaultSubQueries
	case n < MinSubQueries:
		n = MinSubQueries
	case n > MaxSubQueries:
		n = MaxSubQueries
	}
	return &Planner{llm: c, n: n, temp: cfg.Temperature, logger: logger}
}

// SubQueries returns the number of sub-queries requested per plan.
func (p *Planner) SubQueries() int { return p.n }

// Plan asks the model for sub-queries. The result is non-empty, free of
// blank entries and case-insensitive duplicates, and at most SubQueries
// long. Every failure is a planning *stage.Error.
func (p *Planner) Plan(ctx context.Context, query string) (types.Plan, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, stage.Errorf(stage.KindPlanning, "empty query")
	}

	system, user, err := p.render(query)
	if err != nil {
		return nil, stage.New(stage.KindPlanning, fmt.Errorf("rendering prompt: %w", err))
	}

	resp, err := p.llm.Complete(ctx, llm.Request{
		Call:        llm.CallPlan,
		System:      system,
		User:        user,
		Temperature: p.temp,
		JSON:        true,
		Schema:      responseSchema,
	})
	if err != nil {
		return nil, stage.New(stage.KindPlanning, err)
	}

	var r response
	if err := llm.DecodeJSON(resp.Text, &r); err != nil {
		return nil, stage.New(stage.KindPlanning, err)
	}

	plan := Normalize(r.Queries, p.n)
	if len(plan) == 0 {
		return nil, stage.Errorf(stage.KindPlanning, "model returned no usable sub-queries")
	}
	if len(r.Queries) != len(plan) {
		p.logger.Debug("plan normalized",
			zap.Int("returned", len(r.Queries)),
			zap.Int("kept", len(plan)))
	}
	return plan, nil
}

// Normalize trims entries, drops blanks and case-insensitive duplicates
// (first occurrence wins) and truncates to n entries.
func Normalize(queries []string, n int) types.Plan {
	seen := make(map[string]bool, len(queries))
	var out types.Plan
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

func (p *Planner) render(query string) (string, string, error) {
	placeholders := make([]string, p.n)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("query%d", i+1)
	}

	var sys, usr bytes.Buffer
	if err := systemPromptTmpl.Execute(&sys, struct {
		N            int
		Placeholders []string
	}{p.n, placeholders}); err != nil {
		return "", "", err
	}
	if err := userPromptTmpl.Execute(&usr, struct {
		N     int
		Query string
	}{p.n, query}); err != nil {
		return "", "", err
	}
	return sys.String(), usr.String(), nil
}
