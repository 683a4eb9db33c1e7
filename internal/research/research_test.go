// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/llm/llmtest"
	"github.com/pdiddy/web-scout/internal/report"
	"github.com/pdiddy/web-scout/internal/search"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

const batteryQuery = "latest advances in battery technology"

// fakeSearch answers every sub-query with a fixed set of hits.
type fakeSearch struct {
	hits  map[string][]search.Hit
	err   error
	calls int
}

func (f *fakeSearch) Name() string { return "fake" }

func (f *fakeSearch) Search(_ context.Context, q string, _ int) ([]search.Hit, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[q], nil
}

func batterySearch() *fakeSearch {
	return &fakeSearch{hits: map[string][]search.Hit{
		"solid-state batteries 2024": {
			{Title: "Solid-state breakthrough", URL: "https://www.nature.com/articles/x", Content: "A stable sulfide electrolyte."},
			{Title: "Celebrity gossip", URL: "https://gossip.example/1", Content: "Unrelated."},
		},
		"sodium-ion battery commercialization": {
			{Title: "Sodium-ion goes commercial", URL: "https://techcrunch.com/sodium", Content: "CATL begins mass production."},
		},
		"battery recycling innovations": {
			{Title: "Recycling at scale", URL: "https://www.reuters.com/recycling", Content: "Redwood Materials expands."},
		},
	}}
}

const batteryReport = "# Advances in Battery Technology\n\nSolid-state cells [1], sodium-ion [2] and recycling [3].\n\n" +
	report.Marker + "\n\n" +
	"1. [Solid-state breakthrough](https://www.nature.com/articles/x)\n" +
	"2. [Sodium-ion goes commercial](https://techcrunch.com/sodium)\n" +
	"3. [Recycling at scale](https://www.reuters.com/recycling)"

func batteryLLM() *llmtest.Fake {
	return llmtest.New().
		Text(llm.CallPlan, `{"queries": ["solid-state batteries 2024", "sodium-ion battery commercialization", "battery recycling innovations"]}`).
		Text(llm.CallFilter, `{"relevant": [0, 2, 3]}`).
		Text(llm.CallSynthesize, batteryReport)
}

func TestRun_EndToEnd(t *testing.T) {
	fake := batteryLLM()
	backend := batterySearch()
	var progress bytes.Buffer
	p := New(types.DefaultConfig(), fake, backend, nil)
	p.Progress = &progress

	res, err := p.Run(t.Context(), batteryQuery)
	require.NoError(t, err)

	assert.Equal(t, types.StatusSuccess, res.Status)
	assert.Len(t, res.Plan, 3)
	assert.Equal(t, batteryReport, res.Report)
	assert.Equal(t, 3, backend.calls)

	parsed := report.Parse(res.Report)
	require.NotEmpty(t, parsed.References)
	assert.Len(t, parsed.References, 3)
	assert.Equal(t, "nature.com", report.Hostname(parsed.References[0].URL))

	assert.Equal(t, []types.Source{
		{Title: "Solid-state breakthrough", URL: "https://www.nature.com/articles/x"},
		{Title: "Sodium-ion goes commercial", URL: "https://techcrunch.com/sodium"},
		{Title: "Recycling at scale", URL: "https://www.reuters.com/recycling"},
	}, res.Sources)

	require.NotNil(t, res.Stats)
	assert.Equal(t, 4, res.Stats.Candidates)
	assert.Equal(t, 3, res.Stats.Selected)
	assert.Len(t, res.Stats.StageMS, 4)

	assert.Len(t, fake.Calls(llm.CallPlan), 1)
	assert.Len(t, fake.Calls(llm.CallFilter), 1)
	assert.Len(t, fake.Calls(llm.CallSynthesize), 1)
	assert.NotContains(t, fake.Calls(llm.CallSynthesize)[0].User, "Celebrity gossip")

	assert.Contains(t, progress.String(), "planned 3 sub-queries")
	assert.Contains(t, progress.String(), "kept 3 relevant results")
}

func TestRun_ShortCircuits(t *testing.T) {
	tests := []struct {
		name       string
		llm        *llmtest.Fake
		search     *fakeSearch
		wantKind   stage.Kind
		wantSent   error
		wantSearch int
		wantCalls  []string
	}{
		{
			name:      "planning failure",
			llm:       llmtest.New().Fail(llm.CallPlan, errors.New("invalid api key")),
			search:    batterySearch(),
			wantKind:  stage.KindPlanning,
			wantSent:  stage.ErrPlanning,
			wantCalls: []string{llm.CallPlan},
		},
		{
			name:       "every search fails",
			llm:        llmtest.New().Text(llm.CallPlan, `{"queries": ["a", "b"]}`),
			search:     &fakeSearch{err: errors.New("HTTP 432")},
			wantKind:   stage.KindSearch,
			wantSent:   stage.ErrSearch,
			wantSearch: 2,
			wantCalls:  []string{llm.CallPlan},
		},
		{
			name: "filter failure",
			llm: llmtest.New().
				Text(llm.CallPlan, `{"queries": ["solid-state batteries 2024"]}`).
				Text(llm.CallFilter, "not json"),
			search:     batterySearch(),
			wantKind:   stage.KindFilter,
			wantSent:   stage.ErrFilter,
			wantSearch: 1,
			wantCalls:  []string{llm.CallPlan, llm.CallFilter},
		},
		{
			name: "synthesis failure",
			llm: llmtest.New().
				Text(llm.CallPlan, `{"queries": ["solid-state batteries 2024"]}`).
				Text(llm.CallFilter, `{"relevant": [0]}`).
				Fail(llm.CallSynthesize, errors.New("timeout")),
			search:     batterySearch(),
			wantKind:   stage.KindSynthesis,
			wantSent:   stage.ErrSynthesis,
			wantSearch: 1,
			wantCalls:  []string{llm.CallPlan, llm.CallFilter, llm.CallSynthesize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(types.DefaultConfig(), tt.llm, tt.search, nil)
			res, err := p.Run(t.Context(), batteryQuery)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.wantKind, stage.KindOf(err))
			assert.ErrorIs(t, err, tt.wantSent)
			assert.Equal(t, tt.wantSearch, tt.search.calls)

			var calls []string
			for _, c := range tt.llm.Calls("") {
				calls = append(calls, c.Call)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRun_EmptyQuery(t *testing.T) {
	fake := llmtest.New()
	res, err := New(types.DefaultConfig(), fake, batterySearch(), nil).Run(t.Context(), "   ")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, stage.ErrRequest)
	assert.Empty(t, fake.Calls(""))
}

// untypedStage returns a plain error; Run must still report a stage kind.
type untypedStage struct{}

func (untypedStage) Filter(context.Context, string, []types.SearchResult) ([]types.SearchResult, error) {
	return nil, errors.New("plain failure")
}

func TestRun_WrapsUntypedErrors(t *testing.T) {
	p := New(types.DefaultConfig(), batteryLLM(), batterySearch(), nil)
	p.Filter = untypedStage{}

	_, err := p.Run(t.Context(), batteryQuery)
	require.Error(t, err)
	assert.Equal(t, stage.KindFilter, stage.KindOf(err))
	assert.Equal(t, "Result filtering failed: plain failure", err.Error())
}

func TestRun_NoRelevantResults(t *testing.T) {
	fake := llmtest.New().
		Text(llm.CallPlan, `{"queries": ["solid-state batteries 2024"]}`).
		Text(llm.CallFilter, `{"relevant": []}`).
		Text(llm.CallSynthesize, "No relevant sources were found.")

	res, err := New(types.DefaultConfig(), fake, batterySearch(), nil).Run(t.Context(), batteryQuery)
	require.NoError(t, err)
	assert.Equal(t, "No relevant sources were found.", res.Report)
	assert.Nil(t, res.Sources)
	assert.Equal(t, 0, res.Stats.Selected)
}

func TestFormats(t *testing.T) {
	res, err := New(types.DefaultConfig(), batteryLLM(), batterySearch(), nil).Run(t.Context(), batteryQuery)
	require.NoError(t, err)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		FormatText(res, &buf)
		out := buf.String()
		assert.Contains(t, out, "1. solid-state batteries 2024")
		assert.Contains(t, out, "(techcrunch.com)")
		assert.Contains(t, out, "4 candidates, 3 selected")
		assert.Regexp(t, `plan \d+ms, search \d+ms, filter \d+ms, synthesize \d+ms`, out)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatJSON(res, &buf))
		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "success", got["status"])
		assert.Len(t, got["plan"], 3)
		assert.Equal(t, batteryReport, got["report"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FormatYAML(res, &buf))
		var got types.ResearchResult
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, res.Plan, got.Plan)
		assert.Equal(t, res.Report, got.Report)
	})
}
