// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth writes the final markdown report from the filtered results.
package synth

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/report"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

// truncatedNote marks source text cut at the context cap.
const truncatedNote = "\n\n[Content truncated due to length...]"

var systemPromptTmpl = template.Must(template.New("synth-system").Parse(`You are a research report writer. Based on the provided sources, write a comprehensive, well-structured answer to the user's question.

Requirements:
- Use markdown formatting with section headings, bullet points and bold text
- Cite sources inline with their bracketed numbers, for example [1] or [2][3]
- Be thorough but concise
- If sources conflict, acknowledge the different perspectives
- End with a short conclusion
- Finish with a final section titled exactly "{{.Marker}}" listing every cited source on its own line as: N. [Title](URL)`))

var userPromptTmpl = template.Must(template.New("synth-user").Parse(`Research Question: {{.Query}}

Sources:
{{.Context}}

Write a comprehensive research report answering the question above. Use the sources provided and cite them by number.`))

const noSourcesContext = "No relevant sources were found. Say so plainly, answer only what can be stated with confidence, and omit the references section."

// systemPrompt is the rendered system prompt naming report.Marker.
var systemPrompt = mustRender(systemPromptTmpl, struct{ Marker string }{report.Marker})

func mustRender(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("synth: rendering %s: %v", t.Name(), err))
	}
	return buf.String()
}

// markedReferences matches the marker heading at any level.
var markedReferences = regexp.MustCompile(`(?m)^#{1,6}[ \t]*📚[ \t]*References[ \t]*:?[ \t]*$`)

// plainReferences matches a references heading that is not the marker.
var plainReferences = regexp.MustCompile(`(?m)^#{1,6}[ \t]*(?:📚[ \t]*)?(?:References|Sources)[ \t]*:?[ \t]*$`)

// Synthesizer produces the report.
type Synthesizer struct {
	llm    llm.Completer
	cfg    types.SynthConfig
	logger *zap.Logger
}

// New creates a Synthesizer.
func New(c llm.Completer, cfg types.SynthConfig, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = types.DefaultConfig().Synth.MaxContextChars
	}
	return &Synthesizer{llm: c, cfg: cfg, logger: logger}
}

// Synthesize makes one model call and returns the report. A plain
// references heading is rewritten to report.Marker, and a references
// section built from results is appended when the model left it out.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []types.SearchResult) (string, error) {
	sources := Context(results, s.cfg.MaxContextChars)
	if len(results) == 0 {
		sources = noSourcesContext
	}

	var usr bytes.Buffer
	if err := userPromptTmpl.Execute(&usr, struct {
		Query   string
		Context string
	}{strings.TrimSpace(query), sources}); err != nil {
		return "", stage.New(stage.KindSynthesis, fmt.Errorf("rendering prompt: %w", err))
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		Call:        llm.CallSynthesize,
		System:      systemPrompt,
		User:        usr.String(),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", stage.New(stage.KindSynthesis, err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", stage.New(stage.KindSynthesis, llm.ErrEmptyResponse)
	}

	out := Normalize(text, results)
	if out != text {
		s.logger.Debug("report references normalized")
	}
	return out, nil
}

// Normalize enforces the references contract on a model-written report.
// A marker heading at any level becomes exactly report.Marker.
func Normalize(text string, results []types.SearchResult) string {
	if loc := markedReferences.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + report.Marker + text[loc[1]:]
	}
	if strings.Contains(text, report.Marker) {
		return text
	}
	if loc := plainReferences.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + report.Marker + text[loc[1]:]
	}
	if len(results) == 0 {
		return text
	}
	return text + "\n\n" + strings.TrimRight(report.Render(References(results)), "\n")
}

// References lists the results as report references, in order.
func References(results []types.SearchResult) []types.Reference {
	refs := make([]types.Reference, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		refs[i] = types.Reference{Title: title, URL: r.URL}
	}
	return refs
}

// Context renders numbered sources for the prompt, capped at maxChars.
func Context(results []types.SearchResult, maxChars int) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s (%s)\n%s\n---\n\n", i+1, r.Title, r.URL, strings.TrimSpace(r.Content))
	}
	out := strings.TrimRight(b.String(), "\n")
	if maxChars > 0 && len(out) > maxChars {
		cut := maxChars
		for cut > 0 && !utf8Start(out[cut]) {
			cut--
		}
		out = out[:cut] + truncatedNote
	}
	return out
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
