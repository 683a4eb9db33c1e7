// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the text-completion provider used by the planner,
// the batch filter and the synthesizer. The production backend talks to any
// OpenAI-compatible chat completions API (Groq by default).
package llm

import (
	"context"
	"errors"
)

// Call names identify which stage issued a completion, for logs and metrics.
const (
	CallPlan       = "plan"
	CallFilter     = "filter"
	CallSynthesize = "synthesize"
)

// ErrContextWindow marks a request that does not fit the model's context window.
var ErrContextWindow = errors.New("prompt exceeds the model context window")

// ErrEmptyResponse marks a completion with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Schema names a JSON schema for structured output.
type Schema struct {
	Name   string
	Schema map[string]any
}

// Request is one chat completion with a system and a user message.
type Request struct {
	// Call identifies the issuing stage (CallPlan, CallFilter, CallSynthesize).
	Call string

	System string
	User   string

	Temperature float64

	// JSON requests a JSON object answer. When Schema is set and the backend
	// is configured for json_schema output, the schema is enforced.
	JSON   bool
	Schema *Schema
}

// Response is the model's answer.
type Response struct {
	Text             string
	PromptTokens     int64
	CompletionTokens int64
}

// Completer issues a single chat completion. Implementations must be safe
// for concurrent use.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
