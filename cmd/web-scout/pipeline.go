// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/research"
	"github.com/pdiddy/web-scout/internal/search"
	"github.com/pdiddy/web-scout/pkg/types"
)

var errMissingModelKey = errors.New("no model API key: set llm.api_key, WEB_SCOUT_LLM_API_KEY or .secrets/groq-api-key")

// newPipeline wires the production pipeline: the OpenAI-compatible model
// client and the Tavily search backend.
func newPipeline(c types.Config) (*research.Pipeline, error) {
	if c.LLM.APIKey == "" {
		return nil, errMissingModelKey
	}
	if c.Search.APIKey == "" {
		return nil, search.ErrMissingAPIKey
	}

	model := llm.NewOpenAIBackend(c.LLM, logger.Named("llm"))
	backend := search.NewTavilyBackend(c.Search)
	return research.New(c, model, backend, logger), nil
}
