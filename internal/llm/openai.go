// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/metrics"
	"github.com/pdiddy/web-scout/pkg/types"
)

// Structured output modes accepted in LLMConfig.StructuredOutput.
const (
	OutputJSONObject = "json_object"
	OutputJSONSchema = "json_schema"
)

// OpenAIBackend issues chat completions against an OpenAI-compatible API.
type OpenAIBackend struct {
	client     openai.Client
	model      string
	structured string
	logger     *zap.Logger
}

// NewOpenAIBackend creates a backend from cfg. Extra request options are
// appended after the configured ones, which lets tests swap the transport.
func NewOpenAIBackend(cfg types.LLMConfig, logger *zap.Logger, opts ...option.RequestOption) *OpenAIBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		base = append(base, option.WithHeader("User-Agent", cfg.UserAgent))
	}

	structured := cfg.StructuredOutput
	if structured == "" {
		structured = OutputJSONObject
	}

	return &OpenAIBackend{
		client:     openai.NewClient(append(base, opts...)...),
		model:      cfg.Model,
		structured: structured,
		logger:     logger,
	}
}

// Complete sends one chat completion and returns the first choice's text.
// Provider context-length failures are reported as ErrContextWindow.
func (b *OpenAIBackend) Complete(ctx context.Context, req Request) (Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.JSON {
		params.ResponseFormat = b.responseFormat(req.Schema)
	}

	start := time.Now()
	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		b.logger.Warn("completion failed",
			zap.String("call", req.Call),
			zap.String("model", b.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		if IsContextWindow(err) {
			return Response{}, fmt.Errorf("%w: %w", ErrContextWindow, err)
		}
		return Response{}, fmt.Errorf("%s completion: %w", req.Call, err)
	}

	metrics.LLMTokens.WithLabelValues(req.Call, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokens.WithLabelValues(req.Call, "completion").Add(float64(resp.Usage.CompletionTokens))

	b.logger.Debug("completion done",
		zap.String("call", req.Call),
		zap.String("model", b.model),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	if len(resp.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Text:             text,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (b *OpenAIBackend) responseFormat(schema *Schema) openai.ChatCompletionNewParamsResponseFormatUnion {
	if b.structured == OutputJSONSchema && schema != nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schema.Name,
					Strict: openai.Bool(true),
					Schema: schema.Schema,
				},
			},
		}
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
	}
}

// IsContextWindow reports whether err is a provider rejection caused by the
// prompt not fitting the model's context window.
func IsContextWindow(err error) bool {
	if errors.Is(err, ErrContextWindow) {
		return true
	}
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == "context_length_exceeded" {
		return true
	}
	switch apiErr.StatusCode {
	case http.StatusRequestEntityTooLarge:
		return true
	case http.StatusBadRequest:
		msg := strings.ToLower(apiErr.Message)
		return strings.Contains(msg, "context") && (strings.Contains(msg, "length") || strings.Contains(msg, "window") || strings.Contains(msg, "too long"))
	}
	return false
}

// StatusCode returns the HTTP status of a provider error, or 0.
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
