package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "web-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of extra attempts on HTTP 429. Zero means a
	// rate-limited call fails immediately.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LLMConfig holds settings for the OpenAI-compatible chat completion provider.
type LLMConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the API root (Groq's OpenAI-compatible endpoint by default).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Model is the model identifier (e.g. "llama-3.3-70b-versatile").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// StructuredOutput selects "json_object" or "json_schema" response formats
	// for the planner and the batch filter.
	StructuredOutput string `json:"structured_output" yaml:"structured_output" mapstructure:"structured_output"`
}

// PlannerConfig holds settings for the planning stage.
type PlannerConfig struct {
	// SubQueries is the number of sub-queries requested from the model (default 3).
	SubQueries int `json:"sub_queries" yaml:"sub_queries" mapstructure:"sub_queries"`

	// Temperature is the sampling temperature for planning calls.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the Tavily search endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey authenticates against the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Depth is the Tavily search depth: basic or advanced.
	Depth string `json:"depth" yaml:"depth" mapstructure:"depth"`

	// MaxResults is the maximum number of results kept per sub-query (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// FilterConfig holds settings for the batch filter stage.
type FilterConfig struct {
	// MaxCandidates is the hard ceiling on candidates sent in one call.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`

	// MaxPromptChars is the hard ceiling on the rendered prompt size.
	MaxPromptChars int `json:"max_prompt_chars" yaml:"max_prompt_chars" mapstructure:"max_prompt_chars"`

	// SnippetChars clips each candidate snippet in the summary block.
	SnippetChars int `json:"snippet_chars" yaml:"snippet_chars" mapstructure:"snippet_chars"`

	// Temperature is the sampling temperature for the filter call.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// SynthConfig holds settings for the report synthesis stage.
type SynthConfig struct {
	// MaxContextChars caps the total source text sent to the model (default 15000).
	MaxContextChars int `json:"max_context_chars" yaml:"max_context_chars" mapstructure:"max_context_chars"`

	// Temperature is the sampling temperature for the synthesis call.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadTimeout bounds reading the request.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds the whole pipeline run plus the response write.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ClientConfig holds settings for the terminal clients.
type ClientConfig struct {
	// APIURL is the backend base URL (default "http://localhost:8000").
	APIURL string `json:"api_url" yaml:"api_url" mapstructure:"api_url"`

	// Timeout bounds one research request from the client side.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// StatusInterval is the period of the rotating status text (default 2.5s).
	StatusInterval time.Duration `json:"status_interval" yaml:"status_interval" mapstructure:"status_interval"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" (production) or "console" (development).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Planner PlannerConfig `json:"planner" yaml:"planner" mapstructure:"planner"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Filter  FilterConfig  `json:"filter" yaml:"filter" mapstructure:"filter"`
	Synth   SynthConfig   `json:"synth" yaml:"synth" mapstructure:"synth"`
	Client  ClientConfig  `json:"client" yaml:"client" mapstructure:"client"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   2 * time.Minute,
				UserAgent: "web-scout/0.1",
			},
			BaseURL:          "https://api.groq.com/openai/v1",
			Model:            "llama-3.3-70b-versatile",
			StructuredOutput: "json_object",
		},
		Planner: PlannerConfig{
			SubQueries:  3,
			Temperature: 0.7,
		},
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "web-scout/0.1",
			},
			BaseURL:    "https://api.tavily.com/search",
			Depth:      "basic",
			MaxResults: 5,
		},
		Filter: FilterConfig{
			MaxCandidates:  50,
			MaxPromptChars: 48000,
			SnippetChars:   1000,
			Temperature:    0.3,
		},
		Synth: SynthConfig{
			MaxContextChars: 15000,
			Temperature:     0.7,
		},
		Client: ClientConfig{
			APIURL:         "http://localhost:8000",
			Timeout:        5 * time.Minute,
			StatusInterval: 2500 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
