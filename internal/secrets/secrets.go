// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: groq-api-key, openai-api-key, tavily-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/web-scout/pkg/types"
)

// Key file names recognised by Apply.
const (
	GroqAPIKey   = "groq-api-key"
	OpenAIAPIKey = "openai-api-key"
	TavilyAPIKey = "tavily-api-key"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory is not an error; Load returns an empty map.
// Unreadable files are reported through warn and skipped.
func Load(dir string, warn func(name string, err error)) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if warn != nil {
				warn(name, err)
			}
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills empty API keys in cfg from the loaded secrets. Values already
// set through the config file or environment win. For the model provider
// the Groq key is preferred over the OpenAI key.
func Apply(cfg *types.Config, s map[string]string) {
	if cfg.LLM.APIKey == "" {
		if v := s[GroqAPIKey]; v != "" {
			cfg.LLM.APIKey = v
		} else {
			cfg.LLM.APIKey = s[OpenAIAPIKey]
		}
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = s[TavilyAPIKey]
	}
}
