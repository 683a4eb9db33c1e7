// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/web-scout/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "groq-api-key", "  gsk_abc123  \n")
				writeFile(t, dir, "tavily-api-key", "tvly-xyz789")
				return dir
			},
			want: map[string]string{
				"groq-api-key":   "gsk_abc123",
				"tavily-api-key": "tvly-xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"openai-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "tavily-api-key", "tvly-real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"tavily-api-key": "tvly-real",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var warned []string
	got, err := Load(dir, func(name string, _ error) { warned = append(warned, name) })
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	assert.NotContains(t, got, "bad-key")
	assert.Equal(t, []string{"bad-key"}, warned)
}

func TestApply(t *testing.T) {
	t.Run("fills empty keys, groq preferred", func(t *testing.T) {
		cfg := types.DefaultConfig()
		Apply(&cfg, map[string]string{
			GroqAPIKey:   "gsk",
			OpenAIAPIKey: "sk",
			TavilyAPIKey: "tvly",
		})
		assert.Equal(t, "gsk", cfg.LLM.APIKey)
		assert.Equal(t, "tvly", cfg.Search.APIKey)
	})

	t.Run("falls back to openai key", func(t *testing.T) {
		cfg := types.DefaultConfig()
		Apply(&cfg, map[string]string{OpenAIAPIKey: "sk"})
		assert.Equal(t, "sk", cfg.LLM.APIKey)
	})

	t.Run("configured values win", func(t *testing.T) {
		cfg := types.DefaultConfig()
		cfg.LLM.APIKey = "from-env"
		cfg.Search.APIKey = "from-file"
		Apply(&cfg, map[string]string{GroqAPIKey: "gsk", TavilyAPIKey: "tvly"})
		assert.Equal(t, "from-env", cfg.LLM.APIKey)
		assert.Equal(t, "from-file", cfg.Search.APIKey)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
