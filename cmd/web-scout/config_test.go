// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/web-scout/pkg/types"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	require.NoError(t, setDefaults(v))
	bindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := loadConfig(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), c)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web-scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
llm:
  model: gpt-4o-mini
  timeout: 45s
planner:
  sub_queries: 5
`), 0o644))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, "gpt-4o-mini", c.LLM.Model)
	assert.Equal(t, 45*time.Second, c.LLM.Timeout)
	assert.Equal(t, 5, c.Planner.SubQueries)
	assert.Equal(t, "basic", c.Search.Depth, "unset keys keep their defaults")
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("WEB_SCOUT_LLM_MODEL", "mixtral")
	t.Setenv("WEB_SCOUT_LLM_API_KEY", "gsk-env")
	t.Setenv("WEB_SCOUT_SEARCH_API_KEY", "tvly-env")
	t.Setenv("WEB_SCOUT_API_URL", "https://scout.example.com")

	c, err := loadConfig(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, "mixtral", c.LLM.Model)
	assert.Equal(t, "gsk-env", c.LLM.APIKey)
	assert.Equal(t, "tvly-env", c.Search.APIKey)
	assert.Equal(t, "https://scout.example.com", c.Client.APIURL)
}

func TestWriteConfig_RedactsKeys(t *testing.T) {
	c := types.DefaultConfig()
	c.LLM.APIKey = "gsk-secret"
	c.Search.APIKey = "tvly-secret"

	var buf bytes.Buffer
	require.NoError(t, writeConfig(&buf, c))
	out := buf.String()
	assert.NotContains(t, out, "gsk-secret")
	assert.NotContains(t, out, "tvly-secret")
	assert.Contains(t, out, redacted)
	assert.Contains(t, out, "model: llama-3.3-70b-versatile")
	assert.Equal(t, "gsk-secret", c.LLM.APIKey, "caller's copy is untouched")
}

func TestFlatten(t *testing.T) {
	got := flatten("", map[string]any{
		"a": 1,
		"b": map[string]any{"c": "x", "d": map[string]any{"e": true}},
	})
	assert.Equal(t, map[string]any{"a": 1, "b.c": "x", "b.d.e": true}, got)
}

func TestNewPipeline_RequiresKeys(t *testing.T) {
	c := types.DefaultConfig()
	_, err := newPipeline(c)
	assert.ErrorIs(t, err, errMissingModelKey)

	c.LLM.APIKey = "gsk"
	_, err = newPipeline(c)
	assert.Error(t, err)

	c.Search.APIKey = "tvly"
	p, err := newPipeline(c)
	require.NoError(t, err)
	assert.NotNil(t, p.Planner)
}
