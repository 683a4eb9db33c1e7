// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/web-scout/internal/client"
	"github.com/pdiddy/web-scout/pkg/types"
)

// envPrefix prefixes every environment override: llm.model is read from
// WEB_SCOUT_LLM_MODEL.
const envPrefix = "WEB_SCOUT"

// redacted replaces secrets in "config show".
const redacted = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration as YAML with API keys redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// setDefaults registers every field of types.DefaultConfig with v so that
// environment overrides and Unmarshal see the full key set.
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	for key, val := range flatten("", tree) {
		v.SetDefault(key, val)
	}
	return nil
}

func flatten(prefix string, tree map[string]any) map[string]any {
	out := make(map[string]any)
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]any); ok {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = val
	}
	return out
}

// bindEnv enables WEB_SCOUT_* overrides. API keys have no default so they
// are bound explicitly, and the client URL also honours WEB_SCOUT_API_URL.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("llm.api_key")
	_ = v.BindEnv("search.api_key")
	_ = v.BindEnv("client.api_url", client.EnvAPIURL, envPrefix+"_CLIENT_API_URL")
}

// loadConfig decodes the merged settings in v.
func loadConfig(v *viper.Viper) (types.Config, error) {
	c := types.DefaultConfig()
	if err := v.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// writeConfig writes c as YAML with API keys redacted.
func writeConfig(w io.Writer, c types.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(redact(c)); err != nil {
		return err
	}
	return enc.Close()
}

func redact(c types.Config) types.Config {
	if c.LLM.APIKey != "" {
		c.LLM.APIKey = redacted
	}
	if c.Search.APIKey != "" {
		c.Search.APIKey = redacted
	}
	return c
}
