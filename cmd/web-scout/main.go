// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the web-scout CLI: the research API
// server, the in-process pipeline, the terminal clients and the MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/logging"
	"github.com/pdiddy/web-scout/internal/secrets"
	"github.com/pdiddy/web-scout/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Process-wide state filled in by the root command before any subcommand runs.
var (
	cfg      types.Config
	logger   = zap.NewNop()
	logLevel zap.AtomicLevel
)

// rootCmd is the base command for the web-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "web-scout",
	Short: "AI research assistant: plan, search, filter and synthesize",
	Long: `web-scout turns a research question into a cited markdown report. A model
plans a handful of sub-queries, each is sent to a web search API, one batch
call drops irrelevant results, and a final call writes the report.

Run "web-scout serve" for the HTTP API, "web-scout research" to run the
pipeline in-process, or "web-scout tui" and "web-scout ask" to talk to a
running server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir, func(name string, err error) {
			fmt.Fprintf(os.Stderr, "warning: skipping secret %s: %v\n", name, err)
		})
		if err != nil {
			return err
		}
		secrets.Apply(&c, s)

		l, atom, err := logging.New(c.Log)
		if err != nil {
			return err
		}
		cfg, logger, logLevel = c, l, atom

		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./web-scout.yaml or ~/.config/web-scout/web-scout.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of API key files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or console")
	rootCmd.PersistentFlags().String("api-url", "", "research API base URL for ask and tui (default http://localhost:8000)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("client.api_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("web-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "web-scout"))
		}
	}

	if err := setDefaults(viper.GetViper()); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
