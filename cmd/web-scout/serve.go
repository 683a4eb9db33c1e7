// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/logging"
	"github.com/pdiddy/web-scout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the research HTTP API",
	Long: `Serve exposes the pipeline over HTTP:

  GET  /              liveness message
  GET  /health        health report
  POST /api/research  {"query": "..."} -> {"status","plan","report"}
  GET  /metrics       Prometheus metrics

The config file is watched; a change to log.level takes effect without a
restart. Other settings need a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			level := viper.GetString("log.level")
			if err := logging.SetLevel(logLevel, level); err != nil {
				logger.Warn("ignoring config change", zap.String("file", e.Name), zap.Error(err))
				return
			}
			logger.Info("config reloaded", zap.String("file", e.Name), zap.String("log_level", level))
		})
		viper.WatchConfig()
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	srv := server.New(pipeline, logger.Named("server"), version)
	return server.ListenAndServe(ctx, cfg.Server, srv.Handler(), logger, nil)
}
