// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/web-scout/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the research pipeline as MCP tools over stdio",
	Long: `Mcp starts a Model Context Protocol server on stdin/stdout with two tools:
research (run the pipeline for a question) and parse_report (split a
report into body and references).

Logs go to stderr so they never corrupt the JSON-RPC stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline, err := newPipeline(cfg)
		if err != nil {
			return err
		}
		s, err := mcpserver.New(pipeline, logger.Named("mcp"), version)
		if err != nil {
			return err
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		return s.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
