// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/web-scout/internal/research"
	"github.com/pdiddy/web-scout/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [question...]",
	Short: "Run the research pipeline in-process and print the report",
	Long: `Research runs plan, search, filter and synthesize locally, without a
server, and prints the plan, the report and run statistics. Progress lines
go to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	researchCmd.Flags().Bool("json", false, "shorthand for --format json")
	researchCmd.Flags().Bool("quiet", false, "suppress progress output")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		pipeline.Progress = os.Stderr
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	res, err := pipeline.Run(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res, format)
}

// outputFormat reads --format and --json.
func outputFormat(cmd *cobra.Command) (string, error) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return "json", nil
	}
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json", "yaml":
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q: want text, json, or yaml", format)
}

func writeResult(w io.Writer, res *types.ResearchResult, format string) error {
	switch format {
	case "json":
		return research.FormatJSON(res, w)
	case "yaml":
		return research.FormatYAML(res, w)
	}
	research.FormatText(res, w)
	return nil
}
