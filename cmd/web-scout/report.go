// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/web-scout/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with saved markdown reports",
}

var reportParseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Split a report into its body and its references",
	Long: `Parse reads a markdown report from a file, or stdin when the file is "-"
or omitted, and prints the body followed by the references with their
hostnames.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportParse,
}

func init() {
	reportParseCmd.Flags().Bool("json", false, "output as JSON")
	reportCmd.AddCommand(reportParseCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportParse(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening report: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	parsed := report.Parse(string(data))

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	}
	report.Print(cmd.OutOrStdout(), parsed)
	return nil
}
