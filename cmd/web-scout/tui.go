// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/web-scout/internal/client"
	"github.com/pdiddy/web-scout/internal/session"
	"github.com/pdiddy/web-scout/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal client for a running server",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := []tui.Option{tui.WithInterval(cfg.Client.StatusInterval)}
	if n, err := session.DefaultNotice(); err == nil {
		opts = append(opts, tui.WithNotice(n))
	}

	c := client.New(cfg.Client.APIURL, cfg.Client.Timeout)
	p := tea.NewProgram(tui.New(c, opts...), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
