// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/web-scout/internal/client"
	"github.com/pdiddy/web-scout/internal/session"
	"github.com/pdiddy/web-scout/internal/tui"
	"github.com/pdiddy/web-scout/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Send a question to a running server and print the report",
	Long: `Ask posts the question to the research API (client.api_url, or
WEB_SCOUT_API_URL) and shows a rotating status line on stderr while the
server works.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	askCmd.Flags().Bool("json", false, "shorthand for --format json")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	showNotice(cmd.ErrOrStderr())

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	c := client.New(cfg.Client.APIURL, cfg.Client.Timeout)
	s := ask(ctx, c, strings.Join(args, " "), cmd.ErrOrStderr(), cfg.Client.StatusInterval)
	switch s.Phase {
	case session.Success:
		return writeResult(cmd.OutOrStdout(), s.Result, format)
	case session.Error:
		return errors.New(s.Message)
	}
	return errors.New("query is empty")
}

// ask runs one request through the session state machine, rewriting the
// status line on w at every tick until the request settles.
func ask(ctx context.Context, r tui.Researcher, query string, w io.Writer, interval time.Duration) session.State {
	s := session.Reduce(session.State{}, session.Submit{Query: query})
	if s.Phase != session.Loading {
		return s
	}

	type outcome struct {
		res *types.ResearchResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.Research(ctx, s.Query)
		done <- outcome{res, err}
	}()

	tk := session.NewTicker(ctx, interval)
	defer tk.Stop()

	fmt.Fprintf(w, "%s", s.Status())
	for s.Phase == session.Loading {
		select {
		case <-tk.C:
			s = session.Reduce(s, session.Tick{})
			fmt.Fprintf(w, "\r\033[K%s", s.Status())
		case o := <-done:
			if o.err != nil {
				s = session.Reduce(s, session.Failed{Message: client.MessageOf(o.err)})
			} else {
				s = session.Reduce(s, session.Succeeded{Result: o.res})
			}
		}
	}
	fmt.Fprint(w, "\r\033[K")
	return s
}

// showNotice prints the cold-start notice the first time a client runs.
func showNotice(w io.Writer) {
	n, err := session.DefaultNotice()
	if err != nil || !n.ShouldShow() {
		return
	}
	fmt.Fprintf(w, "%s\n\n", session.NoticeText)
	if err := n.Dismiss(); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}
