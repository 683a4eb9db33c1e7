// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/web-scout/internal/client"
	"github.com/pdiddy/web-scout/internal/session"
	"github.com/pdiddy/web-scout/pkg/types"
)

type researchFunc func(ctx context.Context, query string) (*types.ResearchResult, error)

func (f researchFunc) Research(ctx context.Context, query string) (*types.ResearchResult, error) {
	return f(ctx, query)
}

func TestAsk_RotatesStatusUntilSuccess(t *testing.T) {
	release := make(chan struct{})
	want := &types.ResearchResult{Status: types.StatusSuccess, Plan: types.Plan{"a"}, Report: "r"}
	r := researchFunc(func(ctx context.Context, q string) (*types.ResearchResult, error) {
		assert.Equal(t, "battery tech", q)
		<-release
		return want, nil
	})

	var buf bytes.Buffer
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	s := ask(t.Context(), r, " battery tech ", &buf, 5*time.Millisecond)

	require.Equal(t, session.Success, s.Phase)
	assert.Same(t, want, s.Result)
	assert.Contains(t, buf.String(), session.StatusMessages[0])
	assert.Contains(t, buf.String(), session.StatusMessages[1])
}

func TestAsk_Failure(t *testing.T) {
	r := researchFunc(func(context.Context, string) (*types.ResearchResult, error) {
		return nil, &client.TransportError{StatusCode: 500, Message: "Report synthesis failed"}
	})

	s := ask(t.Context(), r, "q", &bytes.Buffer{}, time.Hour)
	assert.Equal(t, session.Error, s.Phase)
	assert.Equal(t, "Report synthesis failed", s.Message)
}

func TestAsk_BlankQuery(t *testing.T) {
	called := false
	r := researchFunc(func(context.Context, string) (*types.ResearchResult, error) {
		called = true
		return nil, nil
	})

	s := ask(t.Context(), r, "  ", &bytes.Buffer{}, time.Hour)
	assert.Equal(t, session.Idle, s.Phase)
	assert.False(t, called)
}

func TestReportParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody.\n\n## 📚 References\n\n1. [Nature](https://www.nature.com/x)\n"), 0o644))

	var buf bytes.Buffer
	reportParseCmd.SetOut(&buf)
	t.Cleanup(func() { reportParseCmd.SetOut(nil) })

	require.NoError(t, runReportParse(reportParseCmd, []string{path}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Title\n\nBody.\n"))
	assert.Contains(t, out, " 1. Nature (nature.com)")
}

func TestOutputFormat(t *testing.T) {
	cmd := researchCmd
	t.Cleanup(func() {
		_ = cmd.Flags().Set("format", "text")
		_ = cmd.Flags().Set("json", "false")
	})

	f, err := outputFormat(cmd)
	require.NoError(t, err)
	assert.Equal(t, "text", f)

	require.NoError(t, cmd.Flags().Set("format", "yaml"))
	f, err = outputFormat(cmd)
	require.NoError(t, err)
	assert.Equal(t, "yaml", f)

	require.NoError(t, cmd.Flags().Set("json", "true"))
	f, err = outputFormat(cmd)
	require.NoError(t, err)
	assert.Equal(t, "json", f)

	require.NoError(t, cmd.Flags().Set("json", "false"))
	require.NoError(t, cmd.Flags().Set("format", "xml"))
	_, err = outputFormat(cmd)
	assert.Error(t, err)
}
