// Package mcpserver exposes the research pipeline as Model Context Protocol
// tools so AI assistants can run research over stdio.
package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/pkg/types"
)

// ErrMissingRunner is returned when no pipeline is provided.
var ErrMissingRunner = errors.New("mcpserver: research runner is required")

// Runner runs one research request.
type Runner interface {
	Run(ctx context.Context, query string) (*types.ResearchResult, error)
}

// Server is the MCP server for web-scout.
type Server struct {
	runner Runner
	logger *zap.Logger
	server *mcp.Server
}

// New creates a Server whose tools run queries through runner.
func New(runner Runner, logger *zap.Logger, version string) (*Server, error) {
	if runner == nil {
		return nil, ErrMissingRunner
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	impl := &mcp.Implementation{
		Name:    "web-scout",
		Version: version,
	}

	s := &Server{
		runner: runner,
		logger: logger,
		server: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
