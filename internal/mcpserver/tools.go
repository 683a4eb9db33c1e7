package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/report"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

// ResearchInput is the input schema for the research tool.
type ResearchInput struct {
	Query string `json:"query" jsonschema:"the research question to investigate"`
}

// ResearchOutput is the output schema for the research tool.
type ResearchOutput struct {
	Plan       []string          `json:"plan"`
	Report     string            `json:"report"`
	References []types.Reference `json:"references"`
	Sources    int               `json:"sources"`
}

// ParseInput is the input schema for the parse_report tool.
type ParseInput struct {
	Report string `json:"report" jsonschema:"a markdown research report"`
}

// ParseOutput is the output schema for the parse_report tool.
type ParseOutput struct {
	Content    string            `json:"content"`
	References []ParsedReference `json:"references"`
}

// ParsedReference is a reference with its display hostname.
type ParsedReference struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Hostname string `json:"hostname"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "research",
		Description: "Plan, search the web, filter and synthesize a cited markdown report for a question",
	}, s.handleResearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_report",
		Description: "Split a research report into its body and its numbered references",
	}, s.handleParse)
}

func (s *Server) handleResearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ResearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ResearchOutput{}, errors.New("query is required")
	}

	res, err := s.runner.Run(ctx, query)
	if err != nil {
		s.logger.Warn("research tool failed", zap.String("query", query), zap.Error(err))
		if stage.KindOf(err) == "" {
			return nil, ResearchOutput{}, fmt.Errorf("%s: %w", stage.MessageOf(err), err)
		}
		return nil, ResearchOutput{}, err
	}

	parsed := report.Parse(res.Report)
	return nil, ResearchOutput{
		Plan:       res.Plan,
		Report:     res.Report,
		References: parsed.References,
		Sources:    len(res.Sources),
	}, nil
}

func (s *Server) handleParse(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, ParseOutput, error) {
	parsed := report.Parse(input.Report)
	out := ParseOutput{
		Content:    parsed.Content,
		References: make([]ParsedReference, len(parsed.References)),
	}
	for i, r := range parsed.References {
		out.References[i] = ParsedReference{Title: r.Title, URL: r.URL, Hostname: report.Hostname(r.URL)}
	}
	return nil, out, nil
}
