// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the promcheck validators as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/promcheck/internal/registry"
	"github.com/valter-silva-au/promcheck/internal/report"
	"github.com/valter-silva-au/promcheck/internal/validate"
	"github.com/valter-silva-au/promcheck/pkg/models"
)

// RegistryLoader loads the metric registry for a validation call.
type RegistryLoader func() (*registry.Registry, error)

// Server wraps the promcheck validators and exposes them as MCP tools.
type Server struct {
	server       *gomcp.Server
	basePath     string
	config       *models.CheckConfig
	loadRegistry RegistryLoader
}

// NewServer creates a new MCP server bound to the given configuration.
func NewServer(basePath string, config *models.CheckConfig, loadRegistry RegistryLoader, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		basePath:     basePath,
		config:       config,
		loadRegistry: loadRegistry,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "promcheck", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type validateInput struct{}

type validateOutput struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "validate_rules",
		Description: "Validate Prometheus alert and recording rule files: structure, PromQL expressions, and metric references.",
	}, s.handleValidateRules)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "validate_dashboards",
		Description: "Validate that every metric referenced by Grafana dashboard queries exists in the instrumented source.",
	}, s.handleValidateDashboards)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "validate_queries",
		Description: "Validate the PromQL syntax of dashboard queries: brackets, functions, range vectors, quantiles, label matchers.",
	}, s.handleValidateQueries)
}

// --- Tool handlers ---

func (s *Server) handleValidateRules(_ context.Context, _ *gomcp.CallToolRequest, _ validateInput) (*gomcp.CallToolResult, validateOutput, error) {
	dir, err := s.inputDir(s.config.RulesDir)
	if err != nil {
		return errorResult(err.Error()), validateOutput{}, nil
	}

	reg, err := s.loadRegistry()
	if err != nil {
		return errorResult(fmt.Sprintf("loading metric registry: %s", err)), validateOutput{}, nil
	}

	issues, err := validate.NewRunner(reg).ValidateRuleFiles(dir)
	if err != nil {
		return errorResult(fmt.Sprintf("validating rule files: %s", err)), validateOutput{}, nil
	}

	return nil, toOutput(report.New(issues)), nil
}

func (s *Server) handleValidateDashboards(_ context.Context, _ *gomcp.CallToolRequest, _ validateInput) (*gomcp.CallToolResult, validateOutput, error) {
	dir, err := s.inputDir(s.config.DashboardsDir)
	if err != nil {
		return errorResult(err.Error()), validateOutput{}, nil
	}

	reg, err := s.loadRegistry()
	if err != nil {
		return errorResult(fmt.Sprintf("loading metric registry: %s", err)), validateOutput{}, nil
	}

	_, issues, err := validate.NewRunner(reg).ValidateDashboardMetrics(dir)
	if err != nil {
		return errorResult(fmt.Sprintf("validating dashboards: %s", err)), validateOutput{}, nil
	}

	return nil, toOutput(report.New(issues)), nil
}

func (s *Server) handleValidateQueries(_ context.Context, _ *gomcp.CallToolRequest, _ validateInput) (*gomcp.CallToolResult, validateOutput, error) {
	dir, err := s.inputDir(s.config.DashboardsDir)
	if err != nil {
		return errorResult(err.Error()), validateOutput{}, nil
	}

	issues, err := validate.NewSyntaxRunner().ValidateDashboardQueries(dir)
	if err != nil {
		return errorResult(fmt.Sprintf("validating queries: %s", err)), validateOutput{}, nil
	}

	return nil, toOutput(report.New(issues)), nil
}

// --- Helpers ---

// inputDir resolves a configured directory against the base path and
// verifies it exists.
func (s *Server) inputDir(dir string) (string, error) {
	path := dir
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.basePath, path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("input directory not found: %s", path)
	}
	return path, nil
}

func toOutput(rep *report.Report) validateOutput {
	out := validateOutput{
		Valid:    rep.OK(),
		Errors:   make([]string, len(rep.Errors)),
		Warnings: make([]string, len(rep.Warnings)),
	}
	for i, issue := range rep.Errors {
		out.Errors[i] = issue.String()
	}
	for i, issue := range rep.Warnings {
		out.Warnings[i] = issue.String()
	}
	return out
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
