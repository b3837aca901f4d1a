package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/uiharness/internal/adapters/outbound/config"
	"github.com/openkraft/uiharness/internal/adapters/outbound/probes"
)

// registerResources registers all uiharness MCP resources on the given server.
func registerResources(s *server.MCPServer, opts Options) {
	s.AddResource(
		mcplib.NewResource(
			"uiharness://config",
			"Configuration",
			mcplib.WithResourceDescription("Effective harness configuration after file and environment overrides"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(opts),
	)

	s.AddResource(
		mcplib.NewResource(
			"uiharness://checks",
			"Structural Checks",
			mcplib.WithResourceDescription("Structural accessibility checks available to scans"),
			mcplib.WithMIMEType("application/json"),
		),
		handleChecksResource(),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"uiharness://reports/{name}",
			"Accessibility Report",
			mcplib.WithTemplateDescription("Last saved accessibility report for a scenario"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleReportResource(opts),
	)
}

func handleConfigResource(opts Options) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		return jsonContents(request.Params.URI, cfg)
	}
}

func handleChecksResource() server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		return jsonContents(request.Params.URI, probes.Catalog())
	}
}

func handleReportResource(opts Options) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := templateArg(request, "name")
		if name == "" {
			return nil, fmt.Errorf("report name is required")
		}

		store, err := resultsStore(opts)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		report, err := store.LoadReport(name)
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}
		if report == nil {
			return nil, fmt.Errorf("no report saved for %q", name)
		}
		return jsonContents(request.Params.URI, report)
	}
}

// templateArg reads a variable matched from the resource URI template.
// Matched values arrive as a single string or a list of strings.
func templateArg(request mcplib.ReadResourceRequest, key string) string {
	switch v := request.Params.Arguments[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
