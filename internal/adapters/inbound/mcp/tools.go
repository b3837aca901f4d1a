package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/uiharness/internal/adapters/inbound/harness"
	"github.com/openkraft/uiharness/internal/adapters/outbound/artifacts"
	"github.com/openkraft/uiharness/internal/adapters/outbound/config"
	"github.com/openkraft/uiharness/internal/adapters/outbound/probes"
	"github.com/openkraft/uiharness/internal/application"
	"github.com/openkraft/uiharness/internal/domain"
)

// registerTools registers all uiharness MCP tools on the given server.
func registerTools(s *server.MCPServer, opts Options) {
	s.AddTool(
		mcplib.NewTool("uiharness_scan",
			mcplib.WithDescription("Open a page in a fresh browser session, run the axe-core audit and return the normalized violations with the policy verdict"),
			mcplib.WithString("url",
				mcplib.Required(),
				mcplib.Description("Absolute URL, or a path resolved against baseUrl"),
			),
			mcplib.WithString("selector", mcplib.Description("Audit only the region matching this CSS selector")),
			mcplib.WithString("fail_on", mcplib.Description("Comma-separated impact levels that fail the scan (default: accessibility.failOn)")),
			mcplib.WithString("checks", mcplib.Description("Comma-separated structural checks to run after the audit")),
			mcplib.WithString("browser", mcplib.Description("chromium, firefox or webkit")),
		),
		handleScan(opts),
	)

	s.AddTool(
		mcplib.NewTool("uiharness_list_checks",
			mcplib.WithDescription("Returns the structural accessibility checks and what each expects of the page"),
		),
		handleListChecks(),
	)

	s.AddTool(
		mcplib.NewTool("uiharness_get_report",
			mcplib.WithDescription("Returns the last saved accessibility report for a scenario or page"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Scenario name, or the URL for scans started without a name"),
			),
		),
		handleGetReport(opts),
	)
}

func handleScan(opts Options) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		selector, _ := request.GetArguments()["selector"].(string)
		failOn, _ := request.GetArguments()["fail_on"].(string)
		browserName, _ := request.GetArguments()["browser"].(string)
		checksStr, _ := request.GetArguments()["checks"].(string)

		overrides := harness.Overrides{FailOn: failOn}
		if browserName != "" {
			kind, err := domain.LookupBrowserKind(browserName)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			overrides.Browser = kind.String()
		}

		checks := splitList(checksStr)
		for _, name := range checks {
			if _, ok := probes.Lookup(name); !ok {
				return errorResult(fmt.Sprintf("unknown check %q", name)), nil
			}
		}

		h, err := harness.Build(harness.Options{
			ConfigPath:  opts.ConfigPath,
			ProjectPath: opts.ConfigPath,
			Overrides:   overrides,
			LogOutput:   opts.LogOutput,
			Engines:     opts.Engines,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("loading configuration: %v", err)), nil
		}

		outcomes := h.Scan(ctx, []application.ScanTarget{{URL: url, Selector: selector, Checks: checks}})
		return jsonResult(outcomes[0])
	}
}

func handleListChecks() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(probes.Catalog())
	}
}

func handleGetReport(opts Options) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		store, err := resultsStore(opts)
		if err != nil {
			return errorResult(fmt.Sprintf("loading configuration: %v", err)), nil
		}
		report, err := store.LoadReport(name)
		if err != nil {
			return errorResult(fmt.Sprintf("reading report: %v", err)), nil
		}
		if report == nil {
			return errorResult(fmt.Sprintf("no report saved for %q", name)), nil
		}
		return jsonResult(report)
	}
}

// resultsStore opens the artifact store under the configured resultsDir.
func resultsStore(opts Options) (*artifacts.Store, error) {
	cfg, err := config.New().Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return artifacts.New(cfg.ResultsDir), nil
}

// splitList splits a comma-separated string into trimmed, non-empty parts.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
