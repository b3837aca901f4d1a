package mcp

import (
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/openkraft/uiharness/internal/domain"
)

// Options configures the MCP server.
type Options struct {
	// ConfigPath is a uiharness.yaml file or the directory holding it.
	ConfigPath string
	// Engines replaces the Playwright driver.
	Engines domain.EngineStarter
	// LogOutput receives harness logs. It must not be stdout when serving
	// over stdio.
	LogOutput io.Writer
}

// NewUIHarnessMCPServer creates a new MCP server with all uiharness tools
// and resources registered.
func NewUIHarnessMCPServer(opts Options) *server.MCPServer {
	if opts.ConfigPath == "" {
		opts.ConfigPath = "."
	}
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}

	s := server.NewMCPServer(
		"uiharness",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, opts)
	registerResources(s, opts)

	return s
}
