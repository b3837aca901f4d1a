package cli

import (
	mcpadapter "github.com/openkraft/uiharness/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the uiharness MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(d))
	return cmd
}

func newMCPServeCmd(d deps) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start uiharness MCP server (stdio)",
		Long:  "Start the uiharness MCP server using stdio transport. This lets AI coding assistants audit pages and list the structural checks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = "."
			}
			s := mcpadapter.NewUIHarnessMCPServer(mcpadapter.Options{
				ConfigPath: configPath,
				Engines:    d.engines,
				LogOutput:  cmd.ErrOrStderr(),
			})
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to uiharness.yaml or its directory (defaults to current working directory)")

	return cmd
}
