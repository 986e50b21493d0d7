package main

import (
	"fmt"

	"github.com/aretw0/triage/internal/cli"
	"github.com/aretw0/triage/pkg/adapters/mcp"
	"github.com/aretw0/triage/pkg/observability"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the triage assistant as an MCP Server so AI agents can walk the
decision tree through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		offline, _ := cmd.Flags().GetBool("offline")
		treePath, _ := cmd.Flags().GetString("tree")
		cfg, logger := loadConfig(cmd)

		if transport != "stdio" && transport != "sse" {
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		assistant, err := cli.BuildAssistant(sigCtx, cli.BuildOptions{
			TreePath: treePath,
			Offline:  offline,
			Config:   cfg,
			Logger:   logger,
			Hooks:    observability.LogHooks(logger),
		})
		if err != nil {
			return err
		}

		srv := mcp.NewServer(assistant, logger)

		if transport == "stdio" {
			// Logs go to stderr so they never corrupt JSON-RPC on stdout.
			logger.Info("starting triage MCP server (stdio)")
			return srv.ServeStdio()
		}

		logger.Info("starting triage MCP server (SSE)", "port", port)
		if err := srv.ServeSSE(sigCtx, port); err != nil {
			return err
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Bool("offline", false, "Disable symptom classification; sessions start at the first question")
}
