package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/lattice/internal/cli"
	"github.com/aretw0/lattice/pkg/adapters/mcp"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [source]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the page as an MCP Server so that AI agents can render it, click
cells and switch modes through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		logger := newLogger(cfg)
		session, err := cli.OpenPage(cfg, logger, observability.LoggingHooks(logger))
		if err != nil {
			return err
		}
		defer session.Close()

		srv := mcp.NewServer(session.Page, logger)
		switch transport {
		case "stdio":
			logger.Info("Starting Lattice MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			logger.Info("Starting Lattice MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
