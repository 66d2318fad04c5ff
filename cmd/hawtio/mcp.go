package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/woq-blended/hawtio-integration/internal/cli"
	"github.com/woq-blended/hawtio-integration/pkg/adapters/mcp"
)

func newMCPCmd(opts *cli.Options) *cobra.Command {
	var (
		transport string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the route document as an MCP Server, so AI agents can list routes,
read outlines and diagrams, and decode or edit steps as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to stderr so they don't corrupt JSON-RPC on stdout.
			log.SetOutput(os.Stderr)
			logger, err := cli.NewLogger(*opts)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			ws, done, err := cli.OpenWorkspace(sigCtx, *opts, logger)
			if err != nil {
				return err
			}
			defer done()

			srv := mcp.NewServer(ws)

			switch transport {
			case "stdio":
				logger.Info("Starting hawtio MCP Server (Stdio)")
				return srv.ServeStdio()
			case "sse":
				logger.Info("Starting hawtio MCP Server (SSE)", "port", port)
				if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("MCP server execution failed: %w", err)
				}
				logger.Info("MCP Server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (only for SSE)")
	return cmd
}
