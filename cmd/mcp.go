package cmd

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/instrumentation"
	"github.com/teemow/calgrid/internal/logging"
	"github.com/teemow/calgrid/internal/resources"
	"github.com/teemow/calgrid/internal/server"
	"github.com/teemow/calgrid/internal/tools/calendar_tools"
)

func newMCPCmd() *cobra.Command {
	var (
		readOnly bool
		yolo     bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calendar grid as MCP tools over stdio",
		Long: `Start a Model Context Protocol (MCP) server on standard input/output.

Safety Mode:
  By default, the server operates in read-only mode and exposes only the
  grid, theme and event listing tools. Use --yolo to also enable creating,
  updating and deleting events.

Resources:
  The theme stylesheet and palette, today's grid and the profile of the
  default account are served as MCP resources.

Logs are written to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), readOnly && !yolo)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", true, "Register only the tools that do not change events")
	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (create, update and delete events). Same as --read-only=false.")

	return cmd
}

// newMCPServer registers the calendar tools on a new MCP server.
func newMCPServer(sc *server.ServerContext, readOnly bool) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("calgrid", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register calendar tools: %w", err)
	}
	if err := resources.RegisterResources(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}
	return mcpSrv, nil
}

func runMCP(ctx context.Context, readOnly bool) error {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Debug("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	sc, err := newServerContext(ctx, server.WithMetrics(provider.Metrics()))
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc, readOnly)
	if err != nil {
		return err
	}

	logger.Info("starting MCP server on stdio", "read_only", readOnly)
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server error: %v", err)
	}
	return nil
}
