// Package cmd implements the command-line interface for calgrid.
//
// This package provides the following commands:
//   - render: Print the calendar grid as text, JSON or YAML
//   - theme: Print the derived theme and toggle dark mode
//   - tui: Start the interactive terminal grid
//   - serve: Start the web UI and the metrics server
//   - mcp: Serve the calendar tools over MCP stdio
//   - login, logout, whoami: Manage the stored Google token
//   - events: List, create, update and delete events
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The render command is the default command when no subcommand is specified.
package cmd
