// Package calendar_tools provides MCP (Model Context Protocol) tools for
// the calendar grid.
//
// The grid and theme tools are pure computations. The event tools read
// and write Google Calendar through the account's stored token; the
// write tools are only registered when the server is not read-only.
package calendar_tools
