// Package resources provides MCP resources for the calendar grid.
// Resources are read-only data sources that MCP clients can fetch: the
// derived theme as CSS and JSON, the grid for today and the profile of
// the signed-in account.
package resources
