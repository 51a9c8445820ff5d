// Package batch runs one MCP tool operation over several IDs.
//
// Tools that accept either a single ID or an array of IDs parse the
// argument with ParseStringOrArray, run the operation per ID with
// Process and report the per-ID outcome with Summarize. A failing ID does
// not stop the others.
package batch
