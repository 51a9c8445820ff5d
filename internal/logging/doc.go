// Package logging provides structured logging utilities for calgrid.
//
// It builds the process slog.Logger from configuration and keeps attribute
// names consistent across the web server, the CLI, the TUI and the MCP
// tools.
//
// # Usage Patterns
//
// Install the process logger once at startup:
//
//	logging.Setup(logging.Options{Level: "debug", Format: logging.FormatJSON})
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.list")
//	logger.Info("listing events",
//	    logging.View(7),
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("signed in",
//	    logging.UserHash(profile.Email))
//
// User emails are hashed and tokens are only ever logged by length.
package logging
