package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats accepted by Options.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures the process logger.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// Format is FormatText (default) or FormatJSON.
	Format string

	// Writer receives log output. Defaults to os.Stderr so stdout stays
	// free for command output and the MCP stdio transport.
	Writer io.Writer
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, FormatJSON) {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Setup builds a logger from opts and installs it as the slog default.
func Setup(opts Options) *slog.Logger {
	logger := New(opts)
	slog.SetDefault(logger)
	return logger
}
