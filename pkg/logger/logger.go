// Package logger wraps log/slog with the level-gated, component-tagged
// setup shared by the chordforge CLI: every record carries a "component"
// attribute so multi-stage runs (load, transform, dump, save) are
// distinguishable in the output stream.
package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Component is the attribute key every chordforge logger is tagged with.
const Component = "component"

var globalLogger *slog.Logger

// InitLogger initializes the global slog logger at the given level,
// writing structured text records to stdout tagged component=chordforge.
func InitLogger(level string) error {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler).With(slog.String(Component, "chordforge"))
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger returns the global logger, falling back to slog.Default if
// InitLogger has not been called yet.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// ForComponent returns a child logger tagged with a more specific
// component name than the top-level "chordforge" (e.g. "codec",
// "transform", "dump") for a single pipeline stage.
func ForComponent(name string) *slog.Logger {
	return GetLogger().With(slog.String(Component, name))
}
