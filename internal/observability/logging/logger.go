// Package logging builds the application's structured loggers on log/slog.
package logging

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog logger. LOG_LEVEL=debug enables debug
// output; any other value means info. Source locations are attached when
// the level admits warnings so errors carry their call site.
func NewLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel <= slog.LevelWarn,
	})

	return slog.New(handler)
}
