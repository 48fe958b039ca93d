package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout with the given service name
// attached to every record.
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With("service", service)
}
