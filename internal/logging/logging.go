package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const runLogName = "etl.log"

// New creates a console slog.Logger with the provided level string.
func New(level string) *slog.Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a slog.Logger writing text records to w.
func NewWithWriter(level string, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

// RunWriter tees log output into an etl.log file inside dir, overwritten each
// run. If the file cannot be opened the returned writer is stdout only.
func RunWriter(dir string) io.Writer {
	if dir == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.Stdout
	}
	file, err := os.Create(filepath.Join(dir, runLogName))
	if err != nil {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, file)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
