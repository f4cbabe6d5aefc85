package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup builds a slog.Logger writing to w in the given format ("text" or "json").
func Setup(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// SetupDefault installs the logger as the slog default. Logs go to stderr
// so command output on stdout stays clean.
func SetupDefault(w io.Writer, level, format string) {
	if w == nil {
		w = os.Stderr
	}
	slog.SetDefault(Setup(w, level, format))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
