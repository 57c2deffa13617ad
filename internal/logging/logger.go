// Package logging собирает slog.Logger по настройкам окружения.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger создаёт логгер в stdout. format: json или text.
func NewLogger(level, format string) *slog.Logger {
	return New(os.Stdout, level, format)
}

// New создаёт логгер, пишущий в w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel переводит строку в slog.Level. Неизвестное значение - info.
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
