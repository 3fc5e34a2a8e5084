package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs the global JSON logger on stdout. Extra handlers, such as a
// DBHandler, receive every record they are enabled for.
func Setup(level string, extra ...slog.Handler) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, extra...)))
}

func NewHandler(w io.Writer, level string, extra ...slog.Handler) slog.Handler {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	if len(extra) > 0 {
		h = NewMultiHandler(append([]slog.Handler{h}, extra...)...)
	}
	return h
}

func ParseLevel(s string) slog.Level {
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
