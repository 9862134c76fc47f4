package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates the application logger: text records on stderr, so stdout
// stays free for command output.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, "text", level)
}

// NewJSON creates a logger that writes JSON records on stderr.
func NewJSON(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, "json", level)
}

// NewWithWriter creates a logger for the given format ("text" or "json").
// Unknown formats fall back to text. The "error" key is renamed to "err".
func NewWithWriter(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config name (debug, info, warn, error) to a level.
// Unknown names default to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
