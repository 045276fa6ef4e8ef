package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. Packages log through it rather than
// keeping their own handles.
var Log *slog.Logger

func init() {
	// Safe defaults for tests; main re-initializes from config.
	Initialize(Options{Level: "info"})
}

// Options controls how the global logger is built.
type Options struct {
	Level  string    // debug, info, warn, error
	JSON   bool      // JSON lines instead of logfmt-style text
	Output io.Writer // defaults to stdout
}

// Initialize replaces the global logger and makes it the slog default.
func Initialize(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: true,
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// parseLevel maps a config string to a slog level, falling back to info.
func parseLevel(level string) slog.Level {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return slog.LevelWarn
	case "":
		return slog.LevelInfo
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
