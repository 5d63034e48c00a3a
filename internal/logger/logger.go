// Package logger builds the process logger from CLI and config options.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the logger level, destination and format.
type Options struct {
	Level  string // debug, info, warn or error; empty for info.
	File   string // Append to this file; empty or "-" for stderr.
	Format string // text or json.
}

// level maps a level name to a slog level. An empty name selects slog's
// default (info); ok is false for unknown names.
func level(option string) (lvl slog.Leveler, ok bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New returns a logger for options. Unusable values fall back to their
// defaults and the fallback is logged as a warning.
func New(options Options) *slog.Logger {
	return newWithStderr(options, os.Stderr)
}

// newWithStderr builds the logger, writing to stderr unless options name a
// file. Each unusable option is reset and the build retried, so the
// warning about it goes through the logger that is finally returned.
func newWithStderr(options Options, stderr io.Writer) *slog.Logger {
	lvl, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger := newWithStderr(options, stderr)
		logger.Warn("could not parse logger level", "level", bad)
		return logger
	}
	opts := slog.HandlerOptions{Level: lvl}

	var output io.Writer
	switch options.File {
	case "", "-":
		output = stderr
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		f, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			options.File = ""
			logger := newWithStderr(options, stderr)
			logger.Warn("could not open logger file", "err", err)
			return logger
		}
		output = f
	}

	switch strings.ToLower(options.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(output, &opts))
	case "text", "":
		return slog.New(slog.NewTextHandler(output, &opts))
	default:
		bad := options.Format
		options.Format = "text"
		logger := newWithStderr(options, stderr)
		logger.Warn("could not parse logger format", "format", bad)
		return logger
	}
}
