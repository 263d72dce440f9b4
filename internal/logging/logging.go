// Package logging configures the zerolog loggers used across lpk.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Format selects how log lines are written.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options describe a logger.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string
	// Format is console or json. Empty means console.
	Format Format
	// Output defaults to stderr.
	Output io.Writer
	// NoColor disables colors in console output.
	NoColor bool
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// New builds a logger from opts. Debug and lower levels add the caller.
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	switch Format(strings.ToLower(string(opts.Format))) {
	case FormatJSON:
	case FormatConsole, "":
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    opts.NoColor,
		}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", opts.Format)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

// Configure builds a logger from opts and installs it as the global
// zerolog logger and the default context logger.
func Configure(opts Options) (zerolog.Logger, error) {
	logger, err := New(opts)
	if err != nil {
		return logger, err
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return logger, nil
}

// Component returns l tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
