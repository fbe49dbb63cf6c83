// Package logging builds the slog loggers used by the command line tool.
// Records are rendered by charmbracelet/log in text, JSON or logfmt form.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format is a log output format.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

var (
	ErrInvalidFormat = errors.New("invalid log format")
	ErrInvalidLevel  = errors.New("invalid log level")
)

// Formats lists the accepted formats.
var Formats = []Format{FormatText, FormatJSON, FormatLogfmt}

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

func (f Format) formatter() charmlog.Formatter {
	switch f {
	case FormatJSON:
		return charmlog.JSONFormatter
	case FormatLogfmt:
		return charmlog.LogfmtFormatter
	default:
		return charmlog.TextFormatter
	}
}

// ParseLevel parses debug, info, warn or error. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}

	lvl, err := charmlog.ParseLevel(strings.TrimSpace(s))
	if err != nil || lvl > charmlog.ErrorLevel {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}

	// charmbracelet/log uses the slog level numbers.
	return slog.Level(lvl), nil
}

// Options configures New.
type Options struct {
	Level  string
	Format string
	// Prefix is printed before every message in text form.
	Prefix string
	// Timestamps adds the time to every record.
	Timestamps bool
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	format := FormatText
	if opts.Format != "" {
		if format, err = ParseFormat(opts.Format); err != nil {
			return nil, err
		}
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(level),
		Formatter:       format.formatter(),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
	})

	return slog.New(handler), nil
}

// Init creates a logger with New and makes it the slog default.
func Init(w io.Writer, opts Options) (*slog.Logger, error) {
	logger, err := New(w, opts)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	return logger, nil
}

// Subsystem returns a logger that tags records with the subsystem name.
func Subsystem(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}

	return logger.With(slog.String("subsystem", name))
}
