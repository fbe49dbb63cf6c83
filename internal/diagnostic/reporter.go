package diagnostic

import (
	"context"
	"log/slog"
)

// Reporter receives binding events as they happen.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Multi fans every event out to all reporters in order.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(d)
		}
	}
}

// Discard drops every event.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// LogReporter writes events to a structured logger at the level matching
// their severity.
type LogReporter struct {
	Logger *slog.Logger
}

// NewLogReporter returns a LogReporter; a nil logger means slog.Default().
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogReporter{Logger: logger}
}

// Report implements Reporter.
func (r *LogReporter) Report(d Diagnostic) {
	attrs := []slog.Attr{slog.String("code", d.Code)}
	if d.Node != "" {
		attrs = append(attrs, slog.String("node", d.Node))
	}
	if d.Field != "" {
		attrs = append(attrs, slog.String("field", d.Field))
	}
	if d.Type != "" {
		attrs = append(attrs, slog.String("type", d.Type))
	}

	r.Logger.LogAttrs(context.Background(), d.Severity.Level(), d.Message, attrs...)
}
