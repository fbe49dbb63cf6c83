package diagnostic

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"scenebind/internal/common"
)

// Diagnostic codes reported by the resolver.
const (
	CodeCreated       = "created"
	CodeMultiple      = "multiple_non_strict"
	CodeNotFound      = "not_found"
	CodeAmbiguous     = "ambiguous_strict"
	CodeAssignFailed  = "assign_failed"
	CodeCreateFailed  = "create_failed"
	CodeInvalidTag    = "invalid_tag"
	CodeFieldType     = "field_type"
	CodeUnexported    = "unexported_field"
	CodeUnknownSource = "unknown_source"
)

// Diagnostics holds all diagnostic information from resolution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Node identifies the scene node this relates to (if any).
	Node string
	// Field identifies the bound field, as DeclaringType.Field (if any).
	Field string
	// Type is the value type the field binds to (if any).
	Type string
	// Position is a source position, for diagnostics about declarations.
	Position string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Level maps the severity onto a slog level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Report implements Reporter by filing d under its severity.
func (d *Diagnostics) Report(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, node, field string) {
	d.Report(Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Node:     node,
		Field:    field,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, node, field string) {
	d.Report(Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Node:     node,
		Field:    field,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, node, field string) {
	d.Report(Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Node:     node,
		Field:    field,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Len returns the number of diagnostics of every severity.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// All returns every diagnostic, errors first, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, d.Len())
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)

	return all
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Reset drops all collected diagnostics.
func (d *Diagnostics) Reset() {
	d.Errors = nil
	d.Warnings = nil
	d.Infos = nil
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Position != "" {
		prefix = append(prefix, d.Position)
	}

	if d.Node != "" {
		prefix = append(prefix, "["+d.Node+"]")
	}

	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
