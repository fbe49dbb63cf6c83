package resolve

import (
	"scenebind/bind"
	"scenebind/internal/diagnostic"
)

//go:generate go tool stringer -type=Outcome -linecomment -output=outcome_string.go

// Outcome is the result of resolving one field on one component.
type Outcome int

const (
	Assigned            Outcome = iota // assigned
	Created                            // created
	AssignedFirstOfMany                // assigned_first_of_many
	NotFound                           // not_found
	AmbiguousStrict                    // ambiguous_strict
)

// Outcomes lists every Outcome in declaration order.
var Outcomes = []Outcome{Assigned, Created, AssignedFirstOfMany, NotFound, AmbiguousStrict}

// Writes reports whether the outcome assigns the field.
func (o Outcome) Writes() bool {
	return o == Assigned || o == Created || o == AssignedFirstOfMany
}

// Severity returns the severity the outcome is reported with. ok is false
// for Assigned, which is not reported.
func (o Outcome) Severity() (sev diagnostic.Severity, ok bool) {
	switch o {
	case Created:
		return diagnostic.SeverityInfo, true
	case AssignedFirstOfMany:
		return diagnostic.SeverityWarning, true
	case NotFound, AmbiguousStrict:
		return diagnostic.SeverityError, true
	default:
		return diagnostic.SeverityInfo, false
	}
}

// Code returns the diagnostic code for the outcome.
func (o Outcome) Code() string {
	switch o {
	case Created:
		return diagnostic.CodeCreated
	case AssignedFirstOfMany:
		return diagnostic.CodeMultiple
	case NotFound:
		return diagnostic.CodeNotFound
	case AmbiguousStrict:
		return diagnostic.CodeAmbiguous
	default:
		return ""
	}
}

// Decide maps a candidate count and the field's options to an outcome.
//
//	count  source    strict  outcome
//	0      self      any     Created
//	>1     any       false   AssignedFirstOfMany
//	0      not self  any     NotFound
//	>1     any       true    AmbiguousStrict
//	1      any       any     Assigned
func Decide(count int, source bind.Source, strict bool) Outcome {
	switch {
	case count <= 0 && source.CanCreate():
		return Created
	case count > 1 && !strict:
		return AssignedFirstOfMany
	case count <= 0:
		return NotFound
	case count > 1:
		return AmbiguousStrict
	default:
		return Assigned
	}
}
