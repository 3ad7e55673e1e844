package diag

import (
	"fmt"

	"ace/internal/source"
)

// Note supplies auxiliary context anchored at its own span, attached to a
// parent Diagnostic (e.g. "previous definition here").
type Note struct {
	Loc     source.Location
	Message string
}

// Diagnostic is a single structured issue produced by any compiler phase.
// Diagnostics are always values: no phase panics or throws on a recoverable
// defect.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Loc      source.Location
	Notes    []Note
}

// WithNote returns a copy of d with an additional note appended.
func (d Diagnostic) WithNote(loc source.Location, message string) Diagnostic {
	d.Notes = append(append([]Note{}, d.Notes...), Note{Loc: loc, Message: message})
	return d
}

// New builds an Error-severity diagnostic at loc.
func New(code Code, loc source.Location, message string) Diagnostic {
	return Diagnostic{Severity: Error, Code: code, Message: message, Loc: loc}
}

// Newf builds an Error-severity diagnostic with fmt.Sprintf-style message.
func Newf(code Code, loc source.Location, format string, args ...any) Diagnostic {
	return New(code, loc, fmt.Sprintf(format, args...))
}

// NewWarning builds a Warning-severity diagnostic at loc.
func NewWarning(code Code, loc source.Location, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Code: code, Message: message, Loc: loc}
}
