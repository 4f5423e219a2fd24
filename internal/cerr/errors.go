// Package cerr implements the compiler's error taxonomy: a closed set of
// error kinds, each carrying a source location, propagated upward without
// local recovery to the driver.
//
// Built on github.com/pkg/errors rather than bare fmt.Errorf/%w: a
// generator raises a bare failure of the right kind as its default, an
// outer dispatcher re-raises it with the operator and location attached
// via errors.Wrap (enrich and rethrow), and errors.Cause at the driver
// boundary recovers the original Kind for exit-status purposes.
package cerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the error taxonomy: a classification, not a distinct Go type
// per kind.
type Kind int

const (
	BadOperands Kind = iota
	ConversionError
	Redeclaration
	Undeclared
	IncompleteTypeUse
	Syntax
	Internal
)

func (k Kind) String() string {
	switch k {
	case BadOperands:
		return "bad operands"
	case ConversionError:
		return "conversion error"
	case Redeclaration:
		return "redeclaration"
	case Undeclared:
		return "undeclared"
	case IncompleteTypeUse:
		return "incomplete type use"
	case Syntax:
		return "syntax error"
	default:
		return "internal error"
	}
}

// Location is a source position: file, line, column.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the location carries a line — a missing location
// degrades diagnostics to just "error: <message>".
func (l Location) IsValid() bool { return l.Line > 0 }

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// compileError is the concrete error type every Kind is wrapped in.
type compileError struct {
	kind Kind
	loc  Location
	msg  string
}

func (e *compileError) Error() string {
	if e.loc.IsValid() {
		return fmt.Sprintf("%s: error: %s", e.loc, e.msg)
	}
	return "error: " + e.msg
}

// New creates an unlocated error of the given kind. Callers that know the
// location should prefer NewAt; New is for the generator's internal default
// before the outermost dispatcher enriches it with a position.
func New(kind Kind, msg string) error {
	return &compileError{kind: kind, msg: msg}
}

// NewAt creates a located error of the given kind.
func NewAt(kind Kind, loc Location, msg string) error {
	return &compileError{kind: kind, loc: loc, msg: msg}
}

// Enrich re-raises err with a location and an operator/context prefix
// attached, preserving the original Kind for Cause. Built on
// github.com/pkg/errors.Wrap: the wrapped error's Cause() still yields the
// original *compileError, so KindOf keeps working after enrichment.
func Enrich(err error, loc Location, context string) error {
	if err == nil {
		return nil
	}
	var ce *compileError
	if as(err, &ce) && !ce.loc.IsValid() {
		ce.loc = loc
	}
	return errors.Wrap(err, context)
}

// as is a tiny local errors.As so this file doesn't need the stdlib errors
// package purely for type assertion through one wrap layer.
func as(err error, target **compileError) bool {
	for err != nil {
		if ce, ok := err.(*compileError); ok {
			*target = ce
			return true
		}
		cause := errors.Cause(err)
		if cause == err {
			return false
		}
		err = cause
	}
	return false
}

// KindOf recovers the original taxonomy Kind through any number of
// errors.Wrap layers, for the driver's exit-status / rendering logic.
func KindOf(err error) Kind {
	var ce *compileError
	if as(err, &ce) {
		return ce.kind
	}
	return Internal
}

// LocationOf recovers the original source location, if any.
func LocationOf(err error) (Location, bool) {
	var ce *compileError
	if as(err, &ce) {
		return ce.loc, ce.loc.IsValid()
	}
	return Location{}, false
}

// Message renders the full error text for the driver: the wrapped chain's
// Error() already reads as "<context>: <cause>", so it becomes a standard
// `line:col: error: <message>` once the innermost compileError carries the
// location.
func Message(err error) string {
	if loc, ok := LocationOf(err); ok {
		return fmt.Sprintf("%s: error: %s", loc, stripLocation(err.Error(), loc))
	}
	return "error: " + err.Error()
}

func stripLocation(s string, loc Location) string {
	prefix := loc.String() + ": error: "
	for i := 0; i+len(prefix) <= len(s); i++ {
		if s[i:i+len(prefix)] == prefix {
			return s[i+len(prefix):]
		}
	}
	return s
}
