package mjs

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind is a taxonomy of runtime error causes (spec.md §7: "kinds,
// not type names" — this dialect has no script-visible error
// constructors, so these are Go-level tags, not thrown objects).
type ErrorKind uint8

const (
	TypeErrorKind ErrorKind = iota
	RangeErrorKind
	ReferenceErrorKind
	SyntaxErrorKind
	NotImplementedKind
)

// Aliases matching the vocabulary used throughout SPEC_FULL.md.
const (
	TypeError      = TypeErrorKind
	RangeError     = RangeErrorKind
	ReferenceError = ReferenceErrorKind
	SyntaxError    = SyntaxErrorKind
	NotImplemented = NotImplementedKind
)

func (k ErrorKind) String() string {
	switch k {
	case TypeErrorKind:
		return "TypeError"
	case RangeErrorKind:
		return "RangeError"
	case ReferenceErrorKind:
		return "ReferenceError"
	case SyntaxErrorKind:
		return "SyntaxError"
	case NotImplementedKind:
		return "NotImplemented"
	default:
		return "Error"
	}
}

// SourceExtent is the {file, start, end} location spec.md §6 attaches to
// AST nodes for error reporting only.
type SourceExtent struct {
	File  string
	Start int
	End   int
}

func (e SourceExtent) String() string {
	return fmt.Sprintf("%s:%d-%d", e.File, e.Start, e.End)
}

// RuntimeError is the host-native error value of spec.md §6/§7: a
// message, a kind, and a stack trace of source extents taken from the
// interpreter's call stack at the moment the error was raised, most
// recent first. Each entry is the body extent of an active
// script-function call; call-site extents are not recorded. All abrupt non-error propagation out of evaluation goes through
// Completion instead; RuntimeError is reserved for the cases spec.md §7
// calls out as non-recoverable by the script itself.
type RuntimeError struct {
	Kind       ErrorKind
	Message    string
	StackTrace []SourceExtent
	cause      error
}

func (e *RuntimeError) Error() string {
	if len(e.StackTrace) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	s := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	for _, extent := range e.StackTrace {
		s += "\n  at " + extent.String()
	}
	return s
}

// Unwrap exposes the wrapped cause, if any, so errors.Is/As from
// github.com/pkg/errors and the standard library both work across this
// boundary.
func (e *RuntimeError) Unwrap() error { return e.cause }

// GoStack renders the Go-level call stack captured by github.com/pkg/errors
// at the moment this error was raised (%+v on its errors.StackTrace), for
// diagnosing where in the evaluator's own code a RuntimeError originated.
// It is deliberately separate from Error()/StackTrace, which carry only the
// script-observable source extents spec.md §5 defines.
func (e *RuntimeError) GoStack() string {
	tracer, ok := e.cause.(interface{ StackTrace() errors.StackTrace })
	if !ok {
		return ""
	}
	return fmt.Sprintf("%+v", tracer.StackTrace())
}

// newError constructs a RuntimeError carrying the current call-site
// stack trace, wrapped with github.com/pkg/errors so GoStack (or a future
// %+v format verb) reveals the Go-level origin during debugging without
// that detail leaking into the script-observable message.
func (interp *Interpreter) newError(kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	msg := fmt.Sprintf(format, args...)
	err := &RuntimeError{
		Kind:       kind,
		Message:    msg,
		StackTrace: interp.stackTrace(),
		cause:      errors.New(msg),
	}
	interp.logger.Debug().Str("kind", kind.String()).Str("message", msg).Msg("runtime error raised")
	return err
}

// NewRuntimeError is the exported constructor the builtins collaborator
// uses to raise spec.md §7 errors (bad radix, wrong receiver type, ...)
// without reaching into evaluator internals, per spec.md §6's external
// interface contract.
func (interp *Interpreter) NewRuntimeError(kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	return interp.newError(kind, format, args...)
}

// notImplemented raises the "not-implemented" sentinel of spec.md §7 for
// AST shapes or operations the evaluator deliberately does not support
// (for-in, switch, labelled statements, try/catch, ...).
func (interp *Interpreter) notImplemented(what string) *RuntimeError {
	return interp.newError(NotImplementedKind, "not implemented: %s", what)
}
