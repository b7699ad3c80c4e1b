package mjs

import (
	"github.com/robertkrimen/otto/ast"
	"github.com/rs/zerolog"
)

// activeCall records one entry of the call stack used to build
// RuntimeError.StackTrace (spec.md §5/§6).
type activeCall struct {
	name   string
	extent SourceExtent
}

// Interpreter is the evaluator state of spec.md §6: the current scope
// chain, the global object every unresolved reference ultimately
// bottoms out on, and the bookkeeping needed for stack traces and
// optional diagnostics. One Interpreter evaluates one program; it is
// not safe for concurrent use from multiple goroutines.
type Interpreter struct {
	global *Object
	scope  *Scope

	calls []activeCall

	logger zerolog.Logger

	// maxCallDepth caps the number of nested script-function invocations,
	// per SPEC_FULL.md §3.3's "max call depth" run configuration. Zero
	// (the default) means unbounded, matching the teacher's own behavior
	// of relying on the Go call stack when no limit is configured.
	maxCallDepth int

	// onStatementExecuted, when set, is invoked after every statement
	// evaluation that ends without a runtime error, nested statements and
	// abrupt completions included; the REPL uses this to echo completion
	// values without threading extra plumbing through Run's caller.
	onStatementExecuted func(Completion)
}

// NewInterpreter builds an Interpreter with a fresh global object and an
// empty scope chain. Callers that need builtins installed call
// builtins.Install(interp, opts) afterward (spec.md §1: global-object
// population is an external collaborator's job, not the core's).
func NewInterpreter() *Interpreter {
	global := NewObject("global", nil)
	interp := &Interpreter{
		global: global,
		logger: zerolog.Nop(),
	}
	interp.scope = newGlobalScope(global)
	return interp
}

// SetLogger attaches a zerolog.Logger for debug-level tracing of scope
// transitions, invocations, and uncaught errors. The default logger is
// zerolog.Nop(), so tracing costs nothing unless explicitly enabled.
func (interp *Interpreter) SetLogger(logger zerolog.Logger) { interp.logger = logger }

// SetMaxCallDepth caps nested script-function invocation depth; zero
// (the zero value's default) leaves it unbounded. Exported so the CLI's
// run configuration (SPEC_FULL.md §3.3) can apply it without reaching
// into evaluator internals, the same boundary NewRuntimeError and the
// coercion exports already draw for the builtins collaborator.
func (interp *Interpreter) SetMaxCallDepth(depth int) { interp.maxCallDepth = depth }

// Global returns the global object, for builtins installation and host
// bindings.
func (interp *Interpreter) Global() *Object { return interp.global }

// OnStatementExecuted registers a callback fired after each statement
// evaluated without a runtime error, including statements nested in
// blocks, loops and function bodies; the REPL uses it to echo completion
// values.
func (interp *Interpreter) OnStatementExecuted(fn func(Completion)) {
	interp.onStatementExecuted = fn
}

func (interp *Interpreter) pushCall(name string, extent SourceExtent) {
	interp.calls = append(interp.calls, activeCall{name: name, extent: extent})
	interp.logger.Debug().Str("call", name).Msg("enter")
}

func (interp *Interpreter) popCall() {
	if len(interp.calls) == 0 {
		return
	}
	top := interp.calls[len(interp.calls)-1]
	interp.calls = interp.calls[:len(interp.calls)-1]
	interp.logger.Debug().Str("call", top.name).Msg("leave")
}

// stackTrace snapshots the active call stack's source extents, most
// recent first, for attachment to a newly raised RuntimeError.
func (interp *Interpreter) stackTrace() []SourceExtent {
	out := make([]SourceExtent, len(interp.calls))
	for i, c := range interp.calls {
		out[len(interp.calls)-1-i] = c.extent
	}
	return out
}

// Run parses nothing itself (spec.md §2: parsing is an external
// collaborator) — it hoists and evaluates an already-parsed program,
// returning the completion of its last statement.
func (interp *Interpreter) Run(program *ast.Program) (Completion, error) {
	interp.hoist(program.Body, interp.scope.activation)
	return interp.evalStatementList(program.Body)
}
