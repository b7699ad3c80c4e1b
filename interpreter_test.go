package mjs

import (
	"testing"

	"github.com/robertkrimen/otto/parser"
)

func runProgram(t *testing.T, src string) Completion {
	t.Helper()
	program, err := parser.ParseFile(nil, "<test>", src, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	interp := NewInterpreter()
	completion, err := interp.Run(program)
	if err != nil {
		t.Fatalf("eval error: %s", err)
	}
	return completion
}

func TestWithStatementResolvesUnqualifiedNamesAgainstItsObject(t *testing.T) {
	got := runProgram(t, `
		var o = { x: 42 };
		var result;
		with (o) { result = x; }
		result;
	`)
	if got.Value != Number(42) {
		t.Errorf("with-resolved x = %v, want 42", got.Value)
	}
}

func TestWithStatementRestoresEnclosingScopeAfterward(t *testing.T) {
	got := runProgram(t, `
		var x = 1;
		with ({ x: 2 }) { }
		x;
	`)
	if got.Value != Number(1) {
		t.Errorf("x after with = %v, want 1 (outer binding restored)", got.Value)
	}
}

func TestUndeclaredAssignmentCreatesGlobalProperty(t *testing.T) {
	got := runProgram(t, `
		function f() { i = 42; }
		f();
		i;
	`)
	if got.Value != Number(42) {
		t.Errorf("undeclared assignment result = %v, want 42", got.Value)
	}
}

func TestReferenceToUndeclaredIdentifierIsReferenceError(t *testing.T) {
	program, err := parser.ParseFile(nil, "<test>", "nope + 1;", 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	interp := NewInterpreter()
	_, err = interp.Run(program)
	if err == nil {
		t.Fatal("expected a ReferenceError for an undeclared identifier read")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != ReferenceError {
		t.Errorf("error = %v, want a ReferenceError-kind RuntimeError", err)
	}
}

func TestBreakAndContinueDoNotEscapeTheirLoop(t *testing.T) {
	got := runProgram(t, `
		var sum = 0;
		for (var i = 0; i < 5; i++) {
			if (i == 3) break;
			if (i == 1) continue;
			sum += i;
		}
		sum;
	`)
	if got.Kind != Normal {
		t.Errorf("completion after loop = %v, want Normal", got.Kind)
	}
	if got.Value != Number(2) {
		t.Errorf("sum = %v, want 2 (0 + 2, skipping 1, stopping before 3)", got.Value)
	}
}

func TestMaxCallDepthLimitsRecursion(t *testing.T) {
	program, err := parser.ParseFile(nil, "<test>", `
		function recurse(n) { return recurse(n + 1); }
		recurse(0);
	`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	interp := NewInterpreter()
	interp.SetMaxCallDepth(10)
	_, err = interp.Run(program)
	if err == nil {
		t.Fatal("expected a RangeError once recursion exceeds the configured max call depth")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != RangeError {
		t.Errorf("error = %v, want a RangeError-kind RuntimeError", err)
	}
}

func TestObjectAndArrayLiteralsChainToObjectPrototype(t *testing.T) {
	obj, ok := runProgram(t, `({});`).Value.(ObjectValue)
	if !ok {
		t.Fatal("object literal did not evaluate to an ObjectValue")
	}
	if obj.Object.Prototype != ObjectPrototype {
		t.Error("object literal should chain to the shared ObjectPrototype")
	}

	arr, ok := runProgram(t, `[1, 2, 3];`).Value.(ObjectValue)
	if !ok {
		t.Fatal("array literal did not evaluate to an ObjectValue")
	}
	if arr.Object.Prototype != ObjectPrototype {
		t.Error("array literal should chain to the shared ObjectPrototype")
	}
}

func TestBlockStatementDiscardsItsLastStatementValue(t *testing.T) {
	got := runProgram(t, `
		var x;
		if (true) { x = 1; x = 2; }
		x;
	`)
	if got.Value != Number(2) {
		t.Fatalf("x after block = %v, want 2", got.Value)
	}

	program, err := parser.ParseFile(nil, "<test>", `{ 1; 2; }`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	interp := NewInterpreter()
	completion, err := interp.Run(program)
	if err != nil {
		t.Fatalf("eval error: %s", err)
	}
	if completion.Kind != Normal || completion.Value != undefined {
		t.Errorf("completion of { 1; 2; } = %v, want (Normal, undefined)", completion)
	}
}

func TestBlockStatementStillPropagatesAbruptCompletions(t *testing.T) {
	got := runProgram(t, `
		function f() { { return 42; } }
		f();
	`)
	if got.Value != Number(42) {
		t.Errorf("f() = %v, want 42 (block's return must still escape)", got.Value)
	}
}

func TestCallWithoutAReceiverDefaultsThisToNull(t *testing.T) {
	got := runProgram(t, `
		function outer() {
			function f() { return this; }
			return f();
		}
		outer();
	`)
	if got.Value != null {
		t.Errorf("this inside a bare call = %v, want null", got.Value)
	}
}

func TestFunctionCallStackTraceRecordsFrames(t *testing.T) {
	program, err := parser.ParseFile(nil, "<test>", `
		function inner() { return nope; }
		function outer() { return inner(); }
		outer();
	`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	interp := NewInterpreter()
	_, err = interp.Run(program)
	rerr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected a RuntimeError, got %v", err)
	}
	if len(rerr.StackTrace) < 2 {
		t.Errorf("stack trace has %d frames, want at least 2 (inner, outer)", len(rerr.StackTrace))
	}
}
