package mjs

import (
	"testing"

	"github.com/robertkrimen/otto/parser"
)

func hoistSource(t *testing.T, src string) *Object {
	t.Helper()
	program, err := parser.ParseFile(nil, "<test>", src, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	activation := NewObject("Activation", nil)
	interp := NewInterpreter()
	interp.hoist(program.Body, activation)
	return activation
}

func TestHoistDeclaresVarsBeforeExecution(t *testing.T) {
	activation := hoistSource(t, `
		var a = 1;
		if (true) { var b = 2; } else { var c = 3; }
		while (false) { var d = 4; }
		for (var e = 0, f = 1; ; ) { break; }
	`)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		if !activation.HasOwnProperty(name) {
			t.Errorf("expected %q to be hoisted", name)
		}
		if activation.Get(name) != undefined {
			t.Errorf("hoisted %q should read as undefined before execution, got %v", name, activation.Get(name))
		}
	}
}

func TestHoistDeclaresFunctionStatements(t *testing.T) {
	activation := hoistSource(t, `function greet() { return 1; }`)
	if !activation.HasOwnProperty("greet") {
		t.Fatal("expected function statement name to be hoisted")
	}
}

func TestHoistDoesNotDescendIntoNestedFunctionBodies(t *testing.T) {
	activation := hoistSource(t, `
		function outer() {
			var inner = 1;
		}
	`)
	if activation.HasOwnProperty("inner") {
		t.Error("hoist must not cross into a nested function body")
	}
}

func TestHoistDoesNotOverwriteAlreadyDeclaredName(t *testing.T) {
	activation := NewObject("Activation", nil)
	activation.PutAttr("a", Number(99), 0)
	interp := NewInterpreter()

	program, err := parser.ParseFile(nil, "<test>", "var a;", 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	interp.hoist(program.Body, activation)

	if activation.Get("a") != Number(99) {
		t.Errorf("hoist overwrote an already-declared binding: got %v", activation.Get("a"))
	}
}
