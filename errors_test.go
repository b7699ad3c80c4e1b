package mjs

import (
	"strings"
	"testing"
)

func TestRuntimeErrorGoStackCapturesOrigin(t *testing.T) {
	interp := NewInterpreter()
	err := interp.newError(TypeError, "boom")

	stack := err.GoStack()
	if stack == "" {
		t.Fatal("GoStack() is empty, want a captured pkg/errors stack trace")
	}
	if !strings.Contains(stack, "newError") {
		t.Errorf("GoStack() = %q, want it to mention newError", stack)
	}
}
