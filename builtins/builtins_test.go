package builtins_test

import (
	"bytes"
	"testing"

	"github.com/robertkrimen/otto/parser"

	"github.com/ezhangle/mjs"
	"github.com/ezhangle/mjs/builtins"
)

// run parses and evaluates src with builtins installed, returning the
// string form of the last top-level statement's completion value, the
// same observable result the spec.md §8 scenarios are phrased against.
func run(t *testing.T, src string) string {
	t.Helper()
	interp := mjs.NewInterpreter()
	builtins.Install(interp, builtins.Options{})

	program, err := parser.ParseFile(nil, "<test>", src, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	completion, err := interp.Run(program)
	if err != nil {
		t.Fatalf("eval error: %s", err)
	}
	return completion.Value.String()
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"remainder", "-7.5 % 2", "-1.5"},
		{"stringConcatAndPrecedence", "x = 42; 'test ' + 2 * (6 - 4 + 1) + ' ' + x", "test 6 42"},
		{"postfixIncrement", "var x=2; x++; x", "3"},
		{"shiftLeft", "1<<2", "4"},
		{"shiftRightSigned", "-5>>2", "-2"},
		{"shiftRightUnsigned", "-5>>>2", "1073741822"},
		{"bitwiseAnd", "255 & 128", "128"},
		{"bitwiseOr", "64 | 128", "192"},
		{"logicalOrTruthy", "42 || 13", "42"},
		{"logicalAndTruthy", "42 && 13", "13"},
		{"argumentsObject", "function sum(){ var s=0; for (var i=0; i<arguments.length; ++i) s += arguments[i]; return s; } sum(1,2,3)", "6"},
		{"undeclaredAssignmentCreatesGlobal", "function f(){ i = 42; } f(); i", "42"},
		{"hoistedLocalShadowsGlobal", "i = 1; function f(){ var i = 42; } f(); i", "1"},
		{"objectIdentityThroughConstructor", "o = new Object; o.x = 42; new Object(o).x", "42"},
		{"booleanWrapperConcat", "'' + new Boolean(0)", "false"},
		{"booleanWrapperAddition", "0 + new Boolean(1)", "1"},
		{"typeofNumber", "typeof(2)", "number"},
		{"typeofUndeclared", "typeof nope", "undefined"},
		{"nullLooseEqualsFalse", "null == false", "false"},
		{"emptyStringLooseEqualsFalse", `"" == false`, "true"},
		{"unaryPlusOnBoolean", "+true", "1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := run(t, c.src)
			if got != c.want {
				t.Errorf("eval(%q) = %q, want %q", c.src, got, c.want)
			}
		})
	}
}

func TestAlertWritesToSuppliedWriter(t *testing.T) {
	var buf bytes.Buffer
	interp := mjs.NewInterpreter()
	builtins.Install(interp, builtins.Options{Alert: &buf})

	program, err := parser.ParseFile(nil, "<test>", `alert("hi")`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	if _, err := interp.Run(program); err != nil {
		t.Fatalf("eval error: %s", err)
	}
	if buf.String() != "hi\n" {
		t.Errorf("alert output = %q, want %q", buf.String(), "hi\n")
	}
}

func TestFunctionPrototypeCallAppliesGivenThis(t *testing.T) {
	got := run(t, `
		function greet() { return this.name; }
		var o = { name: "ok" };
		greet.call(o);
	`)
	if got != "ok" {
		t.Errorf("greet.call(o) = %q, want %q", got, "ok")
	}
}

func TestFunctionPrototypeApplySpreadsArrayArguments(t *testing.T) {
	got := run(t, `
		function sum(a, b, c) { return a + b + c; }
		sum.apply(null, [1, 2, 3]);
	`)
	if got != "6" {
		t.Errorf("sum.apply(null, [1,2,3]) = %q, want %q", got, "6")
	}
}

func TestFunctionPrototypeBindPrependsArguments(t *testing.T) {
	got := run(t, `
		function add(a, b) { return a + b; }
		var addFive = add.bind(null, 5);
		addFive(1);
	`)
	if got != "6" {
		t.Errorf("addFive(1) = %q, want %q", got, "6")
	}
}

func TestEvalRunsInCallingScope(t *testing.T) {
	got := run(t, `
		function f() {
			var local = 10;
			return eval("local + 5");
		}
		f();
	`)
	if got != "15" {
		t.Errorf("eval in calling scope = %q, want %q", got, "15")
	}
}

func TestNumberToStringRejectsOutOfRangeRadix(t *testing.T) {
	interp := mjs.NewInterpreter()
	builtins.Install(interp, builtins.Options{})
	program, err := parser.ParseFile(nil, "<test>", `new Number(10).toString(1)`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	if _, err := interp.Run(program); err == nil {
		t.Fatalf("expected a RangeError-kind error for radix 1, got none")
	}
}

func TestIsNaNAndIsFinite(t *testing.T) {
	if run(t, `isNaN("x")`) != "true" {
		t.Errorf("isNaN(\"x\") should be true")
	}
	if run(t, `isFinite(Infinity)`) != "false" {
		t.Errorf("isFinite(Infinity) should be false")
	}
}

func TestConstructedInstanceInheritsObjectPrototypeMethods(t *testing.T) {
	got := run(t, `
		function F() {}
		var f = new F();
		f.hasOwnProperty("nope");
	`)
	if got != "false" {
		t.Errorf("(new F()).hasOwnProperty(\"nope\") = %q, want %q", got, "false")
	}
}

func TestObjectAndArrayLiteralsInheritObjectPrototypeMethods(t *testing.T) {
	if got := run(t, `({}).toString();`); got != "[object Object]" {
		t.Errorf("({}).toString() = %q, want %q", got, "[object Object]")
	}
	if got := run(t, `[1, 2].hasOwnProperty("0");`); got != "true" {
		t.Errorf("[1,2].hasOwnProperty(\"0\") = %q, want %q", got, "true")
	}
}

func TestArgumentsObjectInheritsObjectPrototypeMethods(t *testing.T) {
	got := run(t, `
		function f() { return arguments.hasOwnProperty("0"); }
		f(42);
	`)
	if got != "true" {
		t.Errorf("arguments.hasOwnProperty(\"0\") = %q, want %q", got, "true")
	}
}

func TestDisabledBuiltinIsNotAttachedButPrototypeStillWorks(t *testing.T) {
	interp := mjs.NewInterpreter()
	builtins.Install(interp, builtins.Options{Disable: []string{"eval", "Number"}})

	program, err := parser.ParseFile(nil, "<test>", `typeof eval`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	completion, err := interp.Run(program)
	if err != nil {
		t.Fatalf("eval error: %s", err)
	}
	if completion.Value.String() != "undefined" {
		t.Errorf("typeof eval = %q, want %q when eval is disabled", completion.Value.String(), "undefined")
	}

	program, err = parser.ParseFile(nil, "<test>", `({}).toString();`, 0)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	completion, err = interp.Run(program)
	if err != nil {
		t.Fatalf("eval error: %s", err)
	}
	if completion.Value.String() != "[object Object]" {
		t.Errorf("({}).toString() = %q, want %q even with Number disabled", completion.Value.String(), "[object Object]")
	}
}
