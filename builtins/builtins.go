// Package builtins supplies the external collaborator spec.md §1 assumes
// is in place "before execution begins": population of the global object
// with Object, Function, Boolean, Number, and the handful of free
// functions (eval, isNaN, isFinite, alert) the worked scenarios in
// spec.md §8 and the original mjs.cpp interpreter's global_object class
// actually exercise. It only uses the core package's exported attach/
// make-function surface (mjs.NewObject, mjs.MakeNativeFunction,
// Object.PutAttr, Interpreter.NewRuntimeError) — it never reaches into
// evaluator internals, matching the boundary spec.md §1 draws between
// the evaluator and "global object population".
package builtins

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/robertkrimen/otto/parser"
	"github.com/rs/zerolog"

	"github.com/ezhangle/mjs"
)

const globalAttr = mjs.DontEnum

// Options configures optional host collaborators named by spec.md §1
// (the `alert` built-in's output stream) without forcing every caller to
// thread an io.Writer through Install.
type Options struct {
	// Alert receives alert()/print() output. Defaults to os.Stdout.
	Alert io.Writer
	// Logger receives alert()/print() output that could not be written to
	// Alert; nil defaults to a disabled logger, mirroring the core
	// interpreter's own default.
	Logger *zerolog.Logger
	// Disable names global bindings (e.g. "eval", "alert") that Install
	// should not attach to the global object, per SPEC_FULL.md §3.3's
	// "extra builtin toggles" run configuration. Disabling a constructor
	// only withholds its global name; the prototype it enriches (needed
	// for object/array literals and function values regardless) is still
	// wired, matching original_source/mjs.cpp's own separation between
	// "the object_prototype_ exists" and "the Object global is bound".
	Disable []string
}

func (o Options) disabled(name string) bool {
	for _, d := range o.Disable {
		if d == name {
			return true
		}
	}
	return false
}

// Install populates interp's global object with the minimal surface
// needed to run the spec.md §8 worked scenarios: Object, Function,
// Boolean, Number, eval, isNaN, isFinite, alert/print, and NaN/Infinity.
// Grounded on original_source/mjs.cpp's global_object::popuplate_global.
func Install(interp *mjs.Interpreter, opts Options) {
	if opts.Alert == nil {
		opts.Alert = os.Stdout
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	g := interp.Global()

	// Every plain object the core allocates on its own behalf (object/array
	// literals, a function's own .prototype, the arguments object) already
	// chains to this shared mjs.ObjectPrototype rather than to a
	// disconnected one, so enriching it in place is what makes
	// toString/valueOf/hasOwnProperty reachable from ordinary script values.
	objectPrototype := mjs.ObjectPrototype
	installObjectPrototype(objectPrototype)

	// Every script-defined function (function.go's FunctionPrototype) and
	// every native one built below via mjs.MakeNativeFunction already
	// chains to this same object, so enriching it in place — rather than
	// allocating a disconnected prototype — is what makes
	// Function.prototype.call/apply/bind reachable from both.
	functionPrototype := mjs.FunctionPrototype
	functionPrototype.ClassName = "Function"
	functionPrototype.Prototype = objectPrototype
	functionPrototype.CallThunk = func(*mjs.Interpreter, mjs.Value, []mjs.Value) (mjs.Value, error) {
		return mjs.Undefined{}, nil
	}

	objectCtor := installObjectConstructor(objectPrototype)
	functionCtor := installFunctionConstructor(functionPrototype)
	booleanCtor := installBooleanConstructor(objectPrototype)
	numberCtor := installNumberConstructor(objectPrototype)

	if !opts.disabled("Object") {
		g.PutAttr("Object", mjs.ObjectValue{Object: objectCtor}, globalAttr)
	}
	if !opts.disabled("Function") {
		g.PutAttr("Function", mjs.ObjectValue{Object: functionCtor}, globalAttr)
	}
	if !opts.disabled("Boolean") {
		g.PutAttr("Boolean", mjs.ObjectValue{Object: booleanCtor}, globalAttr)
	}
	if !opts.disabled("Number") {
		g.PutAttr("Number", mjs.ObjectValue{Object: numberCtor}, globalAttr)
	}

	if !opts.disabled("NaN") {
		g.PutAttr("NaN", mjs.Number(math.NaN()), globalAttr)
	}
	if !opts.disabled("Infinity") {
		g.PutAttr("Infinity", mjs.Number(math.Inf(1)), globalAttr)
	}

	if !opts.disabled("eval") {
		g.PutAttr("eval", mjs.ObjectValue{Object: mjs.MakeNativeFunction("eval", 1, evalThunk)}, globalAttr)
	}
	if !opts.disabled("isNaN") {
		g.PutAttr("isNaN", mjs.ObjectValue{Object: mjs.MakeNativeFunction("isNaN", 1, isNaNThunk)}, globalAttr)
	}
	if !opts.disabled("isFinite") {
		g.PutAttr("isFinite", mjs.ObjectValue{Object: mjs.MakeNativeFunction("isFinite", 1, isFiniteThunk)}, globalAttr)
	}

	if !opts.disabled("alert") || !opts.disabled("print") {
		alertFn := mjs.MakeNativeFunction("alert", 1, alertThunk(opts.Alert, opts.Logger))
		if !opts.disabled("alert") {
			g.PutAttr("alert", mjs.ObjectValue{Object: alertFn}, globalAttr)
		}
		if !opts.disabled("print") {
			g.PutAttr("print", mjs.ObjectValue{Object: alertFn}, globalAttr)
		}
	}
}

// arg returns the i-th argument or undefined, since this dialect never
// raises an arity error for a short argument list (spec.md §4.4d).
func arg(args []mjs.Value, i int) mjs.Value {
	if i < len(args) {
		return args[i]
	}
	return mjs.Undefined{}
}

// installObjectPrototype wires Object.prototype's toString/valueOf/
// hasOwnProperty, grounded on original_source/mjs.cpp's
// make_object_object (§15.2.4 in the original's own comments).
func installObjectPrototype(proto *mjs.Object) {
	proto.PutAttr("toString", mjs.ObjectValue{Object: mjs.MakeNativeFunction("toString", 0,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			obj, ok := this.(mjs.ObjectValue)
			if !ok {
				return mjs.String("[object Object]"), nil
			}
			return mjs.String(fmt.Sprintf("[object %s]", obj.Object.ClassName)), nil
		})}, mjs.DontEnum)

	proto.PutAttr("valueOf", mjs.ObjectValue{Object: mjs.MakeNativeFunction("valueOf", 0,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			return this, nil
		})}, mjs.DontEnum)

	proto.PutAttr("hasOwnProperty", mjs.ObjectValue{Object: mjs.MakeNativeFunction("hasOwnProperty", 1,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			obj, ok := this.(mjs.ObjectValue)
			if !ok {
				return mjs.Boolean(false), nil
			}
			name, err := stringArg(interp, args, 0)
			if err != nil {
				return nil, err
			}
			_, has := obj.Object.GetOwnProperty(name)
			return mjs.Boolean(has), nil
		})}, mjs.DontEnum)
}

func stringArg(interp *mjs.Interpreter, args []mjs.Value, i int) (string, error) {
	return interp.ToStringValue(arg(args, i))
}

// installObjectConstructor implements `Object(value)`/`new Object(value)`
// per original_source/mjs.cpp's object_constructor: with no argument (or
// undefined/null) it allocates a fresh plain object; with an object
// argument it returns that same object unchanged, which is what spec.md
// §8 scenario 9 (`new Object(o) === o`-shaped identity) depends on.
func installObjectConstructor(proto *mjs.Object) *mjs.Object {
	ctor := mjs.MakeNativeFunction("Object", 1, objectConstructorThunk(proto))
	ctor.ConstructThunk = objectConstructorThunk(proto)
	ctor.PutAttr("prototype", mjs.ObjectValue{Object: proto}, mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	proto.PutAttr("constructor", mjs.ObjectValue{Object: ctor}, mjs.DontEnum)
	return ctor
}

func objectConstructorThunk(proto *mjs.Object) mjs.NativeFunc {
	return func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		v := arg(args, 0)
		switch v.(type) {
		case mjs.Undefined, mjs.Null:
			return mjs.ObjectValue{Object: mjs.NewObject("Object", proto)}, nil
		}
		obj, err := interp.ToObjectValue(v)
		if err != nil {
			return nil, err
		}
		return mjs.ObjectValue{Object: obj}, nil
	}
}

// installFunctionConstructor implements the `Function` global itself,
// grounded on original_source/mjs.cpp's function_constructor: calling or
// constructing it directly (as opposed to via a function literal) is not
// implemented by the original dialect either, so it raises the same
// not-implemented sentinel spec.md §7 names.
func installFunctionConstructor(proto *mjs.Object) *mjs.Object {
	notImpl := func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		return nil, interp.NewRuntimeError(mjs.NotImplemented, "the Function constructor is not implemented")
	}
	ctor := mjs.MakeNativeFunction("Function", 1, notImpl)
	ctor.ConstructThunk = notImpl
	ctor.PutAttr("prototype", mjs.ObjectValue{Object: proto}, mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	proto.PutAttr("constructor", mjs.ObjectValue{Object: ctor}, mjs.DontEnum)

	proto.PutAttr("call", mjs.ObjectValue{Object: mjs.MakeNativeFunction("call", 1, callThunk)}, mjs.DontEnum)
	proto.PutAttr("apply", mjs.ObjectValue{Object: mjs.MakeNativeFunction("apply", 2, applyThunk)}, mjs.DontEnum)
	proto.PutAttr("bind", mjs.ObjectValue{Object: mjs.MakeNativeFunction("bind", 1, bindThunk)}, mjs.DontEnum)
	return ctor
}

// callThunk/applyThunk/bindThunk supplement spec.md's distillation with
// Function.prototype.call/apply/bind (spec.md §1 draws the evaluator/
// global-population boundary; these live on the population side, per
// SPEC_FULL.md §5, grounded on original_source/mjs.cpp's minimal Function
// surface).
func callThunk(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
	fn, err := callableReceiver(interp, this)
	if err != nil {
		return nil, err
	}
	var rest []mjs.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return fn.CallThunk(interp, arg(args, 0), rest)
}

func applyThunk(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
	fn, err := callableReceiver(interp, this)
	if err != nil {
		return nil, err
	}
	var rest []mjs.Value
	if arr, ok := arg(args, 1).(mjs.ObjectValue); ok {
		rest = arrayElements(arr.Object)
	}
	return fn.CallThunk(interp, arg(args, 0), rest)
}

func bindThunk(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
	fn, err := callableReceiver(interp, this)
	if err != nil {
		return nil, err
	}
	boundThis := arg(args, 0)
	var boundArgs []mjs.Value
	if len(args) > 1 {
		boundArgs = append(boundArgs, args[1:]...)
	}
	bound := mjs.MakeNativeFunction("bound "+fn.FunctionName, 0,
		func(interp *mjs.Interpreter, _ mjs.Value, callArgs []mjs.Value) (mjs.Value, error) {
			return fn.CallThunk(interp, boundThis, append(append([]mjs.Value{}, boundArgs...), callArgs...))
		})
	return mjs.ObjectValue{Object: bound}, nil
}

func callableReceiver(interp *mjs.Interpreter, this mjs.Value) (*mjs.Object, error) {
	obj, ok := this.(mjs.ObjectValue)
	if !ok || !obj.Object.IsCallable() {
		return nil, interp.NewRuntimeError(mjs.TypeError, "call/apply/bind receiver is not a function")
	}
	return obj.Object, nil
}

func arrayElements(obj *mjs.Object) []mjs.Value {
	lengthVal := obj.Get("length")
	length, ok := lengthVal.(mjs.Number)
	if !ok {
		return nil
	}
	n := int(length)
	out := make([]mjs.Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, obj.Get(fmt.Sprint(i)))
	}
	return out
}

// installBooleanConstructor implements `Boolean(v)`/`new Boolean(v)` via
// internal_value boxing, grounded on original_source/mjs.cpp's
// make_boolean_object. spec.md §8 scenario 10 (`'' + new Boolean(0)`)
// depends on toString reading InternalValue off the receiver.
func installBooleanConstructor(objectProto *mjs.Object) *mjs.Object {
	proto := mjs.NewObject("Boolean", objectProto)
	proto.InternalValue = mjs.Boolean(false)

	call := func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		return mjs.Boolean(mjs.ToBoolean(arg(args, 0))), nil
	}
	construct := func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		o := mjs.NewObject("Boolean", proto)
		o.InternalValue = mjs.Boolean(mjs.ToBoolean(arg(args, 0)))
		return mjs.ObjectValue{Object: o}, nil
	}

	ctor := mjs.MakeNativeFunction("Boolean", 1, call)
	ctor.ConstructThunk = construct
	ctor.PutAttr("prototype", mjs.ObjectValue{Object: proto}, mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	proto.PutAttr("constructor", mjs.ObjectValue{Object: ctor}, mjs.DontEnum)

	proto.PutAttr("toString", mjs.ObjectValue{Object: mjs.MakeNativeFunction("toString", 0,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			b, err := validatedInternal(interp, this, "Boolean")
			if err != nil {
				return nil, err
			}
			return mjs.String(b.String()), nil
		})}, mjs.DontEnum)
	proto.PutAttr("valueOf", mjs.ObjectValue{Object: mjs.MakeNativeFunction("valueOf", 0,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			return validatedInternal(interp, this, "Boolean")
		})}, mjs.DontEnum)
	return ctor
}

// installNumberConstructor implements `Number(v)`/`new Number(v)` the
// same way, plus the MAX_VALUE/MIN_VALUE/NaN/±Infinity own properties
// original_source/mjs.cpp's make_number_object installs on the
// constructor itself. Number.prototype.toString's radix argument is
// validated against spec.md §4.1's [2,36] range but only decimal is
// actually implemented, matching spec.md §9's open question.
func installNumberConstructor(objectProto *mjs.Object) *mjs.Object {
	proto := mjs.NewObject("Number", objectProto)
	proto.InternalValue = mjs.Number(0)

	call := func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		if len(args) == 0 {
			return mjs.Number(0), nil
		}
		n, err := interp.ToNumberValue(args[0])
		if err != nil {
			return nil, err
		}
		return mjs.Number(n), nil
	}
	construct := func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		var n float64
		if len(args) > 0 {
			var err error
			n, err = interp.ToNumberValue(args[0])
			if err != nil {
				return nil, err
			}
		}
		o := mjs.NewObject("Number", proto)
		o.InternalValue = mjs.Number(n)
		return mjs.ObjectValue{Object: o}, nil
	}

	ctor := mjs.MakeNativeFunction("Number", 1, call)
	ctor.ConstructThunk = construct
	ctor.PutAttr("prototype", mjs.ObjectValue{Object: proto}, mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	ctor.PutAttr("MAX_VALUE", mjs.Number(math.MaxFloat64), mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	ctor.PutAttr("MIN_VALUE", mjs.Number(5e-324), mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	ctor.PutAttr("NaN", mjs.Number(math.NaN()), mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	ctor.PutAttr("NEGATIVE_INFINITY", mjs.Number(math.Inf(-1)), mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	ctor.PutAttr("POSITIVE_INFINITY", mjs.Number(math.Inf(1)), mjs.ReadOnly|mjs.DontEnum|mjs.DontDelete)
	proto.PutAttr("constructor", mjs.ObjectValue{Object: ctor}, mjs.DontEnum)

	proto.PutAttr("toString", mjs.ObjectValue{Object: mjs.MakeNativeFunction("toString", 1,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			n, err := validatedInternal(interp, this, "Number")
			if err != nil {
				return nil, err
			}
			radix := 10
			if len(args) > 0 {
				r, err := interp.ToInt32Value(args[0])
				if err != nil {
					return nil, err
				}
				radix = int(r)
			}
			if radix < 2 || radix > 36 {
				return nil, interp.NewRuntimeError(mjs.RangeError, "invalid radix in Number.prototype.toString: %d", radix)
			}
			if radix != 10 {
				return nil, interp.NewRuntimeError(mjs.NotImplemented, "non-decimal radix in Number.prototype.toString")
			}
			return mjs.String(n.String()), nil
		})}, mjs.DontEnum)
	proto.PutAttr("valueOf", mjs.ObjectValue{Object: mjs.MakeNativeFunction("valueOf", 0,
		func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
			return validatedInternal(interp, this, "Number")
		})}, mjs.DontEnum)
	return ctor
}

// validatedInternal implements original_source/mjs.cpp's validate_type:
// the receiver must be an object of the expected class carrying a boxed
// primitive, or a TypeError is raised.
func validatedInternal(interp *mjs.Interpreter, this mjs.Value, className string) (mjs.Value, error) {
	obj, ok := this.(mjs.ObjectValue)
	if !ok || obj.Object.ClassName != className || obj.Object.InternalValue == nil {
		return nil, interp.NewRuntimeError(mjs.TypeError, "%s is not a %s", this.String(), className)
	}
	return obj.Object.InternalValue, nil
}

// evalThunk implements the `eval` global, grounded on
// original_source/src/mjs/interpreter.cpp's inline lambda: a non-string
// argument passes through unchanged; a string argument is parsed with
// the bound parser collaborator (spec.md §1/§6) and evaluated in the
// calling scope, returning the last statement's completion value.
func evalThunk(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
	v := arg(args, 0)
	src, ok := v.(mjs.String)
	if !ok {
		return v, nil
	}
	program, err := parser.ParseFile(nil, "<eval>", string(src), 0)
	if err != nil {
		return nil, interp.NewRuntimeError(mjs.SyntaxError, "eval: %s", err)
	}
	completion, err := interp.Run(program)
	if err != nil {
		return nil, err
	}
	return completion.Value, nil
}

func isNaNThunk(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
	n, err := interp.ToNumberValue(arg(args, 0))
	if err != nil {
		return nil, err
	}
	return mjs.Boolean(math.IsNaN(n)), nil
}

func isFiniteThunk(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
	n, err := interp.ToNumberValue(arg(args, 0))
	if err != nil {
		return nil, err
	}
	return mjs.Boolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
}

// alertThunk implements spec.md §1's `alert` host collaborator: writes to
// the supplied writer, falling back to the logger when writing fails
// (mirroring the teacher's habit of never letting diagnostic output abort
// the script it's instrumenting).
func alertThunk(w io.Writer, logger *zerolog.Logger) mjs.NativeFunc {
	return func(interp *mjs.Interpreter, this mjs.Value, args []mjs.Value) (mjs.Value, error) {
		text, err := interp.ToStringValue(arg(args, 0))
		if err != nil {
			return nil, err
		}
		if _, writeErr := fmt.Fprintln(w, text); writeErr != nil {
			logger.Debug().Err(writeErr).Msg("alert: falling back to logger")
			logger.Info().Str("alert", text).Msg("")
		}
		return mjs.Undefined{}, nil
	}
}
