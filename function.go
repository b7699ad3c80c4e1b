package mjs

import (
	"github.com/robertkrimen/otto/ast"
)

// FunctionPrototype is shared by every script-defined function object so
// that instanceof, "typeof f.prototype", and Function.prototype.call/
// apply/bind all resolve against the same object regardless of whether
// the function came from a literal or a builtins-installed native
// constructor. It starts out as a bare Object; builtins.Install (spec.md
// §1's global-population collaborator) is expected to enrich it in
// place with call/apply/bind and reparent it onto Object.prototype
// rather than swapping in a disconnected replacement.
var FunctionPrototype = NewObject("Object", nil)

// ObjectPrototype is the default prototype spec.md §4.4 step 6 means by
// "the default object prototype": every plain object the core allocates
// on its own behalf (a function's own .prototype, an object/array
// literal, the arguments object) chains to this one shared object
// rather than to nil, so builtins.Install can enrich it in place with
// toString/valueOf/hasOwnProperty (original_source/mjs.cpp's single
// static object_prototype_ member plays the same role) and have that
// enrichment actually reachable from ordinary script values.
var ObjectPrototype = NewObject("Object", nil)

// makeFunction builds the Object wrapper around a function literal,
// wiring CallThunk to invokeScriptFunction (spec.md §4.4). The resulting
// object also gets a "prototype" own property, since `new` construction
// needs somewhere to hang the constructed instance's prototype link.
func (interp *Interpreter) makeFunction(name string, params *ast.ParameterList, body ast.Statement) *Object {
	paramNames := make([]string, len(params.List))
	for i, ident := range params.List {
		paramNames[i] = ident.Name
	}

	fn := NewObject("Function", FunctionPrototype)
	fn.FunctionName = name
	fn.Params = paramNames
	fn.Body = body
	fn.Closure = interp.scope

	proto := NewObject("Object", ObjectPrototype)
	proto.PutAttr("constructor", ObjectValue{Object: fn}, DontEnum)
	fn.PutAttr("prototype", ObjectValue{Object: proto}, DontDelete)
	fn.PutAttr("length", Number(float64(len(paramNames))), ReadOnly|DontEnum|DontDelete)
	if name != "" {
		fn.PutAttr("name", String(name), ReadOnly|DontEnum|DontDelete)
	}

	fn.CallThunk = func(callee *Interpreter, this Value, args []Value) (Value, error) {
		return callee.invokeScriptFunction(fn, this, args)
	}
	fn.ConstructThunk = func(callee *Interpreter, this Value, args []Value) (Value, error) {
		return callee.constructFromFunction(fn, args)
	}
	return fn
}

// MakeNativeFunction builds a callable Object wrapping a host-provided
// thunk, implementing spec.md §6's builtin registration contract
// verbatim: "ability to attach properties to the global object and to
// call make_function(native_fn, declared_length) → object_handle." The
// builtins collaborator calls this once per global function or method it
// installs and is free to set ConstructThunk on the result itself when
// the builtin is also usable with `new`.
func MakeNativeFunction(name string, length int, thunk NativeFunc) *Object {
	fn := NewObject("Function", FunctionPrototype)
	fn.FunctionName = name
	fn.CallThunk = thunk
	fn.PutAttr("length", Number(float64(length)), ReadOnly|DontEnum|DontDelete)
	if name != "" {
		fn.PutAttr("name", String(name), ReadOnly|DontEnum|DontDelete)
	}
	return fn
}

// defineFunction evaluates a FunctionLiteral into a callable Object and,
// if it carries a name, binds that name in the enclosing activation
// (spec.md §4.4 — function statements create a variable-scoped binding
// the moment they execute, matching the teacher's defineFunction).
func (interp *Interpreter) defineFunction(literal *ast.FunctionLiteral) *Object {
	name := ""
	if literal.Name != nil {
		name = literal.Name.Name
	}
	fn := interp.makeFunction(name, literal.ParameterList, literal.Body)
	if name != "" {
		interp.scope.activation.PutAttr(name, ObjectValue{Object: fn}, 0)
	}
	return fn
}

// invokeScriptFunction implements spec.md §4.4: a fresh activation
// object holding this, arguments, parameters, and hoisted vars, linked
// to the function's closure scope rather than the caller's. A Return
// completion unwraps to its value; Break/Continue escaping a function
// body is a bug in the evaluator (caught by loops), not a user-facing
// condition, so it's treated as normal/undefined defensively.
func (interp *Interpreter) invokeScriptFunction(fn *Object, this Value, args []Value) (Value, error) {
	if interp.maxCallDepth > 0 && len(interp.calls) >= interp.maxCallDepth {
		return nil, interp.newError(RangeError, "call stack exceeds configured maximum depth of %d", interp.maxCallDepth)
	}

	activation := NewObject("Activation", nil)
	activation.PutAttr("this", this, ReadOnly|DontEnum|DontDelete)
	activation.PutAttr("arguments", ObjectValue{Object: makeArguments(fn, args)}, DontDelete)

	for i, name := range fn.Params {
		if i < len(args) {
			activation.PutAttr(name, args[i], 0)
		} else {
			activation.PutAttr(name, undefined, 0)
		}
	}

	savedScope := interp.scope
	interp.scope = &Scope{activation: activation, parent: fn.Closure}
	defer func() { interp.scope = savedScope }()

	bodyList := statementListOf(fn.Body)
	interp.hoist(bodyList, activation)

	interp.pushCall(callLabel(fn), extentOf(fn.Body))
	defer interp.popCall()

	completion, err := interp.evalStatementList(bodyList)
	if err != nil {
		return nil, err
	}
	if completion.Kind == Return {
		return completion.Value, nil
	}
	return undefined, nil
}

// constructFromFunction implements spec.md §4.5's `new` semantics: a
// fresh object is linked to the function's "prototype" property (or
// Object's own prototype if that property isn't itself an object), the
// function runs with that object as `this`, and the constructed object
// is returned unless the function explicitly returned an object of its
// own.
func (interp *Interpreter) constructFromFunction(fn *Object, args []Value) (Value, error) {
	var proto *Object
	if pv, ok := fn.GetOwnProperty("prototype"); ok {
		if po, isObj := pv.(ObjectValue); isObj {
			proto = po.Object
		}
	}
	if proto == nil {
		proto = ObjectPrototype
	}
	instance := NewObject("Object", proto)
	result, err := interp.invokeScriptFunction(fn, ObjectValue{Object: instance}, args)
	if err != nil {
		return nil, err
	}
	if ov, isObj := result.(ObjectValue); isObj {
		return ov, nil
	}
	return ObjectValue{Object: instance}, nil
}

// makeArguments builds the `arguments` object of spec.md §4.4: a plain
// object (class_name "Object", chained to ObjectPrototype, exactly as
// original_source/mjs.cpp:330-338's make_arguments_array builds it)
// with numeric-indexed own properties, a length, and a callee
// back-reference, none of them enumerable.
func makeArguments(callee *Object, args []Value) *Object {
	as := NewObject("Object", ObjectPrototype)
	as.PutAttr("callee", ObjectValue{Object: callee}, DontEnum)
	as.PutAttr("length", Number(float64(len(args))), DontEnum)
	for i, a := range args {
		as.PutAttr(indexString(i), a, DontEnum)
	}
	return as
}

func indexString(i int) string { return numberToString(float64(i)) }

func callLabel(fn *Object) string {
	if fn.FunctionName != "" {
		return fn.FunctionName
	}
	return "<anonymous>"
}

// statementListOf normalizes a function body, which is always a
// BlockStatement coming from the parser, into its statement slice.
func statementListOf(body ast.Statement) []ast.Statement {
	if block, ok := body.(*ast.BlockStatement); ok {
		return block.List
	}
	return []ast.Statement{body}
}

func extentOf(n ast.Node) SourceExtent {
	if n == nil {
		return SourceExtent{}
	}
	return SourceExtent{Start: int(n.Idx0()), End: int(n.Idx1())}
}
