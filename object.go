package mjs

import "github.com/robertkrimen/otto/ast"

// Attribute is the attribute bitset of spec.md §3.3.
type Attribute uint8

const (
	ReadOnly  Attribute = 1 << iota // writes are silently ignored
	DontEnum                       // excluded from enumeration
	DontDelete                      // delete_property returns false
)

func (a Attribute) has(flag Attribute) bool { return a&flag != 0 }

type property struct {
	value      Value
	attributes Attribute
}

// NativeFunc is a host-provided callable attached to an object to
// implement call or construct (spec.md §3.3's "Thunk").
type NativeFunc func(interp *Interpreter, this Value, args []Value) (Value, error)

// Object is the mutable, prototype-linked property map of spec.md §3.3.
// Insertion order of own properties is preserved via names, so
// enumeration through OwnPropertyNames (not exercised by the evaluator
// or the builtins package) matches declaration order.
type Object struct {
	ClassName string
	Prototype *Object

	names      []string
	properties map[string]*property

	// InternalValue holds the boxed primitive of wrapper objects (Number,
	// Boolean) per spec.md §3.3.
	InternalValue Value

	CallThunk      NativeFunc
	ConstructThunk NativeFunc

	// The fields below are populated only for script-defined functions
	// (spec.md §4.4): the parameter names, the function body, and the
	// scope chain in effect where the function literal was evaluated.
	// CallThunk still drives invocation uniformly for native and script
	// functions alike; see function.go for how it gets wired for the
	// latter.
	FunctionName string
	Params       []string
	Body         ast.Statement
	Closure      *Scope
}

// NewObject allocates an object with the given class tag and prototype.
func NewObject(className string, prototype *Object) *Object {
	return &Object{
		ClassName:  className,
		Prototype:  prototype,
		properties: make(map[string]*property),
	}
}

// IsActivation reports whether this object plays the role of an
// activation frame (spec.md §3.4). Scope lookup and call evaluation rely
// on this exact tag, per spec.md §4.6.
func (o *Object) IsActivation() bool { return o.ClassName == "Activation" }

// IsCallable reports whether the object has a call thunk.
func (o *Object) IsCallable() bool { return o.CallThunk != nil }

// HasOwnProperty reports whether the object has the named property
// directly, without walking the prototype chain.
func (o *Object) HasOwnProperty(name string) bool {
	_, ok := o.properties[name]
	return ok
}

// HasProperty walks the prototype chain (spec.md §3.3's has_property).
func (o *Object) HasProperty(name string) bool {
	for cur := o; cur != nil; cur = cur.Prototype {
		if cur.HasOwnProperty(name) {
			return true
		}
	}
	return false
}

// Get walks the prototype chain iteratively (spec.md §9: "iterative, not
// recursive, to avoid stack issues on pathologically long chains"),
// returning undefined if the property is nowhere in the chain.
func (o *Object) Get(name string) Value {
	for cur := o; cur != nil; cur = cur.Prototype {
		if p, ok := cur.properties[name]; ok {
			return p.value
		}
	}
	return undefined
}

// GetOwnProperty returns only an own property, without chain traversal.
func (o *Object) GetOwnProperty(name string) (Value, bool) {
	if p, ok := o.properties[name]; ok {
		return p.value, true
	}
	return nil, false
}

// Put writes to own properties, creating the slot if absent, honoring
// ReadOnly silently (spec.md §3.3).
func (o *Object) Put(name string, v Value) {
	if p, ok := o.properties[name]; ok {
		if !p.attributes.has(ReadOnly) {
			p.value = v
		}
		return
	}
	o.defineOwn(name, v, 0)
}

// PutAttr writes an own property with explicit attributes, used when
// installing builtins and hoisted bindings that must carry DontDelete /
// DontEnum / ReadOnly from the start.
func (o *Object) PutAttr(name string, v Value, attrs Attribute) {
	if p, ok := o.properties[name]; ok {
		p.value = v
		p.attributes = attrs
		return
	}
	o.defineOwn(name, v, attrs)
}

func (o *Object) defineOwn(name string, v Value, attrs Attribute) {
	o.properties[name] = &property{value: v, attributes: attrs}
	o.names = append(o.names, name)
}

// Delete removes an own property unless DontDelete is set, returning
// whether removal occurred (spec.md §3.3's delete_property).
func (o *Object) Delete(name string) bool {
	p, ok := o.properties[name]
	if !ok {
		return true
	}
	if p.attributes.has(DontDelete) {
		return false
	}
	delete(o.properties, name)
	for i, n := range o.names {
		if n == name {
			o.names = append(o.names[:i], o.names[i+1:]...)
			break
		}
	}
	return true
}

// OwnPropertyNames returns own enumerable property names in insertion
// order.
func (o *Object) OwnPropertyNames() []string {
	out := make([]string, 0, len(o.names))
	for _, n := range o.names {
		if p := o.properties[n]; p != nil && !p.attributes.has(DontEnum) {
			out = append(out, n)
		}
	}
	return out
}
