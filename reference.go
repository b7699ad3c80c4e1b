package mjs

// Reference is the intermediate-result pseudo-value of spec.md §3.2: a
// pair of an optional base object and a property name. It is produced by
// identifier lookup and member access and must be eliminated with
// GetValue before a language value is needed. References are never
// stored in variables or object properties.
type Reference struct {
	Base         *Object // nil means "unresolved identifier"
	PropertyName string
}

func (Reference) Category() Category { return CategoryReference }
func (r Reference) String() string   { return "[reference " + r.PropertyName + "]" }

// GetValue implements spec.md §3.2's get_value. If v is not a reference it
// is returned unchanged; otherwise the base is dereferenced, walking the
// prototype chain, or a ReferenceError-kind RuntimeError is raised for an
// unresolved identifier.
func (interp *Interpreter) GetValue(v Value) (Value, error) {
	ref, isRef := v.(Reference)
	if !isRef {
		return v, nil
	}
	if ref.Base == nil {
		return nil, interp.newError(ReferenceError, "%s is not defined", ref.PropertyName)
	}
	return ref.Base.Get(ref.PropertyName), nil
}

// PutValue implements spec.md §3.2's put_value. Assigning through a
// non-reference is a TypeError-kind error. Assigning to an unresolved
// identifier assigns onto the global object, which is how undeclared
// assignment creates a global property (scenario 7 in spec.md §8).
func (interp *Interpreter) PutValue(v Value, rhs Value) error {
	ref, isRef := v.(Reference)
	if !isRef {
		return interp.newError(TypeError, "invalid assignment target")
	}
	base := ref.Base
	if base == nil {
		base = interp.global
	}
	base.Put(ref.PropertyName, rhs)
	return nil
}
