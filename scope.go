package mjs

// Scope is one link of the scope chain of spec.md §3.5: an activation
// object plus a pointer to the enclosing link. The global scope is the
// chain's root and has no parent.
type Scope struct {
	activation *Object
	parent     *Scope
}

// newGlobalScope wraps the global object as the bottom scope link.
func newGlobalScope(global *Object) *Scope {
	return &Scope{activation: global}
}

// pushScope enters a new activation on top of the current scope. Every
// call site pairs this with a deferred popScope so the
// chain unwinds correctly even when a runtime error propagates out of
// the nested evaluation (spec.md §5).
func (interp *Interpreter) pushScope(activation *Object) {
	interp.scope = &Scope{activation: activation, parent: interp.scope}
	interp.logger.Debug().Str("class", activation.ClassName).Msg("scope push")
}

// popScope leaves the innermost scope, restoring its parent. Calling it
// on the global scope is a bug in the caller, not a recoverable runtime
// condition, so it panics rather than silently doing nothing.
func (interp *Interpreter) popScope() {
	if interp.scope.parent == nil {
		panic("mjs: popScope on global scope")
	}
	interp.logger.Debug().Str("class", interp.scope.activation.ClassName).Msg("scope pop")
	interp.scope = interp.scope.parent
}

// lookup resolves an identifier to a Reference by walking the scope
// chain outward from the innermost activation (spec.md §4.6). The first
// activation that already owns the property wins; if none does, the
// result is an unresolved Reference (nil Base), so that GetValue can
// raise ReferenceError and PutValue can create a global property on
// undeclared assignment.
func (interp *Interpreter) lookup(name string) Reference {
	for s := interp.scope; s != nil; s = s.parent {
		if s.activation.HasOwnProperty(name) {
			return Reference{Base: s.activation, PropertyName: name}
		}
	}
	return Reference{Base: nil, PropertyName: name}
}
