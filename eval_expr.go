package mjs

import (
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"
)

// evalExpr implements spec.md §4.2, dispatching on the concrete AST node
// type. Identifier and member-access nodes yield a Reference; every
// other node yields a language value directly. Callers that need a
// language value call GetValue on the result.
func (interp *Interpreter) evalExpr(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if e.Name == "undefined" {
			return undefined, nil
		}
		return interp.lookup(e.Name), nil

	case *ast.NullLiteral:
		return null, nil
	case *ast.BooleanLiteral:
		return boolValue(e.Value), nil
	case *ast.NumberLiteral:
		switch n := e.Value.(type) {
		case float64:
			return Number(n), nil
		case int64:
			return Number(float64(n)), nil
		default:
			return nil, interp.newError(SyntaxError, "invalid number literal")
		}
	case *ast.StringLiteral:
		return String(e.Value), nil
	case *ast.EmptyExpression:
		return undefined, nil
	case *ast.ThisExpression:
		return interp.currentThis(), nil

	case *ast.VariableExpression:
		var v Value = undefined
		if e.Initializer != nil {
			var err error
			v, err = interp.evalValue(e.Initializer)
			if err != nil {
				return nil, err
			}
		} else if interp.scope.activation.HasOwnProperty(e.Name) {
			return undefined, nil
		}
		interp.scope.activation.Put(e.Name, v)
		return v, nil

	case *ast.SequenceExpression:
		var v Value = undefined
		var err error
		for _, item := range e.Sequence {
			v, err = interp.evalValue(item)
			if err != nil {
				return nil, err
			}
		}
		return v, nil

	case *ast.ConditionalExpression:
		test, err := interp.evalValue(e.Test)
		if err != nil {
			return nil, err
		}
		if toBoolean(test) {
			return interp.evalValue(e.Consequent)
		}
		return interp.evalValue(e.Alternate)

	case *ast.FunctionLiteral:
		return ObjectValue{Object: interp.defineFunction(e)}, nil

	case *ast.ObjectLiteral:
		return interp.evalObjectLiteral(e)
	case *ast.ArrayLiteral:
		return interp.evalArrayLiteral(e)

	case *ast.DotExpression:
		left, err := interp.evalValue(e.Left)
		if err != nil {
			return nil, err
		}
		obj, err := interp.coerceToObject(left)
		if err != nil {
			return nil, err
		}
		return Reference{Base: obj, PropertyName: e.Identifier.Name}, nil

	case *ast.BracketExpression:
		left, err := interp.evalValue(e.Left)
		if err != nil {
			return nil, err
		}
		obj, err := interp.coerceToObject(left)
		if err != nil {
			return nil, err
		}
		member, err := interp.evalValue(e.Member)
		if err != nil {
			return nil, err
		}
		name, err := interp.toString(member)
		if err != nil {
			return nil, err
		}
		return Reference{Base: obj, PropertyName: name}, nil

	case *ast.CallExpression:
		return interp.evalCallExpression(e)

	case *ast.NewExpression:
		return interp.evalNewExpression(e)

	case *ast.UnaryExpression:
		return interp.evalUnaryExpression(e)

	case *ast.BinaryExpression:
		return interp.evalBinaryExpression(e)

	case *ast.AssignExpression:
		return interp.evalAssignExpression(e)

	default:
		return nil, interp.notImplemented("expression node")
	}
}

// evalValue is evalExpr followed by GetValue, for the overwhelming
// majority of call sites that need a language value rather than a
// Reference (spec.md §3.2).
func (interp *Interpreter) evalValue(expr ast.Expression) (Value, error) {
	v, err := interp.evalExpr(expr)
	if err != nil {
		return nil, err
	}
	return interp.GetValue(v)
}

func (interp *Interpreter) currentThis() Value {
	for s := interp.scope; s != nil; s = s.parent {
		if s.activation.IsActivation() {
			if v, ok := s.activation.GetOwnProperty("this"); ok {
				return v
			}
		}
	}
	return ObjectValue{Object: interp.global}
}

func (interp *Interpreter) evalObjectLiteral(e *ast.ObjectLiteral) (Value, error) {
	obj := NewObject("Object", ObjectPrototype)
	for _, prop := range e.Value {
		v, err := interp.evalValue(prop.Value)
		if err != nil {
			return nil, err
		}
		switch prop.Kind {
		case "value", "init", "":
			obj.Put(prop.Key, v)
		default:
			return nil, interp.notImplemented("object literal accessor property")
		}
	}
	return ObjectValue{Object: obj}, nil
}

func (interp *Interpreter) evalArrayLiteral(e *ast.ArrayLiteral) (Value, error) {
	obj := NewObject("Array", ObjectPrototype)
	for i, item := range e.Value {
		v, err := interp.evalValue(item)
		if err != nil {
			return nil, err
		}
		obj.PutAttr(indexString(i), v, 0)
	}
	obj.PutAttr("length", Number(float64(len(e.Value))), DontEnum)
	return ObjectValue{Object: obj}, nil
}

func (interp *Interpreter) evalCallExpression(e *ast.CallExpression) (Value, error) {
	calleeRef, err := interp.evalExpr(e.Callee)
	if err != nil {
		return nil, err
	}
	calleeVal, err := interp.GetValue(calleeRef)
	if err != nil {
		return nil, err
	}
	calleeObj, ok := calleeVal.(ObjectValue)
	if !ok || !calleeObj.Object.IsCallable() {
		return nil, interp.newError(TypeError, "%s is not a function", exprDescription(e.Callee))
	}

	var this Value = null
	if ref, isRef := calleeRef.(Reference); isRef && ref.Base != nil && !ref.Base.IsActivation() {
		this = ObjectValue{Object: ref.Base}
	}

	args := make([]Value, len(e.ArgumentList))
	for i, a := range e.ArgumentList {
		args[i], err = interp.evalValue(a)
		if err != nil {
			return nil, err
		}
	}

	return calleeObj.Object.CallThunk(interp, this, args)
}

func (interp *Interpreter) evalNewExpression(e *ast.NewExpression) (Value, error) {
	calleeVal, err := interp.evalValue(e.Callee)
	if err != nil {
		return nil, err
	}
	calleeObj, ok := calleeVal.(ObjectValue)
	if !ok || calleeObj.Object.ConstructThunk == nil {
		return nil, interp.newError(TypeError, "%s is not a constructor", exprDescription(e.Callee))
	}
	args := make([]Value, len(e.ArgumentList))
	for i, a := range e.ArgumentList {
		args[i], err = interp.evalValue(a)
		if err != nil {
			return nil, err
		}
	}
	return calleeObj.Object.ConstructThunk(interp, undefined, args)
}

func (interp *Interpreter) evalUnaryExpression(e *ast.UnaryExpression) (Value, error) {
	switch e.Operator {
	case token.DELETE:
		ref, err := interp.evalExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		r, isRef := ref.(Reference)
		if !isRef {
			return boolValue(true), nil
		}
		if r.Base == nil {
			return boolValue(true), nil
		}
		return boolValue(r.Base.Delete(r.PropertyName)), nil

	case token.TYPEOF:
		ref, err := interp.evalExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		if r, isRef := ref.(Reference); isRef && r.Base == nil {
			return String("undefined"), nil
		}
		v, err := interp.GetValue(ref)
		if err != nil {
			return nil, err
		}
		return String(typeOf(v)), nil

	case token.VOID:
		if _, err := interp.evalValue(e.Operand); err != nil {
			return nil, err
		}
		return undefined, nil

	case token.PLUS:
		v, err := interp.evalValue(e.Operand)
		if err != nil {
			return nil, err
		}
		n, err := interp.toNumber(v)
		if err != nil {
			return nil, err
		}
		return Number(n), nil

	case token.MINUS:
		v, err := interp.evalValue(e.Operand)
		if err != nil {
			return nil, err
		}
		n, err := interp.toNumber(v)
		if err != nil {
			return nil, err
		}
		return Number(-n), nil

	case token.NOT:
		v, err := interp.evalValue(e.Operand)
		if err != nil {
			return nil, err
		}
		return boolValue(!toBoolean(v)), nil

	case token.BITWISE_NOT:
		i, err := interp.evalInt32(e.Operand)
		if err != nil {
			return nil, err
		}
		return Number(float64(^i)), nil

	case token.INCREMENT, token.DECREMENT:
		ref, err := interp.evalExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		old, err := interp.GetValue(ref)
		if err != nil {
			return nil, err
		}
		oldNum, err := interp.toNumber(old)
		if err != nil {
			return nil, err
		}
		delta := 1.0
		if e.Operator == token.DECREMENT {
			delta = -1.0
		}
		newNum := Number(oldNum + delta)
		if err := interp.PutValue(ref, newNum); err != nil {
			return nil, err
		}
		if e.Postfix {
			return Number(oldNum), nil
		}
		return newNum, nil

	default:
		return nil, interp.notImplemented("unary operator " + e.Operator.String())
	}
}

func (interp *Interpreter) evalInt32(expr ast.Expression) (int32, error) {
	v, err := interp.evalValue(expr)
	if err != nil {
		return 0, err
	}
	return interp.toInt32(v)
}

func typeOf(v Value) string {
	switch t := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case ObjectValue:
		if t.Object.IsCallable() {
			return "function"
		}
		return "object"
	default:
		return "undefined"
	}
}

func exprDescription(e ast.Expression) string {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name
	}
	if dot, ok := e.(*ast.DotExpression); ok {
		return exprDescription(dot.Left) + "." + dot.Identifier.Name
	}
	return "expression"
}
