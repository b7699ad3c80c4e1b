package mjs

import (
	"math"

	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/token"
)

// evalBinaryExpression implements spec.md §4.2's binary operators,
// short-circuiting && and || before the right operand is even
// evaluated, and routing relational/equality comparisons through the
// tri-state and loose-equality helpers below.
func (interp *Interpreter) evalBinaryExpression(e *ast.BinaryExpression) (Value, error) {
	switch e.Operator {
	case token.LOGICAL_AND:
		left, err := interp.evalValue(e.Left)
		if err != nil {
			return nil, err
		}
		if !toBoolean(left) {
			return left, nil
		}
		return interp.evalValue(e.Right)

	case token.LOGICAL_OR:
		left, err := interp.evalValue(e.Left)
		if err != nil {
			return nil, err
		}
		if toBoolean(left) {
			return left, nil
		}
		return interp.evalValue(e.Right)
	}

	left, err := interp.evalValue(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := interp.evalValue(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case token.PLUS:
		return interp.addition(left, right)
	case token.MINUS, token.MULTIPLY, token.SLASH, token.REMAINDER,
		token.AND, token.OR, token.EXCLUSIVE_OR,
		token.SHIFT_LEFT, token.SHIFT_RIGHT, token.UNSIGNED_SHIFT_RIGHT:
		return interp.arithmeticOp(left, right, e.Operator)

	case token.LESS, token.LESS_OR_EQUAL, token.GREATER, token.GREATER_OR_EQUAL:
		return interp.relational(left, right, e.Operator)

	case token.EQUAL:
		eq, err := interp.looseEqual(left, right)
		return boolValue(eq), err
	case token.NOT_EQUAL:
		eq, err := interp.looseEqual(left, right)
		return boolValue(!eq), err
	case token.STRICT_EQUAL:
		return boolValue(strictEqual(left, right)), nil
	case token.STRICT_NOT_EQUAL:
		return boolValue(!strictEqual(left, right)), nil

	case token.INSTANCEOF:
		return interp.instanceOf(left, right)

	default:
		return nil, interp.notImplemented("binary operator " + e.Operator.String())
	}
}

// evalAssignExpression implements spec.md §4.2's assignment operators,
// both plain `=` and the compound forms, which read-modify-write through
// a single Reference evaluation of the left-hand side.
func (interp *Interpreter) evalAssignExpression(e *ast.AssignExpression) (Value, error) {
	ref, err := interp.evalExpr(e.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := interp.evalValue(e.Right)
	if err != nil {
		return nil, err
	}

	result := rhs
	if e.Operator != token.ASSIGN {
		lhs, err := interp.GetValue(ref)
		if err != nil {
			return nil, err
		}
		op, ok := compoundOperator(e.Operator)
		if !ok {
			return nil, interp.notImplemented("assignment operator " + e.Operator.String())
		}
		if op == token.PLUS {
			result, err = interp.addition(lhs, rhs)
		} else {
			result, err = interp.arithmeticOp(lhs, rhs, op)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := interp.PutValue(ref, result); err != nil {
		return nil, err
	}
	return result, nil
}

// compoundOperator maps a compound assignment's operator to the plain
// binary token it performs before storing, per spec.md §4.2. The otto
// parser records `+=` on an AssignExpression as token.PLUS (and so on),
// so the plain binary tokens map to themselves; the `+=`-style tokens
// are accepted as well.
func compoundOperator(op token.Token) (token.Token, bool) {
	switch op {
	case token.PLUS, token.MINUS, token.MULTIPLY, token.SLASH, token.REMAINDER,
		token.AND, token.OR, token.EXCLUSIVE_OR,
		token.SHIFT_LEFT, token.SHIFT_RIGHT, token.UNSIGNED_SHIFT_RIGHT:
		return op, true
	case token.ADD_ASSIGN:
		return token.PLUS, true
	case token.SUBTRACT_ASSIGN:
		return token.MINUS, true
	case token.MULTIPLY_ASSIGN:
		return token.MULTIPLY, true
	case token.QUOTIENT_ASSIGN:
		return token.SLASH, true
	case token.REMAINDER_ASSIGN:
		return token.REMAINDER, true
	case token.AND_ASSIGN:
		return token.AND, true
	case token.OR_ASSIGN:
		return token.OR, true
	case token.EXCLUSIVE_OR_ASSIGN:
		return token.EXCLUSIVE_OR, true
	case token.SHIFT_LEFT_ASSIGN:
		return token.SHIFT_LEFT, true
	case token.SHIFT_RIGHT_ASSIGN:
		return token.SHIFT_RIGHT, true
	case token.UNSIGNED_SHIFT_RIGHT_ASSIGN:
		return token.UNSIGNED_SHIFT_RIGHT, true
	default:
		return 0, false
	}
}

// addition implements spec.md §4.1's special-cased `+`: string
// concatenation if either primitive operand is a string, numeric
// addition otherwise.
func (interp *Interpreter) addition(left, right Value) (Value, error) {
	lp, err := interp.toPrimitive(left, "default")
	if err != nil {
		return nil, err
	}
	rp, err := interp.toPrimitive(right, "default")
	if err != nil {
		return nil, err
	}
	_, lIsStr := lp.(String)
	_, rIsStr := rp.(String)
	if lIsStr || rIsStr {
		ls, err := interp.toString(lp)
		if err != nil {
			return nil, err
		}
		rs, err := interp.toString(rp)
		if err != nil {
			return nil, err
		}
		return String(ls + rs), nil
	}
	ln, err := interp.toNumber(lp)
	if err != nil {
		return nil, err
	}
	rn, err := interp.toNumber(rp)
	if err != nil {
		return nil, err
	}
	return Number(ln + rn), nil
}

// arithmeticOp implements spec.md §4.1's numeric binary operators,
// including the bitwise/shift family which round-trips through
// to_int32/to_uint32.
func (interp *Interpreter) arithmeticOp(left, right Value, op token.Token) (Value, error) {
	switch op {
	case token.AND, token.OR, token.EXCLUSIVE_OR:
		l, err := interp.toInt32(left)
		if err != nil {
			return nil, err
		}
		r, err := interp.toInt32(right)
		if err != nil {
			return nil, err
		}
		switch op {
		case token.AND:
			return Number(float64(l & r)), nil
		case token.OR:
			return Number(float64(l | r)), nil
		default:
			return Number(float64(l ^ r)), nil
		}

	case token.SHIFT_LEFT, token.SHIFT_RIGHT, token.UNSIGNED_SHIFT_RIGHT:
		l, err := interp.toInt32(left)
		if err != nil {
			return nil, err
		}
		ru, err := interp.toUint32(right)
		if err != nil {
			return nil, err
		}
		shift := ru & 0x1f
		switch op {
		case token.SHIFT_LEFT:
			return Number(float64(l << shift)), nil
		case token.SHIFT_RIGHT:
			return Number(float64(l >> shift)), nil
		default:
			return Number(float64(uint32(l) >> shift)), nil
		}
	}

	ln, err := interp.toNumber(left)
	if err != nil {
		return nil, err
	}
	rn, err := interp.toNumber(right)
	if err != nil {
		return nil, err
	}
	switch op {
	case token.MINUS:
		return Number(ln - rn), nil
	case token.MULTIPLY:
		return Number(ln * rn), nil
	case token.SLASH:
		return Number(ln / rn), nil
	case token.REMAINDER:
		return Number(floatRemainder(ln, rn)), nil
	default:
		return nil, interp.notImplemented("arithmetic operator " + op.String())
	}
}

// floatRemainder implements the IEEE-754 remainder rules spec.md §4.1
// defers to for `%`. The NaN, infinity and zero cases are spelled out
// explicitly; each of them gives the same result math.Mod would.
func floatRemainder(n, d float64) float64 {
	if math.IsNaN(n) || math.IsNaN(d) || math.IsInf(n, 0) {
		return math.NaN()
	}
	if math.IsInf(d, 0) {
		return n
	}
	if d == 0 {
		return math.NaN()
	}
	if n == 0 {
		return n
	}
	return math.Mod(n, d)
}

// triCompare implements spec.md §4.1's three-way numeric comparator:
// -1 means "undefined" (a NaN was involved), 0 false, 1 true.
func triCompare(l, r float64) int {
	if math.IsNaN(l) || math.IsNaN(r) {
		return -1
	}
	if l == r {
		return 0
	}
	if l == math.Inf(1) {
		return 0
	} else if r == math.Inf(1) {
		return 1
	} else if r == math.Inf(-1) {
		return 0
	} else if l == math.Inf(-1) {
		return 1
	}
	if l < r {
		return 1
	}
	return 0
}

// relational implements spec.md §4.1's <, <=, > and >=, each built from
// triCompare so NaN involvement uniformly yields false rather than
// needing special-casing at every call site. String operands compare by
// codepoint order rather than being coerced to numbers, resolving
// spec.md's open question on string relational comparison the way
// ordinary lexicographic string comparison would.
func (interp *Interpreter) relational(left, right Value, op token.Token) (Value, error) {
	lp, err := interp.toPrimitive(left, HintNumber)
	if err != nil {
		return nil, err
	}
	rp, err := interp.toPrimitive(right, HintNumber)
	if err != nil {
		return nil, err
	}
	ls, lIsStr := lp.(String)
	rs, rIsStr := rp.(String)
	if lIsStr && rIsStr {
		switch op {
		case token.LESS:
			return boolValue(ls < rs), nil
		case token.LESS_OR_EQUAL:
			return boolValue(ls <= rs), nil
		case token.GREATER:
			return boolValue(ls > rs), nil
		default:
			return boolValue(ls >= rs), nil
		}
	}

	ln, err := interp.toNumber(lp)
	if err != nil {
		return nil, err
	}
	rn, err := interp.toNumber(rp)
	if err != nil {
		return nil, err
	}
	var res int
	switch op {
	case token.LESS:
		res = triCompare(ln, rn)
		return boolValue(res == 1), nil
	case token.LESS_OR_EQUAL:
		res = triCompare(rn, ln)
		return boolValue(res == 0), nil
	case token.GREATER:
		res = triCompare(rn, ln)
		return boolValue(res == 1), nil
	default:
		res = triCompare(ln, rn)
		return boolValue(res == 0), nil
	}
}

// strictEqual implements spec.md §4.1's ===: same category required,
// NaN never equal to itself, +0/-0 equal, object identity for objects.
func strictEqual(left, right Value) bool {
	if left.Category() != right.Category() {
		return false
	}
	switch l := left.(type) {
	case Undefined, Null:
		return true
	case Boolean:
		r := right.(Boolean)
		return l == r
	case Number:
		r := float64(right.(Number))
		lf := float64(l)
		if math.IsNaN(lf) || math.IsNaN(r) {
			return false
		}
		return lf == r
	case String:
		return l == right.(String)
	case ObjectValue:
		return l.Object == right.(ObjectValue).Object
	default:
		return false
	}
}

// looseEqual implements spec.md §4.1's ==, including the cross-type
// coercions to null/undefined, number/string, and boolean/anything.
func (interp *Interpreter) looseEqual(left, right Value) (bool, error) {
	if left.Category() == right.Category() {
		return strictEqual(left, right), nil
	}
	lCat, rCat := left.Category(), right.Category()

	isNullish := func(c Category) bool { return c == CategoryUndefined || c == CategoryNull }
	if isNullish(lCat) && isNullish(rCat) {
		return true, nil
	}
	if isNullish(lCat) || isNullish(rCat) {
		return false, nil
	}

	if lCat == CategoryNumber && rCat == CategoryString {
		rn, err := interp.toNumber(right)
		if err != nil {
			return false, err
		}
		return interp.looseEqual(left, Number(rn))
	}
	if lCat == CategoryString && rCat == CategoryNumber {
		ln, err := interp.toNumber(left)
		if err != nil {
			return false, err
		}
		return interp.looseEqual(Number(ln), right)
	}
	if lCat == CategoryBoolean {
		ln, err := interp.toNumber(left)
		if err != nil {
			return false, err
		}
		return interp.looseEqual(Number(ln), right)
	}
	if rCat == CategoryBoolean {
		rn, err := interp.toNumber(right)
		if err != nil {
			return false, err
		}
		return interp.looseEqual(left, Number(rn))
	}
	if (lCat == CategoryNumber || lCat == CategoryString) && rCat == CategoryObject {
		rp, err := interp.toPrimitive(right, "default")
		if err != nil {
			return false, err
		}
		return interp.looseEqual(left, rp)
	}
	if (rCat == CategoryNumber || rCat == CategoryString) && lCat == CategoryObject {
		lp, err := interp.toPrimitive(left, "default")
		if err != nil {
			return false, err
		}
		return interp.looseEqual(lp, right)
	}
	return false, nil
}

// instanceOf implements spec.md §4.2's instanceof: walk the object's
// prototype chain looking for the constructor's "prototype" property.
func (interp *Interpreter) instanceOf(left, right Value) (Value, error) {
	rightObj, ok := right.(ObjectValue)
	if !ok || rightObj.Object.ConstructThunk == nil {
		return nil, interp.newError(TypeError, "right-hand side of instanceof is not callable")
	}
	protoVal, _ := rightObj.Object.GetOwnProperty("prototype")
	soughtProto, ok := protoVal.(ObjectValue)
	if !ok {
		return boolValue(false), nil
	}
	leftObj, ok := left.(ObjectValue)
	if !ok {
		return boolValue(false), nil
	}
	for cur := leftObj.Object.Prototype; cur != nil; cur = cur.Prototype {
		if cur == soughtProto.Object {
			return boolValue(true), nil
		}
	}
	return boolValue(false), nil
}
