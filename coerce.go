package mjs

import (
	"math"
	"strconv"
	"strings"
)

// toBoolean implements spec.md §4.1's to_boolean: false for undefined,
// null, +0, -0, NaN and "", true for everything else including every
// object.
func toBoolean(v Value) bool {
	switch t := v.(type) {
	case Undefined:
		return false
	case Null:
		return false
	case Boolean:
		return bool(t)
	case Number:
		f := float64(t)
		return f != 0 && !math.IsNaN(f)
	case String:
		return len(t) != 0
	case ObjectValue:
		return true
	default:
		return false
	}
}

// ToBoolean is the exported form of toBoolean, for the builtins
// collaborator's own coercion needs (e.g. the Boolean wrapper
// constructor) per spec.md §6's external interface.
func ToBoolean(v Value) bool { return toBoolean(v) }

// ToNumberValue, ToStringValue and ToInt32Value are the exported forms of
// this file's to_number/to_string/to_int32, used by the builtins
// collaborator so it never needs package-internal access to raise the
// same coercion errors the evaluator itself raises.
func (interp *Interpreter) ToNumberValue(v Value) (float64, error) { return interp.toNumber(v) }
func (interp *Interpreter) ToStringValue(v Value) (string, error)  { return interp.toString(v) }
func (interp *Interpreter) ToInt32Value(v Value) (int32, error)    { return interp.toInt32(v) }

// ToObjectValue is the exported form of coerceToObject, used by the
// builtins collaborator's Object() constructor to convert a value exactly
// the way member access converts its receiver (so primitives are not
// boxed here either).
func (interp *Interpreter) ToObjectValue(v Value) (*Object, error) { return interp.coerceToObject(v) }

// HintNumber and HintString select the method order of to_primitive's
// [[DefaultValue]] (spec.md §4.1): valueOf-then-toString, or the
// reverse when a string result is preferred.
const (
	HintNumber = "number"
	HintString = "string"
)

// toPrimitive implements spec.md §4.1's to_primitive by calling the
// object's own valueOf/toString methods (in the order the hint
// prefers), exactly as [[DefaultValue]] is specified: the first method
// that both exists and returns a non-object value wins. Wrapper
// objects (Number, Boolean) get their primitive back this way because
// builtins installs a valueOf that reads InternalValue — the core
// package never special-cases wrapper objects itself. A plain value
// that is not an object passes through unchanged.
func (interp *Interpreter) toPrimitive(v Value, hint string) (Value, error) {
	obj, ok := v.(ObjectValue)
	if !ok {
		return v, nil
	}

	methodNames := [2]string{"valueOf", "toString"}
	if hint == HintString {
		methodNames = [2]string{"toString", "valueOf"}
	}

	for _, name := range methodNames {
		method, ok := obj.Object.Get(name).(ObjectValue)
		if !ok || !method.Object.IsCallable() {
			continue
		}
		result, err := method.Object.CallThunk(interp, v, nil)
		if err != nil {
			return nil, err
		}
		if _, isObj := result.(ObjectValue); !isObj {
			return result, nil
		}
	}
	return nil, interp.newError(TypeError, "cannot convert %s to a primitive value", obj.Object.ClassName)
}

// toNumber implements spec.md §4.1's to_number.
func (interp *Interpreter) toNumber(v Value) (float64, error) {
	prim, err := interp.toPrimitive(v, HintNumber)
	if err != nil {
		return 0, err
	}
	switch t := prim.(type) {
	case Undefined:
		return math.NaN(), nil
	case Null:
		return 0, nil
	case Boolean:
		if t {
			return 1, nil
		}
		return 0, nil
	case Number:
		return float64(t), nil
	case String:
		return stringToNumber(string(t)), nil
	default:
		return math.NaN(), nil
	}
}

// stringToNumber parses the numeric-literal grammar loosely, per
// spec.md §4.1: leading/trailing whitespace ignored, empty string is
// zero, anything unparseable is NaN.
func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// toString implements spec.md §4.1's to_string.
func (interp *Interpreter) toString(v Value) (string, error) {
	prim, err := interp.toPrimitive(v, HintString)
	if err != nil {
		return "", err
	}
	switch t := prim.(type) {
	case Undefined:
		return "undefined", nil
	case Null:
		return "null", nil
	case Boolean:
		return t.String(), nil
	case Number:
		return numberToString(float64(t)), nil
	case String:
		return string(t), nil
	default:
		return prim.String(), nil
	}
}

// numberToString implements spec.md §4.1's number-to-string rules for
// the common cases: the special values, integers printed without a
// decimal point, and everything else via the shortest round-tripping
// decimal (Go's 'g' formatting with -1 precision). Non-decimal radices
// (Number.prototype.toString(radix)) are not part of this conversion;
// spec.md's open question on that point is resolved in DESIGN.md by not
// implementing it.
func numberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// toInt32 implements spec.md §4.1's to_int32, used by the bitwise and
// shift operators.
func (interp *Interpreter) toInt32(v Value) (int32, error) {
	f, err := interp.toNumber(v)
	if err != nil {
		return 0, err
	}
	return float64ToInt32(f), nil
}

// toUint32 implements spec.md §4.1's to_uint32.
func (interp *Interpreter) toUint32(v Value) (uint32, error) {
	f, err := interp.toNumber(v)
	if err != nil {
		return 0, err
	}
	return float64ToUint32(f), nil
}

func float64ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

func float64ToInt32(f float64) int32 {
	u := float64ToUint32(f)
	if u >= 1<<31 {
		return int32(int64(u) - (1 << 32))
	}
	return int32(u)
}

// coerceToObject implements the to_object step of member access:
// objects pass through and undefined/null raise TypeError. Primitives
// are not boxed: a boolean, number or string receiver raises
// NotImplemented rather than silently losing the member access.
func (interp *Interpreter) coerceToObject(v Value) (*Object, error) {
	switch t := v.(type) {
	case ObjectValue:
		return t.Object, nil
	case Undefined, Null:
		return nil, interp.newError(TypeError, "cannot convert %s to object", v.String())
	default:
		return nil, interp.notImplemented("boxing of primitive " + v.Category().String())
	}
}
