package mjs

import (
	"math"
	"testing"
)

func TestToBoolean(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", Undefined{}, false},
		{"null", Null{}, false},
		{"zero", Number(0), false},
		{"negativeZero", Number(math.Copysign(0, -1)), false},
		{"nan", Number(math.NaN()), false},
		{"nonZero", Number(1), true},
		{"emptyString", String(""), false},
		{"nonEmptyString", String("a"), true},
		{"object", ObjectValue{Object: NewObject("Object", nil)}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := toBoolean(c.v); got != c.want {
				t.Errorf("toBoolean(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestStringToNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0},
		{"whitespace", "   ", 0},
		{"integer", "42", 42},
		{"leadingTrailingSpace", "  42  ", 42},
		{"float", "3.5", 3.5},
		{"hex", "0x2a", 42},
		{"garbage", "abc", math.NaN()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := stringToNumber(c.in)
			if math.IsNaN(c.want) {
				if !math.IsNaN(got) {
					t.Errorf("stringToNumber(%q) = %v, want NaN", c.in, got)
				}
				return
			}
			if got != c.want {
				t.Errorf("stringToNumber(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestNumberToString(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"nan", math.NaN(), "NaN"},
		{"posInf", math.Inf(1), "Infinity"},
		{"negInf", math.Inf(-1), "-Infinity"},
		{"zero", 0, "0"},
		{"integer", 42, "42"},
		{"negativeInteger", -7, "-7"},
		{"fraction", 1.5, "1.5"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := numberToString(c.in); got != c.want {
				t.Errorf("numberToString(%v) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestToInt32AndUint32(t *testing.T) {
	interp := NewInterpreter()

	i32, err := interp.toInt32(Number(4294967296 + 5))
	if err != nil {
		t.Fatalf("toInt32 error: %s", err)
	}
	if i32 != 5 {
		t.Errorf("toInt32(2^32+5) = %d, want 5", i32)
	}

	u32, err := interp.toUint32(Number(-1))
	if err != nil {
		t.Fatalf("toUint32 error: %s", err)
	}
	if u32 != 4294967295 {
		t.Errorf("toUint32(-1) = %d, want 4294967295", u32)
	}
}

func TestCoerceToObjectRejectsNullish(t *testing.T) {
	interp := NewInterpreter()
	if _, err := interp.coerceToObject(Undefined{}); err == nil {
		t.Fatal("expected an error boxing undefined")
	}
	if _, err := interp.coerceToObject(Null{}); err == nil {
		t.Fatal("expected an error boxing null")
	}
}

func TestToPrimitivePrefersValueOfForNumberHint(t *testing.T) {
	interp := NewInterpreter()
	obj := NewObject("Object", nil)
	obj.PutAttr("valueOf", ObjectValue{Object: MakeNativeFunction("valueOf", 0,
		func(interp *Interpreter, this Value, args []Value) (Value, error) {
			return Number(7), nil
		})}, 0)
	obj.PutAttr("toString", ObjectValue{Object: MakeNativeFunction("toString", 0,
		func(interp *Interpreter, this Value, args []Value) (Value, error) {
			return String("wrong"), nil
		})}, 0)

	got, err := interp.toPrimitive(ObjectValue{Object: obj}, HintNumber)
	if err != nil {
		t.Fatalf("toPrimitive error: %s", err)
	}
	if got != Number(7) {
		t.Errorf("toPrimitive(number hint) = %v, want 7", got)
	}
}
