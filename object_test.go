package mjs

import "testing"

func TestGetWalksPrototypeChain(t *testing.T) {
	base := NewObject("Object", nil)
	base.PutAttr("x", Number(1), 0)
	derived := NewObject("Object", base)

	if got := derived.Get("x"); got != Number(1) {
		t.Errorf("Get through prototype chain = %v, want 1", got)
	}
	if derived.HasOwnProperty("x") {
		t.Error("x should not be an own property of derived")
	}
	if !derived.HasProperty("x") {
		t.Error("HasProperty should see x through the prototype chain")
	}
}

func TestPutHonorsReadOnly(t *testing.T) {
	obj := NewObject("Object", nil)
	obj.PutAttr("x", Number(1), ReadOnly)
	obj.Put("x", Number(2))
	if got := obj.Get("x"); got != Number(1) {
		t.Errorf("ReadOnly property changed: got %v, want 1", got)
	}
}

func TestDeleteHonorsDontDelete(t *testing.T) {
	obj := NewObject("Object", nil)
	obj.PutAttr("x", Number(1), DontDelete)
	if obj.Delete("x") {
		t.Error("Delete should report false for a DontDelete property")
	}
	if !obj.HasOwnProperty("x") {
		t.Error("DontDelete property should still be present")
	}

	obj.PutAttr("y", Number(2), 0)
	if !obj.Delete("y") {
		t.Error("Delete should report true for an ordinary property")
	}
	if obj.HasOwnProperty("y") {
		t.Error("deleted property should be gone")
	}
}

func TestOwnPropertyNamesExcludesDontEnumAndPreservesOrder(t *testing.T) {
	obj := NewObject("Object", nil)
	obj.PutAttr("a", Number(1), 0)
	obj.PutAttr("hidden", Number(2), DontEnum)
	obj.PutAttr("b", Number(3), 0)

	names := obj.OwnPropertyNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("OwnPropertyNames = %v, want [a b]", names)
	}
}

func TestIsCallable(t *testing.T) {
	plain := NewObject("Object", nil)
	if plain.IsCallable() {
		t.Error("plain object should not be callable")
	}
	fn := MakeNativeFunction("f", 0, func(*Interpreter, Value, []Value) (Value, error) { return undefined, nil })
	if !fn.IsCallable() {
		t.Error("native function object should be callable")
	}
}
