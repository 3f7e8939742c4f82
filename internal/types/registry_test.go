package types

import (
	"testing"

	"keel/internal/loadlevel"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	id, err := r.Register("Object", KindClass)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == NoTypeID {
		t.Fatalf("got sentinel id")
	}
	d, ok := r.Lookup(id)
	if !ok || d.Name != "Object" || d.Kind != KindClass {
		t.Fatalf("lookup = %+v, ok=%v", d, ok)
	}
	if d.Level != loadlevel.LevelUnloaded {
		t.Fatalf("fresh type must start unloaded, got %v", d.Level)
	}
	if _, err := r.Register("Object", KindClass); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
}

func TestNameNormalization(t *testing.T) {
	r := NewRegistry()
	// U+00E9 vs e + combining acute: same canonical name.
	composed := "Café"
	decomposed := "Café"
	id, err := r.Register(composed, KindClass)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, ok := r.ByName(decomposed)
	if !ok || got != id {
		t.Fatalf("decomposed lookup = %v, ok=%v, want %v", got, ok, id)
	}
	if _, err := r.Register(decomposed, KindClass); err == nil {
		t.Fatalf("canonically equal names must collide")
	}
}

func TestArrayDerivationDeduplicates(t *testing.T) {
	r := NewRegistry()
	elem, _ := r.Register("Char", KindValue)
	a1, err := r.ArrayOf(elem)
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	a2, _ := r.ArrayOf(elem)
	if a1 != a2 {
		t.Fatalf("array types must be deduplicated")
	}
	d := r.MustLookup(a1)
	if d.Kind != KindArray || d.Elem != elem || d.Name != "Char[]" {
		t.Fatalf("array def = %+v", d)
	}
	if _, err := r.ArrayOf(NoTypeID); err == nil {
		t.Fatalf("array over sentinel must fail")
	}
}

func TestSetLevelIsMonotone(t *testing.T) {
	r := NewRegistry()
	id, _ := r.Register("String", KindClass)
	r.SetLevel(id, loadlevel.LevelExactParents)
	r.SetLevel(id, loadlevel.LevelCreated) // backwards, ignored
	if got := r.LevelOf(id); got != loadlevel.LevelExactParents {
		t.Fatalf("level = %v, want exact-parents", got)
	}
}
