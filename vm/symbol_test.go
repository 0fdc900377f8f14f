package vm

import "testing"

func TestSymbolInterning(t *testing.T) {
	st := NewSymbolTable()

	a := st.Intern("foo")
	b := st.Intern("foo")
	c := st.Intern("bar")

	if a != b {
		t.Errorf("Intern(foo) twice gave %d and %d, want identical", a, b)
	}
	if a == c {
		t.Error("foo and bar interned to the same ID")
	}
	if st.Len() != 2 {
		t.Errorf("Len = %d, want 2", st.Len())
	}
}

func TestSymbolValueIdentity(t *testing.T) {
	st := NewSymbolTable()

	// Interned symbols compare by bit identity, replacing text comparison.
	if st.SymbolValue("head") != st.SymbolValue("head") {
		t.Error("same spelling must yield identical symbol values")
	}
	if st.SymbolValue("head") == st.SymbolValue("tail") {
		t.Error("distinct spellings must yield distinct symbol values")
	}
}

func TestSymbolName(t *testing.T) {
	st := NewSymbolTable()
	id := st.Intern("quux")
	if got := st.Name(id); got != "quux" {
		t.Errorf("Name(%d) = %q, want quux", id, got)
	}
	if got := st.Name(9999); got != "" {
		t.Errorf("Name of unknown ID = %q, want empty", got)
	}
}

func TestSymbolLookupDoesNotIntern(t *testing.T) {
	st := NewSymbolTable()
	if _, ok := st.Lookup("missing"); ok {
		t.Error("Lookup found a symbol that was never interned")
	}
	if st.Len() != 0 {
		t.Error("Lookup must not create entries")
	}
}
