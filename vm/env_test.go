package vm

import "testing"

func TestDefineAndLookup(t *testing.T) {
	vm := New()
	scope := vm.NewScope(Nil)
	key := vm.Symbols.SymbolValue("x")

	if _, ok := vm.LookupEnv(scope, key); ok {
		t.Fatal("lookup in empty scope should miss")
	}

	vm.Define(scope, key, FromInt(1))
	v, ok := vm.LookupEnv(scope, key)
	if !ok || v != FromInt(1) {
		t.Errorf("lookup = %v, %v; want 1, true", v, ok)
	}
}

func TestRedefineShadowsWithinScope(t *testing.T) {
	vm := New()
	scope := vm.NewScope(Nil)
	key := vm.Symbols.SymbolValue("x")

	vm.Define(scope, key, FromInt(1))
	vm.Define(scope, key, FromInt(2))

	// Both bindings coexist; the most recent one wins.
	if v, _ := vm.LookupEnv(scope, key); v != FromInt(2) {
		t.Errorf("lookup after redefine = %s, want 2", vm.Format(v))
	}
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	vm := New()
	outer := vm.NewScope(Nil)
	inner := vm.NewScope(outer)
	key := vm.Symbols.SymbolValue("x")

	vm.Define(outer, key, FromInt(1))
	if v, ok := vm.LookupEnv(inner, key); !ok || v != FromInt(1) {
		t.Error("inner scope should see outer binding")
	}

	vm.Define(inner, key, FromInt(2))
	if v, _ := vm.LookupEnv(inner, key); v != FromInt(2) {
		t.Error("inner binding must shadow outer")
	}
	if v, _ := vm.LookupEnv(outer, key); v != FromInt(1) {
		t.Error("outer binding must be unaffected")
	}
}

func TestLookupUsesSymbolIdentity(t *testing.T) {
	vm := New()
	scope := vm.NewScope(Nil)

	vm.Define(scope, vm.Symbols.SymbolValue("x"), FromInt(9))
	// The same spelling interned again is the same key.
	if v, ok := vm.LookupEnv(scope, vm.Symbols.SymbolValue("x")); !ok || v != FromInt(9) {
		t.Error("re-interned symbol must hit the same binding")
	}
	if _, ok := vm.LookupEnv(scope, vm.Symbols.SymbolValue("y")); ok {
		t.Error("different spelling must miss")
	}
}

func TestSetEnvRebinds(t *testing.T) {
	vm := New()
	outer := vm.NewScope(Nil)
	inner := vm.NewScope(outer)
	key := vm.Symbols.SymbolValue("x")

	if vm.SetEnv(inner, key, FromInt(1)) {
		t.Error("SetEnv on unbound key must fail")
	}

	vm.Define(outer, key, FromInt(1))
	if !vm.SetEnv(inner, key, FromInt(5)) {
		t.Fatal("SetEnv should find the outer binding")
	}
	if v, _ := vm.LookupEnv(outer, key); v != FromInt(5) {
		t.Error("SetEnv must mutate the binding in place")
	}
}
