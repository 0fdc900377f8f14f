package vm

import "testing"

// ---------------------------------------------------------------------------
// Resolution tests
// ---------------------------------------------------------------------------

func TestResolveWalksBaseChain(t *testing.T) {
	ct := NewClassTable()
	base := ct.Define("Base", NoClass)
	derived := ct.Define("Derived", base.ID)

	h := NewPrimitive0("speak", func(vm *VM, r Value) Value { return True })
	base.Install(1, h)

	if got := ct.Resolve(derived.ID, 1); got != h {
		t.Error("derived class should inherit the base handler")
	}
	if got := ct.Resolve(base.ID, 1); got != h {
		t.Error("base class should resolve its own handler")
	}
}

func TestResolveDerivedShadowsBase(t *testing.T) {
	ct := NewClassTable()
	base := ct.Define("Base", NoClass)
	derived := ct.Define("Derived", base.ID)

	baseH := NewPrimitive0("base", func(vm *VM, r Value) Value { return False })
	derivedH := NewPrimitive0("derived", func(vm *VM, r Value) Value { return True })
	base.Install(1, baseH)
	derived.Install(1, derivedH)

	if got := ct.Resolve(derived.ID, 1); got != derivedH {
		t.Error("derived handler must shadow the base handler")
	}
	if got := ct.Resolve(base.ID, 1); got != baseH {
		t.Error("base resolution must be unaffected by the derived install")
	}
}

func TestResolveNotUnderstood(t *testing.T) {
	ct := NewClassTable()
	c := ct.Define("Lonely", NoClass)

	if got := ct.Resolve(c.ID, 42); got != nil {
		t.Error("unhandled selector must resolve to nil")
	}
}

func TestInstallReplaces(t *testing.T) {
	ct := NewClassTable()
	c := ct.Define("C", NoClass)

	first := NewPrimitive0("first", func(vm *VM, r Value) Value { return False })
	second := NewPrimitive0("second", func(vm *VM, r Value) Value { return True })
	c.Install(5, first)
	c.Install(5, second)

	// The most recently installed handler wins.
	if got := c.OwnHandler(5); got != second {
		t.Error("reinstall must replace the earlier handler")
	}
	if len(c.Selectors()) != 1 {
		t.Errorf("Selectors() has %d entries, want 1", len(c.Selectors()))
	}
}

// ---------------------------------------------------------------------------
// Arena tests
// ---------------------------------------------------------------------------

func TestClassArenaIndexing(t *testing.T) {
	ct := NewClassTable()
	a := ct.Define("A", NoClass)
	b := ct.Define("B", a.ID)

	if ct.Get(a.ID) != a || ct.Get(b.ID) != b {
		t.Error("Get must return the class at its arena index")
	}
	if ct.Get(NoClass) != nil {
		t.Error("Get(NoClass) must be nil")
	}
	if ct.Get(ClassID(ct.Len())) != nil {
		t.Error("Get past the arena end must be nil")
	}
	if ct.LookupName("B") != b {
		t.Error("LookupName failed")
	}
	if ct.LookupName("Z") != nil {
		t.Error("LookupName of unknown name must be nil")
	}
}

func TestClassOfCoversEveryTag(t *testing.T) {
	vm := New()

	tests := []struct {
		v    Value
		want *Class
	}{
		{Nil, vm.UndefinedObjectClass},
		{True, vm.TrueClass},
		{False, vm.FalseClass},
		{FromInt(1), vm.IntegerClass},
		{FromFloat64(1.5), vm.FloatClass},
		{vm.Symbols.SymbolValue("x"), vm.SymbolClass},
		{FromFuncID(0), vm.FunctionClass},
		{FromClassID(uint32(vm.ObjectClass.ID)), vm.ClassClass},
		{vm.Cons(Nil, Nil), vm.PairClass},
	}

	for _, tt := range tests {
		if got := vm.ClassOf(tt.v); got != tt.want {
			t.Errorf("ClassOf(%s) = %s, want %s", vm.Format(tt.v), got.Name, tt.want.Name)
		}
	}
}
