package vm

// Symbol primitives. Interning makes identity the whole story; the only
// extra protocol a symbol needs is resolving itself as a global name.

func (vm *VM) installSymbolPrimitives() {
	c := vm.SymbolClass

	vm.install(c, "value", NewPrimitive0("value", func(vm *VM, r Value) Value {
		if v, ok := vm.LookupEnv(vm.thread.globals, r); ok {
			return v
		}
		vm.log.Warningf("undefined identifier: %s", vm.Symbols.Name(r.SymbolID()))
		return Nil
	}))
}
