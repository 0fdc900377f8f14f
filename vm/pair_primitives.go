package vm

// Pair primitives: cons-cell access plus list length.

func (vm *VM) installPairPrimitives() {
	c := vm.PairClass

	vm.install(c, "head", NewPrimitive0("head", func(vm *VM, r Value) Value {
		return vm.Head(r)
	}))
	vm.install(c, "tail", NewPrimitive0("tail", func(vm *VM, r Value) Value {
		return vm.Tail(r)
	}))
	vm.install(c, "setHead:", NewPrimitive1("setHead:", func(vm *VM, r, arg Value) Value {
		vm.SetHead(r, arg)
		return r
	}))
	vm.install(c, "setTail:", NewPrimitive1("setTail:", func(vm *VM, r, arg Value) Value {
		vm.SetTail(r, arg)
		return r
	}))
	vm.install(c, "length", NewPrimitive0("length", func(vm *VM, r Value) Value {
		return FromInt(int64(vm.ListLen(r)))
	}))

	// cons: is installed on Object so any value can start a list.
	vm.install(vm.ObjectClass, "cons:", NewPrimitive1("cons:", func(vm *VM, r, arg Value) Value {
		return vm.Cons(r, arg)
	}))
}
