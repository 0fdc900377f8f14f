package vm

// Boolean primitives. Conditionals are messages: the receiver's class
// (True or False) selects the branch, so no conditional opcode exists.

func (vm *VM) installBooleanPrimitives() {
	vm.install(vm.BooleanClass, "not", NewPrimitive0("not", func(vm *VM, r Value) Value {
		return FromBool(r == False)
	}))
	vm.install(vm.BooleanClass, "&", NewPrimitive1("&", func(vm *VM, r, arg Value) Value {
		return FromBool(r == True && arg == True)
	}))
	vm.install(vm.BooleanClass, "|", NewPrimitive1("|", func(vm *VM, r, arg Value) Value {
		return FromBool(r == True || arg == True)
	}))

	// then:else: evaluates nothing; both operands arrive as values.
	// The class of the receiver does the selecting.
	vm.install(vm.TrueClass, "then:else:", NewPrimitive2("then:else:", func(vm *VM, r, a, b Value) Value {
		return a
	}))
	vm.install(vm.FalseClass, "then:else:", NewPrimitive2("then:else:", func(vm *VM, r, a, b Value) Value {
		return b
	}))
}
