package vm

import "fmt"

// Object primitives: the protocol every value inherits. Handlers here
// are shadowed by any derived class installing the same selector.

func (vm *VM) installObjectPrimitives() {
	c := vm.ObjectClass

	// Identity, the bedrock relation: bit/pointer identity only.
	vm.install(c, "==", NewPrimitive1("==", func(vm *VM, r, arg Value) Value {
		return FromBool(r == arg)
	}))
	vm.install(c, "~~", NewPrimitive1("~~", func(vm *VM, r, arg Value) Value {
		return FromBool(r != arg)
	}))

	// Structural equality defaults to identity; numeric classes override.
	vm.install(c, "=", NewPrimitive1("=", func(vm *VM, r, arg Value) Value {
		return FromBool(r == arg)
	}))
	vm.install(c, "~=", NewPrimitive1("~=", func(vm *VM, r, arg Value) Value {
		return FromBool(r != arg)
	}))

	vm.install(c, "class", NewPrimitive0("class", func(vm *VM, r Value) Value {
		return FromClassID(uint32(vm.ClassOf(r).ID))
	}))
	vm.install(c, "isNil", NewPrimitive0("isNil", func(vm *VM, r Value) Value {
		return FromBool(r == Nil)
	}))
	vm.install(c, "print", NewPrimitive0("print", func(vm *VM, r Value) Value {
		fmt.Println(vm.Format(r))
		return r
	}))
}
