package vm

import "math"

// Float primitives. Floats follow IEEE 754: division by zero yields an
// infinity rather than a diagnostic, matching the underlying encoding.

func (vm *VM) installFloatPrimitives() {
	c := vm.FloatClass

	vm.install(c, "+", NewPrimitive1("+", primFloatArith(func(a, b float64) float64 { return a + b })))
	vm.install(c, "-", NewPrimitive1("-", primFloatArith(func(a, b float64) float64 { return a - b })))
	vm.install(c, "*", NewPrimitive1("*", primFloatArith(func(a, b float64) float64 { return a * b })))
	vm.install(c, "/", NewPrimitive1("/", primFloatArith(func(a, b float64) float64 { return a / b })))
	vm.install(c, "negate", NewPrimitive0("negate", func(vm *VM, r Value) Value {
		return FromFloat64(-r.Float64())
	}))

	vm.install(c, "<", NewPrimitive1("<", primFloatCompare(func(a, b float64) bool { return a < b })))
	vm.install(c, ">", NewPrimitive1(">", primFloatCompare(func(a, b float64) bool { return a > b })))
	vm.install(c, "<=", NewPrimitive1("<=", primFloatCompare(func(a, b float64) bool { return a <= b })))
	vm.install(c, ">=", NewPrimitive1(">=", primFloatCompare(func(a, b float64) bool { return a >= b })))
	vm.install(c, "=", NewPrimitive1("=", primNumEq))
	vm.install(c, "~=", NewPrimitive1("~=", primNumNe))

	vm.install(c, "floor", NewPrimitive0("floor", func(vm *VM, r Value) Value {
		return vm.checkedInt(int64(math.Floor(r.Float64())), "floor")
	}))
}

func primFloatArith(op func(a, b float64) float64) Primitive1Func {
	return func(vm *VM, r, arg Value) Value {
		if f, ok := numAsFloat(arg); ok {
			return FromFloat64(op(r.Float64(), f))
		}
		return vm.badOperand("float arithmetic", arg)
	}
}

func primFloatCompare(cmp func(a, b float64) bool) Primitive1Func {
	return func(vm *VM, r, arg Value) Value {
		if f, ok := numAsFloat(arg); ok {
			return FromBool(cmp(r.Float64(), f))
		}
		return vm.badOperand("float compare", arg)
	}
}
