package vm

// Integer primitives.
//
// Arithmetic results that leave the 48-bit payload range are checked
// failures: diagnostic plus nil, never a silent wrap. Mixed int/float
// operands coerce to float.

func (vm *VM) installIntegerPrimitives() {
	c := vm.IntegerClass

	vm.install(c, "+", NewPrimitive1("+", primIntAdd))
	vm.install(c, "-", NewPrimitive1("-", primIntSub))
	vm.install(c, "*", NewPrimitive1("*", primIntMul))
	vm.install(c, "/", NewPrimitive1("/", primIntDiv))
	vm.install(c, "%", NewPrimitive1("%", primIntMod))
	vm.install(c, "negate", NewPrimitive0("negate", primIntNegate))

	vm.install(c, "<", NewPrimitive1("<", primIntCompare(
		func(a, b int64) bool { return a < b },
		func(a, b float64) bool { return a < b })))
	vm.install(c, ">", NewPrimitive1(">", primIntCompare(
		func(a, b int64) bool { return a > b },
		func(a, b float64) bool { return a > b })))
	vm.install(c, "<=", NewPrimitive1("<=", primIntCompare(
		func(a, b int64) bool { return a <= b },
		func(a, b float64) bool { return a <= b })))
	vm.install(c, ">=", NewPrimitive1(">=", primIntCompare(
		func(a, b int64) bool { return a >= b },
		func(a, b float64) bool { return a >= b })))
	vm.install(c, "=", NewPrimitive1("=", primNumEq))
	vm.install(c, "~=", NewPrimitive1("~=", primNumNe))

	vm.install(c, "asFloat", NewPrimitive0("asFloat", func(vm *VM, r Value) Value {
		return FromFloat64(float64(r.Int()))
	}))
}

// checkedInt converts an arithmetic result, diagnosing overflow.
func (vm *VM) checkedInt(n int64, op string) Value {
	if v, ok := TryFromInt(n); ok {
		return v
	}
	vm.log.Warningf("integer overflow in %s: %d", op, n)
	return Nil
}

func primIntAdd(vm *VM, r, arg Value) Value {
	switch {
	case arg.IsInt():
		// 48-bit operands cannot overflow int64 addition; the range
		// check in checkedInt is the authoritative bound.
		return vm.checkedInt(r.Int()+arg.Int(), "+")
	case arg.IsFloat():
		return FromFloat64(float64(r.Int()) + arg.Float64())
	}
	return vm.badOperand("+", arg)
}

func primIntSub(vm *VM, r, arg Value) Value {
	switch {
	case arg.IsInt():
		return vm.checkedInt(r.Int()-arg.Int(), "-")
	case arg.IsFloat():
		return FromFloat64(float64(r.Int()) - arg.Float64())
	}
	return vm.badOperand("-", arg)
}

func primIntMul(vm *VM, r, arg Value) Value {
	switch {
	case arg.IsInt():
		a, b := r.Int(), arg.Int()
		product := a * b
		// 48-bit operands cannot overflow int64 multiplication unless
		// both magnitudes are large; the range check below is the
		// authoritative one since TryFromInt bounds the result.
		if a != 0 && product/a != b {
			vm.log.Warningf("integer overflow in *: %d * %d", a, b)
			return Nil
		}
		return vm.checkedInt(product, "*")
	case arg.IsFloat():
		return FromFloat64(float64(r.Int()) * arg.Float64())
	}
	return vm.badOperand("*", arg)
}

func primIntDiv(vm *VM, r, arg Value) Value {
	switch {
	case arg.IsInt():
		if arg.Int() == 0 {
			vm.log.Warningf("division by zero: %d / 0", r.Int())
			return Nil
		}
		return vm.checkedInt(r.Int()/arg.Int(), "/")
	case arg.IsFloat():
		return FromFloat64(float64(r.Int()) / arg.Float64())
	}
	return vm.badOperand("/", arg)
}

func primIntMod(vm *VM, r, arg Value) Value {
	if arg.IsInt() {
		if arg.Int() == 0 {
			vm.log.Warningf("division by zero: %d %% 0", r.Int())
			return Nil
		}
		return vm.checkedInt(r.Int()%arg.Int(), "%")
	}
	return vm.badOperand("%", arg)
}

func primIntNegate(vm *VM, r Value) Value {
	return vm.checkedInt(-r.Int(), "negate")
}

func primIntCompare(cmpInt func(a, b int64) bool, cmpFloat func(a, b float64) bool) Primitive1Func {
	return func(vm *VM, r, arg Value) Value {
		switch {
		case arg.IsInt():
			return FromBool(cmpInt(r.Int(), arg.Int()))
		case arg.IsFloat():
			return FromBool(cmpFloat(float64(r.Int()), arg.Float64()))
		}
		return vm.badOperand("compare", arg)
	}
}

// primNumEq is structural numeric equality, a relation layered above
// identity: 3 = 3.0 holds even though the two are not identical.
func primNumEq(vm *VM, r, arg Value) Value {
	return FromBool(numericEqual(r, arg))
}

func primNumNe(vm *VM, r, arg Value) Value {
	return FromBool(!numericEqual(r, arg))
}

func numericEqual(a, b Value) bool {
	if a == b {
		return true
	}
	af, aok := numAsFloat(a)
	bf, bok := numAsFloat(b)
	return aok && bok && af == bf
}

func numAsFloat(v Value) (float64, bool) {
	switch {
	case v.IsInt():
		return float64(v.Int()), true
	case v.IsFloat():
		return v.Float64(), true
	}
	return 0, false
}

// badOperand diagnoses a primitive applied to an unsupported operand.
func (vm *VM) badOperand(op string, arg Value) Value {
	vm.log.Warningf("%s: unsupported operand %s", op, vm.Format(arg))
	return Nil
}
