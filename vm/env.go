package vm

// Environments are built out of pairs, not a dedicated struct: one scope
// is the pair (bindingList . parentScope), and each binding is the pair
// (key . value) with a symbol key. Lookup scans scopes innermost to
// outermost and, within a scope, bindings front to back — so the first
// symbol-identity match wins.

// NewScope creates an empty scope whose parent is parent (Nil for the
// outermost scope).
func (vm *VM) NewScope(parent Value) Value {
	return vm.Cons(Nil, parent)
}

// Define prepends a fresh (key . value) binding to scope's binding list.
// It never mutates an existing binding: multiple bindings for the same
// symbol may coexist within a scope, and lookup returns the most
// recently defined one.
func (vm *VM) Define(scope, key, value Value) {
	binding := vm.Cons(key, value)
	vm.SetHead(scope, vm.Cons(binding, vm.Head(scope)))
}

// LookupEnv resolves key in the scope chain rooted at scope. The second
// result is false when no binding exists; the caller decides how to
// diagnose the miss.
func (vm *VM) LookupEnv(scope, key Value) (Value, bool) {
	for vm.IsPair(scope) {
		for bindings := vm.Head(scope); vm.IsPair(bindings); bindings = vm.Tail(bindings) {
			binding := vm.Head(bindings)
			// Symbol interning makes identity comparison sufficient.
			if vm.Head(binding) == key {
				return vm.Tail(binding), true
			}
		}
		scope = vm.Tail(scope)
	}
	return Nil, false
}

// SetEnv rebinds the most recent binding for key, walking the chain like
// LookupEnv. Returns false when key is unbound anywhere.
func (vm *VM) SetEnv(scope, key, value Value) bool {
	for vm.IsPair(scope) {
		for bindings := vm.Head(scope); vm.IsPair(bindings); bindings = vm.Tail(bindings) {
			binding := vm.Head(bindings)
			if vm.Head(binding) == key {
				vm.SetTail(binding, value)
				return true
			}
		}
		scope = vm.Tail(scope)
	}
	return false
}
