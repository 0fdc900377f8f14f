package vm

// installPrimitives wires the native handler suites onto the bootstrap
// classes. This runs once during VM construction; handler maps are
// read-only afterwards.
func (vm *VM) installPrimitives() {
	vm.installObjectPrimitives()
	vm.installBooleanPrimitives()
	vm.installIntegerPrimitives()
	vm.installFloatPrimitives()
	vm.installPairPrimitives()
	vm.installSymbolPrimitives()
}

// install binds a primitive under a selector on class c.
func (vm *VM) install(c *Class, selector string, h Handler) {
	c.Install(vm.Symbols.Intern(selector), h)
}
