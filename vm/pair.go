package vm

// Pairs are heap objects of class Pair with exactly two slots: head and
// tail. They do double duty as list cons-cells and, when read as
// (key . value), as environment bindings; a pair of
// (bindingList . parentScope) forms one lexical scope frame.

const (
	pairHeadSlot = 0
	pairTailSlot = 1
)

// Cons allocates a new pair. The object is retained so the Go collector
// cannot reclaim it while only NaN-boxed handles reference it.
func (vm *VM) Cons(head, tail Value) Value {
	obj := NewObject(vm.PairClass, 2)
	obj.SetSlot(pairHeadSlot, head)
	obj.SetSlot(pairTailSlot, tail)
	vm.retain(obj)
	return obj.ToValue()
}

// IsPair reports whether v is a pair object.
func (vm *VM) IsPair(v Value) bool {
	obj := ObjectFromValue(v)
	return obj != nil && obj.Class() == vm.PairClass
}

// Head returns the head of a pair, or Nil if v is not a pair.
func (vm *VM) Head(v Value) Value {
	if obj := ObjectFromValue(v); obj != nil && obj.Class() == vm.PairClass {
		return obj.GetSlot(pairHeadSlot)
	}
	return Nil
}

// Tail returns the tail of a pair, or Nil if v is not a pair.
func (vm *VM) Tail(v Value) Value {
	if obj := ObjectFromValue(v); obj != nil && obj.Class() == vm.PairClass {
		return obj.GetSlot(pairTailSlot)
	}
	return Nil
}

// SetHead stores into the head slot of a pair. No-op for non-pairs.
func (vm *VM) SetHead(v, head Value) {
	if obj := ObjectFromValue(v); obj != nil && obj.Class() == vm.PairClass {
		obj.SetSlot(pairHeadSlot, head)
	}
}

// SetTail stores into the tail slot of a pair. No-op for non-pairs.
func (vm *VM) SetTail(v, tail Value) {
	if obj := ObjectFromValue(v); obj != nil && obj.Class() == vm.PairClass {
		obj.SetSlot(pairTailSlot, tail)
	}
}

// List builds a nil-terminated list from values.
func (vm *VM) List(values ...Value) Value {
	result := Nil
	for i := len(values) - 1; i >= 0; i-- {
		result = vm.Cons(values[i], result)
	}
	return result
}

// ListLen returns the length of a nil-terminated list. Improper tails
// stop the count.
func (vm *VM) ListLen(v Value) int {
	n := 0
	for vm.IsPair(v) {
		n++
		v = vm.Tail(v)
	}
	return n
}
