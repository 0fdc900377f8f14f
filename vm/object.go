package vm

import (
	"unsafe"
)

// Object represents a heap-allocated Rill object.
//
// The first logical field of every heap record is its class, which makes
// objects self-describing: dispatch, printing and reflection all start
// from the class pointer. Objects are never relocated, so a NaN-boxed
// pointer to one stays valid for its lifetime. Reclamation is delegated
// to the host Go collector; because the pointer bits hidden inside a
// Value are invisible to the Go GC, every live object is also registered
// in the VM's keep-alive set (see VM.retain).
//
// Objects use a hybrid slot layout: two inline slots for the common case
// (a pair is exactly two slots) and an overflow slice for larger records.
type Object struct {
	class *Class

	slot0 Value
	slot1 Value

	// Overflow for objects with more than two slots.
	overflow []Value
}

// NumInlineSlots is the number of slots stored directly in the Object struct.
const NumInlineSlots = 2

// NewObject creates a new Object with the given class and slot count.
// All slots are initialized to Nil. Callers normally go through
// VM.NewInstance so the object is retained.
func NewObject(class *Class, numSlots int) *Object {
	obj := &Object{class: class, slot0: Nil, slot1: Nil}
	if numSlots > NumInlineSlots {
		obj.overflow = make([]Value, numSlots-NumInlineSlots)
		for i := range obj.overflow {
			obj.overflow[i] = Nil
		}
	}
	return obj
}

// ---------------------------------------------------------------------------
// Slot access
// ---------------------------------------------------------------------------

// GetSlot returns the value at the given slot index.
// Panics if index is out of range.
func (obj *Object) GetSlot(index int) Value {
	switch index {
	case 0:
		return obj.slot0
	case 1:
		return obj.slot1
	default:
		overflowIdx := index - NumInlineSlots
		if overflowIdx < 0 || overflowIdx >= len(obj.overflow) {
			panic("Object.GetSlot: index out of range")
		}
		return obj.overflow[overflowIdx]
	}
}

// SetSlot sets the value at the given slot index.
// Panics if index is out of range.
func (obj *Object) SetSlot(index int, value Value) {
	switch index {
	case 0:
		obj.slot0 = value
	case 1:
		obj.slot1 = value
	default:
		overflowIdx := index - NumInlineSlots
		if overflowIdx < 0 || overflowIdx >= len(obj.overflow) {
			panic("Object.SetSlot: index out of range")
		}
		obj.overflow[overflowIdx] = value
	}
}

// NumSlots returns the total number of slots in this object.
func (obj *Object) NumSlots() int {
	return NumInlineSlots + len(obj.overflow)
}

// Class returns the object's class.
func (obj *Object) Class() *Class {
	return obj.class
}

// ---------------------------------------------------------------------------
// Value conversion helpers
// ---------------------------------------------------------------------------

// ToValue converts an Object pointer to a NaN-boxed Value.
func (obj *Object) ToValue() Value {
	return FromObjectPtr(unsafe.Pointer(obj))
}

// ObjectFromValue extracts an Object pointer from a NaN-boxed Value.
// Returns nil if the value is not an object.
func ObjectFromValue(v Value) *Object {
	if !v.IsObject() {
		return nil
	}
	return (*Object)(v.ObjectPtr())
}

// MustObjectFromValue extracts an Object pointer from a NaN-boxed Value.
// Panics if the value is not an object.
func MustObjectFromValue(v Value) *Object {
	if !v.IsObject() {
		panic("MustObjectFromValue: not an object")
	}
	return (*Object)(v.ObjectPtr())
}

// ClassName returns the name of the object's class, or "?" if class is nil.
func (obj *Object) ClassName() string {
	if obj.class == nil {
		return "?"
	}
	return obj.class.Name
}
