package vm

import (
	"math"
	"unsafe"
)

// Value represents a Rill value using NaN-boxing.
//
// All values are represented as 64-bit IEEE 754 doubles. Non-float values
// are encoded in the NaN (Not-a-Number) space using the quiet NaN prefix
// and tag bits to distinguish types.
//
// Encoding scheme:
//   - Float: native IEEE 754 double (if not a NaN, it's a float)
//   - Int: quiet NaN + tagInt + 48-bit signed payload
//   - Object: quiet NaN + tagObject + 48-bit pointer
//   - Symbol: quiet NaN + tagSymbol + symbol ID
//   - Func: quiet NaN + tagFunc + function registry ID
//   - Class: quiet NaN + tagClass + class arena index
//   - Special: quiet NaN + tagSpecial + second-level ID (nil/true/false)
//
// The three direct tag bits address six kinds; the special tag opens a
// second-level ID space so a bounded set of tag bits can carry a larger
// enumeration of scalar singletons.
//
// Identity is bit identity: two Values are identical iff their uint64 bits
// are equal, which holds exactly when their tags match and either their
// payload bits or their object pointers match. Structural equality (the
// `=` message) is layered above in the primitives and is a different
// relation.
type Value uint64

// NaN-boxing constants
const (
	// Quiet NaN prefix: exponent all 1s, quiet bit set, sign bit 0
	nanBits uint64 = 0x7FF8000000000000

	// Tag mask: 3 bits within the NaN mantissa space
	tagMask uint64 = 0x0007000000000000

	// Payload mask: 48 bits for pointer/int/id
	payloadMask uint64 = 0x0000FFFFFFFFFFFF

	// Tag values (shifted into position)
	tagObject  uint64 = 0x0001000000000000 // heap object pointer
	tagInt     uint64 = 0x0002000000000000 // 48-bit signed integer
	tagSpecial uint64 = 0x0003000000000000 // nil, true, false
	tagSymbol  uint64 = 0x0004000000000000 // interned symbol ID
	tagFunc    uint64 = 0x0005000000000000 // compiled function ID
	tagClass   uint64 = 0x0006000000000000 // class arena index

	// Sign bit for 48-bit integer sign extension
	intSignBit uint64 = 0x0000800000000000

	// Mask for sign extension
	intSignExtend uint64 = 0xFFFF000000000000
)

// Second-level IDs in the special tag space.
const (
	specialNil   uint64 = 0
	specialTrue  uint64 = 1
	specialFalse uint64 = 2
)

// Canonical singletons. These constants are the only nil, true and false
// in the system; they are never reconstructed.
const (
	Nil   Value = Value(nanBits | tagSpecial | specialNil)
	True  Value = Value(nanBits | tagSpecial | specialTrue)
	False Value = Value(nanBits | tagSpecial | specialFalse)
)

// Int range (48-bit signed). Values outside this range are rejected,
// never wrapped.
const (
	MaxInt int64 = (1 << 47) - 1
	MinInt int64 = -(1 << 47)
)

// Tag enumerates the interpretation of a Value, derived from its bits.
type Tag int

const (
	TagFloat Tag = iota
	TagInt
	TagObject
	TagSymbol
	TagFunc
	TagClass
	TagNil
	TagTrue
	TagFalse
	TagUnknown // tagged NaN with an unassigned tag or special ID
)

// TagOf returns the tag describing how v is interpreted.
func (v Value) TagOf() Tag {
	if v.IsFloat() {
		return TagFloat
	}
	switch uint64(v) & tagMask {
	case tagInt:
		return TagInt
	case tagObject:
		return TagObject
	case tagSymbol:
		return TagSymbol
	case tagFunc:
		return TagFunc
	case tagClass:
		return TagClass
	case tagSpecial:
		switch uint64(v) & payloadMask {
		case specialNil:
			return TagNil
		case specialTrue:
			return TagTrue
		case specialFalse:
			return TagFalse
		}
	}
	return TagUnknown
}

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// IsFloat returns true if v represents a float64 value.
// A value is a float if it's not one of our tagged NaN values.
// This includes regular numbers, infinities, and "real" NaN values.
func (v Value) IsFloat() bool {
	bits := uint64(v)

	if (bits & 0x7FF0000000000000) != 0x7FF0000000000000 {
		// Exponent is not all 1s, so it's a regular float
		return true
	}

	// Exponent is all 1s. Could be Infinity or NaN.
	mantissa := bits & 0x000FFFFFFFFFFFFF
	if mantissa == 0 {
		// +Inf or -Inf, which are valid floats
		return true
	}

	if (bits & nanBits) != nanBits {
		// Signaling NaN, treat as float
		return true
	}

	// Quiet NaN: ours only if a tag bit is set
	return bits&tagMask == 0
}

// IsInt returns true if v represents a small integer.
func (v Value) IsInt() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagInt)
}

// IsObject returns true if v represents a heap object pointer.
func (v Value) IsObject() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagObject)
}

// IsSymbol returns true if v represents an interned symbol.
func (v Value) IsSymbol() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagSymbol)
}

// IsFunc returns true if v references a compiled function.
func (v Value) IsFunc() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagFunc)
}

// IsClass returns true if v references a class.
func (v Value) IsClass() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagClass)
}

// IsNil returns true if v is the nil value.
func (v Value) IsNil() bool {
	return v == Nil
}

// IsBool returns true if v is true or false.
func (v Value) IsBool() bool {
	return v == True || v == False
}

// IsSpecial returns true if v is nil, true, or false.
func (v Value) IsSpecial() bool {
	return (uint64(v) & (nanBits | tagMask)) == (nanBits | tagSpecial)
}

// ---------------------------------------------------------------------------
// Float operations
// ---------------------------------------------------------------------------

// Float64 returns v as a float64.
// Panics if v is not a float.
func (v Value) Float64() float64 {
	if !v.IsFloat() {
		panic("Value.Float64: not a float")
	}
	return math.Float64frombits(uint64(v))
}

// FromFloat64 creates a Value from a float64.
func FromFloat64(f float64) Value {
	return Value(math.Float64bits(f))
}

// ---------------------------------------------------------------------------
// Int operations
// ---------------------------------------------------------------------------

// Int returns v as an int64.
// Panics if v is not an integer.
func (v Value) Int() int64 {
	if !v.IsInt() {
		panic("Value.Int: not an integer")
	}
	payload := uint64(v) & payloadMask

	// Sign extend from 48 bits to 64 bits
	if (payload & intSignBit) != 0 {
		payload |= intSignExtend
	}
	return int64(payload)
}

// FromInt creates a Value from an int64.
// Panics if n is outside the Int range.
func FromInt(n int64) Value {
	if n > MaxInt || n < MinInt {
		panic("FromInt: value out of range")
	}
	return Value(nanBits | tagInt | (uint64(n) & payloadMask))
}

// TryFromInt creates a Value from an int64, returning false if out of range.
// Overflowing arithmetic must go through this so the failure is explicit.
func TryFromInt(n int64) (Value, bool) {
	if n > MaxInt || n < MinInt {
		return Nil, false
	}
	return Value(nanBits | tagInt | (uint64(n) & payloadMask)), true
}

// ---------------------------------------------------------------------------
// Object pointer operations
// ---------------------------------------------------------------------------

// ObjectPtr returns v as an unsafe.Pointer to the heap object.
// Panics if v is not an object.
func (v Value) ObjectPtr() unsafe.Pointer {
	if !v.IsObject() {
		panic("Value.ObjectPtr: not an object")
	}
	ptr := uintptr(uint64(v) & payloadMask)
	return unsafe.Pointer(ptr)
}

// FromObjectPtr creates a Value from an unsafe.Pointer.
// The pointer must fit in 48 bits (true for all current architectures).
func FromObjectPtr(ptr unsafe.Pointer) Value {
	return Value(nanBits | tagObject | uint64(uintptr(ptr)))
}

// ---------------------------------------------------------------------------
// Symbol operations
// ---------------------------------------------------------------------------

// SymbolID returns the symbol ID encoded in v.
// Panics if v is not a symbol.
func (v Value) SymbolID() uint32 {
	if !v.IsSymbol() {
		panic("Value.SymbolID: not a symbol")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromSymbolID creates a Value from a symbol ID.
func FromSymbolID(id uint32) Value {
	return Value(nanBits | tagSymbol | uint64(id))
}

// ---------------------------------------------------------------------------
// Function and class references
// ---------------------------------------------------------------------------

// FuncID returns the function registry ID.
// Panics if v is not a function reference.
func (v Value) FuncID() uint32 {
	if !v.IsFunc() {
		panic("Value.FuncID: not a function")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromFuncID creates a Value from a function registry ID.
func FromFuncID(id uint32) Value {
	return Value(nanBits | tagFunc | uint64(id))
}

// ClassID returns the class arena index.
// Panics if v is not a class reference.
func (v Value) ClassID() uint32 {
	if !v.IsClass() {
		panic("Value.ClassID: not a class")
	}
	return uint32(uint64(v) & payloadMask)
}

// FromClassID creates a Value from a class arena index.
func FromClassID(id uint32) Value {
	return Value(nanBits | tagClass | uint64(id))
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// Bool returns v as a bool.
// Panics if v is not true or false.
func (v Value) Bool() bool {
	switch v {
	case True:
		return true
	case False:
		return false
	default:
		panic("Value.Bool: not a boolean")
	}
}

// FromBool creates a Value from a bool.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsTruthy returns true if v is considered "truthy" in conditionals.
// Only false and nil are falsy; everything else is truthy.
func (v Value) IsTruthy() bool {
	return v != False && v != Nil
}
