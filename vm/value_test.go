package vm

import (
	"math"
	"testing"
	"unsafe"
)

// ---------------------------------------------------------------------------
// Float tests
// ---------------------------------------------------------------------------

func TestFloatRoundTrip(t *testing.T) {
	tests := []float64{
		0.0,
		-0.0,
		1.0,
		-1.0,
		3.14159265358979,
		-3.14159265358979,
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,
		math.Inf(1),
		math.Inf(-1),
	}

	for _, f := range tests {
		v := FromFloat64(f)
		if !v.IsFloat() {
			t.Errorf("FromFloat64(%v).IsFloat() = false, want true", f)
			continue
		}
		got := v.Float64()
		if got != f && !(math.IsNaN(got) && math.IsNaN(f)) {
			t.Errorf("FromFloat64(%v).Float64() = %v, want %v", f, got, f)
		}
	}
}

func TestFloatNaN(t *testing.T) {
	// A real NaN is a float, not a tagged value.
	v := FromFloat64(math.NaN())
	if !v.IsFloat() {
		t.Error("NaN should be treated as float")
	}
	if !math.IsNaN(v.Float64()) {
		t.Error("NaN roundtrip failed")
	}
	if v.TagOf() != TagFloat {
		t.Errorf("TagOf(NaN) = %v, want TagFloat", v.TagOf())
	}
}

// ---------------------------------------------------------------------------
// Int tests
// ---------------------------------------------------------------------------

func TestIntRoundTrip(t *testing.T) {
	tests := []int64{
		0,
		1,
		-1,
		42,
		-42,
		MaxInt,
		MinInt,
		MaxInt - 1,
		MinInt + 1,
	}

	for _, n := range tests {
		v := FromInt(n)
		if !v.IsInt() {
			t.Errorf("FromInt(%d).IsInt() = false, want true", n)
			continue
		}
		if got := v.Int(); got != n {
			t.Errorf("FromInt(%d).Int() = %d, want %d", n, got, n)
		}
	}
}

func TestTryFromIntRange(t *testing.T) {
	tests := []struct {
		n  int64
		ok bool
	}{
		{0, true},
		{MaxInt, true},
		{MinInt, true},
		{MaxInt + 1, false},
		{MinInt - 1, false},
		{math.MaxInt64, false},
		{math.MinInt64, false},
	}

	for _, tt := range tests {
		v, ok := TryFromInt(tt.n)
		if ok != tt.ok {
			t.Errorf("TryFromInt(%d) ok = %v, want %v", tt.n, ok, tt.ok)
			continue
		}
		if !ok && v != Nil {
			t.Errorf("TryFromInt(%d) out-of-range value = %v, want nil", tt.n, v)
		}
	}
}

func TestIntIsNotFloat(t *testing.T) {
	v := FromInt(7)
	if v.IsFloat() {
		t.Error("IsFloat should be false for int")
	}
	if v.TagOf() != TagInt {
		t.Errorf("TagOf = %v, want TagInt", v.TagOf())
	}
}

// ---------------------------------------------------------------------------
// Singleton tests
// ---------------------------------------------------------------------------

func TestSingletons(t *testing.T) {
	if !Nil.IsNil() {
		t.Error("Nil.IsNil() = false")
	}
	if !True.IsBool() || !False.IsBool() {
		t.Error("True/False should be booleans")
	}
	if Nil == True || Nil == False || True == False {
		t.Error("singletons must be distinct")
	}
	if Nil.TagOf() != TagNil || True.TagOf() != TagTrue || False.TagOf() != TagFalse {
		t.Error("singleton tags wrong")
	}
	// The singletons must never look like floats or ints.
	for _, v := range []Value{Nil, True, False} {
		if v.IsFloat() || v.IsInt() || v.IsObject() {
			t.Errorf("%v claims a non-special tag", v)
		}
	}
}

func TestBoolConversion(t *testing.T) {
	if FromBool(true) != True || FromBool(false) != False {
		t.Error("FromBool must return the canonical singletons")
	}
	if !True.Bool() || False.Bool() {
		t.Error("Bool() roundtrip failed")
	}
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{False, false},
		{True, true},
		{FromInt(0), true},
		{FromFloat64(0.0), true},
		{FromSymbolID(0), true},
	}

	for _, tt := range tests {
		if got := tt.v.IsTruthy(); got != tt.want {
			t.Errorf("IsTruthy(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Identity tests
// ---------------------------------------------------------------------------

func TestIdentityIsBitIdentity(t *testing.T) {
	// Same payload, same tag: identical.
	if FromInt(42) != FromInt(42) {
		t.Error("equal ints must be identical")
	}
	// Same payload bits, different tag: not identical.
	if Value(uint64(FromInt(3))) == Value(uint64(FromSymbolID(3))) {
		t.Error("int 3 and symbol 3 must not be identical")
	}
	if FromFloat64(1.0) == FromInt(1) {
		t.Error("float 1.0 and int 1 must not be identical")
	}
}

func TestObjectPointerRoundTrip(t *testing.T) {
	obj := &Object{}
	v := FromObjectPtr(unsafe.Pointer(obj))
	if !v.IsObject() {
		t.Fatal("IsObject = false")
	}
	if v.ObjectPtr() != unsafe.Pointer(obj) {
		t.Error("pointer roundtrip failed")
	}
	// Two handles to the same object are identical; to different objects not.
	if v != FromObjectPtr(unsafe.Pointer(obj)) {
		t.Error("same pointer must box identically")
	}
	other := &Object{}
	if v == FromObjectPtr(unsafe.Pointer(other)) {
		t.Error("distinct pointers must box distinctly")
	}
}

// ---------------------------------------------------------------------------
// Handle tests
// ---------------------------------------------------------------------------

func TestSymbolHandleRoundTrip(t *testing.T) {
	for _, id := range []uint32{0, 1, 255, 1 << 20} {
		v := FromSymbolID(id)
		if !v.IsSymbol() {
			t.Errorf("FromSymbolID(%d).IsSymbol() = false", id)
		}
		if got := v.SymbolID(); got != id {
			t.Errorf("SymbolID roundtrip: got %d, want %d", got, id)
		}
	}
}

func TestFuncAndClassHandles(t *testing.T) {
	f := FromFuncID(7)
	if !f.IsFunc() || f.FuncID() != 7 {
		t.Error("func handle roundtrip failed")
	}
	c := FromClassID(3)
	if !c.IsClass() || c.ClassID() != 3 {
		t.Error("class handle roundtrip failed")
	}
	if f.TagOf() != TagFunc || c.TagOf() != TagClass {
		t.Error("handle tags wrong")
	}
}
