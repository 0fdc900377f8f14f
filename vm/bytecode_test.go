package vm

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Operand encoding tests
// ---------------------------------------------------------------------------

func TestUleb128RoundTrip(t *testing.T) {
	tests := []uint64{0, 1, 127, 128, 255, 300, 16384, 1 << 32, 1<<64 - 1}

	for _, n := range tests {
		buf := appendUleb128(nil, n)
		got, next, err := readUleb128(buf, 0)
		if err != nil {
			t.Errorf("readUleb128(%d): %v", n, err)
			continue
		}
		if got != n {
			t.Errorf("roundtrip %d = %d", n, got)
		}
		if next != len(buf) {
			t.Errorf("roundtrip %d consumed %d of %d bytes", n, next, len(buf))
		}
	}
}

func TestUleb128Truncated(t *testing.T) {
	// High bit set, nothing follows.
	if _, _, err := readUleb128([]byte{0x80}, 0); err == nil {
		t.Error("truncated operand must error")
	}
	if _, _, err := readUleb128(nil, 0); err == nil {
		t.Error("empty stream must error")
	}
}

// ---------------------------------------------------------------------------
// Builder tests
// ---------------------------------------------------------------------------

func TestBuilderMaxStack(t *testing.T) {
	// Two constants then a 2-window call plus the selector load: the
	// high-water mark is 3 (receiver, argument, selector).
	b := NewBuilder("add", 0)
	b.EmitConstant(FromInt(3))
	b.EmitConstant(FromInt(4))
	b.EmitConstant(FromSymbolID(0))
	b.EmitCall(2)
	b.EmitReturn()
	fn := b.Build()

	if fn.MaxStack != 3 {
		t.Errorf("MaxStack = %d, want 3", fn.MaxStack)
	}
	if b.Depth() != 0 {
		t.Errorf("final depth = %d, want 0", b.Depth())
	}
}

func TestBuilderMaxStackIsHighWaterMark(t *testing.T) {
	// Push and pop twice; the peak stays 1 even though four instructions
	// touch the stack.
	b := NewBuilder("churn", 0)
	b.EmitConstant(Nil)
	b.EmitPop()
	b.EmitConstant(Nil)
	b.EmitReturn()

	if fn := b.Build(); fn.MaxStack != 1 {
		t.Errorf("MaxStack = %d, want 1", fn.MaxStack)
	}
}

func TestBuilderConstantPoolOrder(t *testing.T) {
	b := NewBuilder("pool", 0)
	i0 := b.AddConstant(FromInt(10))
	i1 := b.AddConstant(FromInt(20))
	if i0 != 0 || i1 != 1 {
		t.Fatalf("indices = %d, %d; want 0, 1", i0, i1)
	}

	fn := b.Build()
	if v, ok := fn.Constant(0); !ok || v != FromInt(10) {
		t.Error("constant 0 wrong")
	}
	if v, ok := fn.Constant(1); !ok || v != FromInt(20) {
		t.Error("constant 1 wrong")
	}
	if _, ok := fn.Constant(2); ok {
		t.Error("out-of-range constant must report false")
	}
	if _, ok := fn.Constant(-1); ok {
		t.Error("negative constant index must report false")
	}
}

func TestConstantPoolPreservesIdentity(t *testing.T) {
	vm := New()
	sym := vm.Symbols.SymbolValue("selector")

	b := NewBuilder("sym", 0)
	b.AddConstant(sym)
	fn := b.Build()

	// A symbol loaded from the pool is the interned symbol itself.
	if v, _ := fn.Constant(0); v != sym {
		t.Error("pool entry must be bit-identical to the stored symbol")
	}
}

// ---------------------------------------------------------------------------
// Disassembly tests
// ---------------------------------------------------------------------------

func TestDisassemble(t *testing.T) {
	b := NewBuilder("dis", 0)
	b.EmitConstant(FromInt(1))
	b.EmitNop()
	b.EmitReturn()

	text := b.Build().Disassemble()
	for _, want := range []string{"LOAD_CONST 0", "NOP", "RETURN"} {
		if !strings.Contains(text, want) {
			t.Errorf("disassembly missing %q:\n%s", want, text)
		}
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	text := Disassemble([]byte{0xEE})
	if !strings.Contains(text, "UNKNOWN_EE") {
		t.Errorf("unknown opcode not rendered: %s", text)
	}
}
