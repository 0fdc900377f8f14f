package vm

import (
	"errors"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Opcode definitions
// ---------------------------------------------------------------------------

// Opcode represents a single bytecode instruction.
//
// All instruction operands are unsigned LEB128, so constant-pool indices
// and argument counts are not silently capped at one byte. The stream
// tolerates gaps: NOP is a legal placeholder anywhere (e.g. for later
// patching).
type Opcode byte

const (
	OpNop Opcode = 0x00 // no operation
	OpPop Opcode = 0x01 // discard top of stack

	OpLoadConst  Opcode = 0x10 // push constants[idx] (uleb128 idx)
	OpLoadArg    Opcode = 0x11 // push argument window slot (uleb128 idx)
	OpLoadGlobal Opcode = 0x12 // pop name symbol, push its binding (or nil)
	OpDefGlobal  Opcode = 0x13 // pop value, pop name symbol, define, push value

	OpCall Opcode = 0x30 // send: pop selector + argc-value window (uleb128 argc)

	OpReturn Opcode = 0x70 // pop frame, hand top of stack to the caller
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name        string // human-readable name
	HasOperand  bool   // whether a uleb128 operand follows
	StackEffect int    // net effect on operand depth (call is argc-dependent)
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpNop:        {"NOP", false, 0},
	OpPop:        {"POP", false, -1},
	OpLoadConst:  {"LOAD_CONST", true, 1},
	OpLoadArg:    {"LOAD_ARG", true, 1},
	OpLoadGlobal: {"LOAD_GLOBAL", false, 0},
	OpDefGlobal:  {"DEF_GLOBAL", false, -1},
	OpCall:       {"CALL", true, 0}, // actual effect is -argc
	OpReturn:     {"RETURN", false, -1},
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op))}
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	return op.Info().Name
}

// ---------------------------------------------------------------------------
// LEB128 operand encoding
// ---------------------------------------------------------------------------

// ErrTruncated reports an operand cut off by the end of the code stream.
// It is a malformed-bytecode condition, like an unknown opcode.
var ErrTruncated = errors.New("truncated bytecode operand")

// appendUleb128 appends n to buf in unsigned LEB128.
func appendUleb128(buf []byte, n uint64) []byte {
	for {
		b := byte(n & 0x7F)
		n >>= 7
		if n != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if n == 0 {
			return buf
		}
	}
}

// readUleb128 decodes an unsigned LEB128 operand at code[pos].
// Returns the value and the position after it.
func readUleb128(code []byte, pos int) (uint64, int, error) {
	var result uint64
	var shift uint
	for {
		if pos >= len(code) {
			return 0, pos, ErrTruncated
		}
		b := code[pos]
		pos++
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, pos, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, pos, fmt.Errorf("uleb128 operand overflows 64 bits: %w", ErrTruncated)
		}
	}
}

// ---------------------------------------------------------------------------
// CompiledFunc: a compiled unit
// ---------------------------------------------------------------------------

// CompiledFunc is one compiled unit: an opcode stream, its constant pool
// and the operand-stack depth the emitter computed for it. The constant
// pool is immutable after Build; load instructions address it by index.
type CompiledFunc struct {
	Name      string
	Arity     int     // size of the argument window (slot 0 is the receiver)
	Code      []byte  // the opcode stream
	Constants []Value // constant pool
	MaxStack  int     // operand-stack bound from static depth analysis
}

// Invoke runs the compiled function to completion on the VM's thread.
// This is the Handler path used when a send is resolved from Go code
// (SendMessage); bytecode-driven sends push a frame directly instead.
func (f *CompiledFunc) Invoke(vm *VM, receiver Value, args []Value) Value {
	return vm.thread.Call(f, receiver, args)
}

// Constant returns the pool entry at index, or Nil and false when the
// index is out of range.
func (f *CompiledFunc) Constant(index int) (Value, bool) {
	if index < 0 || index >= len(f.Constants) {
		return Nil, false
	}
	return f.Constants[index], true
}

// String returns a short description of the function.
func (f *CompiledFunc) String() string {
	return fmt.Sprintf("%s/%d", f.Name, f.Arity)
}

// ---------------------------------------------------------------------------
// Builder: bytecode emission with stack-depth analysis
// ---------------------------------------------------------------------------

// Builder constructs a CompiledFunc.
//
// The builder performs max-stack-depth analysis as a side effect of
// emission: every instruction's net operand effect is applied to a
// running depth and the high-water mark becomes the function's MaxStack.
// The code here is straight-line (no jumps), so a single linear pass is
// exact, not an approximation.
type Builder struct {
	name      string
	arity     int
	code      []byte
	constants []Value

	depth    int // current operand depth
	maxDepth int // high-water mark
}

// NewBuilder creates a builder for a function with the given name and
// argument-window size.
func NewBuilder(name string, arity int) *Builder {
	return &Builder{
		name:      name,
		arity:     arity,
		code:      make([]byte, 0, 32),
		constants: make([]Value, 0, 8),
	}
}

func (b *Builder) track(delta int) {
	b.depth += delta
	if b.depth > b.maxDepth {
		b.maxDepth = b.depth
	}
}

// AddConstant adds a value to the constant pool and returns its index.
// Identical constants are not deduplicated; pool order is emission order.
func (b *Builder) AddConstant(v Value) int {
	idx := len(b.constants)
	b.constants = append(b.constants, v)
	return idx
}

// EmitNop appends a NOP placeholder.
func (b *Builder) EmitNop() {
	b.code = append(b.code, byte(OpNop))
}

// EmitPop appends a POP.
func (b *Builder) EmitPop() {
	b.code = append(b.code, byte(OpPop))
	b.track(-1)
}

// EmitLoadConst appends LOAD_CONST for the given pool index.
func (b *Builder) EmitLoadConst(index int) {
	b.code = append(b.code, byte(OpLoadConst))
	b.code = appendUleb128(b.code, uint64(index))
	b.track(1)
}

// EmitConstant adds v to the pool and emits a load for it.
func (b *Builder) EmitConstant(v Value) int {
	idx := b.AddConstant(v)
	b.EmitLoadConst(idx)
	return idx
}

// EmitLoadArg appends LOAD_ARG for the given window slot.
func (b *Builder) EmitLoadArg(index int) {
	b.code = append(b.code, byte(OpLoadArg))
	b.code = appendUleb128(b.code, uint64(index))
	b.track(1)
}

// EmitLoadGlobal appends LOAD_GLOBAL (name symbol must be on the stack).
func (b *Builder) EmitLoadGlobal() {
	b.code = append(b.code, byte(OpLoadGlobal))
}

// EmitDefGlobal appends DEF_GLOBAL (name below value on the stack).
func (b *Builder) EmitDefGlobal() {
	b.code = append(b.code, byte(OpDefGlobal))
	b.track(-1)
}

// EmitCall appends CALL with the given argument count. The stack must
// hold the argc-value window (slot 0 the receiver) topped by the
// selector symbol.
func (b *Builder) EmitCall(argc int) {
	b.code = append(b.code, byte(OpCall))
	b.code = appendUleb128(b.code, uint64(argc))
	b.track(-argc)
}

// EmitReturn appends RETURN.
func (b *Builder) EmitReturn() {
	b.code = append(b.code, byte(OpReturn))
	b.track(-1)
}

// Depth returns the current static operand depth. Useful for emitter
// sanity checks (a well-formed unit returns with depth 0).
func (b *Builder) Depth() int {
	return b.depth
}

// Build finalizes and returns the compiled function.
func (b *Builder) Build() *CompiledFunc {
	return &CompiledFunc{
		Name:      b.name,
		Arity:     b.arity,
		Code:      b.code,
		Constants: b.constants,
		MaxStack:  b.maxDepth,
	}
}

// ---------------------------------------------------------------------------
// Disassembly
// ---------------------------------------------------------------------------

// Disassemble returns a line-per-instruction listing of a code stream.
func Disassemble(code []byte) string {
	var sb strings.Builder
	pos := 0
	for pos < len(code) {
		op := Opcode(code[pos])
		start := pos
		pos++
		info := op.Info()
		if !info.HasOperand {
			fmt.Fprintf(&sb, "%04d  %s\n", start, info.Name)
			continue
		}
		operand, next, err := readUleb128(code, pos)
		if err != nil {
			fmt.Fprintf(&sb, "%04d  %s <truncated>\n", start, info.Name)
			break
		}
		pos = next
		fmt.Fprintf(&sb, "%04d  %s %d\n", start, info.Name, operand)
	}
	return sb.String()
}

// Disassemble returns a disassembly of the function's code.
func (f *CompiledFunc) Disassemble() string {
	return Disassemble(f.Code)
}
