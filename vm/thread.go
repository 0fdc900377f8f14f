package vm

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Frame: execution state for one call activation
// ---------------------------------------------------------------------------

// Frame represents the execution state of a single function activation.
//
// Frames live in an indexable slice on the Thread rather than linking to
// each other by pointer; the slice index is the call depth. A frame's
// argument window starts at BP in the thread's shared value stack and
// its operand region sits directly above the window. Limit is the
// precomputed ceiling BP + Arity + MaxStack: pushing past it means the
// emitter's stack analysis and the running code disagree, which is
// reported as an explicit overflow failure rather than corrupting
// neighbouring frames.
type Frame struct {
	Fn    *CompiledFunc
	IP    int // instruction pointer (offset into Fn.Code)
	BP    int // base pointer: index of argument 0 in the thread stack
	Limit int // first stack index this frame may not touch
}

// ---------------------------------------------------------------------------
// Thread: one frame stack plus a global-binding chain
// ---------------------------------------------------------------------------

// Thread bundles one frame stack, its operand-stack backing array and a
// global-binding chain. It is a namespace, not an OS thread: execution
// is strictly synchronous and exactly one thread runs at any instant.
// Threads created with NewThread may share the VM's global chain or
// carry their own.
type Thread struct {
	vm      *VM
	name    string
	stack   []Value
	sp      int
	frames  []Frame
	globals Value // scope chain (pair of bindingList . parent)
}

// Name returns the thread's name.
func (t *Thread) Name() string { return t.name }

// Globals returns the thread's global scope chain.
func (t *Thread) Globals() Value { return t.globals }

// Depth returns the current operand-stack depth. Exposed for tests and
// inspection tooling.
func (t *Thread) Depth() int { return t.sp }

// FrameCount returns the number of active frames.
func (t *Thread) FrameCount() int { return len(t.frames) }

// Execution-abort conditions (malformed bytecode / resource tier).
// These abort the current execution only, yielding nil to the caller;
// they never crash the process.
var (
	ErrBadOpcode     = errors.New("unrecognized opcode")
	ErrStackOverflow = errors.New("operand stack overflow")
	ErrStackUnderflow = errors.New("operand stack underflow")
)

// ---------------------------------------------------------------------------
// Stack operations
// ---------------------------------------------------------------------------

// push appends v to the operand stack, enforcing the current frame's
// computed stack bound.
func (t *Thread) push(v Value) error {
	if n := len(t.frames); n > 0 && t.sp >= t.frames[n-1].Limit {
		return fmt.Errorf("%w: frame %s limit %d", ErrStackOverflow, t.frames[n-1].Fn, t.frames[n-1].Limit)
	}
	t.rawPush(v)
	return nil
}

// rawPush appends without a frame-limit check. Used when material is
// staged outside any frame's analyzed operand region (entry arguments,
// re-entrant call windows).
func (t *Thread) rawPush(v Value) {
	if t.sp == len(t.stack) {
		t.stack = append(t.stack, v)
	} else {
		t.stack[t.sp] = v
	}
	t.sp++
}

func (t *Thread) pop() (Value, error) {
	floor := 0
	if n := len(t.frames); n > 0 {
		floor = t.frames[n-1].BP + t.frames[n-1].Fn.Arity
	}
	if t.sp <= floor {
		return Nil, ErrStackUnderflow
	}
	t.sp--
	return t.stack[t.sp], nil
}

// ---------------------------------------------------------------------------
// Frame management
// ---------------------------------------------------------------------------

// pushFrame activates fn over the argument window starting at bp. The
// window is already on the stack; nothing is copied.
func (t *Thread) pushFrame(fn *CompiledFunc, bp int) {
	limit := bp + fn.Arity + fn.MaxStack
	if limit > len(t.stack) {
		grown := make([]Value, limit)
		copy(grown, t.stack[:t.sp])
		t.stack = grown
	}
	t.frames = append(t.frames, Frame{Fn: fn, IP: 0, BP: bp, Limit: limit})
}

// popFrame discards the top frame and its stack region.
func (t *Thread) popFrame() Frame {
	f := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	t.sp = f.BP
	return f
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// Execute runs a compiled unit to completion and returns its result.
// Malformed bytecode and resource failures abort this execution only:
// the thread is restored to its entry state, the condition is logged,
// and nil is returned.
func (t *Thread) Execute(fn *CompiledFunc) Value {
	return t.Call(fn, Nil, nil)
}

// Call invokes fn with the given receiver and arguments, running nested
// bytecode on this thread's own frame stack. It is the re-entry path for
// primitives that themselves perform sends.
func (t *Thread) Call(fn *CompiledFunc, receiver Value, args []Value) Value {
	entryFrames := len(t.frames)
	entrySP := t.sp

	// Stage the argument window. For arity-0 units the window is empty
	// and BP is simply the current stack top.
	bp := t.sp
	if fn.Arity > 0 {
		t.rawPush(receiver)
		for _, a := range args {
			t.rawPush(a)
		}
		for t.sp < bp+fn.Arity {
			t.rawPush(Nil)
		}
	}
	t.pushFrame(fn, bp)

	result, err := t.run(entryFrames)
	if err != nil {
		t.vm.log.Errorf("aborting execution of %s: %s", fn, err.Error())
		t.frames = t.frames[:entryFrames]
		t.sp = entrySP
		return Nil
	}
	return result
}

// ---------------------------------------------------------------------------
// The fetch-decode-execute loop
// ---------------------------------------------------------------------------

// run interprets instructions until the frame at index stopDepth
// returns, yielding that frame's result. Compiled callees push frames
// and continue the same loop; only primitives run as Go calls.
func (t *Thread) run(stopDepth int) (Value, error) {
	for {
		frame := &t.frames[len(t.frames)-1]
		code := frame.Fn.Code

		if frame.IP >= len(code) {
			// Implicit return at end of stream yields nil.
			t.popFrame()
			if len(t.frames) == stopDepth {
				return Nil, nil
			}
			if err := t.push(Nil); err != nil {
				return Nil, err
			}
			continue
		}

		op := Opcode(code[frame.IP])
		frame.IP++

		switch op {
		case OpNop:
			// Placeholder: the stream tolerates gaps.

		case OpPop:
			if _, err := t.pop(); err != nil {
				return Nil, err
			}

		case OpLoadConst:
			idx, next, err := readUleb128(code, frame.IP)
			if err != nil {
				return Nil, err
			}
			frame.IP = next
			c, ok := frame.Fn.Constant(int(idx))
			if !ok {
				return Nil, fmt.Errorf("constant index %d out of range (pool size %d)", idx, len(frame.Fn.Constants))
			}
			if err := t.push(c); err != nil {
				return Nil, err
			}

		case OpLoadArg:
			idx, next, err := readUleb128(code, frame.IP)
			if err != nil {
				return Nil, err
			}
			frame.IP = next
			if int(idx) >= frame.Fn.Arity {
				return Nil, fmt.Errorf("argument index %d out of range (arity %d)", idx, frame.Fn.Arity)
			}
			if err := t.push(t.stack[frame.BP+int(idx)]); err != nil {
				return Nil, err
			}

		case OpLoadGlobal:
			name, err := t.pop()
			if err != nil {
				return Nil, err
			}
			if err := t.push(t.resolveGlobal(name)); err != nil {
				return Nil, err
			}

		case OpDefGlobal:
			value, err := t.pop()
			if err != nil {
				return Nil, err
			}
			name, err := t.pop()
			if err != nil {
				return Nil, err
			}
			if name.IsSymbol() {
				t.vm.Define(t.globals, name, value)
			} else {
				t.vm.log.Warningf("define: name is not a symbol: %s", t.vm.Format(name))
			}
			if err := t.push(value); err != nil {
				return Nil, err
			}

		case OpCall:
			argc64, next, err := readUleb128(code, frame.IP)
			if err != nil {
				return Nil, err
			}
			frame.IP = next
			argc := int(argc64)
			if argc < 1 {
				return Nil, fmt.Errorf("call with no receiver (argc %d)", argc)
			}

			selector, err := t.pop()
			if err != nil {
				return Nil, err
			}
			windowBase := t.sp - argc
			floor := frame.BP + frame.Fn.Arity
			if windowBase < floor {
				return Nil, fmt.Errorf("%w: call window of %d exceeds operand depth", ErrStackUnderflow, argc)
			}

			if !selector.IsSymbol() {
				t.vm.log.Warningf("send: selector is not a symbol: %s", t.vm.Format(selector))
				t.sp = windowBase
				if err := t.push(Nil); err != nil {
					return Nil, err
				}
				continue
			}

			receiver := t.stack[windowBase]
			handler := t.vm.resolve(receiver, selector)
			if handler == nil {
				t.vm.diagnoseNotUnderstood(receiver, selector)
				t.sp = windowBase
				if err := t.push(Nil); err != nil {
					return Nil, err
				}
				continue
			}

			if cf, ok := handler.(*CompiledFunc); ok {
				// New frame binds directly over the argument window; the
				// loop continues in the callee. Short windows extend with
				// nils so LOAD_ARG stays in bounds.
				for t.sp < windowBase+cf.Arity {
					t.rawPush(Nil)
				}
				t.pushFrame(cf, windowBase)
				continue
			}

			// Primitive: run synchronously to completion, result replaces
			// the window in place.
			args := make([]Value, argc-1)
			copy(args, t.stack[windowBase+1:windowBase+argc])
			result := handler.Invoke(t.vm, receiver, args)
			t.sp = windowBase
			if err := t.push(result); err != nil {
				return Nil, err
			}

		case OpReturn:
			result, err := t.pop()
			if err != nil {
				return Nil, err
			}
			t.popFrame()
			if len(t.frames) == stopDepth {
				return result, nil
			}
			// Transfer the result onto the caller's operand stack.
			if err := t.push(result); err != nil {
				return Nil, err
			}

		default:
			return Nil, fmt.Errorf("%w: %02X at offset %d in %s", ErrBadOpcode, byte(op), frame.IP-1, frame.Fn)
		}
	}
}

// resolveGlobal looks name up in the thread's scope chain; an unresolved
// global is a recoverable miss: diagnostic plus nil.
func (t *Thread) resolveGlobal(name Value) Value {
	if !name.IsSymbol() {
		t.vm.log.Warningf("global lookup: name is not a symbol: %s", t.vm.Format(name))
		return Nil
	}
	if v, ok := t.vm.LookupEnv(t.globals, name); ok {
		return v
	}
	t.vm.log.Warningf("undefined identifier: %s", t.vm.Symbols.Name(name.SymbolID()))
	return Nil
}
