package vm

// Handler is a callable installed on a class under a selector.
//
// A handler is either a native primitive (a Go function, run to
// completion synchronously) or a compiled function (executed by pushing
// a frame in the interpreter). The interpreter special-cases
// *CompiledFunc; everything else is invoked through this interface.
type Handler interface {
	Invoke(vm *VM, receiver Value, args []Value) Value
}

// PrimitiveFunc is a Go function implementing a variable-arity primitive.
// args excludes the receiver.
type PrimitiveFunc func(vm *VM, receiver Value, args []Value) Value

// Primitive0Func is a primitive taking no arguments beyond the receiver.
type Primitive0Func func(vm *VM, receiver Value) Value

// Primitive1Func is a primitive taking one argument.
type Primitive1Func func(vm *VM, receiver Value, arg Value) Value

// Primitive2Func is a primitive taking two arguments.
type Primitive2Func func(vm *VM, receiver Value, arg1, arg2 Value) Value

// ---------------------------------------------------------------------------
// Arity-specialized primitive wrappers
// ---------------------------------------------------------------------------

// Primitive wraps a general PrimitiveFunc as a Handler.
type Primitive struct {
	name string
	fn   PrimitiveFunc
}

func (p *Primitive) Invoke(vm *VM, receiver Value, args []Value) Value {
	return p.fn(vm, receiver, args)
}

func (p *Primitive) Name() string { return p.name }
func (p *Primitive) Arity() int   { return -1 } // variable arity

// Primitive0 wraps a zero-argument primitive.
type Primitive0 struct {
	name string
	fn   Primitive0Func
}

func (p *Primitive0) Invoke(vm *VM, receiver Value, args []Value) Value {
	return p.fn(vm, receiver)
}

func (p *Primitive0) Name() string { return p.name }
func (p *Primitive0) Arity() int   { return 0 }

// Primitive1 wraps a one-argument primitive. Missing arguments are
// filled with nil rather than faulting, so a short send degrades to a
// recoverable nil result.
type Primitive1 struct {
	name string
	fn   Primitive1Func
}

func (p *Primitive1) Invoke(vm *VM, receiver Value, args []Value) Value {
	if len(args) < 1 {
		return p.fn(vm, receiver, Nil)
	}
	return p.fn(vm, receiver, args[0])
}

func (p *Primitive1) Name() string { return p.name }
func (p *Primitive1) Arity() int   { return 1 }

// Primitive2 wraps a two-argument primitive.
type Primitive2 struct {
	name string
	fn   Primitive2Func
}

func (p *Primitive2) Invoke(vm *VM, receiver Value, args []Value) Value {
	switch len(args) {
	case 0:
		return p.fn(vm, receiver, Nil, Nil)
	case 1:
		return p.fn(vm, receiver, args[0], Nil)
	default:
		return p.fn(vm, receiver, args[0], args[1])
	}
}

func (p *Primitive2) Name() string { return p.name }
func (p *Primitive2) Arity() int   { return 2 }

// ---------------------------------------------------------------------------
// Factory functions
// ---------------------------------------------------------------------------

// NewPrimitive creates a variable-arity primitive handler.
func NewPrimitive(name string, fn PrimitiveFunc) Handler {
	return &Primitive{name: name, fn: fn}
}

// NewPrimitive0 creates a zero-argument primitive handler.
func NewPrimitive0(name string, fn Primitive0Func) Handler {
	return &Primitive0{name: name, fn: fn}
}

// NewPrimitive1 creates a one-argument primitive handler.
func NewPrimitive1(name string, fn Primitive1Func) Handler {
	return &Primitive1{name: name, fn: fn}
}

// NewPrimitive2 creates a two-argument primitive handler.
func NewPrimitive2(name string, fn Primitive2Func) Handler {
	return &Primitive2{name: name, fn: fn}
}

// ---------------------------------------------------------------------------
// Handler metadata
// ---------------------------------------------------------------------------

// NamedHandler is implemented by handlers that have a name.
type NamedHandler interface {
	Handler
	Name() string
}

// HandlerName returns the name of a handler if it implements NamedHandler.
func HandlerName(h Handler) string {
	if nh, ok := h.(NamedHandler); ok {
		return nh.Name()
	}
	return "<anonymous>"
}
