package compiler

import (
	"fmt"

	"rill/vm"
)

// Compiler lowers expressions to bytecode. One Compiler emits one
// compiled unit; the unit's operand-stack bound comes from the
// builder's static depth analysis, not from any fixed constant.
type Compiler struct {
	machine *vm.VM
	builder *vm.Builder
	errors  []string
}

// NewCompiler creates a compiler that interns symbols in (and allocates
// quoted pairs on) the given VM.
func NewCompiler(machine *vm.VM) *Compiler {
	return &Compiler{machine: machine}
}

// Errors returns accumulated compilation errors.
func (c *Compiler) Errors() []string {
	return c.errors
}

func (c *Compiler) errorf(pos Position, format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf("line %d: %s", pos.Line, fmt.Sprintf(format, args...)))
}

// CompileProgram compiles a top-level expression sequence into one
// arity-0 unit. Intermediate results are popped; the last expression's
// value becomes the program result.
func (c *Compiler) CompileProgram(name string, exprs []Expr) (*vm.CompiledFunc, error) {
	c.builder = vm.NewBuilder(name, 0)
	c.errors = nil

	if len(exprs) == 0 {
		c.builder.EmitConstant(vm.Nil)
	}
	for i, e := range exprs {
		c.compileExpr(e)
		if i < len(exprs)-1 {
			c.builder.EmitPop()
		}
	}
	c.builder.EmitReturn()

	if len(c.errors) > 0 {
		return nil, fmt.Errorf("compile %s: %s", name, c.errors[0])
	}
	if d := c.builder.Depth(); d != 0 {
		return nil, fmt.Errorf("compile %s: emitter left operand depth %d, want 0", name, d)
	}
	return c.builder.Build(), nil
}

// CompileSource reads and compiles a source string.
func (c *Compiler) CompileSource(name, src string) (*vm.CompiledFunc, error) {
	exprs, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return c.CompileProgram(name, exprs)
}

func (c *Compiler) compileExpr(e Expr) {
	switch n := e.(type) {
	case *IntLit:
		v, ok := vm.TryFromInt(n.Value)
		if !ok {
			c.errorf(n.Pos(), "integer literal %d out of range", n.Value)
			v = vm.Nil
		}
		c.builder.EmitConstant(v)

	case *FloatLit:
		c.builder.EmitConstant(vm.FromFloat64(n.Value))

	case *BoolLit:
		c.builder.EmitConstant(vm.FromBool(n.Value))

	case *NilLit:
		c.builder.EmitConstant(vm.Nil)

	case *Ident:
		c.builder.EmitConstant(c.machine.Symbols.SymbolValue(n.Name))
		c.builder.EmitLoadGlobal()

	case *Quote:
		c.builder.EmitConstant(c.datumValue(n.Datum))

	case *Define:
		c.builder.EmitConstant(c.machine.Symbols.SymbolValue(n.Name))
		c.compileExpr(n.Value)
		c.builder.EmitDefGlobal()

	case *Send:
		// Receiver is argument zero; the selector symbol tops the window.
		c.compileExpr(n.Receiver)
		for _, arg := range n.Args {
			c.compileExpr(arg)
		}
		c.builder.EmitConstant(c.machine.Symbols.SymbolValue(n.Selector))
		c.builder.EmitCall(1 + len(n.Args))

	default:
		c.errorf(e.Pos(), "unsupported expression %T", e)
		c.builder.EmitConstant(vm.Nil)
	}
}

// datumValue materializes quoted data as a constant, allocating pair
// chains on the VM heap.
func (c *Compiler) datumValue(d Datum) vm.Value {
	switch n := d.(type) {
	case NilDatum:
		return vm.Nil
	case BoolDatum:
		return vm.FromBool(n.Value)
	case IntDatum:
		v, ok := vm.TryFromInt(n.Value)
		if !ok {
			c.errorf(Position{}, "quoted integer %d out of range", n.Value)
			return vm.Nil
		}
		return v
	case FloatDatum:
		return vm.FromFloat64(n.Value)
	case SymbolDatum:
		return c.machine.Symbols.SymbolValue(n.Name)
	case ListDatum:
		items := make([]vm.Value, len(n.Items))
		for i, item := range n.Items {
			items[i] = c.datumValue(item)
		}
		return c.machine.List(items...)
	default:
		return vm.Nil
	}
}
