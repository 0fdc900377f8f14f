package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders any value as text. The dispatch is total: every tag
// has a printer and unrecognized tag bits fall back to a hex rendering
// instead of failing, so printing can never abort an execution.
func (vm *VM) Format(v Value) string {
	switch v.TagOf() {
	case TagNil:
		return "nil"
	case TagTrue:
		return "true"
	case TagFalse:
		return "false"
	case TagInt:
		return strconv.FormatInt(v.Int(), 10)
	case TagFloat:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case TagSymbol:
		return vm.Symbols.Name(v.SymbolID())
	case TagFunc:
		if fn := vm.FuncFromValue(v); fn != nil {
			return fmt.Sprintf("#<func %s>", fn)
		}
		return fmt.Sprintf("#<func %d>", v.FuncID())
	case TagClass:
		if c := vm.Classes.Get(ClassID(v.ClassID())); c != nil {
			return fmt.Sprintf("#<class %s>", c.Name)
		}
		return fmt.Sprintf("#<class %d>", v.ClassID())
	case TagObject:
		return vm.formatObject(v)
	default:
		// Unassigned tag bits: never fail, render the raw word.
		return fmt.Sprintf("#<unknown %016x>", uint64(v))
	}
}

func (vm *VM) formatObject(v Value) string {
	obj := ObjectFromValue(v)
	if obj == nil {
		return "#<object nil>"
	}
	if obj.Class() == vm.PairClass {
		return vm.formatList(v)
	}
	return fmt.Sprintf("#<%s %p>", obj.ClassName(), obj)
}

// formatList prints a pair chain in list notation, with dotted tails
// for improper lists.
func (vm *VM) formatList(v Value) string {
	var sb strings.Builder
	sb.WriteByte('(')
	first := true
	for {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(vm.Format(vm.Head(v)))
		tail := vm.Tail(v)
		if tail == Nil {
			break
		}
		if !vm.IsPair(tail) {
			sb.WriteString(" . ")
			sb.WriteString(vm.Format(tail))
			break
		}
		v = tail
	}
	sb.WriteByte(')')
	return sb.String()
}
