package vm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Wire encoding for compiled units.
//
// A CompiledFunc is the engine's only wire format: code stream, constant
// pool and declared stack depth. Encoding uses canonical CBOR so the
// bytes are deterministic and content-addressable. Values travel as
// (kind, payload) records; symbols travel by text and are re-interned on
// decode, which preserves the interning invariant across VM instances
// even though their numeric IDs differ.

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Value kinds on the wire.
const (
	wireNil    = "nil"
	wireTrue   = "true"
	wireFalse  = "false"
	wireInt    = "int"
	wireFloat  = "float"
	wireSymbol = "sym"
	wirePair   = "pair"
)

// WireValue is the serialized form of one constant-pool entry.
type WireValue struct {
	Kind  string     `cbor:"k"`
	Int   int64      `cbor:"i,omitempty"`
	Float float64    `cbor:"f,omitempty"`
	Sym   string     `cbor:"s,omitempty"`
	Head  *WireValue `cbor:"h,omitempty"`
	Tail  *WireValue `cbor:"t,omitempty"`
}

// WireFunc is the serialized form of a compiled unit.
type WireFunc struct {
	Name      string      `cbor:"name"`
	Arity     int         `cbor:"arity"`
	Code      []byte      `cbor:"code"`
	Constants []WireValue `cbor:"consts"`
	MaxStack  int         `cbor:"maxstack"`
}

// EncodeFunc serializes a compiled unit to canonical CBOR bytes.
// Function and class handles are VM-local and cannot travel; they are
// rejected rather than smuggled as raw bits.
func (vm *VM) EncodeFunc(fn *CompiledFunc) ([]byte, error) {
	wf := WireFunc{
		Name:      fn.Name,
		Arity:     fn.Arity,
		Code:      fn.Code,
		Constants: make([]WireValue, len(fn.Constants)),
		MaxStack:  fn.MaxStack,
	}
	for i, c := range fn.Constants {
		wv, err := vm.encodeValue(c)
		if err != nil {
			return nil, fmt.Errorf("wire: constant %d: %w", i, err)
		}
		wf.Constants[i] = *wv
	}
	return cborEncMode.Marshal(&wf)
}

// DecodeFunc deserializes a compiled unit, interning symbols and
// rebuilding pair constants in this VM's heap.
func (vm *VM) DecodeFunc(data []byte) (*CompiledFunc, error) {
	var wf WireFunc
	if err := cbor.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("wire: unmarshal func: %w", err)
	}
	fn := &CompiledFunc{
		Name:      wf.Name,
		Arity:     wf.Arity,
		Code:      wf.Code,
		Constants: make([]Value, len(wf.Constants)),
		MaxStack:  wf.MaxStack,
	}
	for i := range wf.Constants {
		v, err := vm.decodeValue(&wf.Constants[i])
		if err != nil {
			return nil, fmt.Errorf("wire: constant %d: %w", i, err)
		}
		fn.Constants[i] = v
	}
	return fn, nil
}

func (vm *VM) encodeValue(v Value) (*WireValue, error) {
	switch v.TagOf() {
	case TagNil:
		return &WireValue{Kind: wireNil}, nil
	case TagTrue:
		return &WireValue{Kind: wireTrue}, nil
	case TagFalse:
		return &WireValue{Kind: wireFalse}, nil
	case TagInt:
		return &WireValue{Kind: wireInt, Int: v.Int()}, nil
	case TagFloat:
		return &WireValue{Kind: wireFloat, Float: v.Float64()}, nil
	case TagSymbol:
		return &WireValue{Kind: wireSymbol, Sym: vm.Symbols.Name(v.SymbolID())}, nil
	case TagObject:
		if vm.IsPair(v) {
			head, err := vm.encodeValue(vm.Head(v))
			if err != nil {
				return nil, err
			}
			tail, err := vm.encodeValue(vm.Tail(v))
			if err != nil {
				return nil, err
			}
			return &WireValue{Kind: wirePair, Head: head, Tail: tail}, nil
		}
		return nil, fmt.Errorf("object of class %s is not serializable", vm.ClassOf(v).Name)
	default:
		return nil, fmt.Errorf("value %s is not serializable", vm.Format(v))
	}
}

func (vm *VM) decodeValue(wv *WireValue) (Value, error) {
	switch wv.Kind {
	case wireNil:
		return Nil, nil
	case wireTrue:
		return True, nil
	case wireFalse:
		return False, nil
	case wireInt:
		if v, ok := TryFromInt(wv.Int); ok {
			return v, nil
		}
		return Nil, fmt.Errorf("integer constant %d out of range", wv.Int)
	case wireFloat:
		return FromFloat64(wv.Float), nil
	case wireSymbol:
		return vm.Symbols.SymbolValue(wv.Sym), nil
	case wirePair:
		if wv.Head == nil || wv.Tail == nil {
			return Nil, fmt.Errorf("pair constant missing head or tail")
		}
		head, err := vm.decodeValue(wv.Head)
		if err != nil {
			return Nil, err
		}
		tail, err := vm.decodeValue(wv.Tail)
		if err != nil {
			return Nil, err
		}
		return vm.Cons(head, tail), nil
	default:
		return Nil, fmt.Errorf("unknown wire kind %q", wv.Kind)
	}
}
