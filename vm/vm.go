package vm

import (
	"sync"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// VM: the Rill virtual machine
// ---------------------------------------------------------------------------

// VM owns the shared tables of an execution engine instance: interned
// symbols, the class arena, the compiled-function registry, the global
// binding chain and the main thread. All mutable shared state is the
// global chain (append-only within a scope, single writer) and class
// handler maps (mutated during setup only); steady-state dispatch reads
// both without mutation.
type VM struct {
	Symbols *SymbolTable
	Classes *ClassTable

	// Well-known classes, bound during bootstrap.
	ObjectClass          *Class
	ClassClass           *Class
	UndefinedObjectClass *Class
	BooleanClass         *Class
	TrueClass            *Class
	FalseClass           *Class
	IntegerClass         *Class
	FloatClass           *Class
	SymbolClass          *Class
	PairClass            *Class
	FunctionClass        *Class

	// Compiled-function registry: FuncID payloads index into funcs.
	funcMu sync.RWMutex
	funcs  []*CompiledFunc

	// keepAlive pins heap objects whose only references are NaN-boxed
	// handles the Go collector cannot see. This is the explicit
	// reclamation decision: host GC plus a pin set, no collector of our
	// own.
	keepMu    sync.Mutex
	keepAlive map[*Object]struct{}

	thread *Thread
	log    commonlog.Logger
}

// New creates and bootstraps a VM with an empty global scope.
func New() *VM {
	vm := &VM{
		Symbols:   NewSymbolTable(),
		Classes:   NewClassTable(),
		keepAlive: make(map[*Object]struct{}),
		log:       commonlog.GetLogger("rill.vm"),
	}
	vm.bootstrap()

	vm.thread = &Thread{vm: vm, name: "main"}
	vm.thread.globals = vm.NewScope(Nil)

	vm.installPrimitives()
	return vm
}

// MainThread returns the VM's main thread.
func (vm *VM) MainThread() *Thread {
	return vm.thread
}

// NewThread creates a named thread. When shared is true the thread uses
// the VM's global chain; otherwise it gets a fresh chain whose parent is
// the VM's, so its definitions shadow without leaking. A thread is only
// a namespace: exactly one executes at any instant.
func (vm *VM) NewThread(name string, shared bool) *Thread {
	t := &Thread{vm: vm, name: name}
	if shared {
		t.globals = vm.thread.globals
	} else {
		t.globals = vm.NewScope(vm.thread.globals)
	}
	return t
}

// Globals returns the main thread's global scope chain.
func (vm *VM) Globals() Value {
	return vm.thread.globals
}

// DefineGlobal binds name to value in the main thread's innermost scope.
func (vm *VM) DefineGlobal(name string, value Value) {
	vm.Define(vm.thread.globals, vm.Symbols.SymbolValue(name), value)
}

// ---------------------------------------------------------------------------
// Bootstrap: the core class hierarchy
// ---------------------------------------------------------------------------

func (vm *VM) bootstrap() {
	vm.ObjectClass = vm.Classes.Define("Object", NoClass)
	vm.ClassClass = vm.Classes.Define("Class", vm.ObjectClass.ID)
	vm.UndefinedObjectClass = vm.Classes.Define("UndefinedObject", vm.ObjectClass.ID)
	vm.BooleanClass = vm.Classes.Define("Boolean", vm.ObjectClass.ID)
	vm.TrueClass = vm.Classes.Define("True", vm.BooleanClass.ID)
	vm.FalseClass = vm.Classes.Define("False", vm.BooleanClass.ID)
	vm.IntegerClass = vm.Classes.Define("Integer", vm.ObjectClass.ID)
	vm.FloatClass = vm.Classes.Define("Float", vm.ObjectClass.ID)
	vm.SymbolClass = vm.Classes.Define("Symbol", vm.ObjectClass.ID)
	vm.PairClass = vm.Classes.Define("Pair", vm.ObjectClass.ID)
	vm.FunctionClass = vm.Classes.Define("Function", vm.ObjectClass.ID)
}

// DefineClass creates a user class below base and returns it. The class
// is also bound as a global under its own name.
func (vm *VM) DefineClass(name string, base *Class) *Class {
	baseID := NoClass
	if base != nil {
		baseID = base.ID
	}
	c := vm.Classes.Define(name, baseID)
	vm.DefineGlobal(name, FromClassID(uint32(c.ID)))
	return c
}

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// retain pins obj against the Go collector for the VM's lifetime.
func (vm *VM) retain(obj *Object) {
	vm.keepMu.Lock()
	vm.keepAlive[obj] = struct{}{}
	vm.keepMu.Unlock()
}

// NewInstance allocates an instance of class with numSlots nil slots.
func (vm *VM) NewInstance(class *Class, numSlots int) Value {
	obj := NewObject(class, numSlots)
	vm.retain(obj)
	return obj.ToValue()
}

// RegisterFunc adds fn to the function registry and returns its handle.
func (vm *VM) RegisterFunc(fn *CompiledFunc) Value {
	vm.funcMu.Lock()
	defer vm.funcMu.Unlock()
	id := uint32(len(vm.funcs))
	vm.funcs = append(vm.funcs, fn)
	return FromFuncID(id)
}

// FuncFromValue resolves a function handle, or nil if v is not one.
func (vm *VM) FuncFromValue(v Value) *CompiledFunc {
	if !v.IsFunc() {
		return nil
	}
	vm.funcMu.RLock()
	defer vm.funcMu.RUnlock()
	id := int(v.FuncID())
	if id >= len(vm.funcs) {
		return nil
	}
	return vm.funcs[id]
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// ClassOf maps any value to its class. Every tag has one; heap objects
// carry theirs in their first field.
func (vm *VM) ClassOf(v Value) *Class {
	switch v.TagOf() {
	case TagNil:
		return vm.UndefinedObjectClass
	case TagTrue:
		return vm.TrueClass
	case TagFalse:
		return vm.FalseClass
	case TagInt:
		return vm.IntegerClass
	case TagFloat:
		return vm.FloatClass
	case TagSymbol:
		return vm.SymbolClass
	case TagFunc:
		return vm.FunctionClass
	case TagClass:
		return vm.ClassClass
	case TagObject:
		if obj := ObjectFromValue(v); obj != nil && obj.Class() != nil {
			return obj.Class()
		}
	}
	return vm.ObjectClass
}

// resolve finds the handler for (class-of receiver, selector), walking
// the base chain. Returns nil for message-not-understood.
func (vm *VM) resolve(receiver, selector Value) Handler {
	c := vm.ClassOf(receiver)
	return vm.Classes.Resolve(c.ID, selector.SymbolID())
}

func (vm *VM) diagnoseNotUnderstood(receiver, selector Value) {
	vm.log.Warningf("%s does not understand %s",
		vm.ClassOf(receiver).Name, vm.Symbols.Name(selector.SymbolID()))
}

// ---------------------------------------------------------------------------
// Public entry points
// ---------------------------------------------------------------------------

// ExecuteBytecode runs a compiled unit on the main thread and returns
// its final value, or nil when the execution aborts.
func (vm *VM) ExecuteBytecode(fn *CompiledFunc) Value {
	return vm.thread.Execute(fn)
}

// SendMessage dispatches selector to receiver with args, without going
// through a bytecode program. Primitives that perform operator calls
// re-enter dispatch through here. An unresolved send yields nil.
func (vm *VM) SendMessage(receiver, selector Value, args []Value) Value {
	if !selector.IsSymbol() {
		vm.log.Warningf("send: selector is not a symbol: %s", vm.Format(selector))
		return Nil
	}
	handler := vm.resolve(receiver, selector)
	if handler == nil {
		vm.diagnoseNotUnderstood(receiver, selector)
		return Nil
	}
	return handler.Invoke(vm, receiver, args)
}

// Send is SendMessage with the selector given as text.
func (vm *VM) Send(receiver Value, selector string, args ...Value) Value {
	return vm.SendMessage(receiver, vm.Symbols.SymbolValue(selector), args)
}
