// Package compiler is the bytecode emitter for the Rill VM: a small
// s-expression reader and a code generator producing compiled units.
// The engine itself treats this package as an external collaborator;
// anything that can produce a vm.CompiledFunc can drive the VM.
package compiler

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Position
	node() // marker method
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// IntLit represents an integer literal.
type IntLit struct {
	PosVal Position
	Value  int64
}

func (n *IntLit) Pos() Position { return n.PosVal }
func (n *IntLit) node()         {}
func (n *IntLit) expr()         {}

// FloatLit represents a floating-point literal.
type FloatLit struct {
	PosVal Position
	Value  float64
}

func (n *FloatLit) Pos() Position { return n.PosVal }
func (n *FloatLit) node()         {}
func (n *FloatLit) expr()         {}

// BoolLit represents the literals true and false.
type BoolLit struct {
	PosVal Position
	Value  bool
}

func (n *BoolLit) Pos() Position { return n.PosVal }
func (n *BoolLit) node()         {}
func (n *BoolLit) expr()         {}

// NilLit represents the literal nil.
type NilLit struct {
	PosVal Position
}

func (n *NilLit) Pos() Position { return n.PosVal }
func (n *NilLit) node()         {}
func (n *NilLit) expr()         {}

// Ident references a global binding by name.
type Ident struct {
	PosVal Position
	Name   string
}

func (n *Ident) Pos() Position { return n.PosVal }
func (n *Ident) node()         {}
func (n *Ident) expr()         {}

// Quote yields its datum as a constant without evaluation: a symbol,
// or a pair chain of atoms.
type Quote struct {
	PosVal Position
	Datum  Datum
}

func (n *Quote) Pos() Position { return n.PosVal }
func (n *Quote) node()         {}
func (n *Quote) expr()         {}

// Define binds a name in the innermost global scope.
type Define struct {
	PosVal Position
	Name   string
	Value  Expr
}

func (n *Define) Pos() Position { return n.PosVal }
func (n *Define) node()         {}
func (n *Define) expr()         {}

// Send is a message send: the selector applied to a receiver and
// arguments, with the receiver acting as argument zero.
type Send struct {
	PosVal   Position
	Selector string
	Receiver Expr
	Args     []Expr
}

func (n *Send) Pos() Position { return n.PosVal }
func (n *Send) node()         {}
func (n *Send) expr()         {}

// ---------------------------------------------------------------------------
// Quoted data
// ---------------------------------------------------------------------------

// Datum is quoted source data, built by the reader.
type Datum interface {
	datum() // marker method
}

// SymbolDatum is a quoted symbol.
type SymbolDatum struct{ Name string }

// IntDatum is a quoted integer.
type IntDatum struct{ Value int64 }

// FloatDatum is a quoted float.
type FloatDatum struct{ Value float64 }

// BoolDatum is a quoted boolean.
type BoolDatum struct{ Value bool }

// NilDatum is a quoted nil.
type NilDatum struct{}

// ListDatum is a quoted proper list.
type ListDatum struct{ Items []Datum }

func (SymbolDatum) datum() {}
func (IntDatum) datum()    {}
func (FloatDatum) datum()  {}
func (BoolDatum) datum()   {}
func (NilDatum) datum()    {}
func (ListDatum) datum()   {}
