// Package vm implements the Rill virtual machine.
//
// This package contains:
//   - NaN-boxed value representation
//   - Object layout and slot access
//   - Class-based message dispatch
//   - Bytecode interpreter with explicit call frames
//   - Primitive class implementations
//   - Wire encoding and the content-addressed program store
package vm
