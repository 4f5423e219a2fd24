// Package value defines the single carrier the expression generator passes
// between calls: an IR operand paired with its semantic type and an
// lvalue/rvalue flag.
package value

import (
	"github.com/llir/llvm/ir/value"

	"github.com/hassan/cc/internal/types"
)

// Value is the (ir_operand, type, is_lvalue) triple threaded through the
// expression generator. The operand is a real github.com/llir/llvm
// value.Value rather than a bare string — the builder needs the actual
// object to thread into its New* constructors — and its Ident()/String()
// rendering is exactly the operand spelling that ends up in the emitted IR.
//
// An lvalue's Operand is the IR pointer to the storage; IsLvalue callers
// must Load through it to obtain the rvalue. Everything else is already an
// rvalue in registers.
type Value struct {
	Operand value.Value
	Type    *types.Type
	Lvalue  bool
}

// New constructs an rvalue.
func New(operand value.Value, t *types.Type) Value {
	return Value{Operand: operand, Type: t}
}

// NewLvalue constructs an lvalue whose Operand is the pointer to storage.
func NewLvalue(ptr value.Value, t *types.Type) Value {
	return Value{Operand: ptr, Type: t, Lvalue: true}
}

// IsLvalue reports whether v designates storage rather than a register.
func (v Value) IsLvalue() bool { return v.Lvalue }

// AsRvalue strips the lvalue flag, leaving Operand/Type untouched. Callers
// that already loaded through the pointer use this to record the result.
func (v Value) AsRvalue(loaded value.Value) Value {
	return Value{Operand: loaded, Type: v.Type}
}
