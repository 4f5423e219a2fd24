package ctx

import (
	"github.com/hassan/cc/internal/types"
	"github.com/hassan/cc/internal/value"
)

// AsIRType projects a semantic type to its IR spelling.
func AsIRType(t *types.Type) string {
	return t.IRName()
}

// AsIRValue projects a Value to its (ir_type, ir_operand) pair: the
// ir_type gains a trailing pointer indirection iff the value is an
// lvalue, since an lvalue's Operand is the pointer to storage, not the
// value itself.
func AsIRValue(v value.Value) (irType string, irOperand string) {
	if v.IsLvalue() {
		return types.NewPointer(v.Type, types.QualNone).IRName(), v.Operand.Ident()
	}
	return v.Type.IRName(), v.Operand.Ident()
}
