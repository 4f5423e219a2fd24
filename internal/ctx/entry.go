// Package ctx implements the compilation environment: a stack of lexical
// scopes holding two disjoint namespaces — ordinary identifiers and struct
// tags — plus the switch-frame and loop break/continue bookkeeping the
// statement generator needs.
//
// Two disjoint namespaces (ordinary identifiers, tag types) because a
// struct tag and a variable of the same spelling may coexist (`struct s`
// and `int s;`), exactly like C.
package ctx

import (
	"github.com/llir/llvm/ir"
	llvalue "github.com/llir/llvm/ir/value"

	"github.com/hassan/cc/internal/types"
)

// VarEntry is what the "vars" namespace of a scope frame maps a name to:
// the semantic type and the IR storage pointer (alloca or global).
type VarEntry struct {
	Type *types.Type
	Ptr  llvalue.Value
}

// FuncEntry records a declared function's signature and its callee value,
// consulted by call generation to tell a known variadic function apart
// from an ordinary one.
type FuncEntry struct {
	Type     *types.Type
	Callee   *ir.Func
	Variadic bool
}

// Entry is installed in a scope's vars map; exactly one of Var/Func is
// set, the two kinds this Context actually distinguishes (functions call
// differently from variables; everything else — parameters, locals,
// globals — shares the Var shape).
type Entry struct {
	Var  *VarEntry
	Func *FuncEntry
}

// Type returns the entry's semantic type regardless of which variant it is.
func (e *Entry) Type() *types.Type {
	if e.Func != nil {
		return e.Func.Type
	}
	return e.Var.Type
}

// CaseLabel is one (case value, target block) pair of a switch frame.
type CaseLabel struct {
	Value int64
	Block *ir.Block
}
