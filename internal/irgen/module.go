// Package irgen implements the IR builder: an append-only module with
// function and basic-block cursors, fresh id/label allocation, and the
// instruction-emitting operations the expression and statement generators
// call.
//
// Built directly on github.com/llir/llvm/ir, so the generated module is
// literal, verifiable LLVM IR text (llir/llvm's own String() rendering)
// rather than a look-alike format that would need to be kept in sync by
// hand against the real thing.
package irgen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
)

// Module wraps one llir/llvm module plus bookkeeping llir/llvm doesn't
// track itself: a human-readable label counter per prefix (llir/llvm
// numbers anonymous blocks on render; this keeps `if.then`, `while.cond`,
// … readable in the output instead) and a per-bytes cache of interned
// string constants.
type Module struct {
	M *ir.Module

	labelCounters map[string]int
	internedStrs  map[string]*ir.Global
}

// NewModule creates an empty module and predeclares the one external
// function every program using the language's built-in variadic print
// call requires.
func NewModule() *Module {
	m := &Module{
		M:             ir.NewModule(),
		labelCounters: make(map[string]int),
		internedStrs:  make(map[string]*ir.Global),
	}
	m.declarePrintf()
	return m
}

func (m *Module) declarePrintf() {
	param := ir.NewParam("", lltypes.NewPointer(lltypes.I8))
	f := m.M.NewFunc("printf", lltypes.I32, param)
	f.Sig.Variadic = true
}

// Printf returns the predeclared printf function, for use as a call callee.
func (m *Module) Printf() *ir.Func {
	for _, f := range m.M.Funcs {
		if f.GlobalName == "printf" {
			return f
		}
	}
	panic("internal error: printf not declared")
}

// FreshLabel returns a unique, human-readable basic-block label with the
// given prefix (e.g. "if.then" → "if.then", "if.then.1", "if.then.2", …).
func (m *Module) FreshLabel(prefix string) string {
	n := m.labelCounters[prefix]
	m.labelCounters[prefix]++
	if n == 0 {
		return prefix
	}
	return fmt.Sprintf("%s.%d", prefix, n)
}

// DefStr interns a `[N x i8]` constant for the given raw bytes (already
// NUL-terminated by the caller per C string-literal semantics) and returns
// its global pointer. Repeated calls with identical bytes share one global.
func (m *Module) DefStr(bytes []byte) *ir.Global {
	key := string(bytes)
	if g, ok := m.internedStrs[key]; ok {
		return g
	}
	name := fmt.Sprintf(".str.%d", len(m.internedStrs))
	data := constant.NewCharArrayFromString(string(bytes))
	g := m.M.NewGlobalDef(name, data)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
	m.internedStrs[key] = g
	return g
}

// RegisterNamedStruct installs an already-projected *lltypes.StructType as
// the module's `%name = type …` definition. Callers pass the SAME object
// internal/types' LLVM() cached on the semantic Type — never a freshly
// constructed one — so the struct's Go identity stays single-sourced
// whether it is registered complete (struct declaration codegen) or still
// opaque (a struct tag that only ever went out of scope as a forward
// declaration).
func (m *Module) RegisterNamedStruct(name string, st *lltypes.StructType) *lltypes.StructType {
	if st.TypeName == "" {
		st.TypeName = name
	}
	m.M.NewTypeDef(name, st)
	return st
}

// String renders the module as LLVM IR text.
func (m *Module) String() string {
	return m.M.String()
}
