package irgen

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/hassan/cc/internal/types"
)

func TestNewFunc_EntersEntryBlock(t *testing.T) {
	b := NewBuilder()
	f := b.NewFunc("main", types.Int, nil, nil, false)
	if b.CurrentFunc != f {
		t.Error("NewFunc should make the new function current")
	}
	if b.CurrentBlock == nil {
		t.Fatal("NewFunc should open an entry block")
	}
	if b.CurrentBlock.LocalName != "entry" {
		t.Errorf("entry block name = %q, want entry", b.CurrentBlock.LocalName)
	}
}

func TestDeclareThenEnterFuncBody(t *testing.T) {
	b := NewBuilder()
	f := b.DeclareFunc("foo", types.Void, []*types.Type{types.Int}, []string{"x"}, false)
	if b.CurrentFunc == f {
		t.Error("DeclareFunc should not open a body or make the function current")
	}
	entry := b.EnterFuncBody(f)
	if b.CurrentFunc != f || b.CurrentBlock != entry {
		t.Error("EnterFuncBody should make f current with its entry block selected")
	}
}

func TestAllocaLandsInEntryBlockNotCurrent(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Void, nil, nil, false)

	entry := b.entryBlock
	other := b.CurrentFunc.NewBlock("other")
	b.CurrentBlock = other
	b.Alloca(types.Int, "x") // Alloca always targets the entry block, never the current one
	b.Ret(nil)
	b.CurrentBlock = entry
	b.Br(other)

	out := b.Module.String()
	entryText := out[strings.Index(out, "entry:"):strings.Index(out, "other:")]
	if !strings.Contains(entryText, "alloca") {
		t.Errorf("alloca should be rendered in the entry block regardless of the current block, got:\n%s", out)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Void, nil, nil, false)

	ptr := b.Alloca(types.Int, "x")
	b.Store(ConstInt(types.Int, 42), ptr)
	b.Load(types.Int, ptr)
	b.Ret(nil)

	out := b.Module.String()
	if !strings.Contains(out, "store i32 42") || !strings.Contains(out, "load i32") {
		t.Errorf("expected a store and a load in the rendered IR, got:\n%s", out)
	}
}

func TestICmpUsesGivenPredicate(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Void, nil, nil, false)
	x, y := ConstInt(types.Int, 1), ConstInt(types.Int, 2)
	b.ICmp(enum.IPredSLT, x, y)
	b.Ret(nil)
	out := b.Module.String()
	if !strings.Contains(out, "icmp slt") {
		t.Errorf("expected an icmp slt instruction, got:\n%s", out)
	}
}

func TestBr_IdempotentOnAlreadyTerminatedBlock(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Void, nil, nil, false)
	target := b.CurrentFunc.NewBlock("target")
	other := b.CurrentFunc.NewBlock("other")

	b.Br(target)
	if b.CurrentBlock.Term == nil {
		t.Fatal("Br should terminate the current block")
	}
	firstTerm := b.CurrentBlock.Term
	b.Br(other) // should be a no-op: the block already has a terminator
	if b.CurrentBlock.Term != firstTerm {
		t.Error("Br should not overwrite an existing terminator")
	}
}

func TestRet_IdempotentOnAlreadyTerminatedBlock(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Int, nil, nil, false)
	b.Ret(ConstInt(types.Int, 1))
	firstTerm := b.CurrentBlock.Term
	b.Ret(ConstInt(types.Int, 2))
	if b.CurrentBlock.Term != firstTerm {
		t.Error("Ret should not overwrite an existing terminator")
	}
}

func TestMemberAndArrayElemEmitGetElementPtr(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Void, nil, nil, false)

	st := types.NewStruct("P", []types.Field{{Name: "x", Type: types.Int}, {Name: "y", Type: types.Int}}, "P")
	ptr := b.Alloca(st, "p")
	b.Member(st, ptr, 1)

	arrTy := types.NewArray(types.Int, 4)
	arrPtr := b.Alloca(arrTy, "arr")
	b.ArrayElem(arrTy, arrPtr, 2)
	b.Ret(nil)

	out := b.Module.String()
	if strings.Count(out, "getelementptr") != 2 {
		t.Errorf("expected two getelementptr instructions, got:\n%s", out)
	}
}

func TestModule_FreshLabelUniqueness(t *testing.T) {
	m := NewModule()
	first := m.FreshLabel("if.then")
	second := m.FreshLabel("if.then")
	third := m.FreshLabel("if.then")
	if first != "if.then" || second != "if.then.1" || third != "if.then.2" {
		t.Errorf("FreshLabel sequence = %q, %q, %q", first, second, third)
	}
}

func TestModule_DefStrInterning(t *testing.T) {
	m := NewModule()
	g1 := m.DefStr([]byte("hi\x00"))
	g2 := m.DefStr([]byte("hi\x00"))
	g3 := m.DefStr([]byte("bye\x00"))
	if g1 != g2 {
		t.Error("DefStr should return the same global for identical byte content")
	}
	if g1 == g3 {
		t.Error("DefStr should return distinct globals for distinct content")
	}
}

func TestModule_RegisterNamedStruct(t *testing.T) {
	m := NewModule()
	st := types.NewStruct("Point", []types.Field{{Name: "x", Type: types.Int}}, "Point")
	llst := types.LLVM(st).(*lltypes.StructType)
	registered := m.RegisterNamedStruct("Point", llst)
	if registered != llst {
		t.Error("RegisterNamedStruct should return the same object it was given")
	}
	if registered.TypeName != "Point" {
		t.Errorf("TypeName = %q, want Point", registered.TypeName)
	}
	if !strings.Contains(m.String(), "%Point = type") {
		t.Errorf("expected a %%Point = type definition in the module, got:\n%s", m.String())
	}
}

func TestModule_PrintfPredeclared(t *testing.T) {
	m := NewModule()
	f := m.Printf()
	if f.GlobalName != "printf" {
		t.Errorf("Printf().GlobalName = %q, want printf", f.GlobalName)
	}
	if !f.Sig.Variadic {
		t.Error("printf must be declared variadic")
	}
}

func TestModule_StringRendersIR(t *testing.T) {
	b := NewBuilder()
	b.NewFunc("main", types.Int, nil, nil, false)
	b.Ret(ConstInt(types.Int, 0))
	out := b.Module.String()
	if !strings.Contains(out, "define") || !strings.Contains(out, "main") {
		t.Errorf("module String() should render the defined function, got:\n%s", out)
	}
}
