package ctx

import (
	"testing"

	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/irgen"
	"github.com/hassan/cc/internal/types"
)

func newTestContext() *Context {
	b := irgen.NewBuilder()
	c := New(b)
	b.NewFunc("test", types.Void, nil, nil, false)
	return c
}

func TestDeclareAndLookupVar(t *testing.T) {
	c := newTestContext()
	ptr := c.Builder.Alloca(types.Int, "x")
	if err := c.DeclareVar("x", &VarEntry{Type: types.Int, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, err := c.LookupVar("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Type() != types.Int {
		t.Errorf("LookupVar type = %v, want int", entry.Type())
	}
}

func TestDeclareVar_Redeclaration(t *testing.T) {
	c := newTestContext()
	ptr := c.Builder.Alloca(types.Int, "x")
	if err := c.DeclareVar("x", &VarEntry{Type: types.Int, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.DeclareVar("x", &VarEntry{Type: types.Int, Ptr: ptr})
	if cerr.KindOf(err) != cerr.Redeclaration {
		t.Errorf("expected Redeclaration, got %v", cerr.KindOf(err))
	}
}

func TestLookupVar_Undeclared(t *testing.T) {
	c := newTestContext()
	_, err := c.LookupVar("nope")
	if cerr.KindOf(err) != cerr.Undeclared {
		t.Errorf("expected Undeclared, got %v", cerr.KindOf(err))
	}
}

func TestScopeShadowing(t *testing.T) {
	c := newTestContext()
	outer := c.Builder.Alloca(types.Int, "x")
	if err := c.DeclareVar("x", &VarEntry{Type: types.Int, Ptr: outer}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.EnterScope()
	inner := c.Builder.Alloca(types.Double, "x")
	if err := c.DeclareVar("x", &VarEntry{Type: types.Double, Ptr: inner}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, _ := c.LookupVar("x")
	if entry.Type() != types.Double {
		t.Errorf("inner scope lookup = %v, want double (shadowing outer)", entry.Type())
	}
	c.LeaveScope()

	entry, _ = c.LookupVar("x")
	if entry.Type() != types.Int {
		t.Errorf("after leaving scope, lookup = %v, want int (outer restored)", entry.Type())
	}
}

func TestDeclareAndLookupTag(t *testing.T) {
	c := newTestContext()
	st := types.NewStruct("Point", nil, "Point")
	c.DeclareTag("Point", st)
	got, err := c.LookupTag("Point")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != st {
		t.Error("LookupTag should return the exact declared Type object")
	}
}

func TestLookupTag_Undeclared(t *testing.T) {
	c := newTestContext()
	_, err := c.LookupTag("Nope")
	if cerr.KindOf(err) != cerr.Undeclared {
		t.Errorf("expected Undeclared, got %v", cerr.KindOf(err))
	}
}

func TestSwitchFrame_DuplicateCase(t *testing.T) {
	c := newTestContext()
	c.EnterSwitch()
	defer c.LeaveSwitch()

	block := c.Builder.CurrentFunc.NewBlock("case.1")
	if err := c.DefineCase(1, block); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.DefineCase(1, block)
	if cerr.KindOf(err) != cerr.Redeclaration {
		t.Errorf("duplicate case value should fail with Redeclaration, got %v", cerr.KindOf(err))
	}
}

func TestSwitchFrame_CaseOrderMatchesDeclaration(t *testing.T) {
	c := newTestContext()
	c.EnterSwitch()
	defer c.LeaveSwitch()

	b1 := c.Builder.CurrentFunc.NewBlock("case.1")
	b2 := c.Builder.CurrentFunc.NewBlock("case.2")
	if err := c.DefineCase(1, b1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.DefineCase(2, b2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.NextCaseLabel(); got != b1 {
		t.Error("first NextCaseLabel should return the first-declared case")
	}
	if got := c.NextCaseLabel(); got != b2 {
		t.Error("second NextCaseLabel should return the second-declared case")
	}
	if got := c.NextCaseLabel(); got != nil {
		t.Error("NextCaseLabel should return nil once exhausted")
	}
}

func TestLoopFrame_BreakContinue(t *testing.T) {
	c := newTestContext()
	breakBlock := c.Builder.CurrentFunc.NewBlock("loop.end")
	continueBlock := c.Builder.CurrentFunc.NewBlock("loop.cond")

	c.PushLoop(&LoopFrame{BreakBlock: breakBlock, ContinueBlock: continueBlock})
	defer c.PopLoop()

	got, err := c.BreakTarget()
	if err != nil || got != breakBlock {
		t.Errorf("BreakTarget() = %v, %v, want %v, nil", got, err, breakBlock)
	}
	got, err = c.ContinueTarget()
	if err != nil || got != continueBlock {
		t.Errorf("ContinueTarget() = %v, %v, want %v, nil", got, err, continueBlock)
	}
}

func TestLoopFrame_ContinuePassesThroughSwitch(t *testing.T) {
	c := newTestContext()
	loopEnd := c.Builder.CurrentFunc.NewBlock("loop.end")
	loopCond := c.Builder.CurrentFunc.NewBlock("loop.cond")
	switchEnd := c.Builder.CurrentFunc.NewBlock("switch.end")

	c.PushLoop(&LoopFrame{BreakBlock: loopEnd, ContinueBlock: loopCond})
	c.PushLoop(&LoopFrame{BreakBlock: switchEnd, IsSwitch: true})
	defer c.PopLoop()
	defer c.PopLoop()

	// break targets the innermost frame (the switch)...
	b, err := c.BreakTarget()
	if err != nil || b != switchEnd {
		t.Errorf("BreakTarget() inside switch = %v, %v, want %v, nil", b, err, switchEnd)
	}
	// ...but continue skips the switch frame and targets the loop.
	cont, err := c.ContinueTarget()
	if err != nil || cont != loopCond {
		t.Errorf("ContinueTarget() inside switch = %v, %v, want %v, nil", cont, err, loopCond)
	}
}

func TestBreakContinue_OutsideLoop(t *testing.T) {
	c := newTestContext()
	if _, err := c.BreakTarget(); cerr.KindOf(err) != cerr.Syntax {
		t.Errorf("break outside loop should fail with Syntax, got %v", cerr.KindOf(err))
	}
	if _, err := c.ContinueTarget(); cerr.KindOf(err) != cerr.Syntax {
		t.Errorf("continue outside loop should fail with Syntax, got %v", cerr.KindOf(err))
	}
}

func TestReserveLabel_Idempotent(t *testing.T) {
	c := newTestContext()
	c.EnterFunc(types.Void)
	first := c.ReserveLabel("done")
	second := c.ReserveLabel("done")
	if first != second {
		t.Error("ReserveLabel should return the same block for the same name")
	}
}
