package codegen

import (
	"testing"

	"github.com/hassan/cc/internal/ctx"
	"github.com/hassan/cc/internal/irgen"
	"github.com/hassan/cc/internal/types"
)

// newExprCtx opens a current function so Alloca has somewhere to land. Tests
// using it only inspect types, never Module.String(), so the scratch
// function's entry block is never rendered and never needs a terminator.
func newExprCtx() (*irgen.Builder, *ctx.Context) {
	b := irgen.NewBuilder()
	c := ctx.New(b)
	b.NewFunc("scratch", types.Void, nil, nil, false)
	return b, c
}

func TestInferType_Literals(t *testing.T) {
	_, c := newExprCtx()
	if got, err := InferType(c, intLit("1")); err != nil || got != types.Int {
		t.Errorf("InferType(intLit) = %v, %v, want int, nil", got, err)
	}
	if got, err := InferType(c, nd("FloatLit", "1.0")); err != nil || got != types.Double {
		t.Errorf("InferType(floatLit) = %v, %v, want double, nil", got, err)
	}
	if got, err := InferType(c, nd("FloatLit", "1.0L")); err != nil || got != types.LongDouble {
		t.Errorf("InferType(longDoubleLit) = %v, %v, want long double, nil", got, err)
	}
	if got, err := InferType(c, strLit(`"hi"`)); err != nil || !got.IsArray() || got.Elem != types.Char {
		t.Errorf("InferType(stringLit) = %v, %v, want [N]char, nil", got, err)
	}
}

func TestInferType_Ident(t *testing.T) {
	_, c := newExprCtx()
	ptr := c.Builder.Alloca(types.Double, "x")
	if err := c.DeclareVar("x", &ctx.VarEntry{Type: types.Double, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := InferType(c, ident("x"))
	if err != nil || got != types.Double {
		t.Errorf("InferType(ident x) = %v, %v, want double, nil", got, err)
	}
}

func TestInferType_SizeofAlwaysUIntPtr(t *testing.T) {
	_, c := newExprCtx()
	n := nd("Unary", "sizeof", ident("x"))
	got, err := InferType(c, n)
	if err != nil || got != types.UIntPtr {
		t.Errorf("InferType(sizeof) = %v, %v, want uintptr, nil", got, err)
	}
}

func TestInferType_BinaryComparisonIsInt(t *testing.T) {
	_, c := newExprCtx()
	ptr := c.Builder.Alloca(types.Double, "x")
	if err := c.DeclareVar("x", &ctx.VarEntry{Type: types.Double, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := InferType(c, binary("<", ident("x"), intLit("1")))
	if err != nil || got != types.Int {
		t.Errorf("InferType(x < 1) = %v, %v, want int, nil", got, err)
	}
}

func TestInferType_BinaryArithmeticUsesCommonType(t *testing.T) {
	_, c := newExprCtx()
	ptr := c.Builder.Alloca(types.Double, "x")
	if err := c.DeclareVar("x", &ctx.VarEntry{Type: types.Double, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := InferType(c, binary("+", ident("x"), intLit("1")))
	if err != nil || got != types.Double {
		t.Errorf("InferType(x + 1) = %v, %v, want double, nil", got, err)
	}
}

func TestInferType_AddrOfBuildsPointer(t *testing.T) {
	_, c := newExprCtx()
	ptr := c.Builder.Alloca(types.Int, "x")
	if err := c.DeclareVar("x", &ctx.VarEntry{Type: types.Int, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := InferType(c, nd("AddrOf", "", ident("x")))
	if err != nil || !got.IsPointer() || got.Pointee != types.Int {
		t.Errorf("InferType(&x) = %v, %v, want pointer to int, nil", got, err)
	}
}

func TestInferType_MemberLooksUpField(t *testing.T) {
	_, c := newExprCtx()
	st := types.NewStruct("P", []types.Field{{Name: "y", Type: types.Double}}, "P")
	c.DeclareTag("P", st)
	ptr := c.Builder.Alloca(st, "p")
	if err := c.DeclareVar("p", &ctx.VarEntry{Type: st, Ptr: ptr}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := InferType(c, member(ident("p"), "y"))
	if err != nil || got != types.Double {
		t.Errorf("InferType(p.y) = %v, %v, want double, nil", got, err)
	}
}

func TestInferType_CastUsesTheTargetType(t *testing.T) {
	_, c := newExprCtx()
	got, err := InferType(c, nd("Cast", "", typeNode("double"), intLit("1")))
	if err != nil || got != types.Double {
		t.Errorf("InferType((double)1) = %v, %v, want double, nil", got, err)
	}
}
