package codegen

import (
	"testing"

	"github.com/hassan/cc/internal/types"
)

func TestResolveType_Scalars(t *testing.T) {
	_, c := newCtx()
	tests := []struct {
		spelling string
		want     *types.Type
	}{
		{"int", types.Int},
		{"unsigned int", types.UInt},
		{"unsigned", types.UInt},
		{"long", types.Long},
		{"unsigned long", types.ULong},
		{"char", types.Char},
		{"unsigned char", types.UChar},
		{"signed char", types.SChar},
		{"short", types.Short},
		{"unsigned short", types.UShort},
		{"float", types.Float},
		{"double", types.Double},
		{"long double", types.LongDouble},
		{"void", types.Void},
		{"bool", types.Bool},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			got, err := ResolveType(c, typeNode(tt.spelling))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveType(%q) = %v, want %v", tt.spelling, got, tt.want)
			}
		})
	}
}

func TestResolveType_Qualifiers(t *testing.T) {
	_, c := newCtx()
	got, err := ResolveType(c, typeNode("const int"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Quals&types.QualConst == 0 {
		t.Error("expected the const qualifier to be set")
	}
	if got.Kind != types.KindInt {
		t.Errorf("const int should still resolve to an int kind, got %v", got.Kind)
	}
}

func TestResolveType_Pointer(t *testing.T) {
	_, c := newCtx()
	got, err := ResolveType(c, ptrType(typeNode("char")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsPointer() || got.Pointee != types.Char {
		t.Errorf("ResolveType(ptr char) = %v, want pointer to char", got)
	}
}

func TestResolveType_Array(t *testing.T) {
	_, c := newCtx()
	got, err := ResolveType(c, typeNode("array", typeNode("int"), intLit("4")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsArray() || got.Len != 4 || got.Elem != types.Int {
		t.Errorf("ResolveType(array int 4) = %v, want [4]int", got)
	}
}

func TestResolveType_ArrayBadLength(t *testing.T) {
	_, c := newCtx()
	_, err := ResolveType(c, typeNode("array", typeNode("int"), ident("n")))
	if err == nil {
		t.Error("a non-literal array length should be rejected")
	}
}

func TestResolveType_StructForwardDeclaresOnFirstUse(t *testing.T) {
	_, c := newCtx()
	got, err := ResolveType(c, typeNode("struct Widget"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsStruct() || !got.IsIncomplete() {
		t.Error("referencing an unseen tag should forward-declare an incomplete struct")
	}
	again, err := c.LookupTag("Widget")
	if err != nil || again != got {
		t.Error("the forward declaration should be installed in the tag table")
	}
}

func TestResolveType_UnrecognizedSpecifier(t *testing.T) {
	_, c := newCtx()
	if _, err := ResolveType(c, typeNode("widget")); err == nil {
		t.Error("an unrecognized base-type keyword should error")
	}
}

func TestResolveType_Nil(t *testing.T) {
	_, c := newCtx()
	got, err := ResolveType(c, nil)
	if err != nil || got != types.Void {
		t.Errorf("ResolveType(nil) = %v, %v, want void, nil", got, err)
	}
}
