// Package types implements the type system for the compiler: a tagged
// variant over every descriptor a C-like language needs, plus the
// predicates, composition and compatibility rules the generator relies on.
//
// DESIGN PHILOSOPHY:
// A strong, static type system catches errors at compile time and enables
// optimizations. Our type system supports:
// 1. Scalar types (signed/unsigned integers of several widths, floating
//    kinds, bool)
// 2. Composite types (pointers, arrays, structs)
// 3. Function types, including variadics
// 4. Qualifiers (const, volatile) orthogonal to the underlying kind
// 5. Nominal struct typing, structural everything else
//
// KEY DESIGN CHOICES:
//   - One Type struct with a Kind discriminator rather than one Go type per
//     kind: the language's types form a closed sum, and a single variant
//     keeps completion/compatibility as ordinary functions over a Kind
//     switch instead of spread across N receiver methods.
//   - Struct identity is nominal (by tag); pointers/arrays/functions compare
//     structurally.
//   - Explicit conversions only (internal/convert owns the policy; this
//     package only describes shapes).
package types

import (
	"fmt"
	"strings"

	lltypes "github.com/llir/llvm/ir/types"
)

// Kind discriminates the variant. Kept unexported-construction (via the
// predeclared singletons and the New* composers below) so every Type in the
// program is well-formed by construction.
type Kind int

const (
	Invalid Kind = iota
	KindVoid
	KindBool
	KindSChar
	KindUChar
	KindChar // plain char; distinct signedness from SChar/UChar per C rules
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindFloat
	KindDouble
	KindLongDouble
	KindUIntPtr
	KindPtrDiff
	KindPointer
	KindArray
	KindStruct
	KindFunction
)

// Qualifiers is a small bitset; const/volatile are the only two the
// language's declarators admit.
type Qualifiers uint8

const (
	QualNone     Qualifiers = 0
	QualConst    Qualifiers = 1 << 0
	QualVolatile Qualifiers = 1 << 1
)

// Field is one member of a struct's field sequence.
type Field struct {
	Name string
	Type *Type
}

// Type is the single tagged-variant type descriptor. Which fields are
// meaningful depends on Kind:
//   - Pointer: Pointee
//   - Array: Elem, Len
//   - Struct: Tag, Fields (empty ⇒ incomplete), IRNameHint
//   - Function: Ret, Params, Variadic
//   - everything else: only Kind and Quals matter
type Type struct {
	Kind  Kind
	Quals Qualifiers

	Pointee *Type

	Elem *Type
	Len  int

	Tag        string
	Fields     []Field
	IRNameHint string

	Ret      *Type
	Params   []*Type
	Variadic bool

	irCache lltypes.Type
}

// Predeclared scalar singletons, shared by every reference to that kind.
var (
	Void       = &Type{Kind: KindVoid}
	Bool       = &Type{Kind: KindBool}
	SChar      = &Type{Kind: KindSChar}
	UChar      = &Type{Kind: KindUChar}
	Char       = &Type{Kind: KindChar}
	Short      = &Type{Kind: KindShort}
	UShort     = &Type{Kind: KindUShort}
	Int        = &Type{Kind: KindInt}
	UInt       = &Type{Kind: KindUInt}
	Long       = &Type{Kind: KindLong}
	ULong      = &Type{Kind: KindULong}
	Float      = &Type{Kind: KindFloat}
	Double     = &Type{Kind: KindDouble}
	LongDouble = &Type{Kind: KindLongDouble}
	UIntPtr    = &Type{Kind: KindUIntPtr}
	PtrDiff    = &Type{Kind: KindPtrDiff}
	ErrType    = &Type{Kind: Invalid}
)

// NewPointer builds pointer(pointee, qualifiers). The pointee may be
// incomplete; that is only an error at dereference time (internal/codegen).
func NewPointer(pointee *Type, quals Qualifiers) *Type {
	return &Type{Kind: KindPointer, Pointee: pointee, Quals: quals}
}

// NewArray builds array(element, length).
func NewArray(elem *Type, length int) *Type {
	return &Type{Kind: KindArray, Elem: elem, Len: length}
}

// NewStruct builds struct(name, fields, ir_name). An empty fields slice
// means incomplete (forward-declared but not yet defined).
func NewStruct(tag string, fields []Field, irName string) *Type {
	return &Type{Kind: KindStruct, Tag: tag, Fields: fields, IRNameHint: irName}
}

// NewFunction builds function(return, params, variadic).
func NewFunction(ret *Type, params []*Type, variadic bool) *Type {
	return &Type{Kind: KindFunction, Ret: ret, Params: params, Variadic: variadic}
}

// Unqualify strips top-level qualifiers, returning a type equal in every
// other respect (sharing substructure — qualifiers never affect layout).
func Unqualify(t *Type) *Type {
	if t.Quals == QualNone {
		return t
	}
	cp := *t
	cp.Quals = QualNone
	cp.irCache = nil
	return &cp
}

// IsIncomplete reports whether t is a struct whose field list has not yet
// been installed.
func (t *Type) IsIncomplete() bool {
	return t.Kind == KindStruct && t.Fields == nil
}

func (t *Type) IsVoid() bool     { return t.Kind == KindVoid }
func (t *Type) IsBool() bool     { return t.Kind == KindBool }
func (t *Type) IsPointer() bool  { return t.Kind == KindPointer }
func (t *Type) IsArray() bool    { return t.Kind == KindArray }
func (t *Type) IsStruct() bool   { return t.Kind == KindStruct }
func (t *Type) IsFunction() bool { return t.Kind == KindFunction }

// IsInteger reports whether t is any integer kind (bool excluded; the
// language treats bool as its own scalar, not an integer family member).
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case KindSChar, KindUChar, KindChar, KindShort, KindUShort,
		KindInt, KindUInt, KindLong, KindULong, KindUIntPtr, KindPtrDiff:
		return true
	}
	return false
}

// IsFloating reports whether t is float, double or long double.
func (t *Type) IsFloating() bool {
	switch t.Kind {
	case KindFloat, KindDouble, KindLongDouble:
		return true
	}
	return false
}

// IsArithmetic is integer-or-floating (never bool, pointer, aggregate).
func (t *Type) IsArithmetic() bool { return t.IsInteger() || t.IsFloating() }

// IsScalar is arithmetic, bool, or pointer — every type valid as an operand
// to the logical/relational/! operator families.
func (t *Type) IsScalar() bool { return t.IsArithmetic() || t.Kind == KindBool || t.IsPointer() }

// IsSigned reports the signedness of an integer kind. Meaningless (returns
// false) for non-integers.
func (t *Type) IsSigned() bool {
	switch t.Kind {
	case KindSChar, KindChar, KindShort, KindInt, KindLong, KindPtrDiff:
		return true
	}
	return false
}

// IsSubInt reports whether t is narrower than int — the integer-promotion
// trigger set: bool and every char/short variant, signed or unsigned.
func (t *Type) IsSubInt() bool {
	switch t.Kind {
	case KindBool, KindSChar, KindUChar, KindChar, KindShort, KindUShort:
		return true
	}
	return false
}

// Rank orders integer kinds for promotion/UAC comparisons; higher outranks
// lower. Only meaningful within IsInteger() types.
func (t *Type) Rank() int {
	switch t.Kind {
	case KindBool:
		return 0
	case KindSChar, KindUChar, KindChar:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt:
		return 3
	case KindLong, KindULong, KindUIntPtr, KindPtrDiff:
		return 4
	}
	return -1
}

// SizeInBytes follows the target's (LP64-like) layout the output IR assumes.
func (t *Type) SizeInBytes() int {
	switch t.Kind {
	case KindVoid:
		return 0
	case KindBool, KindSChar, KindUChar, KindChar:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt, KindFloat:
		return 4
	case KindLong, KindULong, KindUIntPtr, KindPtrDiff, KindDouble, KindPointer:
		return 8
	case KindLongDouble:
		return 16 // x87 extended, padded to 16 bytes alignment
	case KindArray:
		return t.Elem.SizeInBytes() * t.Len
	case KindStruct:
		total := 0
		for _, f := range t.Fields {
			total += f.Type.SizeInBytes()
		}
		return total
	}
	return 0
}

// Compatible reports structural equality modulo top-level qualifiers.
// Structs compare nominally (by tag); everything else structurally.
func Compatible(a, b *Type) bool {
	a, b = Unqualify(a), Unqualify(b)
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPointer:
		return Compatible(a.Pointee, b.Pointee)
	case KindArray:
		return a.Len == b.Len && Compatible(a.Elem, b.Elem)
	case KindStruct:
		return a.Tag == b.Tag
	case KindFunction:
		if a.Variadic != b.Variadic || len(a.Params) != len(b.Params) {
			return false
		}
		if !Compatible(a.Ret, b.Ret) {
			return false
		}
		for i := range a.Params {
			if !Compatible(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true // same scalar Kind already checked above
	}
}

// LookupField finds a struct field by name, nil if absent.
func (t *Type) LookupField(name string) (int, *Field) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return i, &t.Fields[i]
		}
	}
	return -1, nil
}

// Complete performs a fixed-point substitution: every struct reference in
// t whose own field list is empty is replaced by the
// currently-installed definition for that tag (looked up in tags). Arrays
// and functions are rebuilt around the completed result; pointers and
// scalars pass through unchanged. Cyclic tags (a struct that embeds a pointer to
// itself) terminate naturally because pointers do not recurse through
// Complete on their pointee — only direct-by-value positions do.
func Complete(t *Type, tags map[string]*Type) *Type {
	switch t.Kind {
	case KindStruct:
		if t.Fields != nil {
			return t
		}
		if def, ok := tags[t.Tag]; ok && def.Fields != nil {
			return def
		}
		return t
	case KindArray:
		elem := Complete(t.Elem, tags)
		if elem == t.Elem {
			return t
		}
		return NewArray(elem, t.Len)
	case KindPointer:
		return t // pointee resolved lazily through the tag table, not eagerly
	case KindFunction:
		ret := Complete(t.Ret, tags)
		params := make([]*Type, len(t.Params))
		changed := ret != t.Ret
		for i, p := range t.Params {
			params[i] = Complete(p, tags)
			changed = changed || params[i] != p
		}
		if !changed {
			return t
		}
		return NewFunction(ret, params, t.Variadic)
	default:
		return t
	}
}

// String renders the type's C-ish spelling, used in diagnostics (not the
// IR's own spelling — see IRName for that).
func (t *Type) String() string {
	q := ""
	if t.Quals&QualConst != 0 {
		q += "const "
	}
	if t.Quals&QualVolatile != 0 {
		q += "volatile "
	}
	switch t.Kind {
	case KindVoid:
		return q + "void"
	case KindBool:
		return q + "bool"
	case KindSChar:
		return q + "signed char"
	case KindUChar:
		return q + "unsigned char"
	case KindChar:
		return q + "char"
	case KindShort:
		return q + "short"
	case KindUShort:
		return q + "unsigned short"
	case KindInt:
		return q + "int"
	case KindUInt:
		return q + "unsigned int"
	case KindLong:
		return q + "long"
	case KindULong:
		return q + "unsigned long"
	case KindFloat:
		return q + "float"
	case KindDouble:
		return q + "double"
	case KindLongDouble:
		return q + "long double"
	case KindUIntPtr:
		return q + "uintptr_t"
	case KindPtrDiff:
		return q + "ptrdiff_t"
	case KindPointer:
		return q + t.Pointee.String() + "*"
	case KindArray:
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Len)
	case KindStruct:
		if t.Tag != "" {
			return q + "struct " + t.Tag
		}
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Type.String() + " " + f.Name
		}
		return q + "struct {" + strings.Join(parts, "; ") + "}"
	case KindFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		variadic := ""
		if t.Variadic {
			variadic = ", ..."
		}
		return fmt.Sprintf("%s(%s%s) %s", "func", strings.Join(parts, ", "), variadic, t.Ret.String())
	case Invalid:
		return "<invalid>"
	}
	return "<unknown>"
}

// IRName projects the type into the output IR's spelling, e.g. "i32",
// "float", "x86_fp80", "%struct.Point*", "[4 x i8]". Backed by
// github.com/llir/llvm/ir/types so the projection is guaranteed to be
// exactly what that library would print for the equivalent types.Type.
func (t *Type) IRName() string {
	return LLVM(t).String()
}

// LLVM returns the github.com/llir/llvm type corresponding to t, memoized
// per descriptor so repeated projections (e.g. for every use of a struct
// tag) share the identical *lltypes.StructType instance llir/llvm expects
// for pointer-equality based type comparisons.
func LLVM(t *Type) lltypes.Type {
	if t.irCache != nil {
		return t.irCache
	}
	var result lltypes.Type
	switch t.Kind {
	case KindVoid:
		result = lltypes.Void
	case KindBool:
		result = lltypes.I1
	case KindSChar, KindUChar, KindChar:
		result = lltypes.I8
	case KindShort, KindUShort:
		result = lltypes.I16
	case KindInt, KindUInt:
		result = lltypes.I32
	case KindLong, KindULong, KindUIntPtr, KindPtrDiff:
		result = lltypes.I64
	case KindFloat:
		result = lltypes.Float
	case KindDouble:
		result = lltypes.Double
	case KindLongDouble:
		result = lltypes.X86_FP80
	case KindPointer:
		result = lltypes.NewPointer(LLVM(t.Pointee))
	case KindArray:
		result = lltypes.NewArray(uint64(t.Len), LLVM(t.Elem))
	case KindStruct:
		st := lltypes.NewStruct()
		if t.IRNameHint != "" {
			st.TypeName = t.IRNameHint
		} else {
			st.TypeName = t.Tag
		}
		t.irCache = st // register before recursing: breaks self-referential cycles
		if t.Fields == nil {
			st.Opaque = true
			return st
		}
		for _, f := range t.Fields {
			st.Fields = append(st.Fields, LLVM(f.Type))
		}
		return st
	case KindFunction:
		params := make([]lltypes.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = LLVM(p)
		}
		ft := lltypes.NewFunc(LLVM(t.Ret), params...)
		ft.Variadic = t.Variadic
		result = ft
	default:
		result = lltypes.Void
	}
	t.irCache = result
	return result
}
