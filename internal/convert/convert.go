// Package convert implements C's scalar conversion rules: integer
// promotion, the usual arithmetic conversions, pointer-equality
// conversions, and explicit casts. Split into one function per family
// rather than one large policy method.
package convert

import (
	"fmt"

	llvalue "github.com/llir/llvm/ir/value"

	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/irgen"
	"github.com/hassan/cc/internal/types"
	"github.com/hassan/cc/internal/value"
)

// Promote performs integer promotion: any value narrower than int (every
// char/short variant, signed or unsigned, and bool) becomes an int,
// inserting sext (signed source) or zext (unsigned/bool source).
func Promote(b *irgen.Builder, v value.Value) value.Value {
	if !v.Type.IsSubInt() {
		return v
	}
	if v.Type.IsSigned() {
		return value.New(b.SExt(v.Operand, types.Int), types.Int)
	}
	return value.New(b.ZExt(v.Operand, types.Int), types.Int)
}

// CommonArithmeticType exposes commonArithmeticType for callers (the sizeof
// type-inference pass) that need the UAC result type without performing any
// conversion or emitting any IR.
func CommonArithmeticType(a, b *types.Type) *types.Type {
	return commonArithmeticType(a, b)
}

// commonArithmeticType computes the first-match-wins common type of the
// usual arithmetic conversions, without emitting anything.
func commonArithmeticType(a, b *types.Type) *types.Type {
	if a.Kind == types.KindLongDouble || b.Kind == types.KindLongDouble {
		return types.LongDouble
	}
	if a.Kind == types.KindDouble || b.Kind == types.KindDouble {
		return types.Double
	}
	if a.Kind == types.KindFloat || b.Kind == types.KindFloat {
		return types.Float
	}
	pa, pb := promotedKind(a), promotedKind(b)
	if pa == types.KindULong || pb == types.KindULong {
		return types.ULong
	}
	if pa == types.KindLong || pb == types.KindLong {
		return types.Long
	}
	if pa == types.KindUInt || pb == types.KindUInt {
		return types.UInt
	}
	return types.Int
}

func promotedKind(t *types.Type) types.Kind {
	if t.IsSubInt() {
		return types.KindInt
	}
	return t.Kind
}

// UsualArithmeticConversions converts both operands to their common type
// and returns the two converted values plus that common type.
func UsualArithmeticConversions(b *irgen.Builder, x, y value.Value) (value.Value, value.Value, *types.Type, error) {
	common := commonArithmeticType(x.Type, y.Type)
	cx, err := ConvertTo(b, x, common)
	if err != nil {
		return value.Value{}, value.Value{}, nil, err
	}
	cy, err := ConvertTo(b, y, common)
	if err != nil {
		return value.Value{}, value.Value{}, nil, err
	}
	return cx, cy, common, nil
}

// ConvertTo converts v to the target type per C's scalar conversion rules.
// Conversion to void yields a typed null/zero value and emits nothing.
// Anything not covered by the table fails with *conversion-error*.
func ConvertTo(b *irgen.Builder, v value.Value, target *types.Type) (value.Value, error) {
	src := types.Unqualify(v.Type)
	dst := types.Unqualify(target)

	if dst.Kind == types.KindVoid {
		return value.New(irgen.ConstZero(types.Int), types.Void), nil
	}
	if types.Compatible(src, dst) {
		return value.New(v.Operand, target), nil
	}

	switch {
	case src.IsInteger() && dst.IsInteger():
		return value.New(convertIntToInt(b, v.Operand, src, dst), target), nil
	case src.Kind == types.KindBool && dst.IsInteger():
		return value.New(b.ZExt(v.Operand, dst), target), nil
	case src.IsInteger() && dst.Kind == types.KindBool:
		return value.New(b.Trunc(v.Operand, types.Bool), target), nil
	case src.IsFloating() && dst.IsFloating():
		return value.New(convertFloatToFloat(b, v.Operand, src, dst), target), nil
	case src.IsInteger() && dst.IsFloating():
		if src.IsSigned() {
			return value.New(b.SIToFP(v.Operand, dst), target), nil
		}
		return value.New(b.UIToFP(v.Operand, dst), target), nil
	case src.IsFloating() && dst.IsInteger():
		if dst.IsSigned() {
			return value.New(b.FPToSI(v.Operand, dst), target), nil
		}
		return value.New(b.FPToUI(v.Operand, dst), target), nil
	case src.IsInteger() && dst.IsPointer():
		return value.New(b.IntToPtr(v.Operand, dst), target), nil
	case src.IsPointer() && dst.IsInteger():
		return value.New(b.PtrToInt(v.Operand, dst), target), nil
	case src.IsPointer() && dst.IsPointer():
		return value.New(b.BitCast(v.Operand, dst), target), nil
	}
	return value.Value{}, cerr.New(cerr.ConversionError,
		fmt.Sprintf("cannot convert %s to %s", v.Type, target))
}

// convertFloatToFloat picks fptrunc/fpext, or identity at equal width.
func convertFloatToFloat(b *irgen.Builder, v llvalue.Value, src, dst *types.Type) llvalue.Value {
	sw, dw := src.SizeInBytes(), dst.SizeInBytes()
	switch {
	case dw < sw:
		return b.FPTrunc(v, dst)
	case dw > sw:
		return b.FPExt(v, dst)
	default:
		return v
	}
}

// convertIntToInt picks trunc (narrowing), sext/zext (widening, signed
// source ⇒ sext), or identity (equal width).
func convertIntToInt(b *irgen.Builder, v llvalue.Value, src, dst *types.Type) llvalue.Value {
	sw, dw := src.SizeInBytes(), dst.SizeInBytes()
	switch {
	case dw < sw:
		return b.Trunc(v, dst)
	case dw > sw:
		if src.IsSigned() {
			return b.SExt(v, dst)
		}
		return b.ZExt(v, dst)
	default:
		return v
	}
}

// PointerEquality applies the pointer-equality conversions ahead of a
// relational/equality comparison: when comparing two pointers and exactly
// one pointee is (qualified) void, the other side converts to the
// void-pointer type; when one side is a pointer and the other integer, the
// integer converts to the pointer's type.
func PointerEquality(b *irgen.Builder, x, y value.Value) (value.Value, value.Value, error) {
	xp, yp := x.Type.IsPointer(), y.Type.IsPointer()
	switch {
	case xp && yp:
		xVoid := types.Unqualify(x.Type.Pointee).Kind == types.KindVoid
		yVoid := types.Unqualify(y.Type.Pointee).Kind == types.KindVoid
		switch {
		case xVoid && !yVoid:
			cy, err := ConvertTo(b, y, x.Type)
			return x, cy, err
		case yVoid && !xVoid:
			cx, err := ConvertTo(b, x, y.Type)
			return cx, y, err
		default:
			return x, y, nil
		}
	case xp && y.Type.IsInteger():
		cy, err := ConvertTo(b, y, x.Type)
		return x, cy, err
	case yp && x.Type.IsInteger():
		cx, err := ConvertTo(b, x, y.Type)
		return cx, y, err
	default:
		return x, y, nil
	}
}
