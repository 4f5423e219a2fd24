package irgen

import (
	"math/big"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
	"github.com/mewmew/float/float80"

	"github.com/hassan/cc/internal/types"
)

// ConstInt builds a typed integer constant for any of the language's
// integer kinds: case labels, array lengths, struct-index GEPs, and every
// other site that needs one of a specific width.
func ConstInt(t *types.Type, v int64) *constant.Int {
	return constant.NewInt(types.LLVM(t).(*lltypes.IntType), v)
}

// ConstFloat builds a float or double constant.
func ConstFloat(t *types.Type, v float64) *constant.Float {
	return constant.NewFloat(types.LLVM(t).(*lltypes.FloatType), v)
}

// ConstLongDouble builds an x86_fp80 constant from its exact bit pattern,
// using github.com/mewmew/float for the 80-bit extended-precision encoding
// llir/llvm's own constant.Float cannot produce from a plain float64.
// Reached whenever a `long double`-suffixed floating literal (e.g. 1.0L) is
// folded to a constant, either directly or as a global initializer.
func ConstLongDouble(v float64) *constant.Float {
	f80 := float80.NewFromFloat64(v)
	hi, lo := f80.Bytes()
	f := constant.NewFloat(lltypes.X86_FP80, 0)
	f.X = x87ToBigFloat(hi, lo)
	return f
}

// x87ToBigFloat reconstructs the extended-precision value from its raw
// sign/exponent word (hi) and 64-bit integer-plus-fraction significand
// (lo), the layout github.com/mewmew/float/float80 exposes directly rather
// than making callers re-derive a hex mantissa by hand.
func x87ToBigFloat(hi uint16, lo uint64) *big.Float {
	mantissa := new(big.Float).SetPrec(80).SetUint64(lo)
	exp := int(hi&0x7fff) - 16383 - 63
	mantissa.SetMantExp(mantissa, exp)
	if hi&0x8000 != 0 {
		mantissa.Neg(mantissa)
	}
	return mantissa
}

// ConstNullPointer builds the typed null pointer constant that pointer
// truth tests (`!`, conditions) compare against.
func ConstNullPointer(t *types.Type) *constant.Null {
	return constant.NewNull(types.LLVM(t).(*lltypes.PointerType))
}

// ConstZero builds the typed zero used by unary `-`, conversions to void
// and a missing return value.
func ConstZero(t *types.Type) llvalue.Value {
	switch {
	case t.IsFloating():
		return ConstFloat(t, 0)
	default:
		return ConstInt(t, 0)
	}
}

// ConstAllOnes builds the typed all-ones constant `~` xors against.
func ConstAllOnes(t *types.Type) llvalue.Value {
	return constant.NewInt(types.LLVM(t).(*lltypes.IntType), -1)
}

// ConstZeroAggregate builds the default zero-value constant for any type,
// including aggregates — the default initializer every global gets before
// a constant-folded or deferred-runtime initializer is applied on top.
func ConstZeroAggregate(t *types.Type) constant.Constant {
	return constant.NewZeroInitializer(types.LLVM(t))
}
