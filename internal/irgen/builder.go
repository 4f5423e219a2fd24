package irgen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"

	"github.com/hassan/cc/internal/types"
)

// Builder is the IR-emission cursor: the current function and the current
// basic block being appended to. One Builder is threaded by pointer
// through an entire compilation.
type Builder struct {
	Module *Module

	CurrentFunc  *ir.Func
	CurrentBlock *ir.Block

	// entryBlock is where declarations' `alloca`s land: allocating storage
	// for every local up front in the entry block keeps each function's
	// stack frame a fixed size regardless of which blocks actually run.
	entryBlock *ir.Block
}

// NewBuilder creates a builder over a fresh module.
func NewBuilder() *Builder {
	return &Builder{Module: NewModule()}
}

// NewFunc opens a new function with the given name and signature, and
// enters its entry block.
func (b *Builder) NewFunc(name string, ret *types.Type, params []*types.Type, paramNames []string, variadic bool) *ir.Func {
	llParams := make([]*ir.Param, len(params))
	for i, p := range params {
		llParams[i] = ir.NewParam(paramNames[i], types.LLVM(p))
	}
	f := b.Module.M.NewFunc(name, types.LLVM(ret), llParams...)
	f.Sig.Variadic = variadic
	b.CurrentFunc = f
	b.entryBlock = f.NewBlock("entry")
	b.CurrentBlock = b.entryBlock
	return f
}

// DeclareFunc registers a function's signature without opening a body —
// used by the first of two passes over a translation unit's top-level
// declarations, so a call to a function defined later in the same file
// still resolves to a known signature.
func (b *Builder) DeclareFunc(name string, ret *types.Type, params []*types.Type, paramNames []string, variadic bool) *ir.Func {
	llParams := make([]*ir.Param, len(params))
	for i, p := range params {
		llParams[i] = ir.NewParam(paramNames[i], types.LLVM(p))
	}
	f := b.Module.M.NewFunc(name, types.LLVM(ret), llParams...)
	f.Sig.Variadic = variadic
	return f
}

// EnterFuncBody opens the entry block of a previously-declared function
// and makes it current, the second pass's counterpart to DeclareFunc.
func (b *Builder) EnterFuncBody(f *ir.Func) *ir.Block {
	b.CurrentFunc = f
	b.entryBlock = f.NewBlock("entry")
	b.CurrentBlock = b.entryBlock
	return b.entryBlock
}

// NewBlock opens a new basic block with the given label prefix and makes
// it current. If the previous block has no terminator — the fall-through
// case — an implicit `br` to the new block is inserted first.
func (b *Builder) NewBlock(labelPrefix string, fallthrough_ bool) *ir.Block {
	label := b.Module.FreshLabel(labelPrefix)
	next := b.CurrentFunc.NewBlock(label)
	if fallthrough_ && b.CurrentBlock != nil && b.CurrentBlock.Term == nil {
		b.CurrentBlock.NewBr(next)
	}
	b.CurrentBlock = next
	return next
}

// Alloca reserves storage in the function's entry block and returns the
// pointer. Entry-block placement (rather than the current block) keeps
// every alloca dominating every use, as real C compilers do.
func (b *Builder) Alloca(t *types.Type, name string) *ir.InstAlloca {
	inst := b.entryBlock.NewAlloca(types.LLVM(t))
	inst.LocalName = name
	return inst
}

// Store emits `store src, dst_ptr` into the current block.
func (b *Builder) Store(src llvalue.Value, dstPtr llvalue.Value) {
	b.CurrentBlock.NewStore(src, dstPtr)
}

// Load emits `load` through ptr, returning the pointee's rvalue.
func (b *Builder) Load(elemType *types.Type, ptr llvalue.Value) *ir.InstLoad {
	return b.CurrentBlock.NewLoad(types.LLVM(elemType), ptr)
}

// --- apply(op, x, y): binary arithmetic/bitwise, one constructor per
// mnemonic since llir/llvm types each instruction individually. ---

func (b *Builder) Add(x, y llvalue.Value) *ir.InstAdd   { return b.CurrentBlock.NewAdd(x, y) }
func (b *Builder) FAdd(x, y llvalue.Value) *ir.InstFAdd { return b.CurrentBlock.NewFAdd(x, y) }
func (b *Builder) Sub(x, y llvalue.Value) *ir.InstSub   { return b.CurrentBlock.NewSub(x, y) }
func (b *Builder) FSub(x, y llvalue.Value) *ir.InstFSub { return b.CurrentBlock.NewFSub(x, y) }
func (b *Builder) Mul(x, y llvalue.Value) *ir.InstMul   { return b.CurrentBlock.NewMul(x, y) }
func (b *Builder) FMul(x, y llvalue.Value) *ir.InstFMul { return b.CurrentBlock.NewFMul(x, y) }
func (b *Builder) SDiv(x, y llvalue.Value) *ir.InstSDiv { return b.CurrentBlock.NewSDiv(x, y) }
func (b *Builder) UDiv(x, y llvalue.Value) *ir.InstUDiv { return b.CurrentBlock.NewUDiv(x, y) }
func (b *Builder) FDiv(x, y llvalue.Value) *ir.InstFDiv { return b.CurrentBlock.NewFDiv(x, y) }
func (b *Builder) SRem(x, y llvalue.Value) *ir.InstSRem { return b.CurrentBlock.NewSRem(x, y) }
func (b *Builder) URem(x, y llvalue.Value) *ir.InstURem { return b.CurrentBlock.NewURem(x, y) }
func (b *Builder) Shl(x, y llvalue.Value) *ir.InstShl   { return b.CurrentBlock.NewShl(x, y) }
func (b *Builder) AShr(x, y llvalue.Value) *ir.InstAShr { return b.CurrentBlock.NewAShr(x, y) }
func (b *Builder) LShr(x, y llvalue.Value) *ir.InstLShr { return b.CurrentBlock.NewLShr(x, y) }
func (b *Builder) And(x, y llvalue.Value) *ir.InstAnd   { return b.CurrentBlock.NewAnd(x, y) }
func (b *Builder) Or(x, y llvalue.Value) *ir.InstOr     { return b.CurrentBlock.NewOr(x, y) }
func (b *Builder) Xor(x, y llvalue.Value) *ir.InstXor   { return b.CurrentBlock.NewXor(x, y) }

// ICmp/FCmp: relational and equality families, parameterised on
// llir/llvm's predicate enums so callers pick icmp s{lt,le,gt,ge}/u{…} or
// fcmp o{…} according to the operand's signedness.
func (b *Builder) ICmp(pred enum.IPred, x, y llvalue.Value) *ir.InstICmp {
	return b.CurrentBlock.NewICmp(pred, x, y)
}
func (b *Builder) FCmp(pred enum.FPred, x, y llvalue.Value) *ir.InstFCmp {
	return b.CurrentBlock.NewFCmp(pred, x, y)
}

// --- convert(op, x, target_ty): one constructor per cast mnemonic. ---

func (b *Builder) Trunc(x llvalue.Value, to *types.Type) *ir.InstTrunc {
	return b.CurrentBlock.NewTrunc(x, types.LLVM(to))
}
func (b *Builder) SExt(x llvalue.Value, to *types.Type) *ir.InstSExt {
	return b.CurrentBlock.NewSExt(x, types.LLVM(to))
}
func (b *Builder) ZExt(x llvalue.Value, to *types.Type) *ir.InstZExt {
	return b.CurrentBlock.NewZExt(x, types.LLVM(to))
}
func (b *Builder) FPTrunc(x llvalue.Value, to *types.Type) *ir.InstFPTrunc {
	return b.CurrentBlock.NewFPTrunc(x, types.LLVM(to))
}
func (b *Builder) FPExt(x llvalue.Value, to *types.Type) *ir.InstFPExt {
	return b.CurrentBlock.NewFPExt(x, types.LLVM(to))
}
func (b *Builder) SIToFP(x llvalue.Value, to *types.Type) *ir.InstSIToFP {
	return b.CurrentBlock.NewSIToFP(x, types.LLVM(to))
}
func (b *Builder) UIToFP(x llvalue.Value, to *types.Type) *ir.InstUIToFP {
	return b.CurrentBlock.NewUIToFP(x, types.LLVM(to))
}
func (b *Builder) FPToSI(x llvalue.Value, to *types.Type) *ir.InstFPToSI {
	return b.CurrentBlock.NewFPToSI(x, types.LLVM(to))
}
func (b *Builder) FPToUI(x llvalue.Value, to *types.Type) *ir.InstFPToUI {
	return b.CurrentBlock.NewFPToUI(x, types.LLVM(to))
}
func (b *Builder) IntToPtr(x llvalue.Value, to *types.Type) *ir.InstIntToPtr {
	return b.CurrentBlock.NewIntToPtr(x, types.LLVM(to))
}
func (b *Builder) PtrToInt(x llvalue.Value, to *types.Type) *ir.InstPtrToInt {
	return b.CurrentBlock.NewPtrToInt(x, types.LLVM(to))
}
func (b *Builder) BitCast(x llvalue.Value, to *types.Type) *ir.InstBitCast {
	return b.CurrentBlock.NewBitCast(x, types.LLVM(to))
}

// Member emits a field-address computation: getelementptr into a struct
// pointer at a constant field index.
func (b *Builder) Member(structTy *types.Type, ptr llvalue.Value, fieldIdx int) *ir.InstGetElementPtr {
	zero := constant.NewInt(lltypes.I32, 0)
	idx := constant.NewInt(lltypes.I32, int64(fieldIdx))
	return b.CurrentBlock.NewGetElementPtr(types.LLVM(structTy), ptr, zero, idx)
}

// ArrayElem emits an array-element address at a compile-time-constant
// index: getelementptr into an array pointer at a constant index, the
// array counterpart of Member, used to store each element of an
// aggregate initializer.
func (b *Builder) ArrayElem(arrayTy *types.Type, ptr llvalue.Value, idx int) *ir.InstGetElementPtr {
	zero := constant.NewInt(lltypes.I32, 0)
	ci := constant.NewInt(lltypes.I32, int64(idx))
	return b.CurrentBlock.NewGetElementPtr(types.LLVM(arrayTy), ptr, zero, ci)
}

// IndexElem emits an array/pointer-element address: getelementptr at a
// dynamic integer index, used both for subscripting and for the
// pointer-plus-integer family of arithmetic operators.
func (b *Builder) IndexElem(elemTy *types.Type, ptr llvalue.Value, idx llvalue.Value) *ir.InstGetElementPtr {
	return b.CurrentBlock.NewGetElementPtr(types.LLVM(elemTy), ptr, idx)
}

// IncPtr emits pointer-plus-integer (`inc_ptr`): the same instruction shape
// as IndexElem, named separately because callers reach for it via the `+`
// operator rather than `[]`.
func (b *Builder) IncPtr(elemTy *types.Type, ptr llvalue.Value, off llvalue.Value) *ir.InstGetElementPtr {
	return b.CurrentBlock.NewGetElementPtr(types.LLVM(elemTy), ptr, off)
}

// DecayArray emits the two-zero-index getelementptr that decays an array
// lvalue's pointer-to-array operand into a pointer to its first element,
// the way an array value decays to a pointer in any other context.
func (b *Builder) DecayArray(arrayTy *types.Type, ptr llvalue.Value) *ir.InstGetElementPtr {
	zero := constant.NewInt(lltypes.I32, 0)
	return b.CurrentBlock.NewGetElementPtr(types.LLVM(arrayTy), ptr, zero, zero)
}

// CondBr terminates the current block with a conditional branch.
func (b *Builder) CondBr(cond llvalue.Value, thenBlock, elseBlock *ir.Block) {
	b.CurrentBlock.NewCondBr(cond, thenBlock, elseBlock)
}

// Br terminates the current block with an unconditional branch.
func (b *Builder) Br(target *ir.Block) {
	if b.CurrentBlock.Term == nil {
		b.CurrentBlock.NewBr(target)
	}
}

// Ret terminates the current function body. A nil value means `ret void`.
func (b *Builder) Ret(v llvalue.Value) {
	if b.CurrentBlock.Term != nil {
		return
	}
	if v == nil {
		b.CurrentBlock.NewRet(nil)
		return
	}
	b.CurrentBlock.NewRet(v)
}

// Call emits a call instruction to callee with the given arguments.
func (b *Builder) Call(callee llvalue.Value, args ...llvalue.Value) *ir.InstCall {
	return b.CurrentBlock.NewCall(callee, args...)
}

// Phi emits a ϕ-node selecting among incoming (value, predecessor) pairs —
// used by short-circuit logical-operator stitching.
func (b *Builder) Phi(incoming ...*ir.Incoming) *ir.InstPhi {
	return b.CurrentBlock.NewPhi(incoming...)
}

