package codegen

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"

	"github.com/hassan/cc/internal/ast"
	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/convert"
	"github.com/hassan/cc/internal/ctx"
	"github.com/hassan/cc/internal/irgen"
	"github.com/hassan/cc/internal/types"
	"github.com/hassan/cc/internal/value"
)

func badOperands(n *ast.Node, op string) error {
	return cerr.NewAt(cerr.BadOperands, locOf(n), fmt.Sprintf("invalid operands to %q", op))
}

func incompleteTypeUse(n *ast.Node, what string, t *types.Type) error {
	return cerr.NewAt(cerr.IncompleteTypeUse, locOf(n), fmt.Sprintf("%s of incomplete type %s", what, t.String()))
}

func exprContext(n *ast.Node) string {
	if n.Value != "" {
		return fmt.Sprintf("in %s %q", n.Kind, n.Value)
	}
	return fmt.Sprintf("in %s", n.Kind)
}

func completeOf(c *ctx.Context, t *types.Type) *types.Type {
	return types.Complete(t, c.TagTable())
}

// GenExpr is the expression generator's entry point: dispatch on the AST
// operator tag, then optionally convert an lvalue result to an rvalue —
// arrays decay to a pointer to element 0, everything else loads — unless
// the caller asked to keep the lvalue.
func GenExpr(c *ctx.Context, n *ast.Node, wantLvalue bool) (value.Value, error) {
	v, err := genExprRaw(c, n, wantLvalue)
	if err != nil {
		return value.Value{}, cerr.Enrich(err, locOf(n), exprContext(n))
	}
	if !wantLvalue && v.IsLvalue() {
		return loadLvalue(c, v)
	}
	return v, nil
}

func loadLvalue(c *ctx.Context, v value.Value) (value.Value, error) {
	if v.Type.IsArray() {
		elemPtrTy := types.NewPointer(v.Type.Elem, types.QualNone)
		decayed := c.Builder.DecayArray(v.Type, v.Operand)
		return value.New(decayed, elemPtrTy), nil
	}
	loaded := c.Builder.Load(v.Type, v.Operand)
	return v.AsRvalue(loaded), nil
}

func genExprRaw(c *ctx.Context, n *ast.Node, wantLvalue bool) (value.Value, error) {
	switch n.Kind {
	case ast.KindIntLit:
		v, err := parseIntLiteral(n)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(irgen.ConstInt(types.Int, v), types.Int), nil

	case ast.KindFloatLit:
		v, err := parseFloatLiteral(n)
		if err != nil {
			return value.Value{}, err
		}
		if isLongDoubleLiteral(n.Value) {
			return value.New(irgen.ConstLongDouble(v), types.LongDouble), nil
		}
		return value.New(irgen.ConstFloat(types.Double, v), types.Double), nil

	case ast.KindCharLit:
		b, err := unescapeChar(n)
		if err != nil {
			return value.Value{}, err
		}
		return value.New(irgen.ConstInt(types.Int, int64(b)), types.Int), nil

	case ast.KindStringLit:
		bytes := append(unescapeString(n.Value), 0)
		g := c.Builder.Module.DefStr(bytes)
		arrTy := types.NewArray(types.Char, len(bytes))
		return value.NewLvalue(g, arrTy), nil

	case ast.KindIdent:
		entry, err := c.LookupVar(n.Value)
		if err != nil {
			return value.Value{}, err
		}
		if entry.Var != nil {
			return value.NewLvalue(entry.Var.Ptr, entry.Var.Type), nil
		}
		return value.New(entry.Func.Callee, entry.Func.Type), nil

	case ast.KindUnary:
		return genUnary(c, n)

	case ast.KindPostfix:
		return genIncDec(c, n.Child(0), n.Value, false, n)

	case ast.KindBinary:
		x, err := GenExpr(c, n.Child(0), false)
		if err != nil {
			return value.Value{}, err
		}
		y, err := GenExpr(c, n.Child(1), false)
		if err != nil {
			return value.Value{}, err
		}
		return genBinaryOp(c, n.Value, n, x, y)

	case ast.KindLogical:
		return genLogical(c, n)

	case ast.KindAssign:
		return genAssign(c, n)

	case ast.KindComma:
		if _, err := GenExpr(c, n.Child(0), false); err != nil {
			return value.Value{}, err
		}
		return genExprRaw(c, n.Child(1), wantLvalue)

	case ast.KindCall:
		return genCall(c, n)

	case ast.KindIndex:
		return genIndex(c, n)

	case ast.KindMember:
		return genMember(c, n)

	case ast.KindCast:
		return genCast(c, n)

	case ast.KindAddrOf:
		return genAddrOf(c, n)
	}
	return value.Value{}, cerr.NewAt(cerr.Internal, locOf(n), "unhandled expression kind "+n.Kind)
}

// --- unary family ---

func genUnary(c *ctx.Context, n *ast.Node) (value.Value, error) {
	switch n.Value {
	case "sizeof_type":
		return genSizeofType(c, n)
	case "sizeof":
		return genSizeofExpr(c, n)
	case "++", "--":
		return genIncDec(c, n.Child(0), n.Value, true, n)
	case "*":
		return genDeref(c, n)
	case "+":
		return genUnaryPlus(c, n)
	case "-":
		return genUnaryMinus(c, n)
	case "!":
		return genNot(c, n)
	case "~":
		return genBitNot(c, n)
	}
	return value.Value{}, badOperands(n, n.Value)
}

func genSizeofType(c *ctx.Context, n *ast.Node) (value.Value, error) {
	t, err := ResolveType(c, n.Child(0))
	if err != nil {
		return value.Value{}, err
	}
	t = completeOf(c, t)
	if t.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "sizeof", t)
	}
	return value.New(irgen.ConstInt(types.UIntPtr, int64(t.SizeInBytes())), types.UIntPtr), nil
}

func genSizeofExpr(c *ctx.Context, n *ast.Node) (value.Value, error) {
	t, err := InferType(c, n.Child(0))
	if err != nil {
		return value.Value{}, err
	}
	t = completeOf(c, t)
	if t.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "sizeof", t)
	}
	return value.New(irgen.ConstInt(types.UIntPtr, int64(t.SizeInBytes())), types.UIntPtr), nil
}

func genDeref(c *ctx.Context, n *ast.Node) (value.Value, error) {
	operand, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	if !operand.Type.IsPointer() {
		return value.Value{}, badOperands(n, "*")
	}
	pointee := completeOf(c, operand.Type.Pointee)
	if pointee.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "dereference", pointee)
	}
	return value.NewLvalue(operand.Operand, pointee), nil
}

func genUnaryPlus(c *ctx.Context, n *ast.Node) (value.Value, error) {
	operand, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	if !operand.Type.IsArithmetic() {
		return value.Value{}, badOperands(n, "+")
	}
	return convert.Promote(c.Builder, operand), nil
}

func genUnaryMinus(c *ctx.Context, n *ast.Node) (value.Value, error) {
	operand, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	if !operand.Type.IsArithmetic() {
		return value.Value{}, badOperands(n, "-")
	}
	p := convert.Promote(c.Builder, operand)
	zero := irgen.ConstZero(p.Type)
	if p.Type.IsFloating() {
		return value.New(c.Builder.FSub(zero, p.Operand), p.Type), nil
	}
	return value.New(c.Builder.Sub(zero, p.Operand), p.Type), nil
}

// genNot implements `!`: the operand is compared against a zero of its own
// type (the usual arithmetic conversions lift the literal `0` to match, they
// never truncate the operand down to `int`), then the i1 result is widened
// back to `int`.
func genNot(c *ctx.Context, n *ast.Node) (value.Value, error) {
	operand, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	if !operand.Type.IsScalar() {
		return value.Value{}, badOperands(n, "!")
	}
	cmp, err := compareToZero(c, operand, n, false)
	if err != nil {
		return value.Value{}, err
	}
	return value.New(c.Builder.ZExt(cmp, types.Int), types.Int), nil
}

func genBitNot(c *ctx.Context, n *ast.Node) (value.Value, error) {
	operand, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	if !operand.Type.IsInteger() {
		return value.Value{}, badOperands(n, "~")
	}
	p := convert.Promote(c.Builder, operand)
	return value.New(c.Builder.Xor(p.Operand, irgen.ConstAllOnes(p.Type)), p.Type), nil
}

// genTruthy computes "operand != 0" as an i1, per the operand's own type —
// the ordinary path used by if/while/logical conditions. genNot uses the
// same comparison with the predicate inverted.
func genTruthy(c *ctx.Context, v value.Value, n *ast.Node) (llvalue.Value, error) {
	return compareToZero(c, v, n, true)
}

func compareToZero(c *ctx.Context, v value.Value, n *ast.Node, wantNonZero bool) (llvalue.Value, error) {
	switch {
	case v.Type.IsFloating():
		pred := enum.FPredONE
		if !wantNonZero {
			pred = enum.FPredOEQ
		}
		return c.Builder.FCmp(pred, v.Operand, irgen.ConstFloat(v.Type, 0)), nil
	case v.Type.IsPointer():
		pred := enum.IPredNE
		if !wantNonZero {
			pred = enum.IPredEQ
		}
		return c.Builder.ICmp(pred, v.Operand, irgen.ConstNullPointer(v.Type)), nil
	case v.Type.IsInteger() || v.Type.IsBool():
		pred := enum.IPredNE
		if !wantNonZero {
			pred = enum.IPredEQ
		}
		return c.Builder.ICmp(pred, v.Operand, irgen.ConstInt(v.Type, 0)), nil
	default:
		return nil, badOperands(n, "scalar condition")
	}
}

// genIncDec implements pre/post `++`/`--`: the operand must be a
// modifiable lvalue of scalar type; post forms return the pre-update
// rvalue, pre forms the post-update value; the delta is a typed int 1, so
// pointer arithmetic rules apply naturally through genBinaryOp's "+"/"-".
func genIncDec(c *ctx.Context, operandNode *ast.Node, op string, isPrefix bool, n *ast.Node) (value.Value, error) {
	lv, err := GenExpr(c, operandNode, true)
	if err != nil {
		return value.Value{}, err
	}
	if !lv.IsLvalue() || !lv.Type.IsScalar() {
		return value.Value{}, badOperands(n, op)
	}
	old := value.New(c.Builder.Load(lv.Type, lv.Operand), lv.Type)
	one := value.New(irgen.ConstInt(types.Int, 1), types.Int)
	arithOp := "+"
	if op == "--" {
		arithOp = "-"
	}
	updated, err := genBinaryOp(c, arithOp, n, old, one)
	if err != nil {
		return value.Value{}, err
	}
	converted, err := convert.ConvertTo(c.Builder, updated, lv.Type)
	if err != nil {
		return value.Value{}, err
	}
	c.Builder.Store(converted.Operand, lv.Operand)
	if isPrefix {
		return value.New(converted.Operand, lv.Type), nil
	}
	return old, nil
}

// --- binary dispatch: arithmetic, shifts, bitwise, relational and
// equality ---

func genBinaryOp(c *ctx.Context, op string, n *ast.Node, x, y value.Value) (value.Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return genArith(c, op, n, x, y)
	case "<<", ">>":
		return genShift(c, op, n, x, y)
	case "&", "|", "^":
		return genBitwise(c, op, n, x, y)
	case "==", "!=", "<", "<=", ">", ">=":
		return genRelational(c, op, n, x, y)
	}
	return value.Value{}, badOperands(n, op)
}

func genArith(c *ctx.Context, op string, n *ast.Node, x, y value.Value) (value.Value, error) {
	xp, yp := x.Type.IsPointer(), y.Type.IsPointer()
	switch {
	case xp && yp && op == "-":
		return genPointerDiff(c, n, x, y)
	case xp && !yp && (op == "+" || op == "-"):
		return genPointerPlusInt(c, n, x, y, op == "-")
	case yp && !xp && op == "+":
		return genPointerPlusInt(c, n, y, x, false)
	case xp || yp:
		return value.Value{}, badOperands(n, op)
	}

	if op == "%" {
		if !x.Type.IsInteger() || !y.Type.IsInteger() {
			return value.Value{}, badOperands(n, op)
		}
	} else if !x.Type.IsArithmetic() || !y.Type.IsArithmetic() {
		return value.Value{}, badOperands(n, op)
	}

	cx, cy, common, err := convert.UsualArithmeticConversions(c.Builder, x, y)
	if err != nil {
		return value.Value{}, err
	}

	var result llvalue.Value
	switch {
	case common.IsFloating():
		switch op {
		case "+":
			result = c.Builder.FAdd(cx.Operand, cy.Operand)
		case "-":
			result = c.Builder.FSub(cx.Operand, cy.Operand)
		case "*":
			result = c.Builder.FMul(cx.Operand, cy.Operand)
		case "/":
			result = c.Builder.FDiv(cx.Operand, cy.Operand)
		default:
			return value.Value{}, badOperands(n, op)
		}
	case common.IsSigned():
		switch op {
		case "+":
			result = c.Builder.Add(cx.Operand, cy.Operand)
		case "-":
			result = c.Builder.Sub(cx.Operand, cy.Operand)
		case "*":
			result = c.Builder.Mul(cx.Operand, cy.Operand)
		case "/":
			result = c.Builder.SDiv(cx.Operand, cy.Operand)
		case "%":
			result = c.Builder.SRem(cx.Operand, cy.Operand)
		}
	default:
		switch op {
		case "+":
			result = c.Builder.Add(cx.Operand, cy.Operand)
		case "-":
			result = c.Builder.Sub(cx.Operand, cy.Operand)
		case "*":
			result = c.Builder.Mul(cx.Operand, cy.Operand)
		case "/":
			result = c.Builder.UDiv(cx.Operand, cy.Operand)
		case "%":
			result = c.Builder.URem(cx.Operand, cy.Operand)
		}
	}
	return value.New(result, common), nil
}

// genPointerPlusInt implements pointer±integer: the integer is widened to
// uintptr; subtraction negates the offset first.
func genPointerPlusInt(c *ctx.Context, n *ast.Node, ptrVal, intVal value.Value, negate bool) (value.Value, error) {
	if !intVal.Type.IsInteger() {
		return value.Value{}, badOperands(n, "pointer arithmetic")
	}
	pointee := completeOf(c, ptrVal.Type.Pointee)
	if pointee.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "pointer arithmetic", pointee)
	}
	offset, err := convert.ConvertTo(c.Builder, intVal, types.UIntPtr)
	if err != nil {
		return value.Value{}, err
	}
	off := offset.Operand
	if negate {
		off = c.Builder.Sub(irgen.ConstInt(types.UIntPtr, 0), off)
	}
	ptr := c.Builder.IncPtr(pointee, ptrVal.Operand, off)
	return value.New(ptr, ptrVal.Type), nil
}

// genPointerDiff implements pointer−pointer of compatible pointees:
// `(uintptr(x)−uintptr(y))/sizeof(pointee)`, an exact signed division.
func genPointerDiff(c *ctx.Context, n *ast.Node, x, y value.Value) (value.Value, error) {
	if !types.Compatible(x.Type.Pointee, y.Type.Pointee) {
		return value.Value{}, badOperands(n, "-")
	}
	pointee := completeOf(c, x.Type.Pointee)
	if pointee.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "pointer difference", pointee)
	}
	xi := c.Builder.PtrToInt(x.Operand, types.UIntPtr)
	yi := c.Builder.PtrToInt(y.Operand, types.UIntPtr)
	diff := c.Builder.Sub(xi, yi)
	size := irgen.ConstInt(types.PtrDiff, int64(pointee.SizeInBytes()))
	q := c.Builder.SDiv(diff, size)
	q.Exact = true
	return value.New(q, types.PtrDiff), nil
}

// genShift implements `<<`/`>>`: integer-only, each operand
// integer-promoted independently (no common type); `>>` is `ashr` for a
// signed left operand, `lshr` otherwise.
func genShift(c *ctx.Context, op string, n *ast.Node, x, y value.Value) (value.Value, error) {
	if !x.Type.IsInteger() || !y.Type.IsInteger() {
		return value.Value{}, badOperands(n, op)
	}
	px := convert.Promote(c.Builder, x)
	py := convert.Promote(c.Builder, y)
	var result llvalue.Value
	switch op {
	case "<<":
		result = c.Builder.Shl(px.Operand, py.Operand)
	case ">>":
		if px.Type.IsSigned() {
			result = c.Builder.AShr(px.Operand, py.Operand)
		} else {
			result = c.Builder.LShr(px.Operand, py.Operand)
		}
	}
	return value.New(result, px.Type), nil
}

// genBitwise implements `& ^ |`: integer-only, usual arithmetic
// conversions.
func genBitwise(c *ctx.Context, op string, n *ast.Node, x, y value.Value) (value.Value, error) {
	if !x.Type.IsInteger() || !y.Type.IsInteger() {
		return value.Value{}, badOperands(n, op)
	}
	cx, cy, common, err := convert.UsualArithmeticConversions(c.Builder, x, y)
	if err != nil {
		return value.Value{}, err
	}
	var result llvalue.Value
	switch op {
	case "&":
		result = c.Builder.And(cx.Operand, cy.Operand)
	case "|":
		result = c.Builder.Or(cx.Operand, cy.Operand)
	case "^":
		result = c.Builder.Xor(cx.Operand, cy.Operand)
	}
	return value.New(result, common), nil
}

// genRelational implements `< <= > >= == !=`: arithmetic operands go
// through the usual arithmetic conversions; pointer operands follow
// genPointerRelational. The i1 comparison result always widens to `int`.
func genRelational(c *ctx.Context, op string, n *ast.Node, x, y value.Value) (value.Value, error) {
	if x.Type.IsPointer() || y.Type.IsPointer() {
		return genPointerRelational(c, op, n, x, y)
	}
	if !x.Type.IsScalar() || !y.Type.IsScalar() {
		return value.Value{}, badOperands(n, op)
	}
	cx, cy, common, err := convert.UsualArithmeticConversions(c.Builder, x, y)
	if err != nil {
		return value.Value{}, err
	}
	var cmp llvalue.Value
	switch {
	case common.IsFloating():
		cmp = c.Builder.FCmp(relFPred(op), cx.Operand, cy.Operand)
	case common.IsSigned():
		cmp = c.Builder.ICmp(relSIPred(op), cx.Operand, cy.Operand)
	default:
		cmp = c.Builder.ICmp(relUIPred(op), cx.Operand, cy.Operand)
	}
	return value.New(c.Builder.ZExt(cmp, types.Int), types.Int), nil
}

// genPointerRelational implements the pointer branches of relational and
// equality comparisons: equality permits pointer-equality conversions
// (including void-pointer widening) and pointer/integer comparison;
// ordering requires compatible pointees and always uses `icmp u…`, since
// pointers have no sign to compare.
func genPointerRelational(c *ctx.Context, op string, n *ast.Node, x, y value.Value) (value.Value, error) {
	isEq := op == "==" || op == "!="
	xp, yp := x.Type.IsPointer(), y.Type.IsPointer()

	if xp && yp {
		if isEq {
			cx, cy, err := convert.PointerEquality(c.Builder, x, y)
			if err != nil {
				return value.Value{}, err
			}
			cmp := c.Builder.ICmp(ptrEqPred(op), cx.Operand, cy.Operand)
			return value.New(c.Builder.ZExt(cmp, types.Int), types.Int), nil
		}
		if !types.Compatible(x.Type, y.Type) {
			return value.Value{}, badOperands(n, op)
		}
		cmp := c.Builder.ICmp(relUIPred(op), x.Operand, y.Operand)
		return value.New(c.Builder.ZExt(cmp, types.Int), types.Int), nil
	}

	// Pointer/integer is allowed only for equality.
	if !isEq {
		return value.Value{}, badOperands(n, op)
	}
	cx, cy, err := convert.PointerEquality(c.Builder, x, y)
	if err != nil {
		return value.Value{}, err
	}
	cmp := c.Builder.ICmp(ptrEqPred(op), cx.Operand, cy.Operand)
	return value.New(c.Builder.ZExt(cmp, types.Int), types.Int), nil
}

func ptrEqPred(op string) enum.IPred {
	if op == "==" {
		return enum.IPredEQ
	}
	return enum.IPredNE
}

func relFPred(op string) enum.FPred {
	switch op {
	case "==":
		return enum.FPredOEQ
	case "!=":
		return enum.FPredONE
	case "<":
		return enum.FPredOLT
	case "<=":
		return enum.FPredOLE
	case ">":
		return enum.FPredOGT
	default:
		return enum.FPredOGE
	}
}

func relSIPred(op string) enum.IPred {
	switch op {
	case "==":
		return enum.IPredEQ
	case "!=":
		return enum.IPredNE
	case "<":
		return enum.IPredSLT
	case "<=":
		return enum.IPredSLE
	case ">":
		return enum.IPredSGT
	default:
		return enum.IPredSGE
	}
}

func relUIPred(op string) enum.IPred {
	switch op {
	case "==":
		return enum.IPredEQ
	case "!=":
		return enum.IPredNE
	case "<":
		return enum.IPredULT
	case "<=":
		return enum.IPredULE
	case ">":
		return enum.IPredUGT
	default:
		return enum.IPredUGE
	}
}

// genLogical implements short-circuit `&&`/`||`: evaluate the left operand,
// branch around the right operand's evaluation when it cannot change the
// result, and join with a ϕ-node over the two incoming i1s.
func genLogical(c *ctx.Context, n *ast.Node) (value.Value, error) {
	op := n.Value
	left, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	leftTruthy, err := genTruthy(c, left, n)
	if err != nil {
		return value.Value{}, err
	}
	startBlock := c.Builder.CurrentBlock

	prefix := "and"
	if op == "||" {
		prefix = "or"
	}
	rhsBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel(prefix + ".rhs"))
	endBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel(prefix + ".end"))

	skipValue := int64(0)
	if op == "&&" {
		c.Builder.CondBr(leftTruthy, rhsBlock, endBlock)
	} else {
		skipValue = 1
		c.Builder.CondBr(leftTruthy, endBlock, rhsBlock)
	}

	c.Builder.CurrentBlock = rhsBlock
	right, err := GenExpr(c, n.Child(1), false)
	if err != nil {
		return value.Value{}, err
	}
	rightTruthy, err := genTruthy(c, right, n)
	if err != nil {
		return value.Value{}, err
	}
	rhsExit := c.Builder.CurrentBlock
	c.Builder.Br(endBlock)

	c.Builder.CurrentBlock = endBlock
	skipConst := constant.NewInt(lltypes.I1, skipValue)
	phi := c.Builder.Phi(ir.NewIncoming(skipConst, startBlock), ir.NewIncoming(rightTruthy, rhsExit))
	return value.New(c.Builder.ZExt(phi, types.Int), types.Int), nil
}

// genAssign implements `=` and compound assignment: the left
// expression is generated with want_lvalue=true; the compound form loads
// the current value, applies the underlying binary op, then converts and
// stores the result back with the lhs's type.
func genAssign(c *ctx.Context, n *ast.Node) (value.Value, error) {
	op := n.Value
	lhs, err := GenExpr(c, n.Child(0), true)
	if err != nil {
		return value.Value{}, err
	}
	if !lhs.IsLvalue() {
		return value.Value{}, badOperands(n, op)
	}

	if op == "=" {
		rhs, err := GenExpr(c, n.Child(1), false)
		if err != nil {
			return value.Value{}, err
		}
		converted, err := convert.ConvertTo(c.Builder, rhs, lhs.Type)
		if err != nil {
			return value.Value{}, err
		}
		c.Builder.Store(converted.Operand, lhs.Operand)
		return value.New(converted.Operand, lhs.Type), nil
	}

	binOp := strings.TrimSuffix(op, "=")
	current := value.New(c.Builder.Load(lhs.Type, lhs.Operand), lhs.Type)
	rhs, err := GenExpr(c, n.Child(1), false)
	if err != nil {
		return value.Value{}, err
	}
	result, err := genBinaryOp(c, binOp, n, current, rhs)
	if err != nil {
		return value.Value{}, err
	}
	converted, err := convert.ConvertTo(c.Builder, result, lhs.Type)
	if err != nil {
		return value.Value{}, err
	}
	c.Builder.Store(converted.Operand, lhs.Operand)
	return value.New(converted.Operand, lhs.Type), nil
}

// genMember implements `.`: requires a struct lvalue; looks up the field
// index by name in the completed tag.
func genMember(c *ctx.Context, n *ast.Node) (value.Value, error) {
	base, err := GenExpr(c, n.Child(0), true)
	if err != nil {
		return value.Value{}, err
	}
	if !base.IsLvalue() || !base.Type.IsStruct() {
		return value.Value{}, badOperands(n, ".")
	}
	completed := completeOf(c, base.Type)
	if completed.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "member access", completed)
	}
	idx, f := completed.LookupField(n.Value)
	if f == nil {
		return value.Value{}, cerr.NewAt(cerr.Undeclared, locOf(n), "no member named "+n.Value)
	}
	ptr := c.Builder.Member(completed, base.Operand, idx)
	return value.NewLvalue(ptr, f.Type), nil
}

// genIndex implements `a[i]`, defined as `*(a + i)`.
func genIndex(c *ctx.Context, n *ast.Node) (value.Value, error) {
	base, err := GenExpr(c, n.Child(0), false)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := GenExpr(c, n.Child(1), false)
	if err != nil {
		return value.Value{}, err
	}
	sum, err := genArith(c, "+", n, base, idx)
	if err != nil {
		return value.Value{}, err
	}
	if !sum.Type.IsPointer() {
		return value.Value{}, badOperands(n, "[]")
	}
	pointee := completeOf(c, sum.Type.Pointee)
	if pointee.IsIncomplete() {
		return value.Value{}, incompleteTypeUse(n, "subscript", pointee)
	}
	return value.NewLvalue(sum.Operand, pointee), nil
}

// genCast implements explicit casts: convert to the named type via the
// usual explicit-conversion rules.
func genCast(c *ctx.Context, n *ast.Node) (value.Value, error) {
	target, err := ResolveType(c, n.Child(0))
	if err != nil {
		return value.Value{}, err
	}
	operand, err := GenExpr(c, n.Child(1), false)
	if err != nil {
		return value.Value{}, err
	}
	return convert.ConvertTo(c.Builder, operand, target)
}

// genAddrOf implements `&`: requires an lvalue operand (or a
// function designator, which decays to a pointer without needing storage),
// produces a pointer-typed rvalue.
func genAddrOf(c *ctx.Context, n *ast.Node) (value.Value, error) {
	child := n.Child(0)
	if child.Kind == ast.KindIdent {
		if entry, err := c.LookupVar(child.Value); err == nil && entry.Func != nil {
			return value.New(entry.Func.Callee, types.NewPointer(entry.Func.Type, types.QualNone)), nil
		}
	}
	operand, err := GenExpr(c, child, true)
	if err != nil {
		return value.Value{}, err
	}
	if !operand.IsLvalue() {
		return value.Value{}, badOperands(n, "&")
	}
	return value.New(operand.Operand, types.NewPointer(operand.Type, types.QualNone)), nil
}

// genCall implements function calls: a direct call to a declared function,
// or an indirect call through a function-pointer-valued expression (e.g.
// `a[i]()` into an array of function pointers). Any declared variadic
// function widens `float` arguments to `double` in its variadic tail, per
// the default argument promotions C applies ahead of an unprototyped or
// variadic parameter.
func genCall(c *ctx.Context, n *ast.Node) (value.Value, error) {
	calleeNode := n.Child(0)
	argNodes := n.Children[1:]

	if calleeNode.Kind == ast.KindIdent {
		if entry, err := c.LookupVar(calleeNode.Value); err == nil && entry.Func != nil {
			return genCallCommon(c, n, entry.Func.Callee, entry.Func.Type, argNodes)
		}
	}

	callee, err := GenExpr(c, calleeNode, false)
	if err != nil {
		return value.Value{}, err
	}
	if !callee.Type.IsPointer() || !callee.Type.Pointee.IsFunction() {
		return value.Value{}, badOperands(n, "call")
	}
	return genCallCommon(c, n, callee.Operand, callee.Type.Pointee, argNodes)
}

func genCallCommon(c *ctx.Context, n *ast.Node, callee llvalue.Value, fnType *types.Type, argNodes []*ast.Node) (value.Value, error) {
	var irArgs []llvalue.Value
	for i, an := range argNodes {
		av, err := GenExpr(c, an, false)
		if err != nil {
			return value.Value{}, err
		}
		if i < len(fnType.Params) {
			cv, err := convert.ConvertTo(c.Builder, av, fnType.Params[i])
			if err != nil {
				return value.Value{}, err
			}
			irArgs = append(irArgs, cv.Operand)
			continue
		}
		if !fnType.Variadic {
			return value.Value{}, badOperands(n, "call: too many arguments")
		}
		if av.Type.Kind == types.KindFloat {
			cv, err := convert.ConvertTo(c.Builder, av, types.Double)
			if err != nil {
				return value.Value{}, err
			}
			irArgs = append(irArgs, cv.Operand)
		} else {
			irArgs = append(irArgs, av.Operand)
		}
	}
	result := c.Builder.Call(callee, irArgs...)
	return value.New(result, fnType.Ret), nil
}
