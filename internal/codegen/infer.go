package codegen

import (
	"github.com/hassan/cc/internal/ast"
	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/convert"
	"github.com/hassan/cc/internal/ctx"
	"github.com/hassan/cc/internal/types"
)

// InferType computes the type an expression would have without emitting
// any IR or touching any storage — the one place sizeof needs a type
// without a value, since C never evaluates sizeof's operand. Structurally
// a shadow of genExprRaw's dispatch, minus the emission.
func InferType(c *ctx.Context, n *ast.Node) (*types.Type, error) {
	switch n.Kind {
	case ast.KindIntLit:
		return types.Int, nil
	case ast.KindFloatLit:
		if isLongDoubleLiteral(n.Value) {
			return types.LongDouble, nil
		}
		return types.Double, nil
	case ast.KindCharLit:
		return types.Int, nil
	case ast.KindStringLit:
		bytes := append(unescapeString(n.Value), 0)
		return types.NewArray(types.Char, len(bytes)), nil
	case ast.KindIdent:
		entry, err := c.LookupVar(n.Value)
		if err != nil {
			return nil, err
		}
		return entry.Type(), nil
	case ast.KindUnary:
		return inferUnaryType(c, n)
	case ast.KindPostfix:
		return InferType(c, n.Child(0))
	case ast.KindBinary:
		return inferBinaryType(c, n)
	case ast.KindLogical:
		return types.Int, nil
	case ast.KindAssign:
		return InferType(c, n.Child(0))
	case ast.KindComma:
		return InferType(c, n.Child(1))
	case ast.KindCall:
		return inferCallType(c, n)
	case ast.KindIndex:
		base, err := InferType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		base = completeOf(c, base)
		switch {
		case base.IsPointer():
			return base.Pointee, nil
		case base.IsArray():
			return base.Elem, nil
		}
		return nil, badOperands(n, "[]")
	case ast.KindMember:
		base, err := InferType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		base = completeOf(c, base)
		if !base.IsStruct() {
			return nil, badOperands(n, ".")
		}
		_, f := base.LookupField(n.Value)
		if f == nil {
			return nil, cerr.NewAt(cerr.Undeclared, locOf(n), "no member named "+n.Value)
		}
		return f.Type, nil
	case ast.KindCast:
		return ResolveType(c, n.Child(0))
	case ast.KindAddrOf:
		inner, err := InferType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		return types.NewPointer(inner, types.QualNone), nil
	}
	return nil, cerr.NewAt(cerr.Internal, locOf(n), "cannot infer type of "+n.Kind)
}

func inferUnaryType(c *ctx.Context, n *ast.Node) (*types.Type, error) {
	switch n.Value {
	case "sizeof", "sizeof_type":
		return types.UIntPtr, nil
	case "++", "--":
		return InferType(c, n.Child(0))
	case "*":
		t, err := InferType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		t = completeOf(c, t)
		if !t.IsPointer() {
			return nil, badOperands(n, "*")
		}
		return t.Pointee, nil
	case "+", "-", "~":
		t, err := InferType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		if t.IsSubInt() {
			return types.Int, nil
		}
		return t, nil
	case "!":
		return types.Int, nil
	}
	return nil, badOperands(n, n.Value)
}

func inferBinaryType(c *ctx.Context, n *ast.Node) (*types.Type, error) {
	op := n.Value
	xt, err := InferType(c, n.Child(0))
	if err != nil {
		return nil, err
	}
	yt, err := InferType(c, n.Child(1))
	if err != nil {
		return nil, err
	}
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return types.Int, nil
	case "<<", ">>":
		if xt.IsSubInt() {
			return types.Int, nil
		}
		return xt, nil
	}
	if xt.IsPointer() {
		if op == "-" && yt.IsPointer() {
			return types.PtrDiff, nil
		}
		return xt, nil
	}
	if yt.IsPointer() {
		return yt, nil
	}
	return convert.CommonArithmeticType(xt, yt), nil
}

func inferCallType(c *ctx.Context, n *ast.Node) (*types.Type, error) {
	callee := n.Child(0)
	if callee.Kind == ast.KindIdent {
		if entry, err := c.LookupVar(callee.Value); err == nil && entry.Func != nil {
			return entry.Func.Type.Ret, nil
		}
	}
	t, err := InferType(c, callee)
	if err != nil {
		return nil, err
	}
	t = completeOf(c, t)
	if t.IsPointer() && t.Pointee.IsFunction() {
		return t.Pointee.Ret, nil
	}
	return nil, badOperands(n, "call")
}
