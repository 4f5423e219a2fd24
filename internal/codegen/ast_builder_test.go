package codegen

import (
	"github.com/hassan/cc/internal/ast"
	"github.com/hassan/cc/internal/lexer"
)

// The functions below build ast.Node trees by hand, the same shapes the
// parser itself produces, so codegen's generators can be exercised directly
// without going through source text.

func loc() lexer.Position {
	return lexer.Position{Filename: "t.c", Line: 1, Column: 1}
}

func nd(kind, value string, children ...*ast.Node) *ast.Node {
	return ast.New(kind, value, loc(), children...)
}

func typeNode(spelling string, children ...*ast.Node) *ast.Node {
	return nd(ast.KindTypeName, spelling, children...)
}

func ptrType(inner *ast.Node) *ast.Node { return typeNode("ptr", inner) }

func intLit(v string) *ast.Node    { return nd(ast.KindIntLit, v) }
func ident(name string) *ast.Node  { return nd(ast.KindIdent, name) }
func strLit(v string) *ast.Node    { return nd(ast.KindStringLit, v) }

func binary(op string, x, y *ast.Node) *ast.Node  { return nd(ast.KindBinary, op, x, y) }
func logical(op string, x, y *ast.Node) *ast.Node { return nd(ast.KindLogical, op, x, y) }
func assign(op string, lhs, rhs *ast.Node) *ast.Node { return nd(ast.KindAssign, op, lhs, rhs) }

func retStmt(v *ast.Node) *ast.Node {
	if v == nil {
		return nd(ast.KindReturn, "")
	}
	return nd(ast.KindReturn, "", v)
}

func block(stmts ...*ast.Node) *ast.Node { return nd(ast.KindBlock, "", stmts...) }

func paramList(ps ...*ast.Node) *ast.Node { return nd(ast.KindParamList, "", ps...) }
func funcParam(name string, t *ast.Node) *ast.Node { return nd(ast.KindParam, name, t) }

func funcDecl(name string, params *ast.Node, ret *ast.Node, body *ast.Node) *ast.Node {
	if body == nil {
		return nd(ast.KindFuncDecl, name, params, ret)
	}
	return nd(ast.KindFuncDecl, name, params, ret, body)
}

func translationUnit(items ...*ast.Node) *ast.Node {
	return nd(ast.KindTranslationUnit, "", items...)
}

func exprStmt(e *ast.Node) *ast.Node { return nd(ast.KindExprStmt, "", e) }

func declStmt(vds ...*ast.Node) *ast.Node { return nd(ast.KindDeclStmt, "", vds...) }

func varDecl(name string, t *ast.Node, init *ast.Node) *ast.Node {
	if init == nil {
		return nd(ast.KindVarDecl, name, t)
	}
	return nd(ast.KindVarDecl, name, t, init)
}

func ifStmt(cond, then, els *ast.Node) *ast.Node {
	if els == nil {
		return nd(ast.KindIf, "", cond, then)
	}
	return nd(ast.KindIf, "", cond, then, els)
}

func whileStmt(cond, body *ast.Node) *ast.Node { return nd(ast.KindWhile, "", cond, body) }
func breakStmt() *ast.Node                     { return nd(ast.KindBreak, "") }

func call(callee *ast.Node, args ...*ast.Node) *ast.Node {
	children := append([]*ast.Node{callee}, args...)
	return nd(ast.KindCall, "", children...)
}

func structDecl(tag string, fields ...*ast.Node) *ast.Node {
	return nd(ast.KindStructDecl, tag, fields...)
}
func fieldDecl(name string, t *ast.Node) *ast.Node { return nd(ast.KindFieldDecl, name, t) }
func member(base *ast.Node, field string) *ast.Node { return nd(ast.KindMember, field, base) }
