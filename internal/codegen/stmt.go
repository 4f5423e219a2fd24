// Package codegen's statement generator and the declaration, initializer
// and struct-declaration codegen, plus the two-pass translation-unit driver:
// declare every function signature and struct completion first, so a call
// or function-pointer table can name a not-yet-defined function, then
// generate every body.
package codegen

import (
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
)

// GenStmt is the statement generator's entry point: dispatch on the AST
// statement tag.
func GenStmt(c *ctx.Context, n *ast.Node) error {
	switch n.Kind {
	case ast.KindBlock:
		return genBlock(c, n)
	case ast.KindIf:
		return genIf(c, n)
	case ast.KindWhile:
		return genWhile(c, n)
	case ast.KindDoWhile:
		return genDoWhile(c, n)
	case ast.KindFor:
		return genFor(c, n)
	case ast.KindBreak:
		return genBreak(c, n)
	case ast.KindContinue:
		return genContinue(c, n)
	case ast.KindReturn:
		return genReturn(c, n)
	case ast.KindGoto:
		return genGoto(c, n)
	case ast.KindLabel:
		return genLabel(c, n)
	case ast.KindSwitch:
		return genSwitch(c, n)
	case ast.KindExprStmt:
		_, err := GenExpr(c, n.Child(0), false)
		return err
	case ast.KindDeclStmt:
		return genDeclStmt(c, n)
	case ast.KindEmpty:
		return nil
	}
	return cerr.NewAt(cerr.Internal, locOf(n), "unhandled statement kind "+n.Kind)
}

// genBlock opens a fresh lexical scope for a brace-enclosed statement list,
// distinct from a function body's top block, which shares its scope with
// the parameter list (see genFuncDef).
func genBlock(c *ctx.Context, n *ast.Node) error {
	c.EnterScope()
	for _, s := range n.Children {
		if err := GenStmt(c, s); err != nil {
			c.LeaveScope()
			return err
		}
	}
	c.LeaveScope()
	return nil
}

func genIf(c *ctx.Context, n *ast.Node) error {
	condNode, thenNode, elseNode := n.Child(0), n.Child(1), n.Child(2)
	cond, err := GenExpr(c, condNode, false)
	if err != nil {
		return err
	}
	truthy, err := genTruthy(c, cond, condNode)
	if err != nil {
		return err
	}

	thenBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("if.then"))
	var elseBlock *ir.Block
	if elseNode != nil {
		elseBlock = c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("if.else"))
	}
	endBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("if.end"))

	branchElse := endBlock
	if elseBlock != nil {
		branchElse = elseBlock
	}
	c.Builder.CondBr(truthy, thenBlock, branchElse)

	c.Builder.CurrentBlock = thenBlock
	if err := GenStmt(c, thenNode); err != nil {
		return err
	}
	c.Builder.Br(endBlock)

	if elseNode != nil {
		c.Builder.CurrentBlock = elseBlock
		if err := GenStmt(c, elseNode); err != nil {
			return err
		}
		c.Builder.Br(endBlock)
	}

	c.Builder.CurrentBlock = endBlock
	return nil
}

func genWhile(c *ctx.Context, n *ast.Node) error {
	condNode, bodyNode := n.Child(0), n.Child(1)

	condBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("while.cond"))
	bodyBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("while.body"))
	endBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("while.end"))

	c.Builder.Br(condBlock)
	c.Builder.CurrentBlock = condBlock
	cond, err := GenExpr(c, condNode, false)
	if err != nil {
		return err
	}
	truthy, err := genTruthy(c, cond, condNode)
	if err != nil {
		return err
	}
	c.Builder.CondBr(truthy, bodyBlock, endBlock)

	c.Builder.CurrentBlock = bodyBlock
	c.PushLoop(&ctx.LoopFrame{BreakBlock: endBlock, ContinueBlock: condBlock})
	err = GenStmt(c, bodyNode)
	c.PopLoop()
	if err != nil {
		return err
	}
	c.Builder.Br(condBlock)

	c.Builder.CurrentBlock = endBlock
	return nil
}

func genDoWhile(c *ctx.Context, n *ast.Node) error {
	condNode, bodyNode := n.Child(0), n.Child(1)

	bodyBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("do.body"))
	condBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("do.cond"))
	endBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("do.end"))

	c.Builder.Br(bodyBlock)
	c.Builder.CurrentBlock = bodyBlock
	c.PushLoop(&ctx.LoopFrame{BreakBlock: endBlock, ContinueBlock: condBlock})
	err := GenStmt(c, bodyNode)
	c.PopLoop()
	if err != nil {
		return err
	}
	c.Builder.Br(condBlock)

	c.Builder.CurrentBlock = condBlock
	cond, err := GenExpr(c, condNode, false)
	if err != nil {
		return err
	}
	truthy, err := genTruthy(c, cond, condNode)
	if err != nil {
		return err
	}
	c.Builder.CondBr(truthy, bodyBlock, endBlock)

	c.Builder.CurrentBlock = endBlock
	return nil
}

func genFor(c *ctx.Context, n *ast.Node) error {
	initNode, condNode, stepNode, bodyNode := n.Child(0), n.Child(1), n.Child(2), n.Child(3)

	c.EnterScope()

	if initNode != nil && initNode.Kind != ast.KindEmpty {
		if err := GenStmt(c, initNode); err != nil {
			c.LeaveScope()
			return err
		}
	}

	condBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("for.cond"))
	bodyBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("for.body"))
	stepBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("for.step"))
	endBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("for.end"))

	c.Builder.Br(condBlock)
	c.Builder.CurrentBlock = condBlock
	if condNode != nil && condNode.Kind != ast.KindEmpty {
		cond, err := GenExpr(c, condNode, false)
		if err != nil {
			c.LeaveScope()
			return err
		}
		truthy, err := genTruthy(c, cond, condNode)
		if err != nil {
			c.LeaveScope()
			return err
		}
		c.Builder.CondBr(truthy, bodyBlock, endBlock)
	} else {
		c.Builder.Br(bodyBlock)
	}

	c.Builder.CurrentBlock = bodyBlock
	c.PushLoop(&ctx.LoopFrame{BreakBlock: endBlock, ContinueBlock: stepBlock})
	err := GenStmt(c, bodyNode)
	c.PopLoop()
	if err != nil {
		c.LeaveScope()
		return err
	}
	c.Builder.Br(stepBlock)

	c.Builder.CurrentBlock = stepBlock
	if stepNode != nil && stepNode.Kind != ast.KindEmpty {
		if _, err := GenExpr(c, stepNode, false); err != nil {
			c.LeaveScope()
			return err
		}
	}
	c.Builder.Br(condBlock)

	c.Builder.CurrentBlock = endBlock
	c.LeaveScope()
	return nil
}

func genBreak(c *ctx.Context, n *ast.Node) error {
	target, err := c.BreakTarget()
	if err != nil {
		return cerr.Enrich(err, locOf(n), "break")
	}
	c.Builder.Br(target)
	return nil
}

func genContinue(c *ctx.Context, n *ast.Node) error {
	target, err := c.ContinueTarget()
	if err != nil {
		return cerr.Enrich(err, locOf(n), "continue")
	}
	c.Builder.Br(target)
	return nil
}

// genReturn implements `return`: the operand (if any) is checked against
// the enclosing function's declared return type and converted, matching
// the ordinary assignment-conversion rule used everywhere else.
func genReturn(c *ctx.Context, n *ast.Node) error {
	retType := c.ReturnType()
	valNode := n.Child(0)

	if valNode == nil {
		if !retType.IsVoid() {
			return cerr.NewAt(cerr.BadOperands, locOf(n), "return with no value in a function returning "+retType.String())
		}
		c.Builder.Ret(nil)
		return nil
	}
	if retType.IsVoid() {
		return cerr.NewAt(cerr.BadOperands, locOf(n), "return with a value in a void function")
	}
	v, err := GenExpr(c, valNode, false)
	if err != nil {
		return err
	}
	converted, err := convert.ConvertTo(c.Builder, v, retType)
	if err != nil {
		return err
	}
	c.Builder.Ret(converted.Operand)
	return nil
}

func genGoto(c *ctx.Context, n *ast.Node) error {
	target := c.ReserveLabel(n.Value)
	c.Builder.Br(target)
	return nil
}

// genLabel implements a label statement: falls through from the preceding
// block into the (possibly already-reserved) label block, then generates
// the labeled statement itself.
func genLabel(c *ctx.Context, n *ast.Node) error {
	target := c.ReserveLabel(n.Value)
	c.Builder.Br(target)
	c.Builder.CurrentBlock = target
	return GenStmt(c, n.Child(0))
}

// genSwitch implements switch: a first pass over the flat body allocates
// one block per case/default label and registers it with the switch frame,
// an icmp dispatch ladder tests the (promoted) condition against each case
// value in source order, and a second pass emits the body statements
// verbatim, repositioning the current block at each label marker as it is
// reached — exactly where real fallthrough comes from.
func genSwitch(c *ctx.Context, n *ast.Node) error {
	condNode, body := n.Child(0), n.Child(1)
	cond, err := GenExpr(c, condNode, false)
	if err != nil {
		return err
	}
	if !cond.Type.IsInteger() && cond.Type.Kind != types.KindBool {
		return badOperands(n, "switch")
	}
	promoted := convert.Promote(c.Builder, cond)

	dispatchBlock := c.Builder.CurrentBlock

	c.EnterSwitch()

	for _, item := range body.Children {
		switch item.Kind {
		case ast.KindCase:
			v, err := parseCaseValue(item)
			if err != nil {
				c.LeaveSwitch()
				return err
			}
			block := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("switch.case"))
			if err := c.DefineCase(v, block); err != nil {
				c.LeaveSwitch()
				return cerr.Enrich(err, locOf(item), "case")
			}
		case ast.KindDefault:
			block := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("switch.default"))
			c.DefineDefault(block)
		}
	}
	sw := c.CurrentSwitch()
	endBlock := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("switch.end"))

	c.Builder.CurrentBlock = dispatchBlock
	for _, cl := range sw.Cases {
		nextTest := c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("switch.test"))
		eq := c.Builder.ICmp(enum.IPredEQ, promoted.Operand, constant.NewInt(types.LLVM(promoted.Type).(*lltypes.IntType), cl.Value))
		c.Builder.CondBr(eq, cl.Block, nextTest)
		c.Builder.CurrentBlock = nextTest
	}
	if sw.DefaultBlock != nil {
		c.Builder.Br(sw.DefaultBlock)
	} else {
		c.Builder.Br(endBlock)
	}

	c.PushLoop(&ctx.LoopFrame{BreakBlock: endBlock, IsSwitch: true})
	// Statements ahead of the first label are unreachable; they land in a
	// block of their own, which the first label marker branches out of.
	c.Builder.CurrentBlock = c.Builder.CurrentFunc.NewBlock(c.Builder.Module.FreshLabel("switch.body"))
	for _, item := range body.Children {
		switch item.Kind {
		case ast.KindCase:
			target := c.NextCaseLabel()
			c.Builder.Br(target)
			c.Builder.CurrentBlock = target
		case ast.KindDefault:
			target := c.CurrentDefaultLabel()
			c.Builder.Br(target)
			c.Builder.CurrentBlock = target
		default:
			if err := GenStmt(c, item); err != nil {
				c.PopLoop()
				c.LeaveSwitch()
				return err
			}
		}
	}
	c.PopLoop()
	c.LeaveSwitch()

	c.Builder.Br(endBlock)
	c.Builder.CurrentBlock = endBlock
	return nil
}

// parseCaseValue decodes a case marker's literal spelling (an integer or
// character-literal token's raw text, stashed verbatim on the node by the
// parser) into the int64 value the switch frame keys on.
func parseCaseValue(item *ast.Node) (int64, error) {
	text := item.Value
	if len(text) >= 2 && text[0] == '\'' {
		synthetic := ast.New(ast.KindCharLit, text, item.Location)
		b, err := unescapeChar(synthetic)
		if err != nil {
			return 0, err
		}
		return int64(b), nil
	}
	synthetic := ast.New(ast.KindIntLit, text, item.Location)
	return parseIntLiteral(synthetic)
}

// --- declarations and initializers ---

func genDeclStmt(c *ctx.Context, n *ast.Node) error {
	for _, vd := range n.Children {
		if err := genLocalVarDecl(c, vd); err != nil {
			return err
		}
	}
	return nil
}

func genLocalVarDecl(c *ctx.Context, n *ast.Node) error {
	name := n.Value
	typeNode, initNode := n.Child(0), n.Child(1)
	t, err := ResolveType(c, typeNode)
	if err != nil {
		return err
	}
	completed := completeOf(c, t)
	if completed.IsIncomplete() {
		return incompleteTypeUse(n, "declaration", completed)
	}
	ptr := c.Builder.Alloca(t, name)
	if err := c.DeclareVar(name, &ctx.VarEntry{Type: t, Ptr: ptr}); err != nil {
		return err
	}
	if initNode == nil {
		return nil
	}
	return genInitializer(c, ptr, t, initNode)
}

// genInitializer stores an initializer expression through ptr, recursing
// element-wise through brace-enclosed aggregate initializers: array
// elements and struct fields share the same zero-then-index GEP shape, so
// one recursive function handles both.
func genInitializer(c *ctx.Context, ptr llvalue.Value, t *types.Type, n *ast.Node) error {
	if n.Kind != ast.KindInitList {
		v, err := GenExpr(c, n, false)
		if err != nil {
			return err
		}
		converted, err := convert.ConvertTo(c.Builder, v, t)
		if err != nil {
			return err
		}
		c.Builder.Store(converted.Operand, ptr)
		return nil
	}

	completed := completeOf(c, t)
	switch {
	case completed.IsArray():
		for i, elemNode := range n.Children {
			if i >= completed.Len {
				break
			}
			elemPtr := c.Builder.ArrayElem(completed, ptr, i)
			if err := genInitializer(c, elemPtr, completed.Elem, elemNode); err != nil {
				return err
			}
		}
		return nil
	case completed.IsStruct():
		for i, fieldNode := range n.Children {
			if i >= len(completed.Fields) {
				break
			}
			fieldPtr := c.Builder.Member(completed, ptr, i)
			if err := genInitializer(c, fieldPtr, completed.Fields[i].Type, fieldNode); err != nil {
				return err
			}
		}
		return nil
	}
	return badOperands(n, "initializer")
}

// --- struct declarations (top-level only — the grammar never admits a
// brace-enclosed struct body inside a block) ---

func genStructDecl(c *ctx.Context, n *ast.Node) error {
	tag := n.Value
	if len(n.Children) == 0 {
		if _, err := c.LookupTag(tag); err != nil {
			c.DeclareTag(tag, types.NewStruct(tag, nil, tag))
		}
		return nil
	}
	fields := make([]types.Field, 0, len(n.Children))
	for _, fn := range n.Children {
		ft, err := ResolveType(c, fn.Child(0))
		if err != nil {
			return err
		}
		fields = append(fields, types.Field{Name: fn.Value, Type: ft})
	}
	t := types.NewStruct(tag, fields, tag)
	c.DeclareTag(tag, t)
	llst := types.LLVM(t).(*lltypes.StructType)
	c.Builder.Module.RegisterNamedStruct(tag, llst)
	return nil
}

// --- top-level translation-unit driver ---

// deferredInit is a global initializer that could not be constant-folded
// and must instead run at program startup (synthesized __cc_init).
type deferredInit struct {
	ptr  llvalue.Value
	typ  *types.Type
	node *ast.Node
}

func resolveParams(c *ctx.Context, paramList *ast.Node) ([]*types.Type, []string, bool, error) {
	var params []*types.Type
	var names []string
	variadic := false
	for _, p := range paramList.Children {
		if p.Value == "..." {
			variadic = true
			continue
		}
		t, err := ResolveType(c, p.Child(0))
		if err != nil {
			return nil, nil, false, err
		}
		params = append(params, t)
		names = append(names, p.Value)
	}
	return params, names, variadic, nil
}

func declareFuncSignature(c *ctx.Context, n *ast.Node) error {
	name := n.Value
	paramList, retNode := n.Child(0), n.Child(1)

	if entry, err := c.LookupVar(name); err == nil && entry.Func != nil {
		return nil // already declared — an earlier prototype or this same signature
	}
	retType, err := ResolveType(c, retNode)
	if err != nil {
		return err
	}
	params, paramNames, variadic, err := resolveParams(c, paramList)
	if err != nil {
		return err
	}
	fnType := types.NewFunction(retType, params, variadic)
	f := c.Builder.DeclareFunc(name, retType, params, paramNames, variadic)
	return c.DeclareFunc(name, &ctx.FuncEntry{Type: fnType, Callee: f, Variadic: variadic})
}

// genFuncDef generates a function's body against its already-declared
// signature. Parameters land in the same scope as the body's top-level
// statements — real C distinguishes them, but nothing in this language's
// statement set can observe the difference, and it saves a redundant
// scope push on every call.
func genFuncDef(c *ctx.Context, n *ast.Node) error {
	name := n.Value
	paramList, body := n.Child(0), n.Child(2)
	if body == nil {
		return nil // prototype only
	}
	entry, err := c.LookupVar(name)
	if err != nil {
		return err
	}
	fe := entry.Func

	c.Builder.EnterFuncBody(fe.Callee)
	c.EnterFunc(fe.Type.Ret)
	c.EnterScope()

	paramIdx := 0
	for _, p := range paramList.Children {
		if p.Value == "..." {
			continue
		}
		pt := fe.Type.Params[paramIdx]
		ptr := c.Builder.Alloca(pt, p.Value)
		c.Builder.Store(fe.Callee.Params[paramIdx], ptr)
		if err := c.DeclareVar(p.Value, &ctx.VarEntry{Type: pt, Ptr: ptr}); err != nil {
			c.LeaveScope()
			return err
		}
		paramIdx++
	}

	for _, s := range body.Children {
		if err := GenStmt(c, s); err != nil {
			c.LeaveScope()
			return err
		}
	}

	if c.Builder.CurrentBlock.Term == nil {
		if fe.Type.Ret.IsVoid() {
			c.Builder.Ret(nil)
		} else {
			c.Builder.Ret(irgen.ConstZero(fe.Type.Ret))
		}
	}
	c.LeaveScope()
	return nil
}

func identOf(n *ast.Node) string {
	if n != nil && n.Kind == ast.KindIdent {
		return n.Value
	}
	return ""
}

// tryConstInit attempts to fold a scalar initializer expression into an
// LLVM constant without emitting any IR: integer/float/char literals, a
// string literal's address, and the address of a previously-declared
// global or function.
func tryConstInit(c *ctx.Context, n *ast.Node, t *types.Type) (constant.Constant, bool) {
	switch n.Kind {
	case ast.KindIntLit:
		v, err := parseIntLiteral(n)
		if err != nil {
			return nil, false
		}
		switch {
		case t.Kind == types.KindLongDouble:
			return irgen.ConstLongDouble(float64(v)), true
		case t.IsFloating():
			return constant.NewFloat(types.LLVM(t).(*lltypes.FloatType), float64(v)), true
		case t.IsInteger() || t.Kind == types.KindBool:
			return constant.NewInt(types.LLVM(t).(*lltypes.IntType), v), true
		}
	case ast.KindFloatLit:
		v, err := parseFloatLiteral(n)
		if err != nil {
			return nil, false
		}
		switch {
		case t.Kind == types.KindLongDouble:
			return irgen.ConstLongDouble(v), true
		case t.IsFloating():
			return constant.NewFloat(types.LLVM(t).(*lltypes.FloatType), v), true
		}
	case ast.KindCharLit:
		b, err := unescapeChar(n)
		if err != nil {
			return nil, false
		}
		if t.IsInteger() {
			return constant.NewInt(types.LLVM(t).(*lltypes.IntType), int64(b)), true
		}
	case ast.KindStringLit:
		if t.IsPointer() {
			bytes := append(unescapeString(n.Value), 0)
			g := c.Builder.Module.DefStr(bytes)
			zero := constant.NewInt(lltypes.I32, 0)
			return constant.NewGetElementPtr(g.ContentType, g, zero, zero), true
		}
	case ast.KindAddrOf:
		name := identOf(n.Child(0))
		if name == "" {
			break
		}
		entry, err := c.LookupVar(name)
		if err != nil {
			break
		}
		if entry.Func != nil {
			return entry.Func.Callee, true
		}
		if g, ok := entry.Var.Ptr.(*ir.Global); ok {
			return g, true
		}
	}
	return nil, false
}

// tryConstAggregate extends tryConstInit to brace-enclosed initializer
// lists: every element must itself fold to a constant, or the whole
// initializer falls back to the deferred-init path.
func tryConstAggregate(c *ctx.Context, n *ast.Node, t *types.Type) (constant.Constant, bool) {
	if n.Kind != ast.KindInitList {
		return tryConstInit(c, n, t)
	}
	completed := completeOf(c, t)
	llty := types.LLVM(completed)
	switch {
	case completed.IsArray():
		elems := make([]constant.Constant, 0, len(n.Children))
		for _, en := range n.Children {
			ec, ok := tryConstAggregate(c, en, completed.Elem)
			if !ok {
				return nil, false
			}
			elems = append(elems, ec)
		}
		return constant.NewArray(llty.(*lltypes.ArrayType), elems...), true
	case completed.IsStruct():
		elems := make([]constant.Constant, 0, len(n.Children))
		for i, en := range n.Children {
			if i >= len(completed.Fields) {
				break
			}
			ec, ok := tryConstAggregate(c, en, completed.Fields[i].Type)
			if !ok {
				return nil, false
			}
			elems = append(elems, ec)
		}
		return constant.NewStruct(llty.(*lltypes.StructType), elems...), true
	}
	return nil, false
}

func genGlobalVarDecl(c *ctx.Context, n *ast.Node, pending *[]deferredInit) error {
	name := n.Value
	typeNode, initNode := n.Child(0), n.Child(1)
	t, err := ResolveType(c, typeNode)
	if err != nil {
		return err
	}
	completed := completeOf(c, t)
	if completed.IsIncomplete() {
		return incompleteTypeUse(n, "global declaration", completed)
	}
	g := c.Builder.Module.M.NewGlobalDef(name, irgen.ConstZeroAggregate(t))
	if err := c.DeclareVar(name, &ctx.VarEntry{Type: t, Ptr: g}); err != nil {
		return err
	}
	if initNode == nil {
		return nil
	}
	if cv, ok := tryConstAggregate(c, initNode, t); ok {
		g.Init = cv
		return nil
	}
	*pending = append(*pending, deferredInit{ptr: g, typ: t, node: initNode})
	return nil
}

// flushDeferredGlobalInits synthesizes __cc_init — a function that runs
// every global initializer that couldn't be constant-folded — and wires it
// into @llvm.global_ctors so a linked program actually runs it before main,
// the way a file-scope initializer that isn't a constant expression has to
// be handled once LLVM IR requires globals to carry a constant initializer.
func flushDeferredGlobalInits(c *ctx.Context, pending []deferredInit) []error {
	var errs []error
	f := c.Builder.DeclareFunc("__cc_init", types.Void, nil, nil, false)
	c.Builder.EnterFuncBody(f)
	c.EnterFunc(types.Void)
	for _, d := range pending {
		if err := genInitializer(c, d.ptr, d.typ, d.node); err != nil {
			errs = append(errs, err)
		}
	}
	c.Builder.Ret(nil)
	if len(errs) == 0 {
		registerGlobalCtor(c, f)
	}
	return errs
}

func registerGlobalCtor(c *ctx.Context, f *ir.Func) {
	entryTy := lltypes.NewStruct(lltypes.I32, lltypes.NewPointer(lltypes.NewFunc(lltypes.Void)), lltypes.NewPointer(lltypes.I8))
	entry := constant.NewStruct(entryTy,
		constant.NewInt(lltypes.I32, 65535),
		f,
		constant.NewNull(lltypes.NewPointer(lltypes.I8)),
	)
	arr := constant.NewArray(lltypes.NewArray(1, entryTy), entry)
	g := c.Builder.Module.M.NewGlobalDef("llvm.global_ctors", arr)
	g.Linkage = enum.LinkageAppending
}

// GenTranslationUnit is the whole program's codegen entry point: it
// declares every function signature up front (so forward calls and
// function-pointer tables resolve regardless of source order), then walks
// the unit a second time generating struct completions, global variables,
// and function bodies, and finally flushes any deferred global
// initializers. Errors are collected rather than aborting at the first one,
// so a single bad declaration doesn't hide the rest of the file's problems.
func GenTranslationUnit(c *ctx.Context, unit *ast.Node) []error {
	var errs []error
	var pending []deferredInit

	for _, item := range unit.Children {
		if item.Kind == ast.KindFuncDecl {
			if err := declareFuncSignature(c, item); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, item := range unit.Children {
		switch item.Kind {
		case ast.KindStructDecl:
			if err := genStructDecl(c, item); err != nil {
				errs = append(errs, err)
			}
		case ast.KindDeclStmt:
			for _, vd := range item.Children {
				if err := genGlobalVarDecl(c, vd, &pending); err != nil {
					errs = append(errs, err)
				}
			}
		case ast.KindFuncDecl:
			if err := genFuncDef(c, item); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(pending) > 0 {
		errs = append(errs, flushDeferredGlobalInits(c, pending)...)
	}

	// Flush the file-scope struct tags that are still incomplete at the end
	// of the unit — the same scope-exit rule as a block, applied once to the
	// one scope that otherwise never exits.
	c.LeaveScope()

	return errs
}
