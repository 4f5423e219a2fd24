package ctx

import (
	"fmt"

	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/irgen"
	"github.com/hassan/cc/internal/types"
)

// Scope is one lexical frame: two maps, keyed by identifier string —
// `Vars` for ordinary identifiers, `Tags` for struct tags. Kept as plain
// maps rather than a scope-tree-with-parent-pointer shape because Context
// already threads the enclosing chain as a slice (simpler to walk
// innermost-first on lookup, and scope exit needs to enumerate exactly
// this frame's tags without a tree walk).
type Scope struct {
	Vars map[string]*Entry
	Tags map[string]*types.Type
}

func newScope() *Scope {
	return &Scope{Vars: make(map[string]*Entry), Tags: make(map[string]*types.Type)}
}

// LoopFrame tracks the break/continue targets of one enclosing loop or
// switch: break targets the innermost frame's exit block, continue the
// continue block of the innermost frame that is not a switch.
type LoopFrame struct {
	BreakBlock    *ir.Block
	ContinueBlock *ir.Block
	IsSwitch      bool // continue inside a switch passes through to the enclosing loop
}

// SwitchFrame is the per-active-switch bookkeeping: cases in source order,
// a seen-set for uniqueness, a cursor for case-label replay, and an
// optional default label.
type SwitchFrame struct {
	Cases        []CaseLabel
	seen         map[int64]bool
	DefaultBlock *ir.Block
	cursor       int
}

// Context is the environment threaded through every codegen call: the
// scope stack, the switch-frame stack, the loop-frame stack (for
// break/continue resolution), the current function's goto-label table, and
// the IR builder itself (so declaring a variable can emit its alloca in
// the same step that installs the symbol).
type Context struct {
	Builder *irgen.Builder

	scopes   []*Scope
	switches []*SwitchFrame
	loops    []*LoopFrame

	// labels is the current function's goto-label table: a forward
	// reference to a label not yet seen still needs a target block to jump
	// to, so each name reserves its block eagerly on first mention.
	labels map[string]*ir.Block

	// returnType is the enclosing function's declared return type, consulted
	// by genReturn to type-check and convert the returned expression.
	returnType *types.Type
}

// New creates a Context with one (global) scope already pushed, seeded
// with the predeclared printf function (internal/irgen.NewModule already
// emitted its IR declaration; this installs the matching symbol so an
// Ident lookup of "printf" resolves like any other declared function).
func New(b *irgen.Builder) *Context {
	c := &Context{Builder: b}
	c.scopes = []*Scope{newScope()}
	printfType := types.NewFunction(types.Int, []*types.Type{types.NewPointer(types.Char, types.QualNone)}, true)
	_ = c.DeclareFunc("printf", &FuncEntry{Type: printfType, Callee: b.Module.Printf(), Variadic: true})
	return c
}

// EnterScope pushes a fresh frame.
func (c *Context) EnterScope() {
	c.scopes = append(c.scopes, newScope())
}

// LeaveScope pops the innermost frame. Every struct tag that frame
// introduced and that is still incomplete is emitted into the module as a
// named opaque struct, so a tag that was only ever forward-declared in
// this scope still has a valid type when it goes out of scope.
func (c *Context) LeaveScope() {
	top := c.scopes[len(c.scopes)-1]
	for tag, t := range top.Tags {
		if t.IsIncomplete() {
			llst := types.LLVM(t).(*lltypes.StructType)
			c.Builder.Module.RegisterNamedStruct(tag, llst)
		}
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// EnterFunc resets the goto-label table for a new function body and
// records its return type for genReturn's type-checking.
func (c *Context) EnterFunc(ret *types.Type) {
	c.labels = make(map[string]*ir.Block)
	c.returnType = ret
}

// ReturnType returns the enclosing function's declared return type.
func (c *Context) ReturnType() *types.Type {
	return c.returnType
}

// DeclareVar installs name in the innermost frame with storage already
// reserved. Redeclaration in the same frame fails with *redeclaration*.
func (c *Context) DeclareVar(name string, e *VarEntry) error {
	top := c.scopes[len(c.scopes)-1]
	if _, exists := top.Vars[name]; exists {
		return cerr.New(cerr.Redeclaration, fmt.Sprintf("redeclaration of %q", name))
	}
	top.Vars[name] = &Entry{Var: e}
	return nil
}

// DeclareFunc installs a function symbol in the innermost (normally global)
// frame.
func (c *Context) DeclareFunc(name string, e *FuncEntry) error {
	top := c.scopes[len(c.scopes)-1]
	if _, exists := top.Vars[name]; exists {
		return cerr.New(cerr.Redeclaration, fmt.Sprintf("redeclaration of %q", name))
	}
	top.Vars[name] = &Entry{Func: e}
	return nil
}

// LookupVar walks outermost-last (innermost-first) looking for name in the
// ordinary-identifier namespace; fails with *undeclared* if absent in every
// frame.
func (c *Context) LookupVar(name string) (*Entry, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if e, ok := c.scopes[i].Vars[name]; ok {
			return e, nil
		}
	}
	return nil, cerr.New(cerr.Undeclared, fmt.Sprintf("undeclared identifier %q", name))
}

// DeclareTag installs (or replaces — completing a prior forward
// declaration) a struct tag in the innermost frame's tag namespace.
func (c *Context) DeclareTag(name string, t *types.Type) {
	top := c.scopes[len(c.scopes)-1]
	top.Tags[name] = t
}

// LookupTag walks the scope stack for a struct tag; fails with
// *undeclared* if no `struct name` was ever seen.
func (c *Context) LookupTag(name string) (*types.Type, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i].Tags[name]; ok {
			return t, nil
		}
	}
	return nil, cerr.New(cerr.Undeclared, fmt.Sprintf("undeclared struct tag %q", name))
}

// TagTable flattens the visible tag bindings into the map internal/types'
// Complete expects — innermost wins on shadowing.
func (c *Context) TagTable() map[string]*types.Type {
	out := make(map[string]*types.Type)
	for _, s := range c.scopes {
		for tag, t := range s.Tags {
			out[tag] = t
		}
	}
	return out
}

// --- switch frame API ---

// EnterSwitch pushes a new switch frame.
func (c *Context) EnterSwitch() {
	c.switches = append(c.switches, &SwitchFrame{seen: make(map[int64]bool)})
}

// LeaveSwitch pops the innermost switch frame.
func (c *Context) LeaveSwitch() *SwitchFrame {
	top := c.switches[len(c.switches)-1]
	c.switches = c.switches[:len(c.switches)-1]
	return top
}

// CurrentSwitch returns the innermost active switch frame, or nil.
func (c *Context) CurrentSwitch() *SwitchFrame {
	if len(c.switches) == 0 {
		return nil
	}
	return c.switches[len(c.switches)-1]
}

// DefineCase records a case value/label pair; a duplicate value fails with
// *redeclaration*.
func (c *Context) DefineCase(value int64, block *ir.Block) error {
	sw := c.CurrentSwitch()
	if sw.seen[value] {
		return cerr.New(cerr.Redeclaration, fmt.Sprintf("duplicate case value %d", value))
	}
	sw.seen[value] = true
	sw.Cases = append(sw.Cases, CaseLabel{Value: value, Block: block})
	return nil
}

// DefineDefault records the switch's default label.
func (c *Context) DefineDefault(block *ir.Block) {
	c.CurrentSwitch().DefaultBlock = block
}

// NextCaseLabel returns case labels in declaration order, to match the
// body's textual order during the second emission pass, which replays the
// body and lands on each case label exactly where it appears in source.
func (c *Context) NextCaseLabel() *ir.Block {
	sw := c.CurrentSwitch()
	if sw.cursor >= len(sw.Cases) {
		return nil
	}
	b := sw.Cases[sw.cursor].Block
	sw.cursor++
	return b
}

// CurrentDefaultLabel returns the innermost switch's default block, or nil.
func (c *Context) CurrentDefaultLabel() *ir.Block {
	return c.CurrentSwitch().DefaultBlock
}

// --- loop frame API (break/continue) ---

// PushLoop registers a new innermost loop/switch's break/continue targets.
func (c *Context) PushLoop(f *LoopFrame) { c.loops = append(c.loops, f) }

// PopLoop removes the innermost loop/switch frame.
func (c *Context) PopLoop() { c.loops = c.loops[:len(c.loops)-1] }

// BreakTarget returns the innermost enclosing loop-or-switch's break block.
func (c *Context) BreakTarget() (*ir.Block, error) {
	if len(c.loops) == 0 {
		return nil, cerr.New(cerr.Syntax, "break outside loop or switch")
	}
	return c.loops[len(c.loops)-1].BreakBlock, nil
}

// ContinueTarget returns the innermost enclosing *loop's* continue block,
// skipping over switch frames — continue inside a switch targets the
// enclosing loop, not the switch.
func (c *Context) ContinueTarget() (*ir.Block, error) {
	for i := len(c.loops) - 1; i >= 0; i-- {
		if !c.loops[i].IsSwitch {
			return c.loops[i].ContinueBlock, nil
		}
	}
	return nil, cerr.New(cerr.Syntax, "continue outside loop")
}

// --- goto/label API ---

// ReserveLabel returns the block for a label, creating (and eagerly
// allocating) it on first reference — so a `goto` occurring textually
// before its target label still resolves to the right block.
func (c *Context) ReserveLabel(name string) *ir.Block {
	if b, ok := c.labels[name]; ok {
		return b
	}
	b := c.Builder.CurrentFunc.NewBlock("")
	b.LocalName = "label." + name
	c.labels[name] = b
	return b
}
