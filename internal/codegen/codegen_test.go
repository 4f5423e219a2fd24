package codegen

import (
	"strings"
	"testing"

	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/ctx"
	"github.com/hassan/cc/internal/irgen"
)

// newCtx returns a bare context over a fresh module. GenTranslationUnit
// opens and terminates every function it needs itself, so the tests in this
// file never need a function pre-opened — and a stray unterminated one
// would break Module.String()'s rendering of the whole module.
func newCtx() (*irgen.Builder, *ctx.Context) {
	b := irgen.NewBuilder()
	return b, ctx.New(b)
}

func TestGenTranslationUnit_SimpleReturn(t *testing.T) {
	_, c := newCtx()
	fn := funcDecl("main", paramList(), typeNode("int"), block(retStmt(intLit("0"))))
	unit := translationUnit(fn)

	errs := GenTranslationUnit(c, unit)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "define i32 @main()") {
		t.Errorf("expected a main definition, got:\n%s", out)
	}
	if !strings.Contains(out, "ret i32 0") {
		t.Errorf("expected ret i32 0, got:\n%s", out)
	}
}

func TestGenTranslationUnit_LocalVarArithmetic(t *testing.T) {
	_, c := newCtx()
	body := block(
		declStmt(varDecl("x", typeNode("int"), intLit("2"))),
		exprStmt(assign("=", ident("x"), binary("+", ident("x"), intLit("3")))),
		retStmt(ident("x")),
	)
	fn := funcDecl("main", paramList(), typeNode("int"), body)
	errs := GenTranslationUnit(c, translationUnit(fn))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "add i32") {
		t.Errorf("expected an add instruction, got:\n%s", out)
	}
	if !strings.Contains(out, "alloca i32") {
		t.Errorf("expected the local's alloca, got:\n%s", out)
	}
}

func TestGenTranslationUnit_IfElse(t *testing.T) {
	_, c := newCtx()
	params := paramList(funcParam("x", typeNode("int")))
	cond := binary(">", ident("x"), intLit("0"))
	body := block(ifStmt(cond, block(retStmt(intLit("1"))), block(retStmt(intLit("0")))))
	fn := funcDecl("sign", params, typeNode("int"), body)

	errs := GenTranslationUnit(c, translationUnit(fn))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	for _, want := range []string{"if.then:", "if.else:", "if.end:", "icmp sgt"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestGenTranslationUnit_WhileWithBreak(t *testing.T) {
	_, c := newCtx()
	body := block(
		declStmt(varDecl("i", typeNode("int"), intLit("0"))),
		whileStmt(
			binary("<", ident("i"), intLit("10")),
			block(
				ifStmt(binary("==", ident("i"), intLit("5")), block(breakStmt()), nil),
				exprStmt(assign("+=", ident("i"), intLit("1"))),
			),
		),
		retStmt(ident("i")),
	)
	fn := funcDecl("main", paramList(), typeNode("int"), body)

	errs := GenTranslationUnit(c, translationUnit(fn))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	for _, want := range []string{"while.cond:", "while.body:", "while.end:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestGenTranslationUnit_ForwardCall(t *testing.T) {
	_, c := newCtx()
	fnA := funcDecl("a", paramList(), typeNode("int"), block(retStmt(call(ident("b")))))
	fnB := funcDecl("b", paramList(), typeNode("int"), block(retStmt(intLit("42"))))

	errs := GenTranslationUnit(c, translationUnit(fnA, fnB))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors (forward reference should resolve): %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "call i32 @b()") {
		t.Errorf("expected a call to the later-defined function b, got:\n%s", out)
	}
	if !strings.Contains(out, "define i32 @b()") {
		t.Errorf("expected b to still be defined, got:\n%s", out)
	}
}

func TestGenTranslationUnit_StructMemberAccess(t *testing.T) {
	_, c := newCtx()
	st := structDecl("Point", fieldDecl("x", typeNode("int")), fieldDecl("y", typeNode("int")))
	body := block(
		declStmt(varDecl("p", typeNode("struct Point"), nil)),
		exprStmt(assign("=", member(ident("p"), "x"), intLit("5"))),
		retStmt(member(ident("p"), "x")),
	)
	fn := funcDecl("main", paramList(), typeNode("int"), body)

	errs := GenTranslationUnit(c, translationUnit(st, fn))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "%Point = type") {
		t.Errorf("expected the struct's type definition, got:\n%s", out)
	}
	if !strings.Contains(out, "getelementptr") {
		t.Errorf("expected a getelementptr for the member access, got:\n%s", out)
	}
}

func TestGenTranslationUnit_ConstantGlobalInit(t *testing.T) {
	_, c := newCtx()
	g := declStmt(varDecl("g", typeNode("int"), intLit("7")))
	errs := GenTranslationUnit(c, translationUnit(g))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "@g = global i32 7") {
		t.Errorf("expected a directly constant-folded global, got:\n%s", out)
	}
	if strings.Contains(out, "__cc_init") {
		t.Errorf("a constant-foldable initializer should not need __cc_init, got:\n%s", out)
	}
}

func TestGenTranslationUnit_LongDoubleGlobalInit(t *testing.T) {
	_, c := newCtx()
	g := declStmt(varDecl("ld", typeNode("long double"), nd("FloatLit", "1.5L")))
	errs := GenTranslationUnit(c, translationUnit(g))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "@ld = global x86_fp80") {
		t.Errorf("expected a directly constant-folded x86_fp80 global, got:\n%s", out)
	}
	if strings.Contains(out, "__cc_init") {
		t.Errorf("a constant-foldable long double initializer should not need __cc_init, got:\n%s", out)
	}
}

func TestGenTranslationUnit_DeferredGlobalInit(t *testing.T) {
	_, c := newCtx()
	compute := funcDecl("compute", paramList(), typeNode("int"), block(retStmt(intLit("9"))))
	h := declStmt(varDecl("h", typeNode("int"), call(ident("compute"))))

	errs := GenTranslationUnit(c, translationUnit(compute, h))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := c.Builder.Module.String()
	if !strings.Contains(out, "define void @__cc_init()") {
		t.Errorf("expected a synthesized __cc_init for the non-constant initializer, got:\n%s", out)
	}
	if !strings.Contains(out, "llvm.global_ctors") {
		t.Errorf("expected __cc_init to be registered via llvm.global_ctors, got:\n%s", out)
	}
	if !strings.Contains(out, "call i32 @compute()") {
		t.Errorf("expected __cc_init's body to call compute, got:\n%s", out)
	}
}

func TestGenTranslationUnit_UndeclaredVariable(t *testing.T) {
	_, c := newCtx()
	fn := funcDecl("main", paramList(), typeNode("int"), block(retStmt(ident("nope"))))
	errs := GenTranslationUnit(c, translationUnit(fn))
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if cerr.KindOf(errs[0]) != cerr.Undeclared {
		t.Errorf("expected Undeclared, got %v", cerr.KindOf(errs[0]))
	}
}

func TestGenTranslationUnit_RedeclarationInSameScope(t *testing.T) {
	_, c := newCtx()
	body := block(declStmt(
		varDecl("x", typeNode("int"), intLit("1")),
		varDecl("x", typeNode("int"), intLit("2")),
	))
	fn := funcDecl("main", paramList(), typeNode("void"), body)
	errs := GenTranslationUnit(c, translationUnit(fn))
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if cerr.KindOf(errs[0]) != cerr.Redeclaration {
		t.Errorf("expected Redeclaration, got %v", cerr.KindOf(errs[0]))
	}
}

func TestGenTranslationUnit_ReturnTypeMismatchIsCaught(t *testing.T) {
	_, c := newCtx()
	// returning a value from a void function is rejected
	fn := funcDecl("main", paramList(), typeNode("void"), block(retStmt(intLit("1"))))
	errs := GenTranslationUnit(c, translationUnit(fn))
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	if cerr.KindOf(errs[0]) != cerr.BadOperands {
		t.Errorf("expected BadOperands, got %v", cerr.KindOf(errs[0]))
	}
}
