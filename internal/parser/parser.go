// Package parser implements a recursive-descent parser for a C-like
// language, emitting the generic internal/ast.Node tree that is the only
// contract between parsing and code generation.
//
// PARSING STRATEGY:
// 1. Recursive descent for declarations and statements
// 2. Pratt parsing (precedence climbing) for expressions, over the
//    language's closed operator-family table
//
// WHY RECURSIVE DESCENT?
// - Direct mapping from grammar to code
// - Good error messages (you know exactly what you expected)
// - No table generation step
//
// ERROR HANDLING STRATEGY:
// - Report errors but continue parsing (collect more than one per run)
// - panic/recover for error recovery at declaration/statement boundaries
package parser

import (
	"fmt"
	"strings"

	"github.com/hassan/cc/internal/ast"
	"github.com/hassan/cc/internal/lexer"
)

// Parser converts a token stream into an *ast.Node tree.
//
// DESIGN CHOICE: a struct with methods, not a pile of free functions — state
// (current/previous token, accumulated errors, panic-recovery mode) is
// easier to reason about this way.
type Parser struct {
	lexer *lexer.Lexer

	current  lexer.Token
	previous lexer.Token
	peeked   *lexer.Token

	errors []error

	// panicMode tracks whether we're mid-recovery; suppresses cascading
	// errors until synchronize() finds a clean boundary.
	panicMode bool
}

// New creates a parser over l and primes the first token.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lexer: l}
	p.advance()
	return p
}

// ParseFile parses a complete translation unit: function definitions,
// struct declarations, and global variable declarations, in any order.
func (p *Parser) ParseFile(filename string) (*ast.Node, []error) {
	pos := p.current.Position
	unit := &ast.Node{Kind: ast.KindTranslationUnit, Location: pos}

	for !p.isAtEnd() {
		item := p.parseTopLevel()
		if item != nil {
			unit.Children = append(unit.Children, item)
		}
	}
	return unit, p.errors
}

// parseTopLevel parses one top-level item: a struct declaration, a function
// declaration/definition, or a global variable declaration.
func (p *Parser) parseTopLevel() *ast.Node {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
		}
	}()

	if p.check(lexer.TokenStruct) {
		return p.parseStructDecl()
	}

	if !p.current.Type.IsTypeKeyword() {
		p.error(fmt.Sprintf("expected declaration, got %s", p.current.Type))
		panic("invalid top-level declaration")
	}

	base := p.parseTypeSpecifiers()
	pos := p.current.Position

	ptrType := base
	for p.match(lexer.TokenStar) {
		ptrType = ast.New(ast.KindTypeName, "ptr", pos, ptrType)
	}

	name := p.expectIdentifier("expected declarator name")

	if p.check(lexer.TokenLeftParen) {
		return p.parseFuncDeclRest(name, ptrType, pos)
	}

	return p.parseGlobalVarRest(name, ptrType, pos)
}

// parseFuncDeclRest parses the parameter list and either a body (function
// definition) or `;` (prototype) after the name has already been consumed.
func (p *Parser) parseFuncDeclRest(name string, retType *ast.Node, pos lexer.Position) *ast.Node {
	p.consume(lexer.TokenLeftParen, "expected '(' after function name")
	params := p.parseParamList()
	p.consume(lexer.TokenRightParen, "expected ')' after parameters")

	fn := ast.New(ast.KindFuncDecl, name, pos, params, retType)

	if p.match(lexer.TokenSemicolon) {
		return fn
	}

	body := p.parseBlockStmt()
	fn.Children = append(fn.Children, body)
	return fn
}

// parseParamList parses `void`, an empty list, or a comma-separated
// specifier+declarator list, with an optional trailing `...`.
func (p *Parser) parseParamList() *ast.Node {
	pos := p.current.Position
	list := ast.New(ast.KindParamList, "", pos)

	if p.check(lexer.TokenRightParen) {
		return list
	}
	if p.check(lexer.TokenVoid) {
		// Lookahead: `(void)` means zero parameters, but `(void *p)` means
		// one pointer-to-void parameter — only consume `void` here when it
		// is immediately followed by `)`.
		save := p.peek()
		if save.Type == lexer.TokenRightParen {
			p.advance()
			return list
		}
	}

	for {
		if p.match(lexer.TokenEllipsis) {
			list.Children = append(list.Children, ast.New(ast.KindParam, "...", p.previous.Position))
			break
		}
		pPos := p.current.Position
		base := p.parseTypeSpecifiers()
		name, t := p.parseDeclarator(base)
		list.Children = append(list.Children, ast.New(ast.KindParam, name, pPos, t))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	return list
}

// parseGlobalVarRest parses the remaining declarators and optional
// initializer of a global variable declaration, after the first name and
// its pointer prefix have already been consumed.
func (p *Parser) parseGlobalVarRest(firstName string, firstType *ast.Node, pos lexer.Position) *ast.Node {
	decl := ast.New(ast.KindDeclStmt, "", pos)
	name, t := p.finishDeclaratorSuffixes(firstName, firstType)
	decl.Children = append(decl.Children, p.finishOneVarDecl(name, t, pos))

	for p.match(lexer.TokenComma) {
		dPos := p.current.Position
		n2, t2 := p.parseDeclaratorFromBase(firstBaseOf(t))
		decl.Children = append(decl.Children, p.finishOneVarDecl(n2, t2, dPos))
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after variable declaration")
	return decl
}

func (p *Parser) finishOneVarDecl(name string, t *ast.Node, pos lexer.Position) *ast.Node {
	v := ast.New(ast.KindVarDecl, name, pos, t)
	if p.match(lexer.TokenAssign) {
		init := p.parseInitializer()
		v.Children = append(v.Children, init)
	}
	return v
}

// parseInitializer parses either a brace-enclosed aggregate initializer
// (`{1, 2, 3}`, nesting freely, trailing comma tolerated) or falls through
// to a plain assignment-expression initializer.
func (p *Parser) parseInitializer() *ast.Node {
	if !p.check(lexer.TokenLeftBrace) {
		return p.parseAssignExpr()
	}
	pos := p.current.Position
	p.advance() // consume '{'
	list := ast.New(ast.KindInitList, "", pos)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		list.Children = append(list.Children, p.parseInitializer())
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRightBrace, "expected '}' after initializer list")
	return list
}

// parseStructDecl parses `struct Tag { field-decl* } ;` or the forward form
// `struct Tag ;`.
func (p *Parser) parseStructDecl() *ast.Node {
	pos := p.current.Position
	p.advance() // consume 'struct'
	tag := p.expectIdentifier("expected struct tag")
	decl := ast.New(ast.KindStructDecl, tag, pos)

	if p.match(lexer.TokenSemicolon) {
		return decl // forward declaration
	}

	p.consume(lexer.TokenLeftBrace, "expected '{' in struct declaration")
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		fPos := p.current.Position
		base := p.parseTypeSpecifiers()
		name, t := p.parseDeclarator(base)
		decl.Children = append(decl.Children, ast.New(ast.KindFieldDecl, name, fPos, t))
		p.consume(lexer.TokenSemicolon, "expected ';' after field declaration")
	}
	p.consume(lexer.TokenRightBrace, "expected '}' after struct body")
	p.consume(lexer.TokenSemicolon, "expected ';' after struct declaration")
	return decl
}

// --- type specifiers and declarators ---

// parseTypeSpecifiers consumes the qualifier/base-type run of a declaration
// specifier sequence (`const unsigned long`, `struct point`, `volatile
// double`, …) and returns a leaf KindTypeName node naming it.
func (p *Parser) parseTypeSpecifiers() *ast.Node {
	pos := p.current.Position
	var quals, base []string

	for {
		switch p.current.Type {
		case lexer.TokenConst, lexer.TokenVolatile:
			quals = append(quals, p.current.Lexeme)
			p.advance()
		case lexer.TokenStruct:
			p.advance()
			tag := p.expectIdentifier("expected struct tag")
			base = append(base, "struct", tag)
		case lexer.TokenVoid, lexer.TokenBool, lexer.TokenChar_, lexer.TokenShort,
			lexer.TokenInt, lexer.TokenLong, lexer.TokenFloat, lexer.TokenDouble,
			lexer.TokenSigned, lexer.TokenUnsigned:
			base = append(base, p.current.Lexeme)
			p.advance()
		default:
			goto done
		}
	}
done:
	if len(base) == 0 {
		p.error(fmt.Sprintf("expected type specifier, got %s", p.current.Type))
		panic("invalid type specifier")
	}
	spelling := strings.Join(append(quals, base...), " ")
	return ast.New(ast.KindTypeName, spelling, pos)
}

// parseDeclarator parses the pointer/array suffixes of one declarator and
// returns its name and full type (base wrapped by "ptr"/"array" nodes,
// outermost-last — i.e. `int *a[3]` is array-of-pointer-to-int).
func (p *Parser) parseDeclarator(base *ast.Node) (string, *ast.Node) {
	pos := p.current.Position
	t := base
	for p.match(lexer.TokenStar) {
		t = ast.New(ast.KindTypeName, "ptr", pos, t)
	}
	name := p.expectIdentifier("expected declarator name")
	return p.finishDeclaratorSuffixes(name, t)
}

// parseDeclaratorFromBase parses a subsequent declarator in a
// comma-separated list, re-applying the first declarator's specifier base
// (so `int *a, b;` gives `b` the plain `int` type, not `int *`, matching C:
// the `*` binds to the declarator, not the specifier run).
func (p *Parser) parseDeclaratorFromBase(base *ast.Node) (string, *ast.Node) {
	return p.parseDeclarator(base)
}

func (p *Parser) finishDeclaratorSuffixes(name string, t *ast.Node) (string, *ast.Node) {
	for p.check(lexer.TokenLeftBracket) {
		pos := p.current.Position
		p.advance()
		if p.check(lexer.TokenRightBracket) {
			t = ast.New(ast.KindTypeName, "array", pos, t)
		} else {
			lenExpr := p.parseAssignExpr()
			t = ast.New(ast.KindTypeName, "array", pos, t, lenExpr)
		}
		p.consume(lexer.TokenRightBracket, "expected ']' after array length")
	}
	return name, t
}

// firstBaseOf walks past any "ptr"/"array" wrapper nodes to recover the
// original specifier-run node, for declarator lists like `int *a, b, *c;`.
func firstBaseOf(t *ast.Node) *ast.Node {
	for t.Value == "ptr" || t.Value == "array" {
		t = t.Children[0]
	}
	return t
}

// --- statements ---

func (p *Parser) parseStmt() *ast.Node {
	switch {
	case p.check(lexer.TokenLeftBrace):
		return p.parseBlockStmt()
	case p.match(lexer.TokenIf):
		return p.parseIfStmt()
	case p.match(lexer.TokenWhile):
		return p.parseWhileStmt()
	case p.match(lexer.TokenDo):
		return p.parseDoWhileStmt()
	case p.match(lexer.TokenFor):
		return p.parseForStmt()
	case p.match(lexer.TokenBreak):
		pos := p.previous.Position
		p.consume(lexer.TokenSemicolon, "expected ';' after 'break'")
		return ast.New(ast.KindBreak, "", pos)
	case p.match(lexer.TokenContinue):
		pos := p.previous.Position
		p.consume(lexer.TokenSemicolon, "expected ';' after 'continue'")
		return ast.New(ast.KindContinue, "", pos)
	case p.match(lexer.TokenReturn):
		return p.parseReturnStmt()
	case p.match(lexer.TokenSwitch):
		return p.parseSwitchStmt()
	case p.match(lexer.TokenGoto):
		pos := p.previous.Position
		label := p.expectIdentifier("expected label name after 'goto'")
		p.consume(lexer.TokenSemicolon, "expected ';' after goto label")
		return ast.New(ast.KindGoto, label, pos)
	case p.match(lexer.TokenSemicolon):
		return ast.New(ast.KindEmpty, "", p.previous.Position)
	case p.current.Type.IsTypeKeyword() || p.check(lexer.TokenStruct):
		return p.parseDeclStmt()
	case p.check(lexer.TokenIdentifier) && p.peek().Type == lexer.TokenColon:
		pos := p.current.Position
		label := p.current.Lexeme
		p.advance()
		p.advance() // consume ':'
		return ast.New(ast.KindLabel, label, pos, p.parseStmt())
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlockStmt() *ast.Node {
	pos := p.current.Position
	p.consume(lexer.TokenLeftBrace, "expected '{'")
	block := ast.New(ast.KindBlock, "", pos)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		block.Children = append(block.Children, p.parseBlockItem())
	}
	p.consume(lexer.TokenRightBrace, "expected '}'")
	return block
}

// parseBlockItem parses one statement inside a block, recovering to the
// next statement boundary on error so one bad statement doesn't abort the
// whole function body.
func (p *Parser) parseBlockItem() (stmt *ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
			stmt = ast.New(ast.KindEmpty, "", p.current.Position)
		}
	}()
	return p.parseStmt()
}

func (p *Parser) parseIfStmt() *ast.Node {
	pos := p.previous.Position
	p.consume(lexer.TokenLeftParen, "expected '(' after 'if'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	then := p.parseStmt()
	if p.match(lexer.TokenElse) {
		return ast.New(ast.KindIf, "", pos, cond, then, p.parseStmt())
	}
	return ast.New(ast.KindIf, "", pos, cond, then)
}

func (p *Parser) parseWhileStmt() *ast.Node {
	pos := p.previous.Position
	p.consume(lexer.TokenLeftParen, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	body := p.parseStmt()
	return ast.New(ast.KindWhile, "", pos, cond, body)
}

func (p *Parser) parseDoWhileStmt() *ast.Node {
	pos := p.previous.Position
	body := p.parseStmt()
	p.consume(lexer.TokenWhile, "expected 'while' after do-block")
	p.consume(lexer.TokenLeftParen, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	p.consume(lexer.TokenSemicolon, "expected ';' after do-while")
	return ast.New(ast.KindDoWhile, "", pos, cond, body)
}

func (p *Parser) parseForStmt() *ast.Node {
	pos := p.previous.Position
	p.consume(lexer.TokenLeftParen, "expected '(' after 'for'")

	var initNode *ast.Node
	if p.check(lexer.TokenSemicolon) {
		initNode = ast.New(ast.KindEmpty, "", p.current.Position)
		p.advance()
	} else if p.current.Type.IsTypeKeyword() || p.check(lexer.TokenStruct) {
		initNode = p.parseDeclStmt()
	} else {
		expr := p.parseExpression()
		p.consume(lexer.TokenSemicolon, "expected ';' after for-init")
		initNode = ast.New(ast.KindExprStmt, "", pos, expr)
	}

	var cond *ast.Node
	if !p.check(lexer.TokenSemicolon) {
		cond = p.parseExpression()
	} else {
		cond = ast.New(ast.KindEmpty, "", p.current.Position)
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after for-condition")

	var step *ast.Node
	if !p.check(lexer.TokenRightParen) {
		step = p.parseExpression()
	} else {
		step = ast.New(ast.KindEmpty, "", p.current.Position)
	}
	p.consume(lexer.TokenRightParen, "expected ')' after for-clauses")

	body := p.parseStmt()
	return ast.New(ast.KindFor, "", pos, initNode, cond, step, body)
}

func (p *Parser) parseReturnStmt() *ast.Node {
	pos := p.previous.Position
	if p.match(lexer.TokenSemicolon) {
		return ast.New(ast.KindReturn, "", pos)
	}
	v := p.parseExpression()
	p.consume(lexer.TokenSemicolon, "expected ';' after return value")
	return ast.New(ast.KindReturn, "", pos, v)
}

// parseSwitchStmt parses a switch statement. The body is kept as a flat
// statement list with zero-child Case/Default marker nodes
// interspersed — codegen makes two passes over it: first collecting
// case/default labels (and allocating their blocks), then emitting the
// body with fallthrough exactly like real C switch semantics.
func (p *Parser) parseSwitchStmt() *ast.Node {
	pos := p.previous.Position
	p.consume(lexer.TokenLeftParen, "expected '(' after 'switch'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after switch condition")
	p.consume(lexer.TokenLeftBrace, "expected '{' to start switch body")

	body := ast.New(ast.KindBlock, "", pos)
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		switch {
		case p.match(lexer.TokenCase):
			cPos := p.previous.Position
			lit := p.parseAssignExpr()
			p.consume(lexer.TokenColon, "expected ':' after case value")
			body.Children = append(body.Children, ast.New(ast.KindCase, caseLiteralText(lit), cPos))
		case p.match(lexer.TokenDefault):
			dPos := p.previous.Position
			p.consume(lexer.TokenColon, "expected ':' after 'default'")
			body.Children = append(body.Children, ast.New(ast.KindDefault, "", dPos))
		default:
			body.Children = append(body.Children, p.parseBlockItem())
		}
	}
	p.consume(lexer.TokenRightBrace, "expected '}' to close switch body")
	return ast.New(ast.KindSwitch, "", pos, cond, body)
}

// caseLiteralText extracts the literal spelling of a case label's constant
// expression — case labels are restricted to integer constants, so a bare
// IntLit/CharLit node is all parseAssignExpr should ever produce here.
func caseLiteralText(n *ast.Node) string {
	return n.Value
}

func (p *Parser) parseDeclStmt() *ast.Node {
	pos := p.current.Position
	base := p.parseTypeSpecifiers()
	decl := ast.New(ast.KindDeclStmt, "", pos)

	name, t := p.parseDeclarator(base)
	decl.Children = append(decl.Children, p.finishOneVarDecl(name, t, pos))
	for p.match(lexer.TokenComma) {
		dPos := p.current.Position
		n2, t2 := p.parseDeclaratorFromBase(firstBaseOf(t))
		decl.Children = append(decl.Children, p.finishOneVarDecl(n2, t2, dPos))
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after declaration")
	return decl
}

func (p *Parser) parseExprStmt() *ast.Node {
	pos := p.current.Position
	expr := p.parseExpression()
	p.consume(lexer.TokenSemicolon, "expected ';' after expression")
	return ast.New(ast.KindExprStmt, "", pos, expr)
}

// --- expressions ---

// parseExpression parses a full expression, comma operator included — used
// wherever a statement embeds a freestanding expression.
func (p *Parser) parseExpression() *ast.Node {
	return p.parsePrecedence(PrecComma)
}

// parseAssignExpr parses an assignment-expression (no top-level comma) —
// used for call arguments, array lengths, and switch-case constants, where
// a bare comma has a different meaning (argument separator, etc.).
func (p *Parser) parseAssignExpr() *ast.Node {
	return p.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt loop: parse one unary/primary operand, then
// keep consuming infix operators whose precedence is at least min.
func (p *Parser) parsePrecedence(min Precedence) *ast.Node {
	left := p.parseUnary()

	for {
		opPrec := getPrecedence(p.current.Type)
		if opPrec < min || opPrec == PrecNone {
			return left
		}

		op := p.current

		switch {
		case isAssignmentOp(op.Type):
			p.advance()
			right := p.parsePrecedence(opPrec) // right-associative
			left = ast.New(ast.KindAssign, op.Lexeme, op.Position, left, right)
		case op.Type == lexer.TokenAndAnd || op.Type == lexer.TokenOrOr:
			p.advance()
			right := p.parsePrecedence(opPrec + 1)
			left = ast.New(ast.KindLogical, op.Lexeme, op.Position, left, right)
		case op.Type == lexer.TokenComma:
			p.advance()
			right := p.parsePrecedence(PrecAssignment)
			left = ast.New(ast.KindComma, ",", op.Position, left, right)
		default:
			p.advance()
			right := p.parsePrecedence(opPrec + 1)
			left = ast.New(ast.KindBinary, op.Lexeme, op.Position, left, right)
		}
	}
}

// parseUnary parses unary-expressions: prefix operators, sizeof,
// parenthesized-type casts, and (falling through) postfix-wrapped
// primaries.
func (p *Parser) parseUnary() *ast.Node {
	switch p.current.Type {
	case lexer.TokenMinus, lexer.TokenNot, lexer.TokenBitNot,
		lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		op := p.current
		p.advance()
		return ast.New(ast.KindUnary, op.Lexeme, op.Position, p.parseUnary())
	case lexer.TokenBitAnd:
		pos := p.current.Position
		p.advance()
		return ast.New(ast.KindAddrOf, "&", pos, p.parseUnary())
	case lexer.TokenStar:
		pos := p.current.Position
		p.advance()
		return ast.New(ast.KindUnary, "*", pos, p.parseUnary())
	case lexer.TokenSizeof:
		return p.parseSizeof()
	case lexer.TokenLeftParen:
		return p.parseParenOrCast()
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parseSizeof() *ast.Node {
	pos := p.current.Position
	p.advance() // consume 'sizeof'

	if p.check(lexer.TokenLeftParen) {
		parenPos := p.current.Position
		p.advance() // consume '('
		if p.current.Type.IsTypeKeyword() || p.check(lexer.TokenStruct) {
			t := p.parseTypeSpecifiers()
			for p.match(lexer.TokenStar) {
				t = ast.New(ast.KindTypeName, "ptr", parenPos, t)
			}
			p.consume(lexer.TokenRightParen, "expected ')' after sizeof type")
			return ast.New(ast.KindUnary, "sizeof_type", pos, t)
		}
		inner := p.parseExpression()
		p.consume(lexer.TokenRightParen, "expected ')'")
		operand := p.parsePostfix(inner)
		return ast.New(ast.KindUnary, "sizeof", pos, operand)
	}

	return ast.New(ast.KindUnary, "sizeof", pos, p.parseUnary())
}

// parseParenOrCast disambiguates `(type) expr` from `(expr)`: once '(' is
// consumed, the very next token tells us which production we're in.
func (p *Parser) parseParenOrCast() *ast.Node {
	pos := p.current.Position
	p.advance() // consume '('

	if p.current.Type.IsTypeKeyword() || p.check(lexer.TokenStruct) {
		t := p.parseTypeSpecifiers()
		for p.match(lexer.TokenStar) {
			t = ast.New(ast.KindTypeName, "ptr", pos, t)
		}
		p.consume(lexer.TokenRightParen, "expected ')' after cast type")
		operand := p.parseUnary()
		return p.parsePostfix(ast.New(ast.KindCast, "", pos, t, operand))
	}

	expr := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after expression")
	return p.parsePostfix(expr)
}

// parsePostfix wraps expr in any trailing `.field`, `->field`, `[index]`,
// `(args)`, `++`, `--` — binds tighter than any prefix operator.
func (p *Parser) parsePostfix(expr *ast.Node) *ast.Node {
	for {
		switch p.current.Type {
		case lexer.TokenDot:
			pos := p.current.Position
			p.advance()
			name := p.expectIdentifier("expected field name after '.'")
			expr = ast.New(ast.KindMember, name, pos, expr)
		case lexer.TokenArrow:
			pos := p.current.Position
			p.advance()
			name := p.expectIdentifier("expected field name after '->'")
			deref := ast.New(ast.KindUnary, "*", pos, expr)
			expr = ast.New(ast.KindMember, name, pos, deref)
		case lexer.TokenLeftBracket:
			pos := p.current.Position
			p.advance()
			idx := p.parseExpression()
			p.consume(lexer.TokenRightBracket, "expected ']' after index")
			expr = ast.New(ast.KindIndex, "", pos, expr, idx)
		case lexer.TokenLeftParen:
			pos := p.current.Position
			p.advance()
			args := []*ast.Node{expr}
			if !p.check(lexer.TokenRightParen) {
				for {
					args = append(args, p.parseAssignExpr())
					if !p.match(lexer.TokenComma) {
						break
					}
				}
			}
			p.consume(lexer.TokenRightParen, "expected ')' after call arguments")
			expr = &ast.Node{Kind: ast.KindCall, Location: pos, Children: args}
		case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
			op := p.current
			p.advance()
			expr = ast.New(ast.KindPostfix, op.Lexeme, op.Position, expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	tok := p.current
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		if strings.ContainsAny(tok.Lexeme, ".eE") {
			return ast.New(ast.KindFloatLit, tok.Lexeme, tok.Position)
		}
		return ast.New(ast.KindIntLit, tok.Lexeme, tok.Position)
	case lexer.TokenString:
		p.advance()
		return ast.New(ast.KindStringLit, tok.Lexeme, tok.Position)
	case lexer.TokenChar:
		p.advance()
		return ast.New(ast.KindCharLit, tok.Lexeme, tok.Position)
	case lexer.TokenIdentifier:
		p.advance()
		return ast.New(ast.KindIdent, tok.Lexeme, tok.Position)
	default:
		p.error(fmt.Sprintf("expected expression, got %s", tok.Type))
		panic("invalid primary expression")
	}
}

// --- token-stream helpers ---

func (p *Parser) peek() lexer.Token {
	if p.peeked == nil {
		tok := p.lex()
		p.peeked = &tok
	}
	return *p.peeked
}

func (p *Parser) lex() lexer.Token {
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.error(err.Error())
		return lexer.Token{Type: lexer.TokenInvalid}
	}
	if tok.Type == lexer.TokenComment {
		return p.lex()
	}
	return tok
}

func (p *Parser) advance() {
	p.previous = p.current
	if p.peeked != nil {
		p.current = *p.peeked
		p.peeked = nil
		return
	}
	p.current = p.lex()
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) match(tokenTypes ...lexer.TokenType) bool {
	for _, t := range tokenTypes {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) {
	if p.check(tokenType) {
		p.advance()
		return
	}
	p.error(message)
	panic(message)
}

func (p *Parser) expectIdentifier(message string) string {
	if !p.check(lexer.TokenIdentifier) {
		p.error(message)
		panic(message)
	}
	name := p.current.Lexeme
	p.advance()
	return name
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}

func (p *Parser) error(message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errors = append(p.errors, fmt.Errorf("%s: %s", p.current.Position.String(), message))
}

// synchronize skips tokens until a declaration/statement boundary, so one
// malformed construct doesn't cascade into unrelated errors.
func (p *Parser) synchronize() {
	p.panicMode = false
	for !p.isAtEnd() {
		if p.previous.Type == lexer.TokenSemicolon || p.previous.Type == lexer.TokenRightBrace {
			return
		}
		switch p.current.Type {
		case lexer.TokenIf, lexer.TokenFor, lexer.TokenWhile, lexer.TokenDo,
			lexer.TokenReturn, lexer.TokenStruct, lexer.TokenSwitch,
			lexer.TokenVoid, lexer.TokenBool, lexer.TokenChar_, lexer.TokenShort,
			lexer.TokenInt, lexer.TokenLong, lexer.TokenFloat, lexer.TokenDouble,
			lexer.TokenSigned, lexer.TokenUnsigned, lexer.TokenConst, lexer.TokenVolatile:
			return
		}
		p.advance()
	}
}
