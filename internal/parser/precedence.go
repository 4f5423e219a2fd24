package parser

import (
	"github.com/hassan/cc/internal/lexer"
)

// Precedence represents operator precedence levels.
//
// DESIGN CHOICE: integer precedence levels (not enums with custom compare
// methods) — easy to compare, easy to slot a new level in between two
// existing ones.
//
// PRECEDENCE RULES (lowest to highest), over this language's closed
// operator-family table (no ternary `?:` — it isn't one of the supported
// operators, so it has no precedence slot here):
//  0. Comma (,)
//  1. Assignment (=, +=, -=, …)
//  2. Logical OR (||)
//  3. Logical AND (&&)
//  4. Bitwise OR (|)
//  5. Bitwise XOR (^)
//  6. Bitwise AND (&)
//  7. Equality (==, !=)
//  8. Relational (<, <=, >, >=)
//  9. Shift (<<, >>)
//  10. Additive (+, -)
//  11. Multiplicative (*, /, %)
//  12. Unary (!, -, ~, &, *, ++, --, sizeof, cast)
//  13. Postfix (., ->, [], (), ++, --)
type Precedence int

const (
	PrecNone Precedence = iota
	PrecComma
	PrecAssignment
	PrecOr
	PrecAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecPostfix
	PrecPrimary
)

// getPrecedence returns the precedence level of a binary operator token,
// for the Pratt parser's loop ("keep consuming operators whose precedence
// is at least the caller's minimum").
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenComma:
		return PrecComma

	case lexer.TokenAssign,
		lexer.TokenPlusEq,
		lexer.TokenMinusEq,
		lexer.TokenStarEq,
		lexer.TokenSlashEq,
		lexer.TokenPercentEq,
		lexer.TokenAndEq,
		lexer.TokenOrEq,
		lexer.TokenXorEq,
		lexer.TokenShlEq,
		lexer.TokenShrEq:
		return PrecAssignment

	case lexer.TokenOrOr:
		return PrecOr

	case lexer.TokenAndAnd:
		return PrecAnd

	case lexer.TokenBitOr:
		return PrecBitOr

	case lexer.TokenBitXor:
		return PrecBitXor

	case lexer.TokenBitAnd:
		return PrecBitAnd

	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality

	case lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual:
		return PrecRelational

	case lexer.TokenShl, lexer.TokenShr:
		return PrecShift

	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecAdditive

	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return PrecMultiplicative

	case lexer.TokenDot, lexer.TokenArrow, lexer.TokenLeftBracket, lexer.TokenLeftParen,
		lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		return PrecPostfix

	default:
		return PrecNone
	}
}

// isRightAssociative reports whether tokenType right-associates, as in
// `a = b = c` parsing as `a = (b = c)` — the only right-associative family
// in the table is assignment (plain and compound).
func isRightAssociative(tokenType lexer.TokenType) bool {
	switch tokenType {
	case lexer.TokenAssign,
		lexer.TokenPlusEq,
		lexer.TokenMinusEq,
		lexer.TokenStarEq,
		lexer.TokenSlashEq,
		lexer.TokenPercentEq,
		lexer.TokenAndEq,
		lexer.TokenOrEq,
		lexer.TokenXorEq,
		lexer.TokenShlEq,
		lexer.TokenShrEq:
		return true
	default:
		return false
	}
}

// isAssignmentOp reports whether tokenType is any assignment-family
// operator, plain or compound.
func isAssignmentOp(tokenType lexer.TokenType) bool {
	switch tokenType {
	case lexer.TokenAssign, lexer.TokenPlusEq, lexer.TokenMinusEq, lexer.TokenStarEq,
		lexer.TokenSlashEq, lexer.TokenPercentEq, lexer.TokenAndEq, lexer.TokenOrEq,
		lexer.TokenXorEq, lexer.TokenShlEq, lexer.TokenShrEq:
		return true
	default:
		return false
	}
}
