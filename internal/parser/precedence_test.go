package parser

import (
	"testing"

	"github.com/hassan/cc/internal/lexer"
)

func TestGetPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		token    lexer.TokenType
		expected Precedence
	}{
		{"comma", lexer.TokenComma, PrecComma},

		// Assignment
		{"assign", lexer.TokenAssign, PrecAssignment},
		{"plus equals", lexer.TokenPlusEq, PrecAssignment},
		{"minus equals", lexer.TokenMinusEq, PrecAssignment},

		// Logical OR
		{"logical or", lexer.TokenOrOr, PrecOr},

		// Logical AND
		{"logical and", lexer.TokenAndAnd, PrecAnd},

		// Bitwise OR
		{"bit or", lexer.TokenBitOr, PrecBitOr},

		// Bitwise XOR
		{"bit xor", lexer.TokenBitXor, PrecBitXor},

		// Bitwise AND
		{"bit and", lexer.TokenBitAnd, PrecBitAnd},

		// Equality
		{"equal", lexer.TokenEqual, PrecEquality},
		{"not equal", lexer.TokenNotEqual, PrecEquality},

		// Relational
		{"less than", lexer.TokenLess, PrecRelational},
		{"less equal", lexer.TokenLessEqual, PrecRelational},
		{"greater than", lexer.TokenGreater, PrecRelational},
		{"greater equal", lexer.TokenGreaterEqual, PrecRelational},

		// Shift
		{"shift left", lexer.TokenShl, PrecShift},
		{"shift right", lexer.TokenShr, PrecShift},

		// Additive
		{"plus", lexer.TokenPlus, PrecAdditive},
		{"minus", lexer.TokenMinus, PrecAdditive},

		// Multiplicative
		{"star", lexer.TokenStar, PrecMultiplicative},
		{"slash", lexer.TokenSlash, PrecMultiplicative},
		{"percent", lexer.TokenPercent, PrecMultiplicative},

		// Postfix
		{"dot", lexer.TokenDot, PrecPostfix},
		{"arrow", lexer.TokenArrow, PrecPostfix},
		{"left bracket", lexer.TokenLeftBracket, PrecPostfix},
		{"left paren", lexer.TokenLeftParen, PrecPostfix},
		{"plus plus", lexer.TokenPlusPlus, PrecPostfix},

		// Non-operators
		{"identifier", lexer.TokenIdentifier, PrecNone},
		{"number", lexer.TokenNumber, PrecNone},
		{"semicolon", lexer.TokenSemicolon, PrecNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getPrecedence(tt.token)
			if result != tt.expected {
				t.Errorf("getPrecedence(%v) = %v, want %v", tt.token, result, tt.expected)
			}
		})
	}
}

func TestIsRightAssociative(t *testing.T) {
	tests := []struct {
		name     string
		token    lexer.TokenType
		expected bool
	}{
		// Right-associative
		{"assign", lexer.TokenAssign, true},
		{"plus equals", lexer.TokenPlusEq, true},
		{"minus equals", lexer.TokenMinusEq, true},

		// Left-associative
		{"plus", lexer.TokenPlus, false},
		{"minus", lexer.TokenMinus, false},
		{"star", lexer.TokenStar, false},
		{"slash", lexer.TokenSlash, false},
		{"equal", lexer.TokenEqual, false},
		{"and and", lexer.TokenAndAnd, false},
		{"or or", lexer.TokenOrOr, false},
		{"dot", lexer.TokenDot, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRightAssociative(tt.token)
			if result != tt.expected {
				t.Errorf("isRightAssociative(%v) = %v, want %v", tt.token, result, tt.expected)
			}
		})
	}
}

func TestIsAssignmentOp(t *testing.T) {
	tests := []struct {
		name     string
		token    lexer.TokenType
		expected bool
	}{
		{"assign", lexer.TokenAssign, true},
		{"plus equals", lexer.TokenPlusEq, true},
		{"shift right equals", lexer.TokenShrEq, true},
		{"plus", lexer.TokenPlus, false},
		{"equal", lexer.TokenEqual, false},
		{"identifier", lexer.TokenIdentifier, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isAssignmentOp(tt.token)
			if result != tt.expected {
				t.Errorf("isAssignmentOp(%v) = %v, want %v", tt.token, result, tt.expected)
			}
		})
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	if PrecNone >= PrecComma {
		t.Error("None should have lower precedence than Comma")
	}
	if PrecComma >= PrecAssignment {
		t.Error("Comma should have lower precedence than Assignment")
	}
	if PrecAssignment >= PrecOr {
		t.Error("Assignment should have lower precedence than OR")
	}
	if PrecOr >= PrecAnd {
		t.Error("OR should have lower precedence than AND")
	}
	if PrecAnd >= PrecBitOr {
		t.Error("AND should have lower precedence than BitOr")
	}
	if PrecBitOr >= PrecBitXor {
		t.Error("BitOr should have lower precedence than BitXor")
	}
	if PrecBitXor >= PrecBitAnd {
		t.Error("BitXor should have lower precedence than BitAnd")
	}
	if PrecBitAnd >= PrecEquality {
		t.Error("BitAnd should have lower precedence than Equality")
	}
	if PrecEquality >= PrecRelational {
		t.Error("Equality should have lower precedence than Relational")
	}
	if PrecRelational >= PrecShift {
		t.Error("Relational should have lower precedence than Shift")
	}
	if PrecShift >= PrecAdditive {
		t.Error("Shift should have lower precedence than Additive")
	}
	if PrecAdditive >= PrecMultiplicative {
		t.Error("Additive should have lower precedence than Multiplicative")
	}
	if PrecMultiplicative >= PrecUnary {
		t.Error("Multiplicative should have lower precedence than Unary")
	}
	if PrecUnary >= PrecPostfix {
		t.Error("Unary should have lower precedence than Postfix")
	}
	if PrecPostfix >= PrecPrimary {
		t.Error("Postfix should have lower precedence than Primary")
	}
}
