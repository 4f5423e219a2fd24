package codegen

import (
	"strconv"

	"github.com/hassan/cc/internal/ast"
	"github.com/hassan/cc/internal/cerr"
)

// unescapeString strips the surrounding quotes from a string-literal
// token's raw text and expands its escape sequences; the lexer passes the
// raw spelling through untouched, so the generator owns escape expansion.
func unescapeString(raw string) []byte {
	inner := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(inner))
	for i := 0; i < len(inner); i++ {
		if inner[i] != '\\' || i+1 >= len(inner) {
			out = append(out, inner[i])
			continue
		}
		i++
		out = append(out, escapeByte(inner[i]))
	}
	return out
}

// unescapeChar decodes a character-literal token's single (possibly
// escaped) character.
func unescapeChar(n *ast.Node) (byte, error) {
	inner := n.Value[1 : len(n.Value)-1]
	if len(inner) == 0 {
		return 0, cerr.NewAt(cerr.Syntax, locOf(n), "empty character literal")
	}
	if inner[0] == '\\' {
		if len(inner) < 2 {
			return 0, cerr.NewAt(cerr.Syntax, locOf(n), "invalid escape in character literal")
		}
		return escapeByte(inner[1]), nil
	}
	return inner[0], nil
}

func escapeByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return c
	}
}

// parseIntLiteral parses an integer-literal token's spelling: a `0x` prefix
// reads as hexadecimal, a leading `0` as octal, anything else as decimal.
func parseIntLiteral(n *ast.Node) (int64, error) {
	v, err := strconv.ParseInt(n.Value, 0, 64)
	if err != nil {
		return 0, cerr.NewAt(cerr.Syntax, locOf(n), "invalid integer literal "+n.Value)
	}
	return v, nil
}

// isLongDoubleLiteral reports whether a floating-literal token carries the
// long-double suffix (e.g. "1.0L").
func isLongDoubleLiteral(raw string) bool {
	return len(raw) > 0 && (raw[len(raw)-1] == 'l' || raw[len(raw)-1] == 'L')
}

// parseFloatLiteral parses a floating-literal token's decimal spelling,
// stripping the long-double suffix first if present.
func parseFloatLiteral(n *ast.Node) (float64, error) {
	text := n.Value
	if isLongDoubleLiteral(text) {
		text = text[:len(text)-1]
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, cerr.NewAt(cerr.Syntax, locOf(n), "invalid floating literal "+n.Value)
	}
	return v, nil
}
