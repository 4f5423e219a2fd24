// Package codegen fuses type-checking and IR emission into one pass over
// the AST: each generator checks an expression or statement and emits its
// instructions in the same step, rather than walking the tree twice.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hassan/cc/internal/ast"
	"github.com/hassan/cc/internal/cerr"
	"github.com/hassan/cc/internal/ctx"
	"github.com/hassan/cc/internal/types"
)

func locOf(n *ast.Node) cerr.Location {
	return cerr.Location{File: n.Location.Filename, Line: n.Location.Line, Column: n.Location.Column}
}

// ResolveType turns a parsed ast.KindTypeName node into a *types.Type,
// handling pointer/array wrapping, qualifiers, and struct-tag lookup
// (implicitly forward-declaring a tag on first reference, the same as a
// C compiler accepting `struct s *p;` before `struct s` is defined).
func ResolveType(c *ctx.Context, n *ast.Node) (*types.Type, error) {
	if n == nil {
		return types.Void, nil
	}

	switch n.Value {
	case "ptr":
		pointee, err := ResolveType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		return types.NewPointer(pointee, types.QualNone), nil

	case "array":
		elem, err := ResolveType(c, n.Child(0))
		if err != nil {
			return nil, err
		}
		length := 0
		if lenNode := n.Child(1); lenNode != nil {
			n, err := evalConstIntLiteral(lenNode)
			if err != nil {
				return nil, err
			}
			length = n
		}
		return types.NewArray(elem, length), nil
	}

	var quals types.Qualifiers
	var rest []string
	for _, w := range strings.Fields(n.Value) {
		switch w {
		case "const":
			quals |= types.QualConst
		case "volatile":
			quals |= types.QualVolatile
		default:
			rest = append(rest, w)
		}
	}

	if len(rest) >= 2 && rest[0] == "struct" {
		tag := rest[1]
		t, err := c.LookupTag(tag)
		if err != nil {
			t = types.NewStruct(tag, nil, tag)
			c.DeclareTag(tag, t)
		}
		return withQuals(t, quals), nil
	}

	base, err := baseTypeFromWords(rest, n)
	if err != nil {
		return nil, err
	}
	return withQuals(base, quals), nil
}

func withQuals(t *types.Type, q types.Qualifiers) *types.Type {
	if q == types.QualNone {
		return t
	}
	cp := *t
	cp.Quals |= q
	return &cp
}

// baseTypeFromWords classifies a declaration specifier's base-type keyword
// run. There is no distinct "long long" kind here — two "long" words
// collapse onto the same Long/ULong kind as one, matching the type model
// exactly rather than approximating it.
func baseTypeFromWords(words []string, at *ast.Node) (*types.Type, error) {
	has := func(w string) bool {
		for _, x := range words {
			if x == w {
				return true
			}
		}
		return false
	}

	switch {
	case has("void"):
		return types.Void, nil
	case has("bool"):
		return types.Bool, nil
	case has("char"):
		switch {
		case has("unsigned"):
			return types.UChar, nil
		case has("signed"):
			return types.SChar, nil
		default:
			return types.Char, nil
		}
	case has("float"):
		return types.Float, nil
	case has("double"):
		if has("long") {
			return types.LongDouble, nil
		}
		return types.Double, nil
	case has("short"):
		if has("unsigned") {
			return types.UShort, nil
		}
		return types.Short, nil
	case len(words) == 0, has("int"), has("long"), has("unsigned"), has("signed"):
		if has("long") {
			if has("unsigned") {
				return types.ULong, nil
			}
			return types.Long, nil
		}
		if has("unsigned") {
			return types.UInt, nil
		}
		return types.Int, nil
	default:
		return nil, cerr.NewAt(cerr.Syntax, locOf(at), fmt.Sprintf("unrecognized type specifier %q", strings.Join(words, " ")))
	}
}

// evalConstIntLiteral accepts only a bare integer literal as an array
// length — the spec's Non-goals exclude VLAs, and complex constant folding
// is out of scope, so this is the one constant-expression form we support.
func evalConstIntLiteral(n *ast.Node) (int, error) {
	if n.Kind != ast.KindIntLit {
		return 0, cerr.NewAt(cerr.Syntax, locOf(n), "array length must be an integer constant")
	}
	v, err := strconv.ParseInt(n.Value, 0, 64)
	if err != nil {
		return 0, cerr.NewAt(cerr.Syntax, locOf(n), "invalid integer constant "+n.Value)
	}
	return int(v), nil
}
