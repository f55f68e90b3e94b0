package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mankai/internal/ast"
	"mankai/internal/token"
)

// WalkAST serializes an expression tree into a machine-centric map structure.
func WalkAST(node ast.Sexp) interface{} {
	switch n := node.(type) {
	case *ast.Atom:
		m := map[string]interface{}{
			"type":     "Atom",
			"kind":     string(n.Token.Type),
			"token":    n.TokenLiteral(),
			"position": n.Token.Position,
		}
		if n.Token.Type == token.NUMBER {
			m["value"] = n.Number
		}
		return m

	case *ast.List:
		elements := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = WalkAST(el)
		}
		return map[string]interface{}{
			"type":     "List",
			"position": n.Token.Position,
			"elements": elements,
		}

	default:
		return nil
	}
}

func RenderASTAsJSON(exprs []ast.Sexp) (string, error) {
	nodes := make([]interface{}, len(exprs))
	for i, e := range exprs {
		nodes[i] = WalkAST(e)
	}

	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(map[string]interface{}{"type": "Program", "expressions": nodes}); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}
