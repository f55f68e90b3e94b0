package parser

import (
	"mankai/internal/ast"
	"strings"
)

// RenderASTAsText produces an indented tree, one node per line, with the
// token kind of every atom. It is meant for eyeballing nesting.
func RenderASTAsText(exprs []ast.Sexp) string {
	var sb strings.Builder
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderText(&sb, e, 0)
	}
	return sb.String()
}

func renderText(sb *strings.Builder, node ast.Sexp, indent int) {
	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Atom:
		sb.WriteString(sp + string(n.Token.Type) + " " + n.String() + "\n")
	case *ast.List:
		sb.WriteString(sp + "(\n")
		for _, el := range n.Elements {
			renderText(sb, el, indent+1)
		}
		sb.WriteString(sp + ")\n")
	}
}
