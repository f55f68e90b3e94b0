package parser

import (
	"errors"
	"mankai/internal/ast"
	"mankai/internal/lexer"
	"mankai/internal/token"
	"strings"
	"testing"
)

func parse(t *testing.T, input string) (ast.Sexp, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lexing %q: %v", input, err)
	}
	return New(tokens).Parse()
}

func TestParsing(t *testing.T) {
	expr, err := parse(t, `(car ("2" 3) "foo" 12.0)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, ok := expr.(*ast.List)
	if !ok {
		t.Fatalf("expected list, got %T", expr)
	}
	if len(list.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(list.Elements))
	}

	head, ok := list.Elements[0].(*ast.Atom)
	if !ok || !head.IsIdentifier() || head.Token.Literal != "car" {
		t.Errorf("expected identifier car, got %v", list.Elements[0])
	}
	if _, ok := list.Elements[1].(*ast.List); !ok {
		t.Errorf("expected nested list, got %T", list.Elements[1])
	}
	str, ok := list.Elements[2].(*ast.Atom)
	if !ok || str.Token.Type != token.STRING || str.Token.Literal != "foo" {
		t.Errorf("expected string foo, got %v", list.Elements[2])
	}
	num, ok := list.Elements[3].(*ast.Atom)
	if !ok || num.Token.Type != token.NUMBER || num.Number != 12.0 {
		t.Errorf("expected number 12.0, got %v", list.Elements[3])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input      string
		message    string
		rendered   string
		incomplete bool
	}{
		{"(foo bar 32.66", "expected ')'", "parsing error at end of input: expected ')'", true},
		{")", "expected atom or list", "parsing error at ')': expected atom or list", false},
		{"()", "expected atom or list", "parsing error at ')': expected atom or list", false},
		{"(", "expected atom or list", "parsing error at end of input: expected atom or list", true},
		{"", "no tokens", "parsing error: no tokens", false},
		{"   ; only a comment", "no tokens", "parsing error: no tokens", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parse(t, tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Message != tt.message {
				t.Errorf("message wrong. expected=%q, got=%q", tt.message, perr.Message)
			}
			if perr.Error() != tt.rendered {
				t.Errorf("rendering wrong. expected=%q, got=%q", tt.rendered, perr.Error())
			}
			if perr.Incomplete != tt.incomplete {
				t.Errorf("incomplete wrong. expected=%t, got=%t", tt.incomplete, perr.Incomplete)
			}
		})
	}
}

func TestParseLeavesTrailingTokens(t *testing.T) {
	expr, err := parse(t, "foo bar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expr.String() != "foo" {
		t.Errorf("expected foo, got %s", expr.String())
	}
}

func TestParseString(t *testing.T) {
	exprs, err := ParseString("(set! x 1)\n(+ x 2) x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"(set! x 1)", "(+ x 2)", "x"}
	if len(exprs) != len(expected) {
		t.Fatalf("expected %d expressions, got %d", len(expected), len(exprs))
	}
	for i, e := range expected {
		if exprs[i].String() != e {
			t.Errorf("expression %d: expected %s, got %s", i, e, exprs[i].String())
		}
	}
}

func TestParseStringPropagatesLexingErrors(t *testing.T) {
	_, err := ParseString(`(foo "bar`)
	var scanErr *lexer.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected ScanError, got %v", err)
	}
}

func TestRenderAST(t *testing.T) {
	exprs, err := ParseString(`(+ 1 "a")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := RenderASTAsText(exprs)
	expected := "(\n  IDENT +\n  NUMBER 1\n  STRING \"a\"\n)\n"
	if text != expected {
		t.Errorf("text rendering wrong.\nexpected=%q\ngot=%q", expected, text)
	}

	json, err := RenderASTAsJSON(exprs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"type": "Program"`, `"type": "List"`, `"kind": "NUMBER"`, `"value": 1`} {
		if !strings.Contains(json, want) {
			t.Errorf("json rendering missing %s:\n%s", want, json)
		}
	}
}
