package ast

import (
	"bytes"
	"mankai/internal/token"
)

// Sexp is a parsed S-expression: either an *Atom or a *List.
type Sexp interface {
	TokenLiteral() string
	String() string
	sexpNode()
}

// Atom is a leaf: a number, string or identifier token.
type Atom struct {
	Token  token.Token
	Number float64 // parsed value when Token.Type is token.NUMBER
}

func (a *Atom) sexpNode()            {}
func (a *Atom) TokenLiteral() string { return a.Token.Literal }
func (a *Atom) String() string {
	if a.Token.Type == token.STRING {
		return `"` + a.Token.Literal + `"`
	}
	return a.Token.Literal
}

// IsIdentifier reports whether the atom names a binding.
func (a *Atom) IsIdentifier() bool { return a.Token.Type == token.IDENT }

type List struct {
	Token    token.Token // the '(' token
	Elements []Sexp
}

func (l *List) sexpNode()            {}
func (l *List) TokenLiteral() string { return l.Token.Literal }
func (l *List) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	for i, el := range l.Elements {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(el.String())
	}
	out.WriteString(")")

	return out.String()
}

// NewIdentifier builds an identifier atom outside of the parser.
func NewIdentifier(name string) *Atom {
	return &Atom{Token: token.Token{Type: token.IDENT, Literal: name}}
}

// NewNumber builds a number atom outside of the parser.
func NewNumber(literal string, value float64) *Atom {
	return &Atom{Token: token.Token{Type: token.NUMBER, Literal: literal}, Number: value}
}

// NewString builds a string atom outside of the parser.
func NewString(value string) *Atom {
	return &Atom{Token: token.Token{Type: token.STRING, Literal: value}}
}

func NewList(elements ...Sexp) *List {
	return &List{Token: token.Token{Type: token.LPAREN, Literal: "("}, Elements: elements}
}

// Clone returns a deep copy of the expression tree.
func Clone(node Sexp) Sexp {
	switch n := node.(type) {
	case *Atom:
		c := *n
		return &c
	case *List:
		elements := make([]Sexp, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = Clone(el)
		}
		return &List{Token: n.Token, Elements: elements}
	default:
		return nil
	}
}
