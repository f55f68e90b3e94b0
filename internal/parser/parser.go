package parser

import (
	"fmt"
	"mankai/internal/ast"
	"mankai/internal/lexer"
	"mankai/internal/token"
	"strconv"
)

// ParseError reports malformed structure. Token is the offending token when
// one is known. Incomplete is set when the input ended inside a list, so that
// more input could still make it well formed.
type ParseError struct {
	Message    string
	Token      *token.Token
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.Token == nil {
		return "parsing error: " + e.Message
	}
	return fmt.Sprintf("parsing error at %s: %s", e.Token.Describe(), e.Message)
}

type Parser struct {
	tokens  []token.Token
	current int
}

// New creates a parser over a token stream terminated by an EOF token.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		pos := 0
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Position + len(tokens[len(tokens)-1].Literal)
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Position: pos})
	}
	return &Parser{tokens: tokens}
}

// ParseString lexes and parses every top-level expression of src.
func ParseString(src string) ([]ast.Sexp, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseAll()
}

// Parse parses a single S-expression. Tokens after it are left unread.
func (p *Parser) Parse() (ast.Sexp, error) {
	if p.isAtEnd() {
		return nil, &ParseError{Message: "no tokens"}
	}
	return p.parseSexp()
}

// ParseAll parses successive S-expressions until the end of input.
func (p *Parser) ParseAll() ([]ast.Sexp, error) {
	if p.isAtEnd() {
		return nil, &ParseError{Message: "no tokens"}
	}
	var exprs []ast.Sexp
	for !p.isAtEnd() {
		expr, err := p.parseSexp()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.current]
	if tok.Type != token.EOF {
		p.current++
	}
	return tok
}

func (p *Parser) parseSexp() (ast.Sexp, error) {
	tok := p.advance()

	switch tok.Type {
	case token.LPAREN:
		return p.finishList(tok)
	case token.RPAREN:
		return nil, &ParseError{Message: "expected atom or list", Token: &tok}
	case token.EOF:
		return nil, &ParseError{Message: "expected atom or list", Token: &tok, Incomplete: true}
	case token.NUMBER:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &ParseError{Message: fmt.Sprintf("could not parse %q as number", tok.Literal), Token: &tok}
		}
		return &ast.Atom{Token: tok, Number: value}, nil
	case token.STRING, token.IDENT:
		return &ast.Atom{Token: tok}, nil
	default:
		return nil, &ParseError{Message: "unexpected token", Token: &tok}
	}
}

func (p *Parser) finishList(open token.Token) (ast.Sexp, error) {
	list := &ast.List{Token: open}

	first, err := p.parseSexp()
	if err != nil {
		return nil, err
	}
	list.Elements = append(list.Elements, first)

	for p.peek().Type != token.RPAREN && !p.isAtEnd() {
		el, err := p.parseSexp()
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, el)
	}

	if p.peek().Type != token.RPAREN {
		tok := p.peek()
		return nil, &ParseError{Message: "expected ')'", Token: &tok, Incomplete: true}
	}
	p.advance()

	return list, nil
}
