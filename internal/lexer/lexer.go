package lexer

import (
	"fmt"
	"mankai/internal/token"
	"mankai/internal/util"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ScanError reports a malformed token. Position is the byte offset of the
// start of the offending token.
type ScanError struct {
	Message  string
	Position int
	Line     int
	Column   int
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("lexing error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Unfinished reports whether more input could complete the token.
func (e *ScanError) Unfinished() bool {
	return e.Message == errUnfinishedString
}

const errUnfinishedString = "unfinished string"

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize scans the whole input. The returned slice always ends with an EOF
// token when err is nil.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	start := l.position
	switch {
	case l.ch == 0 && l.position >= len(l.input):
		return token.Token{Type: token.EOF, Literal: "", Position: start}, nil
	case l.ch == '(':
		l.readChar()
		return newToken(token.LPAREN, '(', start), nil
	case l.ch == ')':
		l.readChar()
		return newToken(token.RPAREN, ')', start), nil
	case l.ch == '"':
		str, err := l.readString()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.STRING, Literal: str, Position: start}, nil
	case isDigit(l.ch), l.ch == '-' && isDigit(l.peekChar()):
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Position: start}, nil
	default:
		return token.Token{Type: token.IDENT, Literal: l.readIdentifier(), Position: start}, nil
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ';':
			l.skipToLineEnd()
		case l.ch != 0 && unicode.IsSpace(l.ch):
			l.readChar()
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.position < len(l.input) {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier consumes everything up to the next separator
func (l *Lexer) readIdentifier() string {
	start := l.position
	for !isSeparator(l.ch) && l.position < len(l.input) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber consumes an optional sign, the integer part and an optional
// fraction. A '.' only belongs to the number when a digit follows it.
func (l *Lexer) readNumber() string {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readString() (string, error) {
	start := l.position
	var out strings.Builder
	l.readChar() // consume opening "
	for {
		if l.position >= len(l.input) {
			return "", l.newError(errUnfinishedString, start)
		}
		switch l.ch {
		case '"':
			l.readChar()
			return out.String(), nil
		case '\\':
			l.readChar()
			if l.position >= len(l.input) {
				return "", l.newError(errUnfinishedString, start)
			}
			switch l.ch {
			case 'n':
				out.WriteRune('\n')
			case 't':
				out.WriteRune('\t')
			default:
				out.WriteRune(l.ch)
			}
		default:
			out.WriteRune(l.ch)
		}
		l.readChar()
	}
}

func (l *Lexer) newError(message string, position int) *ScanError {
	line, column := util.GetLineAndColumn(l.input, position)
	return &ScanError{Message: message, Position: position, Line: line, Column: column}
}

func isSeparator(ch rune) bool {
	return ch == '(' || ch == ')' || unicode.IsSpace(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}
