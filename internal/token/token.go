package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // foo, set!, string?, +
	NUMBER = "NUMBER" // 12, 64.333, -3
	STRING = "STRING" // "foobar"

	// Delimiters
	LPAREN = "("
	RPAREN = ")"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

// Describe renders the token the way error messages quote it.
func (t Token) Describe() string {
	if t.Type == EOF {
		return "end of input"
	}
	return "'" + t.Literal + "'"
}
