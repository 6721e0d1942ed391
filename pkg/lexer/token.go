package lexer

import "fmt"

type TokenType string

const (
	TokenEOF        TokenType = "EOF"
	TokenIdentifier TokenType = "IDENTIFIER"
	TokenInteger    TokenType = "INTEGER"
	TokenString     TokenType = "STRING"
	TokenOperator   TokenType = "OPERATOR"
	TokenReserved   TokenType = "RESERVED"
	TokenLParen     TokenType = "("
	TokenRParen     TokenType = ")"
	TokenSemicolon  TokenType = ";"
	TokenComma      TokenType = ","
)

// Token is one lexeme with the 1-based line it starts on. String tokens
// carry their contents without the surrounding quotes and with escape
// sequences left as written.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s(%q) at line %d", t.Type, t.Value, t.Line)
}

// Is reports whether t has the given type and value.
func (t Token) Is(tt TokenType, value string) bool {
	return t.Type == tt && t.Value == value
}

var reservedWords = map[string]struct{}{
	"let": {}, "in": {}, "within": {}, "fn": {}, "where": {}, "aug": {},
	"or": {}, "not": {}, "gr": {}, "ge": {}, "ls": {}, "le": {},
	"eq": {}, "ne": {}, "true": {}, "false": {}, "nil": {}, "dummy": {},
	"rec": {}, "and": {},
}

// IsReserved reports whether word is an RPAL keyword.
func IsReserved(word string) bool {
	_, ok := reservedWords[word]
	return ok
}
