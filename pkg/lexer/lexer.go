package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const operatorSymbols = `+-*<>&.@/:=~|$!#%^_[]{}"?`

// Error reports a lexical error at a source line.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error at line %d: %s", e.Line, e.Message)
}

// Lexer turns RPAL source text into tokens, dropping whitespace and
// `//` comments.
type Lexer struct {
	src  string
	pos  int
	line int
}

func New(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize lexes src completely. The returned slice ends with an EOF token.
func Tokenize(src string) ([]Token, error) {
	lx := New(src)
	var out []Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out, nil
		}
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return r
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.pos + offset
	if p >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[p:])
	return r
}

func (l *Lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

// NextToken returns the next token, or an EOF token once input is exhausted.
func (l *Lexer) NextToken() (Token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return Token{Type: TokenEOF, Line: l.line}, nil
	}

	line := l.line
	ch := l.peek()
	switch {
	case isLetter(ch):
		start := l.pos
		for isLetter(l.peek()) || isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		word := l.src[start:l.pos]
		if IsReserved(word) {
			return Token{Type: TokenReserved, Value: word, Line: line}, nil
		}
		return Token{Type: TokenIdentifier, Value: word, Line: line}, nil
	case isDigit(ch):
		start := l.pos
		for isDigit(l.peek()) {
			l.advance()
		}
		return Token{Type: TokenInteger, Value: l.src[start:l.pos], Line: line}, nil
	case ch == '\'':
		return l.lexString(line)
	case isOperatorSymbol(ch):
		start := l.pos
		for l.pos < len(l.src) && isOperatorSymbol(l.peek()) {
			// A comment start ends the operator run.
			if l.peek() == '/' && l.peekAt(1) == '/' {
				break
			}
			l.advance()
		}
		return Token{Type: TokenOperator, Value: l.src[start:l.pos], Line: line}, nil
	}

	l.advance()
	switch ch {
	case '(':
		return Token{Type: TokenLParen, Value: "(", Line: line}, nil
	case ')':
		return Token{Type: TokenRParen, Value: ")", Line: line}, nil
	case ';':
		return Token{Type: TokenSemicolon, Value: ";", Line: line}, nil
	case ',':
		return Token{Type: TokenComma, Value: ",", Line: line}, nil
	}
	return Token{}, &Error{Line: line, Message: fmt.Sprintf("unexpected character %q", ch)}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()
		case ch == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) lexString(line int) (Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, &Error{Line: line, Message: "unterminated string literal"}
		}
		ch := l.advance()
		switch ch {
		case '\'':
			return Token{Type: TokenString, Value: b.String(), Line: line}, nil
		case '\\':
			if l.pos >= len(l.src) {
				return Token{}, &Error{Line: line, Message: "unterminated string literal"}
			}
			next := l.advance()
			switch next {
			case 't', 'n', '\\', '\'':
				b.WriteRune('\\')
				b.WriteRune(next)
			default:
				return Token{}, &Error{Line: l.line, Message: fmt.Sprintf("invalid escape sequence \\%c", next)}
			}
		default:
			b.WriteRune(ch)
		}
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isOperatorSymbol(r rune) bool {
	return r != 0 && strings.ContainsRune(operatorSymbols, r)
}
