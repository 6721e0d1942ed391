package parser

import (
	"errors"
	"fmt"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/lexer"
)

// SyntaxError reports a token sequence that does not match the grammar.
type SyntaxError struct {
	Line int
	Msg  string
	// AtEOF is set when input ran out before the expression was complete.
	AtEOF bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: line %d: %s", e.Line, e.Msg)
}

// Parser is a recursive-descent parser over a single token of lookahead.
type Parser struct {
	lx  *lexer.Lexer
	tok lexer.Token
}

// New primes a parser over src. Lexical errors in the first token are
// reported here.
func New(src string) (*Parser, error) {
	p := &Parser{lx: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses a complete RPAL program from src.
func Parse(src string) (*ast.Tree, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// Parse consumes the whole token stream and returns the raw syntax tree.
func (p *Parser) Parse() (*ast.Tree, error) {
	if p.tok.Type == lexer.TokenEOF {
		return nil, p.errorf("empty program")
	}
	root, err := p.parseE()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.TokenEOF {
		return nil, p.errorf("unexpected %s after end of expression", p.tok)
	}
	return ast.NewTree(root), nil
}

func (p *Parser) advance() error {
	tok, err := p.lx.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.tok.Line, Msg: fmt.Sprintf(format, args...), AtEOF: p.tok.Type == lexer.TokenEOF}
}

// IsIncomplete reports whether err means more input could complete the program.
func IsIncomplete(err error) bool {
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return synErr.AtEOF
	}
	var lexErr *lexer.Error
	return errors.As(err, &lexErr) && lexErr.Message == "unterminated string literal"
}

func (p *Parser) isKeyword(word string) bool {
	return p.tok.Is(lexer.TokenReserved, word)
}

func (p *Parser) isOperator(op string) bool {
	return p.tok.Is(lexer.TokenOperator, op)
}

// expectKeyword consumes the reserved word or fails naming the rule.
func (p *Parser) expectKeyword(word, rule string) error {
	if !p.isKeyword(word) {
		return p.errorf("%s: '%s' expected, found %s", rule, word, p.tok)
	}
	return p.advance()
}

func (p *Parser) expectOperator(op, rule string) error {
	if !p.isOperator(op) {
		return p.errorf("%s: '%s' expected, found %s", rule, op, p.tok)
	}
	return p.advance()
}

func (p *Parser) expect(tt lexer.TokenType, rule string) error {
	if p.tok.Type != tt {
		return p.errorf("%s: '%s' expected, found %s", rule, tt, p.tok)
	}
	return p.advance()
}

// identifier consumes an identifier token into a leaf node.
func (p *Parser) identifier(rule string) (*ast.Node, error) {
	if p.tok.Type != lexer.TokenIdentifier {
		return nil, p.errorf("%s: identifier expected, found %s", rule, p.tok)
	}
	n := ast.Leaf(ast.NodeIdentifier, p.tok.Value, p.tok.Line)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}
