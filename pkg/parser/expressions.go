package parser

import (
	"strconv"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/lexer"
)

// E -> 'let' D 'in' E | 'fn' Vb+ '.' E | Ew
func (p *Parser) parseE() (*ast.Node, error) {
	line := p.tok.Line
	switch {
	case p.isKeyword("let"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		def, err := p.parseD()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in", "let"); err != nil {
			return nil, err
		}
		body, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.NodeLet, line, def, body), nil
	case p.isKeyword("fn"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		var params []*ast.Node
		for p.startsVb() {
			vb, err := p.parseVb()
			if err != nil {
				return nil, err
			}
			params = append(params, vb)
		}
		if len(params) == 0 {
			return nil, p.errorf("fn: at least one bound variable expected, found %s", p.tok)
		}
		if err := p.expectOperator(".", "fn"); err != nil {
			return nil, err
		}
		body, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return ast.New(ast.NodeLambda, line, append(params, body)...), nil
	}
	return p.parseEw()
}

// Ew -> T 'where' Dr | T
func (p *Parser) parseEw() (*ast.Node, error) {
	body, err := p.parseT()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("where") {
		return body, nil
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	def, err := p.parseDr()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeWhere, line, body, def), nil
}

// T -> Ta (',' Ta)+ | Ta
func (p *Parser) parseT() (*ast.Node, error) {
	first, err := p.parseTa()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.TokenComma {
		return first, nil
	}
	elems := []*ast.Node{first}
	for p.tok.Type == lexer.TokenComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseTa()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	return ast.New(ast.NodeTau, first.Line, elems...), nil
}

// Ta -> Ta 'aug' Tc | Tc
func (p *Parser) parseTa() (*ast.Node, error) {
	left, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("aug") {
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTc()
		if err != nil {
			return nil, err
		}
		left = ast.New(ast.NodeAug, line, left, right)
	}
	return left, nil
}

// Tc -> B '->' Tc '|' Tc | B
func (p *Parser) parseTc() (*ast.Node, error) {
	test, err := p.parseB()
	if err != nil {
		return nil, err
	}
	if !p.isOperator("->") {
		return test, nil
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	if err := p.expectOperator("|", "conditional"); err != nil {
		return nil, err
	}
	els, err := p.parseTc()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeConditional, line, test, then, els), nil
}

// B -> B 'or' Bt | Bt
func (p *Parser) parseB() (*ast.Node, error) {
	left, err := p.parseBt()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBt()
		if err != nil {
			return nil, err
		}
		left = ast.New(ast.NodeOr, line, left, right)
	}
	return left, nil
}

// Bt -> Bt '&' Bs | Bs
func (p *Parser) parseBt() (*ast.Node, error) {
	left, err := p.parseBs()
	if err != nil {
		return nil, err
	}
	for p.isOperator("&") {
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBs()
		if err != nil {
			return nil, err
		}
		left = ast.New(ast.NodeAnd, line, left, right)
	}
	return left, nil
}

// Bs -> 'not' Bp | Bp
func (p *Parser) parseBs() (*ast.Node, error) {
	if !p.isKeyword("not") {
		return p.parseBp()
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseBp()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeNot, line, operand), nil
}

// comparison maps the keyword and symbolic spellings of Bp operators.
var comparison = map[string]ast.NodeType{
	"gr": ast.NodeGr, ">": ast.NodeGr,
	"ge": ast.NodeGe, ">=": ast.NodeGe,
	"ls": ast.NodeLs, "<": ast.NodeLs,
	"le": ast.NodeLe, "<=": ast.NodeLe,
	"eq": ast.NodeEq,
	"ne": ast.NodeNe,
}

// Bp -> A ('gr'|'>'|'ge'|'>='|'ls'|'<'|'le'|'<='|'eq'|'ne') A | A
func (p *Parser) parseBp() (*ast.Node, error) {
	left, err := p.parseA()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != lexer.TokenReserved && p.tok.Type != lexer.TokenOperator {
		return left, nil
	}
	op, ok := comparison[p.tok.Value]
	if !ok {
		return left, nil
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseA()
	if err != nil {
		return nil, err
	}
	return ast.New(op, line, left, right), nil
}

// A -> A '+' At | A '-' At | '+' At | '-' At | At
func (p *Parser) parseA() (*ast.Node, error) {
	var left *ast.Node
	switch {
	case p.isOperator("+"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseAt()
		if err != nil {
			return nil, err
		}
		left = operand
	case p.isOperator("-"):
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseAt()
		if err != nil {
			return nil, err
		}
		left = ast.New(ast.NodeNeg, line, operand)
	default:
		operand, err := p.parseAt()
		if err != nil {
			return nil, err
		}
		left = operand
	}
	for p.isOperator("+") || p.isOperator("-") {
		op := ast.NodePlus
		if p.tok.Value == "-" {
			op = ast.NodeMinus
		}
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAt()
		if err != nil {
			return nil, err
		}
		left = ast.New(op, line, left, right)
	}
	return left, nil
}

// At -> At '*' Af | At '/' Af | Af
func (p *Parser) parseAt() (*ast.Node, error) {
	left, err := p.parseAf()
	if err != nil {
		return nil, err
	}
	for p.isOperator("*") || p.isOperator("/") {
		op := ast.NodeMult
		if p.tok.Value == "/" {
			op = ast.NodeDiv
		}
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAf()
		if err != nil {
			return nil, err
		}
		left = ast.New(op, line, left, right)
	}
	return left, nil
}

// Af -> Ap '**' Af | Ap
func (p *Parser) parseAf() (*ast.Node, error) {
	base, err := p.parseAp()
	if err != nil {
		return nil, err
	}
	if !p.isOperator("**") {
		return base, nil
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseAf()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeExp, line, base, exp), nil
}

// Ap -> Ap '@' <IDENTIFIER> R | R
func (p *Parser) parseAp() (*ast.Node, error) {
	left, err := p.parseR()
	if err != nil {
		return nil, err
	}
	for p.isOperator("@") {
		line := p.tok.Line
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.identifier("@")
		if err != nil {
			return nil, err
		}
		right, err := p.parseR()
		if err != nil {
			return nil, err
		}
		left = ast.New(ast.NodeAt, line, left, name, right)
	}
	return left, nil
}

// R -> R Rn | Rn
func (p *Parser) parseR() (*ast.Node, error) {
	left, err := p.parseRn()
	if err != nil {
		return nil, err
	}
	for p.startsRn() {
		right, err := p.parseRn()
		if err != nil {
			return nil, err
		}
		left = ast.New(ast.NodeGamma, left.Line, left, right)
	}
	return left, nil
}

func (p *Parser) startsRn() bool {
	switch p.tok.Type {
	case lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenString, lexer.TokenLParen:
		return true
	case lexer.TokenReserved:
		switch p.tok.Value {
		case "true", "false", "nil", "dummy":
			return true
		}
	}
	return false
}

// Rn -> <IDENTIFIER> | <INTEGER> | <STRING> | 'true' | 'false' | 'nil'
//
//	| '(' E ')' | 'dummy'
func (p *Parser) parseRn() (*ast.Node, error) {
	tok := p.tok
	var n *ast.Node
	switch tok.Type {
	case lexer.TokenIdentifier:
		n = ast.Leaf(ast.NodeIdentifier, tok.Value, tok.Line)
	case lexer.TokenInteger:
		if _, err := strconv.ParseInt(tok.Value, 10, 64); err != nil {
			return nil, p.errorf("integer literal %s out of range", tok.Value)
		}
		n = ast.Leaf(ast.NodeInteger, tok.Value, tok.Line)
	case lexer.TokenString:
		n = ast.Leaf(ast.NodeString, tok.Value, tok.Line)
	case lexer.TokenReserved:
		switch tok.Value {
		case "true":
			n = ast.Leaf(ast.NodeTrue, "true", tok.Line)
		case "false":
			n = ast.Leaf(ast.NodeFalse, "false", tok.Line)
		case "nil":
			n = ast.Leaf(ast.NodeNil, "nil", tok.Line)
		case "dummy":
			n = ast.Leaf(ast.NodeDummy, "dummy", tok.Line)
		}
	case lexer.TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseE()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.TokenRParen, "operand"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	if n == nil {
		return nil, p.errorf("operand expected, found %s", tok)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}
