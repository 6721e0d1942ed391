package parser

import (
	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/lexer"
)

// D -> Da 'within' D | Da
func (p *Parser) parseD() (*ast.Node, error) {
	outer, err := p.parseDa()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("within") {
		return outer, nil
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseD()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeWithin, line, outer, inner), nil
}

// Da -> Dr ('and' Dr)+ | Dr
func (p *Parser) parseDa() (*ast.Node, error) {
	first, err := p.parseDr()
	if err != nil {
		return nil, err
	}
	if !p.isKeyword("and") {
		return first, nil
	}
	defs := []*ast.Node{first}
	for p.isKeyword("and") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseDr()
		if err != nil {
			return nil, err
		}
		defs = append(defs, next)
	}
	return ast.New(ast.NodeSimultDef, first.Line, defs...), nil
}

// Dr -> 'rec' Db | Db
func (p *Parser) parseDr() (*ast.Node, error) {
	if !p.isKeyword("rec") {
		return p.parseDb()
	}
	line := p.tok.Line
	if err := p.advance(); err != nil {
		return nil, err
	}
	def, err := p.parseDb()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeRec, line, def), nil
}

// Db -> Vl '=' E | <IDENTIFIER> Vb+ '=' E | '(' D ')'
func (p *Parser) parseDb() (*ast.Node, error) {
	if p.tok.Type == lexer.TokenLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		def, err := p.parseD()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.TokenRParen, "definition"); err != nil {
			return nil, err
		}
		return def, nil
	}

	name, err := p.identifier("definition")
	if err != nil {
		return nil, err
	}

	switch {
	case p.tok.Type == lexer.TokenComma:
		binder, err := p.parseVlTail(name)
		if err != nil {
			return nil, err
		}
		return p.finishEqual(binder)
	case p.isOperator("="):
		return p.finishEqual(name)
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
		return nil, p.errorf("definition: '=' or bound variable expected, found %s", p.tok)
	}
	if err := p.expectOperator("=", "function definition"); err != nil {
		return nil, err
	}
	body, err := p.parseE()
	if err != nil {
		return nil, err
	}
	children := append([]*ast.Node{name}, params...)
	return ast.New(ast.NodeFcnForm, name.Line, append(children, body)...), nil
}

func (p *Parser) finishEqual(binder *ast.Node) (*ast.Node, error) {
	line := p.tok.Line
	if err := p.expectOperator("=", "definition"); err != nil {
		return nil, err
	}
	expr, err := p.parseE()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.NodeEqual, line, binder, expr), nil
}

func (p *Parser) startsVb() bool {
	return p.tok.Type == lexer.TokenIdentifier || p.tok.Type == lexer.TokenLParen
}

// Vb -> <IDENTIFIER> | '(' Vl ')' | '(' ')'
func (p *Parser) parseVb() (*ast.Node, error) {
	if p.tok.Type == lexer.TokenIdentifier {
		return p.identifier("bound variable")
	}
	line := p.tok.Line
	if err := p.expect(lexer.TokenLParen, "bound variable"); err != nil {
		return nil, err
	}
	if p.tok.Type == lexer.TokenRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.Leaf(ast.NodeParen, "", line), nil
	}
	first, err := p.identifier("bound variable list")
	if err != nil {
		return nil, err
	}
	vl, err := p.parseVlTail(first)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.TokenRParen, "bound variable"); err != nil {
		return nil, err
	}
	return vl, nil
}

// parseVlTail continues Vl -> <IDENTIFIER> (',' <IDENTIFIER>)* once the
// first identifier has been consumed. A single name is returned as is.
func (p *Parser) parseVlTail(first *ast.Node) (*ast.Node, error) {
	if p.tok.Type != lexer.TokenComma {
		return first, nil
	}
	vars := []*ast.Node{first}
	for p.tok.Type == lexer.TokenComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.identifier("bound variable list")
		if err != nil {
			return nil, err
		}
		vars = append(vars, next)
	}
	return ast.New(ast.NodeComma, first.Line, vars...), nil
}
