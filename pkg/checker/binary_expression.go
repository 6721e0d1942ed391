package checker

import (
	"fmt"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
)

// literalKind names what an operand always evaluates to, when that is
// decidable from the node alone.
func literalKind(n *ast.Node) (string, bool) {
	switch n.Type {
	case ast.NodeInteger:
		return "integer", true
	case ast.NodeString:
		return "string", true
	case ast.NodeTrue, ast.NodeFalse:
		return "truthvalue", true
	case ast.NodeNil, ast.NodeTau:
		return "tuple", true
	case ast.NodeDummy:
		return "dummy", true
	case ast.NodeLambda:
		return "function", true
	}
	return "", false
}

func operandDiag(n, operand *ast.Node, want string) []Diagnostic {
	kind, ok := literalKind(operand)
	if !ok || kind == want {
		return nil
	}
	return []Diagnostic{{
		Message: fmt.Sprintf("checker: '%s' requires %s operands (got %s)", n.Type, want, kind),
		Line:    n.Line,
	}}
}

func (c *Checker) checkBinaryExpression(n *ast.Node) []Diagnostic {
	kids := n.Children()
	if len(kids) != 2 {
		return []Diagnostic{{
			Message: fmt.Sprintf("checker: '%s' expects two operands, found %d", n.Type, len(kids)),
			Line:    n.Line,
		}}
	}
	left, right := kids[0], kids[1]
	var diags []Diagnostic
	switch n.Type {
	case ast.NodePlus, ast.NodeMinus, ast.NodeMult, ast.NodeDiv, ast.NodeExp,
		ast.NodeLs, ast.NodeLe, ast.NodeGr, ast.NodeGe:
		diags = append(diags, operandDiag(n, left, "integer")...)
		diags = append(diags, operandDiag(n, right, "integer")...)
		if n.Type == ast.NodeDiv && right.Type == ast.NodeInteger && right.Value == "0" {
			diags = append(diags, Diagnostic{Message: "checker: division by zero", Line: n.Line})
		}
	case ast.NodeOr, ast.NodeAnd:
		diags = append(diags, operandDiag(n, left, "truthvalue")...)
		diags = append(diags, operandDiag(n, right, "truthvalue")...)
	case ast.NodeEq, ast.NodeNe:
		lk, lok := literalKind(left)
		rk, rok := literalKind(right)
		switch {
		case lok && rok && lk != rk:
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("checker: cannot compare %s with %s", lk, rk),
				Line:    n.Line,
			})
		case lok && !equatable(lk), rok && !equatable(rk):
			kind := lk
			if !lok || equatable(lk) {
				kind = rk
			}
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("checker: '%s' cannot compare %s values", n.Type, kind),
				Line:    n.Line,
			})
		}
	case ast.NodeAug:
		if kind, ok := literalKind(left); ok && kind != "tuple" {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("checker: cannot augment a %s", kind),
				Line:    n.Line,
			})
		}
	}
	return diags
}

func equatable(kind string) bool {
	return kind == "integer" || kind == "string" || kind == "truthvalue"
}

func (c *Checker) checkUnaryExpression(n *ast.Node) []Diagnostic {
	if n.Child == nil {
		return []Diagnostic{{
			Message: fmt.Sprintf("checker: '%s' expects an operand", n.Type),
			Line:    n.Line,
		}}
	}
	switch n.Type {
	case ast.NodeNot:
		return operandDiag(n, n.Child, "truthvalue")
	case ast.NodeNeg:
		return operandDiag(n, n.Child, "integer")
	}
	return nil
}
