package checker

import (
	"errors"
	"fmt"

	"fortio.org/log"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
)

// Checker walks a standardized tree and records diagnostics for problems
// that evaluation would hit if it reached them.
type Checker struct {
	global  *Environment
	builtin func(string) bool
}

// Diagnostic is a problem found without running the program.
type Diagnostic struct {
	Message string
	Line    int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

var errNotStandardized = errors.New("checker: tree is not standardized")

// New returns a checker. builtin reports names that resolve without a
// binding; nil treats every free name as undeclared.
func New(builtin func(string) bool) *Checker {
	if builtin == nil {
		builtin = func(string) bool { return false }
	}
	return &Checker{
		global:  NewEnvironment(nil),
		builtin: builtin,
	}
}

// Check returns the diagnostics for tree in source order of discovery.
func (c *Checker) Check(tree *ast.Tree) ([]Diagnostic, error) {
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("checker: tree is nil")
	}
	if !tree.Standardized {
		return nil, errNotStandardized
	}
	diags := c.checkNode(c.global.Extend(), tree.Root)
	log.LogVf("checker: %d diagnostics", len(diags))
	return diags, nil
}

func (c *Checker) checkNode(env *Environment, n *ast.Node) []Diagnostic {
	if n == nil {
		return nil
	}
	var diags []Diagnostic
	switch {
	case n.Type == ast.NodeIdentifier:
		if _, ok := env.Lookup(n.Value); !ok && !c.builtin(n.Value) {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("checker: undeclared identifier %q", n.Value),
				Line:    n.Line,
			})
		}
		return diags
	case n.Type == ast.NodeLambda:
		return c.checkLambda(env, n)
	case n.Type.IsBinaryOperator():
		diags = append(diags, c.checkBinaryExpression(n)...)
	case n.Type.IsUnaryOperator():
		diags = append(diags, c.checkUnaryExpression(n)...)
	}
	for child := n.Child; child != nil; child = child.Sibling {
		diags = append(diags, c.checkNode(env, child)...)
	}
	return diags
}

func (c *Checker) checkLambda(env *Environment, n *ast.Node) []Diagnostic {
	kids := n.Children()
	if len(kids) != 2 {
		return []Diagnostic{{
			Message: fmt.Sprintf("checker: lambda expects a binder and a body, found %d children", len(kids)),
			Line:    n.Line,
		}}
	}
	scope := env.Extend()
	diags := c.bind(scope, kids[0])
	return append(diags, c.checkNode(scope, kids[1])...)
}

// bind defines the names of a binder: an identifier, a comma list of
// identifiers, or the empty binder ().
func (c *Checker) bind(scope *Environment, binder *ast.Node) []Diagnostic {
	switch binder.Type {
	case ast.NodeIdentifier:
		scope.Define(binder.Value, binder.Line)
		return nil
	case ast.NodeParen:
		return nil
	case ast.NodeComma:
		var diags []Diagnostic
		for v := binder.Child; v != nil; v = v.Sibling {
			if v.Type != ast.NodeIdentifier {
				diags = append(diags, Diagnostic{
					Message: fmt.Sprintf("checker: cannot bind %s in a variable list", v.Label()),
					Line:    v.Line,
				})
				continue
			}
			if _, dup := scope.symbols[v.Value]; dup {
				diags = append(diags, Diagnostic{
					Message: fmt.Sprintf("checker: %q bound more than once", v.Value),
					Line:    v.Line,
				})
				continue
			}
			scope.Define(v.Value, v.Line)
		}
		return diags
	default:
		return []Diagnostic{{
			Message: fmt.Sprintf("checker: cannot bind %s", binder.Label()),
			Line:    binder.Line,
		}}
	}
}
