package standardizer

import (
	"fmt"

	"fortio.org/log"
	"github.com/samber/lo"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
)

// StructureError reports a tree shape the rewrite rules cannot handle.
// It indicates a parser defect or a hand-built tree, never bad user input
// that the parser accepted.
type StructureError struct {
	Line int
	Rule ast.NodeType
	Msg  string
}

func (e *StructureError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("standardizer: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("standardizer: line %d: %s: %s", e.Line, e.Rule, e.Msg)
}

// Standardize rewrites tree in place into core form (lambda, gamma, tau,
// operators, conditionals, Y*) and marks it standardized. Running it on
// an already standardized tree leaves the tree unchanged.
func Standardize(tree *ast.Tree) error {
	if tree == nil || tree.Root == nil {
		return &StructureError{Msg: "empty tree"}
	}
	if err := standardizeNode(tree.Root); err != nil {
		return err
	}
	tree.Standardized = true
	return nil
}

func standardizeNode(n *ast.Node) error {
	for c := n.Child; c != nil; c = c.Sibling {
		if err := standardizeNode(c); err != nil {
			return err
		}
	}
	return rewrite(n)
}

func rewrite(n *ast.Node) error {
	switch n.Type {
	case ast.NodeLet:
		return rewriteLet(n)
	case ast.NodeWhere:
		return rewriteWhere(n)
	case ast.NodeFcnForm:
		return rewriteFcnForm(n)
	case ast.NodeAt:
		return rewriteAt(n)
	case ast.NodeWithin:
		return rewriteWithin(n)
	case ast.NodeSimultDef:
		return rewriteSimultDef(n)
	case ast.NodeRec:
		return rewriteRec(n)
	case ast.NodeLambda:
		return rewriteLambda(n)
	}
	return nil
}

func structureErr(n *ast.Node, format string, args ...any) error {
	return &StructureError{Line: n.Line, Rule: n.Type, Msg: fmt.Sprintf(format, args...)}
}

// definition returns the binder and expression of an EQUAL node.
func definition(owner, eq *ast.Node) (*ast.Node, *ast.Node, error) {
	if eq == nil || eq.Type != ast.NodeEqual {
		return nil, nil, structureErr(owner, "expected '=' definition, found %s", eq)
	}
	if eq.ChildCount() != 2 {
		return nil, nil, structureErr(owner, "'=' needs a binder and an expression, found %d children", eq.ChildCount())
	}
	return eq.Child, eq.Child.Sibling, nil
}

func expectChildren(n *ast.Node, want int) ([]*ast.Node, error) {
	kids := n.Children()
	if len(kids) != want {
		return nil, structureErr(n, "expected %d children, found %d", want, len(kids))
	}
	return kids, nil
}

//	   let            gamma
//	  /   \          /     \
//	 =     P  =>  lambda    E
//	/ \           /    \
//	X  E         X      P
func rewriteLet(n *ast.Node) error {
	kids, err := expectChildren(n, 2)
	if err != nil {
		return err
	}
	eq, body := kids[0], kids[1]
	x, e, err := definition(n, eq)
	if err != nil {
		return err
	}
	log.LogVf("standardize let at line %d", n.Line)
	eq.Type = ast.NodeLambda
	eq.SetChildren(x, body)
	n.Type = ast.NodeGamma
	n.SetChildren(eq, e)
	return nil
}

// where is let with its operands swapped; after re-tagging, the let rule
// runs once on the same node.
func rewriteWhere(n *ast.Node) error {
	kids, err := expectChildren(n, 2)
	if err != nil {
		return err
	}
	log.LogVf("standardize where at line %d", n.Line)
	n.Type = ast.NodeLet
	n.SetChildren(kids[1], kids[0])
	return rewrite(n)
}

// fcn_form P V1 .. Vn E  =>  = P (lambda V1 (... (lambda Vn E)))
func rewriteFcnForm(n *ast.Node) error {
	kids := n.Children()
	if len(kids) < 3 {
		return structureErr(n, "expected name, parameters and body, found %d children", len(kids))
	}
	log.LogVf("standardize function form %s at line %d", kids[0].Value, n.Line)
	n.Type = ast.NodeEqual
	n.SetChildren(kids[0], curry(n.Line, kids[1:]))
	return nil
}

// @ E1 N E2  =>  gamma (gamma N E1) E2
func rewriteAt(n *ast.Node) error {
	kids, err := expectChildren(n, 3)
	if err != nil {
		return err
	}
	e1, name, e2 := kids[0], kids[1], kids[2]
	log.LogVf("standardize @%s at line %d", name.Value, n.Line)
	inner := ast.New(ast.NodeGamma, n.Line, name, e1)
	n.Type = ast.NodeGamma
	n.SetChildren(inner, e2)
	return nil
}

// within (= X1 E1) (= X2 E2)  =>  = X2 (gamma (lambda X1 E2) E1)
func rewriteWithin(n *ast.Node) error {
	kids, err := expectChildren(n, 2)
	if err != nil {
		return err
	}
	x1, e1, err := definition(n, kids[0])
	if err != nil {
		return err
	}
	x2, e2, err := definition(n, kids[1])
	if err != nil {
		return err
	}
	log.LogVf("standardize within at line %d", n.Line)
	lambda := ast.New(ast.NodeLambda, n.Line, x1, e2)
	gamma := ast.New(ast.NodeGamma, n.Line, lambda, e1)
	n.Type = ast.NodeEqual
	n.SetChildren(x2, gamma)
	return nil
}

// and (= X1 E1) .. (= Xn En)  =>  = (, X1 .. Xn) (tau E1 .. En)
func rewriteSimultDef(n *ast.Node) error {
	defs := n.Children()
	if len(defs) == 0 {
		return structureErr(n, "no definitions")
	}
	for _, d := range defs {
		if _, _, err := definition(n, d); err != nil {
			return err
		}
	}
	binders := lo.Map(defs, func(d *ast.Node, _ int) *ast.Node { return d.Child })
	exprs := lo.Map(defs, func(d *ast.Node, _ int) *ast.Node { return d.Child.Sibling })
	log.LogVf("standardize %d simultaneous definitions at line %d", len(defs), n.Line)
	comma := ast.New(ast.NodeComma, n.Line, binders...)
	tau := ast.New(ast.NodeTau, n.Line, exprs...)
	n.Type = ast.NodeEqual
	n.SetChildren(comma, tau)
	return nil
}

// rec (= X E)  =>  = X (gamma Y* (lambda X E))
func rewriteRec(n *ast.Node) error {
	kids, err := expectChildren(n, 1)
	if err != nil {
		return err
	}
	x, e, err := definition(n, kids[0])
	if err != nil {
		return err
	}
	log.LogVf("standardize rec %s at line %d", x.Value, n.Line)
	binder := x.Clone()
	lambda := ast.New(ast.NodeLambda, n.Line, x, e)
	gamma := ast.New(ast.NodeGamma, n.Line, ast.Leaf(ast.NodeYStar, "", n.Line), lambda)
	n.Type = ast.NodeEqual
	n.SetChildren(binder, gamma)
	return nil
}

// lambda V1 .. Vn E  =>  lambda V1 (lambda V2 (... (lambda Vn E)))
func rewriteLambda(n *ast.Node) error {
	kids := n.Children()
	if len(kids) < 2 {
		return structureErr(n, "expected bound variable and body, found %d children", len(kids))
	}
	if len(kids) > 2 {
		log.LogVf("curry %d-parameter lambda at line %d", len(kids)-1, n.Line)
	}
	n.SetChildren(kids[0], curry(n.Line, kids[1:]))
	return nil
}

// curry nests nodes (V1 .. Vn E) into single-variable lambdas. With one
// node left it is the body itself.
func curry(line int, nodes []*ast.Node) *ast.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return ast.New(ast.NodeLambda, line, nodes[0], curry(line, nodes[1:]))
}
