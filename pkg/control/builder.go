package control

import (
	"errors"
	"fmt"

	"fortio.org/log"
	"github.com/samber/lo"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
)

// ErrNotStandardized is returned by Build for trees the standardizer has
// not processed.
var ErrNotStandardized = errors.New("control: tree has not been standardized")

type pendingBody struct {
	start *ast.Node
	delta *Delta
}

type builder struct {
	queue []pendingBody
	next  int
}

// Build linearizes a standardized tree into Deltas and returns the root
// Delta. Lambda bodies are discovered during the walk and built later from
// a FIFO worklist, so each Delta body only contains its own instructions.
func Build(tree *ast.Tree) (*Delta, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New("control: empty tree")
	}
	if !tree.Standardized {
		return nil, ErrNotStandardized
	}
	b := &builder{}
	root := b.newDelta(tree.Root, nil, tree.Root.Line)
	for len(b.queue) > 0 {
		p := b.queue[0]
		b.queue = b.queue[1:]
		body, err := b.build(p.start, nil)
		if err != nil {
			return nil, err
		}
		p.delta.Body = body
		log.LogVf("built %s with %d instructions", p.delta, len(body))
	}
	return root, nil
}

func (b *builder) newDelta(start *ast.Node, vars []string, line int) *Delta {
	d := &Delta{Index: b.next, BoundVars: vars, Line: line}
	b.next++
	b.queue = append(b.queue, pendingBody{start: start, delta: d})
	return d
}

// build appends the instructions for n to body in pre-order.
func (b *builder) build(n *ast.Node, body []Instruction) ([]Instruction, error) {
	switch n.Type {
	case ast.NodeLambda:
		if n.ChildCount() != 2 {
			return nil, fmt.Errorf("control: line %d: lambda needs one bound variable and a body, found %d children", n.Line, n.ChildCount())
		}
		vars, err := boundVars(n.Child)
		if err != nil {
			return nil, err
		}
		d := b.newDelta(n.Child.Sibling, vars, n.Line)
		return append(body, d), nil
	case ast.NodeConditional:
		kids := n.Children()
		if len(kids) != 3 {
			return nil, fmt.Errorf("control: line %d: conditional needs 3 children, found %d", n.Line, len(kids))
		}
		beta := &Beta{Line: n.Line}
		var err error
		if beta.Then, err = b.build(kids[1], nil); err != nil {
			return nil, err
		}
		if beta.Else, err = b.build(kids[2], nil); err != nil {
			return nil, err
		}
		body = append(body, beta)
		return b.build(kids[0], body)
	}

	body = append(body, n)
	for c := n.Child; c != nil; c = c.Sibling {
		var err error
		if body, err = b.build(c, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

func boundVars(binder *ast.Node) ([]string, error) {
	switch binder.Type {
	case ast.NodeIdentifier:
		return []string{binder.Value}, nil
	case ast.NodeParen:
		return []string{"()"}, nil
	case ast.NodeComma:
		kids := binder.Children()
		for _, k := range kids {
			if k.Type != ast.NodeIdentifier {
				return nil, fmt.Errorf("control: line %d: bound variable list contains %s", k.Line, k.Label())
			}
		}
		return lo.Map(kids, func(k *ast.Node, _ int) string { return k.Value }), nil
	}
	return nil, fmt.Errorf("control: line %d: cannot bind %s", binder.Line, binder.Label())
}
