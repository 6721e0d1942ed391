package ast

import "fmt"

// NodeType names a tree node kind. The string form is the label used when
// printing trees.
type NodeType string

const (
	NodeIdentifier NodeType = "identifier"
	NodeString     NodeType = "string"
	NodeInteger    NodeType = "integer"

	NodeLet    NodeType = "let"
	NodeLambda NodeType = "lambda"
	NodeWhere  NodeType = "where"

	NodeTau         NodeType = "tau"
	NodeAug         NodeType = "aug"
	NodeConditional NodeType = "->"

	NodeOr  NodeType = "or"
	NodeAnd NodeType = "&"
	NodeNot NodeType = "not"
	NodeGr  NodeType = "gr"
	NodeGe  NodeType = "ge"
	NodeLs  NodeType = "ls"
	NodeLe  NodeType = "le"
	NodeEq  NodeType = "eq"
	NodeNe  NodeType = "ne"

	NodePlus  NodeType = "+"
	NodeMinus NodeType = "-"
	NodeNeg   NodeType = "neg"
	NodeMult  NodeType = "*"
	NodeDiv   NodeType = "/"
	NodeExp   NodeType = "**"
	NodeAt    NodeType = "@"

	NodeGamma NodeType = "gamma"
	NodeTrue  NodeType = "true"
	NodeFalse NodeType = "false"
	NodeNil   NodeType = "nil"
	NodeDummy NodeType = "dummy"

	NodeWithin    NodeType = "within"
	NodeSimultDef NodeType = "and"
	NodeRec       NodeType = "rec"
	NodeEqual     NodeType = "="
	NodeFcnForm   NodeType = "function_form"

	NodeParen NodeType = "()"
	NodeComma NodeType = ","

	// Introduced by standardization.
	NodeYStar NodeType = "Y*"

	// Machine-only kinds; never produced by the parser.
	NodeBeta  NodeType = "beta"
	NodeDelta NodeType = "delta"
	NodeEta   NodeType = "eta"
	NodeTuple NodeType = "tuple"
)

// IsBinaryOperator reports whether t is applied to two operands by the machine.
func (t NodeType) IsBinaryOperator() bool {
	switch t {
	case NodePlus, NodeMinus, NodeMult, NodeDiv, NodeExp,
		NodeLs, NodeLe, NodeGr, NodeGe, NodeEq, NodeNe,
		NodeOr, NodeAnd, NodeAug:
		return true
	}
	return false
}

// IsUnaryOperator reports whether t is applied to a single operand by the machine.
func (t NodeType) IsUnaryOperator() bool {
	return t == NodeNot || t == NodeNeg
}

// Node is a tree node in first-child/next-sibling form. A node owns its
// child chain; Sibling links are owned by the parent's chain.
type Node struct {
	Type    NodeType
	Value   string
	Child   *Node
	Sibling *Node
	Line    int
}

// New builds a node of the given type whose children are linked in order.
func New(t NodeType, line int, children ...*Node) *Node {
	n := &Node{Type: t, Line: line}
	n.SetChildren(children...)
	return n
}

// Leaf builds a valued node without children.
func Leaf(t NodeType, value string, line int) *Node {
	return &Node{Type: t, Value: value, Line: line}
}

// Kind lets tree nodes sit on a control sequence next to closures and branches.
func (n *Node) Kind() NodeType { return n.Type }

// SetChildren replaces n's child chain with the given nodes, relinking their siblings.
func (n *Node) SetChildren(children ...*Node) {
	n.Child = nil
	var last *Node
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Sibling = nil
		if last == nil {
			n.Child = c
		} else {
			last.Sibling = c
		}
		last = c
	}
}

// AppendChild attaches c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Sibling = nil
	if n.Child == nil {
		n.Child = c
		return
	}
	last := n.Child
	for last.Sibling != nil {
		last = last.Sibling
	}
	last.Sibling = c
}

// Children returns the child chain as a slice. The nodes are not copied.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.Child; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

// ChildCount counts the child chain.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.Child; c != nil; c = c.Sibling {
		count++
	}
	return count
}

// Clone deep-copies n and its children. The copy has no sibling.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Value: n.Value, Line: n.Line}
	var last *Node
	for c := n.Child; c != nil; c = c.Sibling {
		cc := c.Clone()
		if last == nil {
			out.Child = cc
		} else {
			last.Sibling = cc
		}
		last = cc
	}
	return out
}

// Label renders the node the way tree dumps show it.
func (n *Node) Label() string {
	switch n.Type {
	case NodeIdentifier:
		return fmt.Sprintf("<ID:%s>", n.Value)
	case NodeInteger:
		return fmt.Sprintf("<INT:%s>", n.Value)
	case NodeString:
		return fmt.Sprintf("<STR:'%s'>", n.Value)
	case NodeTrue, NodeFalse, NodeNil, NodeDummy, NodeYStar:
		return "<" + string(n.Type) + ">"
	default:
		return string(n.Type)
	}
}

func (n *Node) String() string {
	if n == nil {
		return "<nil node>"
	}
	return n.Label()
}

// Tree wraps the root of a parsed program.
type Tree struct {
	Root *Node
	// Standardized is set once the standardizer has rewritten Root into core form.
	Standardized bool
}

// NewTree wraps root in an unstandardized tree.
func NewTree(root *Node) *Tree {
	return &Tree{Root: root}
}
