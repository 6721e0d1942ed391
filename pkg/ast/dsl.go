package ast

import "strconv"

// Identifier and literal helpers.

func ID(name string) *Node {
	return Leaf(NodeIdentifier, name, 1)
}

func Str(value string) *Node {
	return Leaf(NodeString, value, 1)
}

func Int(value int64) *Node {
	return Leaf(NodeInteger, strconv.FormatInt(value, 10), 1)
}

func Bool(value bool) *Node {
	if value {
		return Leaf(NodeTrue, "true", 1)
	}
	return Leaf(NodeFalse, "false", 1)
}

func Nil() *Node {
	return Leaf(NodeNil, "nil", 1)
}

func Dummy() *Node {
	return Leaf(NodeDummy, "dummy", 1)
}

// Expression helpers.

func Let(def, body *Node) *Node {
	return New(NodeLet, lineOf(def), def, body)
}

func Where(body, def *Node) *Node {
	return New(NodeWhere, lineOf(body), body, def)
}

// Lambda builds `fn v1 ... vn . body`.
func Lambda(params []*Node, body *Node) *Node {
	children := append(append([]*Node{}, params...), body)
	return New(NodeLambda, lineOf(children[0]), children...)
}

func Apply(rator, rand *Node) *Node {
	return New(NodeGamma, lineOf(rator), rator, rand)
}

func Tau(elems ...*Node) *Node {
	line := 0
	if len(elems) > 0 {
		line = lineOf(elems[0])
	}
	return New(NodeTau, line, elems...)
}

func Cond(test, then, els *Node) *Node {
	return New(NodeConditional, lineOf(test), test, then, els)
}

// Binary builds a two-operand operator node such as `+` or `eq`.
func Binary(op NodeType, left, right *Node) *Node {
	return New(op, lineOf(left), left, right)
}

func Unary(op NodeType, operand *Node) *Node {
	return New(op, lineOf(operand), operand)
}

// At builds the infix application `e1 @ name e2`.
func At(e1, name, e2 *Node) *Node {
	return New(NodeAt, lineOf(e1), e1, name, e2)
}
