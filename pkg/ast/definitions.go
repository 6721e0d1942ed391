package ast

// Builders for the definition forms. Used by tests and by code that needs to
// assemble small trees by hand; the parser links nodes directly.

func Equal(binder, expr *Node) *Node {
	return New(NodeEqual, lineOf(binder), binder, expr)
}

func Rec(def *Node) *Node {
	return New(NodeRec, lineOf(def), def)
}

func Within(outer, inner *Node) *Node {
	return New(NodeWithin, lineOf(outer), outer, inner)
}

func And(defs ...*Node) *Node {
	line := 0
	if len(defs) > 0 {
		line = lineOf(defs[0])
	}
	return New(NodeSimultDef, line, defs...)
}

// FcnForm builds `name v1 ... vn = body`.
func FcnForm(name *Node, params []*Node, body *Node) *Node {
	children := make([]*Node, 0, len(params)+2)
	children = append(children, name)
	children = append(children, params...)
	children = append(children, body)
	return New(NodeFcnForm, lineOf(name), children...)
}

// Comma builds a variable list such as `x, y, z`.
func Comma(vars ...*Node) *Node {
	line := 0
	if len(vars) > 0 {
		line = lineOf(vars[0])
	}
	return New(NodeComma, line, vars...)
}

func lineOf(n *Node) int {
	if n == nil {
		return 0
	}
	return n.Line
}
