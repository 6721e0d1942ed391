package interpreter

import (
	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/runtime"
)

// applyBinary pops both operands; the first value popped is the left operand.
func (i *Interpreter) applyBinary(n *ast.Node) error {
	rand1, err := i.pop(n.Line)
	if err != nil {
		return err
	}
	rand2, err := i.pop(n.Line)
	if err != nil {
		return err
	}

	var result runtime.Value
	switch n.Type {
	case ast.NodePlus, ast.NodeMinus, ast.NodeMult, ast.NodeDiv, ast.NodeExp,
		ast.NodeLs, ast.NodeLe, ast.NodeGr, ast.NodeGe:
		result, err = arithmetic(n, rand1, rand2)
	case ast.NodeEq, ast.NodeNe:
		result, err = equality(n, rand1, rand2)
	case ast.NodeOr, ast.NodeAnd:
		result, err = logical(n, rand1, rand2)
	case ast.NodeAug:
		result, err = augment(n, rand1, rand2)
	default:
		err = evalErrorf(n.Line, "unknown binary operator %s", n.Type)
	}
	if err != nil {
		return err
	}
	i.push(result)
	return nil
}

func arithmetic(n *ast.Node, rand1, rand2 runtime.Value) (runtime.Value, error) {
	a, ok1 := rand1.(runtime.IntegerValue)
	b, ok2 := rand2.(runtime.IntegerValue)
	if !ok1 || !ok2 {
		return nil, evalErrorf(n.Line, "expected two integers for %s; was given \"%s\", \"%s\"", n.Type, rand1, rand2)
	}
	switch n.Type {
	case ast.NodePlus:
		return runtime.Int(a.Val + b.Val), nil
	case ast.NodeMinus:
		return runtime.Int(a.Val - b.Val), nil
	case ast.NodeMult:
		return runtime.Int(a.Val * b.Val), nil
	case ast.NodeDiv:
		if b.Val == 0 {
			return nil, evalErrorf(n.Line, "division by zero: \"%s\" / \"%s\"", rand1, rand2)
		}
		return runtime.Int(a.Val / b.Val), nil
	case ast.NodeExp:
		return runtime.Int(power(a.Val, b.Val)), nil
	case ast.NodeLs:
		return runtime.Bool(a.Val < b.Val), nil
	case ast.NodeLe:
		return runtime.Bool(a.Val <= b.Val), nil
	case ast.NodeGr:
		return runtime.Bool(a.Val > b.Val), nil
	default:
		return runtime.Bool(a.Val >= b.Val), nil
	}
}

// power is integer exponentiation. Negative exponents truncate the
// fractional result toward zero.
func power(base, exp int64) int64 {
	if exp < 0 {
		switch base {
		case 1:
			return 1
		case -1:
			if exp%2 == 0 {
				return 1
			}
			return -1
		default:
			return 0
		}
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func equality(n *ast.Node, rand1, rand2 runtime.Value) (runtime.Value, error) {
	if rand1.Kind() != rand2.Kind() {
		return nil, evalErrorf(n.Line, "cannot compare dissimilar types; was given \"%s\", \"%s\"", rand1, rand2)
	}
	var same bool
	switch a := rand1.(type) {
	case runtime.BoolValue:
		same = a.Val == rand2.(runtime.BoolValue).Val
	case runtime.StringValue:
		same = a.Val == rand2.(runtime.StringValue).Val
	case runtime.IntegerValue:
		same = a.Val == rand2.(runtime.IntegerValue).Val
	default:
		return nil, evalErrorf(n.Line, "don't know how to %s \"%s\", \"%s\"", n.Type, rand1, rand2)
	}
	if n.Type == ast.NodeNe {
		same = !same
	}
	return runtime.Bool(same), nil
}

func logical(n *ast.Node, rand1, rand2 runtime.Value) (runtime.Value, error) {
	a, ok1 := rand1.(runtime.BoolValue)
	b, ok2 := rand2.(runtime.BoolValue)
	if !ok1 || !ok2 {
		return nil, evalErrorf(n.Line, "don't know how to %s \"%s\", \"%s\"", n.Type, rand1, rand2)
	}
	if n.Type == ast.NodeOr {
		return runtime.Bool(a.Val || b.Val), nil
	}
	return runtime.Bool(a.Val && b.Val), nil
}

// augment appends rand2 to the tuple rand1 in place.
func augment(n *ast.Node, rand1, rand2 runtime.Value) (runtime.Value, error) {
	tup, ok := rand1.(*runtime.TupleValue)
	if !ok {
		return nil, evalErrorf(n.Line, "cannot augment a non-tuple \"%s\"", rand1)
	}
	tup.Append(rand2)
	return tup, nil
}

func (i *Interpreter) applyUnary(n *ast.Node) error {
	rand, err := i.pop(n.Line)
	if err != nil {
		return err
	}
	switch n.Type {
	case ast.NodeNot:
		b, ok := rand.(runtime.BoolValue)
		if !ok {
			return evalErrorf(n.Line, "expecting a truthvalue for not; was given \"%s\"", rand)
		}
		i.push(runtime.Bool(!b.Val))
	case ast.NodeNeg:
		v, ok := rand.(runtime.IntegerValue)
		if !ok {
			return evalErrorf(n.Line, "expecting an integer for neg; was given \"%s\"", rand)
		}
		i.push(runtime.Int(-v.Val))
	default:
		return evalErrorf(n.Line, "unknown unary operator %s", n.Type)
	}
	return nil
}
