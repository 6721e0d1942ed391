package interpreter

import (
	"strconv"

	"fortio.org/log"
	"golang.org/x/exp/slices"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/control"
	"github.com/ludeesha-cse/rpal20/pkg/runtime"
)

// run executes one activation of delta against env. The control stack is
// a copy of the Delta body so the template can be applied again.
func (i *Interpreter) run(delta *control.Delta, env *runtime.Environment) error {
	i.depth++
	defer func() { i.depth-- }()
	if i.maxDepth > 0 && i.depth > i.maxDepth {
		return evalErrorf(delta.Line, "recursion depth exceeded %d nested applications", i.maxDepth)
	}

	ctrl := slices.Clone(delta.Body)
	for len(ctrl) > 0 {
		ins := ctrl[len(ctrl)-1]
		ctrl = ctrl[:len(ctrl)-1]
		var err error
		if ctrl, err = i.step(ins, env, ctrl); err != nil {
			return err
		}
	}
	return nil
}

// step processes one control item and returns the (possibly extended)
// control stack.
func (i *Interpreter) step(ins control.Instruction, env *runtime.Environment, ctrl []control.Instruction) ([]control.Instruction, error) {
	switch ins := ins.(type) {
	case *control.Delta:
		i.push(&runtime.ClosureValue{Delta: ins, Env: env})
		return ctrl, nil
	case *control.Beta:
		cond, err := i.pop(ins.Line)
		if err != nil {
			return nil, err
		}
		b, ok := cond.(runtime.BoolValue)
		if !ok {
			return nil, evalErrorf(ins.Line, "expecting a truthvalue; found \"%s\"", cond)
		}
		if b.Val {
			log.Debugf("beta at line %d takes then branch", ins.Line)
			return append(ctrl, ins.Then...), nil
		}
		log.Debugf("beta at line %d takes else branch", ins.Line)
		return append(ctrl, ins.Else...), nil
	case *ast.Node:
		return i.stepNode(ins, env, ctrl)
	}
	return nil, evalErrorf(0, "unknown control item %s", ins.Kind())
}

func (i *Interpreter) stepNode(n *ast.Node, env *runtime.Environment, ctrl []control.Instruction) ([]control.Instruction, error) {
	switch {
	case n.Type.IsBinaryOperator():
		return ctrl, i.applyBinary(n)
	case n.Type.IsUnaryOperator():
		return ctrl, i.applyUnary(n)
	}

	switch n.Type {
	case ast.NodeIdentifier:
		return ctrl, i.resolve(n, env)
	case ast.NodeInteger:
		val, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, evalErrorf(n.Line, "invalid integer \"%s\"", n.Value)
		}
		i.push(runtime.Int(val))
	case ast.NodeString:
		i.push(runtime.Str(n.Value))
	case ast.NodeTrue:
		i.push(runtime.Bool(true))
	case ast.NodeFalse:
		i.push(runtime.Bool(false))
	case ast.NodeDummy:
		i.push(runtime.DummyValue{})
	case ast.NodeYStar:
		i.push(runtime.YStarValue{})
	case ast.NodeNil, ast.NodeTau:
		return ctrl, i.buildTuple(n)
	case ast.NodeGamma:
		return i.applyGamma(n, ctrl)
	default:
		return nil, evalErrorf(n.Line, "cannot evaluate %s", n.Label())
	}
	return ctrl, nil
}

func (i *Interpreter) resolve(n *ast.Node, env *runtime.Environment) error {
	if v, ok := env.Lookup(n.Value); ok {
		i.push(v)
		return nil
	}
	if IsBuiltin(n.Value) {
		i.push(runtime.BuiltinValue{Name: n.Value})
		return nil
	}
	return evalErrorf(n.Line, "undeclared identifier \"%s\"", n.Value)
}

// buildTuple pops one value per child. The first value popped is the
// leftmost element because the children were pushed right to left.
func (i *Interpreter) buildTuple(n *ast.Node) error {
	count := n.ChildCount()
	elems := make([]runtime.Value, count)
	for k := 0; k < count; k++ {
		v, err := i.pop(n.Line)
		if err != nil {
			return err
		}
		elems[k] = v
	}
	i.push(runtime.Tuple(elems...))
	return nil
}

func (i *Interpreter) applyGamma(n *ast.Node, ctrl []control.Instruction) ([]control.Instruction, error) {
	rator, err := i.pop(n.Line)
	if err != nil {
		return nil, err
	}
	rand, err := i.pop(n.Line)
	if err != nil {
		return nil, err
	}

	switch fn := rator.(type) {
	case *runtime.ClosureValue:
		return ctrl, i.applyClosure(fn, rand, n.Line)
	case runtime.YStarValue:
		closure, ok := rand.(*runtime.ClosureValue)
		if !ok {
			return nil, evalErrorf(n.Line, "expected a function for Y*; was given \"%s\"", rand)
		}
		i.push(&runtime.EtaValue{Closure: closure})
	case *runtime.EtaValue:
		// Unfold one step: (closure eta) rand.
		i.push(rand)
		i.push(fn)
		i.push(fn.Closure)
		ctrl = append(ctrl, n, n)
	case *runtime.TupleValue:
		idx, ok := rand.(runtime.IntegerValue)
		if !ok {
			return nil, evalErrorf(n.Line, "non-integer tuple selection with \"%s\"", rand)
		}
		elem, ok := fn.At(idx.Val)
		if !ok {
			return nil, evalErrorf(n.Line, "tuple selection index %d out of bounds for tuple of %d elements", idx.Val, fn.Len())
		}
		i.push(elem)
	case runtime.BuiltinValue:
		return ctrl, i.applyBuiltin(fn, rand, n.Line)
	default:
		return nil, evalErrorf(n.Line, "don't know how to apply %s \"%s\"", rator.Kind(), rator)
	}
	return ctrl, nil
}

func (i *Interpreter) applyClosure(fn *runtime.ClosureValue, rand runtime.Value, line int) error {
	env := runtime.NewEnvironment(fn.Env)
	vars := fn.Delta.BoundVars
	if len(vars) == 1 {
		env.Bind(vars[0], rand)
	} else {
		tup, ok := rand.(*runtime.TupleValue)
		if !ok {
			return evalErrorf(line, "expected a tuple of %d for (%s); was given \"%s\"", len(vars), fn.Delta.Params(), rand)
		}
		if tup.Len() != len(vars) {
			return evalErrorf(line, "expected a tuple of %d for (%s); was given %d elements", len(vars), fn.Delta.Params(), tup.Len())
		}
		for k, name := range vars {
			env.Bind(name, tup.Elements[k])
		}
	}
	if log.LogDebug() {
		log.Debugf("apply %s binding %v at depth %d", fn.Delta, env.Keys(), i.depth+1)
	}
	return i.run(fn.Delta, env)
}
