package interpreter

import (
	"io"
	"os"

	"fortio.org/log"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/control"
	"github.com/ludeesha-cse/rpal20/pkg/runtime"
)

// DefaultMaxDepth bounds nested closure activations unless Options says otherwise.
const DefaultMaxDepth = 200000

// Options configures an Interpreter.
type Options struct {
	// Stdout receives Print output. Nil means os.Stdout.
	Stdout io.Writer
	// MaxDepth limits nested closure activations; 0 means unbounded.
	MaxDepth int
}

// DefaultOptions writes to os.Stdout with the default depth limit.
func DefaultOptions() Options {
	return Options{Stdout: os.Stdout, MaxDepth: DefaultMaxDepth}
}

// Interpreter is the CSE machine. The value stack is shared by every
// activation; each closure application runs its own control stack.
type Interpreter struct {
	out       io.Writer
	maxDepth  int
	stack     []runtime.Value
	depth     int
	primitive *runtime.Environment
}

// New returns an interpreter over an empty primitive environment.
func New(opts Options) *Interpreter {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &Interpreter{
		out:       out,
		maxDepth:  opts.MaxDepth,
		primitive: runtime.NewEnvironment(nil),
	}
}

// Evaluate runs the program rooted at root and returns the value left on
// the stack. Output produced by Print before a failure is not retracted.
func (i *Interpreter) Evaluate(root *control.Delta) (runtime.Value, error) {
	i.stack = i.stack[:0]
	i.depth = 0
	log.LogVf("evaluate program (%s)", root)
	if err := i.run(root, i.primitive); err != nil {
		return nil, err
	}
	if len(i.stack) == 0 {
		return runtime.DummyValue{}, nil
	}
	if len(i.stack) > 1 {
		log.Warnf("evaluation left %d values on the stack", len(i.stack))
	}
	return i.stack[len(i.stack)-1], nil
}

// EvaluateTree builds control structures for a standardized tree and runs them.
func (i *Interpreter) EvaluateTree(tree *ast.Tree) (runtime.Value, error) {
	root, err := control.Build(tree)
	if err != nil {
		return nil, err
	}
	return i.Evaluate(root)
}

func (i *Interpreter) push(v runtime.Value) {
	i.stack = append(i.stack, v)
}

func (i *Interpreter) pop(line int) (runtime.Value, error) {
	if len(i.stack) == 0 {
		return nil, evalErrorf(line, "value stack underflow")
	}
	v := i.stack[len(i.stack)-1]
	i.stack[len(i.stack)-1] = nil
	i.stack = i.stack[:len(i.stack)-1]
	return v, nil
}
