package control

import (
	"fmt"
	"strings"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
)

// Instruction is one item of a control sequence. Tree nodes, Deltas and
// Betas all qualify.
type Instruction interface {
	Kind() ast.NodeType
}

// Delta is a closure template: the bound variables of a lambda and its
// linearized body. A Delta never carries an environment; the machine pairs
// it with one when the Delta is pushed as a value. Deltas are immutable
// once Build returns.
type Delta struct {
	Index     int
	BoundVars []string
	// Body is consumed as a stack: the last instruction executes first.
	Body []Instruction
	Line int
}

func (d *Delta) Kind() ast.NodeType { return ast.NodeDelta }

func (d *Delta) String() string {
	return fmt.Sprintf("delta%d", d.Index)
}

// Params renders the bound variables the way closures print them.
func (d *Delta) Params() string {
	return strings.Join(d.BoundVars, ", ")
}

// Beta holds the unevaluated arms of a conditional. The condition's
// instructions sit after the Beta in the enclosing sequence so they run
// first.
type Beta struct {
	Then []Instruction
	Else []Instruction
	Line int
}

func (b *Beta) Kind() ast.NodeType { return ast.NodeBeta }

func (b *Beta) String() string { return "beta" }
