package control

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
)

// Format renders every Delta reachable from root, one per line, ordered by
// index. Instructions appear in stored order; the machine executes them
// from the right.
func Format(root *Delta) string {
	deltas := Collect(root)
	var b strings.Builder
	for _, d := range deltas {
		fmt.Fprintf(&b, "%s", d)
		if len(d.BoundVars) > 0 {
			fmt.Fprintf(&b, " [%s]", d.Params())
		}
		b.WriteString(":")
		writeSequence(&b, d.Body)
		b.WriteByte('\n')
	}
	return b.String()
}

// Fprint writes Format(root) to w.
func Fprint(w io.Writer, root *Delta) error {
	_, err := io.WriteString(w, Format(root))
	return err
}

// Collect returns root and every Delta nested in its bodies, sorted by index.
func Collect(root *Delta) []*Delta {
	if root == nil {
		return nil
	}
	seen := map[*Delta]bool{}
	var out []*Delta
	var visit func(seq []Instruction)
	visit = func(seq []Instruction) {
		for _, ins := range seq {
			switch v := ins.(type) {
			case *Delta:
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
					visit(v.Body)
				}
			case *Beta:
				visit(v.Then)
				visit(v.Else)
			}
		}
	}
	seen[root] = true
	out = append(out, root)
	visit(root.Body)
	slices.SortFunc(out, func(a, b *Delta) int { return a.Index - b.Index })
	return out
}

func writeSequence(b *strings.Builder, seq []Instruction) {
	for _, ins := range seq {
		b.WriteByte(' ')
		switch v := ins.(type) {
		case *Delta:
			b.WriteString(v.String())
		case *Beta:
			b.WriteString("beta(")
			writeSequence(b, v.Then)
			b.WriteString(" |")
			writeSequence(b, v.Else)
			b.WriteString(" )")
		case *ast.Node:
			b.WriteString(v.Label())
		default:
			b.WriteString(string(ins.Kind()))
		}
	}
}
