package ast

import (
	"io"
	"strings"
)

// Fprint writes the subtree rooted at n in pre-order, one node per line,
// prefixing each line with one dot per level of depth.
func Fprint(w io.Writer, n *Node) error {
	var b strings.Builder
	writeNode(&b, n, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// Format returns the Fprint rendering of n as a string.
func Format(n *Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat(".", depth))
	b.WriteString(n.Label())
	b.WriteByte('\n')
	for c := n.Child; c != nil; c = c.Sibling {
		writeNode(b, c, depth+1)
	}
}
