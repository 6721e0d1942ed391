package ast

import "testing"

func TestSetChildrenRelinksSiblings(t *testing.T) {
	a, b, c := ID("a"), ID("b"), ID("c")
	a.Sibling = c
	n := New(NodeTau, 1, a, b)
	if got := n.ChildCount(); got != 2 {
		t.Fatalf("expected 2 children, got %d", got)
	}
	if b.Sibling != nil {
		t.Fatalf("expected last child to have no sibling")
	}
	if a.Sibling != b {
		t.Fatalf("expected a -> b sibling link")
	}
}

func TestAppendChild(t *testing.T) {
	n := New(NodeComma, 1)
	n.AppendChild(ID("x"))
	n.AppendChild(ID("y"))
	kids := n.Children()
	if len(kids) != 2 || kids[0].Value != "x" || kids[1].Value != "y" {
		t.Fatalf("unexpected children %v", kids)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Comma(ID("x"), ID("y"))
	orig.Sibling = ID("ignored")
	cp := orig.Clone()
	if cp.Sibling != nil {
		t.Fatalf("clone should drop the sibling link")
	}
	cp.Child.Value = "z"
	if orig.Child.Value != "x" {
		t.Fatalf("clone shares children with original")
	}
	if Format(cp) != ",\n.<ID:z>\n.<ID:y>\n" {
		t.Fatalf("unexpected clone rendering %q", Format(cp))
	}
}

func TestFormatPreOrder(t *testing.T) {
	tree := Let(Equal(ID("x"), Int(5)), Binary(NodePlus, ID("x"), Int(1)))
	want := "let\n" +
		".=\n" +
		"..<ID:x>\n" +
		"..<INT:5>\n" +
		".+\n" +
		"..<ID:x>\n" +
		"..<INT:1>\n"
	if got := Format(tree); got != want {
		t.Fatalf("Format mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestLabels(t *testing.T) {
	cases := []struct {
		node *Node
		want string
	}{
		{Str("hi"), "<STR:'hi'>"},
		{Bool(true), "<true>"},
		{Nil(), "<nil>"},
		{Dummy(), "<dummy>"},
		{Leaf(NodeYStar, "", 1), "<Y*>"},
		{New(NodeConditional, 1), "->"},
	}
	for _, tc := range cases {
		if got := tc.node.Label(); got != tc.want {
			t.Fatalf("label for %s: want %q, got %q", tc.node.Type, tc.want, got)
		}
	}
}

func TestOperatorClassification(t *testing.T) {
	if !NodeAug.IsBinaryOperator() || !NodeEq.IsBinaryOperator() {
		t.Fatalf("aug and eq are binary operators")
	}
	if NodeGamma.IsBinaryOperator() || NodeTau.IsBinaryOperator() {
		t.Fatalf("gamma and tau are not operators")
	}
	if !NodeNeg.IsUnaryOperator() || NodeMinus.IsUnaryOperator() {
		t.Fatalf("unexpected unary classification")
	}
}
