package control_test

import (
	"errors"
	"testing"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/control"
	"github.com/ludeesha-cse/rpal20/pkg/parser"
	"github.com/ludeesha-cse/rpal20/pkg/standardizer"
)

func build(t *testing.T, src string) *control.Delta {
	t.Helper()
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if err := standardizer.Standardize(tree); err != nil {
		t.Fatalf("Standardize(%q): %v", src, err)
	}
	root, err := control.Build(tree)
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	return root
}

func TestBuildRequiresStandardizedTree(t *testing.T) {
	tree, err := parser.Parse("let x = 1 in x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := control.Build(tree); !errors.Is(err, control.ErrNotStandardized) {
		t.Fatalf("expected ErrNotStandardized, got %v", err)
	}
}

func TestBuildLet(t *testing.T) {
	root := build(t, "let x = 5 in x + 1")
	want := "delta0: gamma delta1 <INT:5>\n" +
		"delta1 [x]: + <ID:x> <INT:1>\n"
	if got := control.Format(root); got != want {
		t.Fatalf("control structures\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestConditionRunsBeforeBeta(t *testing.T) {
	root := build(t, "1 eq 1 -> 'a' | 'b'")
	if _, ok := root.Body[0].(*control.Beta); !ok {
		t.Fatalf("expected beta at the bottom of the sequence, got %v", root.Body[0].Kind())
	}
	last := root.Body[len(root.Body)-1]
	if last.Kind() != ast.NodeInteger {
		t.Fatalf("expected condition operand on top of the sequence, got %v", last.Kind())
	}
	want := "delta0: beta( <STR:'a'> | <STR:'b'> ) eq <INT:1> <INT:1>\n"
	if got := control.Format(root); got != want {
		t.Fatalf("control structures\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestDeltasAreNumberedBreadthFirst(t *testing.T) {
	root := build(t, "(fn x. fn y. x) ((fn z. z) 1)")
	want := "delta0: gamma delta1 gamma delta2 <INT:1>\n" +
		"delta1 [x]: delta3\n" +
		"delta2 [z]: <ID:z>\n" +
		"delta3 [y]: <ID:x>\n"
	if got := control.Format(root); got != want {
		t.Fatalf("control structures\nwant:\n%s\ngot:\n%s", want, got)
	}
	if n := len(control.Collect(root)); n != 4 {
		t.Fatalf("expected 4 deltas, got %d", n)
	}
}

func TestBoundVariableShapes(t *testing.T) {
	root := build(t, "let a = 1 and b = 2 in a")
	d, ok := root.Body[1].(*control.Delta)
	if !ok {
		t.Fatalf("expected delta, got %v", root.Body[1].Kind())
	}
	if len(d.BoundVars) != 2 || d.BoundVars[0] != "a" || d.BoundVars[1] != "b" {
		t.Fatalf("unexpected bound variables %v", d.BoundVars)
	}

	root = build(t, "fn () . 1")
	d = root.Body[0].(*control.Delta)
	if len(d.BoundVars) != 1 || d.BoundVars[0] != "()" {
		t.Fatalf("unexpected bound variables %v", d.BoundVars)
	}
}

func TestBuildRejectsBadBinder(t *testing.T) {
	tree := ast.NewTree(ast.New(ast.NodeLambda, 2, ast.Int(1), ast.ID("x")))
	tree.Standardized = true
	if _, err := control.Build(tree); err == nil {
		t.Fatalf("expected error for integer binder")
	}
}
