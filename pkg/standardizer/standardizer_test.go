package standardizer_test

import (
	"errors"
	"testing"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/parser"
	"github.com/ludeesha-cse/rpal20/pkg/standardizer"
)

func standardized(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	if err := standardizer.Standardize(tree); err != nil {
		t.Fatalf("Standardize(%q): %v", src, err)
	}
	if !tree.Standardized {
		t.Fatalf("tree not marked standardized")
	}
	return tree
}

func TestStandardizeRules(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "let",
			src:  "let x = 5 in x + 1",
			want: "gamma\n.lambda\n..<ID:x>\n..+\n...<ID:x>\n...<INT:1>\n.<INT:5>\n",
		},
		{
			name: "where",
			src:  "x + 1 where x = 5",
			want: "gamma\n.lambda\n..<ID:x>\n..+\n...<ID:x>\n...<INT:1>\n.<INT:5>\n",
		},
		{
			name: "function form",
			src:  "let f x y = x in f",
			want: "gamma\n.lambda\n..<ID:f>\n..<ID:f>\n.lambda\n..<ID:x>\n..lambda\n...<ID:y>\n...<ID:x>\n",
		},
		{
			name: "curried lambda",
			src:  "fn x y . x",
			want: "lambda\n.<ID:x>\n.lambda\n..<ID:y>\n..<ID:x>\n",
		},
		{
			name: "at",
			src:  "1 @ add 2",
			want: "gamma\n.gamma\n..<ID:add>\n..<INT:1>\n.<INT:2>\n",
		},
		{
			name: "within",
			src:  "let x = 1 within y = x in y",
			want: "gamma\n.lambda\n..<ID:y>\n..<ID:y>\n.gamma\n..lambda\n...<ID:x>\n...<ID:x>\n..<INT:1>\n",
		},
		{
			name: "simultaneous definitions",
			src:  "let a = 1 and b = 2 in a",
			want: "gamma\n.lambda\n..,\n...<ID:a>\n...<ID:b>\n..<ID:a>\n.tau\n..<INT:1>\n..<INT:2>\n",
		},
		{
			name: "rec",
			src:  "let rec f n = n in f",
			want: "gamma\n.lambda\n..<ID:f>\n..<ID:f>\n.gamma\n..<Y*>\n..lambda\n...<ID:f>\n...lambda\n....<ID:n>\n....<ID:n>\n",
		},
	}
	for _, tc := range cases {
		tree := standardized(t, tc.src)
		if got := ast.Format(tree.Root); got != tc.want {
			t.Fatalf("%s: standardized tree\nwant:\n%s\ngot:\n%s", tc.name, tc.want, got)
		}
	}
}

func TestStandardizeIsIdempotent(t *testing.T) {
	tree := standardized(t, "let rec f n = n eq 0 -> 1 | n * f (n - 1) in Print (f 5, 'x' aug 1)")
	first := ast.Format(tree.Root)
	if err := standardizer.Standardize(tree); err != nil {
		t.Fatalf("second Standardize: %v", err)
	}
	if second := ast.Format(tree.Root); second != first {
		t.Fatalf("second pass changed the tree\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestStandardizeLeavesCoreFormAlone(t *testing.T) {
	root := ast.Cond(
		ast.Binary(ast.NodeEq, ast.ID("a"), ast.Int(1)),
		ast.Tau(ast.ID("a"), ast.Str("s")),
		ast.Unary(ast.NodeNot, ast.Bool(false)),
	)
	want := ast.Format(root)
	tree := ast.NewTree(root)
	if err := standardizer.Standardize(tree); err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if got := ast.Format(tree.Root); got != want {
		t.Fatalf("core form tree changed\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestRecBinderIsNotShared(t *testing.T) {
	tree := standardized(t, "let rec f n = n in f")
	arg := tree.Root.Child.Sibling // gamma Y* lambda
	lambda := arg.Child.Sibling
	binder := tree.Root.Child.Child
	if binder == lambda.Child {
		t.Fatalf("rec binder and lambda parameter share a node")
	}
}

func TestRewrittenNodesKeepLines(t *testing.T) {
	tree := standardized(t, "\n\nlet x = 1\nin x")
	if tree.Root.Type != ast.NodeGamma || tree.Root.Line != 3 {
		t.Fatalf("expected gamma at line 3, got %s at %d", tree.Root.Type, tree.Root.Line)
	}
}

func TestStandardizeStructureErrors(t *testing.T) {
	cases := []struct {
		name string
		root *ast.Node
		rule ast.NodeType
	}{
		{"let without definition", ast.Let(ast.ID("x"), ast.ID("y")), ast.NodeLet},
		{"rec without definition", ast.Rec(ast.ID("x")), ast.NodeRec},
		{"within with bad inner", ast.Within(ast.Equal(ast.ID("x"), ast.Int(1)), ast.ID("y")), ast.NodeWithin},
		{"and with bad member", ast.And(ast.Equal(ast.ID("x"), ast.Int(1)), ast.Int(2)), ast.NodeSimultDef},
		{"bare lambda", ast.New(ast.NodeLambda, 4, ast.ID("x")), ast.NodeLambda},
	}
	for _, tc := range cases {
		err := standardizer.Standardize(ast.NewTree(tc.root))
		var structErr *standardizer.StructureError
		if !errors.As(err, &structErr) {
			t.Fatalf("%s: expected StructureError, got %v", tc.name, err)
		}
		if structErr.Rule != tc.rule {
			t.Fatalf("%s: expected rule %s, got %s", tc.name, tc.rule, structErr.Rule)
		}
	}
}

func TestStandardizeRejectsEmptyTree(t *testing.T) {
	if err := standardizer.Standardize(&ast.Tree{}); err == nil {
		t.Fatalf("expected error for empty tree")
	}
}
