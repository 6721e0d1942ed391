package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludeesha-cse/rpal20/pkg/control"
	"github.com/ludeesha-cse/rpal20/pkg/parser"
	"github.com/ludeesha-cse/rpal20/pkg/standardizer"
)

func TestLoadFileRunsEveryStage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sum.rpal")
	if err := os.WriteFile(path, []byte("let x = 5 in Print (x + 1)\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	prog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if prog.Name != "sum.rpal" {
		t.Fatalf("unexpected program name %q", prog.Name)
	}
	if !prog.Tree.Standardized {
		t.Fatalf("tree not standardized")
	}
	if n := len(control.Collect(prog.Root)); n != 2 {
		t.Fatalf("expected 2 deltas, got %d", n)
	}
}

func TestParseFileKeepsRawTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.rpal")
	if err := os.WriteFile(path, []byte("x where x = 1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tree, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if tree.Standardized || tree.Root.Type != "where" {
		t.Fatalf("expected raw where tree, got %s (standardized=%v)", tree.Root.Type, tree.Standardized)
	}
}

func TestLoadWrapsStageErrors(t *testing.T) {
	_, err := Load("broken.rpal", "let x = 1 x")
	var synErr *parser.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "broken.rpal: ") {
		t.Fatalf("expected error to name the program, got %q", err)
	}
}

func TestPrepareReportsStructureErrors(t *testing.T) {
	tree, err := Parse("t", "let x = 1 in x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tree.Root.Child.Type = "rec"
	_, err = Prepare("t", tree)
	var structErr *standardizer.StructureError
	if !errors.As(err, &structErr) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, err := ReadSource(filepath.Join(t.TempDir(), "nope.rpal")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := ReadSource(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
