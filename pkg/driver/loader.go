package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/log"

	"github.com/ludeesha-cse/rpal20/pkg/ast"
	"github.com/ludeesha-cse/rpal20/pkg/control"
	"github.com/ludeesha-cse/rpal20/pkg/parser"
	"github.com/ludeesha-cse/rpal20/pkg/standardizer"
)

// Program is a source file carried through every stage before evaluation.
type Program struct {
	Name string
	// Tree is the standardized tree.
	Tree *ast.Tree
	Root *control.Delta
}

// ReadSource reads an RPAL source file.
func ReadSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("loader: empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loader: read %s: %w", path, err)
	}
	return string(data), nil
}

// Parse lexes and parses src into its raw tree. name labels errors.
func Parse(name, src string) (*ast.Tree, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tree, nil
}

// ParseFile reads and parses path into its raw tree.
func ParseFile(path string) (*ast.Tree, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Parse(filepath.Base(path), src)
}

// Load parses, standardizes and linearizes src.
func Load(name, src string) (*Program, error) {
	tree, err := Parse(name, src)
	if err != nil {
		return nil, err
	}
	return Prepare(name, tree)
}

// LoadFile is Load for a file on disk.
func LoadFile(path string) (*Program, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return Load(filepath.Base(path), src)
}

// Prepare standardizes a raw tree in place and builds its control structures.
func Prepare(name string, tree *ast.Tree) (*Program, error) {
	if err := standardizer.Standardize(tree); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	root, err := control.Build(tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	log.LogVf("loaded %s: %d deltas", name, len(control.Collect(root)))
	return &Program{Name: name, Tree: tree, Root: root}, nil
}
