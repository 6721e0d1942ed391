package runtime

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Environment maps names to values for one closure application, chained
// to the environment the closure captured.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil for the primitive environment).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Bind inserts a binding into this environment only.
func (e *Environment) Bind(name string, value Value) {
	e.values[name] = value
}

// Lookup finds the nearest binding of name and returns a copy of it, so
// that mutating the result never affects the stored value.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return Copy(v), true
		}
	}
	return nil, false
}

// Keys returns the local bindings in sorted order.
func (e *Environment) Keys() []string {
	keys := lo.Keys(e.values)
	slices.Sort(keys)
	return keys
}
