package checker

// Environment represents a lexical scope during checking. Each name maps
// to the line of its binder.
type Environment struct {
	parent  *Environment
	symbols map[string]int
}

// NewEnvironment creates a new environment with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:  parent,
		symbols: make(map[string]int),
	}
}

// Define binds a name in the current scope.
func (e *Environment) Define(name string, line int) {
	e.symbols[name] = line
}

// Lookup searches for a name in the current scope chain.
func (e *Environment) Lookup(name string) (int, bool) {
	if line, ok := e.symbols[name]; ok {
		return line, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return 0, false
}

// Extend returns a child environment.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
