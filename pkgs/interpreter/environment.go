package interpreter

// Environment is a lexically scoped variable table. Lookup walks the
// enclosing chain; the root environment holds the globals.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

// NewEnvironment creates a scope nested inside enclosing; pass nil for the
// global scope.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]Value)}
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// Get resolves name through the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign overwrites the nearest existing binding of name. It reports false
// when no scope defines the name.
func (e *Environment) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return true
		}
	}
	return false
}

// Names returns every name visible from this scope, inner scopes first.
// Shadowed duplicates are kept; callers using this for suggestions don't
// care.
func (e *Environment) Names() []string {
	var names []string
	for env := e; env != nil; env = env.enclosing {
		for name := range env.values {
			names = append(names, name)
		}
	}
	return names
}
