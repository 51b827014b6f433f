package eval

// Environment is one lexical scope. Lookups walk outward.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment creates a root scope.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a scope nested in outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Get returns the value bound to name in this scope or an outer one.
func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.store[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return v, ok
}

// Define binds name in this scope.
func (e *Environment) Define(name string, v Value) {
	e.store[name] = v
}

// Assign rebinds name in the scope that defines it.
func (e *Environment) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = v
			return true
		}
	}
	return false
}
