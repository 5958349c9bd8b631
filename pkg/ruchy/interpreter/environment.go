package interpreter

// binding pairs a value with its mutability
type binding struct {
	value   Object
	mutable bool
}

// Environment is a lexical scope chain
type Environment struct {
	store map[string]binding
	outer *Environment
}

// NewEnvironment creates a top-level scope
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]binding)}
}

// NewEnclosedEnvironment creates a child scope
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]binding), outer: outer}
}

// Get resolves a name through the scope chain
func (e *Environment) Get(name string) (Object, bool) {
	if b, ok := e.store[name]; ok {
		return b.value, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define introduces a new binding in this scope, shadowing any outer one
func (e *Environment) Define(name string, value Object, mutable bool) {
	e.store[name] = binding{value: value, mutable: mutable}
}

// Assign updates an existing binding. It reports whether the name was
// found and, if found, whether it is mutable.
func (e *Environment) Assign(name string, value Object) (found, mutable bool) {
	if b, ok := e.store[name]; ok {
		if !b.mutable {
			return true, false
		}
		e.store[name] = binding{value: value, mutable: true}
		return true, true
	}
	if e.outer != nil {
		return e.outer.Assign(name, value)
	}
	return false, false
}

// IsMutable reports whether a name resolves to a mutable binding
func (e *Environment) IsMutable(name string) bool {
	if b, ok := e.store[name]; ok {
		return b.mutable
	}
	if e.outer != nil {
		return e.outer.IsMutable(name)
	}
	return false
}

// Names returns the names bound in this scope only
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	return names
}

// AllNames returns every name visible from this scope
func (e *Environment) AllNames() []string {
	seen := map[string]bool{}
	var names []string
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Snapshot copies this scope's own bindings, for transactional eval
func (e *Environment) Snapshot() map[string]binding {
	copied := make(map[string]binding, len(e.store))
	for name, b := range e.store {
		copied[name] = b
	}
	return copied
}

// Restore replaces this scope's bindings with a snapshot
func (e *Environment) Restore(snapshot map[string]binding) {
	e.store = snapshot
}
