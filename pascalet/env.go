package pascalet

// Env is a lexically chained variable environment.
type Env struct {
	parent *Env
	values map[string]any
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]any)}
}

func (e *Env) Get(name string) (any, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}

func (e *Env) Define(name string, val any) {
	e.values[name] = val
}

// Assign updates the nearest binding of name, defining it locally when no
// enclosing scope has one.
func (e *Env) Assign(name string, val any) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.values[name]; ok {
			scope.values[name] = val
			return
		}
	}
	e.values[name] = val
}
