package lispy

// Env is one frame of the lexical environment. Frames only point at their
// parent; a parent never knows about its children.
type Env struct {
	symbols map[Symbol]Value
	parent  *Env
}

// NewEnv creates a frame holding a copy of s whose parent is parent (nil for
// an outermost frame).
func NewEnv(parent *Env, s map[Symbol]Value) *Env {
	symbols := make(map[Symbol]Value, len(s))
	for k, v := range s {
		symbols[k] = v
	}
	return &Env{symbols, parent}
}

// ChildEnv creates a new frame below env. Procedure calls and let use it;
// define never does.
func (env *Env) ChildEnv(s map[Symbol]Value) *Env {
	return NewEnv(env, s)
}

// Find looks sym up from the innermost frame outward.
func (env *Env) Find(sym Symbol) (Value, error) {
	for e := env; e != nil; e = e.parent {
		if val, ok := e.symbols[sym]; ok {
			return val, nil
		}
	}
	return nil, &UnboundNameError{Name: sym}
}

// Define binds sym in this frame, shadowing any binding in an ancestor.
func (env *Env) Define(sym Symbol, val Value) {
	env.symbols[sym] = val
}
