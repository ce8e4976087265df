package lispy

// Value is a datum produced or consumed by the interpreter: Number, Bool, Str,
// Symbol, List, *Closure or *Builtin. A nil Value means "no value" and is what
// define, defn and print return.
type Value interface {
	isValue()
}

type Number float64

type Bool bool

type Str string

// List is both a compound form and list data.
type List []Value

// Closure is a user procedure. Env is the frame that was current when the
// closure was built; it is shared, not copied.
type Closure struct {
	Name   Symbol
	Params []Symbol
	Body   Value
	Env    *Env
}

// Builtin is a primitive procedure from the builtin table.
type Builtin struct {
	Name string
	fn   hostPrimitive
}

func (Number) isValue()   {}
func (Bool) isValue()     {}
func (Str) isValue()      {}
func (Symbol) isValue()   {}
func (List) isValue()     {}
func (*Closure) isValue() {}
func (*Builtin) isValue() {}

// isLiteral reports whether v is a self-evaluating atom.
func isLiteral(v Value) bool {
	switch v.(type) {
	case Number, Bool, Str:
		return true
	}
	return false
}

func isProcedure(v Value) bool {
	switch v.(type) {
	case *Closure, *Builtin:
		return true
	}
	return false
}

// isTruthy follows the usual scripting-language rule: false, nil, zero, the
// empty string and the empty list are false.
func isTruthy(val Value) bool {
	switch t := val.(type) {
	case nil:
		return false
	case Bool:
		return bool(t)
	case Number:
		return t != 0
	case Str:
		return t != ""
	case List:
		return len(t) != 0
	}
	return true
}
