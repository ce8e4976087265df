package lispy

import "fmt"

// special forms take unevaluated arguments and the env
type specialForm func(m *machine, args []Value, env *Env) (Value, error)

var specialForms map[Symbol]specialForm

func init() {
	specialForms = map[Symbol]specialForm{
		symIf:     ifForm,
		symDefine: define,
		symQuote:  quote,
		symLet:    let,
		symLambda: lambda(symLambda),
		symFn:     lambda(symFn),
		symDefn:   defn,
		symList:   listForm,
		symBegin:  begin,
	}
}

func malformed(form Symbol, format string, args ...any) error {
	return &MalformedFormError{Form: form, Msg: fmt.Sprintf(format, args...)}
}

func arity(form Symbol, args []Value, want int) error {
	if len(args) != want {
		return malformed(form, "wrong number of args (%d), want %d", len(args), want)
	}
	return nil
}

func atLeast(form Symbol, args []Value, want int) error {
	if len(args) < want {
		return malformed(form, "too few args (%d), want at least %d", len(args), want)
	}
	return nil
}

// body turns one or more body forms into a single expression
func body(forms []Value) Value {
	if len(forms) == 1 {
		return forms[0]
	}
	return append(List{symBegin}, forms...)
}

// (if test then else): exactly one branch is evaluated
func ifForm(m *machine, args []Value, env *Env) (Value, error) {
	if err := arity(symIf, args, 3); err != nil {
		return nil, err
	}

	cond, err := m.eval(args[0], env)
	if err != nil {
		return nil, err
	}

	if isTruthy(cond) {
		return m.eval(args[1], env)
	}
	return m.eval(args[2], env)
}

// (define name expr) binds in the current frame only
func define(m *machine, args []Value, env *Env) (Value, error) {
	if err := arity(symDefine, args, 2); err != nil {
		return nil, err
	}

	sym, isSym := args[0].(Symbol)
	if !isSym {
		return nil, malformed(symDefine, "first argument must be a Symbol, got %s", Print(args[0]))
	}

	evaled, err := m.eval(args[1], env)
	if err != nil {
		return nil, err
	}

	env.Define(sym, evaled)
	return nil, nil
}

func quote(m *machine, args []Value, env *Env) (Value, error) {
	if err := arity(symQuote, args, 1); err != nil {
		return nil, err
	}
	return args[0], nil
}

// (let ((name expr) ...) body...) evaluates the bindings in order inside one
// new frame, so each initializer sees the bindings before it.
func let(m *machine, args []Value, env *Env) (Value, error) {
	if err := atLeast(symLet, args, 2); err != nil {
		return nil, err
	}

	bindings, isList := args[0].(List)
	if !isList {
		return nil, malformed(symLet, "bindings must be a list, got %s", Print(args[0]))
	}

	child := env.ChildEnv(nil)
	for _, b := range bindings {
		pair, isPair := b.(List)
		if !isPair || len(pair) != 2 {
			return nil, malformed(symLet, "binding must be a (name expr) pair, got %s", Print(b))
		}
		sym, isSym := pair[0].(Symbol)
		if !isSym {
			return nil, malformed(symLet, "binding name must be a Symbol, got %s", Print(pair[0]))
		}

		evaled, err := m.eval(pair[1], child)
		if err != nil {
			return nil, err
		}
		child.Define(sym, evaled)
	}

	return m.eval(body(args[1:]), child)
}

func lambda(form Symbol) specialForm {
	return func(m *machine, args []Value, env *Env) (Value, error) {
		if err := atLeast(form, args, 2); err != nil {
			return nil, err
		}
		return makeClosure(form, Symbol{}, args[0], body(args[1:]), env)
	}
}

// (defn name params body...) binds the closure in the frame it closes over, so the
// body can call itself.
func defn(m *machine, args []Value, env *Env) (Value, error) {
	if err := atLeast(symDefn, args, 3); err != nil {
		return nil, err
	}

	name, isSym := args[0].(Symbol)
	if !isSym {
		return nil, malformed(symDefn, "name must be a Symbol, got %s", Print(args[0]))
	}

	proc, err := makeClosure(symDefn, name, args[1], body(args[2:]), env)
	if err != nil {
		return nil, err
	}

	env.Define(name, proc)
	return nil, nil
}

// makeClosure validates params eagerly; a single Symbol stands for a one
// element parameter list.
func makeClosure(form, name Symbol, params, expr Value, env *Env) (*Closure, error) {
	var list List
	switch t := params.(type) {
	case Symbol:
		list = List{t}
	case List:
		list = t
	default:
		return nil, &InvalidParameterListError{Form: form, Param: params}
	}

	symbols := make([]Symbol, len(list))
	for i, v := range list {
		sym, isSym := v.(Symbol)
		if !isSym {
			return nil, &InvalidParameterListError{Form: form, Param: v}
		}
		symbols[i] = sym
	}

	return &Closure{
		Name:   name,
		Params: symbols,
		Body:   expr,
		Env:    env,
	}, nil
}

// (list e1 e2 ...) evaluates every element in order. Unless CollectList is
// set, the result only wraps the last value: (list 1 2 3) => (3).
func listForm(m *machine, args []Value, env *Env) (Value, error) {
	evaled, err := m.evalSlice(args, env)
	if err != nil {
		return nil, err
	}

	if m.in.opts.CollectList || len(evaled) == 0 {
		return List(evaled), nil
	}
	return List{evaled[len(evaled)-1]}, nil
}

// (begin e1 e2 ...) evaluates in order and returns the last value
func begin(m *machine, args []Value, env *Env) (Value, error) {
	var ret Value
	for _, arg := range args {
		var err error
		ret, err = m.eval(arg, env)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}
