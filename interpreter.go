package lispy

import (
	"io"
	"os"
)

// DefaultMaxDepth bounds nested evaluations when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

type Options struct {
	// MaxDepth is the deepest evaluation nesting allowed before Eval fails
	// with a *RecursionDepthError.
	MaxDepth int

	// Stdout receives the output of print. Defaults to os.Stdout.
	Stdout io.Writer

	// CollectList makes the list form return every evaluated element instead
	// of a one-element list holding the last one.
	CollectList bool
}

// Interpreter owns the parser and the global frame. Both are built once by New
// and never modified afterwards, so an Interpreter may be shared; callers must
// not evaluate concurrently against the same writable *Env.
type Interpreter struct {
	parser *Parser
	global *Env
	opts   Options
}

func New(opts Options) *Interpreter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Interpreter{
		parser: NewParser(),
		global: NewEnv(nil, builtins()),
		opts:   opts,
	}
}

func (in *Interpreter) Parse(src string) (List, error) {
	return in.parser.Parse(src)
}

// Eval evaluates val in env. A nil env means a fresh child of the global frame.
func (in *Interpreter) Eval(val Value, env *Env) (Value, error) {
	if env == nil {
		env = in.global.ChildEnv(nil)
	}
	m := &machine{in: in}
	return m.eval(val, env)
}

// Run parses src and evaluates the resulting begin form in env.
func (in *Interpreter) Run(src string, env *Env) (Value, error) {
	forms, err := in.Parse(src)
	if err != nil {
		return nil, err
	}
	return in.Eval(forms, env)
}

// Apply calls a procedure value with already evaluated arguments.
func (in *Interpreter) Apply(proc Value, args []Value) (Value, error) {
	m := &machine{in: in}
	return m.apply(proc, args)
}

// MakeEnv returns a new child of the global frame. named binds each name to
// its value; at most one positional mapping may be passed and all of its keys
// must be Symbols. Named bindings win over positional ones.
func (in *Interpreter) MakeEnv(named map[string]Value, positional ...map[any]Value) (*Env, error) {
	if len(positional) > 1 {
		return nil, &InvalidBindingsError{Msg: "accepts zero or one positional mappings"}
	}

	symbols := make(map[Symbol]Value)
	if len(positional) == 1 {
		for k, v := range positional[0] {
			sym, isSym := k.(Symbol)
			if !isSym {
				return nil, &InvalidBindingsError{Msg: "keys in an environment must be Symbols"}
			}
			symbols[sym] = v
		}
	}
	for name, v := range named {
		symbols[Intern(name)] = v
	}
	return in.global.ChildEnv(symbols), nil
}

// machine is the state of one Eval call.
type machine struct {
	in    *Interpreter
	depth int
}

func (m *machine) eval(val Value, env *Env) (Value, error) {
	m.depth++
	defer func() { m.depth-- }()
	if m.depth > m.in.opts.MaxDepth {
		return nil, &RecursionDepthError{Limit: m.in.opts.MaxDepth}
	}

	switch t := val.(type) {
	case Symbol:
		return env.Find(t)
	case List:
		if len(t) == 0 {
			return t, nil
		}

		// self-representing data such as (1 2 3)
		if isLiteral(t[0]) {
			return t, nil
		}

		if head, isSym := t[0].(Symbol); isSym {
			if form, isForm := specialForms[head]; isForm {
				return form(m, t[1:], env)
			}
		}

		args, err := m.evalSlice(t[1:], env)
		if err != nil {
			return nil, err
		}

		front, err := m.eval(t[0], env)
		if err != nil {
			return nil, err
		}

		return m.apply(front, args)
	default:
		return t, nil
	}
}

// eval all elements in a slice, left to right
func (m *machine) evalSlice(val []Value, env *Env) ([]Value, error) {
	arr := make([]Value, len(val))
	for i, v := range val {
		res, err := m.eval(v, env)
		if err != nil {
			return nil, err
		}
		arr[i] = res
	}
	return arr, nil
}

func (m *machine) apply(front Value, args []Value) (Value, error) {
	switch proc := front.(type) {
	case *Builtin:
		return proc.fn(m, args)
	case *Closure:
		if len(args) != len(proc.Params) {
			return nil, &ArityError{Proc: procName(proc), Want: len(proc.Params), Got: len(args)}
		}

		bindings := make(map[Symbol]Value, len(args))
		for i, arg := range args {
			bindings[proc.Params[i]] = arg
		}

		return m.eval(proc.Body, proc.Env.ChildEnv(bindings))
	default:
		return nil, &NotCallableError{Value: front}
	}
}

func procName(c *Closure) string {
	if c.Name == (Symbol{}) {
		return "anonymous procedure"
	}
	return c.Name.Name()
}
