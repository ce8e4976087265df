package lispy

import (
	"fmt"
	"math"
	"strings"
)

// primitives take pre-evaluated arguments
type primitive func(args []Value) (Value, error)

// host primitives can call back into the running evaluation
type hostPrimitive func(m *machine, args []Value) (Value, error)

func builtins() map[Symbol]Value {
	table := map[string]hostPrimitive{
		"+":          pure(add),
		"-":          pure(sub),
		"*":          pure(mul),
		"/":          pure(div),
		"=":          pure(eq),
		"<":          pure(lt),
		"<=":         pure(lte),
		">":          pure(gt),
		">=":         pure(gte),
		"abs":        math1("abs", math.Abs),
		"append":     pure(appendPrim),
		"apply":      applyPrim,
		"begin":      pure(beginPrim),
		"car":        pure(car),
		"cdr":        pure(cdr),
		"cons":       pure(cons),
		"eq?":        pure(isEq),
		"equal?":     pure(isEqual),
		"expt":       math2("expt", math.Pow),
		"even?":      pure(even),
		"odd?":       pure(odd),
		"length":     pure(length),
		"list":       pure(list),
		"list?":      predicate("list?", func(v Value) bool { _, ok := v.(List); return ok }),
		"map":        mapPrim,
		"max":        pure(maxPrim),
		"min":        pure(minPrim),
		"not":        predicate("not", func(v Value) bool { return !isTruthy(v) }),
		"null?":      predicate("null?", func(v Value) bool { l, ok := v.(List); return ok && len(l) == 0 }),
		"number?":    predicate("number?", func(v Value) bool { _, ok := v.(Number); return ok }),
		"print":      printPrim,
		"procedure?": predicate("procedure?", isProcedure),
		"quotient":   pure(quotient),
		"round":      pure(round),
		"symbol?":    predicate("symbol?", func(v Value) bool { _, ok := v.(Symbol); return ok }),

		"sin":     math1("sin", math.Sin),
		"cos":     math1("cos", math.Cos),
		"tan":     math1("tan", math.Tan),
		"asin":    math1("asin", math.Asin),
		"acos":    math1("acos", math.Acos),
		"atan":    math1("atan", math.Atan),
		"atan2":   math2("atan2", math.Atan2),
		"sinh":    math1("sinh", math.Sinh),
		"cosh":    math1("cosh", math.Cosh),
		"tanh":    math1("tanh", math.Tanh),
		"sqrt":    math1("sqrt", math.Sqrt),
		"exp":     math1("exp", math.Exp),
		"log":     pure(logPrim),
		"log10":   math1("log10", math.Log10),
		"log2":    math1("log2", math.Log2),
		"floor":   math1("floor", math.Floor),
		"ceil":    math1("ceil", math.Ceil),
		"trunc":   math1("trunc", math.Trunc),
		"fabs":    math1("fabs", math.Abs),
		"hypot":   math2("hypot", math.Hypot),
		"pow":     math2("pow", math.Pow),
		"degrees": math1("degrees", func(x float64) float64 { return x * 180 / math.Pi }),
		"radians": math1("radians", func(x float64) float64 { return x * math.Pi / 180 }),
		"isnan":   predicate("isnan", func(v Value) bool { n, ok := v.(Number); return ok && math.IsNaN(float64(n)) }),
		"isinf":   predicate("isinf", func(v Value) bool { n, ok := v.(Number); return ok && math.IsInf(float64(n), 0) }),

		"isfinite":  predicate("isfinite", isFinite),
		"asinh":     math1("asinh", math.Asinh),
		"acosh":     math1("acosh", math.Acosh),
		"atanh":     math1("atanh", math.Atanh),
		"log1p":     math1("log1p", math.Log1p),
		"expm1":     math1("expm1", math.Expm1),
		"erf":       math1("erf", math.Erf),
		"erfc":      math1("erfc", math.Erfc),
		"gamma":     math1("gamma", math.Gamma),
		"lgamma":    math1("lgamma", func(x float64) float64 { l, _ := math.Lgamma(x); return l }),
		"fmod":      math2("fmod", math.Mod),
		"copysign":  math2("copysign", math.Copysign),
		"factorial": pure(factorial),
		"gcd":       pure(gcd),
	}

	env := make(map[Symbol]Value, len(table)+5)
	for name, fn := range table {
		env[Intern(name)] = &Builtin{Name: name, fn: fn}
	}
	env[Intern("pi")] = Number(math.Pi)
	env[Intern("e")] = Number(math.E)
	env[Intern("tau")] = Number(2 * math.Pi)
	env[Intern("inf")] = Number(math.Inf(1))
	env[Intern("nan")] = Number(math.NaN())
	return env
}

func pure(p primitive) hostPrimitive {
	return func(m *machine, args []Value) (Value, error) {
		return p(args)
	}
}

func wrongArgs(name string, args []Value) error {
	return &ArgumentError{Proc: name, Msg: fmt.Sprintf("wrong number of args (%d)", len(args))}
}

func number(name string, v Value) (float64, error) {
	n, isNum := v.(Number)
	if !isNum {
		return 0, &ArgumentError{Proc: name, Msg: fmt.Sprintf("invalid operand: %s", Print(v))}
	}
	return float64(n), nil
}

func listArg(name string, v Value) (List, error) {
	l, isList := v.(List)
	if !isList {
		return nil, &ArgumentError{Proc: name, Msg: fmt.Sprintf("expected a list, got %s", Print(v))}
	}
	return l, nil
}

func math1(name string, f func(float64) float64) hostPrimitive {
	return pure(func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, wrongArgs(name, args)
		}
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		return Number(f(x)), nil
	})
}

func math2(name string, f func(float64, float64) float64) hostPrimitive {
	return pure(func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, wrongArgs(name, args)
		}
		x, err := number(name, args[0])
		if err != nil {
			return nil, err
		}
		y, err := number(name, args[1])
		if err != nil {
			return nil, err
		}
		return Number(f(x, y)), nil
	})
}

func predicate(name string, f func(Value) bool) hostPrimitive {
	return pure(func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, wrongArgs(name, args)
		}
		return Bool(f(args[0])), nil
	})
}

// Arithmetic

func add(args []Value) (Value, error) {
	return agg("+", args, func(r, x float64) (float64, error) {
		return r + x, nil
	})
}

func sub(args []Value) (Value, error) {
	if len(args) == 1 {
		x, err := number("-", args[0])
		if err != nil {
			return nil, err
		}
		return Number(-x), nil
	}
	return agg("-", args, func(r, x float64) (float64, error) {
		return r - x, nil
	})
}

func mul(args []Value) (Value, error) {
	return agg("*", args, func(r, x float64) (float64, error) {
		return r * x, nil
	})
}

func div(args []Value) (Value, error) {
	return agg("/", args, func(r, x float64) (float64, error) {
		if x == 0 {
			return 0, &ArgumentError{Proc: "/", Msg: "division by zero"}
		}
		return r / x, nil
	})
}

func agg(name string, args []Value, accum func(float64, float64) (float64, error)) (Value, error) {
	if len(args) < 1 {
		return nil, wrongArgs(name, args)
	}

	ret, err := number(name, args[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		x, err := number(name, args[i])
		if err != nil {
			return nil, err
		}
		if ret, err = accum(ret, x); err != nil {
			return nil, err
		}
	}
	return Number(ret), nil
}

func quotient(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("quotient", args)
	}
	x, err := number("quotient", args[0])
	if err != nil {
		return nil, err
	}
	y, err := number("quotient", args[1])
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, &ArgumentError{Proc: "quotient", Msg: "division by zero"}
	}
	return Number(math.Floor(x / y)), nil
}

// round rounds half to even, optionally to a number of decimal digits.
func round(args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, wrongArgs("round", args)
	}
	x, err := number("round", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return Number(math.RoundToEven(x)), nil
	}
	digits, err := number("round", args[1])
	if err != nil {
		return nil, err
	}
	scale := math.Pow(10, math.Trunc(digits))
	return Number(math.RoundToEven(x*scale) / scale), nil
}

func isFinite(v Value) bool {
	n, ok := v.(Number)
	return ok && !math.IsInf(float64(n), 0) && !math.IsNaN(float64(n))
}

// log takes an optional base
func logPrim(args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, wrongArgs("log", args)
	}
	x, err := number("log", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return Number(math.Log(x)), nil
	}
	base, err := number("log", args[1])
	if err != nil {
		return nil, err
	}
	switch base {
	case 2:
		return Number(math.Log2(x)), nil
	case 10:
		return Number(math.Log10(x)), nil
	}
	return Number(math.Log(x) / math.Log(base)), nil
}

func integer(name string, v Value) (float64, error) {
	x, err := number(name, v)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) || math.IsInf(x, 0) {
		return 0, &ArgumentError{Proc: name, Msg: fmt.Sprintf("expected an integer, got %s", Print(v))}
	}
	return x, nil
}

func factorial(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("factorial", args)
	}
	n, err := integer("factorial", args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &ArgumentError{Proc: "factorial", Msg: "not defined for negative values"}
	}
	ret := 1.0
	for i := 2.0; i <= n && !math.IsInf(ret, 1); i++ {
		ret *= i
	}
	return Number(ret), nil
}

// gcd of any number of integers; (gcd) is 0
func gcd(args []Value) (Value, error) {
	ret := 0.0
	for _, arg := range args {
		x, err := integer("gcd", arg)
		if err != nil {
			return nil, err
		}
		a, b := math.Abs(ret), math.Abs(x)
		for b != 0 {
			a, b = b, math.Mod(a, b)
		}
		ret = a
	}
	return Number(ret), nil
}

// floored modulo, so that (odd? -3) holds
func mod2(x float64) float64 {
	return x - 2*math.Floor(x/2)
}

func even(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("even?", args)
	}
	x, err := number("even?", args[0])
	if err != nil {
		return nil, err
	}
	return Bool(mod2(x) == 0), nil
}

func odd(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("odd?", args)
	}
	x, err := number("odd?", args[0])
	if err != nil {
		return nil, err
	}
	return Bool(mod2(x) == 1), nil
}

func extremum(name string, args []Value, better func(x, best float64) bool) (Value, error) {
	if len(args) == 1 {
		if l, isList := args[0].(List); isList {
			args = l
		}
	}
	if len(args) < 1 {
		return nil, wrongArgs(name, args)
	}

	best, err := number(name, args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		x, err := number(name, arg)
		if err != nil {
			return nil, err
		}
		if better(x, best) {
			best = x
		}
	}
	return Number(best), nil
}

func maxPrim(args []Value) (Value, error) {
	return extremum("max", args, func(x, best float64) bool { return x > best })
}

func minPrim(args []Value) (Value, error) {
	return extremum("min", args, func(x, best float64) bool { return x < best })
}

// Comparison

func lt(args []Value) (Value, error) {
	return order("<", args, func(r, x float64) bool { return r < x })
}

func lte(args []Value) (Value, error) {
	return order("<=", args, func(r, x float64) bool { return r <= x })
}

func gt(args []Value) (Value, error) {
	return order(">", args, func(r, x float64) bool { return r > x })
}

func gte(args []Value) (Value, error) {
	return order(">=", args, func(r, x float64) bool { return r >= x })
}

func order(name string, args []Value, ordered func(float64, float64) bool) (Value, error) {
	if len(args) < 1 {
		return nil, wrongArgs(name, args)
	}

	prev, err := number(name, args[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		x, err := number(name, args[i])
		if err != nil {
			return nil, err
		}
		if !ordered(prev, x) {
			return Bool(false), nil
		}
		prev = x
	}
	return Bool(true), nil
}

func eq(args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, wrongArgs("=", args)
	}

	compare := args[0]
	for i := 1; i < len(args); i++ {
		if !Equals(compare, args[i]) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func isEqual(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("equal?", args)
	}
	return Bool(Equals(args[0], args[1])), nil
}

func isEq(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("eq?", args)
	}
	return Bool(Identical(args[0], args[1])), nil
}

// Lists

func list(args []Value) (Value, error) {
	return append(List{}, args...), nil
}

func car(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("car", args)
	}
	l, err := listArg("car", args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return nil, &ArgumentError{Proc: "car", Msg: "empty list"}
	}
	return l[0], nil
}

func cdr(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("cdr", args)
	}
	l, err := listArg("cdr", args[0])
	if err != nil {
		return nil, err
	}
	if len(l) == 0 {
		return List{}, nil
	}
	return append(List{}, l[1:]...), nil
}

func cons(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("cons", args)
	}
	l, err := listArg("cons", args[1])
	if err != nil {
		return nil, err
	}
	return append(List{args[0]}, l...), nil
}

// append concatenates lists, or strings
func appendPrim(args []Value) (Value, error) {
	if len(args) > 0 {
		if _, isStr := args[0].(Str); isStr {
			var sb strings.Builder
			for _, arg := range args {
				s, isStr := arg.(Str)
				if !isStr {
					return nil, &ArgumentError{Proc: "append", Msg: fmt.Sprintf("expected a string, got %s", Print(arg))}
				}
				sb.WriteString(string(s))
			}
			return Str(sb.String()), nil
		}
	}

	ret := List{}
	for _, arg := range args {
		l, err := listArg("append", arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, l...)
	}
	return ret, nil
}

func length(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("length", args)
	}
	switch t := args[0].(type) {
	case List:
		return Number(len(t)), nil
	case Str:
		return Number(len([]rune(string(t)))), nil
	}
	return nil, &ArgumentError{Proc: "length", Msg: fmt.Sprintf("expected a list or string, got %s", Print(args[0]))}
}

func beginPrim(args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, wrongArgs("begin", args)
	}
	return args[len(args)-1], nil
}

// Procedures

func applyPrim(m *machine, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("apply", args)
	}
	l, err := listArg("apply", args[1])
	if err != nil {
		return nil, err
	}
	return m.apply(args[0], l)
}

func mapPrim(m *machine, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("map", args)
	}
	l, err := listArg("map", args[1])
	if err != nil {
		return nil, err
	}

	ret := make(List, len(l))
	for i, v := range l {
		res, err := m.apply(args[0], []Value{v})
		if err != nil {
			return nil, err
		}
		ret[i] = res
	}
	return ret, nil
}

// print writes its arguments separated by spaces, strings without quotes
func printPrim(m *machine, args []Value) (Value, error) {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = Display(arg)
	}
	if _, err := fmt.Fprintln(m.in.opts.Stdout, strings.Join(strs, " ")); err != nil {
		return nil, err
	}
	return nil, nil
}
