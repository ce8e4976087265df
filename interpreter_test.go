package lispy

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestArithmetic(t *testing.T) {
	testEval(t, "(+ 1 2)", Number(3))
	testEval(t, "(+ 5 (* 2 3))", Number(11))
	testEval(t, "(- (+ 5 (* 2 3)) 3)", Number(8))
	testEval(t, "(/ (- (+ 5 (* 2 3)) 3) 4)", Number(2))
	testEval(t, "(/ (- (+ 515 (* 87 311)) 302) 27)", Number(1010))
	testEval(t, "(* -3 6)", Number(-18))
	testEval(t, "(/ 1 2)", Number(0.5))
	testEval(t, "(- 4)", Number(-4))
}

func TestNumbersAreFloats(t *testing.T) {
	actual, err := readEval("(+ 1 2)", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, isNum := actual.(Number); !isNum {
		t.Fatalf("expected Number, got %T", actual)
	}
	if float64(actual.(Number)) != 3.0 {
		t.Fatalf("expected 3.0, got %v", actual)
	}
}

func TestAtoms(t *testing.T) {
	testEval(t, "1.5", Number(1.5))
	testEval(t, "#t", Bool(true))
	testEval(t, "#f", Bool(false))
	testEval(t, `"abc"`, Str("abc"))
	testEval(t, "()", List{})
	testEval(t, "", nil)
}

func TestSelfQuoting(t *testing.T) {
	testEval(t, "(1 2 3)", List{Number(1), Number(2), Number(3)})
	testEval(t, "(#t x)", List{Bool(true), Intern("x")})
	testEval(t, `("a" (+ 1 2))`, List{Str("a"), List{Intern("+"), Number(1), Number(2)}})
}

func TestQuote(t *testing.T) {
	testEval(t, "'(+ 1 2)", List{Intern("+"), Number(1), Number(2)})
	testEval(t, "(quote (+ 1 2))", List{Intern("+"), Number(1), Number(2)})
	testEval(t, "'x", Intern("x"))
	testEval(t, "''x", List{Intern("quote"), Intern("x")})
}

func TestIf(t *testing.T) {
	testEval(t, "(if #t 1 2)", Number(1))
	testEval(t, "(if #f 1 2)", Number(2))
	testEval(t, `(if (= 1 1) "trueval" 2)`, Str("trueval"))
	testEval(t, `(if (= 1 2) "trueval" 2)`, Number(2))
	testEval(t, `(if "blah" 1 2)`, Number(1))
	testEval(t, `(if "" 1 2)`, Number(2))
	testEval(t, "(if 0 1 2)", Number(2))
	testEval(t, "(if '() 1 2)", Number(2))
}

func TestIfEvaluatesOneBranch(t *testing.T) {
	var out bytes.Buffer
	in := New(Options{Stdout: &out})
	_, err := in.Run(`(if #t (print "then") (print "else"))`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "then\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestDefine(t *testing.T) {
	testEval(t, "(define x 10)", nil)
	testEval(t, "(define x 10) x", Number(10))
	testEval(t, "(define x (+ 10 5)) (+ x 7)", Number(22))
}

func TestLet(t *testing.T) {
	testEval(t, "(let ((x 1) (y 2)) (+ x y))", Number(3))
	testEval(t, "(let ((x 1) (y (+ x 1))) y)", Number(2))
	testEval(t, "(let () 5)", Number(5))
	testEval(t, "(define x 1) (let ((x 2)) x)", Number(2))
	testEval(t, "(define x 1) (let ((x 2)) x) x", Number(1))
}

func TestLetIsSequential(t *testing.T) {
	_, err := readEval("(let ((y (+ x 1)) (x 1)) y)", nil)
	var unbound *UnboundNameError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected UnboundNameError, got %v", err)
	}
	if unbound.Name != Intern("x") {
		t.Errorf("unexpected name %v", unbound.Name)
	}
}

func TestDefineDoesNotLeak(t *testing.T) {
	in := New(Options{})
	env, err := in.MakeEnv(nil)
	if err != nil {
		t.Fatal(err)
	}

	val, err := in.Run("(let ((x 1)) (define y 2) x)", env)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(1)) {
		t.Errorf("unexpected value %v", Print(val))
	}

	_, err = env.Find(Intern("y"))
	var unbound *UnboundNameError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected UnboundNameError, got %v", err)
	}

	_, err = in.Run("((fn () (define z 3)))", env)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Find(Intern("z")); err == nil {
		t.Errorf("define inside a call leaked into the caller")
	}
}

func TestFn(t *testing.T) {
	testEval(t, "((fn (x) (+ 1 x)) 10)", Number(11))
	testEval(t, "((fn (x y) (+ y x)) 10 7)", Number(17))
	testEval(t, "((lambda (x) (* x x)) 4)", Number(16))
	testEval(t, "((fn x (* x 2)) 4)", Number(8))
	testEval(t, "((fn () 42))", Number(42))
	testEval(t, "(procedure? (fn (x) x))", Bool(true))
}

func TestDefn(t *testing.T) {
	testEval(t, `
		(defn add1 (x) (+ 1 x))
		(add1 5)`, Number(6))
	testEval(t, `
		(defn addxy (x y) (+ y x))
		(addxy 10 7)`, Number(17))
	testEval(t, "(defn f (x) x)", nil)
}

func TestClosures(t *testing.T) {
	testEval(t, "(define x 1) (define f (fn () x)) (define x 2) (f)", Number(2))
	testEval(t, `
		(defn adder (n) (fn (x) (+ x n)))
		(define add5 (adder 5))
		(add5 10)`, Number(15))
	testEval(t, `
		(define counter 0)
		(defn bump () (define counter (+ counter 1)))
		(bump)
		counter`, Number(0))
}

func TestArgumentsEvaluatedOnce(t *testing.T) {
	testEval(t, "((fn (x) x) '(+ 1 2))", List{Intern("+"), Number(1), Number(2)})
	testEval(t, "(defn id (x) x) (id 'y)", Intern("y"))
}

func TestFib(t *testing.T) {
	testEval(t, `
		(defn fib (n)
			(if (< n 2)
				n
				(+ (fib (- n 1)) (fib (- n 2)))))
		(fib 10)`, Number(55))
	testEval(t, `
		(defn fib (n)
			(begin
				(defn fib-iter (curr next n)
					(if (= n 0)
						curr
						(fib-iter next (+ curr next) (- n 1))))
				(fib-iter 0 1 n)))
		(fib 10)`, Number(55))
}

func TestBegin(t *testing.T) {
	testEval(t, "(begin)", nil)
	testEval(t, "(begin 1)", Number(1))
	testEval(t, "(begin (+ 1 2) (+ 3 4))", Number(7))
	testEval(t, "(begin (define x 3) (* x x))", Number(9))
}

func TestListForm(t *testing.T) {
	testEval(t, "(list 1 2 3)", List{Number(3)})
	testEval(t, "(list 1 (+ 1 1))", List{Number(2)})
	testEval(t, "(list)", List{})
	testEval(t, "[1 2 (+ 1 2)]", List{Number(3)})
	testEval(t, "(apply list '(1 2 3))", List{Number(1), Number(2), Number(3)})
	testEval(t, "(map list '(1 2))", List{List{Number(1)}, List{Number(2)}})
}

func TestListFormCollect(t *testing.T) {
	in := New(Options{CollectList: true})
	val, err := in.Run("[1 2 (+ 1 2)]", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, List{Number(1), Number(2), Number(3)}) {
		t.Errorf("unexpected value %s", Print(val))
	}

	val, err = in.Run("(car (list 1 2 3))", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(1)) {
		t.Errorf("unexpected value %s", Print(val))
	}
}

func TestSugar(t *testing.T) {
	testEval(t, "1 + 2", Number(3))
	testEval(t, "(* 2 3) + 1", Number(7))
	testEval(t, "let ((x 1) (y (+ x 1))) x + y", Number(3))
	testEval(t, "square x: x * x\n(square 4)", Number(16))
	testEval(t, "inc: fn x: x + 1\n((inc) 4)", Number(5))
	testEval(t, `
		sign x:
			if x < 0: -1
			elif x = 0: 0
			else: 1
		[(sign -5)]`, List{Number(-1)})
	testEval(t, "fact n: if n <= 1: 1 else: n * (fact (- n 1))\n(fact 5)", Number(120))
	testEval(t, "add x y: x + y\n(add 2 3)", Number(5))
}

func TestElifShortCircuit(t *testing.T) {
	var out bytes.Buffer
	in := New(Options{Stdout: &out})
	val, err := in.Run(`
		if (begin (print "first") #f): 1
		elif (begin (print "second") #t): 2
		elif (begin (print "third") #t): 3
		else: 4`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(2)) {
		t.Errorf("unexpected value %s", Print(val))
	}
	if out.String() != "first\nsecond\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestMakeEnv(t *testing.T) {
	in := New(Options{})

	env, err := in.MakeEnv(map[string]Value{"x": Number(1)}, map[any]Value{Intern("y"): Number(2)})
	if err != nil {
		t.Fatal(err)
	}
	val, err := in.Run("(+ x y)", env)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(3)) {
		t.Errorf("unexpected value %s", Print(val))
	}

	env, err = in.MakeEnv(map[string]Value{"x": Number(5)}, map[any]Value{Intern("x"): Number(2)})
	if err != nil {
		t.Fatal(err)
	}
	if val, _ := env.Find(Intern("x")); !Equals(val, Number(5)) {
		t.Errorf("named binding should win, got %s", Print(val))
	}

	var invalid *InvalidBindingsError
	_, err = in.MakeEnv(nil, map[any]Value{"x": Number(1)})
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidBindingsError for string key, got %v", err)
	}
	_, err = in.MakeEnv(nil, map[any]Value{}, map[any]Value{})
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidBindingsError for two mappings, got %v", err)
	}
}

func TestGlobalFrameIsNotModified(t *testing.T) {
	in := New(Options{})
	if _, err := in.Run("(define pi 3)", nil); err != nil {
		t.Fatal(err)
	}
	val, err := in.Run("pi", nil)
	if err != nil {
		t.Fatal(err)
	}
	if Equals(val, Number(3)) {
		t.Errorf("define leaked into the global frame")
	}
}

func TestMadeEnvsDoNotShareBindings(t *testing.T) {
	in := New(Options{})
	first, err := in.MakeEnv(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := in.Run("(define car 1) (define fresh 2)", first); err != nil {
		t.Fatal(err)
	}

	second, err := in.MakeEnv(nil)
	if err != nil {
		t.Fatal(err)
	}
	val, err := in.Run("(car '(5))", second)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(5)) {
		t.Errorf("unexpected value %s", Print(val))
	}
	if _, err := second.Find(Intern("fresh")); err == nil {
		t.Errorf("define in one env reached another")
	}
}

func TestRecursionDepth(t *testing.T) {
	in := New(Options{MaxDepth: 200})
	_, err := in.Run("(defn loop (n) (+ 1 (loop n))) (loop 1)", nil)
	var depth *RecursionDepthError
	if !errors.As(err, &depth) {
		t.Fatalf("expected RecursionDepthError, got %v", err)
	}
	if depth.Limit != 200 {
		t.Errorf("unexpected limit %d", depth.Limit)
	}

	val, err := in.Run("(defn down (n) (if (= n 0) 0 (down (- n 1)))) (down 10)", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(0)) {
		t.Errorf("unexpected value %s", Print(val))
	}
}

func TestApply(t *testing.T) {
	in := New(Options{})
	env, err := in.MakeEnv(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := in.Run("(defn twice (x) (* 2 x))", env); err != nil {
		t.Fatal(err)
	}
	proc, err := env.Find(Intern("twice"))
	if err != nil {
		t.Fatal(err)
	}
	val, err := in.Apply(proc, []Value{Number(21)})
	if err != nil {
		t.Fatal(err)
	}
	if !Equals(val, Number(42)) {
		t.Errorf("unexpected value %s", Print(val))
	}
}

func TestError(t *testing.T) {
	testEvalError(t, "(abc 1 2 3)", &UnboundNameError{})
	testEvalError(t, "undefined", &UnboundNameError{})
	testEvalError(t, "((fn (x y) (+ y x)) 10 7 8)", &ArityError{})
	testEvalError(t, "((fn (x y) (+ y x)) 10)", &ArityError{})
	testEvalError(t, "(define)", &MalformedFormError{})
	testEvalError(t, "(define x)", &MalformedFormError{})
	testEvalError(t, `(define "x" 1)`, &MalformedFormError{})
	testEvalError(t, "(if)", &MalformedFormError{})
	testEvalError(t, "(if #t)", &MalformedFormError{})
	testEvalError(t, "(if #t 1)", &MalformedFormError{})
	testEvalError(t, "(if #t 1 2 3)", &MalformedFormError{})
	testEvalError(t, "(quote)", &MalformedFormError{})
	testEvalError(t, "(quote 1 2)", &MalformedFormError{})
	testEvalError(t, "(let ((x)) x)", &MalformedFormError{})
	testEvalError(t, "(let x x)", &MalformedFormError{})
	testEvalError(t, "(let ((1 2)) 1)", &MalformedFormError{})
	testEvalError(t, "(fn (x))", &MalformedFormError{})
	testEvalError(t, "(defn f (x))", &MalformedFormError{})
	testEvalError(t, "(defn 1 (x) x)", &MalformedFormError{})
	testEvalError(t, "(define x 1) (x 2)", &NotCallableError{})
	testEvalError(t, "('(1 2))", &NotCallableError{})
	testEvalError(t, "(/ 1 0)", &ArgumentError{})
	testEvalError(t, `(+ 1 "a")`, &ArgumentError{})
}

func TestInvalidParameterListIsEager(t *testing.T) {
	testEvalError(t, "(fn (x 1) x)", &InvalidParameterListError{})
	testEvalError(t, "(lambda (x \"y\") x)", &InvalidParameterListError{})
	testEvalError(t, "(defn f (x (y)) x)", &InvalidParameterListError{})
	testEvalError(t, "(fn 1 x)", &InvalidParameterListError{})
	// never called
	testEvalError(t, "(define f (fn (1) 1)) 2", &InvalidParameterListError{})
}

func testEval(t *testing.T, input string, output Value) {
	t.Helper()
	actual, err := readEval(input, nil)
	if err != nil {
		t.Errorf("\nExpr: %s\nExpected: %v - %v\nActual: Error - %s\n",
			input,
			reflect.TypeOf(output), Print(output),
			err)
		return
	}
	if !Equals(actual, output) {
		t.Errorf("\nExpr: %s\nExpected: %v - %v\nActual: %v - %v\n",
			input,
			reflect.TypeOf(output), Print(output),
			reflect.TypeOf(actual), Print(actual))
	}
}

// testEvalError checks that evaluating input fails with an error of the same
// type as target.
func testEvalError(t *testing.T, input string, target error) {
	t.Helper()
	actual, err := readEval(input, nil)
	if err == nil {
		t.Errorf("\nExpr: %s\nExpected: Error\nActual: %v %v\n", input, reflect.TypeOf(actual), Print(actual))
		return
	}
	if reflect.TypeOf(err) != reflect.TypeOf(target) {
		t.Errorf("\nExpr: %s\nExpected: %v\nActual: %v - %s\n", input, reflect.TypeOf(target), reflect.TypeOf(err), err)
	}
}

func readEval(input string, env *Env) (Value, error) {
	return New(Options{}).Run(input, env)
}
