package lispy

import "fmt"

// Pos is a location in parser input. Line and Column are 1-based, Column
// counts runes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError is returned by Parse for input that does not match the grammar.
// Incomplete is set when the input ended inside an open form, so that more
// input could still make it valid.
type SyntaxError struct {
	Pos        Pos
	Lexeme     string
	Msg        string
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e.Lexeme == "" {
		return fmt.Sprintf("syntax error at %v: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("syntax error at %v: %s: %q", e.Pos, e.Msg, e.Lexeme)
}

type UnboundNameError struct {
	Name Symbol
}

func (e *UnboundNameError) Error() string {
	return fmt.Sprintf("unbound name: %v", e.Name)
}

// MalformedFormError reports a special form with the wrong shape.
type MalformedFormError struct {
	Form Symbol
	Msg  string
}

func (e *MalformedFormError) Error() string {
	return fmt.Sprintf("malformed %v: %s", e.Form, e.Msg)
}

type NotCallableError struct {
	Value Value
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("not a procedure: %s", Print(e.Value))
}

// InvalidParameterListError is raised when a closure is built, never when it
// is called.
type InvalidParameterListError struct {
	Form  Symbol
	Param Value
}

func (e *InvalidParameterListError) Error() string {
	return fmt.Sprintf("invalid parameter list in %v: %s is not a symbol", e.Form, Print(e.Param))
}

type ArityError struct {
	Proc string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("wrong number of args (%d) passed to %s, want %d", e.Got, e.Proc, e.Want)
}

type RecursionDepthError struct {
	Limit int
}

func (e *RecursionDepthError) Error() string {
	return fmt.Sprintf("recursion depth exceeded (limit %d)", e.Limit)
}

// ArgumentError reports a builtin called with operands it cannot handle.
type ArgumentError struct {
	Proc string
	Msg  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Proc, e.Msg)
}

type InvalidBindingsError struct {
	Msg string
}

func (e *InvalidBindingsError) Error() string {
	return "invalid bindings: " + e.Msg
}
