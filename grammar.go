package lispy

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hucsmn/peg"
)

// The surface grammar. Plain s-expressions are terms; the sugared forms
// (let, if/elif/else, fn, named functions and infix operators) are only
// recognised at form level, that is at the top level and as sugar bodies.
// Inside ( ) and [ ] every element is a plain term.
//
//	program  <- ws (form ws)* rest
//	form     <- let / if / fn / defn / expr
//	expr     <- infix / fterm
//	infix    <- fterm hws1 op hws1 fterm                 => (op a b)
//	let      <- "let" ws list ws form                     => (let list form)
//	if       <- "if" ws1 expr ws ":" ws form
//	            (ws "elif" ws1 expr ws ":" ws form)*
//	            ws "else" ws ":" ws form                  => (if c t (if c t e))
//	fn       <- "fn" (hws1 name)* hws ":" ws form         => (fn (p ...) form)
//	defn     <- name (hws1 name)* hws ":" ws form         => (defn name (p ...) form)
//	term     <- quote / list / brackets / string / bool / number / symbol
//	quote    <- "'" term                                  => (quote term)
//	list     <- "(" ws (term ws)* ")"
//	brackets <- "[" ws (term ws)* "]"                     => (list term ...)
var (
	grammarSpaces  = peg.S(" \t\r\n\f\v")
	grammarComment = peg.Seq(
		peg.T(";"),
		peg.Q0(peg.R(0, '\t', '\v', unicode.MaxRune)))
	grammarWs   = peg.Q0(peg.Alt(peg.Q1(grammarSpaces), grammarComment))
	grammarWs1  = peg.Q1(peg.Alt(grammarSpaces, grammarComment))
	grammarHws  = peg.Q0(peg.S(" \t"))
	grammarHws1 = peg.Q1(peg.S(" \t"))

	grammarTokenChar = peg.Alt(
		peg.R('a', 'z', 'A', 'Z', '0', '9'),
		peg.S(tokenPunct))
	grammarToken = peg.Q1(grammarTokenChar)

	// any rune but '"' and '\'
	grammarStringChar = peg.R(0, '!', '#', '[', ']', unicode.MaxRune)
	grammarString     = peg.Seq(
		peg.T(`"`),
		peg.Q0(peg.Alt(
			peg.Seq(peg.T(`\`), peg.S(`ntfr"\`)),
			grammarStringChar)),
		peg.T(`"`))

	grammarAny = peg.R(0, unicode.MaxRune)
)

// Keywords of the sugared forms. They are ordinary symbols inside lists.
var sugarKeywords = map[string]bool{
	"if":   true,
	"elif": true,
	"else": true,
	"fn":   true,
	"let":  true,
}

// Infix operators. Each one names a builtin.
var infixOperators = map[string]bool{
	"+":  true,
	"-":  true,
	"*":  true,
	"/":  true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,
	"=":  true,
}

func newGrammar() peg.Pattern {
	rules := map[string]peg.Pattern{
		"form": peg.Alt(
			peg.V("let"),
			peg.V("if"),
			peg.V("fn"),
			peg.V("defn"),
			peg.V("expr")),
		"expr": peg.Alt(
			peg.V("infix"),
			peg.V("fterm")),
		"infix": peg.CC(infixCons,
			peg.Seq(
				peg.V("fterm"), grammarHws1,
				peg.CT(symbolCons, peg.Check(isOperator, grammarToken)),
				grammarHws1, peg.V("fterm"))),
		"let": peg.CC(letCons,
			peg.Seq(
				peg.T("let"), grammarWs,
				peg.V("list"), grammarWs,
				peg.V("form"))),
		"if": peg.CC(ifCons,
			peg.Seq(
				peg.T("if"), grammarWs1, peg.V("expr"),
				grammarWs, peg.T(":"), grammarWs, peg.V("form"),
				peg.Q0(peg.Seq(
					grammarWs, peg.T("elif"), grammarWs1, peg.V("expr"),
					grammarWs, peg.T(":"), grammarWs, peg.V("form"))),
				grammarWs, peg.T("else"), grammarWs, peg.T(":"),
				grammarWs, peg.V("form"))),
		"fn": peg.CC(fnCons,
			peg.Seq(
				peg.T("fn"),
				peg.Q0(peg.Seq(grammarHws1, peg.V("name"))),
				grammarHws, peg.T(":"), grammarWs,
				peg.V("form"))),
		"defn": peg.CC(defnCons,
			peg.Seq(
				peg.V("name"),
				peg.Q0(peg.Seq(grammarHws1, peg.V("name"))),
				grammarHws, peg.T(":"), grammarWs,
				peg.V("form"))),
		"name": peg.CT(symbolCons, peg.Check(isName, grammarToken)),

		// form-level terms: sugar keywords may not stand alone
		"fterm": peg.Alt(
			peg.V("quote"),
			peg.V("list"),
			peg.V("brackets"),
			peg.V("string"),
			peg.V("bool"),
			peg.V("number"),
			peg.CT(symbolCons, peg.Check(isFormSymbol, grammarToken))),
		"term": peg.Alt(
			peg.V("quote"),
			peg.V("list"),
			peg.V("brackets"),
			peg.V("string"),
			peg.V("bool"),
			peg.V("number"),
			peg.CT(symbolCons, peg.Check(isSymbol, grammarToken))),
		"quote": peg.Seq(peg.T("'"), peg.CC(quoteCons, peg.V("term"))),
		"list": peg.CC(listCons,
			peg.Seq(
				peg.T("("), grammarWs,
				peg.Q0(peg.Seq(peg.V("term"), grammarWs)),
				peg.T(")"))),
		"brackets": peg.CC(bracketsCons,
			peg.Seq(
				peg.T("["), grammarWs,
				peg.Q0(peg.Seq(peg.V("term"), grammarWs)),
				peg.T("]"))),
		"string": peg.CT(stringCons, grammarString),
		"bool": peg.CT(boolCons,
			peg.Check(isBool, peg.Seq(peg.T("#"), peg.Q1(grammarTokenChar)))),
		"number": peg.CT(numberCons, peg.Check(isNumber, grammarToken)),
	}

	return peg.Let(rules,
		peg.Seq(
			grammarWs,
			peg.Q0(peg.Seq(peg.V("form"), grammarWs)),
			peg.CT(restCons, peg.Q0(grammarAny))))
}

// capture carries a parsed Value through the peg engine.
type capture struct {
	Value
}

func (c capture) IsTerminal() bool {
	_, isList := c.Value.(List)
	return !isList
}

// rest is whatever the program rule could not consume.
type rest string

func (rest) IsTerminal() bool {
	return true
}

// token classification

const tokenPunct = "!$%&*+-./<=>?@^_~"

func isTokenChar(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9' ||
		strings.IndexByte(tokenPunct, ch) >= 0
}

func looksNumeric(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func isNumber(s string) bool {
	if !looksNumeric(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isSymbol(s string) bool {
	return !looksNumeric(s)
}

func isFormSymbol(s string) bool {
	return isSymbol(s) && !sugarKeywords[s]
}

func isName(s string) bool {
	return isFormSymbol(s) && !IsReserved(Intern(s))
}

func isOperator(s string) bool {
	return infixOperators[s]
}

func isBool(s string) bool {
	return s == "#t" || s == "#f"
}

// capture constructors

func numberCons(lit string, pos peg.Position) (peg.Capture, error) {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, err
	}
	return capture{Number(f)}, nil
}

func symbolCons(lit string, pos peg.Position) (peg.Capture, error) {
	return capture{Intern(lit)}, nil
}

func boolCons(lit string, pos peg.Position) (peg.Capture, error) {
	return capture{Bool(lit == "#t")}, nil
}

var stringEscapes = strings.NewReplacer(
	`\n`, "\n",
	`\t`, "\t",
	`\f`, "\f",
	`\r`, "\r",
	`\"`, `"`,
	`\\`, `\`)

func stringCons(lit string, pos peg.Position) (peg.Capture, error) {
	return capture{Str(stringEscapes.Replace(lit[1 : len(lit)-1]))}, nil
}

func restCons(lit string, pos peg.Position) (peg.Capture, error) {
	return rest(lit), nil
}

func values(caps []peg.Capture) List {
	l := make(List, len(caps))
	for i, c := range caps {
		l[i] = c.(capture).Value
	}
	return l
}

func listCons(caps []peg.Capture) (peg.Capture, error) {
	return capture{values(caps)}, nil
}

func bracketsCons(caps []peg.Capture) (peg.Capture, error) {
	return capture{append(List{symList}, values(caps)...)}, nil
}

func quoteCons(caps []peg.Capture) (peg.Capture, error) {
	return capture{List{symQuote, caps[0].(capture).Value}}, nil
}

// a OP b => (OP a b), whatever the shape of the operands
func infixCons(caps []peg.Capture) (peg.Capture, error) {
	v := values(caps)
	return capture{List{v[1], v[0], v[2]}}, nil
}

func letCons(caps []peg.Capture) (peg.Capture, error) {
	v := values(caps)
	return capture{List{symLet, v[0], v[1]}}, nil
}

// Captures are test, branch pairs followed by the default. The innermost if
// pairs the last test with the default; every earlier pair takes the previous
// result as its else branch.
func ifCons(caps []peg.Capture) (peg.Capture, error) {
	v := values(caps)
	result := v[len(v)-1]
	for i := len(v) - 3; i >= 0; i -= 2 {
		result = List{symIf, v[i], v[i+1], result}
	}
	return capture{result}, nil
}

func fnCons(caps []peg.Capture) (peg.Capture, error) {
	v := values(caps)
	params := append(List{}, v[:len(v)-1]...)
	return capture{List{symFn, params, v[len(v)-1]}}, nil
}

func defnCons(caps []peg.Capture) (peg.Capture, error) {
	v := values(caps)
	params := append(List{}, v[1:len(v)-1]...)
	return capture{List{symDefn, v[0], params, v[len(v)-1]}}, nil
}
