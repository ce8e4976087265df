package lispy

import "unique"

// Symbol is an interned identifier. Two symbols with the same name compare
// equal with == and can be used as map keys.
type Symbol struct {
	h unique.Handle[string]
}

// Intern returns the symbol for name.
func Intern(name string) Symbol {
	return Symbol{unique.Make(name)}
}

func (s Symbol) Name() string {
	if s == (Symbol{}) {
		return ""
	}
	return s.h.Value()
}

func (s Symbol) String() string {
	return s.Name()
}

// Reserved heads of special forms
var (
	symIf     = Intern("if")
	symDefine = Intern("define")
	symQuote  = Intern("quote")
	symLet    = Intern("let")
	symLambda = Intern("lambda")
	symFn     = Intern("fn")
	symDefn   = Intern("defn")
	symList   = Intern("list")
	symBegin  = Intern("begin")
)

// IsReserved reports whether s names a special form.
func IsReserved(s Symbol) bool {
	_, ok := specialForms[s]
	return ok
}
