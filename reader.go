package lispy

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hucsmn/peg"
)

// Parser turns source text into forms. It holds only the compiled grammar, so
// a single Parser can be shared by any number of goroutines.
type Parser struct {
	program peg.Pattern
}

func NewParser() *Parser {
	return &Parser{program: newGrammar()}
}

// Parse reads every top-level form in src and wraps them, in source order, in
// a (begin ...) form. On malformed input it returns a *SyntaxError and no
// forms.
func (p *Parser) Parse(src string) (List, error) {
	caps, err := peg.Parse(p.program, src)
	if err != nil {
		return nil, &SyntaxError{Pos: position(src, 0), Msg: err.Error()}
	}

	forms := List{symBegin}
	for _, c := range caps {
		switch t := c.(type) {
		case capture:
			forms = append(forms, t.Value)
		case rest:
			if len(t) > 0 {
				return nil, unexpected(src, string(t))
			}
		default:
			return nil, fmt.Errorf("unexpected capture: %#v", c)
		}
	}
	return forms, nil
}

// unexpected builds the error for the first unconsumed input.
func unexpected(src, tail string) *SyntaxError {
	e := &SyntaxError{
		Pos:    position(src, len(src)-len(tail)),
		Lexeme: firstLexeme(tail),
	}

	depth, inString := balance(tail)
	trimmed := strings.TrimRightFunc(tail, unicode.IsSpace)
	switch {
	case inString:
		e.Msg = "unterminated string"
		e.Incomplete = true
	case depth > 0:
		e.Msg = "unclosed delimiter"
		e.Incomplete = true
	case tail[0] == ')' || tail[0] == ']':
		e.Msg = "unmatched delimiter"
	case tail[0] == '"':
		e.Msg = "invalid string literal"
	case sugarKeywords[e.Lexeme]:
		e.Msg = fmt.Sprintf("malformed %s form", e.Lexeme)
		e.Incomplete = strings.HasSuffix(trimmed, ":") ||
			(e.Lexeme == "if" && !strings.Contains(tail, "else"))
	case strings.HasSuffix(trimmed, ":"):
		e.Msg = "missing body"
		e.Incomplete = true
	default:
		e.Msg = "unexpected token"
	}

	// more input cannot repair a bad token
	if e.Incomplete {
		if off, lexeme, found := invalidToken(tail); found {
			e.Pos = position(src, len(src)-len(tail)+off)
			e.Lexeme = lexeme
			e.Msg = "invalid token"
			e.Incomplete = false
		}
	}
	return e
}

// invalidToken finds the first lexeme outside strings and comments that no
// term of the grammar accepts.
func invalidToken(s string) (offset int, lexeme string, found bool) {
	inComment, inString := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inComment:
			inComment = ch != '\n'
		case inString:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
		case ch == ';':
			inComment = true
		case ch == '"':
			inString = true
		case strings.IndexByte(" \t\r\n\f\v()[]':", ch) >= 0:
		default:
			lex := firstLexeme(s[i:])
			if !validToken(lex) {
				return i, lex, true
			}
			i += len(lex) - 1
		}
	}
	return 0, "", false
}

func validToken(lex string) bool {
	if strings.HasPrefix(lex, "#") {
		return isBool(lex)
	}
	for i := 0; i < len(lex); i++ {
		if !isTokenChar(lex[i]) {
			return false
		}
	}
	return isNumber(lex) || isSymbol(lex)
}

// balance scans s and reports how many ( and [ are left open and whether s
// ends inside a string literal.
func balance(s string) (depth int, inString bool) {
	inComment := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inComment:
			inComment = ch != '\n'
		case inString:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
		case ch == ';':
			inComment = true
		case ch == '"':
			inString = true
		case ch == '(' || ch == '[':
			depth++
		case ch == ')' || ch == ']':
			depth--
		}
	}
	return depth, inString
}

func firstLexeme(s string) string {
	switch s[0] {
	case '(', ')', '[', ']', '\'', '"', ':':
		return s[:1]
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(`()[]'":;`, r)
	})
	if end < 0 {
		return s
	}
	if end == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return s[:size]
	}
	return s[:end]
}

func position(src string, offset int) Pos {
	pos := Pos{Offset: offset, Line: 1, Column: 1}
	for _, r := range src[:offset] {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
