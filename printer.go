package lispy

import (
	"fmt"
	"strconv"
	"strings"
)

// Print returns the external representation of val. Strings are quoted using
// only the escapes the reader accepts, so any string reads back; inf and nan
// print as +Inf and NaN, which do not.
func Print(val Value) string {
	return format(val, true)
}

// Display is Print without quotes around strings.
func Display(val Value) string {
	return format(val, false)
}

var stringQuoter = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\f", `\f`,
	"\r", `\r`)

func format(val Value, quoted bool) string {
	switch t := val.(type) {
	case nil:
		return "nil"
	case Str:
		if quoted {
			return `"` + stringQuoter.Replace(string(t)) + `"`
		}
		return string(t)
	case Number:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case Bool:
		if t {
			return "#t"
		}
		return "#f"
	case Symbol:
		return t.Name()
	case List:
		arr := make([]string, len(t))
		for i, v := range t {
			arr[i] = format(v, quoted)
		}
		return fmt.Sprintf("(%s)", strings.Join(arr, " "))
	case *Closure:
		if t.Name == (Symbol{}) {
			return "<procedure>"
		}
		return fmt.Sprintf("<procedure %s>", t.Name.Name())
	case *Builtin:
		return fmt.Sprintf("<builtin %s>", t.Name)
	default:
		return fmt.Sprintf("%v", val)
	}
}
