package functions

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

func stringBuiltins() []*Descriptor {
	return []*Descriptor{
		{Name: "text", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "text", Help: "plain text of the input", Call: textFn},
		{Name: "upper", Aliases: []string{"ascii_upcase"}, Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "upper", Help: "upper-cased text", Call: upperFn},
		{Name: "lower", Aliases: []string{"ascii_downcase"}, Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "lower", Help: "lower-cased text", Call: lowerFn},
		{Name: "trim", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "trim", Help: "text without surrounding whitespace", Call: trimFn},
		{Name: "ltrimstr", Family: FamilyString, Arity: Exactly(1), PipeInput: true,
			Usage: "ltrimstr(prefix)", Help: "string without the given prefix", Call: ltrimstrFn},
		{Name: "rtrimstr", Family: FamilyString, Arity: Exactly(1), PipeInput: true,
			Usage: "rtrimstr(suffix)", Help: "string without the given suffix", Call: rtrimstrFn},
		{Name: "split", Family: FamilyString, Arity: Exactly(1), PipeInput: true,
			Usage: "split(sep)", Help: "array of substrings between separators", Call: splitFn},
		{Name: "join", Family: FamilyString, Arity: Exactly(1), PipeInput: true,
			Usage: "join(sep)", Help: "array elements joined into one string", Call: joinFn},
		{Name: "replace", Aliases: []string{"gsub"}, Family: FamilyString, Arity: Exactly(2), PipeInput: true,
			Usage: "replace(old, new)", Help: "every occurrence of old replaced by new", Call: replaceFn},
		{Name: "slugify", Aliases: []string{"slug"}, Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "slugify", Help: "URL anchor form of the text", Call: slugifyFn},
		{Name: "lines", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "lines", Help: "array of lines", Call: linesFn},
		{Name: "words", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "words", Help: "array of whitespace-separated words", Call: wordsFn},
		{Name: "chars", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "chars", Help: "array of characters", Call: charsFn},
		{Name: "tostring", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "tostring", Help: "textual rendering of any value", Call: tostringFn},
		{Name: "tonumber", Family: FamilyString, Arity: Exactly(0), PipeInput: true,
			Usage: "tonumber", Help: "number parsed from a string", Call: tonumberFn},
	}
}

// textOf returns the text of scalar and markdown values. Collections and
// null have no single text and are rejected.
func textOf(fn string, v value.Value) (string, error) {
	switch v.(type) {
	case value.Array, *value.Object, value.Null:
		return "", typeMismatch(fn, v, "string")
	}
	return value.ToText(v), nil
}

func stringArg(fn string, v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", tqlerrors.TypeMismatch(fmt.Sprintf("%s expects a string argument, got %s", fn, v.Type()), noSpan, nil)
	}
	return string(s), nil
}

func mapText(fn string, args []value.Value, f func(string) string) ([]value.Value, error) {
	s, err := textOf(fn, args[0])
	if err != nil {
		return nil, err
	}
	return one(value.String(f(s))), nil
}

func textFn(args []value.Value, _ Env) ([]value.Value, error) {
	if _, ok := args[0].(value.Null); ok {
		return one(value.String("")), nil
	}
	return one(value.String(value.ToText(args[0]))), nil
}

func upperFn(args []value.Value, _ Env) ([]value.Value, error) {
	return mapText("upper", args, cases.Upper(language.Und).String)
}

func lowerFn(args []value.Value, _ Env) ([]value.Value, error) {
	return mapText("lower", args, cases.Lower(language.Und).String)
}

func trimFn(args []value.Value, _ Env) ([]value.Value, error) {
	return mapText("trim", args, strings.TrimSpace)
}

func ltrimstrFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, ok := args[0].(value.String)
	prefix, isStr := args[1].(value.String)
	if !ok || !isStr {
		return one(args[0]), nil
	}
	return one(value.String(strings.TrimPrefix(string(s), string(prefix)))), nil
}

func rtrimstrFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, ok := args[0].(value.String)
	suffix, isStr := args[1].(value.String)
	if !ok || !isStr {
		return one(args[0]), nil
	}
	return one(value.String(strings.TrimSuffix(string(s), string(suffix)))), nil
}

func splitFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := stringArg("split", args[1])
	if err != nil {
		return nil, err
	}
	if s == "" {
		return one(value.Array{}), nil
	}
	return one(stringsToArray(strings.Split(s, sep))), nil
}

func joinFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return nil, typeMismatch("join", args[0], "array")
	}
	sep, err := stringArg("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr))
	for i, el := range arr {
		if _, isNull := el.(value.Null); isNull {
			continue
		}
		parts[i] = value.ToText(el)
	}
	return one(value.String(strings.Join(parts, sep))), nil
}

func replaceFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("replace", args[0])
	if err != nil {
		return nil, err
	}
	old, err := stringArg("replace", args[1])
	if err != nil {
		return nil, err
	}
	repl, err := stringArg("replace", args[2])
	if err != nil {
		return nil, err
	}
	return one(value.String(strings.ReplaceAll(s, old, repl))), nil
}

func slugifyFn(args []value.Value, _ Env) ([]value.Value, error) {
	return mapText("slugify", args, Slugify)
}

// Slugify lower-cases s, strips diacritics and joins runs of letters and
// digits with single hyphens, the way heading anchors are generated.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = cases.Lower(language.Und).String(folded)

	var sb strings.Builder
	pendingDash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return sb.String()
}

func linesFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("lines", args[0])
	if err != nil {
		return nil, err
	}
	if s == "" {
		return one(value.Array{}), nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return one(stringsToArray(lines)), nil
}

func wordsFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("words", args[0])
	if err != nil {
		return nil, err
	}
	return one(stringsToArray(strings.Fields(s))), nil
}

func charsFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("chars", args[0])
	if err != nil {
		return nil, err
	}
	out := value.Array{}
	for _, r := range s {
		out = append(out, value.String(string(r)))
	}
	return one(out), nil
}

func tostringFn(args []value.Value, _ Env) ([]value.Value, error) {
	if s, ok := args[0].(value.String); ok {
		return one(s), nil
	}
	return one(value.String(value.ToText(args[0]))), nil
}

func tonumberFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case value.Number:
		return one(v), nil
	case value.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, tqlerrors.TypeMismatch(fmt.Sprintf("cannot parse %q as a number", string(v)), noSpan, err)
		}
		return one(value.Number(n)), nil
	}
	return nil, typeMismatch("tonumber", args[0], "string")
}

func stringsToArray(ss []string) value.Array {
	out := make(value.Array, len(ss))
	for i, s := range ss {
		out[i] = value.String(s)
	}
	return out
}
