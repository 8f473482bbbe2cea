package functions

import (
	"regexp"
	"strings"
	"sync"

	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

func predicateBuiltins() []*Descriptor {
	return []*Descriptor{
		{Name: "select", Aliases: []string{"where", "filter"}, Family: FamilyPredicate, Arity: Exactly(1), PipeInput: true,
			Usage: "select(cond)", Help: "input if cond is truthy, nothing otherwise", Call: selectFn},
		{Name: "contains", Aliases: []string{"includes"}, Family: FamilyPredicate, Arity: Exactly(1), PipeInput: true,
			Usage: "contains(x)", Help: "substring, array element or object key membership", Call: containsFn},
		{Name: "startswith", Aliases: []string{"starts_with"}, Family: FamilyPredicate, Arity: Exactly(1), PipeInput: true,
			Usage: "startswith(s)", Help: "whether the text starts with s", Call: startswithFn},
		{Name: "endswith", Aliases: []string{"ends_with"}, Family: FamilyPredicate, Arity: Exactly(1), PipeInput: true,
			Usage: "endswith(s)", Help: "whether the text ends with s", Call: endswithFn},
		{Name: "matches", Aliases: []string{"test"}, Family: FamilyPredicate, Arity: Between(1, 2), PipeInput: true,
			Usage: "matches(re), matches(re; flags)", Help: "whether the text matches a regular expression", Call: matchesFn},
		{Name: "any", Family: FamilyPredicate, Arity: Exactly(0), PipeInput: true,
			Usage: "any", Help: "whether any array element is truthy", Call: anyFn},
		{Name: "all", Family: FamilyPredicate, Arity: Exactly(0), PipeInput: true,
			Usage: "all", Help: "whether every array element is truthy", Call: allFn},
		{Name: "not", Family: FamilyPredicate, Arity: Exactly(0), PipeInput: true,
			Usage: "not", Help: "negated truthiness of the input", Call: notFn},
	}
}

func selectFn(args []value.Value, _ Env) ([]value.Value, error) {
	if value.Truthy(args[1]) {
		return one(args[0]), nil
	}
	return nil, nil
}

func containsFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		for _, el := range v {
			if value.Equal(el, args[1]) {
				return one(value.Bool(true)), nil
			}
		}
		return one(value.Bool(false)), nil
	case *value.Object:
		return one(value.Bool(v.Has(value.ToText(args[1])))), nil
	case value.Null:
		return one(value.Bool(false)), nil
	}
	return one(value.Bool(strings.Contains(value.ToText(args[0]), value.ToText(args[1])))), nil
}

func startswithFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("startswith", args[0])
	if err != nil {
		return nil, err
	}
	return one(value.Bool(strings.HasPrefix(s, value.ToText(args[1])))), nil
}

func endswithFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("endswith", args[0])
	if err != nil {
		return nil, err
	}
	return one(value.Bool(strings.HasSuffix(s, value.ToText(args[1])))), nil
}

var regexCache sync.Map

// CompileRegex compiles pattern with optional flags ("i", "s", "m", "x" is
// ignored). RE2 guarantees linear-time matching.
func CompileRegex(pattern, flags string) (*regexp.Regexp, error) {
	key := flags + "\x00" + pattern
	if re, ok := regexCache.Load(key); ok {
		return re.(*regexp.Regexp), nil
	}
	prefix := ""
	for _, f := range flags {
		switch f {
		case 'i', 's', 'm':
			prefix += string(f)
		}
	}
	full := pattern
	if prefix != "" {
		full = "(?" + prefix + ")" + pattern
	}
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, tqlerrors.InvalidRegex(pattern, err, noSpan)
	}
	regexCache.Store(key, re)
	return re, nil
}

func matchesFn(args []value.Value, _ Env) ([]value.Value, error) {
	s, err := textOf("matches", args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := stringArg("matches", args[1])
	if err != nil {
		return nil, err
	}
	flags := ""
	if len(args) > 2 {
		if flags, err = stringArg("matches", args[2]); err != nil {
			return nil, err
		}
	}
	re, err := CompileRegex(pattern, flags)
	if err != nil {
		return nil, err
	}
	return one(value.Bool(re.MatchString(s))), nil
}

func anyFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return one(value.Bool(value.Truthy(args[0]))), nil
	}
	for _, el := range arr {
		if value.Truthy(el) {
			return one(value.Bool(true)), nil
		}
	}
	return one(value.Bool(false)), nil
}

func allFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return one(value.Bool(value.Truthy(args[0]))), nil
	}
	for _, el := range arr {
		if !value.Truthy(el) {
			return one(value.Bool(false)), nil
		}
	}
	return one(value.Bool(true)), nil
}

func notFn(args []value.Value, _ Env) ([]value.Value, error) {
	return one(value.Bool(!value.Truthy(args[0]))), nil
}
