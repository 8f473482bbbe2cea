package functions

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

var noSpan = ast.NoSpan

func collectionBuiltins() []*Descriptor {
	return []*Descriptor{
		{Name: "count", Aliases: []string{"length", "len"}, Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "count", Help: "number of array elements, object keys, string characters or list items", Call: countFn},
		{Name: "first", Aliases: []string{"head"}, Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "first", Help: "first array element", Call: firstFn},
		{Name: "last", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "last", Help: "last array element", Call: lastFn},
		{Name: "limit", Aliases: []string{"take"}, Family: FamilyCollection, Arity: Exactly(1), PipeInput: true,
			Usage: "limit(n)", Help: "first n array elements", Call: limitFn},
		{Name: "skip", Aliases: []string{"drop"}, Family: FamilyCollection, Arity: Exactly(1), PipeInput: true,
			Usage: "skip(n)", Help: "array without its first n elements", Call: skipFn},
		{Name: "nth", Family: FamilyCollection, Arity: Exactly(1), PipeInput: true,
			Usage: "nth(n)", Help: "element at position n, negative counts from the end", Call: nthFn},
		{Name: "reverse", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "reverse", Help: "array or string in reverse order", Call: reverseFn},
		{Name: "sort", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "sort", Help: "array sorted ascending", Call: sortFn},
		{Name: "sort_by", Family: FamilyCollection, Arity: Exactly(1), PipeInput: true, KeyArgs: true,
			Usage: "sort_by(.field)", Help: "array sorted by a field", Call: sortByFn},
		{Name: "unique", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "unique", Help: "sorted array without duplicates", Call: uniqueFn},
		{Name: "unique_by", Family: FamilyCollection, Arity: Exactly(1), PipeInput: true, KeyArgs: true,
			Usage: "unique_by(.field)", Help: "first element for each distinct field value", Call: uniqueByFn},
		{Name: "flatten", Family: FamilyCollection, Arity: Between(0, 1), PipeInput: true,
			Usage: "flatten, flatten(depth)", Help: "nested arrays merged into one", Call: flattenFn},
		{Name: "group_by", Family: FamilyCollection, Arity: Exactly(1), PipeInput: true, KeyArgs: true,
			Usage: "group_by(.field)", Help: "arrays of elements sharing a field value, ordered by that value", Call: groupByFn},
		{Name: "min", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "min", Help: "smallest array element", Call: minFn},
		{Name: "max", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "max", Help: "largest array element", Call: maxFn},
		{Name: "add", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "add", Help: "elements combined with +", Call: addFn},
		{Name: "sum", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "sum", Help: "sum of numeric elements", Call: sumFn},
		{Name: "avg", Aliases: []string{"mean"}, Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "avg", Help: "mean of numeric elements", Call: avgFn},
		{Name: "keys", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "keys", Help: "object keys or element property names", Call: keysFn},
		{Name: "values", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "values", Help: "object values", Call: valuesFn},
		{Name: "has", Family: FamilyCollection, Arity: Exactly(1), PipeInput: true,
			Usage: "has(key)", Help: "whether the input has a key or property", Call: hasFn},
		{Name: "type", Family: FamilyCollection, Arity: Exactly(0), PipeInput: true,
			Usage: "type", Help: "runtime type name", Call: typeFn},
		{Name: "empty", Family: FamilyCollection, Arity: Exactly(0),
			Usage: "empty", Help: "produces no results", Call: emptyFn},
	}
}

// elements returns the elements of an Array input; ok is false otherwise.
func elements(v value.Value) (value.Array, bool) {
	arr, ok := v.(value.Array)
	return arr, ok
}

func intArg(fn string, v value.Value) (int, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, tqlerrors.TypeMismatch(fmt.Sprintf("%s expects a number argument, got %s", fn, v.Type()), noSpan, nil)
	}
	return int(math.Trunc(float64(n))), nil
}

// keyOf reads the grouping or sorting key named by key from v.
func keyOf(fn string, v, key value.Value) (value.Value, error) {
	name, ok := key.(value.String)
	if !ok {
		return nil, tqlerrors.TypeMismatch(fmt.Sprintf("%s expects a field name, got %s", fn, key.Type()), noSpan, nil)
	}
	got, ok := value.Property(v, string(name))
	if !ok {
		return nil, tqlerrors.PropertyNotFound(string(name), string(v.Type()), noSpan, nil)
	}
	return got, nil
}

func countFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		return one(value.Number(len(v))), nil
	case *value.Object:
		return one(value.Number(v.Len())), nil
	case value.String:
		return one(value.Number(utf8.RuneCountInString(string(v)))), nil
	case value.Null:
		return one(value.Number(0)), nil
	case *value.List:
		return one(value.Number(len(v.Items))), nil
	case *value.Table:
		return one(value.Number(len(v.Rows))), nil
	default:
		return one(value.Number(1)), nil
	}
}

func firstFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return one(args[0]), nil
	}
	if len(arr) == 0 {
		return nil, nil
	}
	return one(arr[0]), nil
}

func lastFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return one(args[0]), nil
	}
	if len(arr) == 0 {
		return nil, nil
	}
	return one(arr[len(arr)-1]), nil
}

func limitFn(args []value.Value, _ Env) ([]value.Value, error) {
	n, err := intArg("limit", args[1])
	if err != nil {
		return nil, err
	}
	arr, ok := elements(args[0])
	if !ok {
		if n > 0 {
			return one(args[0]), nil
		}
		return nil, nil
	}
	n = max(0, min(n, len(arr)))
	return one(append(value.Array{}, arr[:n]...)), nil
}

func skipFn(args []value.Value, _ Env) ([]value.Value, error) {
	n, err := intArg("skip", args[1])
	if err != nil {
		return nil, err
	}
	arr, ok := elements(args[0])
	if !ok {
		if n <= 0 {
			return one(args[0]), nil
		}
		return nil, nil
	}
	n = max(0, min(n, len(arr)))
	return one(append(value.Array{}, arr[n:]...)), nil
}

func nthFn(args []value.Value, _ Env) ([]value.Value, error) {
	n, err := intArg("nth", args[1])
	if err != nil {
		return nil, err
	}
	arr, ok := elements(args[0])
	if !ok {
		arr = value.Array{args[0]}
	}
	pos, ok := (&ast.SingleIndex{Index: n}).Resolve(len(arr))
	if !ok {
		return nil, nil
	}
	return one(arr[pos]), nil
}

func reverseFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		out := make(value.Array, len(v))
		for i, el := range v {
			out[len(v)-1-i] = el
		}
		return one(out), nil
	case value.String:
		runes := []rune(string(v))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return one(value.String(runes)), nil
	default:
		return one(v), nil
	}
}

func sortFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return nil, typeMismatch("sort", args[0], "array")
	}
	out := append(value.Array{}, arr...)
	sort.SliceStable(out, func(i, j int) bool { return value.Compare(out[i], out[j]) < 0 })
	return one(out), nil
}

type keyed struct {
	key value.Value
	val value.Value
}

func keyedElements(fn string, args []value.Value) ([]keyed, error) {
	arr, ok := elements(args[0])
	if !ok {
		return nil, typeMismatch(fn, args[0], "array")
	}
	out := make([]keyed, len(arr))
	for i, el := range arr {
		k, err := keyOf(fn, el, args[1])
		if err != nil {
			return nil, err
		}
		out[i] = keyed{key: k, val: el}
	}
	return out, nil
}

func sortByFn(args []value.Value, _ Env) ([]value.Value, error) {
	items, err := keyedElements("sort_by", args)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return value.Compare(items[i].key, items[j].key) < 0 })
	out := make(value.Array, len(items))
	for i, it := range items {
		out[i] = it.val
	}
	return one(out), nil
}

func uniqueFn(args []value.Value, env Env) ([]value.Value, error) {
	sorted, err := sortFn(args, env)
	if err != nil {
		return nil, err
	}
	arr := sorted[0].(value.Array)
	out := value.Array{}
	for _, el := range arr {
		if len(out) > 0 && value.Equal(out[len(out)-1], el) {
			continue
		}
		out = append(out, el)
	}
	return one(out), nil
}

func uniqueByFn(args []value.Value, _ Env) ([]value.Value, error) {
	items, err := keyedElements("unique_by", args)
	if err != nil {
		return nil, err
	}
	out := value.Array{}
	var seen []value.Value
	for _, it := range items {
		dup := false
		for _, k := range seen {
			if value.Equal(k, it.key) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, it.key)
			out = append(out, it.val)
		}
	}
	return one(out), nil
}

func flattenFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return nil, typeMismatch("flatten", args[0], "array")
	}
	depth := -1
	if len(args) > 1 {
		d, err := intArg("flatten", args[1])
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, tqlerrors.TypeMismatch("flatten depth must not be negative", noSpan, nil)
		}
		depth = d
	}
	return one(flatten(arr, depth)), nil
}

func flatten(arr value.Array, depth int) value.Array {
	out := value.Array{}
	for _, el := range arr {
		if inner, ok := el.(value.Array); ok && depth != 0 {
			out = append(out, flatten(inner, depth-1)...)
			continue
		}
		out = append(out, el)
	}
	return out
}

func groupByFn(args []value.Value, _ Env) ([]value.Value, error) {
	items, err := keyedElements("group_by", args)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return value.Compare(items[i].key, items[j].key) < 0 })
	out := value.Array{}
	var current value.Array
	for i, it := range items {
		if i > 0 && !value.Equal(items[i-1].key, it.key) {
			out = append(out, current)
			current = nil
		}
		current = append(current, it.val)
	}
	if current != nil {
		out = append(out, current)
	}
	return one(out), nil
}

func extreme(fn string, args []value.Value, wantSign int) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return nil, typeMismatch(fn, args[0], "array")
	}
	if len(arr) == 0 {
		return one(value.Null{}), nil
	}
	best := arr[0]
	for _, el := range arr[1:] {
		if value.Compare(el, best)*wantSign > 0 {
			best = el
		}
	}
	return one(best), nil
}

func minFn(args []value.Value, _ Env) ([]value.Value, error) { return extreme("min", args, -1) }
func maxFn(args []value.Value, _ Env) ([]value.Value, error) { return extreme("max", args, 1) }

func addFn(args []value.Value, _ Env) ([]value.Value, error) {
	arr, ok := elements(args[0])
	if !ok {
		return nil, typeMismatch("add", args[0], "array")
	}
	var acc value.Value = value.Null{}
	for _, el := range arr {
		next, err := value.Add(acc, el)
		if err != nil {
			return nil, tqlerrors.TypeMismatch("add: "+err.Error(), noSpan, err)
		}
		acc = next
	}
	return one(acc), nil
}

func numbers(fn string, v value.Value) ([]float64, error) {
	arr, ok := elements(v)
	if !ok {
		return nil, typeMismatch(fn, v, "array")
	}
	out := make([]float64, 0, len(arr))
	for _, el := range arr {
		n, ok := el.(value.Number)
		if !ok {
			return nil, tqlerrors.TypeMismatch(fmt.Sprintf("%s expects numbers, found %s", fn, el.Type()), noSpan, nil)
		}
		out = append(out, float64(n))
	}
	return out, nil
}

func sumFn(args []value.Value, _ Env) ([]value.Value, error) {
	nums, err := numbers("sum", args[0])
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return one(value.Number(total)), nil
}

func avgFn(args []value.Value, _ Env) ([]value.Value, error) {
	nums, err := numbers("avg", args[0])
	if err != nil {
		return nil, err
	}
	if len(nums) == 0 {
		return one(value.Null{}), nil
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return one(value.Number(total / float64(len(nums)))), nil
}

func keysFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case *value.Object:
		out := value.Array{}
		for _, k := range v.Keys() {
			out = append(out, value.String(k))
		}
		return one(out), nil
	case value.Array:
		out := make(value.Array, len(v))
		for i := range v {
			out[i] = value.Number(i)
		}
		return one(out), nil
	}
	names, ok := value.Properties[args[0].Type()]
	if !ok {
		return nil, typeMismatch("keys", args[0], "object")
	}
	out := make(value.Array, len(names))
	for i, n := range names {
		out[i] = value.String(n)
	}
	return one(out), nil
}

func valuesFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		return one(v), nil
	case *value.Object:
		out := value.Array{}
		v.Range(func(_ string, val value.Value) bool {
			out = append(out, val)
			return true
		})
		return one(out), nil
	}
	obj := value.ToObject(args[0])
	if obj == nil {
		return nil, typeMismatch("values", args[0], "object")
	}
	return valuesFn([]value.Value{obj}, nil)
}

func hasFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case *value.Object:
		return one(value.Bool(v.Has(value.ToText(args[1])))), nil
	case value.Array:
		n, err := intArg("has", args[1])
		if err != nil {
			return nil, err
		}
		return one(value.Bool(n >= 0 && n < len(v))), nil
	}
	_, ok := value.Property(args[0], value.ToText(args[1]))
	return one(value.Bool(ok)), nil
}

func typeFn(args []value.Value, _ Env) ([]value.Value, error) {
	return one(value.String(args[0].Type())), nil
}

func emptyFn(_ []value.Value, _ Env) ([]value.Value, error) {
	return nil, nil
}
