package functions

import (
	"fmt"
	"sort"
	"sync"

	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// Env is the read-only view of the evaluation context that built-ins may
// consult.
type Env interface {
	Document() *value.Document
	Headings() []*value.Heading
	CodeBlocks() []*value.Code
	Links() []*value.Link
	Images() []*value.Image
	Tables() []*value.Table
	Lists() []*value.List
}

// Func is a built-in implementation. args holds the pipe input first when
// the descriptor is pipe-consuming, followed by the written arguments.
type Func func(args []value.Value, env Env) ([]value.Value, error)

// Family groups built-ins for help output.
type Family string

const (
	FamilyCollection  Family = "collection"
	FamilyString      Family = "string"
	FamilyPredicate   Family = "predicate"
	FamilyContent     Family = "content"
	FamilyAggregation Family = "aggregation"
)

// ArityKind selects how an Arity constrains the argument count.
type ArityKind int

const (
	ArityExact ArityKind = iota
	ArityMin
	ArityRange
)

// Arity constrains the number of written arguments; the implicit pipe input
// is not counted.
type Arity struct {
	Kind ArityKind
	Min  int
	Max  int
}

// Exactly returns an arity of exactly n arguments.
func Exactly(n int) Arity { return Arity{Kind: ArityExact, Min: n, Max: n} }

// AtLeast returns an arity of n or more arguments.
func AtLeast(n int) Arity { return Arity{Kind: ArityMin, Min: n} }

// Between returns an arity of lo to hi arguments inclusive.
func Between(lo, hi int) Arity { return Arity{Kind: ArityRange, Min: lo, Max: hi} }

// Check reports whether n arguments satisfy the arity.
func (a Arity) Check(n int) bool {
	switch a.Kind {
	case ArityExact:
		return n == a.Min
	case ArityMin:
		return n >= a.Min
	default:
		return n >= a.Min && n <= a.Max
	}
}

// String describes the expected shape, e.g. "exactly 1 argument".
func (a Arity) String() string {
	switch a.Kind {
	case ArityExact:
		return fmt.Sprintf("exactly %d %s", a.Min, plural(a.Min))
	case ArityMin:
		return fmt.Sprintf("at least %d %s", a.Min, plural(a.Min))
	default:
		return fmt.Sprintf("%d to %d arguments", a.Min, a.Max)
	}
}

func plural(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}

// Descriptor declares one built-in.
type Descriptor struct {
	Name    string
	Aliases []string
	Family  Family
	Arity   Arity
	// PipeInput prepends the current value to the arguments.
	PipeInput bool
	// KeyArgs passes bare ".field" arguments as the field name instead of
	// evaluating them against the input.
	KeyArgs bool
	Usage   string
	Help    string
	Call    Func
}

// Registry is an immutable catalog of built-ins keyed by name and alias.
type Registry struct {
	byName      map[string]*Descriptor
	names       []string
	descriptors []*Descriptor
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry of built-ins. It is built once and
// never mutated, so it is safe for concurrent use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(builtins())
	})
	return defaultRegistry
}

// NewRegistry indexes descriptors by name and alias. A later descriptor
// with a clashing name panics, since built-in tables are static.
func NewRegistry(descriptors []*Descriptor) *Registry {
	r := &Registry{byName: make(map[string]*Descriptor)}
	for _, d := range descriptors {
		for _, name := range append([]string{d.Name}, d.Aliases...) {
			if _, dup := r.byName[name]; dup {
				panic(fmt.Sprintf("functions: duplicate built-in name %q", name))
			}
			r.byName[name] = d
			r.names = append(r.names, name)
		}
		r.descriptors = append(r.descriptors, d)
	}
	sort.Strings(r.names)
	return r
}

// Lookup resolves a name or alias.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Suggest returns known names that look like a typo of name.
func (r *Registry) Suggest(name string) []string {
	return tqlerrors.Suggest(name, r.names, tqlerrors.DefaultSuggestionLimit)
}

// Names returns every name and alias, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Descriptors returns the built-ins in declaration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

func builtins() []*Descriptor {
	var all []*Descriptor
	all = append(all, collectionBuiltins()...)
	all = append(all, stringBuiltins()...)
	all = append(all, predicateBuiltins()...)
	all = append(all, contentBuiltins()...)
	all = append(all, aggregationBuiltins()...)
	return all
}

func one(v value.Value) []value.Value { return []value.Value{v} }

func typeMismatch(fn string, v value.Value, want string) error {
	return tqlerrors.TypeMismatch(fmt.Sprintf("%s expects %s input, got %s", fn, want, v.Type()), noSpan, nil)
}
