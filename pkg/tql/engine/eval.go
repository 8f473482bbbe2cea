package engine

import (
	"fmt"
	"strings"

	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/functions"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// evaluator walks the AST for one query run. Every expression maps a single
// input value to zero or more outputs.
type evaluator struct {
	ctx      *Context
	registry *functions.Registry
}

func (ev *evaluator) eval(expr ast.Expr, input value.Value) ([]value.Value, error) {
	switch e := expr.(type) {
	case *ast.PipedExpr:
		return ev.evalPipe(e, input)
	case *ast.Identity:
		return []value.Value{input}, nil
	case *ast.Element:
		if v, ok := objectField(e, input); ok {
			if e.Index == nil {
				return []value.Value{v}, nil
			}
			return indexValue(v, e.Index, e.Pos)
		}
		return ev.evalElement(e)
	case *ast.Property:
		return ev.evalProperty(e, input)
	case *ast.Index:
		return ev.evalIndex(e, input)
	case *ast.Function:
		return ev.evalFunction(e, input)
	case *ast.Hierarchy:
		return ev.evalHierarchy(e, input)
	case *ast.Binary:
		return ev.evalBinary(e, input)
	case *ast.Unary:
		return ev.evalUnary(e, input)
	case *ast.Literal:
		return []value.Value{e.Value}, nil
	case *ast.Object:
		return ev.evalObject(e, input)
	case *ast.Array:
		return ev.evalArray(e, input)
	case *ast.Conditional:
		return ev.evalConditional(e, input)
	case *ast.Group:
		return ev.eval(e.Expr, input)
	default:
		return nil, tqlerrors.TypeMismatch(fmt.Sprintf("unsupported expression %T", expr), expr.Span(), nil)
	}
}

// evalPipe feeds every output of a stage into the next one. An empty
// intermediate stream ends the pipeline early.
func (ev *evaluator) evalPipe(e *ast.PipedExpr, input value.Value) ([]value.Value, error) {
	current := []value.Value{input}
	for _, stage := range e.Stages {
		var next []value.Value
		for _, v := range current {
			out, err := ev.eval(stage, v)
			if err != nil {
				return nil, err
			}
			next = append(next, out...)
		}
		if len(next) == 0 {
			return nil, nil
		}
		current = next
	}
	return current, nil
}

// objectField resolves a selector name such as .code or .a as a field of
// an object input that has that key. Selectors with filters always select
// document elements.
func objectField(e *ast.Element, input value.Value) (value.Value, bool) {
	obj, ok := input.(*value.Object)
	if !ok || e.Name == "" || len(e.Filters) > 0 {
		return nil, false
	}
	return obj.Get(e.Name)
}

func (ev *evaluator) evalElement(e *ast.Element) ([]value.Value, error) {
	candidates := ev.candidates(e.Kind)
	return ev.refine(candidates, e)
}

// candidates returns every element of a kind in document order.
func (ev *evaluator) candidates(kind ast.ElementKind) []value.Value {
	var out []value.Value
	switch kind.Type {
	case ast.ElementHeading:
		for _, h := range ev.ctx.Headings() {
			if kind.Level == 0 || h.Level == kind.Level {
				out = append(out, h)
			}
		}
	case ast.ElementCode:
		for _, c := range ev.ctx.CodeBlocks() {
			out = append(out, c)
		}
	case ast.ElementLink:
		for _, l := range ev.ctx.Links() {
			out = append(out, l)
		}
	case ast.ElementImage:
		for _, img := range ev.ctx.Images() {
			out = append(out, img)
		}
	case ast.ElementTable:
		for _, t := range ev.ctx.Tables() {
			out = append(out, t)
		}
	case ast.ElementList:
		for _, l := range ev.ctx.Lists() {
			out = append(out, l)
		}
	case ast.ElementFrontMatter:
		if fm := ev.ctx.Document().FrontMatter; fm != nil {
			out = append(out, fm)
		}
	case ast.ElementBlockquote, ast.ElementParagraph:
		// reserved; extraction does not populate these
	}
	return out
}

// refine applies the selector's filters in written order, then its index.
func (ev *evaluator) refine(candidates []value.Value, e *ast.Element) ([]value.Value, error) {
	for _, f := range e.Filters {
		var err error
		candidates, err = ev.filter(candidates, f, e.Pos)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, nil
		}
	}

	switch op := e.Index.(type) {
	case nil, *ast.IterateIndex:
		return candidates, nil
	case *ast.SingleIndex:
		pos, ok := op.Resolve(len(candidates))
		if !ok {
			return nil, nil
		}
		return []value.Value{candidates[pos]}, nil
	case *ast.SliceIndex:
		lo, hi := op.Resolve(len(candidates))
		return candidates[lo:hi], nil
	}
	return candidates, nil
}

func (ev *evaluator) filter(candidates []value.Value, f ast.Filter, span ast.Span) ([]value.Value, error) {
	var keep func(value.Value) bool
	switch t := f.(type) {
	case *ast.TextFilter:
		if t.Exact {
			keep = func(v value.Value) bool {
				for _, s := range filterTexts(v) {
					if s == t.Pattern {
						return true
					}
				}
				return false
			}
		} else {
			needle := strings.ToLower(t.Pattern)
			keep = func(v value.Value) bool {
				for _, s := range filterTexts(v) {
					if strings.Contains(strings.ToLower(s), needle) {
						return true
					}
				}
				return false
			}
		}
	case *ast.RegexFilter:
		re, err := functions.CompileRegex(t.Pattern, "")
		if err != nil {
			if qe, ok := err.(*tqlerrors.Error); ok {
				return nil, qe.WithSpan(span)
			}
			return nil, err
		}
		keep = func(v value.Value) bool {
			for _, s := range filterTexts(v) {
				if re.MatchString(s) {
					return true
				}
			}
			return false
		}
	case *ast.TypeFilter:
		keep = func(v value.Value) bool { return matchesType(v, t.Name) }
	default:
		return candidates, nil
	}

	out := candidates[:0:0]
	for _, v := range candidates {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// filterTexts is what text and regex filters match against. Links and
// images also match on their target.
func filterTexts(v value.Value) []string {
	switch t := v.(type) {
	case *value.Link:
		return []string{t.Text, t.URL}
	case *value.Image:
		return []string{t.Alt, t.Src}
	default:
		return []string{value.ToText(v)}
	}
}

func matchesType(v value.Value, name string) bool {
	switch t := v.(type) {
	case *value.Code:
		return strings.EqualFold(t.Lang, name)
	case *value.Link:
		return strings.EqualFold(t.LinkType, name)
	}
	return false
}

func (ev *evaluator) evalProperty(e *ast.Property, input value.Value) ([]value.Value, error) {
	if _, ok := input.(value.Null); ok {
		return []value.Value{value.Null{}}, nil
	}
	v, ok := value.Property(input, e.Name)
	if !ok {
		typeName := string(input.Type())
		suggestions := tqlerrors.Suggest(e.Name, value.Properties[input.Type()], tqlerrors.DefaultSuggestionLimit)
		return nil, tqlerrors.PropertyNotFound(e.Name, typeName, e.Pos, suggestions)
	}
	return []value.Value{v}, nil
}

// evalIndex applies a postfix index to every value of its target. Arrays
// and strings index by position, objects iterate their values, null passes
// through. Out of range positions yield nothing.
func (ev *evaluator) evalIndex(e *ast.Index, input value.Value) ([]value.Value, error) {
	targets, err := ev.eval(e.Target, input)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, t := range targets {
		res, err := indexValue(t, e.Op, e.Pos)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func indexValue(v value.Value, op ast.IndexOp, span ast.Span) ([]value.Value, error) {
	switch t := v.(type) {
	case value.Array:
		switch o := op.(type) {
		case *ast.SingleIndex:
			if pos, ok := o.Resolve(len(t)); ok {
				return []value.Value{t[pos]}, nil
			}
			return nil, nil
		case *ast.SliceIndex:
			lo, hi := o.Resolve(len(t))
			return []value.Value{t[lo:hi:hi]}, nil
		case *ast.IterateIndex:
			return append([]value.Value(nil), t...), nil
		}
	case value.String:
		runes := []rune(string(t))
		switch o := op.(type) {
		case *ast.SingleIndex:
			if pos, ok := o.Resolve(len(runes)); ok {
				return []value.Value{value.String(string(runes[pos]))}, nil
			}
			return nil, nil
		case *ast.SliceIndex:
			lo, hi := o.Resolve(len(runes))
			return []value.Value{value.String(runes[lo:hi])}, nil
		case *ast.IterateIndex:
			out := make([]value.Value, len(runes))
			for i, r := range runes {
				out[i] = value.String(string(r))
			}
			return out, nil
		}
	case *value.Object:
		if _, ok := op.(*ast.IterateIndex); ok {
			var out []value.Value
			t.Range(func(_ string, v value.Value) bool {
				out = append(out, v)
				return true
			})
			return out, nil
		}
	case value.Null:
		if _, ok := op.(*ast.IterateIndex); ok {
			return nil, nil
		}
		return []value.Value{value.Null{}}, nil
	}
	return nil, tqlerrors.TypeMismatch(fmt.Sprintf("cannot index %s with %s", v.Type(), op), span, nil)
}

// evalFunction resolves the call, checks arity against the written
// arguments and evaluates each argument against the current input.
func (ev *evaluator) evalFunction(e *ast.Function, input value.Value) ([]value.Value, error) {
	d, ok := ev.registry.Lookup(e.Name)
	if !ok {
		return nil, tqlerrors.UnknownFunction(e.Name, e.Pos, ev.registry.Suggest(e.Name))
	}
	if !d.Arity.Check(len(e.Args)) {
		return nil, tqlerrors.InvalidArity(e.Name, d.Arity.String(), len(e.Args), e.Pos)
	}

	args := make([]value.Value, 0, len(e.Args)+1)
	if d.PipeInput {
		args = append(args, input)
	}
	for _, arg := range e.Args {
		if d.KeyArgs {
			if p, ok := arg.(*ast.Property); ok {
				args = append(args, value.String(p.Name))
				continue
			}
		}
		out, err := ev.eval(arg, input)
		if err != nil {
			return nil, err
		}
		args = append(args, value.Collapse(out))
	}

	out, err := d.Call(args, ev.ctx)
	if err != nil {
		if qe, ok := err.(*tqlerrors.Error); ok {
			return nil, qe.WithSpan(e.Pos)
		}
		return nil, tqlerrors.TypeMismatch(err.Error(), e.Pos, err)
	}
	return out, nil
}

// evalObject builds one object. A value expression with several results
// is stored as an array; one with none is stored as null.
func (ev *evaluator) evalObject(e *ast.Object, input value.Value) ([]value.Value, error) {
	obj := value.NewObject()
	for _, pair := range e.Pairs {
		out, err := ev.eval(pair.Value, input)
		if err != nil {
			return nil, err
		}
		obj.Set(pair.Key, value.Collapse(out))
	}
	return []value.Value{obj}, nil
}

func (ev *evaluator) evalArray(e *ast.Array, input value.Value) ([]value.Value, error) {
	arr := value.Array{}
	for _, el := range e.Elements {
		out, err := ev.eval(el, input)
		if err != nil {
			return nil, err
		}
		arr = append(arr, out...)
	}
	return []value.Value{arr}, nil
}

func (ev *evaluator) evalConditional(e *ast.Conditional, input value.Value) ([]value.Value, error) {
	conds, err := ev.eval(e.Condition, input)
	if err != nil {
		return nil, err
	}
	var out []value.Value
	for _, c := range conds {
		branch := e.Else
		if value.Truthy(c) {
			branch = e.Then
		}
		if branch == nil {
			out = append(out, input)
			continue
		}
		res, err := ev.eval(branch, input)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}
