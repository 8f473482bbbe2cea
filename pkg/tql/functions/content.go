package functions

import (
	"mdnav-hq/mdnav/pkg/tql/value"
)

func contentBuiltins() []*Descriptor {
	return []*Descriptor{
		{Name: "content", Family: FamilyContent, Arity: Exactly(0), PipeInput: true,
			Usage: "content", Help: "section body of a heading, body of a code block", Call: contentFn},
		{Name: "md", Aliases: []string{"markdown", "raw"}, Family: FamilyContent, Arity: Exactly(0), PipeInput: true,
			Usage: "md", Help: "markdown source of the input", Call: mdFn},
		{Name: "url", Aliases: []string{"href", "src"}, Family: FamilyContent, Arity: Exactly(0), PipeInput: true,
			Usage: "url", Help: "target of a link or source of an image", Call: urlFn},
		{Name: "lang", Family: FamilyContent, Arity: Exactly(0), PipeInput: true,
			Usage: "lang", Help: "language tag of a code block", Call: langFn},
		{Name: "children", Family: FamilyContent, Arity: Exactly(0), PipeInput: true,
			Usage: "children", Help: "headings exactly one level below a heading, inside its section", Call: childrenFn},
		{Name: "parent", Family: FamilyContent, Arity: Exactly(0), PipeInput: true,
			Usage: "parent", Help: "heading whose section encloses the input", Call: parentFn},
	}
}

func contentFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case *value.Heading:
		return one(value.String(v.Content)), nil
	case *value.Code:
		return one(value.String(v.Content)), nil
	case *value.Document:
		return one(value.String(v.Content)), nil
	case value.Array, *value.Object, value.Null:
		return nil, typeMismatch("content", v, "markdown")
	}
	return one(value.String(value.ToText(args[0]))), nil
}

func mdFn(args []value.Value, _ Env) ([]value.Value, error) {
	return one(value.String(value.ToMarkdown(args[0]))), nil
}

func urlFn(args []value.Value, _ Env) ([]value.Value, error) {
	switch v := args[0].(type) {
	case *value.Link:
		return one(value.String(v.URL)), nil
	case *value.Image:
		return one(value.String(v.Src)), nil
	}
	return nil, typeMismatch("url", args[0], "link or image")
}

func langFn(args []value.Value, _ Env) ([]value.Value, error) {
	if c, ok := args[0].(*value.Code); ok {
		return one(value.String(c.Lang)), nil
	}
	return nil, typeMismatch("lang", args[0], "code")
}

func childrenFn(args []value.Value, env Env) ([]value.Value, error) {
	h, ok := args[0].(*value.Heading)
	if !ok {
		return nil, typeMismatch("children", args[0], "heading")
	}
	headings := env.Headings()
	out := value.Array{}
	for i := h.Index + 1; i < len(headings); i++ {
		next := headings[i]
		if next.Level <= h.Level {
			break
		}
		if next.Level == h.Level+1 {
			out = append(out, next)
		}
	}
	return one(out), nil
}

func parentFn(args []value.Value, env Env) ([]value.Value, error) {
	headings := env.Headings()
	var offset int
	switch v := args[0].(type) {
	case *value.Heading:
		for i := v.Index - 1; i >= 0; i-- {
			if headings[i].Level < v.Level {
				return one(headings[i]), nil
			}
		}
		return one(value.Null{}), nil
	case *value.Code:
		offset = v.Offset
	case *value.Link:
		offset = v.Offset
	case *value.Image:
		offset = v.Offset
	case *value.Table:
		offset = v.Offset
	case *value.List:
		offset = v.Offset
	default:
		return nil, typeMismatch("parent", args[0], "markdown element")
	}
	for i := len(headings) - 1; i >= 0; i-- {
		if headings[i].Offset <= offset {
			return one(headings[i]), nil
		}
	}
	return one(value.Null{}), nil
}
