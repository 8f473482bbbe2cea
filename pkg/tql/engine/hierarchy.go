package engine

import (
	"mdnav-hq/mdnav/pkg/tql/ast"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// evalHierarchy selects child elements inside the sections of the parent
// headings. Values of the parent expression that are not headings are
// ignored. Children reached through several parents are returned once, and
// the child selector's filters and index apply to the combined result.
func (ev *evaluator) evalHierarchy(e *ast.Hierarchy, input value.Value) ([]value.Value, error) {
	parents, err := ev.eval(e.Parent, input)
	if err != nil {
		return nil, err
	}

	var (
		found []value.Value
		seen  = make(map[value.Value]bool)
	)
	for _, p := range parents {
		h, ok := p.(*value.Heading)
		if !ok {
			continue
		}
		var children []value.Value
		if e.Child.Kind.Type == ast.ElementHeading {
			children = ev.subHeadings(h, e.Child.Kind.Level, e.Direct)
		} else {
			children = ev.sectionElements(h, e.Child.Kind, e.Direct)
		}
		for _, c := range children {
			if !seen[c] {
				seen[c] = true
				found = append(found, c)
			}
		}
	}
	if len(found) == 0 {
		return nil, nil
	}
	return ev.refine(found, e.Child)
}

// subHeadings scans forward from the parent until a heading of the same or
// a lower level closes its section. In direct mode a candidate is dropped
// when an earlier heading in the window sits at a level strictly between
// the parent's and the candidate's.
func (ev *evaluator) subHeadings(parent *value.Heading, level int, direct bool) []value.Value {
	headings := ev.ctx.Headings()
	var out []value.Value
	for i := parent.Index + 1; i < len(headings); i++ {
		h := headings[i]
		if h.Level <= parent.Level {
			break
		}
		if level != 0 && h.Level != level {
			continue
		}
		if direct && hasIntermediate(headings[parent.Index+1:i], parent.Level, h.Level) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func hasIntermediate(between []*value.Heading, parentLevel, childLevel int) bool {
	for _, b := range between {
		if b.Level > parentLevel && b.Level < childLevel {
			return true
		}
	}
	return false
}

// sectionElements returns non-heading elements whose offset lies inside
// the parent's section. In direct mode the range ends at the first
// sub-heading.
func (ev *evaluator) sectionElements(parent *value.Heading, kind ast.ElementKind, direct bool) []value.Value {
	lo, hi := parent.Offset, ev.ctx.SectionEnd(parent)
	if direct {
		if headings := ev.ctx.Headings(); parent.Index+1 < len(headings) {
			if next := headings[parent.Index+1]; next.Offset < hi {
				hi = next.Offset
			}
		}
	}

	var out []value.Value
	for _, c := range ev.candidates(kind) {
		off, ok := offsetOf(c)
		if ok && off >= lo && off < hi {
			out = append(out, c)
		}
	}
	return out
}

func offsetOf(v value.Value) (int, bool) {
	switch t := v.(type) {
	case *value.Code:
		return t.Offset, true
	case *value.Link:
		return t.Offset, true
	case *value.Image:
		return t.Offset, true
	case *value.Table:
		return t.Offset, true
	case *value.List:
		return t.Offset, true
	}
	return 0, false
}
