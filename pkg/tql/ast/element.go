package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ElementType names a markdown structural kind an element selector draws from.
type ElementType string

const (
	ElementHeading     ElementType = "heading"
	ElementCode        ElementType = "code"
	ElementLink        ElementType = "link"
	ElementImage       ElementType = "image"
	ElementTable       ElementType = "table"
	ElementList        ElementType = "list"
	ElementBlockquote  ElementType = "blockquote"
	ElementParagraph   ElementType = "paragraph"
	ElementFrontMatter ElementType = "frontmatter"
)

// ElementKind is an element type plus, for headings, an optional level.
// Level 0 selects headings of every level.
type ElementKind struct {
	Type  ElementType
	Level int
}

// elementNames maps selector identifiers to element types. Heading selectors
// (h, h1..h6) are handled by LookupElement.
var elementNames = map[string]ElementType{
	"code":        ElementCode,
	"link":        ElementLink,
	"links":       ElementLink,
	"a":           ElementLink,
	"img":         ElementImage,
	"image":       ElementImage,
	"images":      ElementImage,
	"table":       ElementTable,
	"tables":      ElementTable,
	"list":        ElementList,
	"lists":       ElementList,
	"blockquote":  ElementBlockquote,
	"quote":       ElementBlockquote,
	"para":        ElementParagraph,
	"paragraph":   ElementParagraph,
	"frontmatter": ElementFrontMatter,
	"fm":          ElementFrontMatter,
}

// LookupElement resolves a selector identifier such as "h2" or "code".
// The second result is false when name is not an element selector; err is
// set when name looks like a heading selector with an invalid level.
func LookupElement(name string) (kind ElementKind, ok bool, err error) {
	if name == "h" || name == "heading" || name == "headings" {
		return ElementKind{Type: ElementHeading}, true, nil
	}
	if len(name) > 1 && name[0] == 'h' {
		if level, convErr := strconv.Atoi(name[1:]); convErr == nil {
			if level < 1 || level > 6 {
				return ElementKind{}, true, fmt.Errorf("unknown element kind %q: heading level must be 1-6", name)
			}
			return ElementKind{Type: ElementHeading, Level: level}, true, nil
		}
	}
	if t, found := elementNames[name]; found {
		return ElementKind{Type: t}, true, nil
	}
	return ElementKind{}, false, nil
}

// String returns the canonical selector name.
func (k ElementKind) String() string {
	switch k.Type {
	case ElementHeading:
		if k.Level > 0 {
			return fmt.Sprintf("h%d", k.Level)
		}
		return "h"
	case ElementImage:
		return "img"
	case ElementParagraph:
		return "para"
	default:
		return string(k.Type)
	}
}

// Filter narrows an element selection. Filters never reorder candidates.
type Filter interface {
	filter()
	String() string
}

// TextFilter matches against a value's textual rendering: a case-insensitive
// substring when Exact is false, string equality otherwise.
type TextFilter struct {
	Pattern string
	Exact   bool
}

// RegexFilter matches the textual rendering against a regular expression.
type RegexFilter struct {
	Pattern string
}

// TypeFilter matches a link's type tag or a code block's language.
type TypeFilter struct {
	Name string
}

func (*TextFilter) filter()  {}
func (*RegexFilter) filter() {}
func (*TypeFilter) filter()  {}

func (f *TextFilter) String() string {
	if f.Exact {
		return "[" + strconv.Quote(f.Pattern) + "]"
	}
	return "[" + f.Pattern + "]"
}

func (f *RegexFilter) String() string { return "[/" + f.Pattern + "/]" }
func (f *TypeFilter) String() string  { return "[" + f.Name + "]" }

// IndexOp selects by position. It applies after all filters.
type IndexOp interface {
	index()
	String() string
}

// SingleIndex selects one element; negative values count from the end.
type SingleIndex struct {
	Index int
}

// SliceIndex selects a half-open range. Nil bounds are open.
type SliceIndex struct {
	Start *int
	End   *int
}

// IterateIndex is the empty bracket "[]". On element selections it passes
// candidates through unchanged; on arrays it explodes the elements.
type IterateIndex struct{}

func (*SingleIndex) index()  {}
func (*SliceIndex) index()   {}
func (*IterateIndex) index() {}

func (i *SingleIndex) String() string { return "[" + strconv.Itoa(i.Index) + "]" }

func (i *SliceIndex) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	if i.Start != nil {
		sb.WriteString(strconv.Itoa(*i.Start))
	}
	sb.WriteByte(':')
	if i.End != nil {
		sb.WriteString(strconv.Itoa(*i.End))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (*IterateIndex) String() string { return "[]" }

// Resolve converts the slice bounds into [lo, hi) for a sequence of length n.
// Negative bounds resolve against n before clamping; hi < lo yields an
// empty range.
func (i *SliceIndex) Resolve(n int) (lo, hi int) {
	lo, hi = 0, n
	if i.Start != nil {
		lo = *i.Start
		if lo < 0 {
			lo += n
		}
	}
	if i.End != nil {
		hi = *i.End
		if hi < 0 {
			hi += n
		}
	}
	lo = max(0, min(lo, n))
	hi = max(0, min(hi, n))
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Resolve converts the index into a position for a sequence of length n.
// ok is false when the position is out of range.
func (i *SingleIndex) Resolve(n int) (pos int, ok bool) {
	pos = i.Index
	if pos < 0 {
		pos += n
	}
	return pos, pos >= 0 && pos < n
}
