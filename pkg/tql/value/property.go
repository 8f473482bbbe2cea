package value

// Properties lists the property names each markdown variant answers to,
// in display order. Aliases are accepted by Property but not listed.
var Properties = map[Type][]string{
	TypeDocument: {"content", "heading_count", "word_count", "frontmatter"},
	TypeHeading:  {"level", "text", "offset", "line", "index", "content", "raw_md"},
	TypeCode:     {"lang", "content", "start_line", "end_line", "offset"},
	TypeLink:     {"text", "url", "link_type", "offset"},
	TypeImage:    {"alt", "src", "title", "offset"},
	TypeTable:    {"headers", "rows", "alignments", "offset"},
	TypeList:     {"ordered", "items", "offset"},
}

// Property looks up a named field on v. Objects answer with null for a
// missing key; every other variant reports ok=false for unknown names.
func Property(v Value, name string) (Value, bool) {
	switch t := v.(type) {
	case *Object:
		if got, ok := t.Get(name); ok {
			return got, true
		}
		return Null{}, true
	case *Document:
		switch name {
		case "content", "text":
			return String(t.Content), true
		case "heading_count":
			return Number(t.HeadingCount), true
		case "word_count", "words":
			return Number(t.WordCount), true
		case "frontmatter":
			if t.FrontMatter == nil {
				return Null{}, true
			}
			return t.FrontMatter, true
		}
	case *Heading:
		switch name {
		case "level":
			return Number(t.Level), true
		case "text", "title":
			return String(t.Text), true
		case "offset":
			return Number(t.Offset), true
		case "line":
			return Number(t.Line), true
		case "index":
			return Number(t.Index), true
		case "content":
			return String(t.Content), true
		case "raw_md", "md", "raw":
			return String(t.RawMD), true
		}
	case *Code:
		switch name {
		case "lang", "language":
			return String(t.Lang), true
		case "content", "text":
			return String(t.Content), true
		case "start_line", "line":
			return Number(t.StartLine), true
		case "end_line":
			return Number(t.EndLine), true
		case "offset":
			return Number(t.Offset), true
		}
	case *Link:
		switch name {
		case "text":
			return String(t.Text), true
		case "url", "href":
			return String(t.URL), true
		case "link_type", "type", "kind":
			return String(t.LinkType), true
		case "offset":
			return Number(t.Offset), true
		}
	case *Image:
		switch name {
		case "alt", "text":
			return String(t.Alt), true
		case "src", "url":
			return String(t.Src), true
		case "title":
			return String(t.Title), true
		case "offset":
			return Number(t.Offset), true
		}
	case *Table:
		switch name {
		case "headers":
			return stringArray(t.Headers), true
		case "rows":
			return rowsArray(t.Rows), true
		case "alignments":
			return stringArray(t.Alignments), true
		case "offset":
			return Number(t.Offset), true
		}
	case *List:
		switch name {
		case "ordered":
			return Bool(t.Ordered), true
		case "items":
			return itemsArray(t.Items), true
		case "offset":
			return Number(t.Offset), true
		}
	}
	return nil, false
}
