package value

// Type identifies the runtime variant of a Value.
type Type string

const (
	TypeDocument Type = "document"
	TypeHeading  Type = "heading"
	TypeCode     Type = "code"
	TypeLink     Type = "link"
	TypeImage    Type = "image"
	TypeTable    Type = "table"
	TypeList     Type = "list"
	TypeString   Type = "string"
	TypeNumber   Type = "number"
	TypeBool     Type = "boolean"
	TypeNull     Type = "null"
	TypeArray    Type = "array"
	TypeObject   Type = "object"
)

// Value is the closed set of values a query can produce. The unexported
// marker method keeps the set sealed to this package.
type Value interface {
	Type() Type
	value()
}

// Document is the whole parsed document.
type Document struct {
	Content      string
	HeadingCount int
	WordCount    int
	// FrontMatter is nil when the document has none.
	FrontMatter *Object
}

// Heading is one ATX or setext heading with its section.
type Heading struct {
	Level  int
	Text   string
	Offset int
	Line   int
	// Content is the section body without the heading line.
	Content string
	// RawMD is the full section markdown, heading line included.
	RawMD string
	// Index is the 0-based rank among all headings in document order.
	Index int
}

// Code is a fenced or indented code block.
type Code struct {
	Lang      string
	Content   string
	StartLine int
	EndLine   int
	Offset    int
}

// Link is a hyperlink found anywhere in the document.
type Link struct {
	Text     string
	URL      string
	LinkType string
	Offset   int
}

// Image is a markdown or HTML image.
type Image struct {
	Alt    string
	Src    string
	Title  string
	Offset int
}

// Table is a GFM table.
type Table struct {
	Headers    []string
	Rows       [][]string
	Alignments []string
	Offset     int
}

// ListItem is one entry of a List. Checked is nil for plain items.
type ListItem struct {
	Text    string
	Checked *bool
}

// List is an ordered or bullet list.
type List struct {
	Ordered bool
	Items   []ListItem
	Offset  int
}

type (
	String string
	Number float64
	Bool   bool
	Null   struct{}
	Array  []Value
)

func (*Document) Type() Type { return TypeDocument }
func (*Heading) Type() Type  { return TypeHeading }
func (*Code) Type() Type     { return TypeCode }
func (*Link) Type() Type     { return TypeLink }
func (*Image) Type() Type    { return TypeImage }
func (*Table) Type() Type    { return TypeTable }
func (*List) Type() Type     { return TypeList }
func (String) Type() Type    { return TypeString }
func (Number) Type() Type    { return TypeNumber }
func (Bool) Type() Type      { return TypeBool }
func (Null) Type() Type      { return TypeNull }
func (Array) Type() Type     { return TypeArray }
func (*Object) Type() Type   { return TypeObject }

func (*Document) value() {}
func (*Heading) value()  {}
func (*Code) value()     {}
func (*Link) value()     {}
func (*Image) value()    {}
func (*Table) value()    {}
func (*List) value()     {}
func (String) value()    {}
func (Number) value()    {}
func (Bool) value()      {}
func (Null) value()      {}
func (Array) value()     {}
func (*Object) value()   {}

// Collapse turns a result stream into a single value: nothing becomes null,
// one result stays as is, several become an Array.
func Collapse(vs []Value) Value {
	switch len(vs) {
	case 0:
		return Null{}
	case 1:
		return vs[0]
	default:
		return Array(vs)
	}
}
