package document

// Block is one content block produced by a BlockParser. The set is closed:
// CodeBlock, Image, Table, List, Quote, Details and Paragraph.
type Block interface {
	// Pos is the byte offset of the start of the block's first line.
	Pos() int
	block()
}

// CodeBlock is a fenced or indented code block.
type CodeBlock struct {
	Lang    string
	Content string
	// StartLine and EndLine are 1-based and include the fences.
	StartLine int
	EndLine   int
	Offset    int
}

// Image is an image reference, either markdown or an HTML <img> tag.
type Image struct {
	Alt    string
	Src    string
	Title  string
	Offset int
}

// Table is a GFM table. Alignments holds "left", "center", "right" or
// "none" per column.
type Table struct {
	Headers    []string
	Rows       [][]string
	Alignments []string
	Offset     int
}

// ListItem is one list entry. Blocks holds nested content such as code
// blocks and sub-lists.
type ListItem struct {
	Text    string
	Checked *bool
	Blocks  []Block
}

// List is an ordered or bullet list.
type List struct {
	Ordered bool
	Items   []ListItem
	Offset  int
}

// Quote is a blockquote.
type Quote struct {
	Blocks []Block
	Offset int
}

// Details is an HTML <details> element with markdown inside.
type Details struct {
	Summary string
	Blocks  []Block
	Offset  int
}

// Paragraph is running text along with the images inlined in it.
type Paragraph struct {
	Text   string
	Images []Image
	Offset int
}

func (b *CodeBlock) Pos() int { return b.Offset }
func (b *Image) Pos() int     { return b.Offset }
func (b *Table) Pos() int     { return b.Offset }
func (b *List) Pos() int      { return b.Offset }
func (b *Quote) Pos() int     { return b.Offset }
func (b *Details) Pos() int   { return b.Offset }
func (b *Paragraph) Pos() int { return b.Offset }

func (*CodeBlock) block() {}
func (*Image) block()     {}
func (*Table) block()     {}
func (*List) block()      {}
func (*Quote) block()     {}
func (*Details) block()   {}
func (*Paragraph) block() {}

// Walk visits blocks depth-first in document order. Containers (Quote,
// Details, List items) are visited before their children.
func Walk(blocks []Block, fn func(Block)) {
	for _, b := range blocks {
		fn(b)
		switch t := b.(type) {
		case *Quote:
			Walk(t.Blocks, fn)
		case *Details:
			Walk(t.Blocks, fn)
		case *List:
			for _, item := range t.Items {
				Walk(item.Blocks, fn)
			}
		}
	}
}
