package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"mdnav-hq/mdnav/pkg/document"
)

// blockBuilder converts goldmark block nodes into document blocks. Every
// container (document, blockquote, list item) goes through blocks, which
// also assembles <details> elements out of sibling HTML blocks.
type blockBuilder struct {
	src []byte
}

func (b *blockBuilder) blocks(parent ast.Node) []document.Block {
	var (
		out  []document.Block
		open []*document.Details
	)
	emit := func(blk document.Block) {
		if len(open) > 0 {
			d := open[len(open)-1]
			d.Blocks = append(d.Blocks, blk)
			return
		}
		out = append(out, blk)
	}
	closeTop := func() {
		d := open[len(open)-1]
		open = open[:len(open)-1]
		emit(d)
	}

	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.HTMLBlock:
			offset := b.lineStart(node)
			scanHTML(htmlBlockText(node, b.src), offset, htmlEvents{
				openDetails: func() {
					open = append(open, &document.Details{Offset: offset})
				},
				summary: func(text string) {
					if len(open) > 0 && open[len(open)-1].Summary == "" {
						open[len(open)-1].Summary = text
					}
				},
				closeDetails: func() {
					if len(open) > 0 {
						closeTop()
					}
				},
				image: func(img document.Image) {
					emit(&img)
				},
			})
		default:
			if blk := b.block(n); blk != nil {
				emit(blk)
			}
		}
	}
	for len(open) > 0 {
		closeTop()
	}
	return out
}

func (b *blockBuilder) block(n ast.Node) document.Block {
	switch node := n.(type) {
	case *ast.FencedCodeBlock:
		return b.fencedCode(node)
	case *ast.CodeBlock:
		return b.indentedCode(node)
	case *ast.Paragraph, *ast.TextBlock:
		return b.paragraph(node)
	case *east.Table:
		return b.table(node)
	case *ast.List:
		return b.list(node)
	case *ast.Blockquote:
		return &document.Quote{Blocks: b.blocks(node), Offset: b.lineStart(node)}
	}
	return nil
}

func (b *blockBuilder) lineStart(n ast.Node) int {
	off, ok := firstStart(n)
	if !ok {
		return 0
	}
	return document.LineStart(string(b.src), off)
}

func (b *blockBuilder) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

func (b *blockBuilder) fencedCode(node *ast.FencedCodeBlock) *document.CodeBlock {
	s := string(b.src)
	code := &document.CodeBlock{
		Lang:    string(node.Language(b.src)),
		Content: b.lines(node),
	}
	lines := node.Lines()
	switch {
	case lines.Len() > 0:
		first := document.LineStart(s, lines.At(0).Start)
		code.Offset = document.LineStart(s, first-1)
		code.StartLine = document.LineAt(s, code.Offset)
		code.EndLine = min(document.LineAt(s, lines.At(lines.Len()-1).Start)+1, document.LineAt(s, len(s)))
	case node.Info != nil:
		code.Offset = document.LineStart(s, node.Info.Segment.Start)
		code.StartLine = document.LineAt(s, code.Offset)
		code.EndLine = min(code.StartLine+1, document.LineAt(s, len(s)))
	}
	return code
}

func (b *blockBuilder) indentedCode(node *ast.CodeBlock) *document.CodeBlock {
	s := string(b.src)
	code := &document.CodeBlock{Content: b.lines(node)}
	if lines := node.Lines(); lines.Len() > 0 {
		code.Offset = document.LineStart(s, lines.At(0).Start)
		code.StartLine = document.LineAt(s, code.Offset)
		code.EndLine = document.LineAt(s, lines.At(lines.Len()-1).Start)
	}
	return code
}

func (b *blockBuilder) paragraph(n ast.Node) *document.Paragraph {
	p := &document.Paragraph{
		Text:   inlineText(n, b.src, "\n"),
		Offset: b.lineStart(n),
	}
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Image:
			p.Images = append(p.Images, document.Image{
				Alt:    inlineText(t, b.src, " "),
				Src:    string(t.Destination),
				Title:  string(t.Title),
				Offset: b.inlineOffset(t, p.Offset),
			})
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			raw := string(t.Segments.Value(b.src))
			scanHTML(raw, b.inlineOffset(t, p.Offset), htmlEvents{
				image: func(img document.Image) { p.Images = append(p.Images, img) },
			})
		}
		return ast.WalkContinue, nil
	})
	return p
}

// inlineOffset approximates the offset of an inline node by its first text
// segment, falling back to the enclosing block.
func (b *blockBuilder) inlineOffset(n ast.Node, fallback int) int {
	if off, ok := firstStart(n); ok {
		return off
	}
	return fallback
}

func (b *blockBuilder) table(node *east.Table) *document.Table {
	t := &document.Table{Offset: b.lineStart(node)}
	for _, a := range node.Alignments {
		t.Alignments = append(t.Alignments, a.String())
	}
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, inlineText(cell, b.src, " "))
		}
		switch row.(type) {
		case *east.TableHeader:
			t.Headers = cells
		case *east.TableRow:
			t.Rows = append(t.Rows, cells)
		}
	}
	return t
}

func (b *blockBuilder) list(node *ast.List) *document.List {
	l := &document.List{Ordered: node.IsOrdered(), Offset: b.lineStart(node)}
	for item := node.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}
		entry := document.ListItem{Blocks: b.blocks(li)}
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if _, isText := c.(*ast.TextBlock); !isText && !ast.IsParagraph(c) {
				continue
			}
			entry.Text = inlineText(c, b.src, " ")
			if box, ok := c.FirstChild().(*east.TaskCheckBox); ok {
				checked := box.IsChecked
				entry.Checked = &checked
			}
			break
		}
		l.Items = append(l.Items, entry)
	}
	return l
}

func htmlBlockText(node *ast.HTMLBlock, src []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	if node.HasClosure() {
		sb.Write(node.ClosureLine.Value(src))
	}
	return sb.String()
}
