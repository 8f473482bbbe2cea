package markdown

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"mdnav-hq/mdnav/pkg/document"
)

// Parser parses markdown with GitHub-flavored extensions: tables, task
// lists, strikethrough and bare-URL autolinks. It implements
// document.BlockParser and document.LinkExtractor and is safe for
// concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// ParserOption configures the parser.
type ParserOption func(*Parser)

// WithExtensions adds goldmark extensions on top of GFM.
func WithExtensions(exts ...goldmark.Extender) ParserOption {
	return func(p *Parser) {
		p.md = goldmark.New(goldmark.WithExtensions(append([]goldmark.Extender{extension.GFM}, exts...)...))
	}
}

// New creates a parser.
func New(opts ...ParserOption) *Parser {
	p := &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	_ document.BlockParser   = (*Parser)(nil)
	_ document.LinkExtractor = (*Parser)(nil)
)

// ParseFile reads and parses a markdown file.
func (p *Parser) ParseFile(path string) (*document.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return p.Parse(content, path)
}

// Parse builds the document snapshot: content, front matter and headings.
// Only top-level headings count; a heading inside a blockquote or list item
// does not open a section.
func (p *Parser) Parse(source []byte, path string) (*document.Document, error) {
	content := string(source)
	raw, bodyOffset := SplitFrontMatter(content)
	root, src := p.parse(content, bodyOffset)

	doc := &document.Document{
		Path:        path,
		Content:     content,
		FrontMatter: raw,
		BodyOffset:  bodyOffset,
	}

	prevStop := bodyOffset
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			doc.Headings = append(doc.Headings, headingOf(h, src, prevStop))
		}
		if stop, ok := lastStop(n); ok {
			prevStop = stop
		}
	}
	return doc, nil
}

// ParseBlocks returns the block tree of content in document order.
func (p *Parser) ParseBlocks(content string) ([]document.Block, error) {
	_, bodyOffset := SplitFrontMatter(content)
	root, src := p.parse(content, bodyOffset)
	b := &blockBuilder{src: src}
	return b.blocks(root), nil
}

func (p *Parser) parse(content string, bodyOffset int) (ast.Node, []byte) {
	src := maskFrontMatter(content, bodyOffset)
	return p.md.Parser().Parse(text.NewReader(src)), src
}

func headingOf(h *ast.Heading, src []byte, prevStop int) document.Heading {
	s := string(src)
	var offset int
	lines := h.Lines()
	if lines.Len() > 0 {
		offset = document.LineStart(s, lines.At(0).Start)
	} else {
		offset = findATXLine(s, prevStop)
	}

	end := document.LineEnd(s, offset)
	if !isATXLine(s[offset:end]) && lines.Len() > 0 {
		// setext: the underline follows the last text line
		end = document.LineEnd(s, document.LineEnd(s, lines.At(lines.Len()-1).Start))
	}

	return document.Heading{
		Level:  h.Level,
		Text:   inlineText(h, src, " "),
		Offset: offset,
		End:    end,
		Line:   document.LineAt(s, offset),
	}
}

func isATXLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), "#")
}

// findATXLine locates an empty ATX heading, which carries no segments, by
// scanning forward for the next line that starts with '#'.
func findATXLine(s string, from int) int {
	for pos := document.LineStart(s, from); pos < len(s); {
		end := document.LineEnd(s, pos)
		if isATXLine(s[pos:end]) {
			return pos
		}
		pos = end
	}
	return document.LineStart(s, from)
}

// firstStart returns the source offset of the first segment under n.
func firstStart(n ast.Node) (int, bool) {
	switch t := n.(type) {
	case *ast.Text:
		return t.Segment.Start, true
	case *ast.RawHTML:
		if t.Segments.Len() > 0 {
			return t.Segments.At(0).Start, true
		}
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := firstStart(c); ok {
			return off, true
		}
	}
	return 0, false
}

// lastStop returns the source offset just past the last segment under n.
func lastStop(n ast.Node) (int, bool) {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(lines.Len() - 1).Stop, true
		}
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if off, ok := lastStop(c); ok {
			return off, true
		}
	}
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Stop, true
	}
	return 0, false
}

// inlineText collects the visible text under n with markup stripped. Line
// breaks inside the node are joined with sep.
func inlineText(n ast.Node, src []byte, sep string) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteString(sep)
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
