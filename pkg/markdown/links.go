package markdown

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"

	"mdnav-hq/mdnav/pkg/document"
)

var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\]`)

// ExtractLinks returns every link in content ordered by offset: inline and
// reference links, autolinks, [[wikilinks]] and <a href> tags in HTML
// blocks. Links inside code are ignored.
func (p *Parser) ExtractLinks(content string) ([]document.Link, error) {
	_, bodyOffset := SplitFrontMatter(content)
	root, src := p.parse(content, bodyOffset)
	b := &blockBuilder{src: src}

	var links []document.Link
	add := func(text, url string, offset int) {
		links = append(links, document.Link{
			Text:   text,
			URL:    url,
			Type:   document.ClassifyURL(url),
			Offset: offset,
		})
	}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			switch n.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				links = append(links, wikiLinks(n, src)...)
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			offset := b.inlineOffset(node, b.lineStart(node.Parent()))
			if offset > 0 {
				offset--
			}
			add(inlineText(node, src, " "), string(node.Destination), offset)
		case *ast.AutoLink:
			url := string(node.URL(src))
			if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
				url = "mailto:" + url
			}
			label := node.Label(src)
			add(string(label), url, autoLinkOffset(src, label, b.lineStart(node.Parent()), links))
		case *ast.HTMLBlock:
			offset := b.lineStart(node)
			scanHTML(htmlBlockText(node, src), offset, htmlEvents{
				link: func(text, href string) { add(text, href, offset) },
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(links, func(i, j int) bool { return links[i].Offset < links[j].Offset })
	return links, nil
}

// autoLinkOffset finds an autolink label in the source. goldmark does not
// expose its position, so the search starts at the enclosing block or the
// previous link, whichever is later.
func autoLinkOffset(src, label []byte, blockStart int, seen []document.Link) int {
	from := blockStart
	if n := len(seen); n > 0 && seen[n-1].Offset > from {
		from = seen[n-1].Offset + 1
	}
	if from >= len(src) {
		return blockStart
	}
	idx := bytes.Index(src[from:], label)
	if idx < 0 {
		return blockStart
	}
	off := from + idx
	if off > 0 && src[off-1] == '<' {
		off--
	}
	return off
}

// wikiLinks scans the raw lines of a text block. goldmark leaves [[...]]
// as literal text, so the raw source is matched instead of inline nodes.
func wikiLinks(n ast.Node, src []byte) []document.Link {
	var out []document.Link
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := seg.Value(src)
		for _, m := range wikiLinkPattern.FindAllSubmatchIndex(line, -1) {
			target := strings.TrimSpace(string(line[m[2]:m[3]]))
			text := target
			if m[4] >= 0 {
				text = strings.TrimSpace(string(line[m[4]:m[5]]))
			}
			out = append(out, document.Link{
				Text:   text,
				URL:    target,
				Type:   document.LinkWiki,
				Offset: seg.Start + m[0],
			})
		}
	}
	return out
}
