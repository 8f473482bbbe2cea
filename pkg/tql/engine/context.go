package engine

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"mdnav-hq/mdnav/pkg/document"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// Context is the evaluation context: every element of one document,
// extracted once and never mutated. It implements functions.Env.
type Context struct {
	doc         *value.Document
	headings    []*value.Heading
	sectionEnds []int
	code        []*value.Code
	links       []*value.Link
	images      []*value.Image
	tables      []*value.Table
	lists       []*value.List

	frontMatterErr error
}

// NewContext extracts the element inventories of doc. Blocks and links are
// derived by running the given parser and extractor over doc.Content.
func NewContext(doc *document.Document, blocks document.BlockParser, links document.LinkExtractor) (*Context, error) {
	c := &Context{
		doc: &value.Document{
			Content:      doc.Content,
			HeadingCount: len(doc.Headings),
			WordCount:    doc.WordCount(),
		},
	}

	fm, err := decodeFrontMatter(doc)
	if err != nil {
		c.frontMatterErr = err
		fm = value.NewObject().
			Set("raw", value.String(doc.FrontMatter)).
			Set("error", value.String(err.Error()))
	}
	if fm != nil {
		c.doc.FrontMatter = fm
	}

	c.headings = make([]*value.Heading, len(doc.Headings))
	c.sectionEnds = make([]int, len(doc.Headings))
	for i, h := range doc.Headings {
		c.headings[i] = &value.Heading{
			Level:   h.Level,
			Text:    h.Text,
			Offset:  h.Offset,
			Line:    h.Line,
			Content: doc.SectionBody(i),
			RawMD:   doc.Section(i),
			Index:   i,
		}
		c.sectionEnds[i] = doc.SectionEnd(i)
	}

	if blocks != nil {
		tree, err := blocks.ParseBlocks(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("parsing blocks: %w", err)
		}
		document.Walk(tree, c.collect)
	}

	if links != nil {
		found, err := links.ExtractLinks(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("extracting links: %w", err)
		}
		c.links = make([]*value.Link, len(found))
		for i, l := range found {
			c.links[i] = &value.Link{Text: l.Text, URL: l.URL, LinkType: string(l.Type), Offset: l.Offset}
		}
	}
	return c, nil
}

// collect is the single visitor for top-level and nested blocks alike.
func (c *Context) collect(b document.Block) {
	switch t := b.(type) {
	case *document.CodeBlock:
		c.code = append(c.code, &value.Code{
			Lang:      t.Lang,
			Content:   t.Content,
			StartLine: t.StartLine,
			EndLine:   t.EndLine,
			Offset:    t.Offset,
		})
	case *document.Image:
		c.images = append(c.images, imageValue(*t))
	case *document.Paragraph:
		for _, img := range t.Images {
			c.images = append(c.images, imageValue(img))
		}
	case *document.Table:
		c.tables = append(c.tables, &value.Table{
			Headers:    t.Headers,
			Rows:       t.Rows,
			Alignments: t.Alignments,
			Offset:     t.Offset,
		})
	case *document.List:
		l := &value.List{Ordered: t.Ordered, Offset: t.Offset}
		for _, item := range t.Items {
			l.Items = append(l.Items, value.ListItem{Text: item.Text, Checked: item.Checked})
		}
		c.lists = append(c.lists, l)
	}
}

func imageValue(img document.Image) *value.Image {
	return &value.Image{Alt: img.Alt, Src: img.Src, Title: img.Title, Offset: img.Offset}
}

// decodeFrontMatter returns nil when the document has no front matter. A
// front matter block that is not a mapping is exposed under the "value"
// key. Invalid YAML is reported but does not stop extraction: NewContext
// exposes the raw text under "raw" with the parse error under "error".
func decodeFrontMatter(doc *document.Document) (*value.Object, error) {
	if doc.BodyOffset == 0 && doc.FrontMatter == "" {
		return nil, nil
	}
	if strings.TrimSpace(doc.FrontMatter) == "" {
		return value.NewObject(), nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(doc.FrontMatter), &node); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	switch v := value.FromYAML(&node).(type) {
	case *value.Object:
		return v, nil
	case value.Null:
		return value.NewObject(), nil
	default:
		return value.NewObject().Set("value", v), nil
	}
}

// FrontMatterError returns the YAML error of the document's front matter,
// if it could not be decoded.
func (c *Context) FrontMatterError() error { return c.frontMatterErr }

func (c *Context) Document() *value.Document  { return c.doc }
func (c *Context) Headings() []*value.Heading { return c.headings }
func (c *Context) CodeBlocks() []*value.Code  { return c.code }
func (c *Context) Links() []*value.Link       { return c.links }
func (c *Context) Images() []*value.Image     { return c.images }
func (c *Context) Tables() []*value.Table     { return c.tables }
func (c *Context) Lists() []*value.List       { return c.lists }

// SectionEnd returns the byte offset where heading h's section ends.
func (c *Context) SectionEnd(h *value.Heading) int {
	if h.Index >= 0 && h.Index < len(c.sectionEnds) {
		return c.sectionEnds[h.Index]
	}
	return len(c.doc.Content)
}
