package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdnav-hq/mdnav/pkg/document"
)

const sample = `---
title: Guide
tags: [a, b]
---
# Guide

Intro with a [link](https://example.com) and [[Wiki Page|wiki]].

## Install **now**

` + "```go\nfmt.Println(\"hi\")\n```" + `

- [x] done
- [ ] todo
  - nested

Setext Title
------------

> quoted
>
> ` + "```sh\n> ls\n> ```" + `

<details>
<summary>More</summary>

![diagram](img/d.png "Diagram")

</details>

| Name | Size |
|:-----|-----:|
| a    | 1    |
`

func parseSample(t *testing.T) *document.Document {
	t.Helper()
	doc, err := New().Parse([]byte(sample), "guide.md")
	require.NoError(t, err)
	return doc
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		raw     string
		body    int
	}{
		{"none", "# Title\n", "", 0},
		{"basic", "---\na: 1\n---\n# T\n", "a: 1\n", 13},
		{"dots", "---\na: 1\n...\nbody", "a: 1\n", 13},
		{"empty", "---\n---\nbody", "", 8},
		{"unterminated", "---\na: 1\n", "", 0},
		{"not at start", "\n---\na: 1\n---\n", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, body := SplitFrontMatter(tt.content)
			assert.Equal(t, tt.raw, raw)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestParseHeadings(t *testing.T) {
	doc := parseSample(t)

	require.Len(t, doc.Headings, 3)
	assert.Equal(t, "title: Guide\ntags: [a, b]\n", doc.FrontMatter)

	h := doc.Headings[0]
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "Guide", h.Text)
	assert.Equal(t, 5, h.Line)
	assert.Equal(t, "# Guide", doc.Content[h.Offset:h.End-1])

	assert.Equal(t, "Install now", doc.Headings[1].Text)
	assert.Equal(t, 2, doc.Headings[1].Level)

	setext := doc.Headings[2]
	assert.Equal(t, "Setext Title", setext.Text)
	assert.Equal(t, 2, setext.Level)
	assert.Equal(t, "Setext Title\n------------\n", doc.Content[setext.Offset:setext.End])
}

func TestSections(t *testing.T) {
	doc, err := New().Parse([]byte("# A\nintro\n## B\nbody b\n# C\nend\n"), "")
	require.NoError(t, err)
	require.Len(t, doc.Headings, 3)

	assert.Equal(t, "# A\nintro\n## B\nbody b\n", doc.Section(0))
	assert.Equal(t, "intro\n## B\nbody b", doc.SectionBody(0))
	assert.Equal(t, "body b", doc.SectionBody(1))
	assert.Equal(t, "# C\nend\n", doc.Section(2))

	section, ok := doc.ExtractSection("b")
	assert.True(t, ok)
	assert.Equal(t, "## B\nbody b\n", section)
}

func TestParseBlocks(t *testing.T) {
	blocks, err := New().ParseBlocks(sample)
	require.NoError(t, err)

	var (
		codes   []*document.CodeBlock
		lists   []*document.List
		tables  []*document.Table
		quotes  []*document.Quote
		details []*document.Details
		images  []document.Image
	)
	document.Walk(blocks, func(b document.Block) {
		switch t := b.(type) {
		case *document.CodeBlock:
			codes = append(codes, t)
		case *document.List:
			lists = append(lists, t)
		case *document.Table:
			tables = append(tables, t)
		case *document.Quote:
			quotes = append(quotes, t)
		case *document.Details:
			details = append(details, t)
		case *document.Paragraph:
			images = append(images, t.Images...)
		case *document.Image:
			images = append(images, *t)
		}
	})

	require.Len(t, codes, 2)
	assert.Equal(t, "go", codes[0].Lang)
	assert.Equal(t, "fmt.Println(\"hi\")\n", codes[0].Content)
	assert.Equal(t, 11, codes[0].StartLine)
	assert.Equal(t, 13, codes[0].EndLine)
	assert.Equal(t, "sh", codes[1].Lang, "code inside blockquote")

	require.Len(t, lists, 2, "nested list surfaces separately")
	require.Len(t, lists[0].Items, 2)
	assert.Equal(t, "done", lists[0].Items[0].Text)
	require.NotNil(t, lists[0].Items[0].Checked)
	assert.True(t, *lists[0].Items[0].Checked)
	assert.False(t, *lists[0].Items[1].Checked)
	assert.Equal(t, "nested", lists[1].Items[0].Text)
	assert.Nil(t, lists[1].Items[0].Checked)

	require.Len(t, quotes, 1)
	require.Len(t, details, 1)
	assert.Equal(t, "More", details[0].Summary)

	require.Len(t, images, 1)
	assert.Equal(t, "diagram", images[0].Alt)
	assert.Equal(t, "img/d.png", images[0].Src)
	assert.Equal(t, "Diagram", images[0].Title)

	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Name", "Size"}, tables[0].Headers)
	assert.Equal(t, [][]string{{"a", "1"}}, tables[0].Rows)
	assert.Equal(t, []string{"left", "right"}, tables[0].Alignments)
}

func TestHTMLImagesAndDetails(t *testing.T) {
	content := "<details><summary>Hidden</summary><img src=\"a.png\" alt=\"A\"></details>\n\n" +
		"Text with <img src=\"b.png\" alt=\"B\"> inline.\n"
	blocks, err := New().ParseBlocks(content)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	d, ok := blocks[0].(*document.Details)
	require.True(t, ok)
	assert.Equal(t, "Hidden", d.Summary)
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, "a.png", d.Blocks[0].(*document.Image).Src)

	p, ok := blocks[1].(*document.Paragraph)
	require.True(t, ok)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "B", p.Images[0].Alt)
}

func TestExtractLinks(t *testing.T) {
	content := "See [docs](./docs/a.md), [top](#top), <https://go.dev>, " +
		"<me@example.com> and [[Home|home page]].\n\n" +
		"```\n[not](a link)\n```\n\n" +
		"<p><a href=\"https://html.example\">html</a></p>\n"
	links, err := New().ExtractLinks(content)
	require.NoError(t, err)

	type got struct {
		text string
		url  string
		typ  document.LinkType
	}
	var all []got
	for _, l := range links {
		all = append(all, got{l.Text, l.URL, l.Type})
	}
	assert.Equal(t, []got{
		{"docs", "./docs/a.md", document.LinkRelative},
		{"top", "#top", document.LinkAnchor},
		{"https://go.dev", "https://go.dev", document.LinkExternal},
		{"me@example.com", "mailto:me@example.com", document.LinkEmail},
		{"home page", "Home", document.LinkWiki},
		{"html", "https://html.example", document.LinkExternal},
	}, all)
}

func TestClassifyURL(t *testing.T) {
	tests := map[string]document.LinkType{
		"https://x.io":     document.LinkExternal,
		"//cdn.x.io/a.js":  document.LinkExternal,
		"ftp://files":      document.LinkExternal,
		"mailto:a@b.c":     document.LinkEmail,
		"#section":         document.LinkAnchor,
		"../README.md":     document.LinkRelative,
		"C:/docs/file.md":  document.LinkRelative,
		"docs/guide.md#x":  document.LinkRelative,
	}
	for url, want := range tests {
		assert.Equal(t, want, document.ClassifyURL(url), url)
	}
}
