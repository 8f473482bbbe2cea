package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = "# Title\n\nintro\n\n## A\n\na body\n\n### A.1\n\ndeep\n\n## B\n\nb body\n"

func sampleDoc() *Document {
	return &Document{
		Content: sample,
		Headings: []Heading{
			{Level: 1, Text: "Title", Offset: 0, End: 8, Line: 1},
			{Level: 2, Text: "A", Offset: 16, End: 21, Line: 5},
			{Level: 3, Text: "A.1", Offset: 30, End: 38, Line: 9},
			{Level: 2, Text: "B", Offset: 45, End: 50, Line: 13},
		},
	}
}

func TestSections(t *testing.T) {
	d := sampleDoc()

	assert.Equal(t, len(sample), d.SectionEnd(0), "h1 runs to the end")
	assert.Equal(t, 45, d.SectionEnd(1), "h2 stops at the next h2")
	assert.Equal(t, 45, d.SectionEnd(2), "h3 stops at the next higher heading")

	assert.Equal(t, "## A\n\na body\n\n### A.1\n\ndeep\n\n", d.Section(1))
	assert.Equal(t, "a body\n\n### A.1\n\ndeep", d.SectionBody(1))
	assert.Equal(t, "b body", d.SectionBody(3))

	sec, ok := d.ExtractSection("a.1")
	assert.True(t, ok)
	assert.Equal(t, "### A.1\n\ndeep\n\n", sec)

	_, ok = d.ExtractSection("missing")
	assert.False(t, ok)
}

func TestBodyAndWordCount(t *testing.T) {
	d := &Document{Content: "---\ntitle: x\n---\none two\nthree\n", BodyOffset: 17}
	assert.Equal(t, "one two\nthree\n", d.Body())
	assert.Equal(t, 3, d.WordCount())

	d.BodyOffset = 0
	assert.Equal(t, d.Content, d.Body())
}

func TestLineHelpers(t *testing.T) {
	s := "ab\ncd\nef"

	assert.Equal(t, 1, LineAt(s, 0))
	assert.Equal(t, 2, LineAt(s, 3))
	assert.Equal(t, 3, LineAt(s, 100), "offsets are clamped")

	assert.Equal(t, 3, LineStart(s, 4))
	assert.Equal(t, 6, LineEnd(s, 4))
	assert.Equal(t, len(s), LineEnd(s, 7))
}

func TestValid(t *testing.T) {
	assert.True(t, sampleDoc().Valid())

	d := sampleDoc()
	d.Headings[2].Offset = 10
	assert.False(t, d.Valid(), "headings out of order")

	d = sampleDoc()
	d.Headings[0].Level = 7
	assert.False(t, d.Valid(), "level out of range")

	assert.False(t, (&Document{Content: "\xff"}).Valid(), "invalid UTF-8")
}

func TestClassifyURL(t *testing.T) {
	tests := map[string]LinkType{
		"#install":                   LinkAnchor,
		"docs/guide.md":              LinkRelative,
		"../README.md":               LinkRelative,
		"C:/notes/todo.md":           LinkRelative,
		"https://example.com":        LinkExternal,
		"//cdn.example.com/x.js":     LinkExternal,
		"ftp://files.example.com":    LinkExternal,
		"MAILTO:someone@example.com": LinkEmail,
	}
	for url, want := range tests {
		assert.Equal(t, want, ClassifyURL(url), url)
	}
}

func TestWalk(t *testing.T) {
	code := &CodeBlock{Lang: "go", Offset: 30}
	inner := &Image{Src: "x.png", Offset: 20}
	blocks := []Block{
		&Paragraph{Text: "p", Offset: 0},
		&Quote{Offset: 10, Blocks: []Block{inner}},
		&List{Offset: 25, Items: []ListItem{{Text: "a", Blocks: []Block{code}}}},
		&Details{Summary: "more", Offset: 40, Blocks: []Block{&Table{Offset: 45}}},
	}

	var offsets []int
	Walk(blocks, func(b Block) { offsets = append(offsets, b.Pos()) })
	assert.Equal(t, []int{0, 10, 20, 25, 30, 40, 45}, offsets)
}
