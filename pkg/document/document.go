package document

import (
	"strings"
	"unicode/utf8"
)

// Heading is one heading of the document in source order.
type Heading struct {
	// Level is 1 through 6.
	Level int
	// Text has inline markup stripped.
	Text string
	// Offset is the byte offset of the start of the heading line.
	Offset int
	// End is the byte offset just past the heading line, or past the
	// underline for setext headings.
	End int
	// Line is 1-based.
	Line int
}

// Document is a parsed markdown snapshot. Offsets index into Content.
type Document struct {
	// Path is informational and may be empty.
	Path    string
	Content string
	// FrontMatter is the raw YAML between the leading "---" fences, without
	// the fences. Empty when the document has none.
	FrontMatter string
	// BodyOffset is where the markdown body starts, past any front matter.
	BodyOffset int
	Headings   []Heading
}

// SectionEnd returns the byte offset where the section of heading i ends:
// the next heading of the same or a higher level, or the end of content.
func (d *Document) SectionEnd(i int) int {
	level := d.Headings[i].Level
	for _, h := range d.Headings[i+1:] {
		if h.Level <= level {
			return h.Offset
		}
	}
	return len(d.Content)
}

// Section returns the full markdown of heading i's section, heading line
// included.
func (d *Document) Section(i int) string {
	return d.Content[d.Headings[i].Offset:d.SectionEnd(i)]
}

// SectionBody returns the section of heading i without its heading line.
func (d *Document) SectionBody(i int) string {
	h := d.Headings[i]
	end := d.SectionEnd(i)
	start := min(max(h.End, h.Offset), end)
	return strings.Trim(d.Content[start:end], "\n")
}

// ExtractSection returns the section of the first heading whose text
// matches name, ignoring case.
func (d *Document) ExtractSection(name string) (string, bool) {
	for i, h := range d.Headings {
		if strings.EqualFold(h.Text, name) {
			return d.Section(i), true
		}
	}
	return "", false
}

// Body returns the content after any front matter.
func (d *Document) Body() string {
	if d.BodyOffset <= 0 || d.BodyOffset > len(d.Content) {
		return d.Content
	}
	return d.Content[d.BodyOffset:]
}

// WordCount counts whitespace-separated words in the body.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.Body()))
}

// LineAt returns the 1-based line containing byte offset off.
func (d *Document) LineAt(off int) int {
	return LineAt(d.Content, off)
}

// LineAt returns the 1-based line of s containing byte offset off.
func LineAt(s string, off int) int {
	off = min(max(off, 0), len(s))
	return strings.Count(s[:off], "\n") + 1
}

// LineStart returns the offset of the first byte of the line containing off.
func LineStart(s string, off int) int {
	off = min(max(off, 0), len(s))
	return strings.LastIndexByte(s[:off], '\n') + 1
}

// LineEnd returns the offset just past the newline ending the line that
// contains off, or len(s) on the last line.
func LineEnd(s string, off int) int {
	off = min(max(off, 0), len(s))
	if i := strings.IndexByte(s[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(s)
}

// Valid reports whether offsets are consistent with Content.
func (d *Document) Valid() bool {
	if !utf8.ValidString(d.Content) {
		return false
	}
	prev := -1
	for _, h := range d.Headings {
		if h.Level < 1 || h.Level > 6 || h.Offset < prev || h.Offset > len(d.Content) {
			return false
		}
		prev = h.Offset
	}
	return true
}
