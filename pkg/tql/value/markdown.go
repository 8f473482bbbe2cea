package value

import (
	"strconv"
	"strings"
)

// ToMarkdown renders v back to markdown source. Headings yield their whole
// section; other markdown values are re-serialized from their fields.
// Scalars and collections fall back to ToText.
func ToMarkdown(v Value) string {
	switch t := v.(type) {
	case *Document:
		return t.Content
	case *Heading:
		if t.RawMD != "" {
			return t.RawMD
		}
		return strings.Repeat("#", t.Level) + " " + t.Text
	case *Code:
		fence := "```"
		for strings.Contains(t.Content, fence) {
			fence += "`"
		}
		body := t.Content
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return fence + t.Lang + "\n" + body + fence
	case *Link:
		if t.LinkType == "wikilink" {
			if t.Text != "" && t.Text != t.URL {
				return "[[" + t.URL + "|" + t.Text + "]]"
			}
			return "[[" + t.URL + "]]"
		}
		return "[" + t.Text + "](" + t.URL + ")"
	case *Image:
		if t.Title != "" {
			return "![" + t.Alt + "](" + t.Src + " " + strconv.Quote(t.Title) + ")"
		}
		return "![" + t.Alt + "](" + t.Src + ")"
	case *Table:
		return tableMarkdown(t)
	case *List:
		var sb strings.Builder
		for i, item := range t.Items {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if t.Ordered {
				sb.WriteString(strconv.Itoa(i+1) + ". ")
			} else {
				sb.WriteString("- ")
			}
			if item.Checked != nil {
				if *item.Checked {
					sb.WriteString("[x] ")
				} else {
					sb.WriteString("[ ] ")
				}
			}
			sb.WriteString(item.Text)
		}
		return sb.String()
	default:
		return ToText(v)
	}
}

func tableMarkdown(t *Table) string {
	var sb strings.Builder
	row := func(cells []string) {
		sb.WriteString("|")
		for _, c := range cells {
			sb.WriteString(" " + strings.ReplaceAll(c, "|", `\|`) + " |")
		}
	}
	row(t.Headers)
	sb.WriteString("\n|")
	for i := range t.Headers {
		align := ""
		if i < len(t.Alignments) {
			align = t.Alignments[i]
		}
		switch align {
		case "left":
			sb.WriteString(" :--- |")
		case "center":
			sb.WriteString(" :---: |")
		case "right":
			sb.WriteString(" ---: |")
		default:
			sb.WriteString(" --- |")
		}
	}
	for _, r := range t.Rows {
		sb.WriteByte('\n')
		row(r)
	}
	return sb.String()
}
