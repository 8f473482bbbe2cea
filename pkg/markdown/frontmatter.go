package markdown

import (
	"strings"
)

const frontMatterFence = "---"

// SplitFrontMatter detects a leading YAML front matter block. It returns the
// YAML between the fences and the offset where the body begins. bodyOffset
// is 0 when there is no front matter. The closing fence may be "---" or
// "...".
func SplitFrontMatter(content string) (raw string, bodyOffset int) {
	first, rest, ok := cutLine(content)
	if !ok || strings.TrimRight(first, " \t\r") != frontMatterFence {
		return "", 0
	}
	pos := len(content) - len(rest)
	yamlStart := pos
	for pos < len(content) {
		line, next, hasNewline := cutLine(content[pos:])
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == frontMatterFence || trimmed == "..." {
			end := len(content)
			if hasNewline {
				end = len(content) - len(next)
			}
			return content[yamlStart:pos], end
		}
		if !hasNewline {
			break
		}
		pos = len(content) - len(next)
	}
	return "", 0
}

// cutLine splits s at the first newline. ok is false when s has none.
func cutLine(s string) (line, rest string, ok bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// maskFrontMatter blanks the first n bytes of src while keeping newlines,
// so the markdown parser sees empty lines and every offset and line number
// still matches the original content.
func maskFrontMatter(src string, n int) []byte {
	out := []byte(src)
	for i := 0; i < n && i < len(out); i++ {
		if out[i] != '\n' {
			out[i] = ' '
		}
	}
	return out
}
