package errors

import (
	"fmt"
	"strings"

	"mdnav-hq/mdnav/pkg/tql/ast"
)

// ExtractContext renders the query line containing span with a caret
// underline beneath the offending text.
func ExtractContext(query string, span ast.Span) string {
	if !span.IsValid() || span.Start > len(query) {
		return ""
	}

	lines := strings.Split(query, "\n")
	lineNum, column := span.LineColumn(query)
	line := lines[lineNum-1]

	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	if rest := len(line) - (column - 1); width > rest && rest > 0 {
		width = rest
	}

	numWidth := len(fmt.Sprintf("%d", lineNum))
	gutter := strings.Repeat(" ", numWidth)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s |\n", gutter))
	sb.WriteString(fmt.Sprintf("%d | %s\n", lineNum, line))
	sb.WriteString(fmt.Sprintf("%s | %s%s\n", gutter, strings.Repeat(" ", column-1), strings.Repeat("^", width)))
	return sb.String()
}

// Detail returns the multi-line diagnostic for err against query: the
// message, a pointer into the query and any suggestions.
func Detail(err *Error, query string) string {
	var sb strings.Builder
	msg := err.Message
	if msg == "" {
		msg = err.Kind.Title()
	}
	sb.WriteString(fmt.Sprintf("[%s] %s\n", err.Kind, msg))
	if ctx := ExtractContext(query, err.Span); ctx != "" {
		sb.WriteString(ctx)
	}
	if len(err.Suggestions) > 0 {
		sb.WriteString(fmt.Sprintf("  = suggestion: did you mean '%s'?\n", strings.Join(err.Suggestions, "', '")))
	}
	return sb.String()
}
