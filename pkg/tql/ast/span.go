package ast

import "fmt"

// Span is a half-open byte range [Start, End) into the query string.
type Span struct {
	Start int
	End   int
}

// NoSpan marks nodes and errors without a source position.
var NoSpan = Span{Start: -1, End: -1}

// String returns "start..end".
func (s Span) String() string {
	if !s.IsValid() {
		return "<unknown>"
	}
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// IsValid returns true if the span points into the query.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// LineColumn converts the span start into a 1-based line and column
// within src.
func (s Span) LineColumn(src string) (line, column int) {
	line, column = 1, 1
	if !s.IsValid() {
		return line, column
	}
	for i := 0; i < s.Start && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}
