package document

import "strings"

// LinkType classifies a link target.
type LinkType string

const (
	LinkAnchor   LinkType = "anchor"
	LinkRelative LinkType = "relative"
	LinkWiki     LinkType = "wikilink"
	LinkExternal LinkType = "external"
	LinkEmail    LinkType = "email"
)

// LinkTypes lists every link type in display order.
var LinkTypes = []LinkType{LinkAnchor, LinkRelative, LinkWiki, LinkExternal, LinkEmail}

// Link is a hyperlink in the document.
type Link struct {
	Text   string
	URL    string
	Type   LinkType
	Offset int
}

// ClassifyURL derives the link type of a markdown link target.
func ClassifyURL(url string) LinkType {
	lower := strings.ToLower(strings.TrimSpace(url))
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		return LinkEmail
	case strings.HasPrefix(lower, "#"):
		return LinkAnchor
	case strings.HasPrefix(lower, "//") || hasScheme(lower):
		return LinkExternal
	default:
		return LinkRelative
	}
}

// hasScheme reports whether s starts with an RFC 3986 scheme followed by
// ':'. Single letters are treated as Windows drive letters, not schemes.
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		case c == ':' && i > 1:
			return true
		default:
			return false
		}
	}
	return false
}

// BlockParser turns markdown content into its block tree.
type BlockParser interface {
	ParseBlocks(content string) ([]Block, error)
}

// LinkExtractor finds every link in markdown content, in source order.
type LinkExtractor interface {
	ExtractLinks(content string) ([]Link, error)
}
