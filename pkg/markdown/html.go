package markdown

import (
	"strings"

	"golang.org/x/net/html"

	"mdnav-hq/mdnav/pkg/document"
)

// htmlEvents feeds the interesting parts of an HTML fragment to the block
// builder: <details> boundaries, <summary> text, <img> tags and <a> links.
type htmlEvents struct {
	openDetails  func()
	summary      func(text string)
	closeDetails func()
	image        func(img document.Image)
	link         func(text, href string)
}

func scanHTML(raw string, offset int, ev htmlEvents) {
	z := html.NewTokenizer(strings.NewReader(raw))
	var (
		inSummary bool
		summary   strings.Builder
		inAnchor  bool
		anchor    strings.Builder
		href      string
	)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if inAnchor && ev.link != nil {
				ev.link(strings.TrimSpace(anchor.String()), href)
			}
			return
		case html.TextToken:
			if inSummary {
				summary.Write(z.Text())
			}
			if inAnchor {
				anchor.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "details":
				if ev.openDetails != nil {
					ev.openDetails()
				}
			case "summary":
				inSummary = true
				summary.Reset()
			case "img":
				if ev.image != nil {
					ev.image(document.Image{
						Alt:    attr(tok, "alt"),
						Src:    attr(tok, "src"),
						Title:  attr(tok, "title"),
						Offset: offset,
					})
				}
			case "a":
				if tt == html.StartTagToken {
					if h := attr(tok, "href"); h != "" {
						inAnchor, href = true, h
						anchor.Reset()
					}
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "summary":
				if inSummary && ev.summary != nil {
					ev.summary(strings.TrimSpace(summary.String()))
				}
				inSummary = false
			case "details":
				if ev.closeDetails != nil {
					ev.closeDetails()
				}
			case "a":
				if inAnchor && ev.link != nil {
					ev.link(strings.TrimSpace(anchor.String()), href)
				}
				inAnchor = false
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
