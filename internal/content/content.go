// Package content cleans article bodies and derives the table of contents
// and list excerpts from them.
package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// Heading is one table-of-contents entry.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// editor output carries classes for code blocks and alignment
	p.AllowStyling()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Sanitize strips scripts, handlers and anything else outside the
// user-content policy.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(policy.Sanitize(raw))
}

func headingID(n int) string {
	return fmt.Sprintf("heading_%d", n)
}

// Outline returns html with every h1/h2 given the id its table-of-contents
// entry links to, together with those entries in document order.
func Outline(html string) (string, []Heading) {
	headings := make([]Heading, 0)
	if strings.TrimSpace(html) == "" {
		return html, headings
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html, headings
	}

	doc.Find("h1, h2").Each(func(i int, s *goquery.Selection) {
		level := 2
		if goquery.NodeName(s) == "h1" {
			level = 1
		}
		id := headingID(i)
		s.SetAttr("id", id)
		headings = append(headings, Heading{ID: id, Text: strings.TrimSpace(s.Text()), Level: level})
	})
	if len(headings) == 0 {
		return html, headings
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return html, headings
	}
	return body, headings
}

// Excerpt returns up to max runes of the body's plain text, cut at a word
// boundary when possible.
func Excerpt(html string, max int) string {
	if max <= 0 || strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	// block elements would otherwise run their words together
	doc.Find("p, div, li, br, blockquote, pre, h1, h2, h3, h4, h5, h6").AppendHtml(" ")
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
