package estimate

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultPageTextLimit caps the extracted text embedded into the routing
// prompt; product pages routinely carry hundreds of KB of markup.
const DefaultPageTextLimit = 8000

// PageText extracts the visible text of a product page's HTML: scripts,
// styles and chrome elements are stripped, whitespace is collapsed, and the
// result is capped at limit runes (0 means DefaultPageTextLimit).
func PageText(html string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultPageTextLimit
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, iframe, svg, nav, header, footer").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	text := strings.Join(strings.Fields(root.Text()), " ")
	runes := []rune(text)
	if len(runes) > limit {
		text = string(runes[:limit])
	}
	return text, nil
}
