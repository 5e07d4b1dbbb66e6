package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML extracts readable text from an HTML fragment. Script and style
// contents are dropped. If the input does not parse as HTML it is returned
// cleaned but otherwise untouched, so plain-text sources pass through.
func StripHTML(content string) string {
	if !strings.Contains(content, "<") {
		return CleanText(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return CleanText(content)
	}

	doc.Find("script, style, noscript").Remove()

	// Keep block boundaries as newlines so the extractor's context windows
	// do not bridge unrelated elements.
	var sb strings.Builder
	doc.Find("p, li, div, h1, h2, h3, h4, br, td").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	sb.WriteString(doc.Text())
	return CleanText(sb.String())
}
