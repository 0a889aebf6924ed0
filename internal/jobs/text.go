// Package jobs turns job listings into plain-text descriptions for the
// optimization and suitability models.
package jobs

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)
	spacesPattern     = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
)

// LooksLikeHTML reports whether s contains markup.
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// HTMLToText converts an HTML fragment to text. List items become "• " lines
// and block elements become line breaks. Plain text passes through cleaned.
func HTMLToText(content string) string {
	if !LooksLikeHTML(content) {
		return CleanText(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return CleanText(htmlTagPattern.ReplaceAllString(content, " "))
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n• ")
		s.AppendHtml("\n")
	})
	doc.Find("p, div, h1, h2, h3, h4, h5, h6, ul, ol, tr, section").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n")
		s.AppendHtml("\n")
	})

	return CleanText(doc.Text())
}

// CleanText normalizes line endings and whitespace and collapses runs of
// blank lines to one.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spacesPattern.ReplaceAllString(line, " "))
	}
	content = strings.Join(lines, "\n")
	content = blankLinesPattern.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
