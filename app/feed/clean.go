package feed

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/roblanc/ClarStiri/app/source"
)

var (
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	tagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
)

func unwrapCDATA(s string) string {
	return cdataRe.ReplaceAllString(s, "$1")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML returns the visible text of an HTML fragment.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(html.UnescapeString(tagRe.ReplaceAllString(s, " ")))
	}

	// separate block elements so adjacent paragraphs don't run together
	doc.Find("p, br, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})

	return collapseSpace(doc.Text())
}

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(s string) string {
	if !strings.Contains(strings.ToLower(s), "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

// cleanText normalizes a title-like value: CDATA, entities, markup, whitespace.
func cleanText(s string) string {
	return StripHTML(html.UnescapeString(unwrapCDATA(s)))
}

// cleanSummary also reports the first embedded image, if any.
func cleanSummary(s string) (string, string) {
	raw := html.UnescapeString(unwrapCDATA(s))
	return truncateRunes(StripHTML(raw), SummaryLimit), FirstImage(raw)
}

func articleID(src source.Source, ordinal int, fetchedAt time.Time) string {
	return fmt.Sprintf("%s-%d-%d", src.ID, ordinal, fetchedAt.UnixMilli())
}
