package feed

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/roblanc/ClarStiri/app/source"
)

var (
	itemRe  = regexp.MustCompile(`(?is)<item(?:\s[^>]*)?>(.*?)</item>`)
	entryRe = regexp.MustCompile(`(?is)<entry(?:\s[^>]*)?>(.*?)</entry>`)

	enclosureRe = regexp.MustCompile(`(?is)<enclosure\s[^>]*>`)
	mediaRe     = regexp.MustCompile(`(?is)<media:(?:content|thumbnail)\s[^>]*>`)
	atomLinkRe  = regexp.MustCompile(`(?is)<link\s[^>]*>`)
	categoryRe  = regexp.MustCompile(`(?is)<category\s[^>]*>`)

	attrRes = map[string]*regexp.Regexp{}
	tagRes  = map[string]*regexp.Regexp{}
)

var scannedTags = []string{
	"title", "link", "guid", "description", "summary", "content:encoded", "content",
	"pubDate", "dc:date", "published", "updated", "category", "dc:creator", "author",
}

func init() {
	for _, tag := range scannedTags {
		q := regexp.QuoteMeta(tag)
		tagRes[tag] = regexp.MustCompile(`(?is)<` + q + `(?:\s[^>]*)?>(.*?)</` + q + `>`)
	}
	for _, attr := range []string{"url", "type", "href", "rel", "term", "medium"} {
		attrRes[attr] = regexp.MustCompile(`(?is)\s` + attr + `\s*=\s*["']([^"']*)["']`)
	}
}

// ScanParser pulls <item> and Atom <entry> fragments out of a body with
// regular expressions. It never requires a well-formed document, so a feed
// truncated mid-way or containing stray markup still yields its complete entries.
type ScanParser struct{}

func NewScanParser() *ScanParser {
	return &ScanParser{}
}

func (p *ScanParser) Parse(data []byte, src source.Source, fetchedAt time.Time) []Article {
	body := string(data)

	matches := itemRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		matches = entryRe.FindAllStringSubmatch(body, -1)
	}

	articles := make([]Article, 0, len(matches))
	for _, m := range matches {
		a := p.parseEntry(m[1], src)
		if !a.Valid() {
			continue
		}
		a.ID = articleID(src, len(articles), fetchedAt)
		articles = append(articles, a)
	}

	return articles
}

func (p *ScanParser) parseEntry(entry string, src source.Source) Article {
	a := Article{
		Title:     cleanText(tagContent(entry, "title")),
		Link:      p.link(entry),
		Published: cleanText(firstTag(entry, "pubDate", "dc:date", "published", "updated")),
		Category:  p.category(entry),
		Author:    cleanText(firstTag(entry, "dc:creator", "author")),
		Source:    src,
	}

	summary, embedded := cleanSummary(firstTag(entry, "description", "summary", "content:encoded", "content"))
	a.Summary = summary

	a.ImageURL = p.image(entry)
	if a.ImageURL == "" {
		a.ImageURL = embedded
	}
	if a.ImageURL == "" {
		_, a.ImageURL = cleanSummary(tagContent(entry, "content:encoded"))
	}

	return a
}

func (p *ScanParser) link(entry string) string {
	if link := strings.TrimSpace(html.UnescapeString(unwrapCDATA(tagContent(entry, "link")))); link != "" {
		return link
	}

	for _, tag := range atomLinkRe.FindAllString(entry, -1) {
		rel := attr(tag, "rel")
		if href := attr(tag, "href"); href != "" && (rel == "" || rel == "alternate") {
			return href
		}
	}

	guid := strings.TrimSpace(unwrapCDATA(tagContent(entry, "guid")))
	if strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
		return html.UnescapeString(guid)
	}

	return ""
}

func (p *ScanParser) category(entry string) string {
	if c := cleanText(tagContent(entry, "category")); c != "" {
		return c
	}
	for _, tag := range categoryRe.FindAllString(entry, -1) {
		if term := attr(tag, "term"); term != "" {
			return term
		}
	}
	return ""
}

// image prefers an explicit enclosure, then Media RSS content or thumbnail.
func (p *ScanParser) image(entry string) string {
	for _, tag := range enclosureRe.FindAllString(entry, -1) {
		typ := strings.ToLower(attr(tag, "type"))
		if u := attr(tag, "url"); u != "" && (typ == "" || strings.HasPrefix(typ, "image/")) {
			return u
		}
	}

	for _, tag := range mediaRe.FindAllString(entry, -1) {
		medium := strings.ToLower(attr(tag, "medium"))
		typ := strings.ToLower(attr(tag, "type"))
		if medium == "video" || strings.HasPrefix(typ, "video/") {
			continue
		}
		if u := attr(tag, "url"); u != "" {
			return u
		}
	}

	return ""
}

func tagContent(entry, tag string) string {
	re, ok := tagRes[tag]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(entry)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func firstTag(entry string, tags ...string) string {
	for _, tag := range tags {
		if v := tagContent(entry, tag); v != "" {
			return v
		}
	}
	return ""
}

func attr(tag, name string) string {
	m := attrRes[name].FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return html.UnescapeString(strings.TrimSpace(m[1]))
}
