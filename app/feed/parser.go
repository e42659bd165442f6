package feed

import (
	"bytes"
	"cmp"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/roblanc/ClarStiri/app/source"
)

// GofeedParser is the strict alternative to ScanParser. It needs a feed that
// gofeed can decode but understands every RSS, Atom and JSON Feed variant.
type GofeedParser struct{}

func NewGofeedParser() *GofeedParser {
	return &GofeedParser{}
}

func (p *GofeedParser) Parse(data []byte, src source.Source, fetchedAt time.Time) []Article {
	// gofeed.Parser keeps decoder state, so one per call
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse feed", "source", src.ID, "error", err)
		return nil
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		a := p.normalizeItem(item, src)
		if !a.Valid() {
			continue
		}
		a.ID = articleID(src, len(articles), fetchedAt)
		articles = append(articles, a)
	}

	return articles
}

func (p *GofeedParser) normalizeItem(item *gofeed.Item, src source.Source) Article {
	a := Article{
		Title:     cleanText(item.Title),
		Link:      strings.TrimSpace(cmp.Or(item.Link, permalink(item.GUID))),
		Published: strings.TrimSpace(cmp.Or(item.Published, item.Updated)),
		Author:    p.extractAuthor(item),
		Source:    src,
	}

	if len(item.Categories) > 0 {
		a.Category = cleanText(item.Categories[0])
	}

	summary, embedded := cleanSummary(cmp.Or(item.Description, item.Content))
	a.Summary = summary

	a.ImageURL = cmp.Or(p.extractImage(item), embedded)
	if a.ImageURL == "" && item.Content != "" {
		_, a.ImageURL = cleanSummary(item.Content)
	}

	return a
}

func (p *GofeedParser) extractImage(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		if enclosure.Type == "" || strings.HasPrefix(strings.ToLower(enclosure.Type), "image/") {
			return enclosure.URL
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" && ext.Attrs["medium"] != "video" {
					return u
				}
			}
		}
	}

	return ""
}

func (p *GofeedParser) extractAuthor(item *gofeed.Item) string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return strings.TrimSpace(item.Author.Name)
	}
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return strings.TrimSpace(author.Name)
		}
	}
	return ""
}

func permalink(guid string) string {
	if strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
		return guid
	}
	return ""
}
