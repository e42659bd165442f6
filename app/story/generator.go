package story

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"
)

// Channel describes the RSS channel wrapping the rendered stories.
type Channel struct {
	Title       string
	Link        string
	SelfLink    string
	Description string
	Language    string
	Generator   string
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders stories as an RSS 2.0 document, one item per story.
func (g *Generator) Run(channel Channel, stories []Story, now time.Time) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", channel.Description, 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := now
	if len(stories) > 0 {
		if t := stories[0].PublishedTime(); !t.IsZero() {
			lastBuildDate = t
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)
	g.writeElement(&buf, "language", channel.Language, 4)

	for _, s := range stories {
		g.writeItem(&buf, s)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, s Story) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(s.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", s.Title, 6)
	g.writeElement(buf, "link", storyLink(s), 6)
	g.writeElement(buf, "description", describe(s), 6)

	if t := s.PublishedTime(); !t.IsZero() {
		g.writeElement(buf, "pubDate", t.Format(time.RFC1123Z), 6)
	}

	g.writeElement(buf, "category", s.MainCategory, 6)

	// RSS allows a single source per item
	if len(s.Sources) > 0 {
		src := s.Sources[0].Source
		buf.WriteString(fmt.Sprintf("      <source url=\"%s\">", html.EscapeString(src.FeedURL)))
		xml.EscapeText(buf, []byte(src.Name))
		buf.WriteString("</source>\n")
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// storyLink is the link of the member the story was titled after.
func storyLink(s Story) string {
	for _, m := range s.Sources {
		if m.Title == s.Title && m.Link != "" {
			return m.Link
		}
	}
	if len(s.Sources) > 0 {
		return s.Sources[0].Link
	}
	return ""
}

func describe(s Story) string {
	coverage := fmt.Sprintf("%d surse · stânga %d%% · centru %d%% · dreapta %d%%",
		s.SourcesCount, s.Bias.Left, s.Bias.Center, s.Bias.Right)
	if s.SourcesCount == 1 {
		coverage = fmt.Sprintf("1 sursă · stânga %d%% · centru %d%% · dreapta %d%%", s.Bias.Left, s.Bias.Center, s.Bias.Right)
	}
	if s.Summary == "" {
		return "(" + coverage + ")"
	}
	return s.Summary + " (" + coverage + ")"
}
