package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roblanc/ClarStiri/app/feed"
	"github.com/roblanc/ClarStiri/app/voices"
)

const promptTemplate = `Analizează articolele de știri recente de mai jos despre %[1]s.
Extrage 2-3 declarații recente, controversate sau semnificative (sau acțiuni și poziționări recente) ale acestei persoane.

Articole:
%[2]s

Returnează un JSON valid cu un array "statements". Fiecare obiect are câmpurile:
- "text": citatul exact sau o parafrazare scurtă a ce a spus sau a făcut (maxim 20 de cuvinte).
- "topic": subiectul (ex: "Politică", "Social", "Război", "Monden").
- "date": data aproximativă din articol sau "Recent".
- "sourceUrl": numărul articolului din listă sau linkul lui.
- "impact": "high", "medium" sau "low".
- "bias": "left", "right" sau "center", după orientarea declarației, nu a sursei.

Dacă nu există declarații clare, extrage cele mai importante evenimente recente legate de persoană.
Nu inventa informații. Dacă nu există date relevante, returnează un array gol.
Răspunde doar cu JSON, fără markdown.`

var fenceRe = regexp.MustCompile("```(?:json)?")

func BuildPrompt(name string, articles []feed.Article) string {
	entries := make([]string, len(articles))
	for i, a := range articles {
		entries[i] = fmt.Sprintf("[%d] Titlu: %s\nLink: %s\nSnippet: %s", i+1, a.Title, a.Link, a.Summary)
	}
	return fmt.Sprintf(promptTemplate, name, strings.Join(entries, "\n\n"))
}

type rawStatement struct {
	Text      string          `json:"text"`
	Topic     string          `json:"topic"`
	Date      string          `json:"date"`
	SourceURL json.RawMessage `json:"sourceUrl"`
	Impact    string          `json:"impact"`
	Bias      string          `json:"bias"`
}

// ParseStatements decodes a model reply. Source references given as article
// numbers are resolved to links and missing ones fall back to the first article.
func ParseStatements(text string, articles []feed.Article) ([]voices.Statement, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))

	var reply struct {
		Statements []rawStatement `json:"statements"`
	}
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, fmt.Errorf("failed to decode Gemini response: %w", err)
	}

	statements := make([]voices.Statement, 0, len(reply.Statements))
	for _, r := range reply.Statements {
		statements = append(statements, voices.Statement{
			Text:      r.Text,
			Topic:     r.Topic,
			Date:      r.Date,
			SourceURL: resolveSource(r.SourceURL, articles),
			Impact:    r.Impact,
			Bias:      r.Bias,
		})
	}
	return statements, nil
}

func resolveSource(raw json.RawMessage, articles []feed.Article) string {
	ref := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(ref); err == nil {
		ref = strings.TrimSpace(unquoted)
	}
	if ref == "null" {
		ref = ""
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(articles) {
			return articles[n-1].Link
		}
	} else if ref != "" && ref != "#" {
		return ref
	}

	if len(articles) > 0 && articles[0].Link != "" {
		return articles[0].Link
	}
	return "#"
}
