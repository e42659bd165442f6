package story

import (
	"fmt"
	"time"

	"github.com/roblanc/ClarStiri/app/bias"
	"github.com/roblanc/ClarStiri/app/feed"
)

// DefaultCategory labels stories whose representative carries no category.
const DefaultCategory = "Actualitate"

// BlindspotThreshold is the share above which one side dominates coverage.
const BlindspotThreshold = 60

const (
	BlindspotNone  = "none"
	BlindspotLeft  = "left"
	BlindspotRight = "right"
)

// Story groups articles from different sources that report the same event.
type Story struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Summary      string            `json:"description"`
	Image        string            `json:"image,omitempty"`
	Sources      []feed.Article    `json:"sources"`
	SourcesCount int               `json:"sourcesCount"`
	Bias         bias.Distribution `json:"bias"`
	ContentBias  *bias.Analysis    `json:"contentBias,omitempty"`
	MainCategory string            `json:"mainCategory"`
	CategorySlug string            `json:"categorySlug,omitempty"`
	Blindspot    string            `json:"blindspot"`
	PublishedAt  string            `json:"publishedAt"`
	TimeAgo      string            `json:"timeAgo"`
}

func (s Story) PublishedTime() time.Time {
	return feed.ParseTime(s.PublishedAt)
}

// Blindspot names the side whose audience is likely to miss a story covered
// mostly by the other. Single-source stories are never blindspots.
func Blindspot(d bias.Distribution, members int) string {
	if members < 2 {
		return BlindspotNone
	}
	switch {
	case d.Left > BlindspotThreshold:
		return BlindspotRight
	case d.Right > BlindspotThreshold:
		return BlindspotLeft
	default:
		return BlindspotNone
	}
}

var monthsRO = [...]string{"ian.", "feb.", "mar.", "apr.", "mai", "iun.", "iul.", "aug.", "sept.", "oct.", "nov.", "dec."}

// RelativeAge renders the age of published in Romanian, as the front end shows it.
// Anything a week or older falls back to a short date such as "3 ian.".
func RelativeAge(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}

	diff := now.Sub(published)
	minutes := int(diff / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes < 1:
		return "acum"
	case minutes < 60:
		return fmt.Sprintf("acum %d min", minutes)
	case hours < 24:
		if hours == 1 {
			return "acum 1 oră"
		}
		return fmt.Sprintf("acum %d ore", hours)
	case days < 7:
		if days == 1 {
			return "acum 1 zi"
		}
		return fmt.Sprintf("acum %d zile", days)
	}

	local := published.In(now.Location())
	return fmt.Sprintf("%d %s", local.Day(), monthsRO[local.Month()-1])
}
