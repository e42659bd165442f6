package story

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/roblanc/ClarStiri/app/bias"
	"github.com/roblanc/ClarStiri/app/feed"
	"github.com/roblanc/ClarStiri/app/source"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func src(id string, b source.Bias) source.Source {
	return source.Source{ID: id, Name: id, FeedURL: "https://" + id + ".example.com/rss", Bias: b}
}

func article(id string, s source.Source, title string, published time.Time) feed.Article {
	return feed.Article{
		ID:        id,
		Title:     title,
		Link:      "https://" + s.ID + ".example.com/" + id,
		Published: published.Format(time.RFC1123Z),
		Source:    s,
	}
}

func newTestAggregator(opts ...Option) *Aggregator {
	return NewAggregator(append([]Option{WithClock(func() time.Time { return testNow })}, opts...)...)
}

func TestAggregateEmptyPool(t *testing.T) {
	stories := newTestAggregator().Aggregate(nil)
	if stories == nil || len(stories) != 0 {
		t.Errorf("Expected empty non-nil story list, got: %v", stories)
	}
}

func TestAggregateSingleton(t *testing.T) {
	a := article("digi24-0-1", src("digi24", source.BiasCenter), "Bugetul pe 2025, adoptat cu întârziere", testNow.Add(-time.Hour))

	stories := newTestAggregator().Aggregate([]feed.Article{a})
	if len(stories) != 1 {
		t.Fatalf("Expected 1 story, got: %d", len(stories))
	}

	s := stories[0]
	if s.ID != "story-digi24-0-1" {
		t.Errorf("Expected id 'story-digi24-0-1', got: %s", s.ID)
	}
	if s.SourcesCount != 1 {
		t.Errorf("Expected 1 source, got: %d", s.SourcesCount)
	}
	if s.Bias != (bias.Distribution{Left: 0, Center: 100, Right: 0}) {
		t.Errorf("Expected all-center bias, got: %+v", s.Bias)
	}
	if s.MainCategory != DefaultCategory {
		t.Errorf("Expected default category, got: %s", s.MainCategory)
	}
	if s.CategorySlug != "economie" {
		t.Errorf("Expected category slug 'economie', got: %s", s.CategorySlug)
	}
	if s.TimeAgo != "acum 1 oră" {
		t.Errorf("Expected 'acum 1 oră', got: %s", s.TimeAgo)
	}
	if s.Blindspot != BlindspotNone {
		t.Errorf("Expected no blindspot for a single source, got: %s", s.Blindspot)
	}
}

func TestAggregateGroupsAcrossSources(t *testing.T) {
	older := article("g4media-0-1", src("g4media", source.BiasCenterLeft), "Parlamentul votează legea pensiilor", testNow.Add(-2*time.Hour))
	older.ImageURL = ""
	newer := article("antena3-0-1", src("antena3", source.BiasRight), "Parlamentul votează legea pensiilor speciale", testNow.Add(-time.Hour))
	newer.ImageURL = "https://antena3.example.com/img.jpg"
	newer.Summary = "Rezumat Antena 3"

	stories := newTestAggregator().Aggregate([]feed.Article{older, newer})
	if len(stories) != 1 {
		t.Fatalf("Expected 1 story, got: %d", len(stories))
	}

	s := stories[0]
	if s.SourcesCount != 2 {
		t.Errorf("Expected 2 sources, got: %d", s.SourcesCount)
	}
	if s.ID != "story-g4media-0-1" {
		t.Errorf("Expected id from first member, got: %s", s.ID)
	}
	if s.Title != newer.Title || s.Summary != "Rezumat Antena 3" {
		t.Errorf("Expected latest article as representative, got: %s", s.Title)
	}
	if s.PublishedAt != newer.Published {
		t.Errorf("Expected representative date, got: %s", s.PublishedAt)
	}
	if s.Image != "https://antena3.example.com/img.jpg" {
		t.Errorf("Expected first member image, got: %s", s.Image)
	}
	// center-left {6,4,0} + right {0,0,10} over 20
	if s.Bias != (bias.Distribution{Left: 30, Center: 20, Right: 50}) {
		t.Errorf("Expected {30 20 50}, got: %+v", s.Bias)
	}
}

func TestAggregateSameSourceNeverGrouped(t *testing.T) {
	s := src("digi24", source.BiasCenter)
	a := article("digi24-0-1", s, "Guvernul adoptă bugetul", testNow)
	b := article("digi24-1-1", s, "Guvernul adoptă bugetul", testNow)
	b.Link = "https://digi24.example.com/other"

	stories := newTestAggregator().Aggregate([]feed.Article{a, b})
	if len(stories) != 2 {
		t.Fatalf("Expected 2 stories, got: %d", len(stories))
	}
	for _, story := range stories {
		if story.SourcesCount != 1 {
			t.Errorf("Expected singleton stories, got: %d sources", story.SourcesCount)
		}
	}
}

func TestAggregateIsNotTransitive(t *testing.T) {
	seed := article("a-0-1", src("a", source.BiasCenter), "Parlamentul votează legea pensiilor", testNow)
	partB := article("b-0-1", src("b", source.BiasLeft), "Parlamentul votează mâine", testNow)
	partC := article("c-0-1", src("c", source.BiasRight), "Legea pensiilor contestată", testNow)

	stories := newTestAggregator().Aggregate([]feed.Article{seed, partB, partC})
	if len(stories) != 1 || stories[0].SourcesCount != 3 {
		t.Fatalf("Expected one story with 3 sources when the seed comes first, got: %d stories", len(stories))
	}

	stories = newTestAggregator().Aggregate([]feed.Article{partB, partC, seed})
	if len(stories) != 2 {
		t.Fatalf("Expected 2 stories when the seed comes last, got: %d", len(stories))
	}
	if stories[0].SourcesCount != 2 || stories[0].Sources[0].ID != "b-0-1" || stories[0].Sources[1].ID != "a-0-1" {
		t.Errorf("Expected [b a] grouped, got: %v", stories[0].Sources)
	}
	if stories[1].SourcesCount != 1 || stories[1].Sources[0].ID != "c-0-1" {
		t.Errorf("Expected c alone, got: %v", stories[1].Sources)
	}
}

func TestAggregateDropsRepeatedLinks(t *testing.T) {
	a := article("digi24-0-1", src("digi24", source.BiasCenter), "Inflația scade", testNow)
	dup := article("hotnews-0-1", src("hotnews", source.BiasCenter), "Inflația scade", testNow)
	dup.Link = a.Link

	stories := newTestAggregator().Aggregate([]feed.Article{a, dup})
	if len(stories) != 1 || stories[0].SourcesCount != 1 {
		t.Fatalf("Expected the repeated link to be dropped, got: %v", stories)
	}
	if stories[0].Sources[0].ID != "digi24-0-1" {
		t.Errorf("Expected first occurrence to win, got: %s", stories[0].Sources[0].ID)
	}
}

func TestAggregateSortOrder(t *testing.T) {
	mk := func(prefix, title string, n int, published time.Time) []feed.Article {
		var out []feed.Article
		for i := 0; i < n; i++ {
			id := prefix + string(rune('a'+i))
			out = append(out, article(id+"-0-1", src(id, source.BiasCenter), title, published))
		}
		return out
	}

	var pool []feed.Article
	pool = append(pool, mk("x", "Ninsori abundente în Carpați", 1, testNow)...)
	pool = append(pool, mk("y", "Meci decisiv pentru naționala României", 3, testNow)...)
	pool = append(pool, mk("z", "Prețul benzinei crește din nou", 2, testNow)...)
	pool = append(pool, mk("w", "Festivalul Enescu începe duminică", 1, testNow.Add(time.Hour))...)

	stories := newTestAggregator().Aggregate(pool)

	var counts []int
	for _, s := range stories {
		counts = append(counts, s.SourcesCount)
	}
	if !slices.Equal(counts, []int{3, 2, 1, 1}) {
		t.Fatalf("Expected counts [3 2 1 1], got: %v", counts)
	}
	if !strings.HasPrefix(stories[2].Title, "Festivalul") {
		t.Errorf("Expected newer singleton first among ties, got: %s", stories[2].Title)
	}
}

func TestAggregateBiasAlwaysSumsTo100(t *testing.T) {
	var pool []feed.Article
	for i, b := range []source.Bias{source.BiasLeft, source.BiasCenterLeft, source.BiasCenter, source.BiasCenterRight, source.BiasRight, source.BiasCenterLeft, source.BiasRight} {
		id := string(rune('a' + i))
		pool = append(pool, article(id+"-0-1", src(id, b), "Guvernul adoptă bugetul pe 2025", testNow))
	}

	for _, table := range []bias.WeightTable{bias.DefaultWeights, bias.BlendedWeights} {
		for n := 1; n <= len(pool); n++ {
			for _, s := range newTestAggregator(WithWeights(table)).Aggregate(pool[:n]) {
				if s.Bias.Sum() != 100 {
					t.Errorf("Expected bias to sum to 100, got: %+v", s.Bias)
				}
			}
		}
	}
}

type fakeAnalyzer struct {
	calls []string
}

func (f *fakeAnalyzer) Analyze(text string) *bias.Analysis {
	f.calls = append(f.calls, text)
	if strings.Contains(text, "USR") {
		return &bias.Analysis{KeywordScore: -20, OverallBias: -20, Confidence: 0.4, Indicators: []string{"left: USR"}, DetectedEntities: []bias.EntityMention{{Entity: "USR", Count: 1}}}
	}
	return &bias.Analysis{Confidence: 0.1}
}

func TestAggregateContentBias(t *testing.T) {
	a := article("a-0-1", src("a", source.BiasCenter), "USR cere demisia ministrului", testNow)
	a.Summary = "Declarație"
	b := article("b-0-1", src("b", source.BiasRight), "USR cere demisia ministrului Energiei", testNow)
	c := article("c-0-1", src("c", source.BiasLeft), "Vreme frumoasă în weekend", testNow)

	analyzer := &fakeAnalyzer{}
	stories := newTestAggregator(WithAnalyzer(analyzer)).Aggregate([]feed.Article{a, b, c})

	if len(analyzer.calls) != 3 || analyzer.calls[0] != "USR cere demisia ministrului Declarație" {
		t.Errorf("Expected analyzer to see title and summary, got: %v", analyzer.calls)
	}

	if len(stories) != 2 {
		t.Fatalf("Expected 2 stories, got: %d", len(stories))
	}

	merged := stories[0].ContentBias
	if merged == nil {
		t.Fatal("Expected merged content bias")
	}
	if merged.DetectedEntities[0].Count != 2 {
		t.Errorf("Expected USR counted twice, got: %v", merged.DetectedEntities)
	}
	if len(merged.Indicators) != 1 {
		t.Errorf("Expected deduplicated indicators, got: %v", merged.Indicators)
	}

	if stories[1].ContentBias != nil {
		t.Errorf("Expected low-confidence analysis to be dropped, got: %+v", stories[1].ContentBias)
	}
	if stories[1].Sources[0].ContentBias != nil {
		t.Error("Expected low-confidence analysis not attached to the article")
	}
}

func TestAggregateWithoutAnalyzer(t *testing.T) {
	a := article("a-0-1", src("a", source.BiasCenter), "USR cere demisia ministrului", testNow)

	stories := newTestAggregator().Aggregate([]feed.Article{a})
	if stories[0].ContentBias != nil {
		t.Error("Expected no content bias without an analyzer")
	}
}

func TestAggregateBlindspot(t *testing.T) {
	l1 := article("l1-0-1", src("l1", source.BiasLeft), "Protest mare în Piața Victoriei", testNow)
	l2 := article("l2-0-1", src("l2", source.BiasCenterLeft), "Protest mare în Piața Victoriei azi", testNow)

	stories := newTestAggregator().Aggregate([]feed.Article{l1, l2})
	if stories[0].Blindspot != BlindspotRight {
		t.Errorf("Expected right-side blindspot for left-dominated coverage, got: %s (%+v)", stories[0].Blindspot, stories[0].Bias)
	}
}

func TestRepresentativeTieKeepsFirst(t *testing.T) {
	a := article("a-0-1", src("a", source.BiasCenter), "Titlu", testNow)
	b := article("b-0-1", src("b", source.BiasCenter), "Titlu", testNow)
	undated := article("c-0-1", src("c", source.BiasCenter), "Titlu", testNow)
	undated.Published = "necunoscut"

	if got := Representative([]feed.Article{a, b, undated}); got.ID != "a-0-1" {
		t.Errorf("Expected first article on equal dates, got: %s", got.ID)
	}
	if got := Representative([]feed.Article{undated, b}); got.ID != "b-0-1" {
		t.Errorf("Expected dated article over undated one, got: %s", got.ID)
	}
}
