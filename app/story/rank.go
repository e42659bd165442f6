package story

import (
	"github.com/roblanc/ClarStiri/app/category"
)

// Limit returns at most n stories. A non-positive n returns them all.
func Limit(stories []Story, n int) []Story {
	if n <= 0 || n >= len(stories) {
		return stories
	}
	return stories[:n]
}

// FilterCategory keeps the stories filed under slug. An empty slug keeps everything.
func FilterCategory(stories []Story, slug string) []Story {
	if slug == "" {
		return stories
	}

	c, ok := category.BySlug(slug)
	if !ok {
		return []Story{}
	}

	out := make([]Story, 0, len(stories))
	for _, s := range stories {
		if s.CategorySlug == c.Slug {
			out = append(out, s)
		}
	}
	return out
}
