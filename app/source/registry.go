package source

import (
	"fmt"
	"net/url"
	"slices"
)

// Registry is the immutable set of known sources. Accessors return copies.
type Registry struct {
	sources  []Source
	byID     map[string]int
	priority map[string]bool
}

func NewRegistry(sources []Source, priorityIDs []string) (*Registry, error) {
	r := &Registry{
		sources:  make([]Source, 0, len(sources)),
		byID:     make(map[string]int, len(sources)),
		priority: make(map[string]bool, len(priorityIDs)),
	}

	for i, s := range sources {
		if err := validate(s); err != nil {
			return nil, fmt.Errorf("invalid source #%d: %w", i, err)
		}
		if _, exists := r.byID[s.ID]; exists {
			return nil, fmt.Errorf("duplicate source id: %s", s.ID)
		}
		r.byID[s.ID] = len(r.sources)
		r.sources = append(r.sources, s)
	}

	for _, id := range priorityIDs {
		if _, ok := r.byID[id]; !ok {
			return nil, fmt.Errorf("priority source not found: %s", id)
		}
		r.priority[id] = true
	}

	return r, nil
}

func validate(s Source) error {
	if s.ID == "" {
		return fmt.Errorf("missing id")
	}
	if s.Name == "" {
		return fmt.Errorf("source %s: missing name", s.ID)
	}

	u, err := url.Parse(s.FeedURL)
	if err != nil {
		return fmt.Errorf("source %s: malformed feed url: %w", s.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source %s: feed url must be an absolute http(s) url: %q", s.ID, s.FeedURL)
	}

	if !s.Bias.Valid() {
		return fmt.Errorf("source %s: unknown bias %q", s.ID, s.Bias)
	}
	if s.Factuality != "" && !s.Factuality.Valid() {
		return fmt.Errorf("source %s: unknown factuality %q", s.ID, s.Factuality)
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("source %s: unknown category %q", s.ID, s.Kind)
	}

	switch s.Parser {
	case "", ParserScan, ParserGofeed:
	default:
		return fmt.Errorf("source %s: unknown parser %q", s.ID, s.Parser)
	}

	return nil
}

func (r *Registry) All() []Source {
	return slices.Clone(r.sources)
}

func (r *Registry) Get(id string) (Source, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Source{}, false
	}
	return r.sources[i], true
}

func (r *Registry) Len() int {
	return len(r.sources)
}

func (r *Registry) IsPriority(id string) bool {
	return r.priority[id]
}

// Priority returns the fast, reliable tier in registry order.
func (r *Registry) Priority() []Source {
	return r.filter(true)
}

// Others returns every source outside the priority tier in registry order.
func (r *Registry) Others() []Source {
	return r.filter(false)
}

func (r *Registry) filter(priority bool) []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		if r.priority[s.ID] == priority {
			out = append(out, s)
		}
	}
	return out
}
