package article

// Collection is the read-only set of all articles for one load of the
// content source. Enumeration order is the source order and is the
// tie-break order for search ranking. A rebuild produces a new
// Collection; an existing one is never mutated.
type Collection struct {
	items  []Article
	bySlug map[string]int
}

// NewCollection builds a Collection, keeping the first article for any
// duplicated slug. Returns the slugs that were dropped as duplicates.
func NewCollection(items []Article) (*Collection, []string) {
	c := &Collection{
		items:  make([]Article, 0, len(items)),
		bySlug: make(map[string]int, len(items)),
	}
	var dropped []string
	for _, a := range items {
		if _, ok := c.bySlug[a.Slug()]; ok {
			dropped = append(dropped, a.Slug())
			continue
		}
		c.bySlug[a.Slug()] = len(c.items)
		c.items = append(c.items, a)
	}
	return c, dropped
}

// Items returns all articles in enumeration order. The returned slice
// must not be modified.
func (c *Collection) Items() []Article { return c.items }

// Len returns the number of articles.
func (c *Collection) Len() int { return len(c.items) }

// Get looks up an article by slug.
func (c *Collection) Get(slug string) (Article, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return c.items[i], true
}

// Categories returns the distinct non-empty categories in first-seen order.
func (c *Collection) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range c.items {
		cat := a.Category()
		if cat == "" || seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// ByCategory returns the articles of one category, in enumeration order.
// Category matching is exact and case-sensitive.
func (c *Collection) ByCategory(category string) []Article {
	var out []Article
	for _, a := range c.items {
		if a.Category() == category {
			out = append(out, a)
		}
	}
	return out
}
