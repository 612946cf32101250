package filter

import (
	"fmt"

	"github.com/rehci/encyclopedia/internal/domain/article"
)

// MaxTags is the maximum number of tags in one filter set.
const MaxTags = 32

// Set narrows a query by category and/or tags.
// The category clause is exact-match equality; the tag clause matches
// any article whose tag set intersects the filter tags (OR semantics).
type Set struct {
	category string
	tags     []string
}

// New validates and creates a filter Set. Empty values mean "no
// constraint on that dimension".
func New(category string, tags []string) (Set, error) {
	if len(tags) > MaxTags {
		return Set{}, fmt.Errorf("too many filter tags (max %d)", MaxTags)
	}
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	return Set{category: category, tags: kept}, nil
}

// Category returns the category constraint ("" when unset).
func (s Set) Category() string { return s.category }

// Tags returns the tag constraints (nil when unset).
func (s Set) Tags() []string { return s.tags }

// IsEmpty reports whether the set constrains nothing.
func (s Set) IsEmpty() bool { return s.category == "" && len(s.tags) == 0 }

// Matches reports whether the article passes the filter. Absence of a
// dimension never excludes; category comparison is case-sensitive with
// no normalization, so an article without a category never passes a
// category-filtered set.
func (s Set) Matches(a article.Article) bool {
	if s.category != "" && a.Category() != s.category {
		return false
	}
	if len(s.tags) > 0 {
		found := false
		for _, t := range s.tags {
			if a.HasTag(t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
