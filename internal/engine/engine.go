// Package engine is the local scan-filter-sort search pipeline. It is
// the fallback behind the remote index and, compiled to js/wasm, the
// browser-side engine over a snapshot collection. Both run the exact
// same code; results must not depend on which deployment executes it.
package engine

import (
	"sort"
	"strings"

	"github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	"github.com/rehci/encyclopedia/internal/domain/search/score"
)

// Search scans the collection and returns the articles matching query
// and fs, ordered by descending relevance. Ties keep the collection's
// enumeration order (stable sort). A blank or whitespace-only query
// returns no results; that is a defined empty case, not an error.
// No result cap is applied here; callers truncate as needed.
func Search(col *article.Collection, query string, fs filter.Set) []article.Article {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	queryLower := strings.ToLower(query)

	type ranked struct {
		art   article.Article
		score int
	}

	var hits []ranked
	for _, a := range col.Items() {
		if !fs.Matches(a) {
			continue
		}
		s := score.Score(a, queryLower)
		if s == 0 {
			continue
		}
		hits = append(hits, ranked{art: a, score: s})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]article.Article, len(hits))
	for i, h := range hits {
		out[i] = h.art
	}
	return out
}
