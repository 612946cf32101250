package search

import (
	"context"

	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
)

// Source loads the article collection from the content source.
type Source interface {
	Load(ctx context.Context) (*domart.Collection, error)
}

// Index is the external full-text engine capability the service
// depends on. A test double substitutes a failing or empty
// implementation to exercise the fallback path deterministically.
type Index interface {
	// Provision idempotently ensures the index and its schema exist.
	Provision(ctx context.Context) error
	// Sync pushes a bounded projection of the articles, keyed by slug.
	Sync(ctx context.Context, arts []domart.Article) error
	// Prune drops indexed entries whose slug is not in keep.
	Prune(ctx context.Context, keep []string) error
	// Query returns slugs in the engine's relevance order.
	Query(ctx context.Context, query string, fs filter.Set) ([]string, error)
}
