// Package index adapts the RediSearch-backed store into the search
// usecase's Index contract: provisioning, document sync, and delegated
// query execution.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rehci/encyclopedia/internal/db"
	"github.com/rehci/encyclopedia/internal/domain"
	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
)

// MaxSyncBody caps the body text pushed to the index per document.
const MaxSyncBody = 5000

// tagSeparator joins tag values in the indexed hash field.
const tagSeparator = ","

// store is the consumer interface for index operations (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/search.Index against a Redis FT index.
type Repo struct {
	store      store
	name       string
	keyPrefix  string
	maxResults int
}

// New creates an index repository. name is the FT index name,
// keyPrefix the hash key prefix for indexed documents.
func New(s store, name, keyPrefix string, maxResults int) *Repo {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Repo{store: s, name: name, keyPrefix: keyPrefix, maxResults: maxResults}
}

// Provision idempotently ensures the index exists with the expected
// schema: searchable title/description/body/category/tags, filterable
// category/tags (TAG fields), sortable date/title.
//
// RediSearch index definitions are immutable once created, so an
// existing index is left untouched even if its schema has drifted
// from the one above. Reconciling drift requires Drop followed by
// Provision, which is what forced re-provisioning does.
func (r *Repo) Provision(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.name, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:        r.name,
		StorageType: db.StorageHash,
		Prefixes:    []string{r.keyPrefix},
		Fields: []db.IndexField{
			{Name: "title", Type: db.IndexFieldText, Sortable: true},
			{Name: "description", Type: db.IndexFieldText},
			{Name: "body", Type: db.IndexFieldText},
			{Name: "category", Type: db.IndexFieldTag},
			{Name: "tags", Type: db.IndexFieldTag, TagSeparator: tagSeparator},
			{Name: "date", Type: db.IndexFieldTag, Sortable: true},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost a create race; the index is there, which is what we want.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.name, err)
	}
	return nil
}

// Drop removes the index definition, keeping document hashes. Used by
// maintenance tooling for forced re-provisioning.
func (r *Repo) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.name, err)
	}
	return nil
}

// Sync pushes a size-bounded projection of the articles, keyed by
// slug. Body text is truncated to at most MaxSyncBody bytes on a
// rune boundary.
func (r *Repo) Sync(ctx context.Context, arts []domart.Article) error {
	items := make([]db.HashSetItem, len(arts))
	for i, a := range arts {
		items[i] = db.HashSetItem{
			Key:    r.keyPrefix + a.Slug(),
			Fields: projectFields(a),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("sync %d articles: %w", len(items), err)
	}
	return nil
}

// Prune removes indexed documents whose slug is not in keep, making a
// full sync a full replace rather than an accretion of stale entries.
func (r *Repo) Prune(ctx context.Context, keep []string) error {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("scan indexed articles: %w", err)
	}

	keepSet := make(map[string]bool, len(keep))
	for _, slug := range keep {
		keepSet[slug] = true
	}

	for _, key := range keys {
		slug := strings.TrimPrefix(key, r.keyPrefix)
		if keepSet[slug] {
			continue
		}
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("prune %s: %w", slug, err)
		}
	}
	return nil
}

// Query delegates the search to the external engine and returns slugs
// in its relevance order, capped at the configured maximum.
func (r *Repo) Query(ctx context.Context, query string, fs filter.Set) ([]string, error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName: r.name,
		Query:     query,
		Category:  fs.Category(),
		Tags:      fs.Tags(),
		Limit:     r.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query index %s: %w", domain.ErrIndexUnavailable, r.name, err)
	}

	slugs := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		slugs = append(slugs, strings.TrimPrefix(e.Key, r.keyPrefix))
	}
	return slugs, nil
}

// projectFields maps an article to its indexed hash fields.
func projectFields(a domart.Article) map[string]string {
	body := truncateBytes(a.Body(), MaxSyncBody)
	return map[string]string{
		"title":       a.Title(),
		"description": a.Description(),
		"body":        body,
		"category":    a.Category(),
		"tags":        strings.Join(a.Tags(), tagSeparator),
		"date":        a.Date(),
		"author":      a.Author(),
		"image":       a.Image(),
	}
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
