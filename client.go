// Package encyclopedia embeds the article search pipeline in a Go
// program: load markdown articles from a directory, search them with
// the same ranking the HTTP service uses, and optionally sync them to
// a Redis-backed full-text index. Static site generators and batch
// jobs use this instead of running the server.
package encyclopedia

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/rehci/encyclopedia/internal/db/redis"
	"github.com/rehci/encyclopedia/internal/domain"
	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	articlerepo "github.com/rehci/encyclopedia/internal/repository/article"
	indexrepo "github.com/rehci/encyclopedia/internal/repository/index"
	cataloguc "github.com/rehci/encyclopedia/internal/usecase/catalog"
	searchuc "github.com/rehci/encyclopedia/internal/usecase/search"
	snapshotuc "github.com/rehci/encyclopedia/internal/usecase/snapshot"
)

const defaultReadinessTimeout = 10 * time.Second

// ErrNotFound is returned by Article for an unknown slug.
var ErrNotFound = domain.ErrArticleNotFound

// Client is the embedded SDK entry point.
type Client struct {
	store         *dbRedis.Store
	source        *articlerepo.Repo
	search        *searchuc.Service
	catalog       *cataloguc.Service
	maxResults    int
	previewLength int
}

// New creates a Client. WithContentDir is required; everything else
// has defaults matching the service configuration.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		includes:      []string{"**/*.md", "**/*.mdx"},
		indexName:     "encyclopedia",
		keyPrefix:     "encyclopedia:article:",
		maxResults:    50,
		previewLength: snapshotuc.DefaultPreviewLength,
		logger:        zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.contentDir == "" {
		return nil, errors.New("encyclopedia: content directory required (use WithContentDir)")
	}

	source := articlerepo.New(cfg.contentDir, cfg.includes, cfg.excludes)

	var store *dbRedis.Store
	var index searchuc.Index
	if len(cfg.addrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("encyclopedia: create redis store: %w", err)
		}
		if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("encyclopedia: database not ready: %w", err)
		}
		store = s
		index = indexrepo.New(s, cfg.indexName, cfg.keyPrefix, cfg.maxResults)
	}

	search := searchuc.New(source, index, cfg.logger)
	if cfg.queryTimeout > 0 {
		search = search.WithRemoteTimeout(cfg.queryTimeout)
	}

	return &Client{
		store:         store,
		source:        source,
		search:        search,
		catalog:       cataloguc.New(source),
		maxResults:    cfg.maxResults,
		previewLength: cfg.previewLength,
	}, nil
}

// Close releases the database connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity. Local-only clients always pass.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SearchOptions narrows and bounds a query.
type SearchOptions struct {
	Category string
	Tags     []string
	Limit    int
}

// Result is one search hit.
type Result struct {
	Slug        string
	Title       string
	Description string
	Category    string
	Tags        []string
	Date        string
	Image       string
}

// Article is a full article including its body.
type Article struct {
	Result
	Author  string
	Content string
}

// Search runs a query and returns hits in relevance order. A blank
// query returns no results. Remote index failures fall back to the
// local engine, never to an error.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) ([]Result, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	fs, err := filter.New(opts.Category, opts.Tags)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	articles, err := c.search.Search(ctx, query, fs)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	limit := c.maxResults
	if opts.Limit > 0 && opts.Limit < limit {
		limit = opts.Limit
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}

	out := make([]Result, len(articles))
	for i, a := range articles {
		out[i] = toResult(a)
	}
	return out, nil
}

// Article looks up one article by slug.
func (c *Client) Article(ctx context.Context, slug string) (Article, error) {
	a, err := c.catalog.Article(ctx, slug)
	if err != nil {
		return Article{}, fmt.Errorf("article %q: %w", slug, err)
	}
	return Article{
		Result:  toResult(a),
		Author:  a.Author(),
		Content: a.Body(),
	}, nil
}

// Categories returns the distinct categories in content order.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	cats, err := c.catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return cats, nil
}

// Articles returns every article in the content directory, in store order.
func (c *Client) Articles(ctx context.Context) ([]Result, error) {
	articles, err := c.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("articles: %w", err)
	}
	out := make([]Result, len(articles))
	for i, a := range articles {
		out[i] = toResult(a)
	}
	return out, nil
}

// ByCategory returns the articles of one category (exact match).
func (c *Client) ByCategory(ctx context.Context, category string) ([]Result, error) {
	articles, err := c.catalog.ByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", category, err)
	}
	out := make([]Result, len(articles))
	for i, a := range articles {
		out[i] = toResult(a)
	}
	return out, nil
}

// ProvisionIndex ensures the remote index exists. A no-op without WithRedis.
func (c *Client) ProvisionIndex(ctx context.Context) error {
	if err := c.search.Provision(ctx); err != nil {
		return fmt.Errorf("provision index: %w", err)
	}
	return nil
}

// SyncIndex replaces the remote index contents with the current
// content directory. Returns the number of articles pushed.
func (c *Client) SyncIndex(ctx context.Context) (int, error) {
	n, err := c.search.Sync(ctx, nil)
	if err != nil {
		return n, fmt.Errorf("sync index: %w", err)
	}
	return n, nil
}

// IndexState reports the remote index lifecycle state as a string:
// unconfigured, provisioning, ready, or degraded.
func (c *Client) IndexState() string {
	return c.search.State().String()
}

// ExportSnapshot writes the articles.json snapshot to path and returns
// the number of articles written.
func (c *Client) ExportSnapshot(ctx context.Context, path string) (int, error) {
	svc := snapshotuc.New(c.source, path, c.previewLength)
	n, err := svc.Export(ctx)
	if err != nil {
		return 0, fmt.Errorf("export snapshot: %w", err)
	}
	return n, nil
}

func toResult(a domart.Article) Result {
	return Result{
		Slug:        a.Slug(),
		Title:       a.Title(),
		Description: a.Description(),
		Category:    a.Category(),
		Tags:        a.Tags(),
		Date:        a.Date(),
		Image:       a.Image(),
	}
}
