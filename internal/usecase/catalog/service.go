// Package catalog serves article lookups and category listings, the
// read paths next to search that hydrate result references into full
// records.
package catalog

import (
	"context"
	"fmt"

	"github.com/rehci/encyclopedia/internal/domain"
	domart "github.com/rehci/encyclopedia/internal/domain/article"
)

// Service answers article and category reads.
type Service struct {
	source Source
}

// New creates a catalog service.
func New(source Source) *Service {
	return &Service{source: source}
}

// Article returns one article by slug, or domain.ErrArticleNotFound.
func (s *Service) Article(ctx context.Context, slug string) (domart.Article, error) {
	col, err := s.source.Load(ctx)
	if err != nil {
		return domart.Article{}, fmt.Errorf("load articles: %w", err)
	}
	a, ok := col.Get(slug)
	if !ok {
		return domart.Article{}, fmt.Errorf("%w: %s", domain.ErrArticleNotFound, slug)
	}
	return a, nil
}

// Categories returns the distinct categories in first-seen order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	col, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return col.Categories(), nil
}

// ByCategory returns the articles of one category in source order.
func (s *Service) ByCategory(ctx context.Context, category string) ([]domart.Article, error) {
	col, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return col.ByCategory(category), nil
}

// All returns every article in source order.
func (s *Service) All(ctx context.Context) ([]domart.Article, error) {
	col, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return col.Items(), nil
}
