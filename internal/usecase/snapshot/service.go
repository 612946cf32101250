package snapshot

import (
	"context"
	"fmt"

	domart "github.com/rehci/encyclopedia/internal/domain/article"
)

// Source loads the article collection from the content source.
type Source interface {
	Load(ctx context.Context) (*domart.Collection, error)
}

// Service runs the publish-time snapshot export.
type Service struct {
	source     Source
	path       string
	previewLen int
}

// New creates a snapshot service writing to path.
func New(source Source, path string, previewLen int) *Service {
	if previewLen <= 0 {
		previewLen = DefaultPreviewLength
	}
	return &Service{source: source, path: path, previewLen: previewLen}
}

// Export loads the source, projects it, and atomically publishes the
// snapshot file. Returns the number of exported articles.
func (s *Service) Export(ctx context.Context) (int, error) {
	col, err := s.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load articles: %w", err)
	}

	entries := Project(col, s.previewLen)
	data, err := Encode(entries)
	if err != nil {
		return 0, err
	}

	if err := Write(s.path, data); err != nil {
		return 0, err
	}
	return len(entries), nil
}
