package catalog

import (
	"context"

	domart "github.com/rehci/encyclopedia/internal/domain/article"
)

// Source loads the article collection from the content source.
type Source interface {
	Load(ctx context.Context) (*domart.Collection, error)
}
