// Package db defines the storage contract for the external full-text
// index. Consumers depend on the narrow sub-interfaces; the facade
// exists for wiring at the composition root.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based document storage operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides full-text search over an FT index.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
}

// StorageType selects the FT index storage backing.
type StorageType string

// StorageHash indexes hash keys.
const StorageHash StorageType = "HASH"

// IndexFieldType enumerates FT schema field types.
type IndexFieldType string

// Field types for index schema definitions.
const (
	IndexFieldText IndexFieldType = "TEXT"
	IndexFieldTag  IndexFieldType = "TAG"
)

// IndexField describes one field of an FT index schema.
type IndexField struct {
	Name         string
	Type         IndexFieldType
	Sortable     bool
	TagSeparator string
}

// IndexDefinition describes an FT index to create.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// TextQuery is a full-text search request. Category narrows by exact
// tag equality; Tags form an OR-group; both are conjoined.
type TextQuery struct {
	IndexName string
	Query     string
	Category  string
	Tags      []string
	Limit     int
}

// SearchEntry is one hit of a search result.
type SearchEntry struct {
	Key   string
	Score float64
}

// SearchResult holds ranked search hits.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}
