package encyclopedia

import (
	"time"

	"go.uber.org/zap"
)

type clientConfig struct {
	contentDir string
	includes   []string
	excludes   []string

	addrs    []string
	password string

	indexName    string
	keyPrefix    string
	maxResults   int
	queryTimeout time.Duration

	previewLength int

	logger *zap.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

// WithContentDir sets the directory holding the markdown articles.
func WithContentDir(dir string) Option {
	return func(c *clientConfig) { c.contentDir = dir }
}

// WithGlobs overrides the include and exclude patterns used when
// walking the content directory.
func WithGlobs(includes, excludes []string) Option {
	return func(c *clientConfig) {
		c.includes = includes
		c.excludes = excludes
	}
}

// WithRedis enables the remote index backed by Redis with the search
// module. Without it the client answers every query locally.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
		c.password = password
	}
}

// WithIndexName overrides the index name and the key prefix used for
// indexed article hashes.
func WithIndexName(name, keyPrefix string) Option {
	return func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	}
}

// WithMaxResults caps the number of results a search returns.
func WithMaxResults(n int) Option {
	return func(c *clientConfig) { c.maxResults = n }
}

// WithQueryTimeout bounds each remote index attempt. On expiry the
// query is answered by the local engine instead.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.queryTimeout = d }
}

// WithPreviewLength sets the body preview length for snapshot exports.
func WithPreviewLength(n int) Option {
	return func(c *clientConfig) { c.previewLength = n }
}

// WithLogger attaches a zap logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
