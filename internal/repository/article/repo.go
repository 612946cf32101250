// Package article loads the content source: markdown files with a YAML
// frontmatter header and a text body, addressed by a slug derived from
// the filename.
package article

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rehci/encyclopedia/internal/domain"
	domart "github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/logger"
)

const frontmatterDelim = "---"

// Repo reads articles from a content directory. Every Load walks the
// source and builds a fresh Collection; a rebuild replaces the whole
// set, there is no partial update.
type Repo struct {
	dir    string
	walker *walker
}

// New creates a content repository over dir.
func New(dir string, includes, excludes []string) *Repo {
	return &Repo{dir: dir, walker: newWalker(includes, excludes)}
}

// Load reads all articles from the content directory. An unreadable
// content root yields domain.ErrSourceUnavailable; a single malformed
// file is skipped with a warning, not fatal.
func (r *Repo) Load(ctx context.Context) (*domart.Collection, error) {
	log := logger.FromContext(ctx)

	if _, err := os.Stat(r.dir); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, r.dir, err)
	}

	files, err := r.walker.walk(r.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", domain.ErrSourceUnavailable, r.dir, err)
	}

	articles := make([]domart.Article, 0, len(files))
	for _, path := range files {
		a, err := readArticle(path)
		if err != nil {
			log.Warn("skipping unreadable article",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		articles = append(articles, a)
	}

	col, dropped := domart.NewCollection(articles)
	for _, slug := range dropped {
		log.Warn("duplicate slug dropped", zap.String("slug", slug))
	}
	return col, nil
}

// frontmatter mirrors the YAML metadata header of a content file.
type frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Image       string   `yaml:"image"`
}

func readArticle(path string) (domart.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domart.Article{}, fmt.Errorf("read %s: %w", path, err)
	}

	fm, body, err := splitFrontmatter(string(data))
	if err != nil {
		return domart.Article{}, fmt.Errorf("parse %s: %w", path, err)
	}

	slug := slugFromPath(path)
	title := fm.Title
	if title == "" {
		title = slug
	}

	return domart.New(slug, title, domart.Metadata{
		Description: fm.Description,
		Category:    fm.Category,
		Author:      fm.Author,
		Date:        fm.Date,
		Image:       fm.Image,
		Tags:        fm.Tags,
		Body:        body,
	})
}

// splitFrontmatter separates the YAML header from the body. A file
// without a header is all body with empty metadata.
func splitFrontmatter(content string) (frontmatter, string, error) {
	var fm frontmatter

	rest, ok := strings.CutPrefix(content, frontmatterDelim+"\n")
	if !ok {
		if rest, ok = strings.CutPrefix(content, frontmatterDelim+"\r\n"); !ok {
			return fm, content, nil
		}
	}

	head, body, found := strings.Cut(rest, "\n"+frontmatterDelim)
	if !found {
		return fm, "", fmt.Errorf("unterminated frontmatter")
	}
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\r\n")

	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return fm, "", fmt.Errorf("frontmatter: %w", err)
	}
	return fm, body, nil
}

// slugFromPath derives the stable identifier from the source filename.
func slugFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
