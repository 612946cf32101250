package article

import "fmt"

// Article is one piece of site content (immutable value object).
// The slug is the primary key, derived from the source filename.
type Article struct {
	slug        string
	title       string
	description string
	category    string
	author      string
	date        string
	image       string
	tags        []string
	body        string
}

// New validates and creates an Article.
// Slug and title are required; everything else is optional metadata.
func New(slug, title string, opts Metadata) (Article, error) {
	if slug == "" {
		return Article{}, fmt.Errorf("article slug is required")
	}
	if title == "" {
		return Article{}, fmt.Errorf("article %q: title is required", slug)
	}
	return Article{
		slug:        slug,
		title:       title,
		description: opts.Description,
		category:    opts.Category,
		author:      opts.Author,
		date:        opts.Date,
		image:       opts.Image,
		tags:        cloneStrings(opts.Tags),
		body:        opts.Body,
	}, nil
}

// Metadata carries the optional article fields for New.
type Metadata struct {
	Description string
	Category    string
	Author      string
	Date        string
	Image       string
	Tags        []string
	Body        string
}

// Reconstruct creates an Article without validation (snapshot/storage hydration).
func Reconstruct(slug, title, description, category, author, date, image string, tags []string, body string) Article {
	return Article{
		slug: slug, title: title, description: description, category: category,
		author: author, date: date, image: image, tags: tags, body: body,
	}
}

// Slug returns the stable unique identifier.
func (a Article) Slug() string { return a.slug }

// Title returns the display title.
func (a Article) Title() string { return a.title }

// Description returns the short description, if any.
func (a Article) Description() string { return a.description }

// Category returns the category, if any.
func (a Article) Category() string { return a.category }

// Author returns the author name, if any.
func (a Article) Author() string { return a.author }

// Date returns the publication date (YYYY-MM-DD), if any.
func (a Article) Date() string { return a.date }

// Image returns the featured image path, if any.
func (a Article) Image() string { return a.image }

// Tags returns the article tags. Order follows the source; matching
// does not depend on it.
func (a Article) Tags() []string { return a.tags }

// Body returns the full text content. In snapshot-hydrated articles
// this is the truncated preview.
func (a Article) Body() string { return a.body }

// HasTag reports whether the article carries the exact tag.
func (a Article) HasTag(tag string) bool {
	for _, t := range a.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
