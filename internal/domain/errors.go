package domain

import "errors"

var (
	// ErrSourceUnavailable signals an unreadable content source.
	ErrSourceUnavailable = errors.New("content source unavailable")
	// ErrIndexUnavailable signals an unreachable or misbehaving search index.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrArticleNotFound signals a missing article.
	ErrArticleNotFound = errors.New("article not found")
)
