// Package score computes the additive field-weighted relevance score
// shared by every search path. A score of zero excludes the article;
// the ranking key and the inclusion test are the same number.
package score

import (
	"strings"

	"github.com/rehci/encyclopedia/internal/domain/article"
)

// Field weights. Matching is case-insensitive substring containment,
// not tokenized; the weights are additive and independent.
const (
	WeightTitle       = 10
	WeightDescription = 5
	WeightTag         = 3
	WeightCategory    = 2
	WeightBody        = 1
)

// Score returns the relevance of the article for queryLower, which the
// caller must have lowercased already. The body contribution works the
// same against a snapshot preview; only recall on very long documents
// differs, never the contract.
func Score(a article.Article, queryLower string) int {
	s := 0
	if strings.Contains(strings.ToLower(a.Title()), queryLower) {
		s += WeightTitle
	}
	if strings.Contains(strings.ToLower(a.Description()), queryLower) {
		s += WeightDescription
	}
	for _, t := range a.Tags() {
		if strings.Contains(strings.ToLower(t), queryLower) {
			s += WeightTag
			break
		}
	}
	if strings.Contains(strings.ToLower(a.Category()), queryLower) {
		s += WeightCategory
	}
	if strings.Contains(strings.ToLower(a.Body()), queryLower) {
		s += WeightBody
	}
	return s
}
