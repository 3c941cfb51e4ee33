package categorizer

import (
	"context"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"
)

// KeywordStrategy implements categorization using case-insensitive keyword
// substring matching against the configured category rules.
//
// Rules are scanned in their configured order and the first category with a
// matching keyword wins, so more specific categories should be listed first.
type KeywordStrategy struct {
	categories []models.CategoryConfig
	logger     logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(categories []models.CategoryConfig, logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{
		categories: categories,
		logger:     logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Categorize scans the rules in order and returns the first category whose
// keyword set has any keyword as a substring of the lower-cased text.
func (s *KeywordStrategy) Categorize(_ context.Context, text string) (string, bool, error) {
	lowered := strings.ToLower(text)

	for _, category := range s.categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				s.logger.Debug("Matched category keyword",
					logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
					logging.Field{Key: logging.FieldCategory, Value: category.Name},
					logging.Field{Key: "keyword", Value: keyword})
				return category.Name, true, nil
			}
		}
	}

	return "", false, nil
}
