// Package categorizer assigns category labels to transaction text.
//
// Categorization runs through a chain of strategies: keyword-substring
// matching against the configured rules first, optionally followed by an
// AI fallback. When no strategy matches, the uncategorized sentinel is
// returned.
package categorizer

import (
	"context"

	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"
)

// Categorizer runs transaction text through a chain of categorization strategies.
type Categorizer struct {
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// New creates a Categorizer backed by keyword matching over the given rules.
func New(categories []models.CategoryConfig, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Categorizer{
		strategies: []CategorizationStrategy{NewKeywordStrategy(categories, logger)},
		logger:     logger,
	}
}

// AddStrategy appends a fallback strategy to the chain. Strategies run in
// the order they were added.
func (c *Categorizer) AddStrategy(strategy CategorizationStrategy) {
	c.strategies = append(c.strategies, strategy)
}

// Categorize returns the category for the given transaction text, or the
// uncategorized sentinel when no strategy matches. Strategy errors are
// logged and treated as a non-match; categorization never fails a run.
func (c *Categorizer) Categorize(ctx context.Context, text string) string {
	for _, strategy := range c.strategies {
		category, found, err := strategy.Categorize(ctx, text)
		if err != nil {
			c.logger.WithError(err).Warn("Categorization strategy failed",
				logging.Field{Key: logging.FieldStrategy, Value: strategy.Name()})
			continue
		}
		if found {
			return category
		}
	}
	return models.CategoryUncategorized
}
