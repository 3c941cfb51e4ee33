package categorizer

import "context"

// CategorizationStrategy defines a method for assigning a category to
// transaction text. Each strategy implements a specific approach
// (keyword matching, AI, etc.).
type CategorizationStrategy interface {
	// Categorize attempts to categorize the given transaction text.
	// Returns the category name, a boolean indicating whether this strategy
	// produced a match, and any error encountered along the way.
	Categorize(ctx context.Context, text string) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
