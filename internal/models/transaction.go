// Package models defines the shared data structures of the application.
package models

// CategoryUncategorized is the sentinel category assigned to transactions
// that match none of the configured keyword rules.
const CategoryUncategorized = "Uncategorized"

// Transaction represents a single statement entry extracted from a PDF.
//
// Date keeps the raw string when it could not be normalized, so a degraded
// record is still emitted rather than discarded. Amount is the rounded
// magnitude of the transaction; it is nil when the cell could not be parsed.
type Transaction struct {
	Date        string `csv:"Date" json:"date"`
	Description string `csv:"Description" json:"description"`
	Details     string `csv:"Details" json:"details,omitempty"`
	Amount      *int64 `csv:"Amount" json:"amount"`
	Currency    string `csv:"Currency" json:"currency,omitempty"`
	Category    string `csv:"Category" json:"category"`
}

// CategoryConfig represents a single category and the keywords that map
// transaction text onto it.
type CategoryConfig struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryTotals sums the amounts of the given transactions per category.
// Transactions without a parsed amount are ignored.
func CategoryTotals(transactions []Transaction) map[string]int64 {
	totals := make(map[string]int64)
	for _, tx := range transactions {
		if tx.Amount == nil {
			continue
		}
		totals[tx.Category] += *tx.Amount
	}
	return totals
}
