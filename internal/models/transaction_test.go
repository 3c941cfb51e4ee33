package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryTotals(t *testing.T) {
	coffee := int64(500)
	lunch := int64(1500)
	taxi := int64(800)

	transactions := []Transaction{
		{Description: "Coffee", Amount: &coffee, Category: "Food"},
		{Description: "Lunch", Amount: &lunch, Category: "Food"},
		{Description: "Taxi", Amount: &taxi, Category: "Transport"},
		{Description: "Pending", Amount: nil, Category: "Transport"},
	}

	totals := CategoryTotals(transactions)

	assert.Equal(t, int64(2000), totals["Food"])
	assert.Equal(t, int64(800), totals["Transport"])
	assert.Len(t, totals, 2)
}

func TestCategoryTotalsEmpty(t *testing.T) {
	assert.Empty(t, CategoryTotals(nil))
}
