package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{
			name:     "Plain integer",
			input:    "100",
			expected: 100,
		},
		{
			name:     "Negative decimal becomes magnitude",
			input:    "-45.20",
			expected: 45,
		},
		{
			name:     "Explicit plus sign",
			input:    "+250.00",
			expected: 250,
		},
		{
			name:     "Space grouped with comma decimal and symbol",
			input:    "1 234,56 ₸",
			expected: 1235,
		},
		{
			name:     "Non-breaking space grouping",
			input:    "2\u00a0500",
			expected: 2500,
		},
		{
			name:     "Non-breaking space grouping with comma decimal and symbol",
			input:    "1\u00a0234,56 \u20b8",
			expected: 1235,
		},
		{
			name:     "Comma grouped with dot decimal",
			input:    "1,234.56",
			expected: 1235,
		},
		{
			name:     "Lone comma is the decimal separator",
			input:    "12,4",
			expected: 12,
		},
		{
			name:     "Trailing dot trimmed",
			input:    "10.",
			expected: 10,
		},
		{
			name:     "Leading currency symbol",
			input:    "$99.99",
			expected: 100,
		},
		{
			name:     "Halves round up on the magnitude",
			input:    "-0.5",
			expected: 1,
		},
		{
			name:     "Amount embedded in text",
			input:    "total 77.30 end",
			expected: 77,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAmount(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

// Both separators present means the comma is grouping, so a European-style
// "1.234,56" collapses to 1.23456 and rounds to 1. Documented behavior, not
// an accident.
func TestNormalizeAmountBothSeparatorsDotFirst(t *testing.T) {
	got := NormalizeAmount("1.234,56")
	require.NotNil(t, got)
	assert.Equal(t, int64(1), *got)
}

func TestNormalizeAmountUnparsable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "No digits", input: "not a number"},
		{name: "Empty string", input: ""},
		{name: "Only symbols", input: "₸ €"},
		{name: "Only sign", input: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, NormalizeAmount(tt.input))
		})
	}
}

func TestContainsCurrencySymbol(t *testing.T) {
	assert.True(t, ContainsCurrencySymbol("1 234,56 ₸"))
	assert.True(t, ContainsCurrencySymbol("$10"))
	assert.False(t, ContainsCurrencySymbol("Amount"))
	assert.False(t, ContainsCurrencySymbol("KZT 100"))
}
