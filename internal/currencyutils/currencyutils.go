// Package currencyutils provides parsing of currency-formatted amount strings.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbolRe matches currency symbols that may surround an amount.
var currencySymbolRe = regexp.MustCompile("[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪]")

// amountRe matches the first numeric substring of a cell: an optional sign,
// a digit, then any run of digits, grouping spaces and separators.
var amountRe = regexp.MustCompile(`[+-]?\d[\d\s,.]*`)

// groupingSpaces removes the space characters statements use to group digit
// triples. RE2's \s is ASCII-only, so a non-breaking space would otherwise
// split the match at the first group.
var groupingSpaces = strings.NewReplacer(" ", "", "\u00a0", "")

var whitespaceRe = regexp.MustCompile(`\s+`)

// ContainsCurrencySymbol reports whether the string contains a currency symbol.
func ContainsCurrencySymbol(s string) bool {
	return currencySymbolRe.MatchString(s)
}

// NormalizeAmount converts a currency-formatted string into a rounded,
// non-negative integer magnitude. The direction of the transaction is not
// preserved. Returns nil when no amount can be parsed.
//
// Separator disambiguation: when both ',' and '.' are present, the comma is
// a thousands separator and is removed; a lone comma is a decimal separator.
func NormalizeAmount(raw string) *int64 {
	stripped := currencySymbolRe.ReplaceAllString(raw, "")
	stripped = groupingSpaces.Replace(stripped)

	match := amountRe.FindString(stripped)
	if match == "" {
		return nil
	}

	normalized := whitespaceRe.ReplaceAllString(match, "")
	switch {
	case strings.Contains(normalized, ",") && strings.Contains(normalized, "."):
		normalized = strings.ReplaceAll(normalized, ",", "")
	case strings.Contains(normalized, ","):
		normalized = strings.ReplaceAll(normalized, ",", ".")
	}
	normalized = strings.TrimRight(normalized, ".")
	if normalized == "" || normalized == "+" || normalized == "-" {
		return nil
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return nil
	}

	// Round half away from zero; on a magnitude this is round-half-up.
	amount := value.Abs().Round(0).IntPart()
	return &amount
}
