// Package dateutils provides common date operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutCanonical is the canonical output format for statement dates (DD.MM.YYYY).
const DateLayoutCanonical = "02.01.2006"

// statementLayouts is the ordered list of layouts tried when normalizing a
// statement date. Day-first layouts come before year-first ones so that
// ambiguous values resolve the way bank statements write them.
var statementLayouts = []string{
	DateLayoutCanonical, // DD.MM.YYYY
	"02-01-2006",        // DD-MM-YYYY
	"2006-01-02",        // YYYY-MM-DD
	"02/01/2006",        // DD/MM/YYYY
	"2006/01/02",        // YYYY/MM/DD
	"02 01 2006",        // DD MM YYYY
}

var nonDigitRe = regexp.MustCompile(`[^\d]`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims a date string and collapses internal whitespace runs.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// NormalizeDate converts a locale-variant date string to DD.MM.YYYY.
//
// It tries each known layout in order, then falls back to stripping all
// non-digit characters and interpreting an 8-digit remainder as DDMMYYYY.
// If nothing parses, the trimmed input is returned unchanged so the record
// is degraded rather than lost.
func NormalizeDate(raw string) string {
	cleaned := CleanDateString(raw)

	for _, layout := range statementLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format(DateLayoutCanonical)
		}
	}

	digits := nonDigitRe.ReplaceAllString(cleaned, "")
	if len(digits) == 8 {
		if t, err := time.Parse("02012006", digits); err == nil {
			return t.Format(DateLayoutCanonical)
		}
	}

	return strings.TrimSpace(raw)
}

// ParseDate parses a date string against the known statement layouts and
// returns the resulting time. Used by the reporting step, which needs real
// calendar dates for sorting and deduplication.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range statementLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
