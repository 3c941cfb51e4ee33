package pdfparser

import (
	"regexp"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/internal/currencyutils"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
)

// ColumnBinding maps logical column roles to zero-based column indices
// within a table's rows. An index of -1 means the role is unbound.
//
// A binding is resolved the first time a table with recognizable headers is
// seen and is reused for subsequent tables in the same document that carry
// no header row of their own, until a newly resolved binding replaces it.
type ColumnBinding struct {
	Date        int
	Description int
	Amount      int
	Currency    int
	Details     int
}

func newColumnBinding() ColumnBinding {
	return ColumnBinding{Date: -1, Description: -1, Amount: -1, Currency: -1, Details: -1}
}

// Valid reports whether the binding defines all required columns
// (date, description and amount).
func (b ColumnBinding) Valid() bool {
	return b.Date >= 0 && b.Description >= 0 && b.Amount >= 0
}

// maxRequired returns the highest required column index. Rows shorter than
// this cannot yield a record.
func (b ColumnBinding) maxRequired() int {
	max := b.Date
	if b.Description > max {
		max = b.Description
	}
	if b.Amount > max {
		max = b.Amount
	}
	return max
}

// roleLabels lists, per role and in resolution priority order, the known
// header-label variants. Matching is by case-insensitive substring, so
// multi-line headers like "Transaction\ncurrency" still resolve.
var roleLabels = []struct {
	role   string
	labels []string
}{
	{"date", []string{"дата", "date"}},
	{"description", []string{"описание", "description", "операция", "operation"}},
	{"amount", []string{"сумма", "amount"}},
	{"currency", []string{"валюта", "transaction currency"}},
	{"details", []string{"детализация", "детали", "details"}},
}

// dateTokenRe matches a date-shaped substring such as 01.02.2023 or 01-02-23.
var dateTokenRe = regexp.MustCompile(`\d{2}[./-]\d{2}[./-]\d{2,4}`)

// numericTokenRe matches an amount-shaped substring.
var numericTokenRe = regexp.MustCompile(`[+-]?\d[\d\s,.]*`)

func rowText(row []string) string {
	return strings.ToLower(strings.Join(row, " "))
}

// looksLikeHeaders reports whether a row contains no date-shaped, currency
// or amount-shaped token, the heuristic for "this row names columns".
func looksLikeHeaders(row []string) bool {
	if len(row) == 0 {
		return false
	}
	text := rowText(row)
	return !dateTokenRe.MatchString(text) &&
		!currencyutils.ContainsCurrencySymbol(text) &&
		!numericTokenRe.MatchString(text)
}

// looksLikeTransaction reports whether a row contains at least one
// date-shaped, currency or numeric token, the heuristic for "this row is data".
func looksLikeTransaction(row []string) bool {
	if len(row) == 0 {
		return false
	}
	text := rowText(row)
	return dateTokenRe.MatchString(text) ||
		currencyutils.ContainsCurrencySymbol(text) ||
		numericTokenRe.MatchString(text)
}

// headerResolver decides, for each table of a document, which rows are data
// and which columns play which role. It carries the last resolved binding
// across tables so headerless continuation tables reuse it. One resolver
// serves exactly one document; bindings never cross document boundaries.
type headerResolver struct {
	saved *ColumnBinding
	log   logging.Logger
}

// resolve classifies the table and returns the binding to use together with
// the table's data rows. ok is false when the table must be skipped entirely.
func (r *headerResolver) resolve(table Table) (ColumnBinding, [][]string, bool) {
	rows := table.Rows
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ColumnBinding{}, nil, false
	}

	// A table that opens with data and follows a resolved header table is a
	// headerless continuation: every row is data under the saved binding.
	if looksLikeTransaction(rows[0]) && r.saved != nil {
		r.log.Debug("Headerless continuation table, reusing saved binding",
			logging.Field{Key: logging.FieldPage, Value: table.Page})
		return *r.saved, rows, r.saved.Valid()
	}

	var header []string
	var dataRows [][]string
	if len(rows) > 1 && looksLikeHeaders(rows[1]) {
		header = combineHeaderRows(rows[0], rows[1])
		dataRows = rows[2:]
	} else {
		header = cleanHeaderRow(rows[0])
		dataRows = rows[1:]
	}

	if !anyNonEmpty(header) {
		if r.saved == nil {
			r.log.Warn("Table skipped: no headers and no saved binding",
				logging.Field{Key: logging.FieldPage, Value: table.Page})
			return ColumnBinding{}, nil, false
		}
		return *r.saved, dataRows, r.saved.Valid()
	}

	binding := resolveHeader(header)
	if binding != newColumnBinding() {
		// At least one role resolved: this replaces any previous binding.
		r.saved = &binding
	}

	if !binding.Valid() {
		r.log.Warn("Table skipped: required columns not resolved",
			logging.Field{Key: logging.FieldPage, Value: table.Page},
			logging.Field{Key: "date_col", Value: binding.Date},
			logging.Field{Key: "description_col", Value: binding.Description},
			logging.Field{Key: "amount_col", Value: binding.Amount})
		return ColumnBinding{}, nil, false
	}

	return binding, dataRows, true
}

// resolveHeader assigns column roles from a header row. Each cell satisfies
// at most one role; roles are checked per cell in the fixed priority order
// of roleLabels, and a later cell matching the same role overrides an
// earlier one.
func resolveHeader(header []string) ColumnBinding {
	binding := newColumnBinding()

	for i, cell := range header {
		lowered := strings.ToLower(cell)
		if strings.TrimSpace(lowered) == "" {
			continue
		}
	roles:
		for _, rl := range roleLabels {
			for _, label := range rl.labels {
				if strings.Contains(lowered, label) {
					switch rl.role {
					case "date":
						binding.Date = i
					case "description":
						binding.Description = i
					case "amount":
						binding.Amount = i
					case "currency":
						binding.Currency = i
					case "details":
						binding.Details = i
					}
					break roles
				}
			}
		}
	}

	return binding
}

// combineHeaderRows merges a two-line header column by column, flattening
// embedded newlines to spaces.
func combineHeaderRows(first, second []string) []string {
	combined := make([]string, len(first))
	for i := range first {
		text := first[i]
		if i < len(second) && second[i] != "" {
			text = text + " " + second[i]
		}
		combined[i] = strings.TrimSpace(flattenNewlines(text))
	}
	return combined
}

func cleanHeaderRow(row []string) []string {
	cleaned := make([]string, len(row))
	for i, cell := range row {
		cleaned[i] = strings.TrimSpace(flattenNewlines(cell))
	}
	return cleaned
}

func flattenNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func anyNonEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
