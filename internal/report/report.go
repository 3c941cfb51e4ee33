// Package report builds spending reports from extracted transactions:
// a category summary and a deduplicated transaction detail, exported as a
// two-sheet XLSX workbook or plain CSV.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/madebytinystudio/bank-analyzer/internal/common"
	"github.com/madebytinystudio/bank-analyzer/internal/dateutils"
	"github.com/madebytinystudio/bank-analyzer/internal/fileutils"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	detailsSheet = "Details"
)

// CategorySummary is one row of the per-category totals.
type CategorySummary struct {
	Category string
	Total    int64
	Count    int
}

// Generator deduplicates transactions and renders reports.
type Generator struct {
	log logging.Logger
}

// New creates a report Generator.
func New(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{log: logger}
}

// Prepare drops transactions whose date cannot be parsed, removes
// duplicates and returns the remainder sorted by date. Statements exported
// for overlapping periods repeat transactions, so two entries with the same
// date, amount and description are treated as one.
func (g *Generator) Prepare(transactions []models.Transaction) []models.Transaction {
	type entry struct {
		tx   models.Transaction
		when time.Time
	}

	seen := make(map[string]bool)
	var entries []entry
	dropped := 0

	for _, tx := range transactions {
		when, err := dateutils.ParseDate(tx.Date)
		if err != nil {
			dropped++
			g.log.WithError(err).Debug("Dropping transaction with unparsable date",
				logging.Field{Key: "date", Value: tx.Date})
			continue
		}

		key := dedupKey(when, tx)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, entry{tx: tx, when: when})
	}

	if dropped > 0 {
		g.log.Warn("Dropped transactions with unparsable dates",
			logging.Field{Key: logging.FieldCount, Value: dropped})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].when.Before(entries[j].when)
	})

	result := make([]models.Transaction, len(entries))
	for i, e := range entries {
		result[i] = e.tx
	}
	return result
}

// dedupKey identifies a transaction by its minute-truncated timestamp,
// amount and description.
func dedupKey(when time.Time, tx models.Transaction) string {
	amount := "?"
	if tx.Amount != nil {
		amount = fmt.Sprintf("%d", *tx.Amount)
	}
	return strings.Join([]string{
		when.Truncate(time.Minute).Format(time.RFC3339),
		amount,
		strings.ToLower(strings.TrimSpace(tx.Description)),
	}, "|")
}

// Summarize computes per-category totals and counts, largest total first.
func (g *Generator) Summarize(transactions []models.Transaction) []CategorySummary {
	totals := make(map[string]*CategorySummary)
	for _, tx := range transactions {
		s, ok := totals[tx.Category]
		if !ok {
			s = &CategorySummary{Category: tx.Category}
			totals[tx.Category] = s
		}
		if tx.Amount != nil {
			s.Total += *tx.Amount
		}
		s.Count++
	}

	summaries := make([]CategorySummary, 0, len(totals))
	for _, s := range totals {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}

// WriteXLSX writes the two-sheet workbook: category summary and
// transaction detail. Transactions must already be prepared.
func (g *Generator) WriteXLSX(transactions []models.Transaction, outputFile string) error {
	summaries := g.Summarize(transactions)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			g.log.WithError(cerr).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return fmt.Errorf("failed to create details sheet: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, []interface{}{"Category", "Total", "Transactions"}); err != nil {
		return err
	}
	for i, s := range summaries {
		if err := writeRow(f, summarySheet, i+2, []interface{}{s.Category, s.Total, s.Count}); err != nil {
			return err
		}
	}

	if err := writeRow(f, detailsSheet, 1, []interface{}{"Date", "Description", "Details", "Amount", "Currency", "Category"}); err != nil {
		return err
	}
	for i, tx := range transactions {
		var amount interface{}
		if tx.Amount != nil {
			amount = *tx.Amount
		}
		row := []interface{}{tx.Date, tx.Description, tx.Details, amount, tx.Currency, tx.Category}
		if err := writeRow(f, detailsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(outputFile)); err != nil {
		return err
	}
	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save report %s: %w", outputFile, err)
	}

	g.log.Info("Wrote XLSX report",
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}

// WriteCSV writes the prepared transaction detail as CSV.
func (g *Generator) WriteCSV(transactions []models.Transaction, outputFile string) error {
	return common.WriteTransactionsToCSV(transactions, outputFile)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}
