// Package pdfparser extracts transaction records from bank-statement PDFs.
//
// A pluggable TableSource produces candidate tables per page; each table is
// classified as a header table, a headerless continuation or a
// non-transaction table, its columns are bound to roles, and its rows are
// converted into normalized, categorized transaction records. Extraction is
// best-effort: a malformed row, table or file degrades to fewer records,
// never to a failed batch.
package pdfparser

import (
	"context"
	"fmt"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/internal/categorizer"
	"github.com/madebytinystudio/bank-analyzer/internal/common"
	"github.com/madebytinystudio/bank-analyzer/internal/currencyutils"
	"github.com/madebytinystudio/bank-analyzer/internal/dateutils"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"
)

// Parser converts the tables of one or more PDF documents into transactions.
// The zero value is not usable; construct with New.
type Parser struct {
	source TableSource
	cat    *categorizer.Categorizer
	log    logging.Logger
}

// New creates a Parser reading tables from the given source. Column bindings
// are tracked per document inside Parse, so one Parser may process many
// files in sequence (or concurrently, one call per document).
func New(source TableSource, cat *categorizer.Categorizer, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{
		source: source,
		cat:    cat,
		log:    logger,
	}
}

// Parse extracts all transaction records from the PDF at the given path.
//
// Tables that resolve no usable column binding are skipped with a log entry.
// Rows missing a required cell are skipped silently. The returned slice
// preserves document order.
func (p *Parser) Parse(ctx context.Context, pdfPath string) ([]models.Transaction, error) {
	tables, err := p.source.ExtractTables(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract tables from %s: %w", pdfPath, err)
	}

	p.log.Info("Extracted candidate tables",
		logging.Field{Key: logging.FieldFile, Value: pdfPath},
		logging.Field{Key: logging.FieldCount, Value: len(tables)})

	resolver := &headerResolver{log: p.log}
	var transactions []models.Transaction

	for i, table := range tables {
		binding, dataRows, ok := resolver.resolve(table)
		if !ok {
			continue
		}

		p.log.Debug("Processing table",
			logging.Field{Key: logging.FieldTable, Value: i + 1},
			logging.Field{Key: logging.FieldPage, Value: table.Page},
			logging.Field{Key: logging.FieldRow, Value: len(dataRows)})

		for _, row := range dataRows {
			tx, ok := p.convertRow(ctx, row, binding)
			if !ok {
				continue
			}
			transactions = append(transactions, tx)
		}
	}

	p.logCategoryTotals(pdfPath, transactions)
	return transactions, nil
}

// convertRow builds one transaction from a data row under the given binding.
// ok is false when the row has no usable date, description or amount cell.
func (p *Parser) convertRow(ctx context.Context, row []string, binding ColumnBinding) (models.Transaction, bool) {
	if len(row) <= binding.maxRequired() {
		return models.Transaction{}, false
	}

	dateRaw := strings.TrimSpace(row[binding.Date])
	description := strings.TrimSpace(row[binding.Description])
	amountRaw := strings.TrimSpace(row[binding.Amount])
	if dateRaw == "" || description == "" || amountRaw == "" {
		return models.Transaction{}, false
	}

	tx := models.Transaction{
		Date:        dateutils.NormalizeDate(dateRaw),
		Description: description,
		Amount:      currencyutils.NormalizeAmount(amountRaw),
	}

	if binding.Details >= 0 && binding.Details < len(row) {
		tx.Details = strings.TrimSpace(row[binding.Details])
	}
	if binding.Currency >= 0 && binding.Currency < len(row) {
		tx.Currency = strings.TrimSpace(row[binding.Currency])
	}

	fullText := description
	if tx.Details != "" {
		fullText = fullText + " " + tx.Details
	}
	tx.Category = p.cat.Categorize(ctx, fullText)

	return tx, true
}

// logCategoryTotals reports the per-category amount sums of one document.
// Diagnostics only; the report package recomputes totals after deduplication.
func (p *Parser) logCategoryTotals(pdfPath string, transactions []models.Transaction) {
	totals := models.CategoryTotals(transactions)
	for category, total := range totals {
		p.log.Debug("Category total",
			logging.Field{Key: logging.FieldFile, Value: pdfPath},
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: "total", Value: total})
	}
	p.log.Info("Extraction finished",
		logging.Field{Key: logging.FieldFile, Value: pdfPath},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
}

// ConvertToCSV parses a PDF bank statement and writes the records to a CSV
// file. This is a convenience function combining Parse and the common CSV
// writer.
func (p *Parser) ConvertToCSV(ctx context.Context, inputFile, outputFile string) error {
	transactions, err := p.Parse(ctx, inputFile)
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		p.log.Info("No transactions found, writing empty CSV file",
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile})
	}

	if err := common.WriteTransactionsToCSV(transactions, outputFile); err != nil {
		return err
	}

	p.log.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})
	return nil
}
