// Package analyze handles batch processing of statement directories
package analyze

import (
	"fmt"
	"path/filepath"

	"github.com/madebytinystudio/bank-analyzer/cmd/root"
	"github.com/madebytinystudio/bank-analyzer/internal/common"
	"github.com/madebytinystudio/bank-analyzer/internal/fileutils"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/models"
	"github.com/madebytinystudio/bank-analyzer/internal/report"

	"github.com/spf13/cobra"
)

var (
	reportFormat string
	includeCSV   bool
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Process a directory of statement PDFs into a spending report",
	Long: `Process every PDF in the input directory, merge and deduplicate the
extracted transactions and write a spending report with per-category totals.

With --include-csv, transaction CSV files produced by earlier extract runs
are merged into the report alongside the PDFs; deduplication removes the
overlap.

A statement that fails to parse contributes zero transactions; the rest of
the batch still completes.

Example:
  bank-analyzer analyze -i statements/ -o report.xlsx`,
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVar(&reportFormat, "format", "", "Report format: xlsx or csv (default from config)")
	Cmd.Flags().BoolVar(&includeCSV, "include-csv", false, "Also merge transaction CSVs found in the input directory")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputFile := root.SharedFlags.Output

	if inputDir == "" {
		return cmd.Help()
	}

	format := reportFormat
	if format == "" {
		format = root.Cfg.Report.Format
	}
	if format != "xlsx" && format != "csv" {
		return fmt.Errorf("invalid report format: %s (must be 'xlsx' or 'csv')", format)
	}
	if outputFile == "" {
		outputFile = "report." + format
	}

	files, err := fileutils.ListFilesWithExtension(inputDir, ".pdf")
	if err != nil {
		return err
	}
	if len(files) == 0 && !includeCSV {
		root.Log.Warn("No PDF files found in input directory",
			logging.Field{Key: "directory", Value: inputDir})
		return nil
	}

	root.Log.Info("Found statements for processing",
		logging.Field{Key: logging.FieldCount, Value: len(files)})

	cat, cleanup, err := root.BuildCategorizer(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	parser := root.BuildParser(cat)

	var all []models.Transaction
	failed := 0
	for _, file := range files {
		transactions, err := parser.Parse(cmd.Context(), file)
		if err != nil {
			// A broken statement must not abort the batch
			failed++
			root.Log.WithError(err).Error("Failed to process statement",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			continue
		}
		all = append(all, transactions...)
	}

	if failed > 0 {
		root.Log.Warn("Some statements failed to process",
			logging.Field{Key: logging.FieldCount, Value: failed})
	}

	if includeCSV {
		merged, err := mergeCSVTransactions(inputDir, root.Log)
		if err != nil {
			return err
		}
		all = append(all, merged...)
	}

	if len(all) == 0 {
		root.Log.Warn("No transactions extracted, skipping report")
		return nil
	}

	gen := report.New(root.Log)
	prepared := gen.Prepare(all)

	if format == "csv" {
		return gen.WriteCSV(prepared, outputFile)
	}
	return gen.WriteXLSX(prepared, outputFile)
}

// mergeCSVTransactions loads every transaction CSV under the input
// directory, typically the output of earlier extract runs. A CSV that fails
// to parse is logged and skipped, like a broken statement.
func mergeCSVTransactions(inputDir string, log logging.Logger) ([]models.Transaction, error) {
	csvFiles, err := fileutils.ListFilesWithExtension(inputDir, ".csv")
	if err != nil {
		return nil, err
	}

	var merged []models.Transaction
	for _, file := range csvFiles {
		transactions, err := common.ReadTransactionsFromCSV(file)
		if err != nil {
			log.WithError(err).Error("Failed to read transaction CSV",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			continue
		}
		merged = append(merged, transactions...)
	}

	if len(csvFiles) > 0 {
		log.Info("Merged previously extracted CSV files",
			logging.Field{Key: logging.FieldCount, Value: len(csvFiles)})
	}
	return merged, nil
}
