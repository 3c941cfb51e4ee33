// Package extract handles single statement PDF to CSV conversion
package extract

import (
	"fmt"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/cmd/root"
	"github.com/madebytinystudio/bank-analyzer/internal/fileutils"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transactions from a bank statement PDF into CSV",
	Long: `Extract transaction tables from a bank statement PDF, normalize dates
and amounts, categorize each transaction and write the result as CSV.

Example:
  bank-analyzer extract -i statement.pdf -o transactions.csv`,
	RunE: extractFunc,
}

func extractFunc(cmd *cobra.Command, args []string) error {
	inputFile := root.SharedFlags.Input
	outputFile := root.SharedFlags.Output

	if inputFile == "" {
		return cmd.Help()
	}
	if outputFile == "" {
		outputFile = strings.TrimSuffix(inputFile, ".pdf") + ".csv"
	}

	if !fileutils.FileExists(inputFile) {
		root.Log.Error("Input file does not exist",
			logging.Field{Key: logging.FieldInputFile, Value: inputFile})
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	cat, cleanup, err := root.BuildCategorizer(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	parser := root.BuildParser(cat)
	return parser.ConvertToCSV(cmd.Context(), inputFile, outputFile)
}
