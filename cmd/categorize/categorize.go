// Package categorize handles direct categorization of transaction text
package categorize

import (
	"fmt"
	"strings"

	"github.com/madebytinystudio/bank-analyzer/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [description...]",
	Short: "Categorize a transaction description against the configured rules",
	Long: `Categorize a transaction description using the configured keyword rules
(and the AI strategy when enabled), printing the matched category.

Example:
  bank-analyzer categorize "MAGNIT SUPERMARKET 042"`,
	Args: cobra.MinimumNArgs(1),
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	cat, cleanup, err := root.BuildCategorizer(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	category := cat.Categorize(cmd.Context(), text)
	fmt.Println(category)
	return nil
}
