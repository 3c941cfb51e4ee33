// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/madebytinystudio/bank-analyzer/internal/categorizer"
	"github.com/madebytinystudio/bank-analyzer/internal/common"
	"github.com/madebytinystudio/bank-analyzer/internal/config"
	"github.com/madebytinystudio/bank-analyzer/internal/logging"
	"github.com/madebytinystudio/bank-analyzer/internal/pdfparser"
	"github.com/madebytinystudio/bank-analyzer/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bank-analyzer",
		Short: "A CLI tool to extract transactions from bank statement PDFs and categorize them.",
		Long: `bank-analyzer extracts transaction tables from bank statement PDFs,
normalizes dates and amounts, categorizes transactions by configurable
keyword rules and produces CSV exports and spending reports.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bank-analyzer!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
				os.Exit(1)
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			common.SetLogger(Log)
			common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
}

// BuildCategorizer assembles the categorizer from the configured category
// rules, adding the Gemini strategy when AI categorization is enabled.
// The returned cleanup function releases the AI client, if any.
func BuildCategorizer(ctx context.Context) (*categorizer.Categorizer, func(), error) {
	categoryStore := store.NewCategoryStore(Cfg.Categories.File, Log)
	categories, err := categoryStore.LoadCategories()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}

	cat := categorizer.New(categories, Log)
	cleanup := func() {}

	if Cfg.AI.Enabled {
		timeout := time.Duration(Cfg.AI.TimeoutSeconds) * time.Second
		gemini, err := categorizer.NewGeminiStrategy(ctx, Cfg.AI.APIKey, Cfg.AI.Model, timeout, categories, Log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize AI categorization: %w", err)
		}
		cat.AddStrategy(gemini)
		cleanup = func() {
			if cerr := gemini.Close(); cerr != nil {
				Log.WithError(cerr).Warn("Failed to close AI client")
			}
		}
	}

	return cat, cleanup, nil
}

// BuildParser assembles the PDF statement parser with the configured
// extraction tolerances.
func BuildParser(cat *categorizer.Categorizer) *pdfparser.Parser {
	source := pdfparser.NewGeometricSource(Log)
	source.RowTolerance = Cfg.Extract.RowTolerance
	source.GapThreshold = Cfg.Extract.GapThreshold
	source.SnapTolerance = Cfg.Extract.SnapTolerance
	return pdfparser.New(source, cat, Log)
}
