// =============================================================================
// SmartDocs Insight - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (smartdocs)
//   ├── analyzeCmd  (smartdocs analyze)
//   ├── metadataCmd (smartdocs metadata)
//   └── versionCmd  (smartdocs version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads config.yaml (or --config), .env and SMARTDOCS_* variables
//   2. Builds the slog logger (--verbose forces debug)
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/ginjaninja78/smartdocs-insight/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// mainConfig and logger are set by loadConfig before a subcommand runs.
var (
	mainConfig *config.MainConfig
	logger     *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "smartdocs",
	Short: "SmartDocs Insight - Certificate of Origin requests from invoice exports",
	Long: `SmartDocs Insight reads invoice exports (CSV or XLSX) and the matching
invoice PDFs, classifies every line item by country of origin, sums the
non-EU weight and prints a ready-to-send Certificate of Origin request.

Example Usage:
  smartdocs analyze INV_CSV_900.csv INV_PDF_D_900.pdf
  smartdocs analyze --dir ./downloads --output-dir ./issues
  smartdocs metadata --person "Jane Roe" --header INV_CSV_900.csv INV_PDF_D_900.pdf`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (a missing file means defaults)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadConfig loads the configuration and builds the logger. Logs go to the
// command's error stream so stdout carries only the results.
func loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	mainConfig = cfg
	logger = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	logger.Debug("configuration loaded", "config", cfgFile, "log_level", cfg.LogLevel)

	return nil
}
