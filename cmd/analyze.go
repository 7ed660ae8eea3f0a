// =============================================================================
// SmartDocs Insight - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, the main command of the tool. It
// runs the batch pipeline over one invoice's files and prints the Certificate
// of Origin request.
//
// COMMAND USAGE:
//   smartdocs analyze [files...] [flags]
//
// FLAGS:
//   --dir              : Also analyze every supported file in this directory
//   --skip-validation  : Do not check CSV/PDF signatures and customer IDs
//   --issue-log        : Write malformed lines and file issues to a log file
//   --output-dir       : Directory for the issue log (default: output_dir)
//
// OUTPUT:
//   stdout receives the recipient line (coo_request_email), the request
//   message, then the lines that need a manual check. Logs go to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/smartdocs-insight/internal/batch"
	"github.com/ginjaninja78/smartdocs-insight/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	analyzeDir     string
	skipValidation bool
	writeIssueLog  bool
	outputDir      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Classify invoice lines by country of origin and print the COO request",
	Long: `The analyze command reads the invoice exports (CSV or XLSX) of one invoice,
classifies every ITEM line by country of origin and prints the Certificate of
Origin request with the non-EU items, the total non-EU weight and the Box 5
references.

When invoice PDFs are part of the selection, the command first checks that
CSVs and PDFs carry the same invoice number and the same customer ID.

Files that cannot be read do not stop the run; they are listed under
"File issues" after the message.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeDir, "dir", "", "Analyze every supported file in this directory")
	analyzeCmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Skip the CSV/PDF signature and customer ID checks")
	analyzeCmd.Flags().BoolVar(&writeIssueLog, "issue-log", false, "Write malformed lines and file issues to a log file")
	analyzeCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the issue log (default from config)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runAnalyze(cmd *cobra.Command, args []string) error {
	paths, err := resolveInputs(args, analyzeDir)
	if err != nil {
		return err
	}

	runner := batch.New(mainConfig, logger)
	runner.SkipValidation = skipValidation
	if writeIssueLog {
		runner.IssueDir = outputDir
		if runner.IssueDir == "" {
			runner.IssueDir = mainConfig.OutputDir
		}
	}

	result, err := runner.Run(paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !result.Analyzed() {
		for _, e := range result.Validation.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
		}
		return result.Validation.Err()
	}
	if result.Validation != nil {
		for _, w := range result.Validation.Warnings() {
			fmt.Fprintln(cmd.ErrOrStderr(), w.Error())
		}
	}

	fmt.Fprintf(out, "To: %s\n\n", mainConfig.COORequestEmail)
	fmt.Fprint(out, result.Summary.Message)
	printSection(out, "Missing or malformed COO", result.Summary.MalformedLines)
	printSection(out, "File issues", result.Summary.FileIssues)

	if result.IssueLog != "" {
		fmt.Fprintf(out, "\nIssue log: %s\n", result.IssueLog)
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveInputs merges explicit paths with the supported files of dir.
func resolveInputs(args []string, dir string) ([]string, error) {
	paths := append([]string{}, args...)

	if dir != "" {
		found, err := utils.DiscoverInputFiles(dir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files: pass file paths or --dir")
	}
	return paths, nil
}

func printSection(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
