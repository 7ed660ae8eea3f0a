// =============================================================================
// SmartDocs Insight - Metadata Command
// =============================================================================
//
// This file defines the 'metadata' command. It prints one tracking row per
// PO/SO pair as tab-separated text, ready to paste into the tracking sheet.
//
// COMMAND USAGE:
//   smartdocs metadata [files...] --person NAME [flags]
//
// FLAGS:
//   --person  : Responsible person (required)
//   --date    : Date for DATE RECEIVED / DATE REQUESTED (default: today)
//   --header  : Print the column titles first
//   --out     : Write to this file instead of stdout. A directory gets a
//               generated tracking_<timestamp>.tsv name.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/smartdocs-insight/internal/batch"
	"github.com/ginjaninja78/smartdocs-insight/internal/tracking"
	"github.com/ginjaninja78/smartdocs-insight/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	metadataDir       string
	responsiblePerson string
	trackingDate      string
	withHeader        bool
	trackingOut       string
)

var metadataCmd = &cobra.Command{
	Use:   "metadata [files...]",
	Short: "Print tracking rows for the selected invoice files",
	Long: `The metadata command reads the header (invoice number, customer name) and
the PO/SO pairs of each invoice export, takes the customer ID from the
invoice PDF and prints one tracking row per unique PO/SO pair.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMetadata(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().StringVar(&metadataDir, "dir", "", "Read every supported file in this directory")
	metadataCmd.Flags().StringVar(&responsiblePerson, "person", "", "Responsible person")
	metadataCmd.Flags().StringVar(&trackingDate, "date", "", "Request date, YYYY-MM-DD (default: today)")
	metadataCmd.Flags().BoolVar(&withHeader, "header", false, "Print the column titles first")
	metadataCmd.Flags().StringVar(&trackingOut, "out", "", "Output file or directory (default: stdout)")
	metadataCmd.MarkFlagRequired("person")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	paths, err := resolveInputs(args, metadataDir)
	if err != nil {
		return err
	}

	date := trackingDate
	if date == "" {
		date = time.Now().Format(tracking.DateLayout)
	} else if _, err := time.Parse(tracking.DateLayout, date); err != nil {
		return fmt.Errorf("invalid --date %q: %w", date, err)
	}

	metas, bpid := batch.New(mainConfig, logger).CollectMetadata(paths)
	for _, m := range metas {
		if m.Err != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s → %s\n", filepath.Base(m.FilePath), m.Err)
		}
	}

	builder := tracking.Builder{Settings: mainConfig.Tracking}
	rows := builder.BuildRows(metas, bpid, responsiblePerson, date)

	if trackingOut == "" {
		return tracking.WriteTSV(cmd.OutOrStdout(), rows, withHeader)
	}

	path, err := writeTrackingFile(trackingOut, func(w io.Writer) error {
		return tracking.WriteTSV(w, rows, withHeader)
	})
	if err != nil {
		return err
	}

	logger.Info("tracking rows written", "path", path, "rows", len(rows))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d row(s) to %s\n", len(rows), path)
	return nil
}

// writeTrackingFile creates target (or a generated file inside target when it
// is a directory) and fills it with write.
func writeTrackingFile(target string, write func(io.Writer) error) (string, error) {
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, utils.GenerateOutputFileName("tracking_{timestamp}.tsv", nil))
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return target, nil
}
