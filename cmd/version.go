// =============================================================================
// SmartDocs Insight - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   smartdocs version
//
// OUTPUT:
//   SmartDocs Insight
//   Version:    1.4.0
//   Build Date: unknown
//   Go Version: go1.24.11
//   Docs:       <doc_url from config>
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the application version. Set at build time with
//   go build -ldflags "-X 'github.com/ginjaninja78/smartdocs-insight/cmd.Version=1.4.0'"
var Version = "1.4.0"

// BuildDate is the date the application was built. Set at build time.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, Go runtime version and the documentation link.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "SmartDocs Insight")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "Docs:       %s\n", mainConfig.DocURL)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
