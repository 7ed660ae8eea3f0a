// =============================================================================
// SmartDocs Insight - Main Entry Point
// =============================================================================
//
// USAGE:
//   smartdocs analyze   - Classify invoice lines by country of origin and
//                         print the Certificate of Origin request
//   smartdocs metadata  - Print tracking rows (one per PO/SO pair)
//   smartdocs version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Invoice parsing, classification and aggregation
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/smartdocs-insight/cmd"
)

func main() {
	cmd.Execute()
}
