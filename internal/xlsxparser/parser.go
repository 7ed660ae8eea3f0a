// =============================================================================
// SmartDocs Insight - XLSX Invoice Reader
// =============================================================================
//
// Some ERP exports arrive as .xlsx workbooks instead of CSV. This module
// reads a workbook sheet into the same positional records the CSV parser
// produces, so the invoice analyzer does not care which format it got.
//
// SHEET SELECTION:
//   The first sheet of the workbook holds the invoice; other sheets are
//   ignored.
//
// =============================================================================

package xlsxparser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadRows reads the first sheet of an XLSX workbook.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//
// RETURNS:
//   - One record per sheet row up to the last used row. Empty rows are kept
//     as empty records and trailing empty cells are not returned, so rows
//     are ragged exactly like CSV records.
//   - An error if the workbook cannot be opened or read.
func ReadRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	for i, row := range rows {
		if row == nil {
			rows[i] = []string{}
		}
	}

	return rows, nil
}
