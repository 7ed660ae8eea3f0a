// =============================================================================
// SmartDocs Insight - CSV Parser Module
// =============================================================================
//
// This module reads invoice CSV exports into positional rows. Invoice exports
// have no usable header row: every field lives at a fixed column index, and
// rows have different widths depending on the record type (HEADER, ITEM, ...).
//
// FEATURES:
//   - UTF-8 decoding that drops a leading byte-order mark
//   - Ragged rows (variable number of fields per record)
//   - Lazy quotes, as produced by spreadsheet exports
//   - Bounds-checked cell access through the Row type
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// BOM is the UTF-8 byte-order mark as it appears after decoding.
const BOM = "\ufeff"

// =============================================================================
// ROW ACCESSOR
// =============================================================================

// Row is one record of positional cells.
type Row []string

// Cell returns the trimmed cell at index, or "" when the row is too short.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[index])
}

// CellOr returns the trimmed cell at index, or def when the cell is absent or
// empty. A cell holding only whitespace trims to "" and does not take def.
func (r Row) CellOr(index int, def string) string {
	if index < 0 || index >= len(r) || r[index] == "" {
		return def
	}
	return strings.TrimSpace(r[index])
}

// Normalized returns the cell with BOM and whitespace removed, uppercased.
// It is used for marker comparisons such as "ITEM" and "HEADER".
func (r Row) Normalized(index int) string {
	return NormalizeMarker(r.Cell(index))
}

// NormalizeMarker trims whitespace and a leading BOM and uppercases s.
func NormalizeMarker(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, BOM)
	return strings.ToUpper(strings.TrimSpace(s))
}

// Rows converts raw records into Row values without copying cells.
func Rows(records [][]string) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row(rec)
	}
	return rows
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadRows reads a CSV file and returns all records.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - One record per physical line, in file order. Blank lines come back as
//     empty records so row indices match the line numbers of the export.
//   - An error if the file cannot be opened, decoded, or parsed.
func ReadRows(filePath string, settings config.CSVSettings) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	records, err := Parse(file, settings)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Parse reads CSV records from r.
//
// The stream is decoded as UTF-8; a leading byte-order mark is consumed by
// the decoder so it never reaches the first cell.
func Parse(r io.Reader, settings config.CSVSettings) ([][]string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := transform.NewReader(bufio.NewReader(r), decoder)

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	var records [][]string
	line := 0 // last physical line consumed
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// encoding/csv skips blank lines; put them back.
		start, _ := csvReader.FieldPos(0)
		for ; line < start-1; line++ {
			records = append(records, []string{})
		}

		last := len(record) - 1
		end, _ := csvReader.FieldPos(last)
		line = end + strings.Count(record[last], "\n")

		records = append(records, record)
	}

	return records, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Invoice rows are ragged by record type.
	reader.FieldsPerRecord = -1

	// Spreadsheet exports leave stray quotes inside descriptions.
	reader.LazyQuotes = true
}
