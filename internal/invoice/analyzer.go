// =============================================================================
// SmartDocs Insight - Invoice Analyzer
// =============================================================================
//
// This module turns one invoice file into immutable per-file records:
//
//   AnalyzeFile     -> FileAnalysisResult (COO classification and weights)
//   ExtractMetadata -> FileMetadata       (header fields and PO/SO pairs)
//
// INVOICE LAYOUT (0-based, defaults from config.DefaultColumnLayout):
//
//   Row 0:  HEADER | <invoice number>
//   Row 1:  ...    | <customer name>
//   Row 7+: ITEM   | <line> | ... | <desc F> | ... | <PO J> | ... | <catalog L> | ... | <SO N> | ... | <"/ CC / 1.2 KG" Q>
//
// ERROR HANDLING:
//   Neither operation returns an error. A file that cannot be read produces an
//   empty-but-valid record that carries the error text, so one bad file never
//   blocks the rest of the batch.
//
// =============================================================================

package invoice

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/ginjaninja78/smartdocs-insight/internal/csvparser"
	"github.com/ginjaninja78/smartdocs-insight/internal/types"
)

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer reads invoice files and extracts per-file records.
type Analyzer struct {
	source  RowSource
	columns config.ColumnLayout
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSource replaces the file reader.
func WithSource(src RowSource) Option {
	return func(a *Analyzer) { a.source = src }
}

// WithColumns replaces the positional column layout.
func WithColumns(cols config.ColumnLayout) Option {
	return func(a *Analyzer) { a.columns = cols }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an Analyzer that reads CSV (BOM tolerant) and XLSX
// files with the default column layout.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		source:  FileSource{CSV: config.CSVSettings{Delimiter: ","}},
		columns: config.DefaultColumnLayout(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAnalyzerFromConfig wires an Analyzer from the main configuration.
func NewAnalyzerFromConfig(cfg *config.MainConfig, logger *slog.Logger) *Analyzer {
	return NewAnalyzer(
		WithSource(FileSource{CSV: cfg.CSVSettings}),
		WithColumns(cfg.Columns),
		WithLogger(logger),
	)
}

// =============================================================================
// COO / WEIGHT ANALYSIS
// =============================================================================

// AnalyzeFile classifies every ITEM row of an invoice file.
//
// RETURNS:
//   - A complete FileAnalysisResult. On read failure the result is empty,
//     references are "Unknown" and Errors holds one message.
func (a *Analyzer) AnalyzeFile(path string) types.FileAnalysisResult {
	records, err := a.source.ReadRows(path)
	if err != nil {
		a.logger.Error("invoice analysis failed", "file", path, "error", err)
		return failedResult(path, err)
	}

	rows := csvparser.Rows(records)
	result := types.FileAnalysisResult{
		FilePath:         path,
		NonEUItems:       []string{},
		EUItems:          []string{},
		MalformedEntries: []types.MalformedEntry{},
		InvoiceReference: a.invoiceReference(rows),
	}

	poRefs := make(map[string]struct{})
	total := 0.0

	for _, row := range rows {
		if row.Normalized(a.columns.RecordType) != itemMarker {
			continue
		}

		if po := row.Cell(a.columns.PurchaseOrder); po != "" {
			poRefs[po] = struct{}{}
		}

		ex := extractLineItem(row, a.columns)
		switch ex.Kind {
		case Item:
			if ex.Item.IsEU {
				result.EUItems = append(result.EUItems, ex.Item.Display())
			} else {
				result.NonEUItems = append(result.NonEUItems, ex.Item.Display())
				total += ex.Item.WeightKg
			}
		case Malformed:
			result.MalformedEntries = append(result.MalformedEntries, ex.Malformed)
		}
	}

	result.POReference = joinSorted(poRefs)
	result.TotalNonEUWeightKg = RoundKg(total)

	a.logger.Debug("invoice analyzed",
		"file", path,
		"invoice", result.InvoiceReference,
		"non_eu", len(result.NonEUItems),
		"eu", len(result.EUItems),
		"weight_kg", result.TotalNonEUWeightKg,
		"malformed", len(result.MalformedEntries),
	)

	return result
}

// invoiceReference reads B1, accepting a HEADER/INVOICE/INV marker in A1.
func (a *Analyzer) invoiceReference(rows []csvparser.Row) string {
	if len(rows) == 0 {
		return types.UnknownReference
	}

	if ref := rows[0].Cell(1); ref != "" {
		return ref
	}
	return types.UnknownReference
}

// failedResult is the empty-but-valid result for an unreadable file.
func failedResult(path string, err error) types.FileAnalysisResult {
	return types.FileAnalysisResult{
		FilePath:           path,
		NonEUItems:         []string{},
		EUItems:            []string{},
		TotalNonEUWeightKg: 0,
		POReference:        types.UnknownReference,
		InvoiceReference:   types.UnknownReference,
		MalformedEntries:   []types.MalformedEntry{},
		Errors:             []string{fmt.Sprintf("Error during analysis: %v", err)},
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// RoundKg rounds a weight to 3 decimal places (gram precision). The exact
// binary value is rounded, so 1.0005 (stored just below the tie) becomes 1.0.
func RoundKg(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// joinSorted returns the sorted, comma-joined set, or "Unknown" when empty.
func joinSorted(set map[string]struct{}) string {
	if len(set) == 0 {
		return types.UnknownReference
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
