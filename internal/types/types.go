// =============================================================================
// SmartDocs Insight - Shared Types
// =============================================================================
//
// This package contains the records that flow through the invoice pipeline.
// Types defined here are used by:
//   - invoice     (produces LineItem, MalformedEntry, FileAnalysisResult, FileMetadata)
//   - aggregator  (consumes the per-file records, produces BatchSummary)
//   - tracking    (consumes FileMetadata)
//   - batch       (orchestrates all of the above)
//
// Per-file records are built once and never mutated afterwards. All merging
// happens in the aggregator.
//
// =============================================================================

package types

import "fmt"

// UnknownReference is the placeholder used when a reference field is absent.
const UnknownReference = "Unknown"

// =============================================================================
// LINE ITEM TYPES
// =============================================================================

// LineItem is a single classified invoice row.
type LineItem struct {
	// CatalogNumber is the product catalog number (column L).
	CatalogNumber string

	// Description is the product description (column F).
	Description string

	// CountryCode is the uppercase ISO alpha-2 country of origin.
	CountryCode string

	// CountryName is the human-readable name resolved by the classifier.
	CountryName string

	// WeightKg is the item weight normalized to kilograms. Not rounded.
	WeightKg float64

	// IsEU is true when CountryCode is one of the 27 EU member codes.
	IsEU bool
}

// Display returns the "{catalog}, {description}, {countryName}" line used in
// the request message.
func (li LineItem) Display() string {
	return fmt.Sprintf("%s, %s, %s", li.CatalogNumber, li.Description, li.CountryName)
}

// MalformedEntry is an ITEM row whose COO/weight field contained a slash but
// did not match the expected grammar. It needs manual review.
type MalformedEntry struct {
	LineNumber    string
	CatalogNumber string
	Description   string

	// RawWeightText is the chunk after the last slash, whitespace-collapsed.
	RawWeightText string
}

// String renders the entry the way it is shown in review lists.
func (m MalformedEntry) String() string {
	return fmt.Sprintf("Line %s – %s, %s, %s", m.LineNumber, m.CatalogNumber, m.Description, m.RawWeightText)
}

// =============================================================================
// PER-FILE RESULTS
// =============================================================================

// FileAnalysisResult is the outcome of analyzing one invoice file.
type FileAnalysisResult struct {
	// FilePath is the analyzed file.
	FilePath string

	// NonEUItems holds display strings in row order.
	NonEUItems []string

	// EUItems holds display strings in row order.
	EUItems []string

	// TotalNonEUWeightKg is the summed non-EU weight, rounded to 3 decimals.
	TotalNonEUWeightKg float64

	// POReference is the sorted, comma-joined set of Box 5 values, or "Unknown".
	POReference string

	// InvoiceReference is the invoice number from the header row, or "Unknown".
	InvoiceReference string

	// MalformedEntries are rows that need a manual COO check.
	MalformedEntries []MalformedEntry

	// Errors holds file-level failures ("Error during analysis: ...").
	// When non-empty, every other field carries its empty default.
	Errors []string
}

// Failed reports whether the file could not be analyzed.
func (r FileAnalysisResult) Failed() bool {
	return len(r.Errors) > 0
}

// POSOPair is a purchase-order / sales-order reference pair.
type POSOPair struct {
	PO string
	SO string
}

// FileMetadata holds header fields and PO/SO pairs of one invoice file.
type FileMetadata struct {
	FilePath      string
	CustomerName  string
	InvoiceNumber string

	// POSOPairs are unique and keep first-seen order.
	POSOPairs []POSOPair

	// Err is set ("Error reading CSV: ...") when the file could not be read.
	Err string
}

// =============================================================================
// BATCH SUMMARY
// =============================================================================

// BatchSummary is the consolidated view of all files of one invoice.
type BatchSummary struct {
	// BatchID identifies the run in logs and output file names.
	BatchID string

	// InvoiceReferences is the sorted, comma-joined invoice set, or "Unknown".
	InvoiceReferences string

	// POReferences is the sorted, comma-joined Box 5 set, or "Unknown".
	POReferences string

	// NonEUItems keeps encounter order and duplicates.
	NonEUItems []string

	// EUItems is de-duplicated and sorted.
	EUItems []string

	// TotalNonEUWeightKg is the summed weight, rounded to 3 decimals.
	TotalNonEUWeightKg float64

	// MalformedLines are review lines, with file markers for multi-file batches.
	MalformedLines []string

	// FileIssues are "<file> → <error>" lines for files that failed to read.
	FileIssues []string

	// CustomerNames are the distinct non-empty customer names, first-seen order.
	CustomerNames []string

	// POSOPairs are the distinct PO/SO pairs across all files.
	POSOPairs []POSOPair

	// Message is the formatted Certificate of Origin request.
	Message string
}
