// =============================================================================
// SmartDocs Insight - Cross-File Aggregator
// =============================================================================
//
// This module merges the per-file records of one logical invoice into a single
// BatchSummary and renders the Certificate of Origin request message.
//
// MERGE RULES:
//   - Non-EU items:  concatenated in file order, duplicates kept
//   - EU items:      concatenated, de-duplicated and sorted
//   - Weight:        per-file totals summed, then rounded to 3 decimals again
//   - References:    non-"Unknown" values collected into sorted sets
//   - Malformed:     concatenated; multi-file batches get a marker per file
//
// The aggregator only reads the records it is given. It never touches files.
//
// =============================================================================

package aggregator

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/invoice"
	"github.com/ginjaninja78/smartdocs-insight/internal/types"
)

// FileMarkerPrefix starts the line that separates malformed entries of
// different files in a multi-file batch.
const FileMarkerPrefix = "File: "

// Contact is the signature block of the request message.
type Contact struct {
	Email string
	Phone string
}

// Aggregator merges per-file results into a BatchSummary.
type Aggregator struct {
	contact Contact
	logger  *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for the batch totals line.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an Aggregator that signs messages with contact.
func New(contact Contact, opts ...Option) *Aggregator {
	a := &Aggregator{
		contact: contact,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate merges results and metas, in the order given, into a summary.
//
// PARAMETERS:
//   - results: One FileAnalysisResult per analyzed file, in processing order.
//   - metas:   One FileMetadata per file. May be empty or of another length.
//
// RETURNS:
//   - A BatchSummary with Message rendered. BatchID is left for the caller.
func (a *Aggregator) Aggregate(results []types.FileAnalysisResult, metas []types.FileMetadata) types.BatchSummary {
	summary := types.BatchSummary{
		NonEUItems:     []string{},
		EUItems:        []string{},
		MalformedLines: []string{},
		FileIssues:     []string{},
		CustomerNames:  []string{},
		POSOPairs:      []types.POSOPair{},
	}

	multipleFiles := len(results) > 1
	invoiceRefs := make(map[string]struct{})
	poRefs := make(map[string]struct{})
	euItems := make(map[string]struct{})
	total := 0.0

	for _, r := range results {
		base := filepath.Base(r.FilePath)

		if r.Failed() {
			a.logger.Warn("file skipped in totals", "file", base, "errors", len(r.Errors))
			for _, e := range r.Errors {
				summary.FileIssues = append(summary.FileIssues, fileIssue(base, e))
			}
			continue
		}

		summary.NonEUItems = append(summary.NonEUItems, r.NonEUItems...)
		for _, it := range r.EUItems {
			euItems[it] = struct{}{}
		}

		if r.InvoiceReference != "" && r.InvoiceReference != types.UnknownReference {
			invoiceRefs[r.InvoiceReference] = struct{}{}
		}
		if r.POReference != "" && r.POReference != types.UnknownReference {
			poRefs[r.POReference] = struct{}{}
		}

		total += r.TotalNonEUWeightKg

		if len(r.MalformedEntries) > 0 {
			if multipleFiles {
				summary.MalformedLines = append(summary.MalformedLines, FileMarkerPrefix+base)
			}
			for _, m := range r.MalformedEntries {
				summary.MalformedLines = append(summary.MalformedLines, m.String())
			}
		}
	}

	a.mergeMetadata(&summary, metas)

	summary.EUItems = sortedKeys(euItems)
	summary.InvoiceReferences = joinOrUnknown(invoiceRefs)
	summary.POReferences = joinOrUnknown(poRefs)
	summary.TotalNonEUWeightKg = invoice.RoundKg(total)
	summary.Message = a.Message(summary)

	a.logger.Info("batch totals",
		"files", len(results),
		"non_eu", len(summary.NonEUItems),
		"eu", len(summary.EUItems),
		"pos", len(poRefs),
		"invoices", len(invoiceRefs),
		"weight_kg", summary.TotalNonEUWeightKg,
		"malformed", len(summary.MalformedLines),
		"issues", len(summary.FileIssues),
	)

	return summary
}

// mergeMetadata folds customer names, PO/SO pairs and read errors of the
// metadata records into summary.
func (a *Aggregator) mergeMetadata(summary *types.BatchSummary, metas []types.FileMetadata) {
	names := make(map[string]bool)
	pairs := make(map[types.POSOPair]bool)

	for _, m := range metas {
		if m.Err != "" {
			summary.FileIssues = append(summary.FileIssues, fileIssue(filepath.Base(m.FilePath), m.Err))
			continue
		}

		if name := strings.TrimSpace(m.CustomerName); name != "" && !names[name] {
			names[name] = true
			summary.CustomerNames = append(summary.CustomerNames, name)
		}

		for _, p := range m.POSOPairs {
			if pairs[p] {
				continue
			}
			pairs[p] = true
			summary.POSOPairs = append(summary.POSOPairs, p)
		}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fileIssue renders "<file> → <error>".
func fileIssue(base, msg string) string {
	return base + " → " + msg
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinOrUnknown(set map[string]struct{}) string {
	if len(set) == 0 {
		return types.UnknownReference
	}
	return strings.Join(sortedKeys(set), ", ")
}
