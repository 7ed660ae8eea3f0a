package invoice

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/csvparser"
	"github.com/ginjaninja78/smartdocs-insight/internal/types"
)

// ExtractMetadata reads the invoice number (B1), the customer name (B2) and
// the distinct PO/SO pairs of an invoice file. It is independent of the
// COO/weight analysis and never returns an error; failures are reported in
// FileMetadata.Err.
func (a *Analyzer) ExtractMetadata(path string) types.FileMetadata {
	meta := types.FileMetadata{
		FilePath:  path,
		POSOPairs: []types.POSOPair{},
	}

	records, err := a.source.ReadRows(path)
	if err != nil {
		a.logger.Error("metadata extraction failed", "file", path, "error", err)
		meta.Err = fmt.Sprintf("Error reading CSV: %v", err)
		return meta
	}

	rows := csvparser.Rows(records)
	if len(rows) > 0 {
		meta.InvoiceNumber = rows[0].Cell(1)
	}
	if len(rows) > 1 {
		meta.CustomerName = rows[1].Cell(1)
	}

	start := a.columns.MetadataStartRow
	if start > len(rows) {
		start = len(rows)
	}

	seen := make(map[types.POSOPair]bool)
	for _, row := range rows[start:] {
		po := row.Cell(a.columns.PurchaseOrder)
		so := row.Cell(a.columns.SalesOrder)
		if po == "" || so == "" {
			continue
		}

		pair := types.POSOPair{PO: po, SO: NormalizeSalesOrder(so)}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		meta.POSOPairs = append(meta.POSOPairs, pair)
	}

	a.logger.Debug("metadata extracted",
		"file", path,
		"invoice", meta.InvoiceNumber,
		"customer", meta.CustomerName,
		"pairs", len(meta.POSOPairs),
	)

	return meta
}

// NormalizeSalesOrder drops the line suffix of an SO reference:
// "SO12345-000010" becomes "SO12345".
func NormalizeSalesOrder(so string) string {
	if i := strings.Index(so, "-"); i >= 0 {
		so = so[:i]
	}
	return strings.TrimSpace(so)
}
