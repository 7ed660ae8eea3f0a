package invoice

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// item describes the interesting cells of an ITEM row.
type item struct {
	line, desc, po, catalog, so, origin string
}

// record lays an item out at the default column positions.
func (it item) record() []string {
	rec := make([]string, 17)
	rec[0] = "ITEM"
	rec[1] = it.line
	rec[5] = it.desc
	rec[9] = it.po
	rec[11] = it.catalog
	rec[13] = it.so
	rec[16] = it.origin
	return rec
}

// invoiceRecords builds a header block (rows 0-6) followed by items.
func invoiceRecords(invoiceNo, customer string, items ...item) [][]string {
	records := [][]string{
		{"HEADER", invoiceNo},
		{"CUSTOMER", customer},
		{"DATE", "2026-10-01"},
		{"CURRENCY", "EUR"},
		{"INCOTERM", "DAP"},
		{"PAYMENT", "30 days"},
		{"COLUMNS", "line", "", "", "", "description"},
	}
	for _, it := range items {
		records = append(records, it.record())
	}
	return records
}

// writeCSV writes records to a CSV file in a temp dir and returns its path.
func writeCSV(t *testing.T, name string, records [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
	return path
}
