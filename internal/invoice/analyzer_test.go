package invoice

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAnalyzeFile(t *testing.T) {
	path := writeCSV(t, "INV_CSV_1001.csv", invoiceRecords("INV-1001", "ACME S.p.A.",
		item{line: "10", desc: "Widget", po: "PO2", catalog: "A1", so: "SO1-10", origin: "/ MX / 2500 G"},
		item{line: "20", desc: "Gadget", po: "PO1", catalog: "A2", so: "SO1-20", origin: "/ PL / 10 KG"},
		item{line: "30", desc: "Bolt", po: "PO1", catalog: "A3", so: "SO1-30", origin: "/ CN / 1,000.25 KG"},
		item{line: "40", desc: "Nut", po: "PO2", catalog: "A4", so: "SO1-40", origin: "/ XX"},
		item{line: "50", desc: "Washer", po: "PO3", catalog: "A5", so: "SO1-50", origin: "no origin given"},
	))

	result := NewAnalyzer().AnalyzeFile(path)

	assert.False(t, result.Failed())
	assert.Equal(t, path, result.FilePath)
	assert.Equal(t, "INV-1001", result.InvoiceReference)
	assert.Equal(t, "PO1, PO2, PO3", result.POReference)
	assert.Equal(t, []string{"A1, Widget, Mexico", "A3, Bolt, China"}, result.NonEUItems)
	assert.Equal(t, []string{"A2, Gadget, Poland"}, result.EUItems)
	assert.InDelta(t, 1002.75, result.TotalNonEUWeightKg, 1e-9)

	require.Len(t, result.MalformedEntries, 1)
	assert.Equal(t, "Line 40 – A4, Nut, XX", result.MalformedEntries[0].String())
}

func TestAnalyzeFile_RoundsAfterSummation(t *testing.T) {
	path := writeCSV(t, "rounding.csv", invoiceRecords("INV-2", "ACME",
		item{catalog: "R1", desc: "First", origin: "/ US / 0.0004 KG"},
		item{catalog: "R2", desc: "Second", origin: "/ US / 0.0004 KG"},
	))

	result := NewAnalyzer().AnalyzeFile(path)

	// Rounding each item first would give 0 + 0.
	assert.Equal(t, 0.001, result.TotalNonEUWeightKg)
}

func TestAnalyzeFile_EUWeightNotCounted(t *testing.T) {
	path := writeCSV(t, "eu.csv", invoiceRecords("INV-3", "ACME",
		item{catalog: "E1", desc: "Only EU", origin: "/ DE / 99 KG"},
	))

	result := NewAnalyzer().AnalyzeFile(path)

	assert.Empty(t, result.NonEUItems)
	assert.Equal(t, []string{"E1, Only EU, Germany"}, result.EUItems)
	assert.Zero(t, result.TotalNonEUWeightKg)
	assert.Equal(t, "Unknown", result.POReference)
}

func TestAnalyzeFile_InvoiceReference(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		want    string
	}{
		{"header row", [][]string{{"HEADER", " INV-9 "}}, "INV-9"},
		{"any marker", [][]string{{"X", "INV-10"}}, "INV-10"},
		{"empty cell", [][]string{{"INVOICE", ""}}, "Unknown"},
		{"short row", [][]string{{"HEADER"}}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(WithSource(RowSourceFunc(func(string) ([][]string, error) {
				return tt.records, nil
			})))
			assert.Equal(t, tt.want, a.AnalyzeFile("in-memory").InvoiceReference)
		})
	}
}

func TestAnalyzeFile_EmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", nil)

	result := NewAnalyzer().AnalyzeFile(path)

	assert.False(t, result.Failed())
	assert.Equal(t, "Unknown", result.InvoiceReference)
	assert.Equal(t, "Unknown", result.POReference)
	assert.Empty(t, result.NonEUItems)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	result := NewAnalyzer().AnalyzeFile(path)

	require.True(t, result.Failed())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Error during analysis:")
	assert.Contains(t, result.Errors[0], "failed to open file")
	assert.Equal(t, "Unknown", result.InvoiceReference)
	assert.Equal(t, "Unknown", result.POReference)
	assert.Empty(t, result.NonEUItems)
	assert.Empty(t, result.EUItems)
	assert.Empty(t, result.MalformedEntries)
	assert.Zero(t, result.TotalNonEUWeightKg)
}

func TestAnalyzeFile_SourceError(t *testing.T) {
	a := NewAnalyzer(WithSource(RowSourceFunc(func(string) ([][]string, error) {
		return nil, errors.New("disk on fire")
	})))

	result := a.AnalyzeFile("broken.csv")

	assert.Equal(t, []string{"Error during analysis: disk on fire"}, result.Errors)
}

func TestAnalyzeFile_BOMAndSemicolon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	content := "\ufeffHEADER;INV-77\nITEM;1;;;;Widget;;;;PO7;;A1;;SO7;;;/ VN / 3 KG\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.Default()
	cfg.CSVSettings.Delimiter = ";"
	result := NewAnalyzerFromConfig(cfg, slog.New(slog.DiscardHandler)).AnalyzeFile(path)

	assert.Equal(t, "INV-77", result.InvoiceReference)
	assert.Equal(t, "PO7", result.POReference)
	assert.Equal(t, []string{"A1, Widget, Viet Nam"}, result.NonEUItems)
	assert.InDelta(t, 3.0, result.TotalNonEUWeightKg, 1e-9)
}

func TestAnalyzeFile_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.xlsx")

	f := excelize.NewFile()
	records := invoiceRecords("INV-X1", "Workbook Customer",
		item{line: "1", desc: "Sensor", po: "PO-X", catalog: "S1", origin: "/ JP / 0.5 KG"},
		item{line: "2", desc: "Cable", po: "PO-X", catalog: "S2", origin: "/ FR / 1 KG"},
	)
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result := NewAnalyzer().AnalyzeFile(path)

	assert.False(t, result.Failed())
	assert.Equal(t, "INV-X1", result.InvoiceReference)
	assert.Equal(t, "PO-X", result.POReference)
	assert.Equal(t, []string{"S1, Sensor, Japan"}, result.NonEUItems)
	assert.Equal(t, []string{"S2, Cable, France"}, result.EUItems)
	assert.InDelta(t, 0.5, result.TotalNonEUWeightKg, 1e-9)
}

func TestRoundKg(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.0005 + 2.0005, 3.001},
		{1.0005, 1.0},
		{1.2345, 1.234},
		{2.675, 2.675},
		{0.0015, 0.002},
		{2.5, 2.5},
		{0.0004, 0},
		{1002.75, 1002.75},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundKg(tt.in), "RoundKg(%v)", tt.in)
	}
}

func TestAnalyzeFile_SingleItemBelowTie(t *testing.T) {
	path := writeCSV(t, "tie.csv", invoiceRecords("INV-4", "ACME",
		item{catalog: "T1", desc: "Tie", origin: "/ US / 1.0005 KG"},
	))

	result := NewAnalyzer().AnalyzeFile(path)

	assert.Equal(t, 1.0, result.TotalNonEUWeightKg)
}
