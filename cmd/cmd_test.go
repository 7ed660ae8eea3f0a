package cmd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	analyzeDir, skipValidation, writeIssueLog, outputDir = "", false, false, ""
	metadataDir, responsiblePerson, trackingDate, withHeader, trackingOut = "", "", "", false, ""
	verbose = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInvoice(t *testing.T, dir, name string) string {
	t.Helper()

	records := [][]string{{"HEADER", "900"}, {"CUSTOMER", "ACME"}}
	for len(records) < 7 {
		records = append(records, []string{"INFO"})
	}
	item := make([]string, 17)
	item[0], item[1], item[5], item[9], item[11], item[13], item[16] =
		"ITEM", "10", "Widget", "PO1", "A1", "SO1-000010", "/ MX / 2500 G"
	records = append(records, item)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, csv.NewWriter(f).WriteAll(records))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	t.Setenv("SMARTDOCS_SUPPORT_EMAIL", "care@example.com")
	t.Setenv("SMARTDOCS_COO_EMAIL", "coo@example.com")
	path := writeInvoice(t, t.TempDir(), "INV_CSV_900.csv")

	out, stderr, err := execute(t, "analyze", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "To: coo@example.com\n\nDear Team,\n"))
	assert.Contains(t, out, "1. A1, Widget, Mexico\n")
	assert.Contains(t, out, "Reference: inv. 900\nWeight: 2.5 KG\nBox 5: PO1\n")
	assert.Contains(t, out, "Email: care@example.com\n")
	assert.Contains(t, stderr, "no invoice PDF selected")
}

func TestAnalyzeCommand_DirAndIssues(t *testing.T) {
	dir := t.TempDir()
	writeInvoice(t, dir, "INV_CSV_900.csv")
	missing := filepath.Join(dir, "gone.csv")

	out, _, err := execute(t, "analyze", "--skip-validation", "--dir", dir, missing)
	require.NoError(t, err)

	assert.Contains(t, out, "1. A1, Widget, Mexico\n")
	assert.Contains(t, out, "\nFile issues:\ngone.csv → Error during analysis:")
}

func TestAnalyzeCommand_NoInput(t *testing.T) {
	_, _, err := execute(t, "analyze")
	assert.ErrorContains(t, err, "no input files")
}

func TestAnalyzeCommand_Mismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeInvoice(t, dir, "INV_CSV_900.csv")

	_, stderr, err := execute(t, "analyze", path, filepath.Join(dir, "INV_PDF_D_901.pdf"))
	assert.ErrorContains(t, err, "batch validation failed")
	assert.Contains(t, stderr, "do not belong to the same invoice")
}

func TestMetadataCommand(t *testing.T) {
	path := writeInvoice(t, t.TempDir(), "INV_CSV_900.csv")

	out, _, err := execute(t, "metadata", "--person", "Jane Roe", "--date", "2026-10-18", "--header", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "CUSTOMER NAME\t"))
	assert.Equal(t, "ACME\t\tSTANDARD\tDOC\t900\tPO1\tSO1\tRequested\tInvoice Created\t2026-10-18\t2026-10-18\t\t\t\tJane Roe", lines[1])
}

func TestMetadataCommand_OutDir(t *testing.T) {
	dir := t.TempDir()
	path := writeInvoice(t, dir, "INV_CSV_900.csv")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	out, _, err := execute(t, "metadata", "--person", "Sam", "--out", outDir, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 row(s) to ")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "tracking_"))
}

func TestDirFlagsAreSeparate(t *testing.T) {
	dir := t.TempDir()
	writeInvoice(t, dir, "INV_CSV_900.csv")

	_, _, err := execute(t, "metadata", "--person", "Sam", "--dir", dir)
	require.NoError(t, err)

	assert.Equal(t, dir, metadataDir)
	assert.Empty(t, analyzeDir)
}

func TestWriteTrackingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "rows.tsv")

	path, err := writeTrackingFile(target, func(w io.Writer) error {
		_, err := io.WriteString(w, "ACME\t900\n")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "ACME\t900\n", string(data))
}

func TestWriteTrackingFile_Errors(t *testing.T) {
	_, err := writeTrackingFile(filepath.Join(t.TempDir(), "rows.tsv"), func(io.Writer) error {
		return errors.New("write failed")
	})
	assert.ErrorContains(t, err, "write failed")

	_, err = writeTrackingFile(filepath.Join(t.TempDir(), "missing", "rows.tsv"), func(io.Writer) error {
		return nil
	})
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestMetadataCommand_BadDate(t *testing.T) {
	path := writeInvoice(t, t.TempDir(), "INV_CSV_900.csv")

	_, _, err := execute(t, "metadata", "--person", "Sam", "--date", "18/10/2026", path)
	assert.ErrorContains(t, err, "invalid --date")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "SmartDocs Insight\nVersion:    "+Version)
	assert.Contains(t, out, "Docs:       ")
}

func TestVersionCommand_DocURL(t *testing.T) {
	t.Setenv("SMARTDOCS_DOC_URL", "https://docs.example.com/smartdocs")

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Docs:       https://docs.example.com/smartdocs\n")
}
