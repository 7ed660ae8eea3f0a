// =============================================================================
// SmartDocs Insight - File Utilities
// =============================================================================
//
// This module provides the file handling around an analysis run:
//   - Input discovery (invoice exports and companion PDFs)
//   - Splitting a selection by file kind
//   - Invoice signatures derived from export file names
//   - Issue log generation
//   - Output file naming
//
// FILE NAMING CONVENTION:
//   The ERP exports one invoice as a CSV and a PDF that share an invoice
//   number:
//     INV_CSV_90012345.csv
//     INV_PDF_D_90012345.pdf
//     INV_CSV_90012345 (1).csv   <- browser duplicate, same invoice
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE KINDS
// =============================================================================

// FileKind classifies an input path by extension.
type FileKind int

const (
	// KindUnsupported is any file the analyzer does not read.
	KindUnsupported FileKind = iota
	// KindInvoice is a tabular invoice export (.csv or .xlsx).
	KindInvoice
	// KindPDF is the invoice PDF carrying the customer ID.
	KindPDF
)

// KindOf returns the FileKind of path.
func KindOf(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xlsm":
		return KindInvoice
	case ".pdf":
		return KindPDF
	default:
		return KindUnsupported
	}
}

// FileSet is a selection of input files split by kind. Each list keeps the
// order of the input selection.
type FileSet struct {
	Invoices    []string
	PDFs        []string
	Unsupported []string
}

// SplitByKind sorts paths into a FileSet.
func SplitByKind(paths []string) FileSet {
	var set FileSet
	for _, p := range paths {
		switch KindOf(p) {
		case KindInvoice:
			set.Invoices = append(set.Invoices, p)
		case KindPDF:
			set.PDFs = append(set.PDFs, p)
		default:
			set.Unsupported = append(set.Unsupported, p)
		}
	}
	return set
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the supported files directly inside dir.
//
// PARAMETERS:
//   - dir: The directory to scan. Subdirectories are not visited.
//
// RETURNS:
//   - File paths sorted by name.
//   - An error if the directory cannot be read.
func DiscoverInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || KindOf(entry.Name()) == KindUnsupported {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// INVOICE SIGNATURES
// =============================================================================

var parenthesized = regexp.MustCompile(`\(.*?\)`)

// InvoiceSignature reduces an export file name to the invoice it belongs to:
// parenthesized parts, the extension and the INV_CSV_ / INV_PDF_D_ prefixes
// are removed.
//
// EXAMPLE:
//   "/tmp/INV_PDF_D_90012345 (1).pdf" -> "90012345"
func InvoiceSignature(path string) string {
	base := filepath.Base(path)
	base = parenthesized.ReplaceAllString(base, "")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "INV_CSV_", "")
	base = strings.ReplaceAll(base, "INV_PDF_D_", "")
	return strings.TrimSpace(base)
}

// Signatures returns the sorted, distinct signatures of paths.
func Signatures(paths []string) []string {
	seen := make(map[string]bool)
	var sigs []string
	for _, p := range paths {
		sig := InvoiceSignature(p)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)
	return sigs
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName fills a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//   - params: Extra placeholder values, keyed without braces.
//
// EXAMPLE:
//   format: "issues_{timestamp}_{batch}.txt"
//   params: {"batch": "3f2a9c1e"}
//   output: "issues_20261018_143022_3f2a9c1e.txt"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// ISSUE LOG
// =============================================================================

// IssueLog is the content of one issue log file.
type IssueLog struct {
	BatchID        string
	Files          []string
	MalformedLines []string
	FileIssues     []string
}

// Empty reports whether there is nothing to log.
func (l IssueLog) Empty() bool {
	return len(l.MalformedLines) == 0 && len(l.FileIssues) == 0
}

// WriteIssueLog writes malformed COO lines and file issues to
// issues_<timestamp>_<batch>.txt in outputDir.
//
// RETURNS:
//   - The path to the log file, or "" when the log is empty.
//   - An error if the directory or file cannot be written.
func WriteIssueLog(log IssueLog, outputDir string) (string, error) {
	if log.Empty() {
		return "", nil
	}

	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	fileName := GenerateOutputFileName("issues_{timestamp}_{batch}.txt", map[string]string{
		"batch": shortID(log.BatchID),
	})
	logPath := filepath.Join(outputDir, fileName)

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create issue log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "SmartDocs Insight - Issue Log\n"+
		"Generated: %s\n"+
		"Batch:     %s\n"+
		"Files:     %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		log.BatchID,
		len(log.Files))

	for _, f := range log.Files {
		fmt.Fprintf(writer, "  %s\n", f)
	}

	writeSection(writer, "Missing or malformed COO", log.MalformedLines)
	writeSection(writer, "File issues", log.FileIssues)

	writer.WriteString("================================================================================\n" +
		"End of Issue Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush issue log: %w", err)
	}

	return logPath, nil
}

func writeSection(w *bufio.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(lines))
	w.WriteString("--------------------------------------------------------------------------------\n")
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	w.WriteString("\n")
}

// shortID keeps the first block of a UUID for file names.
func shortID(id string) string {
	if i := strings.Index(id, "-"); i > 0 {
		return id[:i]
	}
	if id == "" {
		return "batch"
	}
	return id
}
