// =============================================================================
// SmartDocs Insight - Invoice PDF Metadata
// =============================================================================
//
// Invoice PDFs carry the customer's business-partner ID (BPID), which the CSV
// export does not. This module pulls page text out of a PDF and finds the line
// following one of the localized "customer ID" labels.
//
// FAILURE POLICY:
//   ExtractBPID never fails. Unreadable or unusual PDFs (including ones that
//   make the PDF library panic) yield an empty ID.
//
// =============================================================================

package pdfmeta

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// CustomerIDLabels are the label variants printed next to the customer ID on
// invoices, per language.
var CustomerIDLabels = []string{
	"Vs. Codice Cliente",
	"Your Customer ID",
	"N° Compte Client",
	"Kundennummer",
	"Uw Klantnummer",
	"Nº Cliente",
}

// ExtractBPID returns the customer ID printed in an invoice PDF, or "" when
// the file cannot be read or carries no known label.
func ExtractBPID(filePath string) string {
	pages, err := ReadPageLines(filePath)
	if err != nil {
		return ""
	}
	for _, lines := range pages {
		if id := FindCustomerID(lines); id != "" {
			return id
		}
	}
	return ""
}

// FindCustomerID scans lines for a customer ID label and returns the first
// non-empty line after it.
func FindCustomerID(lines []string) string {
	for i, line := range lines {
		if !hasLabel(line) {
			continue
		}
		for _, next := range lines[i+1:] {
			if next = strings.TrimSpace(next); next != "" {
				return next
			}
		}
	}
	return ""
}

func hasLabel(line string) bool {
	for _, label := range CustomerIDLabels {
		if strings.Contains(line, label) {
			return true
		}
	}
	return false
}

// =============================================================================
// PDF TEXT
// =============================================================================

// ReadPageLines returns the text lines of every page of a PDF.
//
// RETURNS:
//   - One slice of lines per page that has text.
//   - An error if the PDF cannot be opened, or the library panics.
func ReadPageLines(filePath string) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if lines := pageLines(page); len(lines) > 0 {
			pages = append(pages, lines)
		}
	}

	return pages, nil
}

// pageLines joins the words of each text row. Pages without row layout fall
// back to plain text split on newlines.
func pageLines(page pdf.Page) []string {
	var lines []string

	rows, err := page.GetTextByRow()
	if err == nil {
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	if len(lines) > 0 {
		return lines
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		font := page.Font(name)
		fonts[name] = &font
	}

	text, err := page.GetPlainText(fonts)
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
