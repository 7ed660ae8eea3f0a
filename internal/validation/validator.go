// =============================================================================
// SmartDocs Insight - Batch Validation
// =============================================================================
//
// This module checks that a selection of files belongs to one invoice before
// any analysis runs:
//   - CSV and PDF exports must carry the same invoice signatures
//   - All PDFs must name the same customer (BPID)
//   - A batch without PDFs can still be analyzed, but is flagged
//
// ERROR HANDLING:
//   - Problems are collected, not returned as Go errors
//   - "error" severity blocks the batch, "warning" does not
//
// =============================================================================

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/pkg/utils"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names.
const (
	RuleNoInvoices        = "no_invoices"
	RuleSignatureMismatch = "signature_mismatch"
	RuleBPIDMismatch      = "bpid_mismatch"
	RuleMissingPDF        = "missing_pdf"
	RuleUnsupportedFile   = "unsupported_file"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError is a single problem found in a batch.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Rule names the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string

	// Values holds the offending values (signatures, BPIDs, file names).
	Values []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Values) == 0 {
		return fmt.Sprintf("[%s] %s", strings.ToUpper(e.Severity), e.Message)
	}
	return fmt.Sprintf("[%s] %s (%s)", strings.ToUpper(e.Severity), e.Message, strings.Join(e.Values, ", "))
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// Files is the split input selection the checks ran on.
	Files utils.FileSet
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// Warnings returns the non-fatal findings.
func (r *ValidationResult) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// Err returns the fatal findings joined into one error, or nil.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			msgs = append(msgs, e.Error())
		}
	}
	return fmt.Errorf("batch validation failed: %s", strings.Join(msgs, "; "))
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateBatch checks that files form one invoice.
//
// PARAMETERS:
//   - files: The selected paths (CSV/XLSX exports, PDFs, anything else).
//   - bpids: Customer IDs extracted from the PDFs. Empty values are ignored.
//
// RETURNS:
//   - A ValidationResult. IsValid is false when the batch must not be analyzed.
func ValidateBatch(files []string, bpids []string) *ValidationResult {
	set := utils.SplitByKind(files)
	result := &ValidationResult{
		IsValid: true,
		Errors:  make([]*ValidationError, 0),
		Files:   set,
	}

	if len(set.Unsupported) > 0 {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Rule:     RuleUnsupportedFile,
			Message:  "ignoring files that are neither invoice exports nor PDFs",
			Values:   baseNames(set.Unsupported),
		})
	}

	if len(set.Invoices) == 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Rule:     RuleNoInvoices,
			Message:  "no CSV or XLSX invoice files selected",
		})
		return result
	}

	if len(set.PDFs) == 0 {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Rule:     RuleMissingPDF,
			Message:  "no invoice PDF selected; customer ID checks skipped",
		})
		return result
	}

	if e := checkSignatures(set); e != nil {
		result.add(e)
		return result
	}

	if e := checkBPIDs(bpids); e != nil {
		result.add(e)
	}

	return result
}

// checkSignatures compares the invoice signature sets of exports and PDFs.
func checkSignatures(set utils.FileSet) *ValidationError {
	csvSigs := utils.Signatures(set.Invoices)
	pdfSigs := utils.Signatures(set.PDFs)

	if strings.Join(csvSigs, "\x00") == strings.Join(pdfSigs, "\x00") {
		return nil
	}

	return &ValidationError{
		Severity: SeverityError,
		Rule:     RuleSignatureMismatch,
		Message: fmt.Sprintf("the selected CSV and PDF files do not belong to the same invoice: CSV %s, PDF %s",
			strings.Join(csvSigs, ", "), strings.Join(pdfSigs, ", ")),
	}
}

// checkBPIDs requires at most one distinct non-empty customer ID.
func checkBPIDs(bpids []string) *ValidationError {
	seen := make(map[string]bool)
	var distinct []string
	for _, id := range bpids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}

	if len(distinct) <= 1 {
		return nil
	}

	return &ValidationError{
		Severity: SeverityError,
		Rule:     RuleBPIDMismatch,
		Message:  "the customer IDs in the selected PDFs are not the same",
		Values:   distinct,
	}
}

// BPID returns the single customer ID of bpids, or "" when there is none.
func BPID(bpids []string) string {
	for _, id := range bpids {
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return ""
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
