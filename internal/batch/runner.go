// =============================================================================
// SmartDocs Insight - Batch Runner
// =============================================================================
//
// This module runs the whole pipeline for one selection of files that belong
// to a single invoice.
//
// PIPELINE:
//   1. Split the selection into invoice exports and PDFs
//   2. Extract the customer ID (BPID) from every PDF
//   3. Validate the batch (signatures, BPIDs)
//   4. Analyze every export, one at a time, in the given order
//   5. Extract metadata from every export
//   6. Aggregate into a BatchSummary with the request message
//   7. Write the issue log (optional)
//
// Files are processed sequentially. A file that cannot be read never stops the
// batch; its error ends up in the summary instead.
//
// =============================================================================

package batch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ginjaninja78/smartdocs-insight/internal/aggregator"
	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/ginjaninja78/smartdocs-insight/internal/invoice"
	"github.com/ginjaninja78/smartdocs-insight/internal/pdfmeta"
	"github.com/ginjaninja78/smartdocs-insight/internal/types"
	"github.com/ginjaninja78/smartdocs-insight/internal/validation"
	"github.com/ginjaninja78/smartdocs-insight/pkg/utils"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one batch run.
type Result struct {
	// BatchID identifies the run.
	BatchID string

	// Validation holds the batch checks. When it is not valid, nothing was
	// analyzed and Summary is empty.
	Validation *validation.ValidationResult

	// BPID is the customer ID found in the PDFs, or "".
	BPID string

	// Files are the analyzed invoice exports.
	Files []string

	// Results and Metadata are the per-file records, in file order.
	Results  []types.FileAnalysisResult
	Metadata []types.FileMetadata

	// Summary is the aggregated view with the request message.
	Summary types.BatchSummary

	// IssueLog is the path of the written issue log, or "".
	IssueLog string

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Analyzed reports whether the files were analyzed.
func (r Result) Analyzed() bool {
	return r.Validation == nil || r.Validation.IsValid
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner wires the analyzer, the aggregator and the batch checks.
type Runner struct {
	analyzer   *invoice.Analyzer
	aggregator *aggregator.Aggregator
	logger     *slog.Logger

	// bpidFunc extracts the customer ID of a PDF.
	bpidFunc func(path string) string

	// SkipValidation analyzes the files without batch checks.
	SkipValidation bool

	// IssueDir receives the issue log. Empty disables it.
	IssueDir string
}

// New creates a Runner from the main configuration.
func New(cfg *config.MainConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		analyzer: invoice.NewAnalyzerFromConfig(cfg, logger),
		aggregator: aggregator.New(aggregator.Contact{
			Email: cfg.SupportEmail,
			Phone: cfg.SupportPhoneURL,
		}, aggregator.WithLogger(logger)),
		logger:   logger,
		bpidFunc: pdfmeta.ExtractBPID,
	}
}

// Run processes one selection of files.
//
// RETURNS:
//   - The batch Result. Per-file failures are part of the summary.
//   - An error only when the issue log cannot be written.
func (r *Runner) Run(paths []string) (Result, error) {
	start := time.Now()
	result := Result{BatchID: uuid.New().String()}
	logger := r.logger.With("batch", result.BatchID)

	set := utils.SplitByKind(paths)
	logger.Info("batch started", "invoices", len(set.Invoices), "pdfs", len(set.PDFs))

	// =========================================================================
	// CUSTOMER ID AND BATCH CHECKS
	// =========================================================================

	bpids := make([]string, 0, len(set.PDFs))
	for _, pdf := range set.PDFs {
		id := r.bpidFunc(pdf)
		logger.Debug("customer id extracted", "file", pdf, "bpid", id)
		bpids = append(bpids, id)
	}
	result.BPID = validation.BPID(bpids)

	if !r.SkipValidation {
		result.Validation = validation.ValidateBatch(paths, bpids)
		for _, e := range result.Validation.Errors {
			logger.Warn("batch check", "rule", e.Rule, "severity", e.Severity, "message", e.Message)
		}
		if !result.Validation.IsValid {
			result.Duration = time.Since(start)
			return result, nil
		}
	}

	// =========================================================================
	// PER-FILE ANALYSIS
	// =========================================================================

	result.Files = set.Invoices
	for _, path := range set.Invoices {
		logger.Debug("analyzing file", "file", path)
		result.Results = append(result.Results, r.analyzer.AnalyzeFile(path))
		result.Metadata = append(result.Metadata, r.analyzer.ExtractMetadata(path))
	}

	// =========================================================================
	// AGGREGATION
	// =========================================================================

	result.Summary = r.aggregator.Aggregate(result.Results, result.Metadata)
	result.Summary.BatchID = result.BatchID

	if r.IssueDir != "" {
		path, err := utils.WriteIssueLog(utils.IssueLog{
			BatchID:        result.BatchID,
			Files:          result.Files,
			MalformedLines: result.Summary.MalformedLines,
			FileIssues:     result.Summary.FileIssues,
		}, r.IssueDir)
		if err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("failed to write issue log: %w", err)
		}
		result.IssueLog = path
		if path != "" {
			logger.Info("issue log written", "path", path)
		}
	}

	result.Duration = time.Since(start)
	logger.Info("batch finished", "files", len(result.Files), "duration", result.Duration)

	return result, nil
}

// CollectMetadata extracts metadata from the invoice exports of paths and the
// customer ID from the first PDF that carries one.
func (r *Runner) CollectMetadata(paths []string) ([]types.FileMetadata, string) {
	set := utils.SplitByKind(paths)

	bpid := ""
	for _, pdf := range set.PDFs {
		if bpid = r.bpidFunc(pdf); bpid != "" {
			break
		}
	}

	metas := make([]types.FileMetadata, 0, len(set.Invoices))
	for _, path := range set.Invoices {
		metas = append(metas, r.analyzer.ExtractMetadata(path))
	}

	r.logger.Info("metadata collected", "invoices", len(metas), "pdfs", len(set.PDFs), "bpid", bpid)
	return metas, bpid
}
