// =============================================================================
// SmartDocs Insight - Tracking Rows
// =============================================================================
//
// Every Certificate of Origin request is logged in a shared tracking sheet,
// one row per PO/SO pair. This module builds those rows from invoice metadata
// and renders them as tab-separated text that pastes straight into the sheet.
//
// The "Lp." column is a running number for the sheet itself. It is left out of
// the pasted text because the sheet numbers its own rows.
//
// =============================================================================

package tracking

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/ginjaninja78/smartdocs-insight/internal/types"
)

// DateLayout is the format of the date columns.
const DateLayout = "2006-01-02"

// Headers are the column titles of the tracking sheet, in order.
var Headers = []string{
	"Lp.",
	"CUSTOMER NAME",
	"Customer number",
	"REQUEST TYPE",
	"DOC",
	"Invoice",
	"PO",
	"SO",
	"Status",
	"LT",
	"DATE RECEIVED",
	"DATE REQUESTED",
	"DATE COMPLETED",
	"Incident Number",
	"Comments",
	"RESPONSIBLE PERSON",
}

// Row is one line of the tracking sheet.
type Row struct {
	Lp                int
	CustomerName      string
	CustomerNumber    string
	RequestType       string
	Doc               string
	Invoice           string
	PO                string
	SO                string
	Status            string
	LT                string
	DateReceived      string
	DateRequested     string
	DateCompleted     string
	IncidentNumber    string
	Comments          string
	ResponsiblePerson string
}

// Values returns the cells of r in Headers order.
func (r Row) Values() []string {
	return []string{
		fmt.Sprint(r.Lp),
		r.CustomerName,
		r.CustomerNumber,
		r.RequestType,
		r.Doc,
		r.Invoice,
		r.PO,
		r.SO,
		r.Status,
		r.LT,
		r.DateReceived,
		r.DateRequested,
		r.DateCompleted,
		r.IncidentNumber,
		r.Comments,
		r.ResponsiblePerson,
	}
}

// Builder fills the constant columns from configuration.
type Builder struct {
	Settings config.TrackingSettings
}

// BuildRows builds rows with the default tracking settings.
func BuildRows(metas []types.FileMetadata, bpid, person, date string) []Row {
	return Builder{Settings: config.Default().Tracking}.BuildRows(metas, bpid, person, date)
}

// BuildRows emits one row per unique PO/SO pair of every readable file, in
// file order. Lp counts from 1 across all files.
//
// PARAMETERS:
//   - metas:  Metadata of the invoice exports.
//   - bpid:   The customer number taken from the invoice PDF (may be empty).
//   - person: The responsible person.
//   - date:   Fills DATE RECEIVED and DATE REQUESTED (see DateLayout).
func (b Builder) BuildRows(metas []types.FileMetadata, bpid, person, date string) []Row {
	var rows []Row
	lp := 1

	for _, m := range metas {
		if m.Err != "" {
			continue
		}

		seen := make(map[types.POSOPair]bool)
		for _, pair := range m.POSOPairs {
			if seen[pair] {
				continue
			}
			seen[pair] = true

			rows = append(rows, Row{
				Lp:                lp,
				CustomerName:      m.CustomerName,
				CustomerNumber:    bpid,
				RequestType:       b.Settings.RequestType,
				Doc:               b.Settings.Doc,
				Invoice:           m.InvoiceNumber,
				PO:                pair.PO,
				SO:                pair.SO,
				Status:            b.Settings.Status,
				LT:                b.Settings.LT,
				DateReceived:      date,
				DateRequested:     date,
				ResponsiblePerson: person,
			})
			lp++
		}
	}

	return rows
}

// =============================================================================
// TSV OUTPUT
// =============================================================================

// WriteTSV writes rows as tab-separated lines without the Lp. column. Rows
// without a customer name are skipped. With header set, the column titles
// come first.
func WriteTSV(w io.Writer, rows []Row, header bool) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if header {
		if err := writer.Write(Headers[1:]); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for _, r := range rows {
		if r.CustomerName == "" {
			continue
		}
		if err := writer.Write(r.Values()[1:]); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.Lp, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	return nil
}
