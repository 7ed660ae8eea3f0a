package aggregator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/types"
)

// Message renders the Certificate of Origin request for a summary.
func (a *Aggregator) Message(s types.BatchSummary) string {
	var b strings.Builder

	b.WriteString("Dear Team,\n\n")
	b.WriteString("Please proceed requesting the respective Certificate of Origin for the attached invoices.\n\n")

	b.WriteString("Non-EU items:\n")
	writeNumbered(&b, s.NonEUItems)

	fmt.Fprintf(&b, "\nReference: inv. %s\n", orUnknown(s.InvoiceReferences))
	fmt.Fprintf(&b, "Weight: %s KG\n", FormatWeight(s.TotalNonEUWeightKg))
	fmt.Fprintf(&b, "Box 5: %s\n\n", orUnknown(s.POReferences))

	b.WriteString("EU items:\n")
	writeNumbered(&b, s.EUItems)

	b.WriteString("\nBest regards,\n")
	b.WriteString("Customer Care Team\n")
	fmt.Fprintf(&b, "Email: %s\n", a.contact.Email)
	fmt.Fprintf(&b, "Phone: %s\n", a.contact.Phone)

	return b.String()
}

// FormatWeight prints the shortest decimal form of v that round-trips, and
// always keeps a fractional part: 10 -> "10.0", 2.5 -> "2.5".
func FormatWeight(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeNumbered(b *strings.Builder, lines []string) {
	for i, line := range lines {
		fmt.Fprintf(b, "%d. %s\n", i+1, line)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return types.UnknownReference
	}
	return s
}
