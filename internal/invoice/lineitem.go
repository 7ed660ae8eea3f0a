package invoice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/smartdocs-insight/internal/config"
	"github.com/ginjaninja78/smartdocs-insight/internal/country"
	"github.com/ginjaninja78/smartdocs-insight/internal/csvparser"
	"github.com/ginjaninja78/smartdocs-insight/internal/types"
)

// itemMarker is the record type of invoice line items (column A).
const itemMarker = "ITEM"

// originWeightPattern matches "/ MX / 2.497 KG" style origin/weight text.
var originWeightPattern = regexp.MustCompile(
	`(?i)/\s*(?P<coo>[A-Za-z]{2})\s*/\s*(?P<weight>[\d.,]+)\s*(?P<unit>KG|KGS|G|GRAMS?)\b`,
)

var (
	cooGroup    = originWeightPattern.SubexpIndex("coo")
	weightGroup = originWeightPattern.SubexpIndex("weight")
	unitGroup   = originWeightPattern.SubexpIndex("unit")
)

// ExtractionKind tells which field of an Extraction is populated.
type ExtractionKind int

const (
	// Skip means the row is not a line item or carries no origin/weight text.
	Skip ExtractionKind = iota
	// Item means the row was classified.
	Item
	// Malformed means the origin/weight text needs a manual check.
	Malformed
)

// Extraction is the outcome of ExtractLineItem.
type Extraction struct {
	Kind      ExtractionKind
	Item      types.LineItem
	Malformed types.MalformedEntry
}

// ExtractLineItem classifies one row using the default column layout.
func ExtractLineItem(row csvparser.Row) Extraction {
	return extractLineItem(row, config.DefaultColumnLayout())
}

// extractLineItem never fails: bad input degrades to Skip, Malformed or a
// zero weight.
func extractLineItem(row csvparser.Row, cols config.ColumnLayout) Extraction {
	if row.Normalized(cols.RecordType) != itemMarker {
		return Extraction{Kind: Skip}
	}

	catalog := row.CellOr(cols.Catalog, types.UnknownReference)
	description := row.CellOr(cols.Description, types.UnknownReference)
	raw := row.Cell(cols.OriginWeight)

	m := originWeightPattern.FindStringSubmatch(raw)
	if m == nil {
		if !strings.Contains(raw, "/") {
			return Extraction{Kind: Skip}
		}
		return Extraction{
			Kind: Malformed,
			Malformed: types.MalformedEntry{
				LineNumber:    row.CellOr(cols.LineNumber, types.UnknownReference),
				CatalogNumber: catalog,
				Description:   description,
				RawWeightText: weightChunk(raw),
			},
		}
	}

	code := strings.ToUpper(m[cooGroup])
	class := country.Classify(code)

	return Extraction{
		Kind: Item,
		Item: types.LineItem{
			CatalogNumber: catalog,
			Description:   description,
			CountryCode:   code,
			CountryName:   class.Name,
			WeightKg:      parseWeightKg(m[weightGroup], m[unitGroup]),
			IsEU:          class.IsEU,
		},
	}
}

// parseWeightKg converts a matched number and unit to kilograms.
// Unparseable numbers count as 0.
func parseWeightKg(number, unit string) float64 {
	value, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil || value < 0 {
		return 0
	}
	if strings.HasPrefix(strings.ToUpper(unit), "G") {
		value /= 1000
	}
	return value
}

// weightChunk returns the text after the last slash with whitespace runs
// collapsed to single spaces.
func weightChunk(raw string) string {
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.Join(strings.Fields(raw), " ")
}
