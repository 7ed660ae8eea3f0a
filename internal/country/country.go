// =============================================================================
// SmartDocs Insight - Country Classifier
// =============================================================================
//
// This module maps a two-letter country code to a display name and to the
// EU / non-EU customs category.
//
// LOOKUP ORDER:
//   1. Override table (names the request email must use verbatim)
//   2. Bundled ISO 3166-1 alpha-2 table (iso3166.go)
//   3. The code itself, when neither table knows it
//
// The EU category is a plain membership test against the 27 member codes.
// The United Kingdom and the EFTA states are not members.
//
// =============================================================================

package country

import "strings"

// =============================================================================
// DATA TABLES
// =============================================================================

// overrides take precedence over the ISO table.
var overrides = map[string]string{
	"MX": "Mexico",
	"MY": "Malaysia",
	"PL": "Poland",
	"KR": "Republic of Korea",
}

// euCodes is the fixed set of EU member states (alpha-2).
var euCodes = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classification is the result of classifying a country code.
type Classification struct {
	// Name is the display name, or the input code when unknown.
	Name string

	// IsEU is true for the 27 EU member codes.
	IsEU bool
}

// Classify resolves a country code to its name and EU category.
// The input does not have to be a valid code; unknown codes come back as
// their own name and are classified as non-EU.
func Classify(code string) Classification {
	return Classification{
		Name: Name(code),
		IsEU: IsEU(code),
	}
}

// Name returns the display name for a country code.
func Name(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))

	if name, ok := overrides[upper]; ok {
		return name
	}
	if name, ok := isoNames[upper]; ok {
		return name
	}

	return code
}

// IsEU reports whether the code belongs to an EU member state.
func IsEU(code string) bool {
	_, ok := euCodes[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
