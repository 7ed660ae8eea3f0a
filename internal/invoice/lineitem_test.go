package invoice

import (
	"testing"

	"github.com/ginjaninja78/smartdocs-insight/internal/csvparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLineItem_Items(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		wantCode    string
		wantCountry string
		wantKg      float64
		wantEU      bool
	}{
		{"grams normalized", "/ MX / 2500 G", "MX", "Mexico", 2.5, false},
		{"kilograms", "/ PL / 10 KG", "PL", "Poland", 10.0, true},
		{"lowercase code and unit", "/ de / 1.25 kgs", "DE", "Germany", 1.25, true},
		{"thousands separator", "/CN/1,234.5KG", "CN", "China", 1234.5, false},
		{"gram word", "/ US / 500 GRAMS", "US", "United States", 0.5, false},
		{"single gram word", "/ US / 1 gram", "US", "United States", 0.001, false},
		{"korea override", "/ KR / 3 KG", "KR", "Republic of Korea", 3, false},
		{"bad number degrades to zero", "/ MY / 1.2.3 KG", "MY", "Malaysia", 0, false},
		{"surrounding text", "HS 8471 / JP / 0.750 KG net", "JP", "Japan", 0.75, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := csvparser.Row(item{line: "10", desc: "Widget", catalog: "A1", origin: tt.origin}.record())

			ex := ExtractLineItem(row)
			require.Equal(t, Item, ex.Kind)

			assert.Equal(t, "A1", ex.Item.CatalogNumber)
			assert.Equal(t, "Widget", ex.Item.Description)
			assert.Equal(t, tt.wantCode, ex.Item.CountryCode)
			assert.Equal(t, tt.wantCountry, ex.Item.CountryName)
			assert.InDelta(t, tt.wantKg, ex.Item.WeightKg, 1e-9)
			assert.Equal(t, tt.wantEU, ex.Item.IsEU)
		})
	}
}

func TestExtractLineItem_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		wantWeight string
	}{
		{"code without weight", "/ XX", "XX"},
		{"missing code", "/ / 2.5 KG", "2.5 KG"},
		{"unknown unit", "/ US / 5 LB", "5 LB"},
		{"unit glued to a word", "/ US / 5 KGX", "5 KGX"},
		{"whitespace collapsed", "/ ??  /   1.2    TONNES  ", "1.2 TONNES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := csvparser.Row(item{line: "20", desc: "Gadget", catalog: "B2", origin: tt.origin}.record())

			ex := ExtractLineItem(row)
			require.Equal(t, Malformed, ex.Kind)

			assert.Equal(t, "20", ex.Malformed.LineNumber)
			assert.Equal(t, "B2", ex.Malformed.CatalogNumber)
			assert.Equal(t, "Gadget", ex.Malformed.Description)
			assert.Equal(t, tt.wantWeight, ex.Malformed.RawWeightText)
		})
	}
}

func TestExtractLineItem_Skip(t *testing.T) {
	tests := []struct {
		name string
		row  csvparser.Row
	}{
		{"empty origin", csvparser.Row(item{catalog: "A1"}.record())},
		{"origin without slash", csvparser.Row(item{catalog: "A1", origin: "MX 2 KG"}.record())},
		{"not an item row", csvparser.Row{"HEADER", "INV-1"}},
		{"bare item marker", csvparser.Row{"ITEM"}},
		{"empty row", csvparser.Row{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Skip, ExtractLineItem(tt.row).Kind)
		})
	}
}

func TestExtractLineItem_Defaults(t *testing.T) {
	row := csvparser.Row{"\ufeff item ", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "", "/ XX"}

	ex := ExtractLineItem(row)
	require.Equal(t, Malformed, ex.Kind)
	assert.Equal(t, "Unknown", ex.Malformed.LineNumber)
	assert.Equal(t, "Unknown", ex.Malformed.CatalogNumber)
	assert.Equal(t, "Unknown", ex.Malformed.Description)
}

func TestExtractLineItem_WhitespaceCellsStayEmpty(t *testing.T) {
	row := csvparser.Row(item{line: "  ", desc: " ", catalog: "   ", origin: "/ US / 1 KG"}.record())

	ex := ExtractLineItem(row)
	require.Equal(t, Item, ex.Kind)
	assert.Equal(t, "", ex.Item.CatalogNumber)
	assert.Equal(t, "", ex.Item.Description)

	row = csvparser.Row(item{line: " ", desc: " ", catalog: " ", origin: "/ XX"}.record())

	ex = ExtractLineItem(row)
	require.Equal(t, Malformed, ex.Kind)
	assert.Equal(t, "", ex.Malformed.LineNumber)
	assert.Equal(t, "", ex.Malformed.CatalogNumber)
	assert.Equal(t, "", ex.Malformed.Description)
}

func TestExtractLineItem_PartitionMatchesEUSet(t *testing.T) {
	for _, code := range []string{"AT", "FR", "SE", "GB", "CH", "NO", "US", "ZZ"} {
		row := csvparser.Row(item{catalog: "C", desc: "D", origin: "/ " + code + " / 1 KG"}.record())
		ex := ExtractLineItem(row)
		require.Equal(t, Item, ex.Kind, code)

		eu := map[string]bool{"AT": true, "FR": true, "SE": true}
		assert.Equal(t, eu[code], ex.Item.IsEU, code)
	}
}

func TestExtractLineItem_UnknownCountry(t *testing.T) {
	row := csvparser.Row(item{catalog: "Z9", desc: "Thing", origin: "/ QZ / 1 KG"}.record())

	ex := ExtractLineItem(row)
	require.Equal(t, Item, ex.Kind)
	assert.Equal(t, "QZ", ex.Item.CountryName)
	assert.False(t, ex.Item.IsEU)
	assert.Equal(t, "Z9, Thing, QZ", ex.Item.Display())
}
