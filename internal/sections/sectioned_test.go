package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/table"
)

func sectionedParse(t *testing.T, rows [][]string) *ParsedSections {
	t.Helper()
	parsed, err := NewSectionedParser(DefaultCatalog()).Parse(&table.Table{Rows: rows, SourceFile: "test.csv"})
	require.NoError(t, err)
	return parsed
}

func TestSectionedParseBasic(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"SEKCJA", "NAGLOWEK"},
		{"KodFormularza", "Rok", "Miesiac"},
		{"JPK_V7M", "2026", "7"},
		{""},
		{"SEKCJA", "SPRZEDAZ"},
		{"LpSprzedazy", "K_20"},
		{"1", "230.00"},
		{"2", "46.00"},
	})

	require.True(t, parsed.Has(SecNaglowek))
	nag := parsed.Records(SecNaglowek)
	require.Len(t, nag, 1)
	assert.Equal(t, "JPK_V7M", nag[0].Get("KodFormularza"))
	assert.Equal(t, "2026", nag[0].Get("Rok"))

	sales := parsed.Records(SecSprzedazWiersz)
	require.Len(t, sales, 2)
	assert.Equal(t, "230.00", sales[0].Get("K_20"))
	assert.Equal(t, "46.00", sales[1].Get("K_20"))

	assert.Equal(t, []string{SecNaglowek, SecSprzedazWiersz}, parsed.Names())
}

// A new marker row terminates the open section even without a blank
// separator row.
func TestSectionedParseMarkerTerminatesSection(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"SEKCJA", "SPRZEDAZ"},
		{"LpSprzedazy"},
		{"1"},
		{"SEKCJA", "SPRZEDAZ-CTRL"},
		{"LiczbaWierszySprzedazy", "PodatekNalezny"},
		{"1", "230.00"},
	})

	assert.Len(t, parsed.Records(SecSprzedazWiersz), 1)
	ctrl := parsed.Records(SecSprzedazCtrl)
	require.Len(t, ctrl, 1)
	assert.Equal(t, "230.00", ctrl[0].Get("PodatekNalezny"))
}

// Rows before the first marker belong to no section and are ignored.
func TestSectionedParseStrayRowsIgnored(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"exported by ERP 2026-07-01"},
		{""},
		{"SEKCJA", "NAGLOWEK"},
		{"Rok"},
		{"2026"},
	})

	assert.Equal(t, 1, parsed.Len())
	assert.Len(t, parsed.Records(SecNaglowek), 1)
}

// A marker as the last row still registers its section, with no records.
func TestSectionedParseTrailingMarker(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"SEKCJA", "NAGLOWEK"},
		{"Rok"},
		{"2026"},
		{""},
		{"SEKCJA", "ZAKUP"},
	})

	assert.True(t, parsed.Has(SecZakupWiersz))
	assert.Empty(t, parsed.Records(SecZakupWiersz))
}

func TestSectionedParseRaggedRows(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"SEKCJA", "ZAKUP"},
		{"LpZakupu", "NrDostawcy", "K_41"},
		{"1", "9876543210"}, // short row: K_41 maps to ""
		{"2", "1112223344", "23.00", "overflow"},
	})

	recs := parsed.Records(SecZakupWiersz)
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Has("K_41"))
	assert.Equal(t, "", recs[0].Get("K_41"))
	assert.Equal(t, "23.00", recs[1].Get("K_41"))
}

func TestSectionedParseDuplicateHeaderKeepsRightmost(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"SEKCJA", "NAGLOWEK"},
		{"Rok", "", "Rok"},
		{"2025", "ignored", "2026"},
	})

	recs := parsed.Records(SecNaglowek)
	require.Len(t, recs, 1)
	assert.Equal(t, "2026", recs[0].Get("Rok"))
	assert.Len(t, recs[0], 1, "blank header cells produce no fields")
}

// The same section appearing twice accumulates records in input order.
func TestSectionedParseRepeatedSectionAccumulates(t *testing.T) {
	parsed := sectionedParse(t, [][]string{
		{"SEKCJA", "SPRZEDAZ"},
		{"LpSprzedazy"},
		{"1"},
		{""},
		{"SEKCJA", "SPRZEDAZ"},
		{"LpSprzedazy"},
		{"2"},
	})

	recs := parsed.Records(SecSprzedazWiersz)
	require.Len(t, recs, 2)
	assert.Equal(t, "1", recs[0].Get("LpSprzedazy"))
	assert.Equal(t, "2", recs[1].Get("LpSprzedazy"))
}

func TestSectionedParseNoSections(t *testing.T) {
	_, err := NewSectionedParser(DefaultCatalog()).Parse(&table.Table{
		Rows:       [][]string{{"just"}, {"noise"}},
		SourceFile: "noise.csv",
	})
	require.Error(t, err)
	assert.Equal(t, "parse.no_sections", jpk.CodeOf(err))
}
