package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/table"
)

func singleHeaderParse(t *testing.T, rows [][]string) *ParsedSections {
	t.Helper()
	parsed, err := NewSingleHeaderParser().Parse(&table.Table{Rows: rows, SourceFile: "flat.csv"})
	require.NoError(t, err)
	return parsed
}

func TestSingleHeaderParseBasic(t *testing.T) {
	parsed := singleHeaderParse(t, [][]string{
		{"Naglowek.KodFormularza", "Naglowek.Rok", "Podmiot.NIP", "ignored"},
		{"JPK_V7M", "2026", "1234567890", "x"},
	})

	nag := parsed.Records("Naglowek")
	require.Len(t, nag, 1)
	assert.Equal(t, "JPK_V7M", nag[0].Get("KodFormularza"))
	assert.Equal(t, "2026", nag[0].Get("Rok"))

	pod := parsed.Records("Podmiot")
	require.Len(t, pod, 1)
	assert.Equal(t, "1234567890", pod[0].Get("NIP"))

	assert.Equal(t, 2, parsed.Len(), "plain columns contribute no section")
}

// Every section's record i comes from the same physical data row, with
// earlier rows padded in as empty records where a section had no data yet.
func TestSingleHeaderParseRowAlignment(t *testing.T) {
	parsed := singleHeaderParse(t, [][]string{
		{"Naglowek.Rok", "SprzedazWiersz.LpSprzedazy", "SprzedazWiersz.K_20"},
		{"2026", "1", "230.00"},
		{"", "2", "46.00"},
	})

	sales := parsed.Records(SecSprzedazWiersz)
	require.Len(t, sales, 2)
	assert.Equal(t, "1", sales[0].Get("LpSprzedazy"))
	assert.Equal(t, "2", sales[1].Get("LpSprzedazy"))

	nag := parsed.Records(SecNaglowek)
	require.Len(t, nag, 2)
	assert.Equal(t, "2026", nag[0].Get("Rok"))
	assert.Equal(t, "", nag[1].Get("Rok"), "row 2 has no header value")
}

func TestSingleHeaderParseBlankRowsSkipped(t *testing.T) {
	parsed := singleHeaderParse(t, [][]string{
		{"SprzedazWiersz.LpSprzedazy"},
		{"1"},
		{""},
		{"2"},
	})

	sales := parsed.Records(SecSprzedazWiersz)
	// The blank physical row keeps its slot as an empty record so later
	// rows stay aligned across sections.
	require.Len(t, sales, 3)
	assert.Equal(t, "1", sales[0].Get("LpSprzedazy"))
	assert.False(t, sales[1].Has("LpSprzedazy"))
	assert.Equal(t, "2", sales[2].Get("LpSprzedazy"))
}

func TestSingleHeaderParseShortDataRow(t *testing.T) {
	parsed := singleHeaderParse(t, [][]string{
		{"ZakupWiersz.LpZakupu", "ZakupWiersz.K_41"},
		{"1"},
	})

	recs := parsed.Records(SecZakupWiersz)
	require.Len(t, recs, 1)
	assert.Equal(t, "", recs[0].Get("K_41"))
}

func TestSingleHeaderParseTooFewRows(t *testing.T) {
	_, err := NewSingleHeaderParser().Parse(&table.Table{
		Rows:       [][]string{{"Naglowek.Rok"}},
		SourceFile: "flat.csv",
	})
	require.Error(t, err)
	assert.Equal(t, "parse.too_few_rows", jpk.CodeOf(err))
}

func TestSingleHeaderParseNoPrefixedHeaders(t *testing.T) {
	_, err := NewSingleHeaderParser().Parse(&table.Table{
		Rows:       [][]string{{"Rok", "Miesiac"}, {"2026", "7"}},
		SourceFile: "flat.csv",
	})
	require.Error(t, err)
	assert.Equal(t, "parse.no_prefixed_headers", jpk.CodeOf(err))
}

// Unknown section prefixes still parse; the mapper simply never asks for
// those sections.
func TestSingleHeaderParseUnknownSectionKept(t *testing.T) {
	parsed := singleHeaderParse(t, [][]string{
		{"Naglowek.Rok", "Extra.Custom"},
		{"2026", "whatever"},
	})

	assert.True(t, parsed.Has("Extra"))
	assert.Equal(t, "whatever", parsed.Records("Extra")[0].Get("Custom"))
}
