package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksiegowy/jpk-vat7-converter/internal/sections"
)

func TestStrFallbacks(t *testing.T) {
	rec := sections.Record{"NrKontrahenta": "", "NIP": "1234567890"}
	assert.Equal(t, "1234567890", str(rec, "NrKontrahenta", "NIP"))
	assert.Equal(t, "", str(rec, "Missing"))

	rec = sections.Record{"nazwa": "  Firma  "}
	assert.Equal(t, "Firma", str(rec, "Nazwa"), "lookup is case-insensitive, value trimmed")
}

func TestIntOrZero(t *testing.T) {
	rec := sections.Record{"Rok": "2026", "Miesiac": "siedem", "Lp": " 3 "}
	assert.Equal(t, 2026, intOrZero(rec, "Rok"))
	assert.Equal(t, 0, intOrZero(rec, "Miesiac"))
	assert.Equal(t, 3, intOrZero(rec, "Lp"))
	assert.Equal(t, 0, intOrZero(rec, "Missing"))
}

func TestDecOrNil(t *testing.T) {
	rec := sections.Record{
		"K_20":  "230.00",
		"K_19":  "46,50",
		"K_10":  "garbage",
		"Empty": "",
	}

	d := decOrNil(rec, "K_20")
	require.NotNil(t, d)
	assert.Equal(t, "230", d.String())

	d = decOrNil(rec, "K_19")
	require.NotNil(t, d, "comma decimal separator accepted")
	assert.Equal(t, "46.5", d.String())

	assert.Nil(t, decOrNil(rec, "K_10"))
	assert.Nil(t, decOrNil(rec, "Empty"))
	assert.Nil(t, decOrNil(rec, "Missing"))
}

func TestDecOrZero(t *testing.T) {
	rec := sections.Record{"PodatekNalezny": "bad"}
	assert.True(t, decOrZero(rec, "PodatekNalezny").IsZero())
	assert.True(t, decOrZero(rec, "Missing").IsZero())
}

func TestBoolOrNil(t *testing.T) {
	for _, v := range []string{"1", "TAK", "tak", "TRUE", "t", "YES"} {
		b := boolOrNil(sections.Record{"MPP": v}, "MPP")
		require.NotNil(t, b, "value %q", v)
		assert.True(t, *b, "value %q", v)
	}
	for _, v := range []string{"0", "NIE", "nie", "FALSE", "n", "NO"} {
		b := boolOrNil(sections.Record{"MPP": v}, "MPP")
		require.NotNil(t, b, "value %q", v)
		assert.False(t, *b, "value %q", v)
	}
	for _, v := range []string{"", "maybe", "2"} {
		assert.Nil(t, boolOrNil(sections.Record{"MPP": v}, "MPP"), "value %q", v)
	}
}

func TestDateOrNil(t *testing.T) {
	rec := sections.Record{
		"A": "2026-07-15",
		"B": "15.07.2026",
		"C": "2026-07-15T10:30:00",
		"D": "not a date",
	}

	d := dateOrNil(rec, "A")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), *d)

	d = dateOrNil(rec, "B")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), *d)

	d = dateOrNil(rec, "C")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), *d, "time part truncated")

	assert.Nil(t, dateOrNil(rec, "D"))
	assert.Nil(t, dateOrNil(rec, "Missing"))
}

func TestTimeOrNow(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixed }

	got := timeOrNow(sections.Record{"T": "2026-07-15T10:30:00"}, "T", now)
	assert.Equal(t, time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC), got)

	got = timeOrNow(sections.Record{"T": "garbage"}, "T", now)
	assert.Equal(t, fixed, got, "unparseable timestamp falls back to now")

	got = timeOrNow(sections.Record{}, "T", now)
	assert.Equal(t, fixed, got)
}
