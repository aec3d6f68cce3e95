package xmlwriter

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
)

func testWriter() *Writer {
	return New(config.SchemaOptions{
		RootElement:  "JPK",
		NamespaceURI: "http://jpk.mf.gov.pl/wzor/2020/05/08/9393/",
		Encoding:     "UTF-8",
	})
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func boolp(b bool) *bool { return &b }

func orgBundle(t *testing.T) *jpk.Bundle {
	t.Helper()
	podmiot, err := jpk.ResolvePodmiot("NIEFIZYCZNA",
		jpk.OsobaFizyczna{},
		jpk.OsobaNiefizyczna{NIP: "1234567890", PelnaNazwa: "Firma & Syn Sp. z o.o."})
	require.NoError(t, err)

	sale := time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC)
	return &jpk.Bundle{
		Naglowek: jpk.Naglowek{
			KodFormularza:      "JPK_V7M",
			WariantFormularza:  "2",
			CelZlozenia:        "1",
			Rok:                2026,
			Miesiac:            7,
			KodUrzedu:          "0202",
			NazwaSystemu:       "ksiegowy",
			DataWytworzeniaJpk: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Podmiot: podmiot,
		DeklaracjaNaglowek: jpk.DeklaracjaNaglowek{
			KodFormularzaDekl:     "VAT-7",
			WariantFormularzaDekl: "21",
			CelZlozenia:           "1",
			Rok:                   2026,
			Miesiac:               7,
			KodUrzedu:             "0202",
		},
		DeklaracjaPozSzcz:   jpk.DeklaracjaPozSzcz{P38: dec("276.50")},
		DeklaracjaPouczenia: jpk.DeklaracjaPouczenia{Pouczenia: 1},
		SprzedazWiersze: []jpk.SprzedazWiersz{{
			LpSprzedazy:     1,
			NrKontrahenta:   "9876543210",
			DowodSprzedazy:  "FV/1/2026",
			DataWystawienia: &sale,
			K19:             dec("1000.00"),
			K20:             dec("230.00"),
			MPP:             boolp(true),
			GTU01:           boolp(false),
		}},
		SprzedazCtrl: jpk.SprzedazCtrl{
			LiczbaWierszySprzedazy: 1,
			PodatekNalezny:         decimal.RequireFromString("230.00"),
		},
		ZakupCtrl: jpk.ZakupCtrl{LiczbaWierszyZakupow: 0, PodatekNaliczony: decimal.Zero},
	}
}

func TestWriteOrganizationDocument(t *testing.T) {
	doc, err := testWriter().Write(orgBundle(t))
	require.NoError(t, err)
	out := string(doc)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<JPK xmlns="http://jpk.mf.gov.pl/wzor/2020/05/08/9393/" xmlns:etd="`)

	// Filer: organization variant only, NIP under the etd prefix.
	assert.Contains(t, out, `<Podmiot1 rola="Podatnik">`)
	assert.Contains(t, out, "<OsobaNiefizyczna>")
	assert.NotContains(t, out, "<OsobaFizyczna>")
	assert.Contains(t, out, "<etd:NIP>1234567890</etd:NIP>")
	assert.Contains(t, out, "<PelnaNazwa>Firma &amp; Syn Sp. z o.o.</PelnaNazwa>")

	// Declaration.
	assert.Contains(t, out, "<KodFormularzaDekl>VAT-7</KodFormularzaDekl>")
	assert.Contains(t, out, "<P_38>276.5</P_38>")
	assert.NotContains(t, out, "<P_10>", "unreported positions are omitted")
	assert.Contains(t, out, "<Pouczenia>1</Pouczenia>")

	// Ledger row with flags rendered as 1/0 and dates as yyyy-MM-dd.
	assert.Contains(t, out, "<DataWystawienia>2026-07-03</DataWystawienia>")
	assert.Contains(t, out, "<MPP>1</MPP>")
	assert.Contains(t, out, "<GTU_01>0</GTU_01>")
	assert.NotContains(t, out, "<GTU_02>", "nil flags are omitted")
	assert.Contains(t, out, "<K_20>230</K_20>")

	// Control sections always present, even a zero purchase ctrl.
	assert.Contains(t, out, "<LiczbaWierszySprzedazy>1</LiczbaWierszySprzedazy>")
	assert.Contains(t, out, "<PodatekNalezny>230</PodatekNalezny>")
	assert.Contains(t, out, "<LiczbaWierszyZakupow>0</LiczbaWierszyZakupow>")
	assert.Contains(t, out, "<PodatekNaliczony>0</PodatekNaliczony>")

	// Timestamp in RFC3339.
	assert.Contains(t, out, "<DataWytworzeniaJPK>2026-08-01T12:00:00Z</DataWytworzeniaJPK>")
}

func TestWriteSectionOrder(t *testing.T) {
	doc, err := testWriter().Write(orgBundle(t))
	require.NoError(t, err)
	out := string(doc)

	naglowek := strings.Index(out, "<Naglowek>")
	podmiot := strings.Index(out, "<Podmiot1")
	deklaracja := strings.Index(out, "<Deklaracja>")
	ewidencja := strings.Index(out, "<Ewidencja>")

	require.True(t, naglowek >= 0 && podmiot >= 0 && deklaracja >= 0 && ewidencja >= 0)
	assert.Less(t, naglowek, podmiot)
	assert.Less(t, podmiot, deklaracja)
	assert.Less(t, deklaracja, ewidencja)

	// Within Ewidencja the sales ctrl precedes the purchase rows.
	salesCtrl := strings.Index(out, "<SprzedazCtrl>")
	purchaseCtrl := strings.Index(out, "<ZakupCtrl>")
	assert.Less(t, ewidencja, salesCtrl)
	assert.Less(t, salesCtrl, purchaseCtrl)
}

func TestWriteNaturalPersonUsesEtdElements(t *testing.T) {
	bundle := orgBundle(t)
	podmiot, err := jpk.ResolvePodmiot("FIZYCZNA",
		jpk.OsobaFizyczna{
			NIP:           "1234567890",
			ImiePierwsze:  "Jan",
			Nazwisko:      "Kowalski",
			DataUrodzenia: "1980-05-05",
		},
		jpk.OsobaNiefizyczna{})
	require.NoError(t, err)
	bundle.Podmiot = podmiot

	doc, err := testWriter().Write(bundle)
	require.NoError(t, err)
	out := string(doc)

	assert.Contains(t, out, "<OsobaFizyczna>")
	assert.NotContains(t, out, "<OsobaNiefizyczna>")
	assert.Contains(t, out, "<etd:ImiePierwsze>Jan</etd:ImiePierwsze>")
	assert.Contains(t, out, "<etd:Nazwisko>Kowalski</etd:Nazwisko>")
	assert.Contains(t, out, "<etd:DataUrodzenia>1980-05-05</etd:DataUrodzenia>")
}

func TestWriteNilBundle(t *testing.T) {
	_, err := testWriter().Write(nil)
	require.Error(t, err)
	assert.Equal(t, "xml.empty", jpk.CodeOf(err))
}

func TestWriteUnresolvedPodmiot(t *testing.T) {
	bundle := orgBundle(t)
	bundle.Podmiot = jpk.Podmiot{}

	_, err := testWriter().Write(bundle)
	require.Error(t, err)
	assert.Equal(t, "xml.podmiot_invalid", jpk.CodeOf(err))
}

func TestWriteUnsupportedEncoding(t *testing.T) {
	w := New(config.SchemaOptions{
		RootElement:  "JPK",
		NamespaceURI: "urn:test",
		Encoding:     "KLINGON-8",
	})
	_, err := w.Write(orgBundle(t))
	require.Error(t, err)
	assert.Equal(t, "xml.bad_encoding", jpk.CodeOf(err))
}

func TestWriteDeclaredEncodingMatchesConfig(t *testing.T) {
	w := New(config.SchemaOptions{
		RootElement:  "JPK",
		NamespaceURI: "urn:test",
		Encoding:     "ISO-8859-2",
	})
	doc, err := w.Write(orgBundle(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), `<?xml version="1.0" encoding="ISO-8859-2"?>`))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; &quot;c&quot; &apos;d&apos;", escapeXML(`a <b> & "c" 'd'`))
	assert.Equal(t, "plain", escapeXML("plain"))
}
