// =============================================================================
// JPK V7M Converter - XML Document Writer
// =============================================================================
//
// Serializes a domain bundle into the JPK_V7M document. The element order
// below is the schema order and must not be reshuffled:
//
//   <JPK xmlns="..." xmlns:etd="...">
//     <Naglowek>...</Naglowek>
//     <Podmiot1 rola="Podatnik"> one filer variant </Podmiot1>
//     <Deklaracja> Naglowek, PozycjeSzczegolowe, Pouczenia </Deklaracja>
//     <Ewidencja> sales rows, sales ctrl, purchase rows, purchase ctrl </Ewidencja>
//   </JPK>
//
// Personal-data elements (NIP, ImiePierwsze, Nazwisko, DataUrodzenia) are
// emitted under the etd prefix as the ministry schema requires; everything
// else lives in the default namespace.
//
// Output is UTF-8 internally and transcoded at the end when the configured
// document encoding differs.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
)

// etdNamespaceURI is the ministry's shared domain-types schema, which owns
// the personal-data element declarations.
const etdNamespaceURI = "http://crd.gov.pl/xml/schematy/dziedzinowe/mf/2020/03/11/eD/DefinicjeTypy/"

// Writer renders bundles as JPK_V7M XML documents.
type Writer struct {
	rootElement  string
	namespaceURI string
	encoding     string
}

// New returns a writer configured from the schema options.
func New(schema config.SchemaOptions) *Writer {
	return &Writer{
		rootElement:  schema.RootElement,
		namespaceURI: schema.NamespaceURI,
		encoding:     schema.Encoding,
	}
}

// Write serializes the bundle, or fails with an xml.* error.
func (w *Writer) Write(bundle *jpk.Bundle) ([]byte, error) {
	if bundle == nil {
		return nil, jpk.Errf("xml.empty", "nothing to serialize")
	}
	if err := bundle.Podmiot.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", w.encoding)
	buf.WriteString("<" + w.rootElement +
		` xmlns="` + escapeXML(w.namespaceURI) + `"` +
		` xmlns:etd="` + etdNamespaceURI + `">` + "\n")

	w.writeNaglowek(&buf, bundle.Naglowek)
	w.writePodmiot(&buf, bundle.Podmiot)
	w.writeDeklaracja(&buf, bundle)
	w.writeEwidencja(&buf, bundle)

	buf.WriteString("</" + w.rootElement + ">\n")

	return w.transcode(buf.Bytes())
}

// =============================================================================
// DOCUMENT SECTIONS
// =============================================================================

func (w *Writer) writeNaglowek(buf *bytes.Buffer, n jpk.Naglowek) {
	openTag(buf, 1, "Naglowek")
	writeText(buf, 2, "KodFormularza", n.KodFormularza)
	writeText(buf, 2, "WariantFormularza", n.WariantFormularza)
	writeText(buf, 2, "CelZlozenia", n.CelZlozenia)
	writeTimestamp(buf, 2, "DataWytworzeniaJPK", n.DataWytworzeniaJpk)
	writeText(buf, 2, "NazwaSystemu", n.NazwaSystemu)
	writeText(buf, 2, "KodUrzedu", n.KodUrzedu)
	writeInt(buf, 2, "Rok", n.Rok)
	writeInt(buf, 2, "Miesiac", n.Miesiac)
	closeTag(buf, 1, "Naglowek")
}

func (w *Writer) writePodmiot(buf *bytes.Buffer, p jpk.Podmiot) {
	openTagAttr(buf, 1, "Podmiot1", "rola", "Podatnik")
	if fiz, ok := p.Fizyczna(); ok {
		openTag(buf, 2, "OsobaFizyczna")
		writeText(buf, 3, "etd:NIP", fiz.NIP)
		writeText(buf, 3, "etd:ImiePierwsze", fiz.ImiePierwsze)
		writeText(buf, 3, "etd:Nazwisko", fiz.Nazwisko)
		writeText(buf, 3, "etd:DataUrodzenia", fiz.DataUrodzenia)
		writeText(buf, 3, "Email", fiz.Email)
		writeText(buf, 3, "Telefon", fiz.Telefon)
		closeTag(buf, 2, "OsobaFizyczna")
	} else if niefiz, ok := p.Niefizyczna(); ok {
		openTag(buf, 2, "OsobaNiefizyczna")
		writeText(buf, 3, "etd:NIP", niefiz.NIP)
		writeText(buf, 3, "PelnaNazwa", niefiz.PelnaNazwa)
		writeText(buf, 3, "Email", niefiz.Email)
		writeText(buf, 3, "Telefon", niefiz.Telefon)
		closeTag(buf, 2, "OsobaNiefizyczna")
	}
	closeTag(buf, 1, "Podmiot1")
}

func (w *Writer) writeDeklaracja(buf *bytes.Buffer, bundle *jpk.Bundle) {
	openTag(buf, 1, "Deklaracja")

	nag := bundle.DeklaracjaNaglowek
	openTag(buf, 2, "Naglowek")
	writeText(buf, 3, "KodFormularzaDekl", nag.KodFormularzaDekl)
	writeText(buf, 3, "WariantFormularzaDekl", nag.WariantFormularzaDekl)
	writeText(buf, 3, "CelZlozenia", nag.CelZlozenia)
	writeInt(buf, 3, "Rok", nag.Rok)
	writeInt(buf, 3, "Miesiac", nag.Miesiac)
	writeText(buf, 3, "KodUrzedu", nag.KodUrzedu)
	closeTag(buf, 2, "Naglowek")

	poz := bundle.DeklaracjaPozSzcz
	openTag(buf, 2, "PozycjeSzczegolowe")
	writeOptDecimal(buf, 3, "P_10", poz.P10)
	writeOptDecimal(buf, 3, "P_11", poz.P11)
	writeOptDecimal(buf, 3, "P_12", poz.P12)
	writeOptDecimal(buf, 3, "P_13", poz.P13)
	writeOptDecimal(buf, 3, "P_15", poz.P15)
	writeOptDecimal(buf, 3, "P_16", poz.P16)
	writeOptDecimal(buf, 3, "P_17", poz.P17)
	writeOptDecimal(buf, 3, "P_18", poz.P18)
	writeOptDecimal(buf, 3, "P_19", poz.P19)
	writeOptDecimal(buf, 3, "P_20", poz.P20)
	writeOptDecimal(buf, 3, "P_37", poz.P37)
	writeOptDecimal(buf, 3, "P_38", poz.P38)
	writeOptDecimal(buf, 3, "P_51", poz.P51)
	writeOptDecimal(buf, 3, "P_68", poz.P68)
	writeOptDecimal(buf, 3, "P_69", poz.P69)
	closeTag(buf, 2, "PozycjeSzczegolowe")

	writeInt(buf, 2, "Pouczenia", bundle.DeklaracjaPouczenia.Pouczenia)

	closeTag(buf, 1, "Deklaracja")
}

func (w *Writer) writeEwidencja(buf *bytes.Buffer, bundle *jpk.Bundle) {
	openTag(buf, 1, "Ewidencja")

	for _, row := range bundle.SprzedazWiersze {
		openTag(buf, 2, "SprzedazWiersz")
		writeInt(buf, 3, "LpSprzedazy", row.LpSprzedazy)
		writeText(buf, 3, "KodKrajuNadaniaTIN", row.KodKrajuNadaniaTIN)
		writeText(buf, 3, "NrKontrahenta", row.NrKontrahenta)
		writeText(buf, 3, "NazwaKontrahenta", row.NazwaKontrahenta)
		writeText(buf, 3, "DowodSprzedazy", row.DowodSprzedazy)
		writeDate(buf, 3, "DataWystawienia", row.DataWystawienia)
		writeDate(buf, 3, "DataSprzedazy", row.DataSprzedazy)
		writeFlag(buf, 3, "GTU_01", row.GTU01)
		writeFlag(buf, 3, "GTU_02", row.GTU02)
		writeFlag(buf, 3, "GTU_03", row.GTU03)
		writeFlag(buf, 3, "SW", row.SW)
		writeFlag(buf, 3, "TP", row.TP)
		writeFlag(buf, 3, "MPP", row.MPP)
		writeOptDecimal(buf, 3, "K_10", row.K10)
		writeOptDecimal(buf, 3, "K_11", row.K11)
		writeOptDecimal(buf, 3, "K_15", row.K15)
		writeOptDecimal(buf, 3, "K_16", row.K16)
		writeOptDecimal(buf, 3, "K_19", row.K19)
		writeOptDecimal(buf, 3, "K_20", row.K20)
		closeTag(buf, 2, "SprzedazWiersz")
	}

	openTag(buf, 2, "SprzedazCtrl")
	writeInt(buf, 3, "LiczbaWierszySprzedazy", bundle.SprzedazCtrl.LiczbaWierszySprzedazy)
	writeDecimal(buf, 3, "PodatekNalezny", bundle.SprzedazCtrl.PodatekNalezny)
	closeTag(buf, 2, "SprzedazCtrl")

	for _, row := range bundle.ZakupWiersze {
		openTag(buf, 2, "ZakupWiersz")
		writeInt(buf, 3, "LpZakupu", row.LpZakupu)
		writeText(buf, 3, "KodKrajuNadaniaTIN", row.KodKrajuNadaniaTIN)
		writeText(buf, 3, "NrDostawcy", row.NrDostawcy)
		writeText(buf, 3, "NazwaDostawcy", row.NazwaDostawcy)
		writeText(buf, 3, "DowodZakupu", row.DowodZakupu)
		writeDate(buf, 3, "DataZakupu", row.DataZakupu)
		writeDate(buf, 3, "DataWplywu", row.DataWplywu)
		writeFlag(buf, 3, "MPP", row.MPP)
		writeFlag(buf, 3, "IMP", row.IMP)
		writeOptDecimal(buf, 3, "K_40", row.K40)
		writeOptDecimal(buf, 3, "K_41", row.K41)
		writeOptDecimal(buf, 3, "K_42", row.K42)
		writeOptDecimal(buf, 3, "K_43", row.K43)
		closeTag(buf, 2, "ZakupWiersz")
	}

	openTag(buf, 2, "ZakupCtrl")
	writeInt(buf, 3, "LiczbaWierszyZakupow", bundle.ZakupCtrl.LiczbaWierszyZakupow)
	writeDecimal(buf, 3, "PodatekNaliczony", bundle.ZakupCtrl.PodatekNaliczony)
	closeTag(buf, 2, "ZakupCtrl")

	closeTag(buf, 1, "Ewidencja")
}

// =============================================================================
// ENCODING
// =============================================================================

// transcode converts the UTF-8 document to the configured encoding. UTF-8
// and its aliases pass through untouched.
func (w *Writer) transcode(doc []byte) ([]byte, error) {
	name := w.encoding
	switch name {
	case "", "UTF-8", "utf-8", "utf8":
		return doc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, jpk.Errf("xml.bad_encoding", "unsupported document encoding %q", name)
	}
	out, err := enc.NewEncoder().Bytes(doc)
	if err != nil {
		return nil, jpk.Errf("xml.bad_encoding", "encoding document as %q: %v", name, err)
	}
	return out, nil
}
