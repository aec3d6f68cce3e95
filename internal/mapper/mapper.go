// =============================================================================
// JPK V7M Converter - Section Mapper
// =============================================================================
//
// Turns ParsedSections (string-keyed field-records) into the typed domain
// Bundle. This is where the structural rules live:
//
//   - Naglowek, Podmiot and a declaration are required; each missing
//     section fails with its own error code so the caller can say exactly
//     what is absent.
//   - The declaration is accepted either as one combined record or as the
//     three split sub-sections.
//   - The filer variant is resolved through jpk.ResolvePodmiot.
//   - Control sections are used verbatim when supplied and derived from
//     the ledger (row count + designated column sum) when not.
//
// The mapper is pure: no I/O, no hidden state. Mapping the same
// ParsedSections twice yields identical bundles (the generation-timestamp
// fallback is injected through Now so callers and tests can pin it).
//
// =============================================================================

package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/sections"
)

// Mapper converts parsed sections into a domain bundle.
type Mapper struct {
	// SalesSumField / PurchaseSumField designate the ledger columns summed
	// into derived control sections (wire names, e.g. "K_20").
	SalesSumField    string
	PurchaseSumField string

	// Now supplies the fallback generation timestamp.
	Now func() time.Time
}

// New returns a mapper configured from the schema options.
func New(schema config.SchemaOptions) *Mapper {
	return &Mapper{
		SalesSumField:    schema.SalesTaxSumField,
		PurchaseSumField: schema.PurchaseTaxSumField,
		Now:              time.Now,
	}
}

// MapToBundle builds the bundle, or fails with a map.* error.
func (m *Mapper) MapToBundle(parsed *sections.ParsedSections) (*jpk.Bundle, error) {
	nagRecs := parsed.Records(sections.SecNaglowek)
	if len(nagRecs) == 0 {
		return nil, jpk.Errf("map.missing_naglowek", "required section %s is missing", sections.SecNaglowek)
	}

	podRecs := parsed.Records(sections.SecPodmiot)
	if len(podRecs) == 0 {
		return nil, jpk.Errf("map.missing_podmiot", "required section %s is missing", sections.SecPodmiot)
	}

	bundle := &jpk.Bundle{}
	bundle.Naglowek = m.mapNaglowek(nagRecs[0])

	podmiot, err := mapPodmiot(podRecs[0])
	if err != nil {
		return nil, err
	}
	bundle.Podmiot = podmiot

	if err := m.mapDeklaracja(parsed, bundle); err != nil {
		return nil, err
	}

	for _, rec := range parsed.Records(sections.SecSprzedazWiersz) {
		bundle.SprzedazWiersze = append(bundle.SprzedazWiersze, mapSprzedazWiersz(rec))
	}
	bundle.SprzedazCtrl = m.mapSprzedazCtrl(parsed)

	for _, rec := range parsed.Records(sections.SecZakupWiersz) {
		bundle.ZakupWiersze = append(bundle.ZakupWiersze, mapZakupWiersz(rec))
	}
	bundle.ZakupCtrl = m.mapZakupCtrl(parsed)

	return bundle, nil
}

// =============================================================================
// HEADER AND FILER
// =============================================================================

func (m *Mapper) mapNaglowek(rec sections.Record) jpk.Naglowek {
	return jpk.Naglowek{
		KodFormularza:      str(rec, "KodFormularza"),
		WariantFormularza:  str(rec, "WariantFormularza"),
		CelZlozenia:        str(rec, "CelZlozenia"),
		Rok:                intOrZero(rec, "Rok"),
		Miesiac:            intOrZero(rec, "Miesiac"),
		KodUrzedu:          str(rec, "KodUrzedu"),
		NazwaSystemu:       str(rec, "NazwaSystemu"),
		DataWytworzeniaJpk: timeOrNow(rec, "DataWytworzeniaJpk", m.Now),
	}
}

// mapPodmiot builds both candidate variants from the one filer record
// (shared fields feed both) and lets the domain factory pick the winner.
func mapPodmiot(rec sections.Record) (jpk.Podmiot, error) {
	fiz := jpk.OsobaFizyczna{
		NIP:           str(rec, "NIP"),
		ImiePierwsze:  str(rec, "ImiePierwsze"),
		Nazwisko:      str(rec, "Nazwisko"),
		DataUrodzenia: str(rec, "DataUrodzenia"),
		Email:         str(rec, "Email"),
		Telefon:       str(rec, "Telefon"),
	}
	niefiz := jpk.OsobaNiefizyczna{
		NIP:        str(rec, "NIP"),
		PelnaNazwa: str(rec, "PelnaNazwa", "Nazwa"),
		Email:      str(rec, "Email"),
		Telefon:    str(rec, "Telefon"),
	}
	return jpk.ResolvePodmiot(rec.Get("typPodmiotu"), fiz, niefiz)
}

// =============================================================================
// DECLARATION
// =============================================================================

// mapDeklaracja accepts either one combined Deklaracja record or the three
// split sub-sections, preferring the split form when fully present.
func (m *Mapper) mapDeklaracja(parsed *sections.ParsedSections, bundle *jpk.Bundle) error {
	nag := parsed.Records(sections.SecDeklaracjaNaglowek)
	poz := parsed.Records(sections.SecDeklaracjaPozSzcz)
	pou := parsed.Records(sections.SecDeklaracjaPouczenia)

	if len(nag) > 0 && len(poz) > 0 && len(pou) > 0 {
		bundle.DeklaracjaNaglowek = mapDeklaracjaNaglowek(nag[0])
		bundle.DeklaracjaPozSzcz = mapDeklaracjaPozSzcz(poz[0])
		bundle.DeklaracjaPouczenia = jpk.DeklaracjaPouczenia{Pouczenia: intOrZero(pou[0], "Pouczenia")}
		return nil
	}

	if combined := parsed.Records(sections.SecDeklaracja); len(combined) > 0 {
		rec := combined[0]
		bundle.DeklaracjaNaglowek = mapDeklaracjaNaglowek(rec)
		bundle.DeklaracjaPozSzcz = mapDeklaracjaPozSzcz(rec)
		bundle.DeklaracjaPouczenia = jpk.DeklaracjaPouczenia{Pouczenia: intOrZero(rec, "Pouczenia")}
		return nil
	}

	// Neither shape is fully present. Name the exact gap.
	switch {
	case len(nag) == 0 && len(poz) == 0 && len(pou) == 0:
		return jpk.Errf("map.missing_deklaracja", "no declaration section found (neither %s nor the split sub-sections)", sections.SecDeklaracja)
	case len(nag) == 0:
		return jpk.Errf("map.missing_deklaracja_naglowek", "split declaration is missing %s", sections.SecDeklaracjaNaglowek)
	case len(poz) == 0:
		return jpk.Errf("map.missing_deklaracja_poz_szcz", "split declaration is missing %s", sections.SecDeklaracjaPozSzcz)
	default:
		return jpk.Errf("map.missing_deklaracja_pouczenia", "split declaration is missing %s", sections.SecDeklaracjaPouczenia)
	}
}

// mapDeklaracjaNaglowek reads the declaration header fields. The fallback
// keys make the combined-record shape work: a combined Deklaracja record
// often carries plain KodFormularza/WariantFormularza instead of the
// Dekl-suffixed names.
func mapDeklaracjaNaglowek(rec sections.Record) jpk.DeklaracjaNaglowek {
	return jpk.DeklaracjaNaglowek{
		KodFormularzaDekl:     str(rec, "KodFormularzaDekl", "KodFormularza"),
		WariantFormularzaDekl: str(rec, "WariantFormularzaDekl", "WariantFormularza"),
		CelZlozenia:           str(rec, "CelZlozenia"),
		Rok:                   intOrZero(rec, "Rok"),
		Miesiac:               intOrZero(rec, "Miesiac"),
		KodUrzedu:             str(rec, "KodUrzedu"),
	}
}

func mapDeklaracjaPozSzcz(rec sections.Record) jpk.DeklaracjaPozSzcz {
	return jpk.DeklaracjaPozSzcz{
		P10: decOrNil(rec, "P_10"),
		P11: decOrNil(rec, "P_11"),
		P12: decOrNil(rec, "P_12"),
		P13: decOrNil(rec, "P_13"),
		P15: decOrNil(rec, "P_15"),
		P16: decOrNil(rec, "P_16"),
		P17: decOrNil(rec, "P_17"),
		P18: decOrNil(rec, "P_18"),
		P19: decOrNil(rec, "P_19"),
		P20: decOrNil(rec, "P_20"),
		P37: decOrNil(rec, "P_37"),
		P38: decOrNil(rec, "P_38"),
		P51: decOrNil(rec, "P_51"),
		P68: decOrNil(rec, "P_68"),
		P69: decOrNil(rec, "P_69"),
	}
}

// =============================================================================
// LEDGERS
// =============================================================================

func mapSprzedazWiersz(rec sections.Record) jpk.SprzedazWiersz {
	return jpk.SprzedazWiersz{
		LpSprzedazy:        intOrZero(rec, "LpSprzedazy", "Lp"),
		KodKrajuNadaniaTIN: str(rec, "KodKrajuNadaniaTIN"),
		NrKontrahenta:      str(rec, "NrKontrahenta", "NIP"),
		NazwaKontrahenta:   str(rec, "NazwaKontrahenta"),
		DowodSprzedazy:     str(rec, "DowodSprzedazy"),
		DataWystawienia:    dateOrNil(rec, "DataWystawienia"),
		DataSprzedazy:      dateOrNil(rec, "DataSprzedazy"),
		K10:                decOrNil(rec, "K_10"),
		K11:                decOrNil(rec, "K_11"),
		K15:                decOrNil(rec, "K_15"),
		K16:                decOrNil(rec, "K_16"),
		K19:                decOrNil(rec, "K_19"),
		K20:                decOrNil(rec, "K_20"),
		GTU01:              boolOrNil(rec, "GTU_01"),
		GTU02:              boolOrNil(rec, "GTU_02"),
		GTU03:              boolOrNil(rec, "GTU_03"),
		SW:                 boolOrNil(rec, "SW"),
		TP:                 boolOrNil(rec, "TP"),
		MPP:                boolOrNil(rec, "MPP"),
	}
}

func mapZakupWiersz(rec sections.Record) jpk.ZakupWiersz {
	return jpk.ZakupWiersz{
		LpZakupu:           intOrZero(rec, "LpZakupu", "Lp"),
		KodKrajuNadaniaTIN: str(rec, "KodKrajuNadaniaTIN"),
		NrDostawcy:         str(rec, "NrDostawcy", "NIP"),
		NazwaDostawcy:      str(rec, "NazwaDostawcy"),
		DowodZakupu:        str(rec, "DowodZakupu"),
		DataZakupu:         dateOrNil(rec, "DataZakupu"),
		DataWplywu:         dateOrNil(rec, "DataWplywu"),
		K40:                decOrNil(rec, "K_40"),
		K41:                decOrNil(rec, "K_41"),
		K42:                decOrNil(rec, "K_42"),
		K43:                decOrNil(rec, "K_43"),
		MPP:                boolOrNil(rec, "MPP"),
		IMP:                boolOrNil(rec, "IMP"),
	}
}

// =============================================================================
// CONTROL SECTIONS
// =============================================================================

// mapSprzedazCtrl uses a supplied control section verbatim. Supplied
// means the section carries at least one record; a section registered by
// a marker with no data rows is derived like a missing one.
func (m *Mapper) mapSprzedazCtrl(parsed *sections.ParsedSections) jpk.SprzedazCtrl {
	if recs := parsed.Records(sections.SecSprzedazCtrl); len(recs) > 0 {
		return jpk.SprzedazCtrl{
			LiczbaWierszySprzedazy: intOrZero(recs[0], "LiczbaWierszySprzedazy"),
			PodatekNalezny:         decOrZero(recs[0], "PodatekNalezny"),
		}
	}
	rows := parsed.Records(sections.SecSprzedazWiersz)
	return jpk.SprzedazCtrl{
		LiczbaWierszySprzedazy: len(rows),
		PodatekNalezny:         sumColumn(rows, m.SalesSumField),
	}
}

func (m *Mapper) mapZakupCtrl(parsed *sections.ParsedSections) jpk.ZakupCtrl {
	if recs := parsed.Records(sections.SecZakupCtrl); len(recs) > 0 {
		return jpk.ZakupCtrl{
			LiczbaWierszyZakupow: intOrZero(recs[0], "LiczbaWierszyZakupow"),
			PodatekNaliczony:     decOrZero(recs[0], "PodatekNaliczony"),
		}
	}
	rows := parsed.Records(sections.SecZakupWiersz)
	return jpk.ZakupCtrl{
		LiczbaWierszyZakupow: len(rows),
		PodatekNaliczony:     sumColumn(rows, m.PurchaseSumField),
	}
}

// sumColumn totals the designated column across the records, treating
// absent and unparseable values as zero.
func sumColumn(rows []sections.Record, field string) decimal.Decimal {
	sum := decimal.Zero
	for _, rec := range rows {
		if d := decOrNil(rec, field); d != nil {
			sum = sum.Add(*d)
		}
	}
	return sum
}
