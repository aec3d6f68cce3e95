// =============================================================================
// JPK V7M Converter - Domain Bundle
// =============================================================================
//
// This module holds the typed representation of one JPK_V7M filing: the
// document header, the filer identity, the three declaration sub-records and
// the sales/purchase ledgers with their control totals. A Bundle is built
// once per conversion request by the mapper, is immutable from then on, and
// is consumed exactly once by the XML writer.
//
// Field names follow the JPK schema element names (KodFormularza, P_10,
// K_20, ...) with underscores dropped per Go convention; the XML writer owns
// the mapping back to the exact element names.
//
// =============================================================================

package jpk

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HEADER
// =============================================================================

// Naglowek is the document header.
type Naglowek struct {
	KodFormularza     string
	WariantFormularza string

	// CelZlozenia is the filing purpose ("1" = first filing, "2" = correction).
	CelZlozenia string

	// Rok and Miesiac identify the reporting period.
	Rok     int
	Miesiac int

	// KodUrzedu is the tax-office code the document is addressed to.
	KodUrzedu string

	// NazwaSystemu names the producing system.
	NazwaSystemu string

	// DataWytworzeniaJpk is the generation timestamp (UTC).
	DataWytworzeniaJpk time.Time
}

// =============================================================================
// DECLARATION
// =============================================================================

// DeklaracjaNaglowek is the declaration header sub-record.
type DeklaracjaNaglowek struct {
	KodFormularzaDekl     string
	WariantFormularzaDekl string
	CelZlozenia           string
	Rok                   int
	Miesiac               int
	KodUrzedu             string
}

// DeklaracjaPozSzcz holds the itemized declaration figures.
// All amounts are nullable: a nil pointer means the position was not
// reported and its element is omitted from the output document.
type DeklaracjaPozSzcz struct {
	P10 *decimal.Decimal
	P11 *decimal.Decimal
	P12 *decimal.Decimal
	P13 *decimal.Decimal
	P15 *decimal.Decimal
	P16 *decimal.Decimal
	P17 *decimal.Decimal
	P18 *decimal.Decimal
	P19 *decimal.Decimal
	P20 *decimal.Decimal
	P37 *decimal.Decimal
	P38 *decimal.Decimal
	P51 *decimal.Decimal
	P68 *decimal.Decimal
	P69 *decimal.Decimal
}

// DeklaracjaPouczenia carries the acknowledgement flag required by the
// declaration part ("1" confirms the statutory instruction was read).
type DeklaracjaPouczenia struct {
	Pouczenia int
}

// =============================================================================
// SALES LEDGER
// =============================================================================

// SprzedazWiersz is one sales ledger row.
type SprzedazWiersz struct {
	LpSprzedazy int

	KodKrajuNadaniaTIN string
	NrKontrahenta      string
	NazwaKontrahenta   string
	DowodSprzedazy     string

	DataWystawienia *time.Time
	DataSprzedazy   *time.Time

	K10 *decimal.Decimal
	K11 *decimal.Decimal
	K15 *decimal.Decimal
	K16 *decimal.Decimal
	K19 *decimal.Decimal
	K20 *decimal.Decimal

	GTU01 *bool
	GTU02 *bool
	GTU03 *bool
	SW    *bool
	TP    *bool
	MPP   *bool
}

// SprzedazCtrl is the sales control total: row count plus the summed
// output-tax amount. Either supplied in the input or derived by the mapper.
type SprzedazCtrl struct {
	LiczbaWierszySprzedazy int
	PodatekNalezny         decimal.Decimal
}

// =============================================================================
// PURCHASE LEDGER
// =============================================================================

// ZakupWiersz is one purchase ledger row.
type ZakupWiersz struct {
	LpZakupu int

	KodKrajuNadaniaTIN string
	NrDostawcy         string
	NazwaDostawcy      string
	DowodZakupu        string

	DataZakupu *time.Time
	DataWplywu *time.Time

	K40 *decimal.Decimal
	K41 *decimal.Decimal
	K42 *decimal.Decimal
	K43 *decimal.Decimal

	MPP *bool
	IMP *bool
}

// ZakupCtrl is the purchase control total.
type ZakupCtrl struct {
	LiczbaWierszyZakupow int
	PodatekNaliczony     decimal.Decimal
}

// =============================================================================
// BUNDLE
// =============================================================================

// Bundle is the complete validated input for one JPK_V7M document.
// No parsing concerns, no file paths, no I/O.
type Bundle struct {
	Naglowek            Naglowek
	Podmiot             Podmiot
	DeklaracjaNaglowek  DeklaracjaNaglowek
	DeklaracjaPozSzcz   DeklaracjaPozSzcz
	DeklaracjaPouczenia DeklaracjaPouczenia

	SprzedazWiersze []SprzedazWiersz
	SprzedazCtrl    SprzedazCtrl

	ZakupWiersze []ZakupWiersz
	ZakupCtrl    ZakupCtrl
}
