// =============================================================================
// JPK V7M Converter - Filer Identity
// =============================================================================
//
// Podmiot models the filer as a tagged union over two payload shapes:
// a natural person (OsobaFizyczna) or an organization (OsobaNiefizyczna).
// The union can only be built through ResolvePodmiot, which enforces the
// invariant that exactly one populated variant is selected, so the
// "both empty" and "indicator contradicts payload" states are
// unrepresentable after construction.
//
// RESOLUTION ORDER:
//   1. Explicit typPodmiotu indicator, when present and recognized.
//   2. Whichever payload carries variant-distinctive fields (name parts
//      for a person, PelnaNazwa for an organization), person first.
//   3. A NIP-only record defaults to the natural person.
//   An indicator that points at an unpopulated variant, or two empty
//   payloads, is a structural error.
//
// =============================================================================

package jpk

import "strings"

// OsobaFizyczna is the natural-person identity payload.
type OsobaFizyczna struct {
	NIP           string
	ImiePierwsze  string
	Nazwisko      string
	DataUrodzenia string

	Email   string
	Telefon string
}

// HasAnyData reports whether any identity-defining field is populated.
// Contact fields alone do not make a person.
func (o OsobaFizyczna) HasAnyData() bool {
	return o.NIP != "" || o.ImiePierwsze != "" || o.Nazwisko != ""
}

// OsobaNiefizyczna is the organization identity payload.
type OsobaNiefizyczna struct {
	NIP        string
	PelnaNazwa string

	Email   string
	Telefon string
}

// HasAnyData reports whether any identity-defining field is populated.
func (o OsobaNiefizyczna) HasAnyData() bool {
	return o.NIP != "" || o.PelnaNazwa != ""
}

// Podmiot is the resolved filer identity. The zero value is invalid;
// use ResolvePodmiot.
type Podmiot struct {
	fizyczna    *OsobaFizyczna
	niefizyczna *OsobaNiefizyczna
}

// ResolvePodmiot builds a Podmiot from the type indicator and both candidate
// payloads. The non-selected payload is discarded.
func ResolvePodmiot(typPodmiotu string, fiz OsobaFizyczna, niefiz OsobaNiefizyczna) (Podmiot, error) {
	switch indicatorKind(typPodmiotu) {
	case indicatorFizyczna:
		if !fiz.HasAnyData() {
			return Podmiot{}, Errf("map.podmiot_invalid",
				"typPodmiotu %q indicates a natural person but no natural-person fields are populated", typPodmiotu)
		}
		return Podmiot{fizyczna: &fiz}, nil

	case indicatorNiefizyczna:
		if !niefiz.HasAnyData() {
			return Podmiot{}, Errf("map.podmiot_invalid",
				"typPodmiotu %q indicates an organization but no organization fields are populated", typPodmiotu)
		}
		return Podmiot{niefizyczna: &niefiz}, nil
	}

	// No usable indicator: fall back on the payloads. NIP and the contact
	// fields are shared between both shapes, so the distinctive fields
	// (name parts vs. PelnaNazwa) are consulted first; a NIP-only record
	// defaults to the natural person.
	fizDistinct := fiz.ImiePierwsze != "" || fiz.Nazwisko != "" || fiz.DataUrodzenia != ""
	switch {
	case fizDistinct:
		return Podmiot{fizyczna: &fiz}, nil
	case niefiz.PelnaNazwa != "":
		return Podmiot{niefizyczna: &niefiz}, nil
	case fiz.HasAnyData():
		return Podmiot{fizyczna: &fiz}, nil
	case niefiz.HasAnyData():
		return Podmiot{niefizyczna: &niefiz}, nil
	}

	return Podmiot{}, Errf("map.podmiot_missing",
		"filer section present but neither a natural-person nor an organization identity is populated")
}

// IsOsobaFizyczna reports whether the natural-person variant is active.
func (p Podmiot) IsOsobaFizyczna() bool {
	return p.fizyczna != nil
}

// Fizyczna returns the natural-person payload when that variant is active.
func (p Podmiot) Fizyczna() (OsobaFizyczna, bool) {
	if p.fizyczna == nil {
		return OsobaFizyczna{}, false
	}
	return *p.fizyczna, true
}

// Niefizyczna returns the organization payload when that variant is active.
func (p Podmiot) Niefizyczna() (OsobaNiefizyczna, bool) {
	if p.niefizyczna == nil {
		return OsobaNiefizyczna{}, false
	}
	return *p.niefizyczna, true
}

// Validate re-checks the union invariant. The XML writer calls this before
// emission; a zero-value Podmiot that bypassed ResolvePodmiot fails here.
func (p Podmiot) Validate() error {
	switch {
	case p.fizyczna == nil && p.niefizyczna == nil:
		return Errf("xml.podmiot_invalid", "filer identity has no active variant")
	case p.fizyczna != nil && p.niefizyczna != nil:
		return Errf("xml.podmiot_invalid", "filer identity has both variants populated")
	case p.fizyczna != nil && !p.fizyczna.HasAnyData():
		return Errf("xml.podmiot_invalid", "natural-person variant selected but empty")
	case p.niefizyczna != nil && !p.niefizyczna.HasAnyData():
		return Errf("xml.podmiot_invalid", "organization variant selected but empty")
	}
	return nil
}

// =============================================================================
// INDICATOR VOCABULARY
// =============================================================================

type indicator int

const (
	indicatorNone indicator = iota
	indicatorFizyczna
	indicatorNiefizyczna
)

// indicatorKind normalizes the typPodmiotu cell. Unrecognized values are
// treated as absent, letting payload-based resolution take over.
func indicatorKind(typPodmiotu string) indicator {
	t := strings.ToUpper(strings.TrimSpace(typPodmiotu))
	switch t {
	case "FIZYCZNA", "OSOBAFIZYCZNA", "OSOBA_FIZYCZNA", "OSOBA FIZYCZNA":
		return indicatorFizyczna
	case "NIEFIZYCZNA", "OSOBANIEFIZYCZNA", "OSOBA_NIEFIZYCZNA", "OSOBA NIEFIZYCZNA":
		return indicatorNiefizyczna
	}
	return indicatorNone
}
