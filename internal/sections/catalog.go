// =============================================================================
// JPK V7M Converter - Section Catalog
// =============================================================================
//
// The catalog is the single place that knows the sectioned wire vocabulary:
// which first-cell tokens announce a section ("SEKCJA" rows), and how the
// wire SECTION_IDs translate to the canonical section names the rest of the
// pipeline uses. It is immutable data owned by whoever needs it (detector,
// parser), not a process-wide singleton, so tests can substitute an
// alternate vocabulary.
//
// WIRE FORMAT:
//   SEKCJA,NAGLOWEK
//   KodFormularza,WariantFormularza,...
//   JPK_V7M,1,...
//   <blank>
//   SEKCJA,SPRZEDAZ
//   ...
//
// =============================================================================

package sections

import "strings"

// Canonical section names. These are the ParsedSections keys and, for the
// ledger sections, the output element names.
const (
	SecNaglowek            = "Naglowek"
	SecPodmiot             = "Podmiot"
	SecDeklaracja          = "Deklaracja"
	SecDeklaracjaNaglowek  = "DeklaracjaNaglowek"
	SecDeklaracjaPozSzcz   = "DeklaracjaPozSzcz"
	SecDeklaracjaPouczenia = "DeklaracjaPouczenia"
	SecSprzedazWiersz      = "SprzedazWiersz"
	SecSprzedazCtrl        = "SprzedazCtrl"
	SecZakupWiersz         = "ZakupWiersz"
	SecZakupCtrl           = "ZakupCtrl"
)

// Catalog maps the sectioned wire vocabulary to canonical section names.
type Catalog struct {
	markers map[string]struct{}
	byID    map[string]string
	byName  map[string]string
}

// NewCatalog builds a catalog from marker tokens and a SECTION_ID to
// canonical-name translation table. Matching is case-insensitive on both.
func NewCatalog(markers []string, ids map[string]string) *Catalog {
	c := &Catalog{
		markers: make(map[string]struct{}, len(markers)),
		byID:    make(map[string]string, len(ids)),
		byName:  make(map[string]string, len(ids)),
	}
	for _, m := range markers {
		c.markers[strings.ToUpper(m)] = struct{}{}
	}
	for id, name := range ids {
		c.byID[strings.ToUpper(id)] = name
		c.byName[strings.ToUpper(name)] = name
	}
	return c
}

// DefaultCatalog returns the JPK_V7M vocabulary.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]string{"SEKCJA", "SECTION"},
		map[string]string{
			"NAGLOWEK":             SecNaglowek,
			"PODMIOT":              SecPodmiot,
			"DEKLARACJA":           SecDeklaracja,
			"DEKLARACJA-NAGLOWEK":  SecDeklaracjaNaglowek,
			"DEKLARACJA-POZ-SZCZ":  SecDeklaracjaPozSzcz,
			"DEKLARACJA-POUCZENIA": SecDeklaracjaPouczenia,
			"SPRZEDAZ":             SecSprzedazWiersz,
			"SPRZEDAZ-CTRL":        SecSprzedazCtrl,
			"ZAKUP":                SecZakupWiersz,
			"ZAKUP-CTRL":           SecZakupCtrl,
		},
	)
}

// IsMarker reports whether the cell, after normalization, is one of the
// marker tokens that announce a section row.
func (c *Catalog) IsMarker(cell string) bool {
	_, ok := c.markers[strings.ToUpper(NormalizeMarkerCell(cell))]
	return ok
}

// Resolve translates a wire SECTION_ID to its canonical section name.
// A cell that already equals a canonical name is accepted as-is, so files
// written against the canonical vocabulary keep working.
func (c *Catalog) Resolve(sectionID string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(sectionID))
	if name, ok := c.byID[key]; ok {
		return name, true
	}
	if name, ok := c.byName[key]; ok {
		return name, true
	}
	return "", false
}

// MarkerTarget inspects one row and, when it is a section marker row
// (marker token, SECTION_ID, ...), returns the canonical section name.
func (c *Catalog) MarkerTarget(row []string) (string, bool) {
	if len(row) < 2 || !c.IsMarker(row[0]) {
		return "", false
	}
	return c.Resolve(row[1])
}

// NormalizeMarkerCell strips the decorations spreadsheet exports wrap
// marker tokens in: surrounding whitespace, a UTF-8 BOM, bracket/brace
// wrappers, a localized "Sekcja:"/"Section:" prefix, and repeated inner
// whitespace.
func NormalizeMarkerCell(cell string) string {
	s := strings.TrimSpace(strings.TrimPrefix(cell, "\uFEFF"))

	if len(s) >= 2 {
		if (s[0] == '[' && s[len(s)-1] == ']') || (s[0] == '{' && s[len(s)-1] == '}') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	lower := strings.ToLower(s)
	for _, prefix := range []string{"sekcja:", "section:"} {
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}

	return strings.Join(strings.Fields(s), " ")
}
