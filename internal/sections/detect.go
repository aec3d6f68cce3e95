// =============================================================================
// JPK V7M Converter - Format Detector
// =============================================================================
//
// Two input layouts are supported and must be told apart before parsing:
//
//   SECTIONED     - explicit marker rows announce each section
//                   (SEKCJA,NAGLOWEK / header row / data rows / blank).
//   SINGLE-HEADER - one flat header row whose column names encode the
//                   section in a "Section.Field" prefix.
//
// Sectioned detection wins: a file carrying even one recognizable marker
// row is sectioned, and the Section.Field probe is only consulted as the
// fallback. Files matching neither are rejected with detect.unrecognized.
//
// =============================================================================

package sections

import (
	"strings"

	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/table"
)

// Format classifies a detected input layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatSectioned
	FormatSingleHeader
)

// String returns the format name for logs.
func (f Format) String() string {
	switch f {
	case FormatSectioned:
		return "sectioned"
	case FormatSingleHeader:
		return "single-header"
	}
	return "unknown"
}

// detectScanLimit bounds how deep IsSectioned looks for a marker row.
// Real files carry their first marker within the first handful of rows;
// the cap keeps detection O(1) on huge single-header exports.
const detectScanLimit = 200

// Detector classifies tables. It owns its catalog; substitute one via
// NewDetector to test alternate vocabularies.
type Detector struct {
	catalog *Catalog
}

// NewDetector returns a detector over the given catalog.
func NewDetector(catalog *Catalog) *Detector {
	return &Detector{catalog: catalog}
}

// IsSectioned reports whether any of the first rows (up to the scan limit)
// is a recognizable section marker row.
func (d *Detector) IsSectioned(rows [][]string) bool {
	limit := len(rows)
	if limit > detectScanLimit {
		limit = detectScanLimit
	}
	for _, row := range rows[:limit] {
		if _, ok := d.catalog.MarkerTarget(row); ok {
			return true
		}
	}
	return false
}

// IsSingleHeader reports whether the header row carries at least one
// "Section.Field" column name. The section prefix is not checked against
// the catalog: unknown prefixes parse into sections the mapper ignores.
func (d *Detector) IsSingleHeader(headerRow []string) bool {
	for _, cell := range headerRow {
		prefix, field, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(cell, "\uFEFF")), ".")
		if ok && strings.TrimSpace(prefix) != "" && strings.TrimSpace(field) != "" {
			return true
		}
	}
	return false
}

// Detect classifies the table, trying sectioned first.
func (d *Detector) Detect(t *table.Table) (Format, error) {
	if d.IsSectioned(t.Rows) {
		return FormatSectioned, nil
	}
	if d.IsSingleHeader(t.HeaderRow()) {
		return FormatSingleHeader, nil
	}
	return FormatUnknown, jpk.Errf("detect.unrecognized",
		"input is neither a sectioned file nor a Section.Field single-header file: %s", t.SourceFile)
}
