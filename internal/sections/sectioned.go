// =============================================================================
// JPK V7M Converter - Sectioned File Parser
// =============================================================================
//
// One forward pass over the table rows, no backtracking. The parser is a
// small state machine:
//
//   SCANNING        skip blanks; a marker row opens a section.
//   HEADER EXPECTED skip blanks; the first non-blank row is the column
//                   header for the open section.
//   READING ROWS    zip each data row with the header by position. A blank
//                   row closes the section (consumed); the next marker row
//                   closes it too (not consumed, reprocessed as SCANNING).
//
// End of input flushes whatever section is open, including one that never
// got past HEADER EXPECTED - that section is registered with zero records.
//
// =============================================================================

package sections

import (
	"strings"

	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/table"
)

// SectionedParser parses marker-row sectioned tables.
type SectionedParser struct {
	catalog *Catalog
}

// NewSectionedParser returns a parser over the given catalog.
func NewSectionedParser(catalog *Catalog) *SectionedParser {
	return &SectionedParser{catalog: catalog}
}

// Parse runs the state machine over the whole table.
func (p *SectionedParser) Parse(t *table.Table) (*ParsedSections, error) {
	rows := t.Rows
	parsed := NewParsedSections()

	i := 0
	for i < len(rows) {
		// SCANNING: find the next marker row.
		row := table.TrimRow(rows[i])
		if table.IsRowEmpty(row) {
			i++
			continue
		}

		section, ok := p.catalog.MarkerTarget(row)
		if !ok {
			// Stray row outside any section; ignore it.
			i++
			continue
		}
		parsed.Ensure(section)
		i++

		// HEADER EXPECTED: the next non-blank row names the columns.
		for i < len(rows) && table.IsRowEmpty(rows[i]) {
			i++
		}
		if i >= len(rows) {
			// Marker at end of input: section stays registered, empty.
			break
		}
		header := table.TrimRow(rows[i])
		i++

		// READING ROWS.
		for i < len(rows) {
			data := table.TrimRow(rows[i])
			if table.IsRowEmpty(data) {
				i++ // blank terminates the section and is consumed
				break
			}
			if _, isMarker := p.catalog.MarkerTarget(data); isMarker {
				break // next section starts here; reprocess in SCANNING
			}

			parsed.Append(section, zipRecord(header, data))
			i++
		}
	}

	if parsed.Len() == 0 {
		return nil, jpk.Errf("parse.no_sections", "no sections found in %s", t.SourceFile)
	}
	return parsed, nil
}

// zipRecord pairs header cells with data cells by position. Blank header
// cells never produce a field; a duplicate header name keeps the rightmost
// column's value (plain left-to-right assignment); data cells past the
// header width are dropped and header cells past the data width map to "".
func zipRecord(header, data []string) Record {
	rec := make(Record, len(header))
	for c, key := range header {
		if strings.TrimSpace(key) == "" {
			continue
		}
		if c < len(data) {
			rec[key] = data[c]
		} else {
			rec[key] = ""
		}
	}
	return rec
}
