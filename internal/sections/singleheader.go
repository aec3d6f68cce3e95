// =============================================================================
// JPK V7M Converter - Single-Header File Parser
// =============================================================================
//
// The flat layout: one header row whose column names carry the section as a
// "Section.Field" prefix, then data rows. Data row r contributes the record
// at position r-1 of every section it has columns for, and record lists are
// padded with empty records so that position r-1 of every section aligns to
// the same physical input row.
//
// =============================================================================

package sections

import (
	"strings"

	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
	"github.com/ksiegowy/jpk-vat7-converter/internal/table"
)

// headerColumn is one recognized "Section.Field" column.
type headerColumn struct {
	col     int
	section string
	field   string
}

// SingleHeaderParser parses flat Section.Field tables.
type SingleHeaderParser struct{}

// NewSingleHeaderParser returns the parser. It carries no state; the
// constructor exists for symmetry with the sectioned parser.
func NewSingleHeaderParser() *SingleHeaderParser {
	return &SingleHeaderParser{}
}

// Parse splits the header into per-section columns and folds the data rows
// into aligned record lists.
func (p *SingleHeaderParser) Parse(t *table.Table) (*ParsedSections, error) {
	if t.RowCount() < 2 {
		return nil, jpk.Errf("parse.too_few_rows",
			"single-header file must contain a header row and at least one data row: %s", t.SourceFile)
	}

	columns := splitHeader(t.Rows[0])
	if len(columns) == 0 {
		return nil, jpk.Errf("parse.no_prefixed_headers",
			"no header cells in Section.Field format found in %s", t.SourceFile)
	}

	parsed := NewParsedSections()
	lists := make(map[string][]Record)
	var sectionOrder []string

	for r := 1; r < len(t.Rows); r++ {
		row := table.TrimRow(t.Rows[r])
		if table.IsRowEmpty(row) {
			continue
		}

		for _, hc := range columns {
			list, seen := lists[hc.section]
			if !seen {
				sectionOrder = append(sectionOrder, hc.section)
			}

			// Pad so that index r-1 exists; intervening blank input rows
			// become empty records, keeping row alignment across sections.
			for len(list) < r {
				list = append(list, Record{})
			}

			value := ""
			if hc.col < len(row) {
				value = row[hc.col]
			}
			list[r-1][hc.field] = value
			lists[hc.section] = list
		}
	}

	for _, section := range sectionOrder {
		parsed.Ensure(section)
		for _, rec := range lists[section] {
			parsed.Append(section, rec)
		}
	}

	return parsed, nil
}

// splitHeader extracts the recognized Section.Field columns, splitting each
// cell on the first dot. Cells without a dot, or with an empty side, are
// plain columns and are ignored.
func splitHeader(headerRow []string) []headerColumn {
	var columns []headerColumn
	for c, cell := range headerRow {
		cell = strings.TrimSpace(strings.TrimPrefix(cell, "\uFEFF"))
		section, field, ok := strings.Cut(cell, ".")
		section = strings.TrimSpace(section)
		field = strings.TrimSpace(field)
		if !ok || section == "" || field == "" {
			continue
		}
		columns = append(columns, headerColumn{col: c, section: section, field: field})
	}
	return columns
}
