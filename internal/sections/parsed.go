// =============================================================================
// JPK V7M Converter - Parsed Sections
// =============================================================================
//
// ParsedSections is the common output shape of both parsers: a mapping from
// section name to an ordered list of field-records. Section and field
// lookups are case-insensitive; record order within a section is input row
// order and is preserved.
//
// =============================================================================

package sections

import "strings"

// Record is one field-record: field name to text value. Field lookup is
// case-insensitive via Get; direct indexing is case-sensitive and only used
// when the caller wrote the keys itself.
type Record map[string]string

// Get returns the value for the field, matching the name case-insensitively.
// Missing fields return "".
func (r Record) Get(field string) string {
	if v, ok := r[field]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(k, field) {
			return v
		}
	}
	return ""
}

// Has reports whether the field exists, case-insensitively.
func (r Record) Has(field string) bool {
	if _, ok := r[field]; ok {
		return true
	}
	for k := range r {
		if strings.EqualFold(k, field) {
			return true
		}
	}
	return false
}

// ParsedSections maps section names to ordered record lists.
type ParsedSections struct {
	records map[string][]Record // keyed by upper-cased name
	names   map[string]string   // upper-cased name -> name as first seen
	order   []string            // first-seen section order
}

// NewParsedSections returns an empty container.
func NewParsedSections() *ParsedSections {
	return &ParsedSections{
		records: make(map[string][]Record),
		names:   make(map[string]string),
	}
}

// Ensure registers the section, with no records yet, if it is not present.
func (p *ParsedSections) Ensure(section string) {
	key := strings.ToUpper(section)
	if _, ok := p.names[key]; !ok {
		p.names[key] = section
		p.order = append(p.order, key)
		p.records[key] = nil
	}
}

// Append adds one record to the end of the section's list, registering the
// section if needed.
func (p *ParsedSections) Append(section string, rec Record) {
	p.Ensure(section)
	key := strings.ToUpper(section)
	p.records[key] = append(p.records[key], rec)
}

// Records returns the section's record list, or nil when the section is
// absent. The returned slice is the live backing list; callers must not
// mutate it.
func (p *ParsedSections) Records(section string) []Record {
	return p.records[strings.ToUpper(section)]
}

// Has reports whether the section was seen at all, even with zero records.
func (p *ParsedSections) Has(section string) bool {
	_, ok := p.names[strings.ToUpper(section)]
	return ok
}

// Len returns the number of distinct sections.
func (p *ParsedSections) Len() int {
	return len(p.order)
}

// Names returns the section names in first-seen order, each spelled as it
// first appeared in the input.
func (p *ParsedSections) Names() []string {
	names := make([]string, len(p.order))
	for i, key := range p.order {
		names[i] = p.names[key]
	}
	return names
}
