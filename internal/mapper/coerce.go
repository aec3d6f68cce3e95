// =============================================================================
// JPK V7M Converter - Field Coercion
// =============================================================================
//
// Uniform coercion rules applied when turning a field-record's text values
// into typed bundle fields. The policy is deliberately lenient: a value the
// file got wrong resolves to a documented default instead of failing the
// whole conversion. Structural problems (missing sections, unresolvable
// filer variant) are real errors; cell-level noise is not. Downstream XSD
// validation still catches anything the schema cannot accept.
//
//   string    trim; empty means absent; optional fallback keys
//   int       invariant parse; absent/garbage -> 0
//   decimal   "." or "," separator; absent/garbage -> nil (or 0 for ctrl)
//   bool      TAK/TRUE/T/1/YES vs NIE/FALSE/N/0/NO; anything else -> nil
//   date      strict yyyy-MM-dd first, then invariant general layouts
//   timestamp invariant date-time assumed UTC; garbage -> "now"
//
// =============================================================================

package mapper

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksiegowy/jpk-vat7-converter/internal/sections"
)

// str returns the trimmed field value, consulting fallback keys when the
// primary key is empty or absent.
func str(rec sections.Record, key string, fallbacks ...string) string {
	if v := strings.TrimSpace(rec.Get(key)); v != "" {
		return v
	}
	for _, fb := range fallbacks {
		if v := strings.TrimSpace(rec.Get(fb)); v != "" {
			return v
		}
	}
	return ""
}

// intOrZero parses an integer field, defaulting to 0.
func intOrZero(rec sections.Record, key string, fallbacks ...string) int {
	v := str(rec, key, fallbacks...)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// decOrNil parses a nullable decimal field. Both "." and "," are accepted
// as the decimal separator; anything unparseable is nil, never 0.
func decOrNil(rec sections.Record, key string) *decimal.Decimal {
	v := strings.TrimSpace(rec.Get(key))
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil {
		return nil
	}
	return &d
}

// decOrZero parses a decimal field for the non-nullable ctrl records,
// defaulting to 0.
func decOrZero(rec sections.Record, key string) decimal.Decimal {
	if d := decOrNil(rec, key); d != nil {
		return *d
	}
	return decimal.Zero
}

// Boolean vocabularies, matched case-insensitively.
var (
	truthy = map[string]struct{}{"1": {}, "T": {}, "TRUE": {}, "TAK": {}, "YES": {}}
	falsy  = map[string]struct{}{"0": {}, "N": {}, "FALSE": {}, "NIE": {}, "NO": {}}
)

// boolOrNil parses a nullable boolean flag. Values outside both
// vocabularies, including the empty string, are nil.
func boolOrNil(rec sections.Record, key string) *bool {
	v := strings.ToUpper(strings.TrimSpace(rec.Get(key)))
	if _, ok := truthy[v]; ok {
		b := true
		return &b
	}
	if _, ok := falsy[v]; ok {
		b := false
		return &b
	}
	return nil
}

// generalDateLayouts are tried, in order, after the strict layout fails.
// All are locale-invariant; no month names.
var generalDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2006/01/02",
	"02/01/2006",
}

// dateOrNil parses a nullable date field: strict yyyy-MM-dd first, then
// the general layouts. Unparseable values are nil.
func dateOrNil(rec sections.Record, key string) *time.Time {
	v := strings.TrimSpace(rec.Get(key))
	if v == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t
	}
	for _, layout := range generalDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}

// timestampLayouts for the generation timestamp; zoneless values are
// assumed UTC (time.Parse already yields UTC for them).
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeOrNow parses a timestamp field, falling back to now() rather than
// erroring. The fallback is policy: a missing generation timestamp means
// "generated right now".
func timeOrNow(rec sections.Record, key string, now func() time.Time) time.Time {
	v := strings.TrimSpace(rec.Get(key))
	if v != "" {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	}
	return now().UTC()
}
