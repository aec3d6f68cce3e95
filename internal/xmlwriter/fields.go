// =============================================================================
// JPK V7M Converter - XML Field Rendering
// =============================================================================
//
// Low-level element emission shared by the document writer. Each helper
// renders one leaf element into the buffer, or nothing when the value is
// absent, so the writer reads as a declaration of the schema order.
//
// Field lists are spelled out explicitly per record type. The wire names
// (K_10, P_38, ...) live here and only here.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)

// escapeXML replaces the five characters with XML meaning. Everything else
// passes through untouched.
func escapeXML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeElement emits <name>escaped text</name> on its own indented line.
func writeElement(buf *bytes.Buffer, indent int, name, text string) {
	buf.WriteString(strings.Repeat("\t", indent))
	buf.WriteString("<")
	buf.WriteString(name)
	buf.WriteString(">")
	buf.WriteString(escapeXML(text))
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteString(">\n")
}

// writeText emits the element only when the value is non-blank.
func writeText(buf *bytes.Buffer, indent int, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	writeElement(buf, indent, name, value)
}

func writeInt(buf *bytes.Buffer, indent int, name string, value int) {
	writeElement(buf, indent, name, strconv.Itoa(value))
}

// writeDecimal emits a required monetary element.
func writeDecimal(buf *bytes.Buffer, indent int, name string, value decimal.Decimal) {
	writeElement(buf, indent, name, value.String())
}

// writeOptDecimal skips nil values entirely.
func writeOptDecimal(buf *bytes.Buffer, indent int, name string, value *decimal.Decimal) {
	if value == nil {
		return
	}
	writeElement(buf, indent, name, value.String())
}

// writeFlag renders true as "1" and false as "0"; nil is omitted.
func writeFlag(buf *bytes.Buffer, indent int, name string, value *bool) {
	if value == nil {
		return
	}
	if *value {
		writeElement(buf, indent, name, "1")
	} else {
		writeElement(buf, indent, name, "0")
	}
}

func writeDate(buf *bytes.Buffer, indent int, name string, value *time.Time) {
	if value == nil {
		return
	}
	writeElement(buf, indent, name, value.Format(dateLayout))
}

func writeTimestamp(buf *bytes.Buffer, indent int, name string, value time.Time) {
	writeElement(buf, indent, name, value.Format(timestampLayout))
}

func openTag(buf *bytes.Buffer, indent int, name string) {
	buf.WriteString(strings.Repeat("\t", indent))
	buf.WriteString("<")
	buf.WriteString(name)
	buf.WriteString(">\n")
}

func openTagAttr(buf *bytes.Buffer, indent int, name, attr, value string) {
	buf.WriteString(strings.Repeat("\t", indent))
	buf.WriteString("<")
	buf.WriteString(name)
	buf.WriteString(" ")
	buf.WriteString(attr)
	buf.WriteString(`="`)
	buf.WriteString(escapeXML(value))
	buf.WriteString(`">` + "\n")
}

func closeTag(buf *bytes.Buffer, indent int, name string) {
	buf.WriteString(strings.Repeat("\t", indent))
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteString(">\n")
}
