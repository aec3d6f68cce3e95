// =============================================================================
// JPK V7M Converter - Schema Validation Boundary
// =============================================================================
//
// Post-serialization checks on the finished document. Full XSD validation
// needs libxml2-class machinery that we do not link; what this boundary
// checks instead, when a schema file is configured, is:
//
//   - the document is well-formed XML in its declared encoding,
//   - the root element and its namespace match the configuration,
//   - the configured XSD file actually exists and declares the same
//     target namespace.
//
// With no XSD path configured validation is disabled and succeeds outright.
// Schema findings are collected as diagnostics with Valid false; the caller
// decides what to do with the document. Only an unreadable or unparsable
// schema file is a hard error.
//
// =============================================================================

package validation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/ksiegowy/jpk-vat7-converter/internal/config"
	"github.com/ksiegowy/jpk-vat7-converter/internal/jpk"
)

// Result carries the validation outcome and any findings.
type Result struct {
	Valid       bool
	Diagnostics []string
}

// finding records a schema violation and marks the result invalid.
func (r *Result) finding(format string, args ...any) {
	r.Valid = false
	r.Diagnostics = append(r.Diagnostics, fmt.Sprintf(format, args...))
}

// Validator checks serialized documents against the configured schema.
type Validator struct {
	rootElement  string
	namespaceURI string
	xsdPath      string
}

// New returns a validator configured from the schema options.
func New(schema config.SchemaOptions) *Validator {
	return &Validator{
		rootElement:  schema.RootElement,
		namespaceURI: schema.NamespaceURI,
		xsdPath:      schema.XsdPath,
	}
}

// Validate checks the document. Schema violations land in the result's
// diagnostics with Valid false; the returned error is reserved for an
// unreadable or unparsable schema file.
func (v *Validator) Validate(doc []byte) (*Result, error) {
	res := &Result{Valid: true}

	if v.xsdPath == "" {
		// Validation disabled.
		return res, nil
	}

	xsd, err := os.ReadFile(v.xsdPath)
	if err != nil {
		return nil, jpk.Errf("xsd.not_found", "cannot read schema %s: %v", v.xsdPath, err)
	}
	target, err := schemaTargetNamespace(xsd)
	if err != nil {
		return nil, jpk.Errf("xsd.invalid", "cannot parse schema %s: %v", v.xsdPath, err)
	}

	root, err := wellFormedRoot(doc)
	if err != nil {
		res.finding("document is not well-formed XML: %v", err)
		return res, nil
	}
	if root.Local != v.rootElement {
		res.finding("root element is %q, expected %q", root.Local, v.rootElement)
	}
	if root.Space != v.namespaceURI {
		res.finding("root namespace is %q, expected %q", root.Space, v.namespaceURI)
	}

	if target == "" {
		res.Diagnostics = append(res.Diagnostics,
			fmt.Sprintf("schema %s declares no target namespace", v.xsdPath))
	} else if target != v.namespaceURI {
		res.finding("schema target namespace %q does not match document namespace %q",
			target, v.namespaceURI)
	}

	return res, nil
}

// wellFormedRoot tokenizes the whole document and returns the root
// element's name. Documents carrying a non-UTF-8 encoding declaration
// are decoded per that declaration.
func wellFormedRoot(doc []byte) (xml.Name, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.CharsetReader = charsetReader
	var root xml.Name
	seenRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return xml.Name{}, err
		}
		if start, ok := tok.(xml.StartElement); ok && !seenRoot {
			root = start.Name
			seenRoot = true
		}
	}
	if !seenRoot {
		return xml.Name{}, fmt.Errorf("no root element")
	}
	return root, nil
}

// charsetReader resolves encoding declarations through the IANA registry.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}

// schemaTargetNamespace pulls targetNamespace off the xs:schema element.
func schemaTargetNamespace(xsd []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(xsd))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", fmt.Errorf("no schema element found")
		}
		if err != nil {
			return "", err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !strings.EqualFold(start.Name.Local, "schema") {
			return "", fmt.Errorf("unexpected root element %q", start.Name.Local)
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "targetNamespace" {
				return attr.Value, nil
			}
		}
		return "", nil
	}
}
