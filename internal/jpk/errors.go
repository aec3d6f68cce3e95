// =============================================================================
// JPK V7M Converter - Pipeline Errors
// =============================================================================
//
// Every failure the conversion pipeline can report carries a stable string
// code alongside the human-readable message. Callers branch on the code
// (e.g. to tell "unrecognized file" from "missing section") and show the
// message to the user. Codes are dot-separated by stage:
//
//   detect.*  - format detection
//   parse.*   - sectioned / single-header parsing
//   map.*     - section-to-bundle mapping
//   xml.*     - serialization
//   xsd.*     - schema validation boundary
//
// =============================================================================

package jpk

import (
	"errors"
	"fmt"
)

// Error is the failure value used across the conversion pipeline.
// It satisfies the error interface; the Code is stable API, the Message
// is free-form diagnostic text.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Errf builds an Error with a formatted message.
func Errf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the stable code from a pipeline error, unwrapping as
// needed. Returns "" for nil and for foreign error values.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
