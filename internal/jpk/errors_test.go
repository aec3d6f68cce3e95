package jpk

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrf(t *testing.T) {
	err := Errf("parse.no_sections", "no sections in %s", "f.csv")
	assert.Equal(t, "parse.no_sections: no sections in f.csv", err.Error())
	assert.Equal(t, "parse.no_sections", CodeOf(err))
}

func TestCodeOfWrapped(t *testing.T) {
	inner := Errf("xsd.not_found", "missing schema")
	wrapped := fmt.Errorf("validation step: %w", inner)
	assert.Equal(t, "xsd.not_found", CodeOf(wrapped))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
