package wordx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorFormatting(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &ParseError{Message: "malformed XML", Token: "tbl", Cause: cause}
	assert.Contains(t, err.Error(), "tbl")
	assert.Contains(t, err.Error(), "malformed XML")
	assert.ErrorIs(t, err, cause)
}

func TestDocumentErrorFormatting(t *testing.T) {
	cause := errors.New("no such part")
	err := NewDocumentError("extract", "word/styles.xml", cause)
	assert.Contains(t, err.Error(), "extract")
	assert.Contains(t, err.Error(), "word/styles.xml")
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorFormatting(t *testing.T) {
	one := &ValidationError{Issues: []ValidationIssue{
		{Field: "RowSpan", Message: "must be 0, 1 or nil"},
	}}
	assert.Contains(t, one.Error(), "RowSpan")

	many := &ValidationError{Issues: []ValidationIssue{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	assert.Contains(t, many.Error(), "2 validation issues")
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsParseError(&ParseError{Message: "m"}))
	assert.False(t, IsParseError(fmt.Errorf("plain")))
	assert.True(t, IsDocumentError(NewDocumentError("build", "", nil)))
	assert.False(t, IsDocumentError(&ParseError{Message: "m"}))
}
