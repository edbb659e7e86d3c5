package wordx

import (
	"fmt"
	"strings"
)

// ParseError represents an error while parsing XML or a package part.
type ParseError struct {
	Message string
	Token   string
	Cause   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Token != "" && e.Cause != nil:
		return fmt.Sprintf("parse error near '%s': %s: %v", e.Token, e.Message, e.Cause)
	case e.Token != "":
		return fmt.Sprintf("parse error near '%s': %s", e.Token, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// DocumentError represents an error during extract or build of a package
// part.
type DocumentError struct {
	Operation string
	Part      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Part != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Part, e.Cause)
	} else if e.Part != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Part)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error.
func NewDocumentError(operation, part string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Part:      part,
		Cause:     cause,
	}
}

// ValidationIssue represents a single model validation problem.
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents one or more model validation issues.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}
	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}
	parts := []string{fmt.Sprintf("%d validation issues:", len(e.Issues))}
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// IsParseError checks if an error is a parse error.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// IsDocumentError checks if an error is a document error.
func IsDocumentError(err error) bool {
	_, ok := err.(*DocumentError)
	return ok
}
