// Package config provides parsing and validation of filter-run
// documents (JSON/YAML).
package config

import (
	"fmt"
	"strings"
)

// Error type constants for categorizing parse errors.
const (
	ErrorTypeIO     = "io"
	ErrorTypeSyntax = "syntax"
	ErrorTypeFormat = "format"
)

// ParseResult contains the result of parsing a run document.
type ParseResult struct {
	// Data contains the parsed document as a map.
	Data map[string]interface{}
	// Errors contains any parsing errors encountered.
	Errors []ParseError
	// FilePath is the path to the parsed file (empty if parsed from string).
	FilePath string
	// Format indicates the detected format (json, yaml).
	Format string
}

// IsValid returns true if no parsing errors occurred.
func (r *ParseResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ParseError represents a parsing error with location information.
type ParseError struct {
	// Path is the file path where the error occurred.
	Path string
	// Line is the line number (1-based, 0 if unknown).
	Line int
	// Column is the column number (1-based, 0 if unknown).
	Column int
	// Offset is the byte offset in the file (0 if unknown).
	Offset int64
	// Message is the error message.
	Message string
	// Type categorizes the error (syntax, io, format).
	Type string
}

func (e ParseError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&sb, ", column %d", e.Column)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	return sb.String()
}

// ValidationResult contains the result of validating a run document
// against the schema.
type ValidationResult struct {
	// Valid indicates whether the document is valid.
	Valid bool
	// Errors contains validation errors.
	Errors []ValidationError
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	// Path is the JSON path where the error occurred (e.g. "/source/type").
	Path string
	// Type is the error type (required, type, enum, ...).
	Type string
	// Message is the error message.
	Message string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Result contains the combined result of parsing and validation.
type Result struct {
	// Data contains the parsed document.
	Data map[string]interface{}
	// ParseErrors contains parsing errors.
	ParseErrors []ParseError
	// ValidationErrors contains validation errors.
	ValidationErrors []ValidationError
	// FilePath is the path to the document.
	FilePath string
	// Format is the detected format (json, yaml).
	Format string
}

// IsValid returns true if no errors occurred.
func (r *Result) IsValid() bool {
	return len(r.ParseErrors) == 0 && len(r.ValidationErrors) == 0
}

// AllErrors returns parse and validation errors as one slice.
func (r *Result) AllErrors() []error {
	errs := make([]error, 0, len(r.ParseErrors)+len(r.ValidationErrors))
	for _, e := range r.ParseErrors {
		errs = append(errs, e)
	}
	for _, e := range r.ValidationErrors {
		errs = append(errs, e)
	}
	return errs
}
