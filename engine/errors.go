package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// ERRORS — Structurally invalid input only
// ============================================================================
// An empty subset is never an error: every analysis documents its empty output.
// ============================================================================

var (
	// ErrInvalidKey is returned when an analysis references a field that is not
	// part of the view's schema.
	ErrInvalidKey = errors.New("invalid key")

	// ErrMalformedRecord is returned by loaders when a raw field is missing or
	// not a non-negative integer.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidArgument is returned for out-of-range analysis parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidKeyError names the offending field and the role it was expected in.
type InvalidKeyError struct {
	Field string
	Kind  string // "dimension", "measure", "sort field"
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: %s %q is not in the schema", e.Kind, e.Field)
}

func (e *InvalidKeyError) Unwrap() error { return ErrInvalidKey }

// MalformedRecordError locates a bad cell in the input (Line is 1-based and
// counts the header).
type MalformedRecordError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed record at line %d, column %q", e.Line, e.Column)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedRecord}
	}
	return []error{ErrMalformedRecord, e.Err}
}
