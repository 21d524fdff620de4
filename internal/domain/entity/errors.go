package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested dataset was not found
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceRead indicates that a backing store could not be read
	ErrSourceRead = errors.New("source read failed")

	// ErrNormalization indicates that a field could not be normalized
	ErrNormalization = errors.New("normalization failed")
)

// ValidationError represents a validation error with detailed field information.
// DatasetID and Op are filled in when the failing input belongs to a dataset request.
type ValidationError struct {
	Field     string
	Message   string
	DatasetID string
	Op        string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: validation error on field '%s': %s", e.Op, e.DatasetID, e.Field, e.Message)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError is returned when a dataset id is not known to the catalog.
type NotFoundError struct {
	DatasetID string
	Op        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: dataset not found", e.Op, e.DatasetID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SourceReadError wraps an I/O or decode failure of a backing store.
// It is never converted into an empty page.
type SourceReadError struct {
	DatasetID string
	Op        string
	Err       error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("%s %q: source read failed: %v", e.Op, e.DatasetID, e.Err)
}

// Unwrap returns the underlying driver or decoder error.
func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSourceRead.
func (e *SourceReadError) Is(target error) bool {
	return target == ErrSourceRead
}

// NormalizationError is returned when a markup field cannot be parsed or rendered.
// Callers fall back to the original field value.
type NormalizationError struct {
	Field string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrNormalization.
func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// NewSourceReadError builds a SourceReadError, or returns nil when err is nil.
func NewSourceReadError(datasetID, op string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceReadError{DatasetID: datasetID, Op: op, Err: err}
}
