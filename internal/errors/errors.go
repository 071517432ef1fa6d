// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrSourceNotFound = errors.New("source file not found")
	ErrFieldMissing   = errors.New("expected column missing from source")
	ErrEmptyDataset   = errors.New("dataset is empty")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrSnapshotExists = errors.New("snapshot already exists")
	ErrNoSnapshot     = errors.New("snapshot not found")
)

// LoadError represents a failure to load one of the CSV sources.
// It wraps ErrSourceNotFound when the underlying file is absent, which
// callers treat as non-fatal: the affected views are skipped with a
// descriptive message instead of crashing the process.
type LoadError struct {
	Source string // "sentiment" or "trades"
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s source %q: %v", e.Source, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(source, path string, err error) *LoadError {
	return &LoadError{Source: source, Path: path, Err: err}
}

// FieldError reports an analytic column absent from a source schema.
// Only the metrics depending on the column are affected; everything
// else proceeds.
type FieldError struct {
	Source string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s source has no %q column", e.Source, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrFieldMissing
}

// NewFieldError creates a new FieldError.
func NewFieldError(source, field string) *FieldError {
	return &FieldError{Source: source, Field: field}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
