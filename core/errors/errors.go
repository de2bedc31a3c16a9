// Package errors provides standardized error types and helpers for the CedarLaw codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrSyntax indicates an unparseable citation string
	ErrSyntax = errors.New("citation syntax error")
	// ErrResolution indicates a reference could not be resolved to a citation
	ErrResolution = errors.New("reference resolution error")
	// ErrStorage indicates a storage transaction failure
	ErrStorage = errors.New("storage write error")
	// ErrUnavailable indicates no converter is registered for a key
	ErrUnavailable = errors.New("converter unavailable")
)

// CitationSyntaxError reports a citation string no grammar could parse.
// It is always surfaced to the caller; the algebra never guesses.
type CitationSyntaxError struct {
	Input   string // Raw citation string that failed to parse
	Grammar string // Grammar that was attempted, empty if all were tried
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *CitationSyntaxError) Error() string {
	if e.Grammar != "" {
		return fmt.Sprintf("cannot parse citation %q as %s: %s", e.Input, e.Grammar, e.Message)
	}
	return fmt.Sprintf("cannot parse citation %q: %s", e.Input, e.Message)
}

func (e *CitationSyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSyntax, e.Err}
	}
	return []error{ErrSyntax}
}

// RefResolutionError reports a discovered reference that could not be mapped
// to a valid citation. Ingestion records these and continues; the reference
// is simply omitted from the outgoing edge set.
type RefResolutionError struct {
	Raw     string // Raw reference text as found in the source
	Message string // Why resolution failed
	Err     error  // Underlying error, if any
}

func (e *RefResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve reference %q: %s", e.Raw, e.Message)
}

// Unwrap exposes both the sentinel and the cause: errors.Is matches
// ErrResolution even when an underlying parse error is attached.
func (e *RefResolutionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrResolution, e.Err}
	}
	return []error{ErrResolution}
}

// StorageWriteError reports a failed store transaction. The offending call
// rolls back fully; previously committed sections are untouched.
type StorageWriteError struct {
	Key       string // Section storage key involved
	Operation string // Operation being performed (e.g., "store", "purge", "rebuild")
	Err       error  // Underlying error
}

func (e *StorageWriteError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s failed for %s: %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Operation, e.Err)
}

func (e *StorageWriteError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrStorage, e.Err}
	}
	return []error{ErrStorage}
}

// ConverterUnavailableError reports a registry miss for a
// (jurisdiction, source format) pair. There is no silent fallback.
type ConverterUnavailableError struct {
	Jurisdiction string
	Format       string
}

func (e *ConverterUnavailableError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("no converter registered for %s:%s", e.Jurisdiction, e.Format)
	}
	return fmt.Sprintf("no converter registered for jurisdiction %s", e.Jurisdiction)
}

func (e *ConverterUnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NotFoundError represents a resource not found error with context.
// Section lookups return nil instead; this type is for resources where
// absence is exceptional (snapshots, registry entries).
type NotFoundError struct {
	Resource string // Type of resource (e.g., "snapshot", "jurisdiction")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNotFound, e.Err}
	}
	return []error{ErrNotFound}
}

// Helper functions for creating common errors

// NewSyntax creates a CitationSyntaxError
func NewSyntax(input, message string) *CitationSyntaxError {
	return &CitationSyntaxError{
		Input:   input,
		Message: message,
	}
}

// NewResolution creates a RefResolutionError
func NewResolution(raw, message string) *RefResolutionError {
	return &RefResolutionError{
		Raw:     raw,
		Message: message,
	}
}

// NewStorage creates a StorageWriteError
func NewStorage(operation, key string, err error) *StorageWriteError {
	return &StorageWriteError{
		Key:       key,
		Operation: operation,
		Err:       err,
	}
}

// NewUnavailable creates a ConverterUnavailableError
func NewUnavailable(jurisdiction, format string) *ConverterUnavailableError {
	return &ConverterUnavailableError{
		Jurisdiction: jurisdiction,
		Format:       format,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
