// Package errors provides error types and handling for report listing operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a listing error with context about the operation that failed.
// It carries a Kind sentinel for classification and wraps the underlying cause.
type Error struct {
	// Op is the operation that failed (e.g., "listAll", "listGroupedReports")
	Op string

	// Prefix is the store prefix being listed (if applicable)
	Prefix string

	// Kind is the sentinel classifying the failure (ErrListFailed, ErrCancelled, ...)
	Kind error

	// Err is the underlying error from the store or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	kind := "error"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	if e.Prefix != "" {
		return fmt.Sprintf("reports.%s %s: %s: %v", e.Op, e.Prefix, kind, e.Err)
	}
	return fmt.Sprintf("reports.%s: %s: %v", e.Op, kind, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// WithPrefix adds prefix context to an existing error.
func (e *Error) WithPrefix(prefix string) *Error {
	e.Prefix = prefix
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	if e.Err == nil {
		e.Err = errors.New(message)
		return e
	}
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error of the given kind.
func NewError(op string, kind, err error) *Error {
	return &Error{
		Op:   op,
		Kind: kind,
		Err:  err,
	}
}

// NewListError creates an ErrListFailed error for a prefix.
func NewListError(op, prefix string, err error) *Error {
	return &Error{
		Op:     op,
		Prefix: prefix,
		Kind:   ErrListFailed,
		Err:    err,
	}
}

// NewCancelledError creates an ErrCancelled error for a prefix.
func NewCancelledError(op, prefix string, err error) *Error {
	return &Error{
		Op:     op,
		Prefix: prefix,
		Kind:   ErrCancelled,
		Err:    err,
	}
}

// Sentinel errors for listing failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrListFailed indicates that a store listing call failed
	ErrListFailed = errors.New("list failed")

	// ErrCancelled indicates that the listing was aborted through its context
	ErrCancelled = errors.New("cancelled")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccessDenied indicates that the store refused access to the prefix
	ErrAccessDenied = errors.New("access denied")

	// ErrBucketNotFound indicates that the configured bucket does not exist
	ErrBucketNotFound = errors.New("bucket not found")
)

// IsListFailed checks if an error indicates a failed store listing.
func IsListFailed(err error) bool {
	return errors.Is(err, ErrListFailed)
}

// IsCancelled checks if an error indicates a cancelled listing.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}
