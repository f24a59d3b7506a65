package errors

import "errors"

// ErrorCode represents a specific listing error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Listing errors.

	// CodeListFailed indicates a store listing call failed.
	CodeListFailed ErrorCode = "LIST_FAILED"

	// CodeCancelled indicates the listing was aborted by its caller.
	CodeCancelled ErrorCode = "CANCELLED"

	// Resource errors.

	// CodeNotFound indicates a requested scope or bucket does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Permission errors.

	// CodeForbidden indicates the store refused access to the prefix.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// CodeOf classifies err into an ErrorCode.
// More specific store conditions take precedence over the generic list failure.
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCancelled):
		return CodeCancelled
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrAccessDenied):
		return CodeForbidden
	case errors.Is(err, ErrBucketNotFound):
		return CodeNotFound
	case errors.Is(err, ErrListFailed):
		return CodeListFailed
	default:
		return CodeInternal
	}
}
