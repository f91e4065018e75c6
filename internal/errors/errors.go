package errors

import (
	"fmt"
)

// StashError is the structured error type for WebStash.
// It carries a stable code, a category, and the underlying cause so the
// engine can decide between degrading and surfacing.
type StashError struct {
	// Code is the unique error code (e.g., "ERR_101_SOURCE_FETCH").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Source, Store, Query, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *StashError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StashError) Unwrap() error {
	return e.Cause
}

// Is matches StashErrors by code, enabling errors.Is.
func (e *StashError) Is(target error) bool {
	if t, ok := target.(*StashError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *StashError) WithDetail(key, value string) *StashError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new StashError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *StashError {
	return &StashError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a StashError from an existing error.
// The error's message becomes the StashError message.
func Wrap(code string, err error) *StashError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// SourceError creates a provider fetch error.
func SourceError(message string, cause error) *StashError {
	return New(ErrCodeSourceFetch, message, cause)
}

// CorruptIndexError creates an error for an unparseable persisted index blob.
func CorruptIndexError(message string, cause error) *StashError {
	return New(ErrCodeIndexCorrupt, message, cause)
}

// PersistenceError creates a write-back error.
func PersistenceError(message string, cause error) *StashError {
	return New(ErrCodePersistence, message, cause)
}

// QueryError creates a query execution error.
func QueryError(message string, cause error) *StashError {
	return New(ErrCodeQueryFailed, message, cause)
}

// ValidationError creates an invalid-argument error. These are the only
// errors the engine raises to callers.
func ValidationError(message string, cause error) *StashError {
	return New(ErrCodeInvalidInput, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if se, ok := err.(*StashError); ok {
		return se.Retryable
	}
	return false
}

// GetCode extracts the error code from a StashError.
// Returns empty string if not a StashError.
func GetCode(err error) string {
	if se, ok := err.(*StashError); ok {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a StashError.
// Returns empty string if not a StashError.
func GetCategory(err error) Category {
	if se, ok := err.(*StashError); ok {
		return se.Category
	}
	return ""
}
