// Package errors provides structured error handling for WebStash.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Source provider errors
//   - 2XX: Store and persistence errors
//   - 3XX: Query errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategorySource indicates a raw-data provider error.
	CategorySource Category = "SOURCE"
	// CategoryStore indicates index store and persistence errors.
	CategoryStore Category = "STORE"
	// CategoryQuery indicates query execution errors.
	CategoryQuery Category = "QUERY"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityError indicates the operation failed but the engine continues.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Source errors (100-199). A failed provider degrades to zero items.
	ErrCodeSourceFetch       = "ERR_101_SOURCE_FETCH"
	ErrCodeSourceUnavailable = "ERR_102_SOURCE_UNAVAILABLE"

	// Store errors (200-299).
	ErrCodeIndexCorrupt   = "ERR_201_INDEX_CORRUPT"
	ErrCodePersistence    = "ERR_202_PERSISTENCE"
	ErrCodeStorageTimeout = "ERR_203_STORAGE_TIMEOUT"
	ErrCodeBlobDecode     = "ERR_204_BLOB_DECODE"

	// Query errors (300-399).
	ErrCodeQueryFailed = "ERR_301_QUERY_FAILED"
	ErrCodeQueryEmpty  = "ERR_302_QUERY_EMPTY"

	// Validation errors (400-499). The only errors surfaced to callers.
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidLimit = "ERR_402_INVALID_LIMIT"

	// Internal errors (500-599).
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts the category from an error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategorySource
	case '2':
		return CategoryStore
	case '3':
		return CategoryQuery
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on the error code.
// Contained errors (everything the engine absorbs into degraded results)
// get warning severity; validation errors surface to callers as errors.
func severityFromCode(code string) Severity {
	switch categoryFromCode(code) {
	case CategoryValidation, CategoryInternal:
		return SeverityError
	default:
		return SeverityWarning
	}
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeSourceFetch, ErrCodeStorageTimeout, ErrCodePersistence:
		return true
	default:
		return false
	}
}
