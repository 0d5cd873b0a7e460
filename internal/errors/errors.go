// Package errors provides custom error types for the fintrack API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrWrongPassword      = &AppError{Code: "WRONG_PASSWORD", Message: "Incorrect current password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Account errors.
var (
	ErrAccountNotFound        = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAccountName   = &AppError{Code: "DUPLICATE_ACCOUNT_NAME", Message: "An account with this name already exists", StatusCode: http.StatusConflict}
	ErrAccountHasTransactions = &AppError{Code: "ACCOUNT_HAS_TRANSACTIONS", Message: "Cannot delete account with existing transactions", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Cannot delete category because it is currently used in transactions", StatusCode: http.StatusConflict}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name and type already exists", StatusCode: http.StatusConflict}
	ErrDefaultCategory   = &AppError{Code: "DEFAULT_CATEGORY_IMMUTABLE", Message: "Default categories cannot be modified or deleted", StatusCode: http.StatusForbidden}
)

// Transaction errors.
var (
	ErrTransactionNotFound  = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrCategoryTypeMismatch = &AppError{Code: "CATEGORY_TYPE_MISMATCH", Message: "Category type does not match transaction type", StatusCode: http.StatusBadRequest}
)

// Import errors.
var (
	ErrMissingColumns = &AppError{Code: "MISSING_COLUMNS", Message: "Missing required columns in CSV", StatusCode: http.StatusBadRequest}
	ErrEmptyFile      = &AppError{Code: "EMPTY_FILE", Message: "No CSV file uploaded", StatusCode: http.StatusBadRequest}
	ErrMalformedCSV   = &AppError{Code: "MALFORMED_CSV", Message: "Error parsing CSV file", StatusCode: http.StatusBadRequest}
)

// Export errors.
var (
	ErrNothingToExport = &AppError{Code: "NOTHING_TO_EXPORT", Message: "No records found to export", StatusCode: http.StatusNotFound}
)
