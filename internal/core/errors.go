package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatValidation  ErrorCategory = "validation"  // Invalid input
	ErrCatNotFound    ErrorCategory = "not_found"   // Resource not found
	ErrCatExecution   ErrorCategory = "execution"   // Statement failed
	ErrCatUnavailable ErrorCategory = "unavailable" // Database unreachable
	ErrCatConfig      ErrorCategory = "config"      // Bad configuration
	ErrCatInternal    ErrorCategory = "internal"    // Unexpected internal error
)

// DomainError represents a structured error from the domain layer.
type DomainError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Retryable bool
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches a target.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause wraps an underlying error.
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds contextual information.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ErrValidation creates a validation error.
func ErrValidation(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatValidation,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) *DomainError {
	return &DomainError{
		Category:  ErrCatNotFound,
		Code:      "NOT_FOUND",
		Message:   fmt.Sprintf("%s not found: %s", resource, id),
		Retryable: false,
	}
}

// ErrExecution creates a statement execution error.
func ErrExecution(code, message string) *DomainError {
	return &DomainError{
		Category:  ErrCatExecution,
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// ErrUnavailable creates an error for an unreachable database. Connection
// failures are worth retrying.
func ErrUnavailable(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatUnavailable,
		Code:      CodeConnectFailed,
		Message:   message,
		Retryable: true,
	}
}

// ErrConfig creates a configuration error.
func ErrConfig(message string) *DomainError {
	return &DomainError{
		Category:  ErrCatConfig,
		Code:      CodeInvalidConfig,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Retryable
	}
	return false
}

// GetCategory extracts the error category.
func GetCategory(err error) ErrorCategory {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Category
	}
	return ErrCatInternal
}

// IsCategory checks if an error belongs to a category.
func IsCategory(err error, cat ErrorCategory) bool {
	return GetCategory(err) == cat
}

// Predefined error codes
const (
	CodeEmptyDocument     = "EMPTY_DOCUMENT"
	CodeUnknownStatement  = "UNKNOWN_STATEMENT"
	CodeStatementFailed   = "STATEMENT_FAILED"
	CodeConnectFailed     = "CONNECT_FAILED"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeUnsupportedDriver = "UNSUPPORTED_DRIVER"
)
