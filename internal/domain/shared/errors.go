package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a specific error
// with a custom message still matches its sentinel via errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by every bounded context
const (
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyExists     = "ALREADY_EXISTS"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidState      = "INVALID_STATE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists     = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized      = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden         = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState      = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError(CodeInsufficientStock, "Quantity cannot go below zero.")
)

// NotFoundf builds a NOT_FOUND error with a formatted message
func NotFoundf(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// InvalidInputf builds an INVALID_INPUT error with a formatted message
func InvalidInputf(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// AlreadyExistsf builds an ALREADY_EXISTS error with a formatted message
func AlreadyExistsf(format string, args ...any) *DomainError {
	return NewDomainError(CodeAlreadyExists, fmt.Sprintf(format, args...))
}

// Forbiddenf builds a FORBIDDEN error with a formatted message
func Forbiddenf(format string, args ...any) *DomainError {
	return NewDomainError(CodeForbidden, fmt.Sprintf(format, args...))
}
