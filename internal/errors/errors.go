package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped variants compare equal to
// their sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Account errors
	ErrAccountNotFound = NewDomainError("ACCOUNT_NOT_FOUND", "account not found")
	ErrEmailExists     = NewDomainError("EMAIL_EXISTS", "email already exists")

	// Credential errors. Unknown email and wrong password both map to
	// INVALID_CREDENTIALS so callers cannot enumerate accounts.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")

	// Two-factor errors
	ErrInvalidOrExpiredCode    = NewDomainError("INVALID_OR_EXPIRED_CODE", "invalid or expired verification code")
	ErrInvalidVerificationCode = NewDomainError("INVALID_VERIFICATION_CODE", "invalid verification code")
	ErrTwoFactorNotConfigured  = NewDomainError("TWO_FACTOR_NOT_CONFIGURED", "two-factor authentication is not configured")

	// Session token errors
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidToken = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrTokenExpired = NewDomainError("TOKEN_EXPIRED", "token has expired")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")
	ErrWeakPassword = NewDomainError("WEAK_PASSWORD", "password does not meet the minimum strength policy")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "WEAK_PASSWORD":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN",
		"TOKEN_EXPIRED", "INVALID_OR_EXPIRED_CODE", "INVALID_VERIFICATION_CODE",
		"TWO_FACTOR_NOT_CONFIGURED":
		return http.StatusUnauthorized

	// 404 Not Found
	case "ACCOUNT_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
