package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes form a closed set: every recoverable failure in the service
// maps to exactly one of these.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMalformedToken     = "MALFORMED_TOKEN"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeHashingError       = "HASHING_ERROR"
	CodeInvalidTTL         = "INVALID_TTL"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

func NewMalformedToken() error {
	return NewDomainError(CodeMalformedToken, "malformed token", http.StatusUnauthorized, nil)
}

func NewInvalidSignature() error {
	return NewDomainError(CodeInvalidSignature, "invalid token signature", http.StatusUnauthorized, nil)
}

func NewTokenExpired() error {
	return NewDomainError(CodeTokenExpired, "token expired", http.StatusUnauthorized, nil)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewHashingError(err error) error {
	return &DomainError{
		Code:       CodeHashingError,
		Message:    "password hashing failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInvalidTTL(message string) error {
	return NewDomainError(CodeInvalidTTL, message, http.StatusInternalServerError, nil)
}

func NewStoreUnavailable(err error) error {
	return &DomainError{
		Code:       CodeStoreUnavailable,
		Message:    "store unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewRateLimited(message string) error {
	return NewDomainError(CodeRateLimited, message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf extracts the taxonomy code, or INTERNAL_ERROR for unclassified errors.
func CodeOf(err error) string {
	return ToDomainError(err).Code
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
