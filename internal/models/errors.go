package models

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents request validation errors (400)
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypePolicy represents moderation-rejected prompts
	ErrorTypePolicy ErrorType = "policy"
	// ErrorTypeCacheUnavailable marks a cache that could not be reached;
	// callers must treat it as a miss, never as a request failure
	ErrorTypeCacheUnavailable ErrorType = "cache_unavailable"
	// ErrorTypeNoCandidates represents an empty retrieval result set
	ErrorTypeNoCandidates ErrorType = "no_candidates"
	// ErrorTypeLowRelevance means the best candidate exceeded the acceptance ceiling
	ErrorTypeLowRelevance ErrorType = "low_relevance"
	// ErrorTypeProvider represents embedding/generation/moderation failures (502)
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypePersistence represents database failures (500)
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeInternal represents internal server errors (500)
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetStatusCode returns the HTTP status code for the error
func (e *AppError) GetStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeProvider:
		return http.StatusBadGateway
	case ErrorTypePersistence, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Retryable:  false,
		Cause:      cause,
	}
}

// NewCacheUnavailableError wraps a cache lookup failure. Callers are
// expected to absorb it and fall through to regeneration.
func NewCacheUnavailableError(cause error) *AppError {
	return &AppError{
		Type:      ErrorTypeCacheUnavailable,
		Message:   "answer cache unavailable",
		Retryable: true,
		Cause:     cause,
	}
}

// NewProviderError creates a provider error
func NewProviderError(provider, message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeProvider,
		Message:    fmt.Sprintf("provider %s error: %s", provider, message),
		StatusCode: http.StatusBadGateway,
		Retryable:  true,
		Cause:      cause,
	}
}

// NewPersistenceError creates a persistence error
func NewPersistenceError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Retryable:  true,
		Cause:      cause,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Retryable:  false,
		Cause:      cause,
	}
}
