// Copyright The CampusHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
)

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation  ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                     // Resource not found errors (404 Not Found)
	ErrorTypeConflict                     // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                     // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                  // Service unavailable errors (503 Service Unavailable)
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

// MalformedEventError reports a raw presence event whose leave time is at or
// before its join time. It rejects only the offending participant's events;
// detection continues for the rest of the session.
type MalformedEventError struct {
	ParticipantKey string
	JoinMinute     float64
	LeaveMinute    float64
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event for participant %q: leave (%.2fm) is not after join (%.2fm)",
		e.ParticipantKey, e.LeaveMinute, e.JoinMinute)
}

// InsufficientDataError indicates a session has too few participants or too
// short a meeting for cliff detection. It maps to the "skipped" status, not a
// hard failure.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data for detection: " + e.Reason
}

// RecalculationError indicates attendance recomputation failed after a review
// state transition already took effect. The review decision is durable; the
// caller can retry recalculation without re-deciding the cliff.
type RecalculationError struct {
	SessionUID string
	Err        error
}

func (e *RecalculationError) Error() string {
	return fmt.Sprintf("attendance recalculation failed for session %q: %v", e.SessionUID, e.Err)
}

func (e *RecalculationError) Unwrap() error {
	return e.Err
}
