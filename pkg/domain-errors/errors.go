// Package domainerrors defines the coded errors the service reports to its
// callers. Stores and remote clients return infrastructure sentinels; services
// translate those into one of these codes so the transport layer can map them
// to HTTP statuses without inspecting error strings.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of caller-visible failure.
type Code string

const (
	CodeInvalidRatingValue Code = "INVALID_RATING_VALUE"
	CodeUserIneligible     Code = "USER_INACTIVE"
	CodeCourseIneligible   Code = "COURSE_NOT_FOUND"
	CodeRatingNotFound     Code = "RATING_NOT_FOUND"
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// Error carries a stable code, a human-readable message, and optional
// structured details echoed back in the error response body.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds a coded error without details.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewWithDetails builds a coded error carrying structured details.
func NewWithDetails(code Code, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// HasCode reports whether err is (or wraps) a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to the status the transport layer should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRatingValue, CodeUserIneligible, CodeValidation:
		return http.StatusBadRequest
	case CodeCourseIneligible, CodeRatingNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
