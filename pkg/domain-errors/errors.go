package domerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error so transports can map it without inspecting
// message text.
type Code string

const (
	CodeBadRequest      Code = "bad_request"
	CodeValidation      Code = "validation_failed"
	CodeIncomplete      Code = "incomplete_steps"
	CodeNotPending      Code = "not_pending"
	CodeUnsupportedType Code = "unsupported_format"
	CodeTooLarge        Code = "size_exceeded"
	CodePermission      Code = "permission_denied"
	CodeNotFound        Code = "not_found"
	CodeUnavailable     Code = "unavailable"
	CodeInternal        Code = "internal"
)

// Error is a coded domain error. Services return these; httputil translates
// them to HTTP statuses at the edge.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches an underlying cause while keeping the coded surface.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, wrapped: err}
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// HTTPStatus maps the code to a status. Unknown codes map to 500 so a missed
// mapping fails loudly in review rather than leaking a 200.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeIncomplete, CodeUnsupportedType:
		return http.StatusBadRequest
	case CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodePermission:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotPending:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf extracts the code from err, or CodeInternal when err is not coded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
