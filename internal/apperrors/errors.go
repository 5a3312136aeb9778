// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the application error taxonomy. Services return these; handlers
// translate them into the response envelope via errors.As.
type Error struct {
	Code    string      `json:"code"`
	Status  int         `json:"-"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(message string, details interface{}) *Error {
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: message, Details: details}
}

func NotFound(resource string) *Error {
	return &Error{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: resource + " not found"}
}

func Forbidden(message string) *Error {
	return &Error{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: "UNAUTHORIZED", Status: http.StatusUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: "CONFLICT", Status: http.StatusConflict, Message: message}
}

// InvalidTransition is returned when a status change request is not in the
// legal transition table. The order is left unchanged.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Code:    "INVALID_TRANSITION",
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("cannot transition order from %q to %q", from, to),
	}
}

func Internal(err error) *Error {
	return &Error{Code: "INTERNAL_ERROR", Status: http.StatusInternalServerError, Message: "internal server error", cause: err}
}

// As unwraps err into an *Error, or nil when it is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code string) bool {
	if appErr := As(err); appErr != nil {
		return appErr.Code == code
	}
	return false
}
