package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the error envelope.
const (
	CodeInternal               = "INTERNAL_ERROR"
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	CodeMissingToken           = "MISSING_TOKEN"
	CodeInvalidToken           = "INVALID_TOKEN"
	CodeExpiredToken           = "EXPIRED_TOKEN"
	CodeUnauthorizedService    = "UNAUTHORIZED_SERVICE"
	CodeInsufficientPermission = "INSUFFICIENT_PERMISSIONS"
	CodeSMTP                   = "SMTP_ERROR"
	CodeFirebase               = "FIREBASE_ERROR"
	CodeWebSocket              = "WEBSOCKET_ERROR"
	CodeTemplateNotFound       = "TEMPLATE_NOT_FOUND"
	CodeTemplateCompile        = "TEMPLATE_COMPILE_ERROR"
	CodeRateLimited            = "RATE_LIMIT_EXCEEDED"
)

// AppError is an operational error with a status and a stable code.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details any
	cause   error
}

// NewAppError creates an AppError.
func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// Wrap returns a copy of e with cause attached. The cause is logged but never
// rendered.
func (e *AppError) Wrap(cause error) *AppError {
	c := *e
	c.cause = cause
	return &c
}

// WithDetails returns a copy of e carrying details for the response body.
func (e *AppError) WithDetails(details any) *AppError {
	c := *e
	c.Details = details
	return &c
}

// Is matches another AppError by code so wrapped copies compare equal to the
// package-level values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

var (
	ErrInternal               = NewAppError(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrValidation             = NewAppError(http.StatusBadRequest, CodeValidation, "Validation failed")
	ErrNotFound               = NewAppError(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrMethodNotAllowed       = NewAppError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
	ErrMissingToken           = NewAppError(http.StatusUnauthorized, CodeMissingToken, "Authentication token is missing")
	ErrInvalidToken           = NewAppError(http.StatusUnauthorized, CodeInvalidToken, "Authentication token is invalid")
	ErrExpiredToken           = NewAppError(http.StatusUnauthorized, CodeExpiredToken, "Authentication token has expired")
	ErrUnauthorizedService    = NewAppError(http.StatusForbidden, CodeUnauthorizedService, "Service is not authorized")
	ErrInsufficientPermission = NewAppError(http.StatusForbidden, CodeInsufficientPermission, "Insufficient permissions")
	ErrSMTP                   = NewAppError(http.StatusInternalServerError, CodeSMTP, "Failed to send email")
	ErrFirebase               = NewAppError(http.StatusInternalServerError, CodeFirebase, "Failed to send push notification")
	ErrWebSocket              = NewAppError(http.StatusInternalServerError, CodeWebSocket, "Failed to emit socket event")
	ErrTemplateNotFound       = NewAppError(http.StatusInternalServerError, CodeTemplateNotFound, "Email template not found")
	ErrTemplateCompile        = NewAppError(http.StatusInternalServerError, CodeTemplateCompile, "Failed to render email template")
	ErrRateLimited            = NewAppError(http.StatusTooManyRequests, CodeRateLimited, "Too many requests")
)
