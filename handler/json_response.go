package handler

import (
	"encoding/json"
	"net/http"
)

// SuccessBody is the envelope for successful responses.
type SuccessBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorBody is the envelope for failed responses.
type ErrorBody struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return WriteJSON(w, j.status, j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON renders v as the response body with status 200 unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Success renders the {message, details} envelope.
func Success(message string, details any, opts ...JSONOption) Response {
	return JSON(SuccessBody{Message: message, Details: details}, opts...)
}

// Accepted renders the success envelope with status 202.
func Accepted(message string, details any) Response {
	return Success(message, details, WithJSONStatus(http.StatusAccepted))
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error hands err to the route's error handler.
func Error(err error) Response {
	return errorResponse{err: err}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
