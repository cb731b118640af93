package handler

import "errors"

var (
	// ErrNilResponse is reported when a HandlerFunc returns no Response.
	ErrNilResponse = errors.New("handler returned nil response")
	// ErrRender wraps failures writing a Response. Headers may already be sent.
	ErrRender = errors.New("render response")
)
