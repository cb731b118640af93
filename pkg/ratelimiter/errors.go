package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limit configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	// ErrLimitExceeded is passed to the error responder when a caller ran out of tokens.
	ErrLimitExceeded = errors.New("rate limit exceeded")
)
