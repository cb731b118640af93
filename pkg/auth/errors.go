package auth

import "errors"

var (
	ErrMissingCredential       = errors.New("auth: missing or malformed bearer credential")
	ErrInvalidCredential       = errors.New("auth: invalid credential")
	ErrExpiredCredential       = errors.New("auth: credential expired")
	ErrUnauthorizedCaller      = errors.New("auth: caller is not allow-listed")
	ErrInsufficientPermissions = errors.New("auth: insufficient permissions")
	ErrNotAuthenticated        = errors.New("auth: no authenticated caller in context")
)
