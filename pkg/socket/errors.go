package socket

import "errors"

var ErrAuthenticatorRequired = errors.New("socket: authentication required but no authenticator configured")
