package hub

import "errors"

var (
	ErrHubClosed          = errors.New("hub: closed")
	ErrConnectionNotFound = errors.New("hub: connection not found")
	ErrInvalidRoom        = errors.New("hub: invalid room name")
	ErrMalformedCommand   = errors.New("hub: malformed command")
	ErrUnknownCommand     = errors.New("hub: unknown command")

	// Returned by Peer implementations.
	ErrSendBufferFull = errors.New("hub: peer send buffer full")
	ErrPeerClosed     = errors.New("hub: peer closed")
)
