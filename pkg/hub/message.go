package hub

import "encoding/json"

// Message is one outbound (event, payload) pair. Payload is opaque JSON the
// hub never inspects.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"data,omitempty"`
}

// ConnectionID identifies a live connection. IDs are never reused.
type ConnectionID string

func (id ConnectionID) String() string { return string(id) }

// Peer is the send capability a transport hands to the hub.
//
// Send must not block: implementations enqueue into a bounded buffer and
// return ErrSendBufferFull (or ErrPeerClosed) instead of waiting.
type Peer interface {
	Send(msg Message) error
	Close() error
}

// Observer receives registry lifecycle notifications. Implementations must be
// cheap and non-blocking; they are called outside the registry lock.
type Observer interface {
	Connected(total int)
	Disconnected(total int)
	SendFailed(id ConnectionID, err error)
}

type nopObserver struct{}

func (nopObserver) Connected(int) {}
func (nopObserver) Disconnected(int) {}
func (nopObserver) SendFailed(ConnectionID, error) {}
