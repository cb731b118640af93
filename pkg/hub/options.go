package hub

import (
	"log/slog"

	"github.com/google/uuid"
)

// Option configures a Hub.
type Option func(*Hub)

func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithObserver registers lifecycle callbacks, typically metrics.
func WithObserver(o Observer) Option {
	return func(h *Hub) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithIDGenerator replaces the UUIDv4 connection id generator. The generator
// must never return the same id twice.
func WithIDGenerator(fn func() string) Option {
	return func(h *Hub) {
		if fn != nil {
			h.newID = fn
		}
	}
}

// WithMaxRoomNameLength caps room name length. Default 256.
func WithMaxRoomNameLength(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxRoomLen = n
		}
	}
}

func defaultIDGenerator() string { return uuid.NewString() }
