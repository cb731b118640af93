package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// ServiceID records the calling service identifier under the key "service_id".
func ServiceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("service_id", id)
}

// UserID records the end-user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// ConnectionID records a real-time connection identifier.
func ConnectionID(id string) slog.Attr {
	return slog.String("connection_id", id)
}

// Room records a room name.
func Room(name string) slog.Attr {
	return slog.String("room", name)
}

// Channel records the delivery channel (mail, push, socket).
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// Template records the mail template name.
func Template(name string) slog.Attr {
	return slog.String("template", name)
}

// Topic records a push topic.
func Topic(name string) slog.Attr {
	return slog.String("topic", name)
}

// MessageID records the provider message identifier under the key "message_id".
func MessageID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("message_id", id)
}

// Recipients records how many recipients an operation reached.
func Recipients(n int) slog.Attr {
	return slog.Int("recipients", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
