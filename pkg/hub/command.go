package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/notifier/pkg/logger"
)

// Inbound command types. "subscribe" and "unsubscribe" are accepted as
// aliases for clients written against the older event names.
const (
	CommandJoin        = "join"
	CommandSubscribe   = "subscribe"
	CommandLeave       = "leave"
	CommandUnsubscribe = "unsubscribe"
	CommandPing        = "ping"
)

// Events the hub itself sends to a connection in reply to a command.
const (
	EventJoined = "joined"
	EventLeft   = "left"
	EventPong   = "pong"
	EventError  = "error"
)

// Command is an inbound control frame: {"type":"join","room":"user-42"}.
type Command struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

type roomAck struct {
	Room string `json:"room"`
}

type errorReply struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// OnMessage applies one inbound frame from connection id. Successful joins and
// leaves are acknowledged to the sender; rejected frames get an "error" event
// and the error is returned for the transport to log.
func (h *Hub) OnMessage(ctx context.Context, id ConnectionID, raw []byte) error {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		err = errors.Join(ErrMalformedCommand, err)
		h.reply(ctx, id, EventError, errorReply{Message: "malformed command"})
		return err
	}

	var err error
	switch strings.ToLower(cmd.Type) {
	case CommandJoin, CommandSubscribe:
		if err = h.Join(id, cmd.Room); err == nil {
			h.reply(ctx, id, EventJoined, roomAck{Room: cmd.Room})
			h.log.DebugContext(ctx, "joined room", logger.ConnectionID(id.String()), logger.Room(cmd.Room))
		}
	case CommandLeave, CommandUnsubscribe:
		if err = h.Leave(id, cmd.Room); err == nil {
			h.reply(ctx, id, EventLeft, roomAck{Room: cmd.Room})
			h.log.DebugContext(ctx, "left room", logger.ConnectionID(id.String()), logger.Room(cmd.Room))
		}
	case CommandPing:
		h.reply(ctx, id, EventPong, nil)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	if err != nil && !errors.Is(err, ErrConnectionNotFound) {
		h.reply(ctx, id, EventError, errorReply{Message: replyMessage(err), Type: cmd.Type})
	}
	return err
}

// reply sends a hub-generated event to a single connection.
func (h *Hub) reply(ctx context.Context, id ConnectionID, event string, body any) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			h.log.ErrorContext(ctx, "encode reply", logger.Error(err))
			return
		}
	}

	h.mu.RLock()
	conn, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := deliver(conn.peer, Message{Event: event, Payload: payload}); err != nil {
		h.observer.SendFailed(id, err)
		h.log.WarnContext(ctx, "reply send failed", logger.ConnectionID(id.String()), logger.Event(event), logger.Error(err))
	}
}

func replyMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRoom):
		return "invalid room name"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown command"
	default:
		return "command failed"
	}
}
