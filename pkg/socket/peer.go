package socket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/notifier/pkg/hub"
	"github.com/dmitrymomot/notifier/pkg/logger"
)

// peer adapts one WebSocket connection to hub.Peer. Outbound messages go
// through a bounded queue drained by writePump; the queue channel is never
// closed, shutdown is signalled through done.
type peer struct {
	ws   *websocket.Conn
	cfg  Config
	log  *slog.Logger
	send chan hub.Message

	done      chan struct{}
	closeOnce sync.Once
}

func newPeer(ws *websocket.Conn, cfg Config, log *slog.Logger) *peer {
	return &peer{
		ws:   ws,
		cfg:  cfg,
		log:  log,
		send: make(chan hub.Message, cfg.SendBuffer),
		done: make(chan struct{}),
	}
}

// Send enqueues msg without blocking. A full queue means the client is not
// keeping up; the connection is closed and the message dropped.
func (p *peer) Send(msg hub.Message) error {
	select {
	case <-p.done:
		return hub.ErrPeerClosed
	default:
	}

	select {
	case p.send <- msg:
		return nil
	default:
		_ = p.Close()
		return hub.ErrSendBufferFull
	}
}

// Close stops the write pump, which in turn closes the socket.
func (p *peer) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

// readPump forwards inbound text frames to onMessage until the socket fails.
func (p *peer) readPump(ctx context.Context, onMessage func(context.Context, []byte)) {
	p.ws.SetReadLimit(p.cfg.ReadLimit)
	_ = p.ws.SetReadDeadline(time.Now().Add(p.cfg.PongWait))
	p.ws.SetPongHandler(func(string) error {
		return p.ws.SetReadDeadline(time.Now().Add(p.cfg.PongWait))
	})

	for {
		kind, data, err := p.ws.ReadMessage()
		if err != nil {
			p.logReadError(ctx, err)
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		onMessage(ctx, data)
	}
}

// writePump drains the queue and keeps the connection alive with pings.
func (p *peer) writePump(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = p.ws.Close()
	}()

	for {
		select {
		case msg := <-p.send:
			_ = p.ws.SetWriteDeadline(time.Now().Add(p.cfg.WriteWait))
			if err := p.ws.WriteJSON(msg); err != nil {
				p.log.DebugContext(ctx, "write failed", logger.Error(err))
				_ = p.Close()
				return
			}
		case <-ticker.C:
			if err := p.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(p.cfg.WriteWait)); err != nil {
				p.log.DebugContext(ctx, "ping failed", logger.Error(err))
				_ = p.Close()
				return
			}
		case <-p.done:
			_ = p.ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(p.cfg.WriteWait),
			)
			return
		}
	}
}

func (p *peer) logReadError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		p.log.WarnContext(ctx, "inbound frame exceeds read limit", slog.Int64("limit", p.cfg.ReadLimit))
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived),
		errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		p.log.DebugContext(ctx, "client disconnected")
	case websocket.IsUnexpectedCloseError(err):
		p.log.InfoContext(ctx, "unexpected close", logger.Error(err))
	default:
		p.log.DebugContext(ctx, "read failed", logger.Error(err))
	}
}
