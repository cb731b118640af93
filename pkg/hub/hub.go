package hub

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/notifier/pkg/logger"
)

type connection struct {
	peer  Peer
	rooms map[string]struct{}
}

type target struct {
	id   ConnectionID
	peer Peer
}

// Hub is the registry of live connections and the rooms they joined.
//
// Both maps are guarded by one RWMutex: accept, join, leave and disconnect
// take the write lock; fan-out snapshots its targets under the read lock and
// delivers after releasing it, so a stalled peer never holds up the registry.
// A room exists exactly while it has at least one member.
type Hub struct {
	mu     sync.RWMutex
	conns  map[ConnectionID]*connection
	rooms  map[string]map[ConnectionID]struct{}
	closed bool

	log        *slog.Logger
	observer   Observer
	newID      func() string
	maxRoomLen int
}

// New creates an empty hub. One hub is created per process and passed to the
// dispatch service and the socket transport.
func New(opts ...Option) *Hub {
	h := &Hub{
		conns:      make(map[ConnectionID]*connection),
		rooms:      make(map[string]map[ConnectionID]struct{}),
		log:        logger.Discard(),
		observer:   nopObserver{},
		newID:      defaultIDGenerator,
		maxRoomLen: 256,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("hub"))
	return h
}

// Accept registers peer with an empty room set and returns its new id.
func (h *Hub) Accept(peer Peer) (ConnectionID, error) {
	if peer == nil {
		return "", fmt.Errorf("hub: nil peer")
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return "", ErrHubClosed
	}
	id := ConnectionID(h.newID())
	for _, exists := h.conns[id]; exists; _, exists = h.conns[id] {
		id = ConnectionID(h.newID())
	}
	h.conns[id] = &connection{peer: peer, rooms: make(map[string]struct{})}
	total := len(h.conns)
	h.mu.Unlock()

	h.observer.Connected(total)
	h.log.Debug("connection accepted", logger.ConnectionID(id.String()))
	return id, nil
}

// Join adds id to room, creating the room if needed. Joining a room twice is
// a no-op.
func (h *Hub) Join(id ConnectionID, room string) error {
	if err := h.validRoom(room); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[id]
	if !ok {
		return ErrConnectionNotFound
	}

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[ConnectionID]struct{})
		h.rooms[room] = members
	}
	members[id] = struct{}{}
	conn.rooms[room] = struct{}{}
	return nil
}

// Leave removes id from room. Leaving a room the connection is not in is a
// no-op. The room is dropped once its last member leaves.
func (h *Hub) Leave(id ConnectionID, room string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[id]
	if !ok {
		return ErrConnectionNotFound
	}
	delete(conn.rooms, room)
	h.removeMemberLocked(room, id)
	return nil
}

// Disconnect removes id from every room it joined and then from the
// registry. Calling it for an unknown or already removed id does nothing.
func (h *Hub) Disconnect(id ConnectionID) {
	h.mu.Lock()
	conn, ok := h.conns[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	for room := range conn.rooms {
		h.removeMemberLocked(room, id)
	}
	delete(h.conns, id)
	total := len(h.conns)
	h.mu.Unlock()

	h.observer.Disconnected(total)
	h.log.Debug("connection removed", logger.ConnectionID(id.String()))
}

// Broadcast sends the event to every connection registered at call time and
// returns how many sends were enqueued. Per-peer failures are logged and
// reported to the observer; they never stop delivery to other peers.
func (h *Hub) Broadcast(ctx context.Context, event string, payload []byte) int {
	h.mu.RLock()
	targets := make([]target, 0, len(h.conns))
	for id, conn := range h.conns {
		targets = append(targets, target{id: id, peer: conn.peer})
	}
	h.mu.RUnlock()

	return h.fanOut(ctx, targets, Message{Event: event, Payload: payload})
}

// EmitToRoom sends the event to the members of room at call time. A room
// without members does not exist, so emitting to it sends nothing and is not
// an error.
func (h *Hub) EmitToRoom(ctx context.Context, room, event string, payload []byte) int {
	h.mu.RLock()
	members := h.rooms[room]
	targets := make([]target, 0, len(members))
	for id := range members {
		if conn, ok := h.conns[id]; ok {
			targets = append(targets, target{id: id, peer: conn.peer})
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return 0
	}
	return h.fanOut(ctx, targets, Message{Event: event, Payload: payload})
}

// Close closes every peer, empties the registry and rejects further accepts.
// It is safe to call more than once.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	peers := make([]Peer, 0, len(h.conns))
	for _, conn := range h.conns {
		peers = append(peers, conn.peer)
	}
	clear(h.conns)
	clear(h.rooms)
	h.mu.Unlock()

	for _, p := range peers {
		_ = p.Close()
	}
	h.observer.Disconnected(0)
	h.log.Info("hub closed", slog.Int("connections", len(peers)))
	return nil
}

// Rooms returns the sorted rooms id belongs to.
func (h *Hub) Rooms(id ConnectionID) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.conns[id]
	if !ok {
		return nil, ErrConnectionNotFound
	}
	rooms := make([]string, 0, len(conn.rooms))
	for r := range conn.rooms {
		rooms = append(rooms, r)
	}
	slices.Sort(rooms)
	return rooms, nil
}

// Members returns the sorted member ids of room; nil when the room does not
// exist.
func (h *Hub) Members(room string) []ConnectionID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[room]
	if !ok {
		return nil
	}
	ids := make([]ConnectionID, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (h *Hub) IsMember(id ConnectionID, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room][id]
	return ok
}

func (h *Hub) HasRoom(room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room]
	return ok
}

func (h *Hub) IsConnected(id ConnectionID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[id]
	return ok
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) removeMemberLocked(room string, id ConnectionID) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) validRoom(room string) error {
	if strings.TrimSpace(room) == "" || len(room) > h.maxRoomLen {
		return ErrInvalidRoom
	}
	return nil
}

func (h *Hub) fanOut(ctx context.Context, targets []target, msg Message) int {
	sent := 0
	for _, t := range targets {
		if err := deliver(t.peer, msg); err != nil {
			h.observer.SendFailed(t.id, err)
			h.log.WarnContext(ctx, "peer send failed",
				logger.ConnectionID(t.id.String()),
				logger.Event(msg.Event),
				logger.Error(err),
			)
			continue
		}
		sent++
	}
	return sent
}

// deliver isolates a misbehaving Peer implementation from its siblings.
func deliver(p Peer, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hub: peer send panicked: %v", r)
		}
	}()
	return p.Send(msg)
}
