// Package hub keeps track of live real-time connections and the rooms they
// joined, and fans events out to them.
//
// The hub is transport agnostic. A transport registers each connection with
// Accept, passing a Peer whose Send enqueues without blocking, forwards
// inbound frames to OnMessage and calls Disconnect when the connection ends:
//
//	h := hub.New(hub.WithLogger(log), hub.WithObserver(metrics))
//	id, err := h.Accept(peer)
//	defer h.Disconnect(id)
//	_ = h.OnMessage(ctx, id, []byte(`{"type":"join","room":"user-42"}`))
//
//	h.EmitToRoom(ctx, "user-42", "new_toast", payload)
//	h.Broadcast(ctx, "maintenance", payload)
//
// Rooms are created by the first join and disappear with their last member.
// Emitting to a room nobody joined is a silent no-op. Broadcast and
// EmitToRoom return once every send has been enqueued; a failing peer is
// logged and skipped.
package hub
