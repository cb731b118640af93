// Package socket serves the real-time channel over WebSocket
// (github.com/gorilla/websocket) and plugs every connection into the hub.
//
// Each connection gets a read pump that hands text frames to the hub as
// commands and a write pump that drains a bounded outbound queue, sends
// keepalive pings and enforces write deadlines. When the client falls behind
// and the queue fills up, the connection is closed rather than letting fan-out
// block.
//
//	h, err := socket.NewHandler(cfg, registry,
//	    socket.WithAuthenticator(gate),
//	    socket.WithLogger(log),
//	)
//	r.Handle("/ws", h)
//
// Clients send {"type":"join","room":"user-42"} and receive
// {"event":"new_toast","data":{...}}.
package socket
