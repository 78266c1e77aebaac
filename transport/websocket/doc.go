// Package websocket pushes game state to browsers over WebSocket.
//
// The Hub keeps the connected clients grouped by session ID and implements
// session.EventSink, so every engine event (state_update, tick,
// mismatch_reverted, game_completed) is fanned out to the clients watching
// that session.
//
// Message Protocol:
//
// The connection is push only. Each frame carries one JSON document:
//
//	{"session_id": "ab12", "event": "tick", "game_state": {...}, "timestamp": 1700000000}
//
// Clients act through the REST API; frames they send are read and discarded
// to keep the ping/pong deadlines running.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	sessions := session.NewManager(session.WithEventSink(hub))
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"), nil)
//	})
//
// Publish never blocks the engine: when the hub queue is full the event is
// dropped, and a client whose buffer is full is disconnected.
package websocket
