// Package session provides session management for the memory match game.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Expiry of idle sessions
//   - Event forwarding from each engine to an EventSink
//
// Sessions use 4-character hex IDs and are looked up case-insensitively.
// Nothing is persisted: deleting or expiring a session closes its engine,
// which cancels the elapsed timer and any pending mismatch revert.
//
// Usage:
//
//	manager := session.NewManager(session.WithEventSink(hub))
//
//	sess, err := manager.Create("", "classic", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Periodically drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
