// Package api provides the HTTP surface of the memory match server.
//
// The api package implements:
//   - REST endpoints for sessions and game operations
//   - Preset and board size listing
//   - WebSocket upgrade for push updates
//   - The MCP JSON-RPC endpoint
//   - The embedded browser client
//
// Endpoints:
//
// Game Operations:
//   - GET  /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/select - Flip a card: {"card_id": "..."}
//   - POST /api/sessions/{id}/new-game - New board: {"pair_count": 12} (optional)
//   - POST /api/sessions/{id}/play-again - New board of the same size
//   - POST /api/sessions/{id}/dismiss - Hide the completion summary
//   - GET  /api/sessions/{id}/history - Turn history (page, limit, order)
//
// Session Management:
//   - POST   /api/sessions - Create session: {"config_id": "quick", "pair_count": 6}
//   - GET    /api/sessions - List sessions (sort, order, limit)
//   - GET    /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get a preset
//   - GET /api/sizes - Supported pair counts and mismatch delay
//
// Other:
//   - GET  /health
//   - GET  /ws?session={id} - WebSocket push updates
//   - POST /mcp - MCP JSON-RPC
//   - GET  / - Browser client
//
// Error Handling:
//
// Errors are returned as JSON with a status derived from the error:
//
//	{"error": "session ab12: session not found"}
//
// Unknown sessions, presets and cards map to 404, unsupported sizes and
// invalid presets to 400, and a closed engine to 410.
package api
