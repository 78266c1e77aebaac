// Package mcp exposes the memory match game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a REST API
// request against a running server, so agents share sessions with browsers
// and the terminal client.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, delete_session
//   - game_state: board as numbered text, counters and timer
//   - select_card: flip a card by 1-based position or card ID
//   - new_game, play_again, dismiss_summary
//   - turn_history: resolved turns with their symbols
//   - list_configs, list_sizes, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The same MCP server is mounted on the HTTP API at /mcp.
package mcp
