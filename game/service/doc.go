// Package service provides the business logic layer for the memory match game.
//
// The service package implements:
//   - Multi-session game management
//   - Preset selection and board size overrides
//   - Card selection, new game, play again and summary dismissal
//   - Paginated turn history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game preset loading.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine; the engine serializes
// inputs and timer callbacks for that session, so the service holds no lock
// of its own.
//
// Usage:
//
//	sessionMgr := session.NewManager(session.WithEventSink(hub))
//	configMgr, _ := config.NewManager("")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "quick"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.SelectCard(ctx, info.ID, info.GameState.Cards[0].ID)
package service
