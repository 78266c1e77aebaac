package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/render"
	"github.com/wricardo/memory-match/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Memory Match",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Memory Match - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find every pair of matching symbols. Cards start face down; flip two per turn.

AVAILABLE TOOLS:
- create_session: Create a new game session (optional preset and size)
- list_sessions / get_session / delete_session: Session management
- game_state: Current board with numbered positions
- select_card: Flip a card by position (1-based) or card_id
- new_game: Deal a new board, optionally with a different size
- play_again: Deal a new board of the same size
- dismiss_summary: Close the completion summary
- turn_history: Resolved turns with symbols and outcomes
- list_configs / list_sizes: Presets and board sizes
- game_instructions: Rules and strategy

NOTE: Symbols of face-down cards are hidden. Remember what you have seen!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func pairCountProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"enum":        engine.SupportedPairCounts,
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset and board size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use, see list_configs (optional)",
				},
				"pair_count": pairCountProperty("Number of pairs, overrides the preset (optional)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and stop its timers",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, counters and timer",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_card",
		Description: "Flip a card face up. Identify it by its 1-based board position or by card_id.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"position": map[string]interface{}{
					"type":        "integer",
					"description": "1-based position as printed by game_state",
				},
				"card_id": map[string]interface{}{
					"type":        "string",
					"description": "Card ID (alternative to position)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSelectCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Deal a new shuffled board, optionally changing its size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"pair_count": pairCountProperty("Number of pairs (optional, keeps the current size)"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_again",
		Description: "Deal a new board of the same size",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handlePlayAgain)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "dismiss_summary",
		Description: "Dismiss the completion summary without dealing a new board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleDismissSummary)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get resolved turns for the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order, newest first by default",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sizes",
		Description: "List the selectable board sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSizes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := service.CreateSessionRequest{
		ConfigID:  request.GetString("config_id", ""),
		PairCount: request.GetInt("pair_count", 0),
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session created: %s\n\n%s", session.ID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Sessions []service.SessionInfo `json:"sessions"`
		Count    int                   `json:"count"`
	}
	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		progress := ""
		if s.GameState != nil {
			progress = fmt.Sprintf(", Pairs: %s", s.GameState.PairsLabel)
		}
		result += fmt.Sprintf("- %s (Config: %s%s, Created: %s)\n",
			s.ID, s.ConfigName, progress, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.apiCall(ctx, http.MethodDelete, sessionPath(sessionID, ""), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := c.fetchState(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(state)), nil
}

func (c *Client) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cardID := request.GetString("card_id", "")
	if cardID == "" {
		position := request.GetInt("position", 0)
		if position == 0 {
			return mcp.NewToolResultError("either position or card_id is required"), nil
		}
		state, err := c.fetchState(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, ok := render.CardAt(state, position)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("position %d is out of range (1-%d)", position, len(state.Cards))), nil
		}
		cardID = id
	}

	var result engine.SelectResult
	body := map[string]string{"card_id": cardID}
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/select"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSelectResult(&result)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]int{"pair_count": request.GetInt("pair_count", 0)}
	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/new-game"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("New board dealt.\n\n" + formatGameState(&state)), nil
}

func (c *Client) handlePlayAgain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/play-again"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("New board dealt.\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleDismissSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/dismiss"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Presets:\n\n"
	for _, config := range configs {
		cols, rows := render.Layout(config.PairCount)
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Pairs: %d (%dx%d), Mismatch delay: %dms\n\n",
			config.Name, config.ConfigID, config.Description, config.PairCount, cols, rows, config.MismatchDelayMS)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSizes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sizes service.SizesInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/sizes", nil, &sizes); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Board Sizes:\n\n")
	for _, n := range sizes.Supported {
		cols, rows := render.Layout(n)
		marker := ""
		if n == sizes.Default {
			marker = " (default)"
		}
		fmt.Fprintf(&b, "• %d pairs: %d cards on a %dx%d grid%s\n", n, 2*n, cols, rows, marker)
	}
	fmt.Fprintf(&b, "\nMismatched cards flip back after %dms.\n", sizes.MismatchDelayMS)
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🃏 Memory Match - Instructions

GAME OBJECTIVE:
Uncover every pair of matching symbols in as few moves as possible.

HOW A TURN WORKS:
• Select a face-down card: it flips face up and the timer starts on the first flip
• Select a second face-down card: that completes one move
• Same symbol: both cards stay face up as a matched pair
• Different symbols: the board locks and both cards flip back after the mismatch delay
• Selections while the board is locked, or on face-up and matched cards, are ignored

BOARD LEGEND (game_state):
• ?? - Face-down card (symbol hidden)
• <symbol> - Face-up card
• <symbol>* - Matched card
• Positions are numbered from 1, left to right and top to bottom

BOARD SIZES:
• 6, 8, 12 or 18 pairs (see list_sizes)
• new_game with pair_count switches size; play_again keeps it

WINNING:
• When the last pair is found the timer stops and a summary shows moves and time
• dismiss_summary closes it; play_again deals a fresh board

STRATEGY FOR AGENTS:
• Record every symbol you see with its position; face-down symbols are never revealed again
• When you flip a first card whose partner you have already seen, select that partner
• Otherwise flip an unseen card to learn something new
• turn_history lists the symbols of every resolved turn

Good luck! 🧠`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) fetchState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast accessed: %s\n\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	return result + formatGameState(session.GameState)
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}

	var b strings.Builder
	cols, rows := render.Layout(state.PairCount)
	fmt.Fprintf(&b, "Board %d: %d pairs (%dx%d), phase %s\n", state.BoardID, state.PairCount, cols, rows, state.Phase)
	b.WriteString(render.Text(state))

	if state.Completed {
		b.WriteString("\n🎉 ALL PAIRS FOUND!\n")
	}
	return b.String()
}

func formatSelectResult(result *engine.SelectResult) string {
	var header string
	switch result.Outcome {
	case engine.OutcomeFlipped:
		header = "Card flipped. Pick a second card."
	case engine.OutcomeMatch:
		header = "✓ Match!"
	case engine.OutcomeMismatch:
		header = "✗ No match. The cards flip back shortly."
	default:
		header = "Selection ignored (board locked, or card not face down)."
	}

	if result.State != nil && result.Outcome != engine.OutcomeIgnored {
		var symbols []string
		for _, id := range result.CardIDs {
			for _, card := range result.State.Cards {
				if card.ID == id && card.Symbol != "" {
					symbols = append(symbols, string(card.Symbol))
				}
			}
		}
		if len(symbols) > 0 {
			header += " Revealed: " + strings.Join(symbols, " ")
		}
	}
	return header + "\n\n" + formatGameState(result.State)
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Turn History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	for _, turn := range history.Turns {
		status := "✓"
		if turn.Outcome != engine.OutcomeMatch {
			status = "✗"
		}
		result += fmt.Sprintf("%d. %s %s / %s %s\n",
			turn.Move, status, turn.Symbols[0], turn.Symbols[1], turn.Outcome)
	}
	if len(history.Turns) == 0 {
		result += "(no turns yet)\n"
	}
	return result
}
