package service

import (
	"time"

	"github.com/wricardo/memory-match/game/engine"
)

// CreateSessionRequest selects the preset and optionally overrides its size
type CreateSessionRequest struct {
	ConfigID  string `json:"config_id,omitempty"`
	PairCount int    `json:"pair_count,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnRecord `json:"turns"`
	TotalTurns  int                 `json:"total_turns"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game preset
type ConfigInfo struct {
	Filename        string `json:"filename"`
	ConfigID        string `json:"config_id"` // The identifier to use for session creation
	Name            string `json:"name"`      // Display name
	Description     string `json:"description"`
	PairCount       int    `json:"pair_count"`
	MismatchDelayMS int    `json:"mismatch_delay_ms"`
}

// SizesInfo lists the selectable board sizes
type SizesInfo struct {
	Supported       []int `json:"supported"`
	Default         int   `json:"default"`
	MismatchDelayMS int64 `json:"mismatch_delay_ms"`
}
