package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/memory-match/game/engine"
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithMismatchDelay sets the delay used by presets that do not set their own.
// Zero flips mismatches back immediately.
func WithMismatchDelay(d time.Duration) Option {
	return func(s *gameServiceImpl) {
		s.delay = d
		s.delaySet = true
	}
}

// WithEngineOptions passes options to every engine the service creates.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *gameServiceImpl) { s.engineOpts = append(s.engineOpts, opts...) }
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions   SessionManager
	configs    ConfigManager
	delay      time.Duration
	delaySet   bool
	engineOpts []engine.Option
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	configID := req.ConfigID
	if configID != "" {
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configID, s.configIDs(), ErrConfigNotFound)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	if req.PairCount != 0 && req.PairCount != config.PairCount {
		if !engine.IsSupportedPairCount(req.PairCount) {
			return nil, fmt.Errorf("%w: %d (supported: %v)", engine.ErrInvalidPairCount, req.PairCount, engine.SupportedPairCounts)
		}
		sized := *config
		sized.PairCount = req.PairCount
		config = &sized
	}

	opts := append([]engine.Option{}, s.engineOpts...)
	if config.MismatchDelayMS == 0 && s.delaySet {
		opts = append(opts, engine.WithMismatchDelay(s.delay))
	}

	sess, err := s.sessions.Create("", configID, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().
		Str("session", sess.ID).
		Str("config", configID).
		Int("pairs", config.PairCount).
		Msg("session created")

	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session and stops its engine
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// SelectCard applies a card selection to the session's board
func (s *gameServiceImpl) SelectCard(ctx context.Context, sessionID, cardID string) (*engine.SelectResult, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := sess.Engine.Select(cardID)
	if err != nil {
		return nil, err
	}

	if result.Outcome != engine.OutcomeIgnored {
		log.Debug().
			Str("session", sess.ID).
			Uint64("board", result.State.BoardID).
			Str("outcome", string(result.Outcome)).
			Int("moves", result.State.Moves).
			Int("pairs", result.State.PairsFound).
			Msg("select")
	}
	if result.Outcome == engine.OutcomeMatch && result.State.Completed {
		log.Info().
			Str("session", sess.ID).
			Uint64("board", result.State.BoardID).
			Int("moves", result.State.Moves).
			Str("elapsed", result.State.Elapsed).
			Msg("completed")
	}
	return result, nil
}

// NewGame deals a new board. pairCount 0 keeps the current size.
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string, pairCount int) (*engine.GameState, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	state, err := sess.Engine.NewGame(pairCount)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session", sess.ID).
		Uint64("board", state.BoardID).
		Int("pairs", state.PairCount).
		Msg("new_game")
	return state, nil
}

// PlayAgain deals a new board of the same size
func (s *gameServiceImpl) PlayAgain(ctx context.Context, sessionID string) (*engine.GameState, error) {
	return s.NewGame(ctx, sessionID, 0)
}

// DismissSummary hides the completion summary
func (s *gameServiceImpl) DismissSummary(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.DismissSummary(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetTurnHistory returns paginated turn history of the current board
func (s *gameServiceImpl) GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	turns := []engine.TurnRecord{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				turns = append(turns, history[i])
			}
		} else {
			turns = append(turns, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// ListSizes returns the selectable board sizes and the default size
func (s *gameServiceImpl) ListSizes(ctx context.Context) *SizesInfo {
	def := s.configs.GetDefault()
	delay := def.MismatchDelay()
	if def.MismatchDelayMS == 0 && s.delaySet {
		delay = s.delay
	}
	return &SizesInfo{
		Supported:       append([]int(nil), engine.SupportedPairCounts...),
		Default:         def.PairCount,
		MismatchDelayMS: delay.Milliseconds(),
	}
}

func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) configIDs() []string {
	configs, err := s.configs.ListConfigs()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(configs))
	for _, cfg := range configs {
		ids = append(ids, cfg.ConfigID)
	}
	return ids
}
