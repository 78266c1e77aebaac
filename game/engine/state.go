package engine

import (
	"fmt"
	"time"
)

// CardView is a card as shown to a client. Face-down symbols are withheld.
type CardView struct {
	ID     string    `json:"id"`
	Symbol Symbol    `json:"symbol,omitempty"`
	State  CardState `json:"state"`
}

// Summary is presented once a board is complete
type Summary struct {
	Moves          int    `json:"moves"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
	PairCount      int    `json:"pair_count"`
	Message        string `json:"message"`
	Dismissed      bool   `json:"dismissed"`
}

// GameState is a point-in-time snapshot of an engine
type GameState struct {
	Seq            uint64     `json:"seq"`
	BoardID        uint64     `json:"board_id"`
	ConfigName     string     `json:"config_name"`
	PairCount      int        `json:"pair_count"`
	Cards          []CardView `json:"cards"`
	Phase          Phase      `json:"phase"`
	Locked         bool       `json:"locked"`
	Moves          int        `json:"moves"`
	PairsFound     int        `json:"pairs_found"`
	PairsLabel     string     `json:"pairs_label"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Elapsed        string     `json:"elapsed"`
	TimerRunning   bool       `json:"timer_running"`
	Completed      bool       `json:"completed"`
	Summary        *Summary   `json:"summary,omitempty"`
}

// SelectResult reports the outcome of one selection along with the new state
type SelectResult struct {
	Outcome Outcome    `json:"outcome"`
	CardIDs []string   `json:"card_ids,omitempty"`
	State   *GameState `json:"state"`
}

// EventType names a push notification emitted by the engine
type EventType string

const (
	EventStateUpdate      EventType = "state_update"
	EventTick             EventType = "tick"
	EventMismatchReverted EventType = "mismatch_reverted"
	EventGameCompleted    EventType = "game_completed"
)

// Event is delivered to listeners after every mutation.
type Event struct {
	Type      EventType  `json:"type"`
	BoardID   uint64     `json:"board_id"`
	State     *GameState `json:"state"`
	Timestamp int64      `json:"timestamp"`
}

// Listener receives engine events. It is called outside the engine lock and
// must not block for long.
type Listener func(Event)

// FormatElapsed renders whole seconds as MM:SS. Minutes keep counting past 99.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func newEvent(t EventType, state *GameState) Event {
	return Event{Type: t, BoardID: state.BoardID, State: state, Timestamp: time.Now().Unix()}
}
