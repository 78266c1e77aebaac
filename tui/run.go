package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wricardo/memory-match/game/engine"
)

// Run plays a local game in the terminal until the user quits.
func Run(config *engine.GameConfig, opts ...engine.Option) error {
	events := make(chan engine.Event, engine.WebSocketBufferSize)
	opts = append(opts, engine.WithListener(ChannelListener(events)))

	eng, err := engine.NewEngine(config, opts...)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	defer eng.Close()

	p := tea.NewProgram(NewModel(eng, events), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
