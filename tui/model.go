package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/render"
)

// eventMsg carries an engine event into the update loop.
type eventMsg engine.Event

// Model is the Bubble Tea model for a single local game.
type Model struct {
	engine *engine.GameEngine
	events <-chan engine.Event
	state  *engine.GameState
	cursor int
	keys   KeyMap
	help   help.Model
	err    error
	width  int
}

// NewModel creates a model driving eng. events should be fed by the
// engine's listener, see ChannelListener.
func NewModel(eng *engine.GameEngine, events <-chan engine.Event) *Model {
	return &Model{
		engine: eng,
		events: events,
		state:  eng.GetState(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// ChannelListener returns an engine listener that forwards events to ch,
// dropping them when ch is full. Every event carries a full snapshot, so a
// dropped tick only delays the next redraw.
func ChannelListener(ch chan<- engine.Event) engine.Listener {
	return func(ev engine.Event) {
		select {
		case ch <- ev:
		default:
		}
	}
}

func waitForEvent(events <-chan engine.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m *Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case eventMsg:
		// Listeners run outside the engine lock; drop older snapshots.
		if msg.State != nil && msg.State.Seq >= m.state.Seq {
			m.state = msg.State
		}
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	cols, rows := render.Layout(m.state.PairCount)
	row, col := m.cursor/cols, m.cursor%cols

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Close()
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.cursor = ((row+rows-1)%rows)*cols + col
	case key.Matches(msg, m.keys.Down):
		m.cursor = ((row+1)%rows)*cols + col
	case key.Matches(msg, m.keys.Left):
		m.cursor = row*cols + (col+cols-1)%cols
	case key.Matches(msg, m.keys.Right):
		m.cursor = row*cols + (col+1)%cols

	case key.Matches(msg, m.keys.Select):
		id, ok := render.CardAt(m.state, m.cursor+1)
		if !ok {
			return nil
		}
		result, err := m.engine.Select(id)
		if err != nil {
			m.err = err
			return nil
		}
		m.state = result.State

	case key.Matches(msg, m.keys.NewGame):
		m.apply(m.engine.NewGame(0))
		m.cursor = 0

	case key.Matches(msg, m.keys.Size):
		m.apply(m.engine.NewGame(nextSize(m.state.PairCount)))
		m.cursor = 0

	case key.Matches(msg, m.keys.PlayAgain):
		m.apply(m.engine.PlayAgain())
		m.cursor = 0

	case key.Matches(msg, m.keys.Dismiss):
		m.state = m.engine.DismissSummary()
	}
	return nil
}

func (m *Model) apply(state *engine.GameState, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.state = state
}

// nextSize cycles through the supported pair counts.
func nextSize(current int) int {
	sizes := engine.SupportedPairCounts
	for i, n := range sizes {
		if n == current {
			return sizes[(i+1)%len(sizes)]
		}
	}
	return sizes[0]
}

func (m *Model) View() string {
	var b strings.Builder
	state := m.state

	b.WriteString(titleStyle.Render(fmt.Sprintf("Memory Match · %d pairs", state.PairCount)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(render.Status(state)))
	b.WriteString("\n\n")

	for _, row := range render.Grid(state) {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, m.renderCard(cell))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	switch {
	case state.Summary != nil && !state.Summary.Dismissed:
		s := state.Summary
		b.WriteString("\n")
		b.WriteString(summaryStyle.Render(fmt.Sprintf("%s\nMoves: %d   Time: %s\n\nr: play again   esc: close",
			s.Message, s.Moves, s.Elapsed)))
		b.WriteString("\n")
	case state.Locked:
		b.WriteString(noticeStyle.Render("No match, flipping back..."))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(noticeStyle.Render(m.err.Error()))
		b.WriteString("\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderCard(cell render.Cell) string {
	var style lipgloss.Style
	switch cell.Card.State {
	case engine.FaceUp:
		style = faceUpStyle
	case engine.Matched:
		style = matchedStyle
	default:
		style = faceDownStyle
	}
	if cell.Index == m.cursor {
		style = style.BorderForeground(ColorCursor)
	}
	return style.Render(render.CardLabel(cell.Card))
}
