package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorBack    = lipgloss.Color("#4A6FA5")
	ColorFront   = lipgloss.Color("#F4F1DE")
	ColorMatched = lipgloss.Color("#81B29A")
	ColorCursor  = lipgloss.Color("#F2CC8F")
	ColorDim     = lipgloss.Color("#7A8599")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCursor)

	cardStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim)

	faceDownStyle = cardStyle.Foreground(ColorBack)
	faceUpStyle   = cardStyle.Foreground(ColorFront).BorderForeground(ColorFront)
	matchedStyle  = cardStyle.Foreground(ColorMatched).BorderForeground(ColorMatched)

	statusStyle = lipgloss.NewStyle().Foreground(ColorFront)
	noticeStyle = lipgloss.NewStyle().Italic(true).Foreground(ColorDim)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorMatched).
			Padding(0, 2)
)
