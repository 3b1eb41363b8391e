package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/powersweeper/pkg/board"
)

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	coralPink   = lipgloss.Color("#FFCCCB")
	mintGreen   = lipgloss.Color("#A8E6CF")
	skyBlue     = lipgloss.Color("#A7C7E7")
	butter      = lipgloss.Color("#FDFD96")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Padding(0, 1)
)

// cellStyles colors each kind of cell on the board.
var cellStyles = map[board.Kind]lipgloss.Style{
	board.KindUntouched: lipgloss.NewStyle().Foreground(mutedGray),
	board.KindNumber:    lipgloss.NewStyle().Foreground(skyBlue),
	board.KindFlagged:   lipgloss.NewStyle().Foreground(coralPink).Bold(true),
	board.KindBomb:      lipgloss.NewStyle().Foreground(salmonPink).Bold(true),
	board.KindWaiting:   lipgloss.NewStyle().Foreground(butter),
	board.KindUnknown:   lipgloss.NewStyle().Foreground(brightWhite),
}
