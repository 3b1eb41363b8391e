package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/powersweeper/pkg/board"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	panels := []string{boardStyle.Render(renderBoard(m.board))}
	panels = append(panels, statsStyle.Render(m.statsPanel()))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n\n")

	if m.last != "" {
		b.WriteString(tipsStyle.Render("last: " + m.last))
		b.WriteString("\n")
	}
	b.WriteString(tipsStyle.Render("c: copy chunk • q: stop"))
	b.WriteString("\n")
	return b.String()
}

func (m model) statusLine() string {
	switch {
	case m.done && m.err != nil:
		return errorStyle.Render("stopped: " + m.err.Error())
	case m.done:
		return statusStyle.Render("finished")
	case m.quitting:
		return statusStyle.Render("stopping...")
	case !m.started:
		return fmt.Sprintf("%s %s", m.spinner.View(), "loading board...")
	default:
		return fmt.Sprintf("%s sweeping chunk %s", m.spinner.View(), m.location)
	}
}

func (m model) statsPanel() string {
	s := m.stats
	rows := []string{
		fmt.Sprintf("cycles      %d", s.Cycles),
		fmt.Sprintf("clears      %d", s.Clears),
		fmt.Sprintf("flags       %d", s.Flags),
		fmt.Sprintf("guesses     %d", s.Speculative),
		fmt.Sprintf("refused     %d", s.Refused),
		fmt.Sprintf("moves       %d", s.Navigations),
		fmt.Sprintf("chunks      %d", len(s.Chunks)),
	}
	if d := s.Duration(); d > 0 {
		rows = append(rows, fmt.Sprintf("elapsed     %s", d.Round(time.Second)))
	}
	return strings.Join(rows, "\n")
}

// renderBoard draws one colored glyph per cell.
func renderBoard(snap *board.Snapshot) string {
	if snap == nil {
		return tipsStyle.Render("waiting for observation")
	}

	var b strings.Builder
	for y, row := range snap.Cells {
		for x, cell := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			style, ok := cellStyles[cell.Kind]
			if !ok {
				style = cellStyles[board.KindUnknown]
			}
			b.WriteString(style.Render(string(cell.Glyph())))
		}
		if y < len(snap.Cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
