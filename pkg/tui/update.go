package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/powersweeper/pkg/bot"
)

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.stop()
			return m, tea.Quit
		case "c":
			m.copyBoard()
		}
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleEvent(e bot.Event) (tea.Model, tea.Cmd) {
	m.stats = e.Stats
	m.location = e.Location

	switch e.Type {
	case bot.EventStarted:
		m.started = true
		m.last = fmt.Sprintf("started at chunk %s", e.Location)
	case bot.EventObserved:
		m.board = e.Chunk
	case bot.EventDecided:
		if e.Decision != nil {
			m.last = e.Decision.String()
		}
	case bot.EventActed:
		if e.Action != nil {
			m.last = e.Action.String()
			if !e.Applied {
				m.last += " (refused)"
			}
		}
	case bot.EventMoved:
		m.board = nil
		m.last = fmt.Sprintf("moved to chunk %s", e.Location)
	case bot.EventStopped:
		m.done = true
		m.err = e.Err
	}
	return m, nil
}

// copyBoard puts the glyphs of the shown chunk on the clipboard.
func (m *model) copyBoard() {
	if m.board == nil {
		m.last = "nothing to copy yet"
		return
	}
	if err := m.copy(m.board.String()); err != nil {
		m.last = fmt.Sprintf("clipboard unavailable: %v", err)
		return
	}
	m.last = fmt.Sprintf("copied chunk %s", m.board.Location)
}
