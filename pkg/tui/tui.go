// Package tui shows a running bot in the terminal: the current chunk as it
// was last observed, run counters and the most recent action.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/powersweeper/pkg/bot"
)

// UI is the terminal front end of one run.
type UI struct {
	program *tea.Program
}

// New creates the UI. stop is called when the user quits.
func New(title string, stop func(), opts ...tea.ProgramOption) *UI {
	m := newModel(title, stop)
	return &UI{program: tea.NewProgram(m, opts...)}
}

// Observer forwards bot events to the program. Events sent after the
// program exited are dropped.
func (u *UI) Observer() bot.Observer {
	return func(e bot.Event) {
		u.program.Send(EventMsg{Event: e})
	}
}

// Run blocks until the user quits or Quit is called.
func (u *UI) Run() error {
	if _, err := u.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}

// Quit ends the program.
func (u *UI) Quit() {
	u.program.Quit()
}
